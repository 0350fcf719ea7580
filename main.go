// Command energytrends fetches energy and economic indicators for a fixed
// set of countries from the World Bank API, merges them into one tidy table,
// derives ratio metrics, and renders trend, scatter, cluster and forecast
// charts. Running it recreates data/processed_data.csv, data/report.xlsx and
// every figure under figures/.
package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"energytrends/charts"
	"energytrends/dataset"
	"energytrends/forecast"
	"energytrends/worldbank"
)

type config struct {
	countries     []string
	targetCountry string
	clusterCount  int
	forecastYears int
	dataDir       string
	figureDir     string
}

func defaultConfig() config {
	return config{
		countries: []string{
			"USA", // United States
			"CHN", // China
			"IND", // India
			"JPN", // Japan
			"RUS", // Russian Federation
			"DEU", // Germany
			"GBR", // United Kingdom
			"FRA", // France
			"BRA", // Brazil
			"CAN", // Canada
			"AUS", // Australia
			"ZAF", // South Africa
			"MEX", // Mexico
			"SAU", // Saudi Arabia
			"IDN", // Indonesia
			"KOR", // Korea, Rep.
			"ITA", // Italy
			"ESP", // Spain
			"TUR", // Turkey
		},
		targetCountry: "USA",
		clusterCount:  3,
		forecastYears: 10,
		dataDir:       "data",
		figureDir:     "figures",
	}
}

func main() {
	cfg := defaultConfig()

	fmt.Printf("Fetching %d indicators for %d countries...\n", len(dataset.Indicators()), len(cfg.countries))

	if err := os.MkdirAll(cfg.dataDir, 0o755); err != nil {
		log.Fatal("creating data dir:", err)
	}
	if err := os.MkdirAll(cfg.figureDir, 0o755); err != nil {
		log.Fatal("creating figure dir:", err)
	}

	rows, err := dataset.Build(worldbank.NewClient(), cfg.countries)
	if err != nil {
		log.Fatal("building dataset:", err)
	}
	fmt.Printf("Merged dataset built: %d rows\n", len(rows))

	csvPath := filepath.Join(cfg.dataDir, "processed_data.csv")
	if err := dataset.WriteCSV(rows, csvPath); err != nil {
		log.Fatal("writing CSV:", err)
	}
	fmt.Println("Wrote", csvPath)

	reportPath := filepath.Join(cfg.dataDir, "report.xlsx")
	if err := dataset.WriteReport(rows, reportPath); err != nil {
		log.Fatal("writing Excel report:", err)
	}
	fmt.Println("Wrote", reportPath)

	err = charts.TrendLines(rows, "renewable_share",
		"Renewable energy share over time",
		"Renewable share (% of final energy consumption)",
		filepath.Join(cfg.figureDir, "renewable_share_trends.png"))
	if err != nil {
		log.Fatal("renewable share trends:", err)
	}

	err = charts.TrendLines(rows, "energy_use_per_capita",
		"Energy use per capita over time",
		"Energy use per capita (kg of oil equivalent)",
		filepath.Join(cfg.figureDir, "energy_use_per_capita_trends.png"))
	if err != nil {
		log.Fatal("energy use trends:", err)
	}

	latestYear, ok := dataset.LatestYear(rows)
	if !ok {
		log.Fatal("merged dataset is empty")
	}
	latest := dataset.FilterYear(rows, latestYear)
	fmt.Printf("Latest year in dataset: %d (%d countries)\n", latestYear, len(latest))

	err = charts.Scatter(latest, "energy_use_per_capita", "renewable_share",
		filepath.Join(cfg.figureDir, "renewable_vs_energyuse_scatter.png"))
	if err != nil {
		log.Fatal("cross-section scatter:", err)
	}

	err = charts.Clusters(latest, "energy_use_per_capita", "renewable_share", cfg.clusterCount,
		filepath.Join(cfg.figureDir, "kmeans_clusters.png"))
	if err != nil {
		log.Fatal("cluster scatter:", err)
	}

	err = forecast.PlotRenewableShare(rows, cfg.targetCountry, cfg.forecastYears,
		filepath.Join(cfg.figureDir, "usa_renewable_share_forecast.png"))
	if err != nil {
		log.Fatal("forecast:", err)
	}

	fmt.Println("All outputs written.")
}
