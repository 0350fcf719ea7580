package dataset

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"strconv"

	"github.com/xuri/excelize/v2"
)

var csvHeader = []string{
	"country_code", "country", "year",
	"renewable_share", "energy_use_per_capita", "population", "gdp_per_capita",
	"total_energy_use", "energy_intensity",
}

// WriteCSV writes the merged table as a flat delimited file. Missing values
// serialize as empty fields.
func WriteCSV(rows []Record, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write(csvHeader); err != nil {
		return err
	}
	for _, r := range rows {
		record := []string{
			r.CountryCode,
			r.Country,
			strconv.Itoa(r.Year),
			formatValue(r.RenewableShare),
			formatValue(r.EnergyUsePerCapita),
			formatValue(r.Population),
			formatValue(r.GDPPerCapita),
			formatValue(r.TotalEnergyUse),
			formatValue(r.EnergyIntensity),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func formatValue(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// WriteReport writes an Excel workbook with the full processed table and a
// latest-year summary per country.
func WriteReport(rows []Record, path string) error {
	f := excelize.NewFile()

	f.SetSheetName("Sheet1", "Processed_Data")
	for i, header := range csvHeader {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		f.SetCellValue("Processed_Data", cell, header)
		f.SetColWidth("Processed_Data", cell, cell, 18)
	}
	for i, r := range rows {
		row := i + 2
		setRow(f, "Processed_Data", row, r)
	}

	if _, err := f.NewSheet("Latest_Year"); err != nil {
		return err
	}
	summaryHeaders := []string{"country_code", "country", "year",
		"renewable_share", "energy_use_per_capita", "energy_intensity"}
	for i, header := range summaryHeaders {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		f.SetCellValue("Latest_Year", cell, header)
		f.SetColWidth("Latest_Year", cell, cell, 20)
	}
	if latest, ok := LatestYear(rows); ok {
		for i, r := range FilterYear(rows, latest) {
			row := i + 2
			f.SetCellValue("Latest_Year", fmt.Sprintf("A%d", row), r.CountryCode)
			f.SetCellValue("Latest_Year", fmt.Sprintf("B%d", row), r.Country)
			f.SetCellValue("Latest_Year", fmt.Sprintf("C%d", row), r.Year)
			setNumber(f, "Latest_Year", fmt.Sprintf("D%d", row), r.RenewableShare)
			setNumber(f, "Latest_Year", fmt.Sprintf("E%d", row), r.EnergyUsePerCapita)
			setNumber(f, "Latest_Year", fmt.Sprintf("F%d", row), r.EnergyIntensity)
		}
	}

	return f.SaveAs(path)
}

func setRow(f *excelize.File, sheet string, row int, r Record) {
	f.SetCellValue(sheet, fmt.Sprintf("A%d", row), r.CountryCode)
	f.SetCellValue(sheet, fmt.Sprintf("B%d", row), r.Country)
	f.SetCellValue(sheet, fmt.Sprintf("C%d", row), r.Year)
	setNumber(f, sheet, fmt.Sprintf("D%d", row), r.RenewableShare)
	setNumber(f, sheet, fmt.Sprintf("E%d", row), r.EnergyUsePerCapita)
	setNumber(f, sheet, fmt.Sprintf("F%d", row), r.Population)
	setNumber(f, sheet, fmt.Sprintf("G%d", row), r.GDPPerCapita)
	setNumber(f, sheet, fmt.Sprintf("H%d", row), r.TotalEnergyUse)
	setNumber(f, sheet, fmt.Sprintf("I%d", row), r.EnergyIntensity)
}

// setNumber leaves the cell empty for missing values.
func setNumber(f *excelize.File, sheet, cell string, v float64) {
	if math.IsNaN(v) {
		return
	}
	f.SetCellValue(sheet, cell, v)
}
