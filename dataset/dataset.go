// Package dataset merges World Bank indicator fetches into one tidy table
// of energy and economic metrics per country per year.
package dataset

import (
	"fmt"
	"math"
	"sort"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"energytrends/worldbank"
)

// The four indicators the table is built from.
const (
	IndRenewableShare     = "EG.FEC.RNEW.ZS"    // renewable energy share (% of final consumption)
	IndEnergyUsePerCapita = "EG.USE.PCAP.KG.OE" // energy use (kg of oil equivalent per capita)
	IndPopulation         = "SP.POP.TOTL"       // total population
	IndGDPPerCapita       = "NY.GDP.PCAP.KD"    // GDP per capita (constant 2015 US$)
)

// Indicators returns the indicator codes fetched by Build, in fetch order.
func Indicators() []string {
	return []string{IndRenewableShare, IndEnergyUsePerCapita, IndPopulation, IndGDPPerCapita}
}

// Record is one row of the merged table. RenewableShare and
// EnergyUsePerCapita are always present; the remaining numeric fields are
// NaN when the source had no value.
type Record struct {
	CountryCode        string
	Country            string
	Year               int
	RenewableShare     float64
	EnergyUsePerCapita float64
	Population         float64
	GDPPerCapita       float64
	TotalEnergyUse     float64
	EnergyIntensity    float64
}

// Fetcher is the narrow seam between the builder and the network.
// *worldbank.Client satisfies it.
type Fetcher interface {
	FetchIndicator(code string) ([]worldbank.Observation, error)
}

// MergeInputError reports an indicator fetch that cannot be joined, such as
// duplicate (country_code, year) keys within one indicator.
type MergeInputError struct {
	Indicator string
	Reason    string
}

func (e *MergeInputError) Error() string {
	return fmt.Sprintf("merge indicator %s: %s", e.Indicator, e.Reason)
}

// Build fetches each indicator, outer-joins them on (country_code, country,
// year), then applies in order: the year and code-length filter, the
// country-list restriction, the required-indicator drop, and the derived
// columns. The result is sorted by country code then year.
func Build(f Fetcher, countries []string) ([]Record, error) {
	frames := make([]dataframe.DataFrame, 0, 4)
	for _, code := range Indicators() {
		obs, err := f.FetchIndicator(code)
		if err != nil {
			return nil, err
		}
		frame, err := indicatorFrame(code, obs)
		if err != nil {
			return nil, err
		}
		frames = append(frames, frame)
	}

	merged := frames[0]
	for i, frame := range frames[1:] {
		merged = merged.OuterJoin(frame, "country_code", "country", "year")
		if merged.Err != nil {
			return nil, &MergeInputError{Indicator: Indicators()[i+1], Reason: merged.Err.Error()}
		}
	}

	rows, err := toRecords(merged)
	if err != nil {
		return nil, err
	}

	rows = filterYearAndCode(rows)
	rows = filterCountries(rows, countries)
	rows = dropMissingRequired(rows)
	derive(rows)

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].CountryCode != rows[j].CountryCode {
			return rows[i].CountryCode < rows[j].CountryCode
		}
		return rows[i].Year < rows[j].Year
	})
	return rows, nil
}

// indicatorFrame converts one indicator fetch into a join-ready frame with
// columns country_code, country, year and the indicator code itself.
func indicatorFrame(code string, obs []worldbank.Observation) (dataframe.DataFrame, error) {
	type key struct {
		code string
		year int
	}
	seen := make(map[key]bool, len(obs))
	codes := make([]string, len(obs))
	names := make([]string, len(obs))
	years := make([]int, len(obs))
	values := make([]float64, len(obs))

	for i, o := range obs {
		k := key{o.CountryCode, o.Year}
		if seen[k] {
			return dataframe.DataFrame{}, &MergeInputError{
				Indicator: code,
				Reason:    fmt.Sprintf("duplicate key (%s, %d)", o.CountryCode, o.Year),
			}
		}
		seen[k] = true

		codes[i] = o.CountryCode
		names[i] = o.Country
		years[i] = o.Year
		if o.Value != nil {
			values[i] = *o.Value
		} else {
			values[i] = math.NaN()
		}
	}

	return dataframe.New(
		series.New(codes, series.String, "country_code"),
		series.New(names, series.String, "country"),
		series.New(years, series.Int, "year"),
		series.New(values, series.Float, code),
	), nil
}

func toRecords(df dataframe.DataFrame) ([]Record, error) {
	if df.Err != nil {
		return nil, df.Err
	}
	codeCol := df.Col("country_code")
	nameCol := df.Col("country")
	yearCol := df.Col("year")
	renewCol := df.Col(IndRenewableShare)
	energyCol := df.Col(IndEnergyUsePerCapita)
	popCol := df.Col(IndPopulation)
	gdpCol := df.Col(IndGDPPerCapita)

	rows := make([]Record, 0, df.Nrow())
	for i := 0; i < df.Nrow(); i++ {
		year, err := yearCol.Elem(i).Int()
		if err != nil {
			return nil, fmt.Errorf("row %d: year: %w", i, err)
		}
		rows = append(rows, Record{
			CountryCode:        codeCol.Elem(i).String(),
			Country:            nameCol.Elem(i).String(),
			Year:               year,
			RenewableShare:     renewCol.Elem(i).Float(),
			EnergyUsePerCapita: energyCol.Elem(i).Float(),
			Population:         popCol.Elem(i).Float(),
			GDPPerCapita:       gdpCol.Elem(i).Float(),
			TotalEnergyUse:     math.NaN(),
			EnergyIntensity:    math.NaN(),
		})
	}
	return rows, nil
}

func filterYearAndCode(rows []Record) []Record {
	kept := rows[:0]
	for _, r := range rows {
		if r.Year >= 1990 && len(r.CountryCode) == 3 {
			kept = append(kept, r)
		}
	}
	return kept
}

func filterCountries(rows []Record, countries []string) []Record {
	allowed := make(map[string]bool, len(countries))
	for _, c := range countries {
		allowed[c] = true
	}
	kept := rows[:0]
	for _, r := range rows {
		if allowed[r.CountryCode] {
			kept = append(kept, r)
		}
	}
	return kept
}

func dropMissingRequired(rows []Record) []Record {
	kept := rows[:0]
	for _, r := range rows {
		if !math.IsNaN(r.RenewableShare) && !math.IsNaN(r.EnergyUsePerCapita) {
			kept = append(kept, r)
		}
	}
	return kept
}

// derive fills the two ratio columns. A missing input or a zero GDP divisor
// leaves the derived value missing rather than failing the row.
func derive(rows []Record) {
	for i := range rows {
		r := &rows[i]
		if !math.IsNaN(r.Population) {
			r.TotalEnergyUse = r.EnergyUsePerCapita * r.Population
		}
		if !math.IsNaN(r.GDPPerCapita) && r.GDPPerCapita != 0 {
			r.EnergyIntensity = r.EnergyUsePerCapita / r.GDPPerCapita
		}
	}
}

// LatestYear returns the most recent year present in the table, and false
// when the table is empty.
func LatestYear(rows []Record) (int, bool) {
	if len(rows) == 0 {
		return 0, false
	}
	latest := rows[0].Year
	for _, r := range rows[1:] {
		if r.Year > latest {
			latest = r.Year
		}
	}
	return latest, true
}

// FilterYear returns the rows for exactly one year.
func FilterYear(rows []Record, year int) []Record {
	var kept []Record
	for _, r := range rows {
		if r.Year == year {
			kept = append(kept, r)
		}
	}
	return kept
}
