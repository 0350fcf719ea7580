// Package forecast fits an ARIMA(1,1,1) model to one country's renewable
// energy share and projects it a fixed number of years ahead.
package forecast

import (
	"fmt"
	"math"
	"sort"

	"github.com/sartorproj/goarima/arima"
	"github.com/sartorproj/goarima/timeseries"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"energytrends/dataset"
)

// minObservations is the practical floor for estimating ARIMA(1,1,1): three
// coefficients plus a variance on a once-differenced series.
const minObservations = 5

// Point is one year of a univariate series.
type Point struct {
	Year  int
	Value float64
}

// ModelFitError reports a series too short or too degenerate to fit.
type ModelFitError struct {
	CountryCode  string
	Observations int
	Reason       string
}

func (e *ModelFitError) Error() string {
	return fmt.Sprintf("forecast %s: %d observations: %s", e.CountryCode, e.Observations, e.Reason)
}

// Series extracts one country's renewable share history, missing values
// dropped and years ascending.
func Series(rows []dataset.Record, countryCode string) []Point {
	var points []Point
	for _, r := range rows {
		if r.CountryCode != countryCode || math.IsNaN(r.RenewableShare) {
			continue
		}
		points = append(points, Point{Year: r.Year, Value: r.RenewableShare})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Year < points[j].Year })
	return points
}

// Project fits ARIMA(1,1,1) to the series and returns point forecasts for
// exactly horizon consecutive years following the last observed year.
func Project(countryCode string, points []Point, horizon int) ([]Point, error) {
	if len(points) < minObservations {
		return nil, &ModelFitError{
			CountryCode:  countryCode,
			Observations: len(points),
			Reason:       fmt.Sprintf("need at least %d observations", minObservations),
		}
	}

	values := make([]float64, len(points))
	for i, pt := range points {
		values[i] = pt.Value
	}

	model := arima.New(1, 1, 1)
	if err := model.Fit(&timeseries.Series{Values: values}); err != nil {
		return nil, &ModelFitError{CountryCode: countryCode, Observations: len(points), Reason: err.Error()}
	}
	forecasts, err := model.Predict(horizon)
	if err != nil {
		return nil, &ModelFitError{CountryCode: countryCode, Observations: len(points), Reason: err.Error()}
	}

	lastYear := points[len(points)-1].Year
	out := make([]Point, horizon)
	for i := 0; i < horizon; i++ {
		out[i] = Point{Year: lastYear + 1 + i, Value: forecasts[i]}
	}
	return out, nil
}

// PlotRenewableShare draws the historical series as a solid line and the
// projection as a dashed line on a shared year axis.
func PlotRenewableShare(rows []dataset.Record, countryCode string, horizon int, path string) error {
	history := Series(rows, countryCode)
	projected, err := Project(countryCode, history, horizon)
	if err != nil {
		return err
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Forecast of Renewable Energy Share for %s (%d years ahead)", countryCode, horizon)
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.X.Label.Text = "Year"
	p.Y.Label.Text = "Renewable Share (% of final energy consumption)"
	p.Add(plotter.NewGrid())

	historyLine, err := plotter.NewLine(toXYs(history))
	if err != nil {
		return err
	}
	historyLine.Width = vg.Points(1.5)
	p.Add(historyLine)
	p.Legend.Add("Historical", historyLine)

	forecastLine, err := plotter.NewLine(toXYs(projected))
	if err != nil {
		return err
	}
	forecastLine.Width = vg.Points(1.5)
	forecastLine.Dashes = []vg.Length{vg.Points(5), vg.Points(5)}
	p.Add(forecastLine)
	p.Legend.Add("Forecast", forecastLine)

	return p.Save(10*vg.Inch, 6*vg.Inch, path)
}

func toXYs(points []Point) plotter.XYs {
	xys := make(plotter.XYs, len(points))
	for i, pt := range points {
		xys[i] = plotter.XY{X: float64(pt.Year), Y: pt.Value}
	}
	return xys
}
