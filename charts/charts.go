// Package charts renders the pipeline's figures with gonum/plot: per-country
// trend lines, the latest-year cross-section scatter, and the k-means
// cluster scatter.
package charts

import (
	"fmt"
	"image/color"
	"math"
	"sort"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"energytrends/dataset"
)

var palette = []color.RGBA{
	{R: 31, G: 119, B: 180, A: 255},
	{R: 255, G: 127, B: 14, A: 255},
	{R: 44, G: 160, B: 44, A: 255},
	{R: 214, G: 39, B: 40, A: 255},
	{R: 148, G: 103, B: 189, A: 255},
	{R: 140, G: 86, B: 75, A: 255},
	{R: 227, G: 119, B: 194, A: 255},
	{R: 127, G: 127, B: 127, A: 255},
	{R: 188, G: 189, B: 34, A: 255},
	{R: 23, G: 190, B: 207, A: 255},
}

func columnValue(name string) (func(dataset.Record) float64, error) {
	switch name {
	case "renewable_share":
		return func(r dataset.Record) float64 { return r.RenewableShare }, nil
	case "energy_use_per_capita":
		return func(r dataset.Record) float64 { return r.EnergyUsePerCapita }, nil
	case "population":
		return func(r dataset.Record) float64 { return r.Population }, nil
	case "gdp_per_capita":
		return func(r dataset.Record) float64 { return r.GDPPerCapita }, nil
	case "total_energy_use":
		return func(r dataset.Record) float64 { return r.TotalEnergyUse }, nil
	case "energy_intensity":
		return func(r dataset.Record) float64 { return r.EnergyIntensity }, nil
	}
	return nil, fmt.Errorf("unknown column %q", name)
}

func columnTitle(name string) string {
	words := strings.Split(name, "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

// TrendLines draws one line per country code showing the trend of the given
// column over years. Points are sorted by year inside each group.
func TrendLines(rows []dataset.Record, column, title, ylabel, path string) error {
	value, err := columnValue(column)
	if err != nil {
		return err
	}

	groups := make(map[string][]dataset.Record)
	for _, r := range rows {
		groups[r.CountryCode] = append(groups[r.CountryCode], r)
	}
	codes := make([]string, 0, len(groups))
	for code := range groups {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	p := plot.New()
	p.Title.Text = title
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.X.Label.Text = "Year"
	p.Y.Label.Text = ylabel
	p.Add(plotter.NewGrid())

	for i, code := range codes {
		group := groups[code]
		sort.Slice(group, func(a, b int) bool { return group[a].Year < group[b].Year })

		pts := make(plotter.XYs, 0, len(group))
		for _, r := range group {
			v := value(r)
			if math.IsNaN(v) {
				continue
			}
			pts = append(pts, plotter.XY{X: float64(r.Year), Y: v})
		}

		line, err := plotter.NewLine(pts)
		if err != nil {
			return fmt.Errorf("trend line for %s: %w", code, err)
		}
		line.Color = palette[i%len(palette)]
		line.Width = vg.Points(1.5)
		p.Add(line)
		p.Legend.Add(code, line)
	}

	p.Legend.Top = true
	return p.Save(12*vg.Inch, 7*vg.Inch, path)
}

// Scatter draws one labeled point per row for two columns. The caller is
// responsible for filtering to a single year first.
func Scatter(rows []dataset.Record, xCol, yCol, path string) error {
	xValue, err := columnValue(xCol)
	if err != nil {
		return err
	}
	yValue, err := columnValue(yCol)
	if err != nil {
		return err
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s vs. %s (latest year)", columnTitle(yCol), columnTitle(xCol))
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.X.Label.Text = columnTitle(xCol)
	p.Y.Label.Text = columnTitle(yCol)
	p.Add(plotter.NewGrid())

	points := make(plotter.XYs, len(rows))
	labels := make([]string, len(rows))
	for i, r := range rows {
		points[i] = plotter.XY{X: xValue(r), Y: yValue(r)}
		labels[i] = r.CountryCode

		point, err := plotter.NewScatter(plotter.XYs{points[i]})
		if err != nil {
			return err
		}
		point.GlyphStyle.Color = palette[i%len(palette)]
		point.GlyphStyle.Radius = vg.Points(4)
		point.GlyphStyle.Shape = draw.CircleGlyph{}
		p.Add(point)
		p.Legend.Add(r.CountryCode, point)
	}

	labelPoints, err := plotter.NewLabels(plotter.XYLabels{XYs: points, Labels: labels})
	if err != nil {
		return err
	}
	p.Add(labelPoints)

	return p.Save(8*vg.Inch, 6*vg.Inch, path)
}

// ClusteringInputError reports a cluster request with fewer usable rows than
// requested clusters.
type ClusteringInputError struct {
	XCol, YCol string
	Rows, K    int
}

func (e *ClusteringInputError) Error() string {
	return fmt.Sprintf("clustering %s/%s: %d usable rows for %d clusters", e.XCol, e.YCol, e.Rows, e.K)
}

// Clusters standardizes two columns over the rows passed in, partitions them
// into k clusters with a fixed-seed k-means, and plots the original
// coordinates colored by cluster. Rows missing either column are dropped.
func Clusters(rows []dataset.Record, xCol, yCol string, k int, path string) error {
	xValue, err := columnValue(xCol)
	if err != nil {
		return err
	}
	yValue, err := columnValue(yCol)
	if err != nil {
		return err
	}

	var xs, ys []float64
	for _, r := range rows {
		x, y := xValue(r), yValue(r)
		if math.IsNaN(x) || math.IsNaN(y) {
			continue
		}
		xs = append(xs, x)
		ys = append(ys, y)
	}
	if len(xs) < k {
		return &ClusteringInputError{XCol: xCol, YCol: yCol, Rows: len(xs), K: k}
	}

	xNorm := standardize(xs)
	yNorm := standardize(ys)
	points := make([][2]float64, len(xs))
	for i := range points {
		points[i] = [2]float64{xNorm[i], yNorm[i]}
	}
	labels := kmeansPartition(points, k, kmeansInits, kmeansSeed)

	p := plot.New()
	p.Title.Text = fmt.Sprintf("K-means clustering (%d clusters) on %s vs. %s (latest year)", k, yCol, xCol)
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.X.Label.Text = columnTitle(xCol)
	p.Y.Label.Text = columnTitle(yCol)
	p.Add(plotter.NewGrid())

	for cluster := 0; cluster < k; cluster++ {
		var pts plotter.XYs
		for i := range xs {
			if labels[i] == cluster {
				pts = append(pts, plotter.XY{X: xs[i], Y: ys[i]})
			}
		}
		scatter, err := plotter.NewScatter(pts)
		if err != nil {
			return fmt.Errorf("cluster %d: %w", cluster+1, err)
		}
		scatter.GlyphStyle.Color = palette[cluster%len(palette)]
		scatter.GlyphStyle.Radius = vg.Points(5)
		scatter.GlyphStyle.Shape = draw.CircleGlyph{}
		p.Add(scatter)
		p.Legend.Add(fmt.Sprintf("Cluster %d", cluster+1), scatter)
	}

	return p.Save(8*vg.Inch, 6*vg.Inch, path)
}
