// Package charts renders the churn exploration plots to image files. The
// output format follows the file extension (.png, .svg, .pdf, ...).
package charts

import (
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"

	"github.com/go-gota/gota/dataframe"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/KaramelBytes/telecomx-cli/internal/churn"
	"github.com/KaramelBytes/telecomx-cli/internal/frame"
)

// Options controls figure size and title. Zero values use 8x5 inches.
type Options struct {
	WidthIn  float64
	HeightIn float64
	Title    string
}

func (o Options) size() (vg.Length, vg.Length) {
	w, h := o.WidthIn, o.HeightIn
	if w <= 0 {
		w = 8
	}
	if h <= 0 {
		h = 5
	}
	return vg.Length(w) * vg.Inch, vg.Length(h) * vg.Inch
}

func newPlot(title, x, y string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = x
	p.Y.Label.Text = y
	p.Legend.Top = true
	return p
}

func save(p *plot.Plot, path string, o Options) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	w, h := o.size()
	if err := p.Save(w, h, path); err != nil {
		return fmt.Errorf("save chart %s: %w", path, err)
	}
	return nil
}

func titleOr(o Options, def string) string {
	if o.Title != "" {
		return o.Title
	}
	return def
}

// translucent returns palette colour i with reduced opacity for overlays.
func translucent(i int) color.Color {
	r, g, b, _ := plotutil.Color(i).RGBA()
	return color.NRGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: 110}
}

// ChurnRate draws perc_churn_customer per category level.
func ChurnRate(category string, rates []churn.CategoryRate, path string, o Options) error {
	if len(rates) == 0 {
		return fmt.Errorf("churn rate chart: no rows for %s", category)
	}
	vals := make(plotter.Values, len(rates))
	names := make([]string, len(rates))
	for i, r := range rates {
		vals[i] = r.PercChurnCustomer
		names[i] = r.Category
	}
	p := newPlot(titleOr(o, "Churn rate by "+category), category, "churn %")
	bar, err := plotter.NewBarChart(vals, vg.Points(30))
	if err != nil {
		return err
	}
	bar.Color = plotutil.Color(0)
	bar.LineStyle.Width = vg.Length(0)
	p.Add(bar)
	p.NominalX(names...)
	p.Y.Min = 0
	return save(p, path, o)
}

// CountBy draws customer counts per category level, one bar group per hue level.
// An empty hue gives a single series.
func CountBy(df dataframe.DataFrame, category, hue, path string, o Options) error {
	cols := []string{category}
	if hue != "" {
		cols = append(cols, hue)
	}
	if err := frame.MustHave(df, cols...); err != nil {
		return err
	}
	levels, _ := frame.Unique(df, category)
	cats, _ := frame.Strings(df, category)
	hues, hueLevels := []string(nil), []string{""}
	if hue != "" {
		hues, _ = frame.Strings(df, hue)
		hueLevels, _ = frame.Unique(df, hue)
	}
	pos := map[string]int{}
	for i, l := range levels {
		pos[l] = i
	}
	counts := make([]plotter.Values, len(hueLevels))
	hpos := map[string]int{}
	for i, l := range hueLevels {
		hpos[l] = i
		counts[i] = make(plotter.Values, len(levels))
	}
	for i, c := range cats {
		ci, ok := pos[c]
		if !ok {
			continue
		}
		hi := 0
		if hues != nil {
			if hi, ok = hpos[hues[i]]; !ok {
				continue
			}
		}
		counts[hi][ci]++
	}

	p := newPlot(titleOr(o, "Customers by "+category), category, "customers")
	width := vg.Points(40 / float64(len(hueLevels)))
	for i, vals := range counts {
		bar, err := plotter.NewBarChart(vals, width)
		if err != nil {
			return err
		}
		bar.Color = plotutil.Color(i)
		bar.LineStyle.Width = vg.Length(0)
		bar.Offset = vg.Length(float64(i)-float64(len(counts)-1)/2) * width
		p.Add(bar)
		if hue != "" {
			p.Legend.Add(hue+"="+hueLevels[i], bar)
		}
	}
	p.NominalX(levels...)
	return save(p, path, o)
}

// groups splits the non-missing values of col by hue level (or one group).
func groups(df dataframe.DataFrame, col, hue string) ([]string, [][]float64, error) {
	cols := []string{col}
	if hue != "" {
		cols = append(cols, hue)
	}
	if err := frame.MustHave(df, cols...); err != nil {
		return nil, nil, err
	}
	xs, _ := frame.Floats(df, col)
	if hue == "" {
		return []string{col}, [][]float64{frame.DropNaN(xs)}, nil
	}
	levels, _ := frame.Unique(df, hue)
	hs, _ := frame.Strings(df, hue)
	idx := map[string]int{}
	for i, l := range levels {
		idx[l] = i
	}
	out := make([][]float64, len(levels))
	for i, x := range xs {
		if math.IsNaN(x) {
			continue
		}
		if j, ok := idx[hs[i]]; ok {
			out[j] = append(out[j], x)
		}
	}
	names := make([]string, len(levels))
	for i, l := range levels {
		names[i] = hue + "=" + l
	}
	return names, out, nil
}

// Histogram overlays one histogram of col per hue level.
func Histogram(df dataframe.DataFrame, col, hue string, nbins int, path string, o Options) error {
	if nbins <= 0 {
		nbins = 20
	}
	names, vals, err := groups(df, col, hue)
	if err != nil {
		return err
	}
	p := newPlot(titleOr(o, "Distribution of "+col), col, "count")
	drawn := 0
	for i, v := range vals {
		if len(v) == 0 {
			continue
		}
		h, err := plotter.NewHist(plotter.Values(v), nbins)
		if err != nil {
			return err
		}
		h.FillColor = translucent(i)
		h.LineStyle.Color = plotutil.Color(i)
		p.Add(h)
		if hue != "" {
			p.Legend.Add(names[i], h)
		}
		drawn++
	}
	if drawn == 0 {
		return fmt.Errorf("histogram: %s has no numeric values", col)
	}
	return save(p, path, o)
}

// BoxPlot draws one box of col per hue level.
func BoxPlot(df dataframe.DataFrame, col, hue, path string, o Options) error {
	names, vals, err := groups(df, col, hue)
	if err != nil {
		return err
	}
	p := newPlot(titleOr(o, col+" by "+hue), hue, col)
	if hue == "" {
		p.Title.Text = titleOr(o, col)
	}
	var labels []string
	for i, v := range vals {
		if len(v) == 0 {
			continue
		}
		box, err := plotter.NewBoxPlot(vg.Points(40), float64(len(labels)), plotter.Values(v))
		if err != nil {
			return err
		}
		box.FillColor = translucent(i)
		p.Add(box)
		labels = append(labels, names[i])
	}
	if len(labels) == 0 {
		return fmt.Errorf("box plot: %s has no numeric values", col)
	}
	p.NominalX(labels...)
	return save(p, path, o)
}
