// Package bins cuts numeric columns into labelled intervals.
package bins

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/go-gota/gota/dataframe"

	"github.com/KaramelBytes/telecomx-cli/internal/frame"
	"github.com/KaramelBytes/telecomx-cli/internal/stats"
)

// ErrEdges is returned when fewer than two distinct increasing edges are available.
var ErrEdges = errors.New("bins: need at least two increasing edges")

// Quantile returns the edges splitting values into q equal-frequency bins.
// Repeated edges (heavy ties) are dropped, so fewer than q bins may result.
func Quantile(values []float64, q int) ([]float64, error) {
	if q < 1 {
		return nil, fmt.Errorf("bins: quantile count must be positive, got %d", q)
	}
	xs := frame.DropNaN(values)
	if len(xs) == 0 {
		return nil, ErrEdges
	}
	edges := make([]float64, 0, q+1)
	for k := 0; k <= q; k++ {
		e := stats.Quantile(xs, float64(k)/float64(q))
		if len(edges) > 0 && e == edges[len(edges)-1] {
			continue
		}
		edges = append(edges, e)
	}
	if len(edges) < 2 {
		return nil, ErrEdges
	}
	return edges, nil
}

// Fixed validates explicit cut points and returns a sorted copy.
func Fixed(edges []float64) ([]float64, error) {
	out := append([]float64(nil), edges...)
	sort.Float64s(out)
	for i := 1; i < len(out); i++ {
		if out[i] == out[i-1] {
			return nil, fmt.Errorf("bins: duplicate edge %v", out[i])
		}
	}
	if len(out) < 2 {
		return nil, ErrEdges
	}
	return out, nil
}

// Labels names the len(edges)-1 intervals. All are right-closed "(a, b]"
// except the first, which also includes its lower edge: "[a, b]". Edges are
// rounded to 3 decimals unless more are needed to tell adjacent edges apart.
func Labels(edges []float64) []string {
	if len(edges) < 2 {
		return nil
	}
	text := edgeText(edges)
	out := make([]string, len(edges)-1)
	for i := 0; i < len(edges)-1; i++ {
		open := "("
		if i == 0 {
			open = "["
		}
		out[i] = open + text[i] + ", " + text[i+1] + "]"
	}
	return out
}

func edgeText(edges []float64) []string {
	out := make([]string, len(edges))
	for places := 3; places <= 12; places++ {
		for i, e := range edges {
			out[i] = strconv.FormatFloat(stats.Round(e, places), 'f', -1, 64)
		}
		if distinct(out) {
			return out
		}
	}
	for i, e := range edges {
		out[i] = strconv.FormatFloat(e, 'g', -1, 64)
	}
	return out
}

func distinct(text []string) bool {
	for i := 1; i < len(text); i++ {
		if text[i] == text[i-1] {
			return false
		}
	}
	return true
}

// Missing labels values outside every interval. gota reads it as NA, so
// grouping skips those rows.
const Missing = "NaN"

// Assign returns the label of each value's interval. Values outside the edges
// and NaN get Missing.
func Assign(values, edges []float64) []string {
	labels := Labels(edges)
	out := make([]string, len(values))
	for i := range out {
		out[i] = Missing
	}
	if labels == nil {
		return out
	}
	lo, hi := edges[0], edges[len(edges)-1]
	for i, v := range values {
		if math.IsNaN(v) || v < lo || v > hi {
			continue
		}
		// first edge index >= v; the bin is the one ending there
		j := sort.SearchFloat64s(edges, v)
		if j == 0 {
			j = 1
		}
		out[i] = labels[j-1]
	}
	return out
}

// AddBinColumn stores the interval label of col under name as a String
// column; values outside the edges are missing.
func AddBinColumn(df dataframe.DataFrame, col string, edges []float64, name string) (dataframe.DataFrame, error) {
	xs, err := frame.Floats(df, col)
	if err != nil {
		return df, err
	}
	if name == "" {
		name = col + "_bin"
	}
	return frame.SetStrings(df, name, Assign(xs, edges))
}

// Rank maps each label to its interval position, for ordering grouped output.
func Rank(edges []float64) map[string]int {
	out := map[string]int{}
	for i, l := range Labels(edges) {
		out[l] = i
	}
	return out
}
