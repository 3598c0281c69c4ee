// Package describe builds descriptive-statistics tables: one column per
// numeric variable, one row per named metric.
package describe

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/olekukonko/tablewriter"
	"go.uber.org/zap"

	"github.com/KaramelBytes/telecomx-cli/internal/frame"
	"github.com/KaramelBytes/telecomx-cli/internal/logging"
)

// ErrNoNumericColumns is returned when a frame has nothing to describe.
var ErrNoNumericColumns = errors.New("no numeric columns to describe")

// Table holds metric rows by variable columns.
type Table struct {
	Title   string
	Index   []string  // row labels (metric names)
	Columns []string  // column labels (variables or categories)
	Cells   [][]Value // Cells[row][col]
}

// Get returns the cell at metric row and column label.
func (t *Table) Get(row, col string) (Value, bool) {
	ri, ci := indexOf(t.Index, row), indexOf(t.Columns, col)
	if ri < 0 || ci < 0 {
		return Value{}, false
	}
	return t.Cells[ri][ci], true
}

func indexOf(xs []string, s string) int {
	for i, x := range xs {
		if x == s {
			return i
		}
	}
	return -1
}

// Full applies every metric to every numeric column of df, in frame order.
func Full(df dataframe.DataFrame, metrics []Metric, log *zap.Logger) (*Table, error) {
	cols := frame.NumericColumns(df)
	if len(cols) == 0 {
		return nil, ErrNoNumericColumns
	}
	values := make([][]float64, len(cols))
	for i, c := range cols {
		v, err := frame.Values(df, c)
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	t := build(metrics, cols, values)
	logging.OrNop(log).Debug("describe table built", zap.Int("metrics", len(metrics)), zap.Int("columns", len(cols)))
	return t, nil
}

// Basic is Full restricted to count/mean/std/min/quartiles/max.
func Basic(df dataframe.DataFrame) (*Table, error) {
	return Full(df, BasicMetrics(), nil)
}

// ByCategory describes metricCol over all rows and then within each level of
// categoryCol (levels in order of first appearance).
func ByCategory(df dataframe.DataFrame, categoryCol, metricCol string, metrics []Metric) (*Table, error) {
	if err := frame.MustHave(df, categoryCol, metricCol); err != nil {
		return nil, err
	}
	if metrics == nil {
		metrics = BasicMetrics()
	}
	cats, err := frame.Strings(df, categoryCol)
	if err != nil {
		return nil, err
	}
	xs, err := frame.Floats(df, metricCol)
	if err != nil {
		return nil, err
	}
	levels := frame.FirstSeen(df.Col(categoryCol))
	pos := make(map[string]int, len(levels))
	for i, l := range levels {
		pos[l] = i + 1
	}
	values := make([][]float64, len(levels)+1)
	for i, x := range xs {
		if x != x { // NaN
			continue
		}
		values[0] = append(values[0], x)
		if p, ok := pos[cats[i]]; ok {
			values[p] = append(values[p], x)
		}
	}
	t := build(metrics, append([]string{metricCol}, levels...), values)
	t.Title = fmt.Sprintf("%s by %s", metricCol, categoryCol)
	return t, nil
}

func build(metrics []Metric, cols []string, values [][]float64) *Table {
	t := &Table{Index: Names(metrics), Columns: cols, Cells: make([][]Value, len(metrics))}
	for r, m := range metrics {
		row := make([]Value, len(cols))
		for c := range cols {
			row[c] = m.Fn(values[c])
		}
		t.Cells[r] = row
	}
	return t
}

// Records returns the table as rows of strings with a header row first.
func (t *Table) Records() [][]string {
	out := make([][]string, 0, len(t.Index)+1)
	out = append(out, append([]string{""}, t.Columns...))
	for r, name := range t.Index {
		row := make([]string, 0, len(t.Columns)+1)
		row = append(row, name)
		for _, v := range t.Cells[r] {
			row = append(row, v.String())
		}
		out = append(out, row)
	}
	return out
}

// WriteCSV writes the table with metric names in the first column.
func (t *Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(t.Records()); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

// Markdown renders a pipe table.
func (t *Table) Markdown() string {
	var b strings.Builder
	if t.Title != "" {
		b.WriteString("### " + t.Title + "\n\n")
	}
	recs := t.Records()
	for i, row := range recs {
		b.WriteString("| ")
		for j, cell := range row {
			if j > 0 {
				b.WriteString(" | ")
			}
			b.WriteString(strings.ReplaceAll(cell, "|", "/"))
		}
		b.WriteString(" |\n")
		if i == 0 {
			b.WriteString("|")
			for range row {
				b.WriteString(" --- |")
			}
			b.WriteString("\n")
		}
	}
	return b.String()
}

// Render draws the table for a terminal.
func (t *Table) Render(w io.Writer) {
	recs := t.Records()
	tw := tablewriter.NewWriter(w)
	tw.SetHeader(recs[0])
	tw.SetAutoFormatHeaders(false)
	tw.SetAlignment(tablewriter.ALIGN_RIGHT)
	if t.Title != "" {
		tw.SetCaption(true, t.Title)
	}
	tw.AppendBulk(recs[1:])
	tw.Render()
}
