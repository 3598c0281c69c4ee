// Package frame holds the small set of DataFrame operations the analysis
// commands need, layered over gota. Every helper checks that the columns it
// touches exist and reports ErrColumnNotFound otherwise.
package frame

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"go.uber.org/zap"

	"github.com/KaramelBytes/telecomx-cli/internal/logging"
)

// ErrColumnNotFound is returned when a named column is absent from the frame.
var ErrColumnNotFound = errors.New("column not found")

// FromRecords builds a frame whose columns are all String typed. Values are
// kept verbatim; empty strings are not treated as missing.
func FromRecords(header []string, rows [][]string) (dataframe.DataFrame, error) {
	if len(header) == 0 {
		return dataframe.DataFrame{}, errors.New("frame: no columns")
	}
	records := make([][]string, 0, len(rows)+1)
	records = append(records, header)
	for i, r := range rows {
		if len(r) != len(header) {
			return dataframe.DataFrame{}, fmt.Errorf("frame: row %d has %d fields, want %d", i, len(r), len(header))
		}
		records = append(records, r)
	}
	df := dataframe.LoadRecords(records,
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues(nil),
	)
	if df.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("frame: %w", df.Err)
	}
	return df, nil
}

// ReadCSV loads a CSV written by WriteCSV, detecting column types.
func ReadCSV(r io.Reader) (dataframe.DataFrame, error) {
	df := dataframe.ReadCSV(r, dataframe.DetectTypes(true), dataframe.NaNValues([]string{"NaN", "NA", ""}))
	if df.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("read csv: %w", df.Err)
	}
	return df, nil
}

// WriteCSV writes the frame with a header row. Floats are written with the
// shortest representation that parses back to the same value.
func WriteCSV(df dataframe.DataFrame, w io.Writer) error {
	names := df.Names()
	cols := make([][]string, len(names))
	for i, n := range names {
		cols[i] = Records(df.Col(n))
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(names); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	row := make([]string, len(names))
	for r := 0; r < df.Nrow(); r++ {
		for i := range cols {
			row[i] = cols[i][r]
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

// Records formats a series as text like Series.Records, except that floats
// keep full precision and always carry a decimal point or exponent, so a
// reader detecting types sees them as floats again.
func Records(s series.Series) []string {
	if s.Type() != series.Float {
		return s.Records()
	}
	xs := s.Float()
	out := make([]string, len(xs))
	for i, x := range xs {
		if math.IsNaN(x) || s.Elem(i).IsNA() {
			out[i] = "NaN"
			continue
		}
		v := strconv.FormatFloat(x, 'g', -1, 64)
		if !strings.ContainsAny(v, ".eEIN") {
			v += ".0"
		}
		out[i] = v
	}
	return out
}

// Has reports whether the frame has a column called name.
func Has(df dataframe.DataFrame, name string) bool {
	for _, n := range df.Names() {
		if n == name {
			return true
		}
	}
	return false
}

// MustHave returns ErrColumnNotFound naming the first missing column.
func MustHave(df dataframe.DataFrame, names ...string) error {
	for _, n := range names {
		if !Has(df, n) {
			return fmt.Errorf("%w: %s", ErrColumnNotFound, n)
		}
	}
	return nil
}

// Column returns the named series.
func Column(df dataframe.DataFrame, name string) (series.Series, error) {
	if err := MustHave(df, name); err != nil {
		return series.Series{}, err
	}
	return df.Col(name), nil
}

// Strings returns the textual values of a column; missing values read "NaN".
func Strings(df dataframe.DataFrame, name string) ([]string, error) {
	s, err := Column(df, name)
	if err != nil {
		return nil, err
	}
	return s.Records(), nil
}

// Floats returns the column as float64 with missing values as NaN.
func Floats(df dataframe.DataFrame, name string) ([]float64, error) {
	s, err := Column(df, name)
	if err != nil {
		return nil, err
	}
	return s.Float(), nil
}

// Values returns the non-missing numeric values of a column.
func Values(df dataframe.DataFrame, name string) ([]float64, error) {
	xs, err := Floats(df, name)
	if err != nil {
		return nil, err
	}
	return DropNaN(xs), nil
}

// DropNaN filters out NaN entries.
func DropNaN(xs []float64) []float64 {
	out := make([]float64, 0, len(xs))
	for _, x := range xs {
		if !math.IsNaN(x) {
			out = append(out, x)
		}
	}
	return out
}

// IsNumeric reports whether a series is Int or Float typed.
func IsNumeric(s series.Series) bool {
	return s.Type() == series.Int || s.Type() == series.Float
}

// NumericColumns lists Int and Float columns in frame order.
func NumericColumns(df dataframe.DataFrame) []string {
	var out []string
	for _, n := range df.Names() {
		if IsNumeric(df.Col(n)) {
			out = append(out, n)
		}
	}
	return out
}

// Unique returns the distinct non-missing values, sorted numerically for
// numeric columns and lexically otherwise.
func Unique(df dataframe.DataFrame, name string) ([]string, error) {
	s, err := Column(df, name)
	if err != nil {
		return nil, err
	}
	vals := FirstSeen(s)
	if IsNumeric(s) {
		sort.Slice(vals, func(i, j int) bool {
			a, _ := strconv.ParseFloat(vals[i], 64)
			b, _ := strconv.ParseFloat(vals[j], 64)
			return a < b
		})
	} else {
		sort.Strings(vals)
	}
	return vals, nil
}

// NUnique counts distinct non-missing values.
func NUnique(df dataframe.DataFrame, name string) (int, error) {
	s, err := Column(df, name)
	if err != nil {
		return 0, err
	}
	return len(FirstSeen(s)), nil
}

// FirstSeen returns distinct non-missing values in order of appearance.
func FirstSeen(s series.Series) []string {
	seen := map[string]struct{}{}
	var out []string
	for i := 0; i < s.Len(); i++ {
		e := s.Elem(i)
		if e.IsNA() {
			continue
		}
		v := e.String()
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// CountIn counts rows whose value is one of values.
func CountIn(df dataframe.DataFrame, name string, values []string) (int, error) {
	vals, err := Strings(df, name)
	if err != nil {
		return 0, err
	}
	set := toSet(values)
	n := 0
	for _, v := range vals {
		if _, ok := set[v]; ok {
			n++
		}
	}
	return n, nil
}

// Replace rewrites every value found in from to to, keeping the column type.
func Replace(df dataframe.DataFrame, name string, from []string, to string) (dataframe.DataFrame, error) {
	s, err := Column(df, name)
	if err != nil {
		return df, err
	}
	set := toSet(from)
	vals := Records(s)
	for i, v := range vals {
		if _, ok := set[v]; ok {
			vals[i] = to
		}
	}
	return mutate(df, series.New(vals, s.Type(), name))
}

// Map translates values through mapping into a column of type t. Values
// without a mapping become missing.
func Map(df dataframe.DataFrame, name string, mapping map[string]string, t series.Type) (dataframe.DataFrame, error) {
	s, err := Column(df, name)
	if err != nil {
		return df, err
	}
	vals := Records(s)
	for i, v := range vals {
		if m, ok := mapping[v]; ok {
			vals[i] = m
		} else {
			vals[i] = "NaN"
		}
	}
	return mutate(df, series.New(vals, t, name))
}

// CopyColumn duplicates src under dst (replacing dst if present).
func CopyColumn(df dataframe.DataFrame, src, dst string) (dataframe.DataFrame, error) {
	s, err := Column(df, src)
	if err != nil {
		return df, err
	}
	c := s.Copy()
	c.Name = dst
	return mutate(df, c)
}

// SetInts adds or replaces an Int column.
func SetInts(df dataframe.DataFrame, name string, values []int) (dataframe.DataFrame, error) {
	return mutate(df, series.New(values, series.Int, name))
}

// SetFloats adds or replaces a Float column.
func SetFloats(df dataframe.DataFrame, name string, values []float64) (dataframe.DataFrame, error) {
	return mutate(df, series.New(values, series.Float, name))
}

// SetStrings adds or replaces a String column.
func SetStrings(df dataframe.DataFrame, name string, values []string) (dataframe.DataFrame, error) {
	return mutate(df, series.New(values, series.String, name))
}

// ToNumeric converts a column to Float; unparsable values become missing.
// Int and Float columns keep their values exactly.
func ToNumeric(df dataframe.DataFrame, name string) (dataframe.DataFrame, error) {
	s, err := Column(df, name)
	if err != nil {
		return df, err
	}
	if IsNumeric(s) {
		return SetFloats(df, name, s.Float())
	}
	vals := s.Records()
	out := make([]float64, len(vals))
	for i, v := range vals {
		f, perr := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if perr != nil {
			f = math.NaN()
		}
		out[i] = f
	}
	return SetFloats(df, name, out)
}

// AsType casts a column to t. Casting to Int fails on missing or fractional
// values rather than silently dropping them.
func AsType(df dataframe.DataFrame, name string, t series.Type) (dataframe.DataFrame, error) {
	s, err := Column(df, name)
	if err != nil {
		return df, err
	}
	switch t {
	case series.Int:
		xs := s.Float()
		recs := s.Records()
		out := make([]int, len(xs))
		for i, x := range xs {
			if math.IsNaN(x) || math.IsInf(x, 0) || x != math.Trunc(x) {
				return df, fmt.Errorf("cast %s to int: row %d has value %q", name, i, recs[i])
			}
			out[i] = int(x)
		}
		return SetInts(df, name, out)
	case series.Float:
		return ToNumeric(df, name)
	default:
		return mutate(df, series.New(Records(s), t, name))
	}
}

// ConvertTypes casts each listed column to the type at the same position.
// Columns missing from the frame are logged and skipped.
func ConvertTypes(df dataframe.DataFrame, names []string, types []series.Type, log *zap.Logger) (dataframe.DataFrame, error) {
	log = logging.OrNop(log)
	if len(names) != len(types) {
		return df, fmt.Errorf("convert types: %d columns but %d types", len(names), len(types))
	}
	var err error
	for i, n := range names {
		if !Has(df, n) {
			log.Warn("column not found in DataFrame", zap.String("column", n))
			continue
		}
		df, err = AsType(df, n, types[i])
		if err != nil {
			return df, err
		}
	}
	return df, nil
}

// ParseType maps a user-facing type name onto a gota series type.
func ParseType(s string) (series.Type, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "int", "int64", "integer":
		return series.Int, nil
	case "float", "float64", "number", "numeric":
		return series.Float, nil
	case "str", "string", "object", "category":
		return series.String, nil
	case "bool", "boolean":
		return series.Bool, nil
	}
	return "", fmt.Errorf("unknown type %q", s)
}

// Where keeps the rows whose column value equals value.
func Where(df dataframe.DataFrame, name, value string) (dataframe.DataFrame, error) {
	vals, err := Strings(df, name)
	if err != nil {
		return df, err
	}
	var idx []int
	for i, v := range vals {
		if v == value {
			idx = append(idx, i)
		}
	}
	if len(idx) == 0 {
		return df.Subset([]int{}), nil
	}
	out := df.Subset(idx)
	if out.Err != nil {
		return df, out.Err
	}
	return out, nil
}

func mutate(df dataframe.DataFrame, s series.Series) (dataframe.DataFrame, error) {
	out := df.Mutate(s)
	if out.Err != nil {
		return df, fmt.Errorf("set column %s: %w", s.Name, out.Err)
	}
	return out, nil
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}
