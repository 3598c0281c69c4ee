package source

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Field is one key/value pair of a JSON object, in document order.
type Field struct {
	Key   string
	Value any // string, json.Number, bool, nil, Record, or ArrayText
}

// Record is a JSON object that keeps its key order.
type Record []Field

// ArrayText holds a JSON array verbatim (compact form). Arrays are not exploded.
type ArrayText string

// Decode parses a JSON array of objects. An object root whose first array
// member holds the records is accepted as well.
func Decode(payload []byte) ([]Record, error) {
	payload = bytes.TrimSpace(payload)
	if len(payload) == 0 {
		return nil, errors.New("decode: empty payload")
	}
	switch payload[0] {
	case '[':
		return decodeArray(payload)
	case '{':
		root, err := parseObject(payload)
		if err != nil {
			return nil, err
		}
		for _, f := range root {
			if at, ok := f.Value.(ArrayText); ok {
				return decodeArray([]byte(at))
			}
		}
		return []Record{root}, nil
	default:
		return nil, fmt.Errorf("decode: expected JSON array or object, got %q", payload[0])
	}
}

func decodeArray(payload []byte) ([]Record, error) {
	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.UseNumber()
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	var out []Record
	for dec.More() {
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("decode record %d: %w", len(out), err)
		}
		raw = bytes.TrimSpace(raw)
		if len(raw) == 0 || raw[0] != '{' {
			return nil, fmt.Errorf("decode record %d: not an object", len(out))
		}
		rec, err := parseObject(raw)
		if err != nil {
			return nil, fmt.Errorf("decode record %d: %w", len(out), err)
		}
		out = append(out, rec)
	}
	return out, nil
}

func parseObject(raw []byte) (Record, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	var rec Record
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("object key is %T", tok)
		}
		var val json.RawMessage
		if err := dec.Decode(&val); err != nil {
			return nil, fmt.Errorf("value for %q: %w", key, err)
		}
		v, err := parseValue(val)
		if err != nil {
			return nil, fmt.Errorf("value for %q: %w", key, err)
		}
		rec = append(rec, Field{Key: key, Value: v})
	}
	if _, err := dec.Token(); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return rec, nil
}

func parseValue(raw json.RawMessage) (any, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, nil
	}
	switch raw[0] {
	case '{':
		return parseObject(raw)
	case '[':
		var buf bytes.Buffer
		if err := json.Compact(&buf, raw); err != nil {
			return nil, err
		}
		return ArrayText(buf.String()), nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

// Flatten turns nested records into a flat table. Nested object keys are
// joined with sep ("account" + "Charges" + "Total" -> "account_Charges_Total").
// Columns appear in first-seen order; null and absent values become "".
// An empty nested object contributes no column.
func Flatten(records []Record, sep string) (header []string, rows [][]string) {
	index := map[string]int{}
	flat := make([]map[string]string, len(records))
	for i, rec := range records {
		m := map[string]string{}
		flattenInto(m, rec, "", sep, &header, index)
		flat[i] = m
	}
	rows = make([][]string, len(records))
	for i, m := range flat {
		row := make([]string, len(header))
		for col, v := range m {
			row[index[col]] = v
		}
		rows[i] = row
	}
	return header, rows
}

func flattenInto(dst map[string]string, rec Record, prefix, sep string, header *[]string, index map[string]int) {
	for _, f := range rec {
		name := f.Key
		if prefix != "" {
			name = prefix + sep + f.Key
		}
		if nested, ok := f.Value.(Record); ok {
			flattenInto(dst, nested, name, sep, header, index)
			continue
		}
		if _, ok := index[name]; !ok {
			index[name] = len(*header)
			*header = append(*header, name)
		}
		dst[name] = scalarText(f.Value)
	}
}

// NumericColumn describes a flattened column whose values are all JSON numbers.
type NumericColumn struct {
	Name     string
	Integral bool // every row present and a whole number
}

// NumericColumns lists, in first-seen order, the flattened columns whose
// non-null values are all JSON numbers.
func NumericColumns(records []Record, sep string) []NumericColumn {
	type kind struct {
		numeric, integral bool
		seen             int
	}
	var order []string
	kinds := map[string]*kind{}
	var walk func(rec Record, prefix string)
	walk = func(rec Record, prefix string) {
		for _, f := range rec {
			name := f.Key
			if prefix != "" {
				name = prefix + sep + f.Key
			}
			if nested, ok := f.Value.(Record); ok {
				walk(nested, name)
				continue
			}
			k, ok := kinds[name]
			if !ok {
				k = &kind{numeric: true, integral: true}
				kinds[name] = k
				order = append(order, name)
			}
			switch v := f.Value.(type) {
			case nil:
				k.integral = false
			case json.Number:
				k.seen++
				if _, err := v.Int64(); err != nil {
					k.integral = false
				}
			default:
				k.numeric = false
			}
		}
	}
	for _, rec := range records {
		walk(rec, "")
	}
	var out []NumericColumn
	for _, name := range order {
		k := kinds[name]
		if !k.numeric || k.seen == 0 {
			continue
		}
		out = append(out, NumericColumn{Name: name, Integral: k.integral && k.seen == len(records)})
	}
	return out
}

func scalarText(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case json.Number:
		return x.String()
	case bool:
		if x {
			return "true"
		}
		return "false"
	case ArrayText:
		return string(x)
	default:
		return fmt.Sprint(x)
	}
}
