package profile

import (
	"bytes"
	"fmt"
	"html/template"
	"path/filepath"
	"sort"
	"strings"

	"github.com/KaramelBytes/telecomx-cli/internal/utils"
)

// Markdown renders a compact sectioned report.
func (r *Report) Markdown() string {
	var b strings.Builder
	b.WriteString("[DATASET SUMMARY]\n")
	if r.Name != "" {
		b.WriteString(fmt.Sprintf("Dataset: %s\n", r.Name))
	}
	b.WriteString(fmt.Sprintf("Rows: %d\n", r.Rows))
	b.WriteString(fmt.Sprintf("Columns: %d\n\n", len(r.Cols)))

	b.WriteString("[SCHEMA]\n")
	for _, c := range r.Cols {
		b.WriteString(fmt.Sprintf("- %s: %s (non-null %d, missing %.1f%%)", safeName(c.Name), c.Kind, c.NonNull, c.MissingPct()))
		switch c.Kind {
		case KindNumeric, KindBinary:
			b.WriteString(fmt.Sprintf("; min %.4g, max %.4g, mean %.4g, std %.4g", c.Min, c.Max, c.Mean, c.Std))
			if c.OutlierThreshold > 0 {
				b.WriteString(fmt.Sprintf("; outliers: %d above |z|>%.1f", c.OutliersCount, c.OutlierThreshold))
				if c.OutliersMaxAbsZ > 0 {
					b.WriteString(fmt.Sprintf(" (max |z|≈%.2f)", c.OutliersMaxAbsZ))
				}
			}
		case KindCategorical:
			if len(c.TopValues) > 0 {
				b.WriteString("; top: ")
				for i, kv := range c.TopValues {
					if i > 0 {
						b.WriteString(", ")
					}
					b.WriteString(fmt.Sprintf("%s(%d)", safeVal(kv.Value), kv.Count))
				}
				if c.Unique > len(c.TopValues) {
					b.WriteString(fmt.Sprintf("; unique=%d", c.Unique))
				}
			}
		case KindText:
			if len(c.ExampleTexts) > 0 {
				b.WriteString("; e.g., ")
				for i, ex := range c.ExampleTexts {
					if i > 0 {
						b.WriteString(" | ")
					}
					b.WriteString(safeVal(ex))
				}
			}
		}
		b.WriteString("\n")
	}
	if len(r.Groups) > 0 {
		b.WriteString("\n[GROUP-BY SUMMARY]\n")
		for _, g := range r.Groups {
			b.WriteString(fmt.Sprintf("- %s (n=%d)\n", g.Key, g.Size))
			keys := metricKeys(g)
			if len(keys) > 6 {
				keys = keys[:6]
			}
			for _, k := range keys {
				m := g.Metrics[k]
				b.WriteString(fmt.Sprintf("  • %s: mean %.4g (min %.4g, max %.4g)\n", k, m.Mean, m.Min, m.Max))
			}
		}
	}
	if r.Corr != nil && len(r.Corr.Columns) >= 2 {
		b.WriteString("\n[CORRELATIONS]\n")
		for _, p := range r.Corr.TopPairs(10) {
			b.WriteString(fmt.Sprintf("- %s ~ %s: r=%.3f\n", p.A, p.B, p.R))
		}
	}
	if len(r.Samples) > 0 {
		b.WriteString("\n[HEAD AND SAMPLE ROWS]\n")
		b.WriteString("| ")
		for i, c := range r.Cols {
			if i > 0 {
				b.WriteString(" | ")
			}
			b.WriteString(safeName(c.Name))
		}
		b.WriteString(" |\n| ")
		for i := range r.Cols {
			if i > 0 {
				b.WriteString(" | ")
			}
			b.WriteString("---")
		}
		b.WriteString(" |\n")
		for _, row := range r.Samples {
			b.WriteString("| ")
			for i := range r.Cols {
				if i > 0 {
					b.WriteString(" | ")
				}
				val := ""
				if i < len(row) {
					val = row[i]
				}
				if len(val) > 80 {
					val = val[:77] + "..."
				}
				b.WriteString(safeVal(val))
			}
			b.WriteString(" |\n")
		}
	}
	if len(r.Warnings) > 0 {
		b.WriteString("\n[NOTES]\n")
		for _, w := range r.Warnings {
			b.WriteString("- ")
			b.WriteString(w)
			b.WriteString("\n")
		}
	}
	return b.String()
}

func metricKeys(g GroupResult) []string {
	keys := make([]string, 0, len(g.Metrics))
	for k := range g.Metrics {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

var htmlReport = template.Must(template.New("profile").Funcs(template.FuncMap{
	"num": func(f float64) string { return fmt.Sprintf("%.4g", f) },
	"pct": func(c ColumnSummary) string { return fmt.Sprintf("%.1f%%", c.MissingPct()) },
	"r":   func(f float64) string { return fmt.Sprintf("%.3f", f) },
	"numeric": func(c ColumnSummary) bool {
		return c.Kind == KindNumeric || c.Kind == KindBinary
	},
}).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body{font-family:sans-serif;margin:2em;color:#222}
table{border-collapse:collapse;margin:1em 0}
th,td{border:1px solid #ccc;padding:4px 8px;text-align:left}
th{background:#f3f3f3}
.warn{color:#a15c00}
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<h2>Dataset summary</h2>
<p>{{if .R.Name}}Dataset: {{.R.Name}}<br>{{end}}Rows: {{.R.Rows}}<br>Columns: {{len .R.Cols}}</p>
<h2>Schema</h2>
<table>
<tr><th>column</th><th>kind</th><th>non-null</th><th>missing</th><th>unique</th><th>min</th><th>max</th><th>mean</th><th>std</th><th>outliers</th><th>top values</th></tr>
{{range .R.Cols}}<tr><td>{{.Name}}</td><td>{{.Kind}}</td><td>{{.NonNull}}</td><td>{{pct .}}</td><td>{{.Unique}}</td>
{{if numeric .}}<td>{{num .Min}}</td><td>{{num .Max}}</td><td>{{num .Mean}}</td><td>{{num .Std}}</td><td>{{if gt .OutlierThreshold 0.0}}{{.OutliersCount}}{{end}}</td><td></td>
{{else}}<td></td><td></td><td></td><td></td><td></td><td>{{range $i, $t := .TopValues}}{{if $i}}, {{end}}{{$t.Value}} ({{$t.Count}}){{end}}{{range $i, $t := .ExampleTexts}}{{if $i}} | {{end}}{{$t}}{{end}}</td>
{{end}}</tr>
{{end}}</table>
{{if .R.Groups}}<h2>Group-by summary</h2>
<table>
<tr><th>group</th><th>n</th><th>means</th></tr>
{{range .R.Groups}}<tr><td>{{.Key}}</td><td>{{.Size}}</td><td>{{range $k, $m := .Metrics}}{{$k}}={{num $m.Mean}} {{end}}</td></tr>
{{end}}</table>{{end}}
{{if .Pairs}}<h2>Correlations</h2>
<table>
<tr><th>a</th><th>b</th><th>r</th></tr>
{{range .Pairs}}<tr><td>{{.A}}</td><td>{{.B}}</td><td>{{r .R}}</td></tr>
{{end}}</table>{{end}}
{{if .R.Samples}}<h2>Head and sample rows</h2>
<table>
<tr>{{range .R.Cols}}<th>{{.Name}}</th>{{end}}</tr>
{{range .R.Samples}}<tr>{{range .}}<td>{{.}}</td>{{end}}</tr>
{{end}}</table>{{end}}
{{if .R.Warnings}}<h2>Notes</h2>
<ul>{{range .R.Warnings}}<li class="warn">{{.}}</li>{{end}}</ul>{{end}}
</body>
</html>
`))

// HTML renders the report as a standalone page.
func (r *Report) HTML(title string) (string, error) {
	if title == "" {
		title = "Profiling Report"
	}
	data := struct {
		Title string
		R     *Report
		Pairs []PairCorr
	}{Title: title, R: r}
	if r.Corr != nil {
		data.Pairs = r.Corr.TopPairs(20)
	}
	var buf bytes.Buffer
	if err := htmlReport.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render html: %w", err)
	}
	return buf.String(), nil
}

// Save writes the report to path: .html/.htm as HTML, .md/.txt as Markdown.
func (r *Report) Save(path, title string) error {
	var body string
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		h, err := r.HTML(title)
		if err != nil {
			return err
		}
		body = h
	case ".md", ".txt", ".markdown":
		body = r.Markdown()
	default:
		return fmt.Errorf("profile: unsupported report extension %q (use .html or .md)", filepath.Ext(path))
	}
	return utils.SafeWriteFile(path, []byte(body))
}
