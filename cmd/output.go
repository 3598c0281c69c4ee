package cmd

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/KaramelBytes/telecomx-cli/internal/churn"
	"github.com/KaramelBytes/telecomx-cli/internal/describe"
	"github.com/KaramelBytes/telecomx-cli/internal/store"
	"github.com/KaramelBytes/telecomx-cli/internal/utils"
	"github.com/KaramelBytes/telecomx-cli/internal/workspace"
)

// emitTable prints t in format and, when out is set, also saves it; the file
// format follows the extension (.md/.markdown or CSV otherwise).
func emitTable(w io.Writer, s *session, t *describe.Table, format, out string) error {
	switch strings.ToLower(format) {
	case "", "table":
		t.Render(w)
	case "csv":
		if err := t.WriteCSV(w); err != nil {
			return err
		}
	case "md", "markdown":
		fmt.Fprint(w, t.Markdown())
	default:
		return fmt.Errorf("unsupported --format: %s (use table|csv|markdown)", format)
	}
	if out == "" {
		return nil
	}
	path := s.path(out)
	var buf bytes.Buffer
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		buf.WriteString(t.Markdown())
	default:
		if err := t.WriteCSV(&buf); err != nil {
			return err
		}
	}
	if err := utils.SafeWriteFile(path, buf.Bytes()); err != nil {
		return err
	}
	fmt.Fprintf(w, "%s Table written to %s\n", okMark, path)
	return s.record(workspace.KindTable, path)
}

func renderRates(w io.Writer, category string, rates []churn.CategoryRate) {
	tw := tablewriter.NewWriter(w)
	tw.SetHeader([]string{category, "customer", "perc_total_customer", "churn", "perc_churn_customer"})
	tw.SetAutoFormatHeaders(false)
	tw.SetAlignment(tablewriter.ALIGN_RIGHT)
	for _, r := range rates {
		tw.Append([]string{
			r.Category,
			fmt.Sprint(r.Customers),
			describe.Scalar(r.PercTotalCustomer).String(),
			fmt.Sprint(r.Churned),
			describe.Scalar(r.PercChurnCustomer).String(),
		})
	}
	tw.Render()
}

// saveRates writes the rate table as CSV under dir.
func saveRates(w io.Writer, s *session, dir, category string, rates []churn.CategoryRate) error {
	path := s.path(filepath.Join(dir, category+"_churn.csv"))
	if err := store.WriteCSV(churn.RatesFrame(category, rates), path); err != nil {
		return err
	}
	fmt.Fprintf(w, "%s Table written to %s\n", okMark, path)
	return s.record(workspace.KindTable, path)
}
