package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/KaramelBytes/telecomx-cli/internal/churn"
	"github.com/KaramelBytes/telecomx-cli/internal/store"
	"github.com/KaramelBytes/telecomx-cli/internal/workspace"
)

var (
	prepOut  string
	prepJSON bool
)

var prepareCmd = &cobra.Command{
	Use:   "prepare",
	Short: "Clean invalid values, recode Yes/No columns and derive service features",
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		s, err := beginSession(cmd, args)
		if err != nil {
			return err
		}
		defer func() { err = s.finish(err) }()

		raw, err := loadRaw(cmd.Context(), false)
		if err != nil {
			return err
		}
		res, err := churn.Prepare(raw, logger)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if prepJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			if err := enc.Encode(struct {
				Rows    int                 `json:"rows"`
				Columns int                 `json:"columns"`
				Invalid churn.InvalidReport `json:"invalid"`
				Binary  []string            `json:"binary_columns"`
			}{res.Frame.Nrow(), res.Frame.Ncol(), res.Invalid, res.Binary}); err != nil {
				return err
			}
		} else {
			fmt.Fprintln(out, heading("Invalid values"))
			tw := tablewriter.NewWriter(out)
			tw.SetHeader([]string{"check", "before", "after"})
			tw.SetAutoFormatHeaders(false)
			tw.AppendBulk([][]string{
				{churn.ColChurn, fmt.Sprint(res.Invalid.ChurnBefore), fmt.Sprint(res.Invalid.ChurnAfter)},
				{churn.ColChargesTotal, fmt.Sprint(res.Invalid.TotalChargesBefore), fmt.Sprint(res.Invalid.TotalChargesAfter)},
				{"no phone and no internet", fmt.Sprint(res.Invalid.NoServices), "-"},
				{"multiple lines without phone", fmt.Sprint(res.Invalid.LinesWithoutPhone), "-"},
			})
			tw.Render()
			fmt.Fprintf(out, "%s Prepared %d rows x %d columns (%d binary columns)\n", okMark, res.Frame.Nrow(), res.Frame.Ncol(), len(res.Binary))
		}
		if prepOut == "" {
			return nil
		}
		path := s.path(prepOut)
		if err := store.WriteCSV(res.Frame, path); err != nil {
			return err
		}
		if !prepJSON {
			fmt.Fprintf(out, "%s Prepared dataset written to %s\n", okMark, path)
		}
		return s.record(workspace.KindDataset, path)
	},
}

func init() {
	rootCmd.AddCommand(prepareCmd)
	prepareCmd.Flags().StringVarP(&prepOut, "out", "o", "", "write the prepared dataset to CSV (.csv, .csv.gz, .csv.zst)")
	prepareCmd.Flags().BoolVar(&prepJSON, "json", false, "print the cleaning report as JSON")
}
