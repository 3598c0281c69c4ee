package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/KaramelBytes/telecomx-cli/internal/churn"
	"github.com/KaramelBytes/telecomx-cli/internal/describe"
	"github.com/KaramelBytes/telecomx-cli/internal/hypothesis"
)

var (
	chiAlpha float64
	chiJSON  bool
)

var chi2Cmd = &cobra.Command{
	Use:   "chi2 <column> [against]",
	Short: "Chi-square test of independence between two categorical columns (default against Churn)",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		against := churn.ColChurn
		if len(args) == 2 {
			against = args[1]
		}
		alpha, err := significance(cmd, chiAlpha)
		if err != nil {
			return err
		}
		df, err := loadPrepared(cmd.Context())
		if err != nil {
			return err
		}
		t, err := hypothesis.Contingency(df, args[0], against)
		if err != nil {
			return err
		}
		res, err := hypothesis.ChiSquare(t, alpha)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if chiJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(struct {
				Table  *hypothesis.Table           `json:"table"`
				Result *hypothesis.ChiSquareResult `json:"result"`
			}{t, res})
		}
		fmt.Fprintln(out, heading(fmt.Sprintf("%s x %s", t.RowName, t.ColName)))
		tw := tablewriter.NewWriter(out)
		tw.SetHeader(append([]string{""}, t.Cols...))
		tw.SetAutoFormatHeaders(false)
		tw.SetAlignment(tablewriter.ALIGN_RIGHT)
		for i, r := range t.Rows {
			row := []string{r}
			for _, v := range t.Counts[i] {
				row = append(row, describe.Scalar(v).String())
			}
			tw.Append(row)
		}
		tw.Render()
		fmt.Fprintf(out, "chi2=%.4f dof=%d p=%.4g cramers_v=%.4f", res.Statistic, res.DOF, res.PValue, res.CramersV)
		if res.Corrected {
			fmt.Fprint(out, " (yates)")
		}
		fmt.Fprintln(out)
		printVerdict(cmd, res.Significant, alpha)
		return nil
	},
}

func significance(cmd *cobra.Command, flagVal float64) (float64, error) {
	if cmd.Flags().Changed("alpha") {
		if flagVal <= 0 || flagVal >= 1 {
			return 0, fmt.Errorf("--alpha must be in (0, 1)")
		}
		return flagVal, nil
	}
	c, err := currentConfig()
	if err != nil {
		return 0, err
	}
	return c.Significance, nil
}

func printVerdict(cmd *cobra.Command, significant bool, alpha float64) {
	if significant {
		fmt.Fprintf(cmd.OutOrStdout(), "%s significant at alpha=%g\n", okMark, alpha)
		return
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s not significant at alpha=%g\n", warnMark, alpha)
}

func init() {
	rootCmd.AddCommand(chi2Cmd)
	chi2Cmd.Flags().Float64Var(&chiAlpha, "alpha", 0.05, "significance level (default from config)")
	chi2Cmd.Flags().BoolVar(&chiJSON, "json", false, "print table and result as JSON")
}
