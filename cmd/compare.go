package cmd

import (
	"fmt"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/KaramelBytes/telecomx-cli/internal/churn"
	"github.com/KaramelBytes/telecomx-cli/internal/describe"
	"github.com/KaramelBytes/telecomx-cli/internal/hypothesis"
)

var cmpAlpha float64

var compareCmd = &cobra.Command{
	Use:   "compare [column...]",
	Short: "Mann-Whitney U comparison of numeric columns between retained and churned customers",
	Long:  "With no arguments, compares tenure, monthly charges, total charges and daily charges.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cols := args
		if len(cols) == 0 {
			cols = []string{churn.ColTenure, churn.ColChargesMonthly, churn.ColChargesTotal, churn.ColDaily}
		}
		alpha, err := significance(cmd, cmpAlpha)
		if err != nil {
			return err
		}
		df, err := loadPrepared(cmd.Context())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		tw := tablewriter.NewWriter(out)
		tw.SetHeader([]string{"column", "retained_n", "churned_n", "retained_median", "churned_median", "median_diff_%", "U", "p_value", "significant"})
		tw.SetAutoFormatHeaders(false)
		tw.SetAlignment(tablewriter.ALIGN_RIGHT)
		for _, col := range cols {
			c, err := hypothesis.CompareByChurn(df, churn.ColChurn, col, alpha)
			if err != nil {
				return err
			}
			tw.Append([]string{
				c.Column,
				fmt.Sprint(c.RetainedN),
				fmt.Sprint(c.ChurnedN),
				describe.Scalar(c.RetainedMed).String(),
				describe.Scalar(c.ChurnedMed).String(),
				describe.Scalar(c.MedianDiffPct).String(),
				describe.Scalar(c.U).String(),
				fmt.Sprintf("%.4g", c.PValue),
				fmt.Sprint(c.Significant),
			})
		}
		tw.SetCaption(true, fmt.Sprintf("alpha=%g, two-sided", alpha))
		tw.Render()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(compareCmd)
	compareCmd.Flags().Float64Var(&cmpAlpha, "alpha", 0.05, "significance level (default from config)")
}
