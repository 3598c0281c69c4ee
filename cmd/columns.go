package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/telecomx-cli/internal/churn"
)

var (
	colsMaxDistinct int
	colsDrop        []string
)

var columnsCmd = &cobra.Command{
	Use:   "columns",
	Short: "List categorical domains and numeric columns of the prepared dataset",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := currentConfig()
		if err != nil {
			return err
		}
		maxDistinct := c.CategoricalMaxDistinct
		if cmd.Flags().Changed("max-distinct") {
			maxDistinct = colsMaxDistinct
		}
		df, err := loadPrepared(cmd.Context())
		if err != nil {
			return err
		}
		domains, err := churn.ExtractCategorical(df, maxDistinct, logger)
		if err != nil {
			return err
		}
		numeric, err := churn.ExtractNumeric(df, churn.DomainColumns(domains), colsDrop, logger)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, heading(fmt.Sprintf("Categorical (<= %d distinct)", maxDistinct)))
		for _, d := range domains {
			fmt.Fprintf(out, "- %s (%d): %s\n", d.Column, d.Distinct, strings.Join(d.Values, ", "))
		}
		fmt.Fprintln(out, heading("Numeric"))
		for _, n := range numeric {
			fmt.Fprintf(out, "- %s\n", n)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(columnsCmd)
	columnsCmd.Flags().IntVar(&colsMaxDistinct, "max-distinct", 5, "largest distinct count treated as categorical (default from config)")
	columnsCmd.Flags().StringSliceVar(&colsDrop, "drop", []string{churn.ColCustomerID}, "columns excluded from the numeric list")
}
