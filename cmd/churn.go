package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/telecomx-cli/internal/churn"
)

var churnOutDir string

var churnCmd = &cobra.Command{
	Use:   "churn [category...]",
	Short: "Churn rate per level of one or more categorical columns",
	Long:  "With no arguments, reports contract, payment method, internet service and senior citizen.",
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		categories := args
		if len(categories) == 0 {
			categories = []string{churn.ColContract, churn.ColPaymentMethod, churn.ColInternetService, churn.ColSeniorCitizen}
		}
		s, err := beginSession(cmd, args)
		if err != nil {
			return err
		}
		defer func() { err = s.finish(err) }()

		df, err := loadPrepared(cmd.Context())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, cat := range categories {
			rates, err := churn.ByCategory(df, cat)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, heading("Churn by "+cat))
			renderRates(out, cat, rates)
			if churnOutDir != "" {
				if err := saveRates(out, s, churnOutDir, cat, rates); err != nil {
					return err
				}
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(churnCmd)
	churnCmd.Flags().StringVar(&churnOutDir, "out-dir", "", "write one <category>_churn.csv per category into this directory")
}
