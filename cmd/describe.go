package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/telecomx-cli/internal/describe"
)

var (
	descMetrics     []string
	descBasic       bool
	descListMetrics bool
	descFormat      string
	descOut         string
)

var describeCmd = &cobra.Command{
	Use:   "describe",
	Short: "Descriptive statistics for every numeric column",
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		out := cmd.OutOrStdout()
		if descListMetrics {
			fmt.Fprintln(out, strings.Join(describe.Names(describe.DefaultMetrics()), "\n"))
			return nil
		}
		metrics, err := chooseMetrics()
		if err != nil {
			return err
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
		t, err := describe.Full(df, metrics, logger)
		if err != nil {
			return err
		}
		return emitTable(out, s, t, descFormat, descOut)
	},
}

var (
	descByMetrics []string
	descByBasic   bool
	descByFormat  string
	descByOut     string
)

var describeByCmd = &cobra.Command{
	Use:   "describe-by <category> <column>",
	Short: "Statistics of a numeric column overall and per category level",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		var metrics []describe.Metric
		if !descByBasic {
			metrics = describe.DefaultMetrics()
			if len(descByMetrics) > 0 {
				if metrics, err = describe.Select(metrics, descByMetrics); err != nil {
					return err
				}
			}
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
		t, err := describe.ByCategory(df, args[0], args[1], metrics)
		if err != nil {
			return err
		}
		return emitTable(cmd.OutOrStdout(), s, t, descByFormat, descByOut)
	},
}

func chooseMetrics() ([]describe.Metric, error) {
	if descBasic {
		return describe.BasicMetrics(), nil
	}
	if len(descMetrics) == 0 {
		return describe.DefaultMetrics(), nil
	}
	return describe.Select(describe.DefaultMetrics(), descMetrics)
}

func init() {
	rootCmd.AddCommand(describeCmd)
	describeCmd.Flags().StringSliceVarP(&descMetrics, "metrics", "m", nil, "comma-separated metric names (see --list-metrics)")
	describeCmd.Flags().BoolVar(&descBasic, "basic", false, "only count, mean, std, min, quartiles and max")
	describeCmd.Flags().BoolVar(&descListMetrics, "list-metrics", false, "print available metric names and exit")
	describeCmd.Flags().StringVarP(&descFormat, "format", "f", "table", "output format: table|csv|markdown")
	describeCmd.Flags().StringVarP(&descOut, "out", "o", "", "also save the table (.csv or .md)")

	rootCmd.AddCommand(describeByCmd)
	describeByCmd.Flags().StringSliceVarP(&descByMetrics, "metrics", "m", nil, "comma-separated metric names")
	describeByCmd.Flags().BoolVar(&descByBasic, "basic", false, "only count, mean, std, min, quartiles and max")
	describeByCmd.Flags().StringVarP(&descByFormat, "format", "f", "table", "output format: table|csv|markdown")
	describeByCmd.Flags().StringVarP(&descByOut, "out", "o", "", "also save the table (.csv or .md)")
}
