package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/telecomx-cli/internal/bins"
	"github.com/KaramelBytes/telecomx-cli/internal/churn"
	"github.com/KaramelBytes/telecomx-cli/internal/frame"
)

var (
	binsQuantiles int
	binsEdges     []float64
	binsOutDir    string
)

var binsCmd = &cobra.Command{
	Use:   "bins <column>",
	Short: "Bucket a numeric column into intervals and report churn per interval",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		col := args[0]
		if len(binsEdges) == 0 && binsQuantiles < 2 {
			return fmt.Errorf("pass --edges or --quantiles >= 2")
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
		var edges []float64
		if len(binsEdges) > 0 {
			edges, err = bins.Fixed(binsEdges)
		} else {
			var xs []float64
			if xs, err = frame.Values(df, col); err != nil {
				return err
			}
			edges, err = bins.Quantile(xs, binsQuantiles)
		}
		if err != nil {
			return err
		}
		name := col + "_bin"
		if df, err = bins.AddBinColumn(df, col, edges, name); err != nil {
			return err
		}
		rates, err := churn.ByCategory(df, name)
		if err != nil {
			return err
		}
		rank := bins.Rank(edges)
		sort.SliceStable(rates, func(i, j int) bool { return rank[rates[i].Category] < rank[rates[j].Category] })

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, heading("Churn by "+name))
		renderRates(out, name, rates)
		if binsOutDir != "" {
			return saveRates(out, s, binsOutDir, name, rates)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(binsCmd)
	binsCmd.Flags().IntVarP(&binsQuantiles, "quantiles", "q", 4, "number of equal-frequency bins")
	binsCmd.Flags().Float64SliceVar(&binsEdges, "edges", nil, "explicit increasing bin edges, e.g. 0,12,24,72")
	binsCmd.Flags().StringVar(&binsOutDir, "out-dir", "", "write the rate table as CSV into this directory")
}
