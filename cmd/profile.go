package cmd

import (
	"context"
	"fmt"

	"github.com/go-gota/gota/dataframe"
	"github.com/spf13/cobra"

	"github.com/KaramelBytes/telecomx-cli/internal/profile"
	"github.com/KaramelBytes/telecomx-cli/internal/workspace"
)

var (
	profOut        string
	profTitle      string
	profGroupBy    []string
	profSampleRows int
	profNoCorr     bool
	profNoOutliers bool
	profOutlierThr float64
	profRaw        bool
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Write an HTML or Markdown profiling report of the dataset",
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		opt := profile.DefaultOptions()
		if profSampleRows >= 0 {
			opt.SampleRows = profSampleRows
		}
		opt.GroupBy = profGroupBy
		opt.Correlations = !profNoCorr
		opt.Outliers = !profNoOutliers
		if profOutlierThr > 0 {
			opt.OutlierThreshold = profOutlierThr
		}
		s, err := beginSession(cmd, args)
		if err != nil {
			return err
		}
		defer func() { err = s.finish(err) }()

		c, err := currentConfig()
		if err != nil {
			return err
		}
		load := loadPrepared
		if profRaw {
			load = func(ctx context.Context) (dataframe.DataFrame, error) { return loadRaw(ctx, false) }
		}
		df, err := load(cmd.Context())
		if err != nil {
			return err
		}
		rep, err := profile.Build(dataLocation(c), df, opt)
		if err != nil {
			return err
		}
		path := s.path(profOut)
		if err := rep.Save(path, profTitle); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Profile report saved to %s\n", path)
		return s.record(workspace.KindReport, path)
	},
}

func init() {
	rootCmd.AddCommand(profileCmd)
	profileCmd.Flags().StringVarP(&profOut, "out", "o", "telecomx_profile.html", "report file (.html or .md)")
	profileCmd.Flags().StringVar(&profTitle, "title", "", "report title (default \"Profiling Report\")")
	profileCmd.Flags().StringSliceVar(&profGroupBy, "group-by", nil, "columns to group summaries by")
	profileCmd.Flags().IntVar(&profSampleRows, "sample-rows", -1, "head rows to include (default 5)")
	profileCmd.Flags().BoolVar(&profNoCorr, "no-correlations", false, "skip the correlation matrix")
	profileCmd.Flags().BoolVar(&profNoOutliers, "no-outliers", false, "skip robust outlier counts")
	profileCmd.Flags().Float64Var(&profOutlierThr, "outlier-threshold", 0, "robust |z| threshold (default 3.5)")
	profileCmd.Flags().BoolVar(&profRaw, "raw", false, "profile the flattened data before cleaning")
}
