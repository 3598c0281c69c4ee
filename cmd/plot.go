package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/telecomx-cli/internal/charts"
	"github.com/KaramelBytes/telecomx-cli/internal/churn"
	"github.com/KaramelBytes/telecomx-cli/internal/workspace"
)

var (
	plotOutDir      string
	plotFormat      string
	plotConcurrency int
	plotCategories  []string
	plotNumeric     []string
	plotBins        int
)

var plotCmd = &cobra.Command{
	Use:   "plot",
	Short: "Render churn-rate bars, count plots, histograms and box plots",
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		ext := strings.TrimPrefix(strings.ToLower(plotFormat), ".")
		switch ext {
		case "png", "svg", "pdf", "jpg", "jpeg":
		default:
			return fmt.Errorf("unsupported --format: %s (use png|svg|pdf|jpg)", plotFormat)
		}
		c, err := currentConfig()
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
		opt := charts.Options{WidthIn: c.ChartWidthIn, HeightIn: c.ChartHeightIn}
		dir := s.path(plotOutDir)
		file := func(name string) string { return filepath.Join(dir, name+"."+ext) }

		var jobs []charts.Job
		for _, cat := range plotCategories {
			rates, err := churn.ByCategory(df, cat)
			if err != nil {
				return err
			}
			rp, cp := file("churn_rate_"+cat), file("count_"+cat)
			jobs = append(jobs,
				charts.Job{Name: "churn rate " + cat, Path: rp, Render: func() error { return charts.ChurnRate(cat, rates, rp, opt) }},
				charts.Job{Name: "count " + cat, Path: cp, Render: func() error { return charts.CountBy(df, cat, churn.ColChurn, cp, opt) }},
			)
		}
		for _, col := range plotNumeric {
			hp, bp := file("hist_"+col), file("box_"+col)
			jobs = append(jobs,
				charts.Job{Name: "histogram " + col, Path: hp, Render: func() error { return charts.Histogram(df, col, churn.ColChurn, plotBins, hp, opt) }},
				charts.Job{Name: "box " + col, Path: bp, Render: func() error { return charts.BoxPlot(df, col, churn.ColChurn, bp, opt) }},
			)
		}
		if err := charts.RenderAll(cmd.Context(), jobs, plotConcurrency, logger); err != nil {
			return err
		}
		for _, j := range jobs {
			if err := s.record(workspace.KindChart, j.Path); err != nil {
				return err
			}
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %d charts written to %s\n", okMark, len(jobs), dir)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(plotCmd)
	plotCmd.Flags().StringVarP(&plotOutDir, "out-dir", "o", "charts", "directory for chart files")
	plotCmd.Flags().StringVarP(&plotFormat, "format", "f", "png", "image format: png|svg|pdf|jpg")
	plotCmd.Flags().IntVarP(&plotConcurrency, "concurrency", "j", 4, "charts rendered in parallel")
	plotCmd.Flags().StringSliceVar(&plotCategories, "categories", []string{churn.ColContract, churn.ColPaymentMethod, churn.ColInternetService}, "categorical columns to chart against churn")
	plotCmd.Flags().StringSliceVar(&plotNumeric, "numeric", []string{churn.ColTenure, churn.ColChargesMonthly, churn.ColChargesTotal}, "numeric columns to chart by churn")
	plotCmd.Flags().IntVar(&plotBins, "bins", 20, "histogram bins")
}
