package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/telecomx-cli/internal/store"
	"github.com/KaramelBytes/telecomx-cli/internal/workspace"
)

var (
	fetchRefresh bool
	fetchOut     string
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download (or read) the dataset and show its flattened shape",
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		s, err := beginSession(cmd, args)
		if err != nil {
			return err
		}
		defer func() { err = s.finish(err) }()

		df, err := loadRaw(cmd.Context(), fetchRefresh)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s Loaded %d rows x %d columns\n", okMark, df.Nrow(), df.Ncol())
		for _, name := range df.Names() {
			fmt.Fprintf(out, "- %s (%s)\n", name, df.Col(name).Type())
		}
		if fetchOut == "" {
			return nil
		}
		path := s.path(fetchOut)
		if err := store.WriteCSV(df, path); err != nil {
			return err
		}
		fmt.Fprintf(out, "%s Raw table written to %s\n", okMark, path)
		return s.record(workspace.KindDataset, path)
	},
}

func init() {
	rootCmd.AddCommand(fetchCmd)
	fetchCmd.Flags().BoolVar(&fetchRefresh, "refresh", false, "ignore the cached download")
	fetchCmd.Flags().StringVarP(&fetchOut, "out", "o", "", "write the flattened table to CSV (.csv, .csv.gz, .csv.zst)")
}
