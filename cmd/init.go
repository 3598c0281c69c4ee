package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/telecomx-cli/internal/workspace"
)

var (
	initDescription string
	initSource      string
)

var initCmd = &cobra.Command{
	Use:   "init <workspace>",
	Short: "Initialize a workspace that records generated tables, charts and reports",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := resolveWorkspaceDir(args[0])
		if err != nil {
			return err
		}
		src := initSource
		if src == "" {
			c, err := currentConfig()
			if err != nil {
				return err
			}
			src = dataLocation(c)
		}
		if _, err := workspace.Init(args[0], initDescription, src, dir); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s Workspace initialized: %s\n", okMark, dir)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().StringVarP(&initDescription, "desc", "d", "", "workspace description")
	initCmd.Flags().StringVar(&initSource, "source", "", "dataset location recorded in the workspace (default --data or source_url)")
}
