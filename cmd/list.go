package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/telecomx-cli/internal/utils"
	"github.com/KaramelBytes/telecomx-cli/internal/workspace"
)

var (
	listArtifacts bool
	listRuns      bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List workspaces, or the artifacts and runs of --workspace",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if !listArtifacts && !listRuns {
			return listAllWorkspaces(cmd)
		}
		if flagWorkspace == "" {
			return fmt.Errorf("--workspace is required with --artifacts or --runs")
		}
		dir, err := resolveWorkspaceDir(flagWorkspace)
		if err != nil {
			return err
		}
		ws, err := workspace.Load(dir)
		if err != nil {
			return err
		}
		if listArtifacts {
			arts := ws.ListArtifacts()
			if len(arts) == 0 {
				fmt.Fprintln(out, "(no artifacts)")
			}
			for _, a := range arts {
				fmt.Fprintf(out, "- %s [%s] %s (%d bytes, %s)\n", a.ID, a.Kind, a.Path, a.Bytes, a.Command)
			}
		}
		if listRuns {
			if len(ws.Runs) == 0 {
				fmt.Fprintln(out, "(no runs)")
			}
			for _, r := range ws.Runs {
				status := "ok"
				if r.Error != "" {
					status = "error: " + r.Error
				}
				fmt.Fprintf(out, "- %s %s %s (%d artifacts) %s\n", r.ID, r.StartedAt.Format("2006-01-02 15:04:05"), r.Command, len(r.Artifacts), status)
			}
		}
		return nil
	},
}

func listAllWorkspaces(cmd *cobra.Command) error {
	c, err := currentConfig()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	dirs, err := os.ReadDir(c.WorkspacesDir)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	found := false
	for _, e := range dirs {
		if !e.IsDir() {
			continue
		}
		if _, err := os.Stat(filepath.Join(c.WorkspacesDir, e.Name(), utils.WorkspaceFileName)); err == nil {
			fmt.Fprintf(out, "- %s\n", e.Name())
			found = true
		}
	}
	if !found {
		fmt.Fprintln(out, "(no workspaces)")
	}
	return nil
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVar(&listArtifacts, "artifacts", false, "list artifacts recorded in --workspace")
	listCmd.Flags().BoolVar(&listRuns, "runs", false, "list runs recorded in --workspace")
}
