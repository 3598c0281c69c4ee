package cmd

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/KaramelBytes/telecomx-cli/internal/utils"
	"github.com/KaramelBytes/telecomx-cli/internal/workspace"
)

// session ties one command invocation to the optional --workspace.
type session struct {
	ws   *workspace.Workspace
	run  *workspace.Run
	arts []*workspace.Artifact
}

// resolveWorkspaceDir maps a bare name to a directory under the configured
// workspaces dir. Paths (".", "..", or anything with a separator) resolve to
// the enclosing workspace root, so a subdirectory of a workspace works too.
func resolveWorkspaceDir(name string) (string, error) {
	if name == "." || name == ".." || filepath.IsAbs(name) || strings.ContainsRune(name, os.PathSeparator) {
		if root, err := utils.FindWorkspaceRoot(name); err == nil {
			return root, nil
		}
		return name, nil
	}
	c, err := currentConfig()
	if err != nil {
		return "", err
	}
	return filepath.Join(c.WorkspacesDir, name), nil
}

func beginSession(cmd *cobra.Command, args []string) (*session, error) {
	s := &session{}
	if flagWorkspace == "" {
		return s, nil
	}
	dir, err := resolveWorkspaceDir(flagWorkspace)
	if err != nil {
		return nil, err
	}
	ws, err := workspace.Load(dir)
	if err != nil {
		return nil, err
	}
	s.ws = ws
	runArgs := map[string]string{}
	if len(args) > 0 {
		runArgs["args"] = strings.Join(args, " ")
	}
	cmd.Flags().Visit(func(f *pflag.Flag) {
		if f.Name != "workspace" {
			runArgs[f.Name] = f.Value.String()
		}
	})
	if len(runArgs) == 0 {
		runArgs = nil
	}
	s.run = ws.StartRun(cmd.Name(), runArgs)
	return s, nil
}

// path places relative outputs inside the workspace.
func (s *session) path(p string) string {
	if s.ws == nil || p == "" {
		return p
	}
	return s.ws.Path(p)
}

func (s *session) record(kind, path string) error {
	if s.ws == nil {
		return nil
	}
	a, err := s.ws.AddArtifact(kind, path, s.run.Command, "")
	if err != nil {
		return err
	}
	s.arts = append(s.arts, a)
	return nil
}

// finish stamps the run and saves the workspace, returning runErr unchanged.
func (s *session) finish(runErr error) error {
	if s.ws == nil {
		return runErr
	}
	s.ws.FinishRun(s.run, runErr, s.arts...)
	if err := s.ws.Save(); err != nil {
		return errors.Join(runErr, err)
	}
	return runErr
}
