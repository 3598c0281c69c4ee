// Package workspace persists the artifacts and runs of an analysis directory.
package workspace

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"

	"github.com/KaramelBytes/telecomx-cli/internal/utils"
)

// Workspace groups the outputs of an analysis on disk.
type Workspace struct {
	Name        string               `json:"name"`
	Description string               `json:"description"`
	Source      string               `json:"source"`
	Artifacts   map[string]*Artifact `json:"artifacts"`
	Runs        []*Run               `json:"runs"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`

	rootDir string
}

// New constructs an in-memory workspace. Call Save to persist.
func New(name, description, source, rootDir string) *Workspace {
	now := time.Now()
	return &Workspace{
		Name:        name,
		Description: description,
		Source:      source,
		Artifacts:   make(map[string]*Artifact),
		CreatedAt:   now,
		UpdatedAt:   now,
		rootDir:     rootDir,
	}
}

// Init creates and saves a workspace, refusing to overwrite an existing one.
func Init(name, description, source, rootDir string) (*Workspace, error) {
	if _, err := os.Stat(filepath.Join(rootDir, utils.WorkspaceFileName)); err == nil {
		return nil, fmt.Errorf("workspace already exists at %s", rootDir)
	}
	w := New(name, description, source, rootDir)
	if err := w.Save(); err != nil {
		return nil, err
	}
	return w, nil
}

// Load reads workspace.json from dir.
func Load(dir string) (*Workspace, error) {
	path := filepath.Join(dir, utils.WorkspaceFileName)
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("workspace not found at %s: %w", path, err)
		}
		return nil, fmt.Errorf("read workspace: %w", err)
	}
	var w Workspace
	if err := json.Unmarshal(b, &w); err != nil {
		return nil, fmt.Errorf("parse workspace: %w", err)
	}
	if w.Artifacts == nil {
		w.Artifacts = make(map[string]*Artifact)
	}
	w.rootDir = dir
	return &w, nil
}

// RootDir returns the on-disk workspace directory.
func (w *Workspace) RootDir() string { return w.rootDir }

// Path resolves name relative to the workspace directory.
func (w *Workspace) Path(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(w.rootDir, name)
}

// Save writes workspace.json atomically.
func (w *Workspace) Save() error {
	if w.rootDir == "" {
		return errors.New("workspace root directory not set")
	}
	w.UpdatedAt = time.Now()
	data, err := utils.PrettyJSON(w)
	if err != nil {
		return err
	}
	return utils.SafeWriteFile(filepath.Join(w.rootDir, utils.WorkspaceFileName), data)
}

// AddArtifact records an existing file. Paths inside the workspace are stored relative to it.
func (w *Workspace) AddArtifact(kind, path, command, note string) (*Artifact, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat artifact: %w", err)
	}
	if rel, err := filepath.Rel(w.rootDir, path); err == nil && filepath.IsLocal(rel) {
		path = rel
	}
	a := &Artifact{
		ID:      uuid.NewString(),
		Kind:    kind,
		Path:    path,
		Command: command,
		Note:    note,
		Bytes:   info.Size(),
		AddedAt: time.Now(),
	}
	if w.Artifacts == nil {
		w.Artifacts = make(map[string]*Artifact)
	}
	// a path is tracked once; re-running a command refreshes its entry
	for id, old := range w.Artifacts {
		if old.Path == a.Path {
			delete(w.Artifacts, id)
		}
	}
	w.Artifacts[a.ID] = a
	w.UpdatedAt = time.Now()
	return a, nil
}

// ListArtifacts returns artifacts ordered by path.
func (w *Workspace) ListArtifacts() []*Artifact {
	out := make([]*Artifact, 0, len(w.Artifacts))
	for _, a := range w.Artifacts {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Path == out[j].Path {
			return out[i].AddedAt.Before(out[j].AddedAt)
		}
		return out[i].Path < out[j].Path
	})
	return out
}

// StartRun appends a run with a time-ordered ULID.
func (w *Workspace) StartRun(command string, args map[string]string) *Run {
	r := &Run{
		ID:        ulid.Make().String(),
		Command:   command,
		Args:      args,
		StartedAt: time.Now(),
	}
	w.Runs = append(w.Runs, r)
	return r
}

// FinishRun stamps r and attaches the artifacts it produced.
func (w *Workspace) FinishRun(r *Run, runErr error, artifacts ...*Artifact) {
	r.FinishedAt = time.Now()
	if runErr != nil {
		r.Error = runErr.Error()
	}
	for _, a := range artifacts {
		if a != nil {
			r.Artifacts = append(r.Artifacts, a.ID)
		}
	}
	w.UpdatedAt = time.Now()
}

// LastRun returns the most recent run for command, or nil.
func (w *Workspace) LastRun(command string) *Run {
	for i := len(w.Runs) - 1; i >= 0; i-- {
		if w.Runs[i].Command == command {
			return w.Runs[i]
		}
	}
	return nil
}
