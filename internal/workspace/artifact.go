package workspace

import "time"

// Artifact is a file produced by a command and recorded in the workspace.
type Artifact struct {
	ID      string    `json:"id"`
	Kind    string    `json:"kind"`
	Path    string    `json:"path"`
	Command string    `json:"command"`
	Note    string    `json:"note,omitempty"`
	Bytes   int64     `json:"bytes"`
	AddedAt time.Time `json:"added_at"`
}

// Run records one command invocation against the workspace.
type Run struct {
	ID         string            `json:"id"`
	Command    string            `json:"command"`
	Args       map[string]string `json:"args,omitempty"`
	StartedAt  time.Time         `json:"started_at"`
	FinishedAt time.Time         `json:"finished_at,omitempty"`
	Error      string            `json:"error,omitempty"`
	Artifacts  []string          `json:"artifacts,omitempty"`
}

// Artifact kinds.
const (
	KindDataset = "dataset"
	KindTable   = "table"
	KindChart   = "chart"
	KindReport  = "report"
	KindExport  = "export"
)
