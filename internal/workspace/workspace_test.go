package workspace_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/oklog/ulid/v2"

	"github.com/KaramelBytes/telecomx-cli/internal/utils"
	"github.com/KaramelBytes/telecomx-cli/internal/workspace"
)

func TestInitLoadRoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "ws")
	w, err := workspace.Init("telecomx", "churn EDA", "data.json", dir)
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, utils.WorkspaceFileName)); err != nil {
		t.Fatalf("workspace.json missing: %v", err)
	}
	if _, err := workspace.Init("again", "", "", dir); err == nil {
		t.Fatalf("expected error re-initialising workspace")
	}

	out := w.Path("tables/rates.csv")
	if err := utils.SafeWriteFile(out, []byte("a,b\n1,2\n")); err != nil {
		t.Fatal(err)
	}
	run := w.StartRun("churn", map[string]string{"category": "Contract"})
	a, err := w.AddArtifact(workspace.KindTable, out, "churn", "")
	if err != nil {
		t.Fatalf("add artifact: %v", err)
	}
	if a.Path != filepath.Join("tables", "rates.csv") {
		t.Fatalf("expected relative path, got %s", a.Path)
	}
	w.FinishRun(run, nil, a)
	if err := w.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := workspace.Load(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Name != "telecomx" || got.Source != "data.json" {
		t.Fatalf("unexpected metadata: %+v", got)
	}
	if len(got.ListArtifacts()) != 1 || got.ListArtifacts()[0].Bytes != 8 {
		t.Fatalf("unexpected artifacts: %+v", got.ListArtifacts())
	}
	last := got.LastRun("churn")
	if last == nil || len(last.Artifacts) != 1 || last.Artifacts[0] != a.ID {
		t.Fatalf("unexpected run: %+v", last)
	}
	if _, err := ulid.Parse(last.ID); err != nil {
		t.Fatalf("run id is not a ulid: %v", err)
	}
}

func TestAddArtifactReplacesSamePath(t *testing.T) {
	dir := t.TempDir()
	w := workspace.New("w", "", "", dir)
	p := filepath.Join(dir, "chart.png")
	if err := os.WriteFile(p, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := w.AddArtifact(workspace.KindChart, p, "plot", ""); err != nil {
		t.Fatal(err)
	}
	if _, err := w.AddArtifact(workspace.KindChart, p, "plot", "again"); err != nil {
		t.Fatal(err)
	}
	arts := w.ListArtifacts()
	if len(arts) != 1 || arts[0].Note != "again" {
		t.Fatalf("expected single refreshed artifact, got %+v", arts)
	}
	if _, err := w.AddArtifact(workspace.KindChart, filepath.Join(dir, "missing.png"), "plot", ""); err == nil {
		t.Fatalf("expected stat error")
	}
	w.FinishRun(w.StartRun("plot", nil), errors.New("boom"))
	if w.LastRun("plot").Error != "boom" {
		t.Fatalf("run error not recorded")
	}
	if w.LastRun("nope") != nil {
		t.Fatalf("expected nil run")
	}
}

func TestLoadMissing(t *testing.T) {
	if _, err := workspace.Load(t.TempDir()); err == nil {
		t.Fatalf("expected error")
	}
}
