package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/telecomx-cli/internal/store"
)

const sample = "testdata/telecomx_sample.json"

// resetFlags restores every flag to its default so state does not leak
// between invocations of the shared rootCmd.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			def := strings.Trim(f.DefValue, "[]")
			var vals []string
			if def != "" {
				vals = strings.Split(def, ",")
			}
			_ = sv.Replace(vals)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// runCmd executes the root command with args and returns its stdout.
func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	cfg = nil
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := runCmd(t, args...)
	if err != nil {
		t.Fatalf("command %v failed: %v", args, err)
	}
	return out
}

func withHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	return home
}

func TestCLI_PrepareReportsInvalidValues(t *testing.T) {
	home := withHome(t)
	out := mustRun(t, "prepare", "--data", sample, "--json", "--out", filepath.Join(home, "prepared.csv.zst"))
	assert.Contains(t, out, `"churn_invalid_before": 1`)
	assert.Contains(t, out, `"total_charges_invalid_before": 1`)
	assert.Contains(t, out, `"lines_without_phone": 1`)

	df, err := store.ReadCSV(filepath.Join(home, "prepared.csv.zst"))
	require.NoError(t, err)
	assert.Equal(t, 10, df.Nrow())
	assert.Equal(t, []int{0, 0, 1, 1, 1, 0, 0, 0, 0, 0}, func() []int {
		v, _ := df.Col("Churn").Int()
		return v
	}())
}

func TestCLI_ChurnByContract(t *testing.T) {
	withHome(t)
	out := mustRun(t, "churn", "account_Contract", "--data", sample)
	assert.Contains(t, out, "Churn by account_Contract")
	assert.Contains(t, out, "Month-to-month")
	assert.Contains(t, out, "60")
	assert.Contains(t, out, "50")
}

func TestCLI_DescribeFromPreparedCSV(t *testing.T) {
	home := withHome(t)
	prepared := filepath.Join(home, "prepared.csv")
	mustRun(t, "prepare", "--data", sample, "--out", prepared)

	out := mustRun(t, "describe", "--data", prepared, "--basic", "--format", "csv")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 9)
	assert.True(t, strings.HasPrefix(lines[1], "count,10"), lines[1])

	_, err := runCmd(t, "describe", "--data", prepared, "--format", "pdf")
	assert.Error(t, err)

	out = mustRun(t, "describe", "--list-metrics")
	assert.Contains(t, out, "shapiro")
}

func TestCLI_DescribeBy(t *testing.T) {
	withHome(t)
	out := mustRun(t, "describe-by", "account_Contract", "customer_tenure", "--data", sample, "--format", "markdown")
	assert.Contains(t, out, "Month-to-month")
	assert.Contains(t, out, "| count |")
}

func TestCLI_BinsWithEdges(t *testing.T) {
	withHome(t)
	out := mustRun(t, "bins", "customer_tenure", "--edges", "0,12,72", "--data", sample)
	assert.Contains(t, out, "[0, 12]")
	assert.Contains(t, out, "(12, 72]")
	assert.Less(t, strings.Index(out, "[0, 12]"), strings.Index(out, "(12, 72]"))
	assert.Contains(t, out, "28.57")
	assert.Contains(t, out, "33.33")
}

func TestCLI_TestsRun(t *testing.T) {
	withHome(t)
	out := mustRun(t, "chi2", "account_Contract", "--data", sample)
	assert.Contains(t, out, "chi2=")
	assert.Contains(t, out, "alpha=0.05")

	out = mustRun(t, "compare", "customer_tenure", "--data", sample, "--alpha", "0.1")
	assert.Contains(t, out, "customer_tenure")
	assert.Contains(t, out, "alpha=0.1")

	_, err := runCmd(t, "compare", "customer_tenure", "--data", sample, "--alpha", "2")
	assert.Error(t, err)
}

func TestCLI_ProfileSavesReport(t *testing.T) {
	home := withHome(t)
	report := filepath.Join(home, "profile.md")
	out := mustRun(t, "profile", "--data", sample, "--out", report)
	assert.Contains(t, out, "Profile report saved to "+report)
	b, err := os.ReadFile(report)
	require.NoError(t, err)
	assert.Contains(t, string(b), "[DATASET SUMMARY]")
}

func TestCLI_ExportSQLite(t *testing.T) {
	home := withHome(t)
	dbPath := filepath.Join(home, "telecomx.db")
	out := mustRun(t, "export", dbPath, "--data", sample, "--table", "customers")
	assert.Contains(t, out, "10 rows written")

	db, _, err := store.Open(dbPath)
	require.NoError(t, err)
	defer db.Close()
	var churned int
	require.NoError(t, db.QueryRow(`SELECT SUM("Churn") FROM "customers"`).Scan(&churned))
	assert.Equal(t, 3, churned)
}

func TestCLI_WorkspaceRecordsArtifacts(t *testing.T) {
	home := withHome(t)
	mustRun(t, "init", "study", "--desc", "churn study", "--data", sample)
	out := mustRun(t, "list")
	assert.Contains(t, out, "- study")

	mustRun(t, "prepare", "--data", sample, "-w", "study", "--out", "prepared.csv.gz")
	mustRun(t, "churn", "account_Contract", "--data", sample, "-w", "study", "--out-dir", "tables")
	wsDir := filepath.Join(home, ".telecomx", "workspaces", "study")
	_, err := os.Stat(filepath.Join(wsDir, "tables", "account_Contract_churn.csv"))
	require.NoError(t, err)

	out = mustRun(t, "list", "-w", "study", "--artifacts", "--runs")
	assert.Contains(t, out, "prepared.csv.gz")
	assert.Contains(t, out, filepath.Join("tables", "account_Contract_churn.csv"))
	assert.Contains(t, out, " prepare ")
	assert.Contains(t, out, " churn ")

	_, err = runCmd(t, "init", "study")
	assert.Error(t, err)
}

func TestCLI_WorkspaceFromSubdirectory(t *testing.T) {
	home := withHome(t)
	mustRun(t, "init", "study", "--data", sample)
	wsDir := filepath.Join(home, ".telecomx", "workspaces", "study")
	sub := filepath.Join(wsDir, "tables", "contract")
	require.NoError(t, os.MkdirAll(sub, 0o755))

	mustRun(t, "churn", "account_Contract", "--data", sample, "-w", sub, "--out-dir", "tables")
	_, err := os.Stat(filepath.Join(wsDir, "tables", "account_Contract_churn.csv"))
	require.NoError(t, err)

	chdir(t, sub)
	out := mustRun(t, "list", "-w", ".", "--runs")
	assert.Contains(t, out, " churn ")

	_, err = runCmd(t, "list", "-w", t.TempDir(), "--runs")
	assert.Error(t, err)
}

func TestCLI_BinsNarrowEdgesSkipOutOfRange(t *testing.T) {
	withHome(t)
	out := mustRun(t, "bins", "customer_tenure", "--edges", "0,12", "--data", sample)
	assert.Contains(t, out, "[0, 12]")
	assert.Contains(t, out, "100")
	assert.NotContains(t, out, "NaN")
}

func TestCLI_PlotWritesCharts(t *testing.T) {
	home := withHome(t)
	dir := filepath.Join(home, "charts")
	out := mustRun(t, "plot", "--data", sample, "--out-dir", dir, "--format", "svg",
		"--categories", "account_Contract", "--numeric", "customer_tenure")
	assert.Contains(t, out, "4 charts written")
	files, err := filepath.Glob(filepath.Join(dir, "*.svg"))
	require.NoError(t, err)
	assert.Len(t, files, 4)

	_, err = runCmd(t, "plot", "--data", sample, "--format", "bmp")
	assert.Error(t, err)
}

func TestCLI_ConfigSetAndShow(t *testing.T) {
	withHome(t)
	out := mustRun(t, "config", "set", "significance", "0.01")
	assert.Contains(t, out, "Saved config")
	out = mustRun(t, "config", "show")
	assert.Contains(t, out, "significance: 0.010")

	_, err := runCmd(t, "config", "set", "significance", "1.5")
	assert.Error(t, err)
	_, err = runCmd(t, "config", "set", "nope", "1")
	assert.Error(t, err)
}

func TestCLI_FetchRejectsPreparedCSV(t *testing.T) {
	withHome(t)
	_, err := runCmd(t, "fetch", "--data", "prepared.csv")
	assert.Error(t, err)

	out := mustRun(t, "fetch", "--data", sample)
	assert.Contains(t, out, "Loaded 10 rows x 21 columns")
	assert.Contains(t, out, "- customer_tenure (int)")
}
