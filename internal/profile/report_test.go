package profile

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/telecomx-cli/internal/frame"
)

func sampleFrame(t *testing.T) dataframe.DataFrame {
	t.Helper()
	rows := [][]string{
		{"A-1", "Month", "1", "10", "29.85", "29.85"},
		{"A-2", "Year", "0", "12", "56.95", "1889.5"},
		{"A-3", "Month", "1", "11", "53.85", "108.15"},
		{"A-4", "Two", "0", "13", "42.30", " "},
		{"A-5", "Month", "1", "9", "70.70", "151.65"},
		{"A-6", "Year", "0", "10", "99.65", "820.5"},
		{"A-7", "Month", "0", "12", "89.10", "1949.4"},
		{"A-8", "Two", "0", "11", "29.75", "301.9"},
		{"A-9", "Month", "0", "400", "104.8", "3046.05"},
	}
	df, err := frame.FromRecords([]string{"id", "contract", "Churn", "tenure", "monthly", "total"}, rows)
	require.NoError(t, err)
	df, err = frame.AsType(df, "Churn", series.Int)
	require.NoError(t, err)
	df, err = frame.AsType(df, "tenure", series.Int)
	require.NoError(t, err)
	return df
}

func TestBuildKindsAndStats(t *testing.T) {
	opt := DefaultOptions()
	opt.CategoricalMax = 5
	rep, err := Build("sample", sampleFrame(t), opt)
	require.NoError(t, err)
	require.Len(t, rep.Cols, 6)
	assert.Equal(t, 9, rep.Rows)

	kinds := map[string]string{}
	for _, c := range rep.Cols {
		kinds[c.Name] = c.Kind
	}
	assert.Equal(t, map[string]string{
		"id": KindText, "contract": KindCategorical, "Churn": KindBinary,
		"tenure": KindNumeric, "monthly": KindNumeric, "total": KindNumeric,
	}, kinds)

	contract := rep.Cols[1]
	assert.Equal(t, CategoryCount{Value: "Month", Count: 5}, contract.TopValues[0])

	tenure := rep.Cols[3]
	assert.Equal(t, 9.0, tenure.Min)
	assert.Equal(t, 400.0, tenure.Max)
	assert.Equal(t, 1, tenure.OutliersCount)
	assert.Equal(t, 3.5, tenure.OutlierThreshold)

	total := rep.Cols[5]
	assert.Equal(t, 1, total.Missing)
	assert.Equal(t, 8, total.NonNull)

	require.NotNil(t, rep.Corr)
	assert.Equal(t, []string{"Churn", "tenure", "monthly", "total"}, rep.Corr.Columns)
	assert.Equal(t, 1.0, rep.Corr.Values[0][0])
	assert.Equal(t, rep.Corr.Values[1][2], rep.Corr.Values[2][1])
	assert.Len(t, rep.Samples, 5)
	assert.Contains(t, strings.Join(rep.Warnings, "\n"), "column total has 1 missing values")
}

func TestBuildGroupBy(t *testing.T) {
	opt := DefaultOptions()
	opt.GroupBy = []string{"contract"}
	rep, err := Build("sample", sampleFrame(t), opt)
	require.NoError(t, err)
	require.Len(t, rep.Groups, 3)
	assert.Equal(t, "contract=Month", rep.Groups[0].Key)
	assert.Equal(t, 5, rep.Groups[0].Size)
	assert.InDelta(t, 0.6, rep.Groups[0].Metrics["Churn"].Mean, 1e-9)

	opt.GroupBy = []string{"ghost"}
	_, err = Build("sample", sampleFrame(t), opt)
	assert.ErrorIs(t, err, frame.ErrColumnNotFound)
}

func TestMarkdownSections(t *testing.T) {
	opt := DefaultOptions()
	opt.GroupBy = []string{"contract"}
	rep, err := Build("sample", sampleFrame(t), opt)
	require.NoError(t, err)
	md := rep.Markdown()
	for _, section := range []string{"[DATASET SUMMARY]", "[SCHEMA]", "[GROUP-BY SUMMARY]", "[CORRELATIONS]", "[HEAD AND SAMPLE ROWS]", "[NOTES]"} {
		assert.Contains(t, md, section)
	}
	assert.Contains(t, md, "- tenure: numeric (non-null 9, missing 0.0%)")
}

func TestSaveByExtension(t *testing.T) {
	rep, err := Build("sample", sampleFrame(t), DefaultOptions())
	require.NoError(t, err)
	dir := t.TempDir()

	htmlPath := filepath.Join(dir, "profile.html")
	require.NoError(t, rep.Save(htmlPath, "TelecomX <profile>"))
	b, err := os.ReadFile(htmlPath)
	require.NoError(t, err)
	assert.Contains(t, string(b), "<h1>TelecomX &lt;profile&gt;</h1>")
	assert.Contains(t, string(b), "<td>tenure</td>")

	mdPath := filepath.Join(dir, "profile.md")
	require.NoError(t, rep.Save(mdPath, ""))
	b, err = os.ReadFile(mdPath)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(b), "[DATASET SUMMARY]"))

	assert.Error(t, rep.Save(filepath.Join(dir, "profile.pdf"), ""))
}
