package store

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func prepared() dataframe.DataFrame {
	return dataframe.New(
		series.New([]string{"0002-ORFBO", "0003-MKNFE", "0004-TLHLJ"}, series.String, "customerID"),
		series.New([]int{0, 0, 1}, series.Int, "Churn"),
		series.New([]float64{593.3, 542.4, 0}, series.Float, "account_Charges_Total"),
		series.New([]string{"1.5", "NaN", "2"}, series.Float, "account_Daily"),
	)
}

func TestWriteCSVRoundTrip(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"out.csv", "out.csv.gz", "nested/out.csv.zst"} {
		p := filepath.Join(dir, name)
		require.NoError(t, WriteCSV(prepared(), p), name)
		df, err := ReadCSV(p)
		require.NoError(t, err, name)
		assert.Equal(t, 3, df.Nrow(), name)
		assert.Equal(t, []string{"customerID", "Churn", "account_Charges_Total", "account_Daily"}, df.Names(), name)
		assert.Equal(t, series.Int, df.Col("Churn").Type(), name)
		assert.Equal(t, 593.3, df.Col("account_Charges_Total").Float()[0], name)
	}
}

func TestOpenPicksDriver(t *testing.T) {
	db, d, err := Open("postgres://user:pw@localhost:5432/telecomx?sslmode=disable")
	require.NoError(t, err)
	assert.Equal(t, Postgres, d)
	_ = db.Close()

	db, d, err = Open("sqlite://" + filepath.Join(t.TempDir(), "x.db"))
	require.NoError(t, err)
	assert.Equal(t, SQLite, d)
	_ = db.Close()

	_, _, err = Open("")
	assert.Error(t, err)
}

func TestExportSQLite(t *testing.T) {
	db, d, err := Open(filepath.Join(t.TempDir(), "telecomx.db"))
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	n, err := ExportSQL(ctx, db, d, "customers", prepared(), nil)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	// exporting again replaces the table
	_, err = ExportSQL(ctx, db, d, "customers", prepared(), nil)
	require.NoError(t, err)

	var count, churned int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*), SUM("Churn") FROM "customers"`).Scan(&count, &churned))
	assert.Equal(t, 3, count)
	assert.Equal(t, 1, churned)

	var daily sql.NullFloat64
	require.NoError(t, db.QueryRow(`SELECT "account_Daily" FROM "customers" WHERE "customerID" = ?`, "0003-MKNFE").Scan(&daily))
	assert.False(t, daily.Valid)

	_, err = ExportSQL(ctx, db, d, "bad name;", prepared(), nil)
	assert.Error(t, err)
}

func TestDialectTypes(t *testing.T) {
	assert.Equal(t, "INTEGER", SQLite.columnType(series.Int))
	assert.Equal(t, "DOUBLE PRECISION", Postgres.columnType(series.Float))
	assert.Equal(t, "TEXT", Postgres.columnType(series.String))
	assert.Equal(t, "$1,$2", Postgres.placeholders(2))
	assert.Equal(t, "?,?,?", SQLite.placeholders(3))
}
