package store

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/KaramelBytes/telecomx-cli/internal/logging"
)

// Dialect selects SQL types and placeholder style.
type Dialect string

const (
	SQLite   Dialect = "sqlite"
	Postgres Dialect = "postgres"
)

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Open connects to dsn. postgres:// and postgresql:// URLs use lib/pq; anything
// else is treated as a SQLite file path (an optional sqlite:// prefix is stripped).
func Open(dsn string) (*sql.DB, Dialect, error) {
	lower := strings.ToLower(dsn)
	if strings.HasPrefix(lower, "postgres://") || strings.HasPrefix(lower, "postgresql://") {
		db, err := sql.Open("postgres", dsn)
		if err != nil {
			return nil, "", fmt.Errorf("open postgres: %w", err)
		}
		return db, Postgres, nil
	}
	path := strings.TrimPrefix(dsn, "sqlite://")
	if path == "" {
		return nil, "", fmt.Errorf("open sqlite: empty path")
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, "", fmt.Errorf("open sqlite: %w", err)
	}
	return db, SQLite, nil
}

func (d Dialect) columnType(t series.Type) string {
	switch t {
	case series.Int:
		if d == Postgres {
			return "BIGINT"
		}
		return "INTEGER"
	case series.Float:
		if d == Postgres {
			return "DOUBLE PRECISION"
		}
		return "REAL"
	case series.Bool:
		if d == Postgres {
			return "BOOLEAN"
		}
		return "INTEGER"
	default:
		return "TEXT"
	}
}

func (d Dialect) placeholders(n int) string {
	ph := make([]string, n)
	for i := range ph {
		if d == Postgres {
			ph[i] = fmt.Sprintf("$%d", i+1)
		} else {
			ph[i] = "?"
		}
	}
	return strings.Join(ph, ",")
}

// ExportSQL (re)creates table and inserts every row of df in one transaction.
// Missing values are stored as NULL. It returns the number of rows written.
func ExportSQL(ctx context.Context, db *sql.DB, d Dialect, table string, df dataframe.DataFrame, log *zap.Logger) (int, error) {
	if !identRe.MatchString(table) {
		return 0, fmt.Errorf("export: invalid table name %q", table)
	}
	names := df.Names()
	if len(names) == 0 {
		return 0, fmt.Errorf("export: frame has no columns")
	}
	defs := make([]string, len(names))
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = fmt.Sprintf("%q", n)
		defs[i] = quoted[i] + " " + d.columnType(df.Col(n).Type())
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, fmt.Sprintf(`DROP TABLE IF EXISTS %q`, table)); err != nil {
		return 0, fmt.Errorf("drop table: %w", err)
	}
	if _, err := tx.ExecContext(ctx, fmt.Sprintf(`CREATE TABLE %q (%s)`, table, strings.Join(defs, ", "))); err != nil {
		return 0, fmt.Errorf("create table: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf(`INSERT INTO %q (%s) VALUES (%s)`, table, strings.Join(quoted, ","), d.placeholders(len(names))))
	if err != nil {
		return 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	cols := make([]series.Series, len(names))
	for i, n := range names {
		cols[i] = df.Col(n)
	}
	args := make([]any, len(names))
	for row := 0; row < df.Nrow(); row++ {
		for i, s := range cols {
			args[i] = cellValue(s, row)
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return 0, fmt.Errorf("insert row %d: %w", row, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	logging.OrNop(log).Info("table exported", zap.String("table", table), zap.String("dialect", string(d)), zap.Int("rows", df.Nrow()))
	return df.Nrow(), nil
}

func cellValue(s series.Series, row int) any {
	e := s.Elem(row)
	if e.IsNA() {
		return nil
	}
	switch s.Type() {
	case series.Int:
		v, err := e.Int()
		if err != nil {
			return nil
		}
		return int64(v)
	case series.Float:
		f := e.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil
		}
		return f
	case series.Bool:
		b, err := e.Bool()
		if err != nil {
			return nil
		}
		return b
	default:
		return e.String()
	}
}
