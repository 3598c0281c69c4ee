package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/telecomx-cli/internal/store"
	"github.com/KaramelBytes/telecomx-cli/internal/workspace"
)

var exportTable string

var exportCmd = &cobra.Command{
	Use:   "export <dsn>",
	Short: "Write the prepared dataset to SQLite (file path) or PostgreSQL (postgres:// URL)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		s, err := beginSession(cmd, args)
		if err != nil {
			return err
		}
		defer func() { err = s.finish(err) }()

		dsn := args[0]
		db, dialect, err := store.Open(s.sqlitePath(dsn))
		if err != nil {
			return err
		}
		defer db.Close()

		df, err := loadPrepared(cmd.Context())
		if err != nil {
			return err
		}
		n, err := store.ExportSQL(cmd.Context(), db, dialect, exportTable, df, logger)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %d rows written to %s table %q\n", okMark, n, dialect, exportTable)
		if dialect == store.SQLite {
			return s.record(workspace.KindExport, s.sqlitePath(dsn))
		}
		return nil
	},
}

// sqlitePath places relative SQLite files inside the workspace; URLs pass through.
func (s *session) sqlitePath(dsn string) string {
	if s.ws == nil || strings.Contains(dsn, "://") {
		return dsn
	}
	return s.path(dsn)
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&exportTable, "table", "t", "telecomx", "destination table (replaced if it exists)")
}
