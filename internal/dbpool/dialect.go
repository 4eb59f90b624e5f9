package dbpool

import (
	"context"
	"database/sql"
	"time"
)

// Dialect captures the engine-specific behavior the pool and executor need:
// catalog queries and the per-session execution ceiling. MySQL/MariaDB is the
// primary engine; SQLite backs local snapshots and driver-level tests.
type Dialect interface {
	// DriverName returns the database/sql driver name.
	DriverName() string

	// ListTablesQuery returns the query and arguments to list all table
	// names in the target database.
	ListTablesQuery(database string) (string, []any)

	// TableStatusQuery returns the query and arguments to list table
	// metadata (engine, row estimate, sizes) for names matching a LIKE
	// pattern.
	TableStatusQuery(database, pattern string) (string, []any)

	// ColumnsQuery returns the query and arguments to read column
	// definitions for one table, in ordinal position order.
	ColumnsQuery(database, table string) (string, []any)

	// IndexesQuery returns the query and arguments to read index
	// definitions for one table.
	IndexesQuery(database, table string) (string, []any)

	// ApplySessionTimeout sets a server-side execution-time ceiling on the
	// session so a runaway query is killed by the engine even if the
	// client-side wait is interrupted. The value is always bound as a
	// parameter, never interpolated.
	ApplySessionTimeout(ctx context.Context, conn *sql.Conn, timeout time.Duration) error
}

// MySQLDialect implements Dialect for MySQL and MariaDB.
type MySQLDialect struct{}

func (MySQLDialect) DriverName() string { return "mysql" }

func (MySQLDialect) ListTablesQuery(database string) (string, []any) {
	return "SELECT TABLE_NAME FROM information_schema.TABLES WHERE TABLE_SCHEMA = ? ORDER BY TABLE_NAME",
		[]any{database}
}

func (MySQLDialect) TableStatusQuery(database, pattern string) (string, []any) {
	return "SELECT TABLE_NAME, ENGINE, TABLE_ROWS, " +
			"ROUND(DATA_LENGTH / 1024, 2) AS data_kb, " +
			"ROUND(INDEX_LENGTH / 1024, 2) AS index_kb " +
			"FROM information_schema.TABLES " +
			"WHERE TABLE_SCHEMA = ? AND TABLE_NAME LIKE ? " +
			"ORDER BY TABLE_NAME",
		[]any{database, pattern}
}

func (MySQLDialect) ColumnsQuery(database, table string) (string, []any) {
	return "SELECT COLUMN_NAME, COLUMN_TYPE, IS_NULLABLE, COLUMN_KEY, COLUMN_DEFAULT, EXTRA " +
			"FROM information_schema.COLUMNS " +
			"WHERE TABLE_SCHEMA = ? AND TABLE_NAME = ? " +
			"ORDER BY ORDINAL_POSITION",
		[]any{database, table}
}

func (MySQLDialect) IndexesQuery(database, table string) (string, []any) {
	return "SELECT INDEX_NAME, COLUMN_NAME, NON_UNIQUE, SEQ_IN_INDEX " +
			"FROM information_schema.STATISTICS " +
			"WHERE TABLE_SCHEMA = ? AND TABLE_NAME = ? " +
			"ORDER BY INDEX_NAME, SEQ_IN_INDEX",
		[]any{database, table}
}

func (MySQLDialect) ApplySessionTimeout(ctx context.Context, conn *sql.Conn, timeout time.Duration) error {
	_, err := conn.ExecContext(ctx, "SET SESSION MAX_EXECUTION_TIME = ?", timeout.Milliseconds())
	return err
}

// SQLiteDialect implements Dialect for SQLite snapshots. The database
// argument is ignored; a SQLite handle is already scoped to one file.
type SQLiteDialect struct{}

func (SQLiteDialect) DriverName() string { return "sqlite" }

func (SQLiteDialect) ListTablesQuery(string) (string, []any) {
	return "SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name",
		nil
}

func (SQLiteDialect) TableStatusQuery(_, pattern string) (string, []any) {
	return "SELECT name AS TABLE_NAME FROM sqlite_master " +
			"WHERE type = 'table' AND name NOT LIKE 'sqlite_%' AND name LIKE ? " +
			"ORDER BY name",
		[]any{pattern}
}

func (SQLiteDialect) ColumnsQuery(_, table string) (string, []any) {
	return "SELECT name AS COLUMN_NAME, type AS COLUMN_TYPE, " +
			"CASE \"notnull\" WHEN 0 THEN 'YES' ELSE 'NO' END AS IS_NULLABLE, " +
			"CASE pk WHEN 0 THEN '' ELSE 'PRI' END AS COLUMN_KEY, " +
			"dflt_value AS COLUMN_DEFAULT " +
			"FROM pragma_table_info(?) ORDER BY cid",
		[]any{table}
}

func (SQLiteDialect) IndexesQuery(_, table string) (string, []any) {
	return "SELECT name AS INDEX_NAME, CASE \"unique\" WHEN 1 THEN 0 ELSE 1 END AS NON_UNIQUE " +
			"FROM pragma_index_list(?) ORDER BY name",
		[]any{table}
}

// ApplySessionTimeout is a no-op: SQLite runs in-process and has no
// server-side execution ceiling. The client-side wait bound still applies.
func (SQLiteDialect) ApplySessionTimeout(context.Context, *sql.Conn, time.Duration) error {
	return nil
}
