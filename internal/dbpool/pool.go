// Package dbpool owns the process-wide database connection pool. The pool is
// created exactly once at startup, carries the detected table prefix, and is
// read-only for the rest of the process lifetime.
package dbpool

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
)

// ErrNotInitialized is returned when a component asks for the pool before
// startup finished. Request handlers surface it as "server still starting
// up" instead of blocking or crashing.
var ErrNotInitialized = errors.New("database connection not initialized; server may still be starting up")

// Config describes how to reach the database. Socket and Host/Port are
// mutually exclusive transports; a non-empty Socket wins.
type Config struct {
	Host           string
	Port           int
	Socket         string
	User           string
	Password       string
	Database       string
	TablePrefix    string // empty triggers auto-detection
	PoolMin        int
	PoolMax        int
	ConnectTimeout time.Duration
}

// Pool wraps the shared *sql.DB together with the target database name, the
// engine dialect and the table prefix resolved at startup. All fields are
// immutable after Open/New returns; *sql.DB handles its own locking, so a
// Pool is safe for concurrent use.
type Pool struct {
	db       *sql.DB
	dialect  Dialect
	database string
	prefix   string
}

// Open connects to MySQL/MariaDB, configures pool sizing, verifies the
// connection, and resolves the table prefix. On any failure the handle is
// closed before returning, so a partially initialized pool never escapes.
func Open(ctx context.Context, cfg Config) (*Pool, error) {
	dsn := mysql.NewConfig()
	dsn.User = cfg.User
	dsn.Passwd = cfg.Password
	dsn.DBName = cfg.Database
	dsn.Timeout = cfg.ConnectTimeout
	dsn.ParseTime = true
	if cfg.Socket != "" {
		dsn.Net = "unix"
		dsn.Addr = cfg.Socket
	} else {
		dsn.Net = "tcp"
		dsn.Addr = net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
	}

	db, err := sql.Open("mysql", dsn.FormatDSN())
	if err != nil {
		return nil, fmt.Errorf("open database handle: %w", err)
	}

	db.SetMaxIdleConns(cfg.PoolMin)
	db.SetMaxOpenConns(cfg.PoolMax)
	db.SetConnMaxLifetime(time.Hour)

	pingCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	if cfg.Socket != "" {
		slog.Info("connected to database", "user", cfg.User, "socket", cfg.Socket, "db", cfg.Database)
	} else {
		slog.Info("connected to database", "user", cfg.User, "addr", dsn.Addr, "db", cfg.Database)
	}

	return New(ctx, db, MySQLDialect{}, cfg.Database, cfg.TablePrefix)
}

// New wraps an existing handle. Used by Open, by SQLite snapshots opened by
// path, and by tests. An empty tablePrefix triggers auto-detection against
// the catalog; detection failure closes the handle.
func New(ctx context.Context, db *sql.DB, dialect Dialect, database, tablePrefix string) (*Pool, error) {
	p := &Pool{db: db, dialect: dialect, database: database, prefix: tablePrefix}
	if p.prefix == "" {
		prefix, err := detectPrefix(ctx, db, dialect, database)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("table prefix detection failed: %w", err)
		}
		p.prefix = prefix
		slog.Info("auto-detected table prefix", "prefix", prefix)
	}
	return p, nil
}

// detectPrefix finds the WordPress table prefix by looking for a table whose
// name ends in "options" ("wp_options" -> "wp_"). Defaults to "wp_" when no
// such table exists.
func detectPrefix(ctx context.Context, db *sql.DB, dialect Dialect, database string) (string, error) {
	names, err := listTables(ctx, db, dialect, database)
	if err != nil {
		return "", err
	}
	for _, name := range names {
		if strings.HasSuffix(name, "options") {
			return strings.TrimSuffix(name, "options"), nil
		}
	}
	return "wp_", nil
}

func listTables(ctx context.Context, db *sql.DB, dialect Dialect, database string) ([]string, error) {
	stmt, args := dialect.ListTablesQuery(database)
	rows, err := db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// DB returns the shared handle, or ErrNotInitialized if the pool was never
// opened. A nil *Pool is a valid receiver for exactly this reason.
func (p *Pool) DB() (*sql.DB, error) {
	if p == nil || p.db == nil {
		return nil, ErrNotInitialized
	}
	return p.db, nil
}

// Prefix returns the table prefix resolved at startup.
func (p *Pool) Prefix() string {
	if p == nil {
		return ""
	}
	return p.prefix
}

// Database returns the target database name.
func (p *Pool) Database() string {
	if p == nil {
		return ""
	}
	return p.database
}

// Dialect returns the engine dialect the pool was opened with.
func (p *Pool) Dialect() Dialect {
	if p == nil {
		return nil
	}
	return p.dialect
}

// ListTables returns every table name in the target database.
func (p *Pool) ListTables(ctx context.Context) ([]string, error) {
	db, err := p.DB()
	if err != nil {
		return nil, err
	}
	return listTables(ctx, db, p.dialect, p.database)
}

// Close releases the pool: idle connections are closed immediately and
// in-flight ones when they are returned.
func (p *Pool) Close() error {
	if p == nil || p.db == nil {
		return nil
	}
	err := p.db.Close()
	slog.Info("connection pool closed")
	return err
}
