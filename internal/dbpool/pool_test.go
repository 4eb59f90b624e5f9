package dbpool

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	_ "modernc.org/sqlite"
)

func setupTestDB(t *testing.T, tables ...string) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	db.SetMaxOpenConns(1)

	for _, table := range tables {
		if _, err := db.Exec("CREATE TABLE \"" + table + "\" (id INTEGER PRIMARY KEY)"); err != nil {
			t.Fatalf("failed to create table %s: %v", table, err)
		}
	}
	return db
}

func TestNew_DetectsPrefixFromOptionsTable(t *testing.T) {
	db := setupTestDB(t, "site_options", "site_posts", "unrelated")

	pool, err := New(context.Background(), db, SQLiteDialect{}, "test", "")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if pool.Prefix() != "site_" {
		t.Errorf("detected prefix = %q, want %q", pool.Prefix(), "site_")
	}
}

func TestNew_DefaultsPrefixWithoutOptionsTable(t *testing.T) {
	db := setupTestDB(t, "something_else")

	pool, err := New(context.Background(), db, SQLiteDialect{}, "test", "")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if pool.Prefix() != "wp_" {
		t.Errorf("detected prefix = %q, want default %q", pool.Prefix(), "wp_")
	}
}

func TestNew_ExplicitPrefixSkipsDetection(t *testing.T) {
	db := setupTestDB(t, "site_options")

	pool, err := New(context.Background(), db, SQLiteDialect{}, "test", "custom_")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if pool.Prefix() != "custom_" {
		t.Errorf("prefix = %q, want configured %q", pool.Prefix(), "custom_")
	}
}

func TestPool_ListTables(t *testing.T) {
	db := setupTestDB(t, "wp_options", "wp_posts")

	pool, err := New(context.Background(), db, SQLiteDialect{}, "test", "wp_")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	tables, err := pool.ListTables(context.Background())
	if err != nil {
		t.Fatalf("ListTables failed: %v", err)
	}
	if diff := cmp.Diff([]string{"wp_options", "wp_posts"}, tables); diff != "" {
		t.Errorf("tables mismatch (-want +got):\n%s", diff)
	}
}

func TestPool_NotInitialized(t *testing.T) {
	var pool *Pool

	if _, err := pool.DB(); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("DB() on nil pool = %v, want ErrNotInitialized", err)
	}
	if _, err := pool.ListTables(context.Background()); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("ListTables() on nil pool = %v, want ErrNotInitialized", err)
	}
	if err := pool.Close(); err != nil {
		t.Errorf("Close() on nil pool = %v, want nil", err)
	}
}

func TestOpen_ConnectionFailure(t *testing.T) {
	// Nothing listens on this port; startup must fail with a wrapped error
	// instead of handing out a half-initialized pool.
	ctx := context.Background()
	pool, err := Open(ctx, Config{
		Host:           "127.0.0.1",
		Port:           1, // reserved, nothing listens here
		User:           "nobody",
		Database:       "missing",
		PoolMin:        1,
		PoolMax:        2,
		ConnectTimeout: 100 * time.Millisecond,
	})
	if err == nil {
		pool.Close()
		t.Fatal("expected connection failure")
	}
	if pool != nil {
		t.Error("failed Open must not return a pool")
	}
}
