// Command wpdb-mcp serves read-only MCP access to a WordPress database over
// stdio. All logging goes to stderr; stdout carries the protocol.
package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/wp-db-tools/go-wpdb-mcp/internal/config"
	"github.com/wp-db-tools/go-wpdb-mcp/internal/dbpool"
	"github.com/wp-db-tools/go-wpdb-mcp/internal/mcp"
	"github.com/wp-db-tools/go-wpdb-mcp/internal/query"
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := dbpool.Open(ctx, dbpool.Config{
		Host:           cfg.Host,
		Port:           cfg.Port,
		Socket:         cfg.Socket,
		User:           cfg.User,
		Password:       cfg.Password,
		Database:       cfg.Database,
		TablePrefix:    cfg.TablePrefix,
		PoolMin:        cfg.PoolMin,
		PoolMax:        cfg.PoolMax,
		ConnectTimeout: cfg.ConnectTimeout(),
	})
	if err != nil {
		slog.Error("startup failed", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	exec := query.NewExecutor(pool, cfg.QueryTimeout(), cfg.ConnectTimeout())
	server := mcp.NewServer(cfg, pool, exec, os.Stdin, os.Stdout)

	slog.Info("wpdb MCP server started (read-only mode)",
		"db", cfg.Database, "prefix", pool.Prefix(), "max_rows", cfg.MaxRows)

	if err := server.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("server error", "error", err)
		pool.Close()
		os.Exit(1)
	}
	slog.Info("server shut down")
}
