// Package query executes validated read-only statements against the shared
// pool under a dual timeout: a parameterized server-side execution ceiling
// and a client-side wait bound with a fixed grace period on top.
package query

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/wp-db-tools/go-wpdb-mcp/internal/dbpool"
)

// graceTimeout is added to the client-side wait on top of the configured
// query timeout, covering round-trip overhead beyond the server-side cutoff.
// Variable so tests can shrink the wait.
var graceTimeout = 5 * time.Second

// Executor runs statements through a dbpool.Pool. The zero value is not
// usable; construct with NewExecutor. Safe for concurrent use: every call's
// statement, parameters and result are local to that call.
type Executor struct {
	pool           *dbpool.Pool
	queryTimeout   time.Duration
	acquireTimeout time.Duration
}

// NewExecutor returns an Executor bound to a pool. queryTimeout bounds one
// statement's server-side execution; acquireTimeout bounds waiting for a
// pool slot.
func NewExecutor(pool *dbpool.Pool, queryTimeout, acquireTimeout time.Duration) *Executor {
	return &Executor{pool: pool, queryTimeout: queryTimeout, acquireTimeout: acquireTimeout}
}

// Timeout returns the configured per-query timeout.
func (e *Executor) Timeout() time.Duration { return e.queryTimeout }

// Execute runs a single already-validated statement with bound parameters
// and returns at most limit rows, setting HasMore when the source had more.
// Every failure is an *ExecError with a sanitized message; raw driver errors
// never escape. The connection is returned to the pool on every exit path,
// and discarded instead of reused when a timeout left its state unknown.
func (e *Executor) Execute(ctx context.Context, stmt string, args []any, limit int) (*RowSet, error) {
	db, err := e.pool.DB()
	if err != nil {
		return nil, classify(err, phaseAcquire, e.timeoutSeconds())
	}

	acquireCtx, cancelAcquire := context.WithTimeout(ctx, e.acquireTimeout)
	defer cancelAcquire()

	conn, err := db.Conn(acquireCtx)
	if err != nil {
		return nil, classify(err, phaseAcquire, e.timeoutSeconds())
	}

	discard := false
	defer func() {
		if discard {
			// The session may still be mid-query server-side; poison the
			// connection so the pool replaces it instead of reusing it.
			conn.Raw(func(any) error { return driver.ErrBadConn })
		}
		conn.Close()
	}()

	if err := e.pool.Dialect().ApplySessionTimeout(ctx, conn, e.queryTimeout); err != nil {
		return nil, e.fail(classify(err, phaseExecute, e.timeoutSeconds()), stmt)
	}

	queryCtx, cancelQuery := context.WithTimeout(ctx, e.queryTimeout+graceTimeout)
	defer cancelQuery()

	rows, err := conn.QueryContext(queryCtx, stmt, args...)
	if err != nil {
		ee := classify(queryErr(queryCtx, err), phaseExecute, e.timeoutSeconds())
		discard = ee.Code == CodeTimeout
		return nil, e.fail(ee, stmt)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, e.fail(classify(err, phaseExecute, e.timeoutSeconds()), stmt)
	}
	types, err := rows.ColumnTypes()
	if err != nil {
		return nil, e.fail(classify(err, phaseExecute, e.timeoutSeconds()), stmt)
	}

	// Fetch limit+1 to learn whether more rows exist without a second
	// COUNT(*) round-trip.
	result := &RowSet{Columns: columns}
	for rows.Next() {
		row, err := scanRow(rows, columns, types)
		if err != nil {
			return nil, e.fail(classify(err, phaseExecute, e.timeoutSeconds()), stmt)
		}
		result.Rows = append(result.Rows, row)
		if len(result.Rows) > limit {
			result.HasMore = true
			result.Rows = result.Rows[:limit]
			break
		}
	}
	if err := rows.Err(); err != nil {
		ee := classify(queryErr(queryCtx, err), phaseExecute, e.timeoutSeconds())
		discard = ee.Code == CodeTimeout
		return nil, e.fail(ee, stmt)
	}

	return result, nil
}

// queryErr prefers the context's verdict when the wait expired mid-call.
// Drivers differ in how they surface an interrupted statement (the sqlite
// driver reports the interrupt, not the deadline), so the context error is
// wrapped around the driver's for uniform classification.
func queryErr(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("%v: %w", err, ctxErr)
	}
	return err
}

// fail logs full diagnostic detail and returns the sanitized error.
func (e *Executor) fail(ee *ExecError, stmt string) *ExecError {
	slog.Error("query execution failed",
		"code", string(ee.Code),
		"error", errors.Unwrap(ee),
		"sql", stmt)
	return ee
}

func (e *Executor) timeoutSeconds() int {
	return int(e.queryTimeout / time.Second)
}
