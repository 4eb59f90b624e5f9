package query

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"

	"github.com/go-sql-driver/mysql"

	"github.com/wp-db-tools/go-wpdb-mcp/internal/dbpool"
)

// Code is the stable, machine-readable failure class surfaced to callers.
type Code string

const (
	CodeNotInitialized  Code = "not_initialized"
	CodeTimeout         Code = "timeout"
	CodePoolExhausted   Code = "pool_exhausted"
	CodeConnectionError Code = "connection_error"
	CodeQueryError      Code = "query_error"
)

// ExecError is the only error type Execute returns. Message is sanitized and
// safe to surface; the wrapped cause carries raw driver detail for logging
// only and must never reach the caller's result channel.
type ExecError struct {
	Code    Code
	Message string
	cause   error
}

func (e *ExecError) Error() string { return e.Message }

// Unwrap exposes the internal cause for logging and errors.Is checks.
func (e *ExecError) Unwrap() error { return e.cause }

func execErr(code Code, message string, cause error) *ExecError {
	return &ExecError{Code: code, Message: message, cause: cause}
}

// phase tells classify where a failure happened: acquiring a pool slot or
// running the statement. A context deadline means pool exhaustion in the
// first case and a query timeout in the second.
type phase int

const (
	phaseAcquire phase = iota
	phaseExecute
)

func classify(err error, p phase, timeoutSeconds int) *ExecError {
	var ee *ExecError
	if errors.As(err, &ee) {
		return ee
	}
	if errors.Is(err, dbpool.ErrNotInitialized) {
		return execErr(CodeNotInitialized, dbpool.ErrNotInitialized.Error(), err)
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		if p == phaseAcquire {
			return execErr(CodePoolExhausted, "database connection pool exhausted, try again later", err)
		}
		if errors.Is(err, context.Canceled) {
			return execErr(CodeTimeout, "query canceled before completion", err)
		}
		return execErr(CodeTimeout, fmt.Sprintf("query timed out after %ds", timeoutSeconds), err)
	}
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, mysql.ErrInvalidConn) {
		return execErr(CodeConnectionError, "database connection error", err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return execErr(CodeConnectionError, "database connection error", err)
	}
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		// The server-side execution ceiling fires before the client-side
		// wait (which has the grace period on top), so a runaway query
		// surfaces as one of these errors rather than a context deadline.
		// 3024 = ER_QUERY_TIMEOUT, 1317 = ER_QUERY_INTERRUPTED.
		switch mysqlErr.Number {
		case 3024, 1317:
			return execErr(CodeTimeout, fmt.Sprintf("query timed out after %ds", timeoutSeconds), err)
		}
		return execErr(CodeQueryError, "database query failed", err)
	}
	return execErr(CodeQueryError, "database query failed", err)
}
