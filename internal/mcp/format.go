package mcp

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/wp-db-tools/go-wpdb-mcp/internal/dbpool"
	"github.com/wp-db-tools/go-wpdb-mcp/internal/query"
)

// marshalRows encodes rows as a JSON array preserving the result set's
// column order. encoding/json would sort map keys; column order matters for
// tabular output.
func marshalRows(rs *query.RowSet) (json.RawMessage, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, row := range rs.Rows {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteByte('{')
		for j, col := range rs.Columns {
			if j > 0 {
				buf.WriteByte(',')
			}
			key, err := json.Marshal(col)
			if err != nil {
				return nil, err
			}
			val, err := json.Marshal(row[col])
			if err != nil {
				return nil, err
			}
			buf.Write(key)
			buf.WriteByte(':')
			buf.Write(val)
		}
		buf.WriteByte('}')
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

// rowsToCSV renders the result set as CSV with a header row. Nil values
// become empty fields.
func rowsToCSV(rs *query.RowSet) (string, error) {
	if len(rs.Rows) == 0 {
		return "", nil
	}
	var buf strings.Builder
	w := csv.NewWriter(&buf)
	if err := w.Write(rs.Columns); err != nil {
		return "", err
	}
	record := make([]string, len(rs.Columns))
	for _, row := range rs.Rows {
		for i, col := range rs.Columns {
			if v := row[col]; v != nil {
				record[i] = fmt.Sprint(v)
			} else {
				record[i] = ""
			}
		}
		if err := w.Write(record); err != nil {
			return "", err
		}
	}
	w.Flush()
	return buf.String(), w.Error()
}

// formatRows renders a result set in the requested format. For JSON, wrapper
// entries are merged around a "rows" key; CSV ignores the wrapper.
func formatRows(rs *query.RowSet, format string, wrapper map[string]any) (string, error) {
	if strings.EqualFold(format, "csv") {
		return rowsToCSV(rs)
	}

	rows, err := marshalRows(rs)
	if err != nil {
		return "", err
	}
	if wrapper == nil {
		var out bytes.Buffer
		if err := json.Indent(&out, rows, "", "  "); err != nil {
			return "", err
		}
		return out.String(), nil
	}

	wrapper["rows"] = rows
	data, err := json.MarshalIndent(wrapper, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// errorJSON is the consistent error payload shape returned in tool content.
func errorJSON(message, code string) string {
	data, _ := json.Marshal(map[string]string{"error": message, "code": code})
	return string(data)
}

// dbRPCError maps an execution failure to a JSON-RPC error: the sanitized
// message in Message, the failure code in Data.
func dbRPCError(err error) *Error {
	var ee *query.ExecError
	if errors.As(err, &ee) {
		return &Error{Code: InternalError, Message: ee.Message, Data: string(ee.Code)}
	}
	if errors.Is(err, dbpool.ErrNotInitialized) {
		return &Error{Code: InternalError, Message: err.Error(), Data: "not_initialized"}
	}
	slog.Error("unexpected error", "error", err)
	return &Error{Code: InternalError, Message: "an unexpected error occurred", Data: "internal_error"}
}

// dbErrorJSON maps an execution failure to its sanitized payload. Raw driver
// detail was already logged at the executor boundary; anything unclassified
// is logged here and reported generically.
func dbErrorJSON(err error) string {
	var ee *query.ExecError
	if errors.As(err, &ee) {
		return errorJSON(ee.Message, string(ee.Code))
	}
	if errors.Is(err, dbpool.ErrNotInitialized) {
		return errorJSON(err.Error(), "not_initialized")
	}
	slog.Error("unexpected error", "error", err)
	return errorJSON("an unexpected error occurred", "internal_error")
}
