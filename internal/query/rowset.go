package query

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// Row maps column name to a JSON-safe scalar. Column order lives on the
// enclosing RowSet so formatters can emit columns in result order.
type Row map[string]any

// RowSet is an immutable query result. HasMore reports that rows existed
// beyond the requested limit; it is distinct from the set being empty.
type RowSet struct {
	Columns []string
	Rows    []Row
	HasMore bool
}

// cleanValue reduces a scanned value to the small scalar set callers may
// serialize: string, int64, float64, bool, nil. Byte sequences that are not
// valid UTF-8 become a placeholder describing their length; decimals become
// floats; temporal values become RFC 3339 text.
func cleanValue(v any, dbType string) any {
	switch val := v.(type) {
	case nil:
		return nil
	case []byte:
		if isDecimalType(dbType) {
			if f, err := strconv.ParseFloat(string(val), 64); err == nil {
				return f
			}
		}
		if utf8.Valid(val) {
			return string(val)
		}
		return fmt.Sprintf("<binary %d bytes>", len(val))
	case time.Time:
		return val.Format(time.RFC3339)
	default:
		return val
	}
}

func isDecimalType(dbType string) bool {
	switch strings.ToUpper(dbType) {
	case "DECIMAL", "NUMERIC", "NEWDECIMAL":
		return true
	}
	return false
}

// scanRow reads the current row into a Row, reducing every value through
// cleanValue.
func scanRow(rows *sql.Rows, columns []string, types []*sql.ColumnType) (Row, error) {
	values := make([]any, len(columns))
	ptrs := make([]any, len(columns))
	for i := range values {
		ptrs[i] = &values[i]
	}
	if err := rows.Scan(ptrs...); err != nil {
		return nil, err
	}

	row := make(Row, len(columns))
	for i, col := range columns {
		dbType := ""
		if i < len(types) && types[i] != nil {
			dbType = types[i].DatabaseTypeName()
		}
		row[col] = cleanValue(values[i], dbType)
	}
	return row, nil
}
