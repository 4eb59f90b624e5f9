package mcp

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/wp-db-tools/go-wpdb-mcp/internal/dbpool"
	"github.com/wp-db-tools/go-wpdb-mcp/internal/query"
)

func sampleRowSet() *query.RowSet {
	return &query.RowSet{
		Columns: []string{"ID", "post_title", "score"},
		Rows: []query.Row{
			{"ID": int64(1), "post_title": "hello", "score": 1.5},
			{"ID": int64(2), "post_title": "world", "score": nil},
		},
		HasMore: true,
	}
}

func TestMarshalRows_PreservesColumnOrder(t *testing.T) {
	raw, err := marshalRows(sampleRowSet())
	if err != nil {
		t.Fatalf("marshalRows failed: %v", err)
	}

	got := string(raw)
	want := `[{"ID":1,"post_title":"hello","score":1.5},{"ID":2,"post_title":"world","score":null}]`
	if got != want {
		t.Errorf("marshalRows = %s, want %s", got, want)
	}
}

func TestMarshalRows_Empty(t *testing.T) {
	raw, err := marshalRows(&query.RowSet{Columns: []string{"a"}})
	if err != nil {
		t.Fatalf("marshalRows failed: %v", err)
	}
	if string(raw) != "[]" {
		t.Errorf("marshalRows = %s, want []", raw)
	}
}

func TestRowsToCSV(t *testing.T) {
	got, err := rowsToCSV(sampleRowSet())
	if err != nil {
		t.Fatalf("rowsToCSV failed: %v", err)
	}

	lines := strings.Split(strings.TrimRight(got, "\n"), "\n")
	want := []string{
		"ID,post_title,score",
		"1,hello,1.5",
		"2,world,",
	}
	if diff := cmp.Diff(want, lines); diff != "" {
		t.Errorf("csv mismatch (-want +got):\n%s", diff)
	}
}

func TestRowsToCSV_EmptyRowSet(t *testing.T) {
	got, err := rowsToCSV(&query.RowSet{Columns: []string{"a"}})
	if err != nil {
		t.Fatalf("rowsToCSV failed: %v", err)
	}
	if got != "" {
		t.Errorf("rowsToCSV on empty set = %q, want empty string", got)
	}
}

func TestFormatRows_JSONWrapper(t *testing.T) {
	rs := sampleRowSet()
	text, err := formatRows(rs, "json", map[string]any{
		"row_count": len(rs.Rows),
		"has_more":  rs.HasMore,
	})
	if err != nil {
		t.Fatalf("formatRows failed: %v", err)
	}

	var decoded struct {
		RowCount int              `json:"row_count"`
		HasMore  bool             `json:"has_more"`
		Rows     []map[string]any `json:"rows"`
	}
	if err := json.Unmarshal([]byte(text), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, text)
	}
	if decoded.RowCount != 2 || !decoded.HasMore {
		t.Errorf("wrapper fields = %+v", decoded)
	}
	if len(decoded.Rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(decoded.Rows))
	}
	if decoded.Rows[0]["post_title"] != "hello" {
		t.Errorf("rows[0] = %v", decoded.Rows[0])
	}
}

func TestFormatRows_CSVIgnoresWrapper(t *testing.T) {
	text, err := formatRows(sampleRowSet(), "CSV", map[string]any{"row_count": 2})
	if err != nil {
		t.Fatalf("formatRows failed: %v", err)
	}
	if !strings.HasPrefix(text, "ID,post_title,score\n") {
		t.Errorf("csv output missing header: %q", text)
	}
	if strings.Contains(text, "row_count") {
		t.Error("csv output must not include the JSON wrapper")
	}
}

func TestErrorJSON(t *testing.T) {
	got := errorJSON("query timed out after 30s", "timeout")

	var decoded map[string]string
	if err := json.Unmarshal([]byte(got), &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	want := map[string]string{"error": "query timed out after 30s", "code": "timeout"}
	if diff := cmp.Diff(want, decoded); diff != "" {
		t.Errorf("payload mismatch (-want +got):\n%s", diff)
	}
}

func TestDBErrorJSON(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode string
	}{
		{"not initialized", dbpool.ErrNotInitialized, "not_initialized"},
		{"exec error keeps its code", &query.ExecError{Code: query.CodeTimeout, Message: "query timed out after 30s"}, "timeout"},
		{"unknown error is generic", errors.New("raw driver detail"), "internal_error"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var decoded map[string]string
			if err := json.Unmarshal([]byte(dbErrorJSON(tc.err)), &decoded); err != nil {
				t.Fatalf("invalid JSON: %v", err)
			}
			if decoded["code"] != tc.wantCode {
				t.Errorf("code = %q, want %q", decoded["code"], tc.wantCode)
			}
		})
	}
}

func TestDBRPCError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantMsg  string
		wantData string
	}{
		{"exec error", &query.ExecError{Code: query.CodeTimeout, Message: "query timed out after 30s"}, "query timed out after 30s", "timeout"},
		{"not initialized", dbpool.ErrNotInitialized, dbpool.ErrNotInitialized.Error(), "not_initialized"},
		{"unknown error", errors.New("raw driver detail"), "an unexpected error occurred", "internal_error"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rpcErr := dbRPCError(tc.err)
			if rpcErr.Code != InternalError {
				t.Errorf("code = %d, want %d", rpcErr.Code, InternalError)
			}
			if rpcErr.Message != tc.wantMsg {
				t.Errorf("message = %q, want %q", rpcErr.Message, tc.wantMsg)
			}
			if rpcErr.Data != tc.wantData {
				t.Errorf("data = %v, want %q", rpcErr.Data, tc.wantData)
			}
			// Message is plain text, never a serialized payload.
			if strings.HasPrefix(rpcErr.Message, "{") {
				t.Errorf("message is a JSON blob: %q", rpcErr.Message)
			}
		})
	}
}

func TestDBErrorJSON_NeverLeaksCause(t *testing.T) {
	payload := dbErrorJSON(errors.New("ERROR 1146: Table 'secret.wp_users' doesn't exist"))
	if strings.Contains(payload, "secret") {
		t.Errorf("payload leaked internal detail: %s", payload)
	}
}
