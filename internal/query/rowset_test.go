package query

import (
	"testing"
	"time"
)

func TestCleanValue(t *testing.T) {
	ts := time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)

	tests := []struct {
		name   string
		value  any
		dbType string
		want   any
	}{
		{"nil stays nil", nil, "TEXT", nil},
		{"utf8 bytes become string", []byte("hello"), "VARCHAR", "hello"},
		{"binary bytes become placeholder", []byte{0xff, 0xfe, 0x00}, "BLOB", "<binary 3 bytes>"},
		{"decimal bytes become float", []byte("12.50"), "DECIMAL", 12.5},
		{"newdecimal bytes become float", []byte("-3.25"), "NEWDECIMAL", -3.25},
		{"non-numeric decimal falls through as text", []byte("abc"), "DECIMAL", "abc"},
		{"timestamp becomes rfc3339", ts, "DATETIME", "2024-05-01T12:30:00Z"},
		{"int64 passes through", int64(42), "BIGINT", int64(42)},
		{"bool passes through", true, "BOOLEAN", true},
		{"float passes through", 1.5, "DOUBLE", 1.5},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := cleanValue(tc.value, tc.dbType); got != tc.want {
				t.Errorf("cleanValue(%v, %q) = %v (%T), want %v (%T)",
					tc.value, tc.dbType, got, got, tc.want, tc.want)
			}
		})
	}
}
