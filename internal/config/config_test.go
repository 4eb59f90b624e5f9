package config

import (
	"testing"
	"time"
)

// clearEnv blanks every variable Load reads so ambient values never leak
// into a test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"WP_DB_HOST", "WP_DB_PORT", "WP_DB_USER", "WP_DB_PASSWORD",
		"WP_DB_NAME", "WP_DB_SOCKET", "WP_TABLE_PREFIX", "WP_MAX_ROWS",
		"WP_QUERY_TIMEOUT", "WP_CONNECT_TIMEOUT", "WP_POOL_MIN", "WP_POOL_MAX",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Host != "127.0.0.1" {
		t.Errorf("Host = %q, want 127.0.0.1", cfg.Host)
	}
	if cfg.Port != 3306 {
		t.Errorf("Port = %d, want 3306", cfg.Port)
	}
	if cfg.User != "root" {
		t.Errorf("User = %q, want root", cfg.User)
	}
	if cfg.Database != "wordpress" {
		t.Errorf("Database = %q, want wordpress", cfg.Database)
	}
	if cfg.TablePrefix != "" {
		t.Errorf("TablePrefix = %q, want empty (auto-detect)", cfg.TablePrefix)
	}
	if cfg.MaxRows != 1000 {
		t.Errorf("MaxRows = %d, want 1000", cfg.MaxRows)
	}
	if cfg.QueryTimeout() != 30*time.Second {
		t.Errorf("QueryTimeout = %v, want 30s", cfg.QueryTimeout())
	}
	if cfg.ConnectTimeout() != 10*time.Second {
		t.Errorf("ConnectTimeout = %v, want 10s", cfg.ConnectTimeout())
	}
	if cfg.PoolMin != 1 || cfg.PoolMax != 5 {
		t.Errorf("pool sizing = %d/%d, want 1/5", cfg.PoolMin, cfg.PoolMax)
	}
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("WP_DB_HOST", "db.internal")
	t.Setenv("WP_DB_PORT", "3307")
	t.Setenv("WP_DB_NAME", "shop")
	t.Setenv("WP_TABLE_PREFIX", "shop_")
	t.Setenv("WP_MAX_ROWS", "50")
	t.Setenv("WP_QUERY_TIMEOUT", "5")
	t.Setenv("WP_DB_SOCKET", "/tmp/mysql.sock")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Host != "db.internal" || cfg.Port != 3307 {
		t.Errorf("host/port = %s:%d", cfg.Host, cfg.Port)
	}
	if cfg.Database != "shop" {
		t.Errorf("Database = %q", cfg.Database)
	}
	if cfg.TablePrefix != "shop_" {
		t.Errorf("TablePrefix = %q", cfg.TablePrefix)
	}
	if cfg.MaxRows != 50 {
		t.Errorf("MaxRows = %d", cfg.MaxRows)
	}
	if cfg.QueryTimeout() != 5*time.Second {
		t.Errorf("QueryTimeout = %v", cfg.QueryTimeout())
	}
	if cfg.Socket != "/tmp/mysql.sock" {
		t.Errorf("Socket = %q", cfg.Socket)
	}
}

func TestLoad_NonNumericFallsBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("WP_MAX_ROWS", "lots")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.MaxRows != 1000 {
		t.Errorf("MaxRows = %d, want fallback 1000", cfg.MaxRows)
	}
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"zero max rows", "WP_MAX_ROWS", "0"},
		{"negative timeout", "WP_QUERY_TIMEOUT", "-1"},
		{"pool max below min", "WP_POOL_MAX", "0"},
		{"port out of range", "WP_DB_PORT", "70000"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tc.key, tc.value)

			if _, err := Load(); err == nil {
				t.Errorf("Load accepted %s=%s", tc.key, tc.value)
			}
		})
	}
}

func TestLoad_PoolMaxMustCoverMin(t *testing.T) {
	clearEnv(t)
	t.Setenv("WP_POOL_MIN", "5")
	t.Setenv("WP_POOL_MAX", "2")

	if _, err := Load(); err == nil {
		t.Error("Load accepted pool max below pool min")
	}
}
