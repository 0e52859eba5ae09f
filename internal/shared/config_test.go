package shared_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"nomad_hotel/internal/shared"
)

func noEnvFile(t *testing.T) {
	t.Helper()
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
}

func TestLoad_Defaults(t *testing.T) {
	noEnvFile(t)
	for _, k := range []string{"APP_ENV", "LOG_LEVEL", "HTTP_ADDR", "STORAGE", "CACHE_TTL_SECONDS", "IMPORT_WORKERS", "FEED_BASE_URL"} {
		t.Setenv(k, "")
	}
	c, err := shared.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.HTTPAddr != ":8080" || c.Storage != shared.StorageMySQL || c.LogLevel != "info" {
		t.Fatalf("unexpected defaults: %+v", c)
	}
	if c.CacheTTL != 900*time.Second || c.Workers != 8 {
		t.Fatalf("ttl=%v workers=%d", c.CacheTTL, c.Workers)
	}
}

func TestLoad_EnvFileDoesNotOverrideEnvironment(t *testing.T) {
	p := filepath.Join(t.TempDir(), "test.env")
	if err := os.WriteFile(p, []byte("HTTP_ADDR=:7000\nCACHE_TTL_SECONDS=60\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("ENV_FILE", p)
	t.Setenv("HTTP_ADDR", ":9000")
	t.Setenv("STORAGE", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("FEED_BASE_URL", "")
	// a set-but-empty variable still blocks the file, so unset it; t.Setenv restores it afterwards
	t.Setenv("CACHE_TTL_SECONDS", "")
	os.Unsetenv("CACHE_TTL_SECONDS")

	c, err := shared.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.HTTPAddr != ":9000" {
		t.Fatalf("HTTPAddr=%q, environment should win", c.HTTPAddr)
	}
	if c.CacheTTL != time.Minute {
		t.Fatalf("CacheTTL=%v, want 1m from file", c.CacheTTL)
	}
}

func TestLoad_Rejects(t *testing.T) {
	cases := map[string]map[string]string{
		"unknown storage": {"STORAGE": "postgres"},
		"bad log level":   {"LOG_LEVEL": "loud"},
		"bad feed url":    {"FEED_BASE_URL": "::nope"},
		"zero workers":    {"IMPORT_WORKERS": "0"},
	}
	for name, vars := range cases {
		t.Run(name, func(t *testing.T) {
			noEnvFile(t)
			for _, k := range []string{"STORAGE", "LOG_LEVEL", "FEED_BASE_URL", "IMPORT_WORKERS"} {
				t.Setenv(k, "")
			}
			for k, v := range vars {
				t.Setenv(k, v)
			}
			if _, err := shared.Load(); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}
