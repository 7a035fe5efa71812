package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"TAXIS_BASE_URL", "TAXIS_ADDR", EnvDB, "TAXIS_LOG_LEVEL", "TAXIS_LOG_FORMAT", "TAXIS_HTTP_TIMEOUT_SECONDS"} {
		t.Setenv(k, "")
	}
	// keep .env lookups away from the package directory
	t.Chdir(t.TempDir())
}

func TestNewFromReaderOverridesDefaults(t *testing.T) {
	c, err := NewFromReader(strings.NewReader("baseURL: http://taxis.example/\nhttpTimeout: 3s\nlogFormat: json\n"))
	if err != nil {
		t.Fatalf("NewFromReader: %v", err)
	}
	if c.BaseURL != "http://taxis.example/" || c.HTTPTimeout != 3*time.Second || c.LogFormat != "json" {
		t.Fatalf("unexpected config %+v", c)
	}
	if c.Addr != Default.Addr {
		t.Fatalf("unset fields should keep defaults, got addr %q", c.Addr)
	}
}

func TestNewFromReaderValidates(t *testing.T) {
	if _, err := NewFromReader(strings.NewReader("logLevel: loud\n")); err == nil {
		t.Fatalf("expected validation error for unknown log level")
	}
	if _, err := NewFromReader(strings.NewReader("baseURL: not a url\n")); err == nil {
		t.Fatalf("expected validation error for bad base url")
	}
}

func TestLoadWithoutFileUsesDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvHome, t.TempDir())
	c, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if *c != Default {
		t.Fatalf("expected defaults, got %+v", c)
	}
}

func TestLoadExplicitMissingFileFails(t *testing.T) {
	clearEnv(t)
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("expected error for missing explicit config file")
	}
}

func TestLoadFileThenEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	t.Setenv(EnvHome, dir)
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("addr: \":9000\"\nlogLevel: debug\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("TAXIS_LOG_LEVEL", "warn")
	t.Setenv("TAXIS_HTTP_TIMEOUT_SECONDS", "30")

	c, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Addr != ":9000" {
		t.Fatalf("file value lost, addr = %q", c.Addr)
	}
	if c.LogLevel != "warn" || c.HTTPTimeout != 30*time.Second {
		t.Fatalf("env should override file, got %+v", c)
	}
}

func TestLoadEnvFixesInvalidFileValue(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	t.Setenv(EnvHome, dir)
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("logLevel: loud\nbaseURL: not a url\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("TAXIS_LOG_LEVEL", "error")
	t.Setenv("TAXIS_BASE_URL", "http://taxis.example/")

	c, err := Load("")
	if err != nil {
		t.Fatalf("env overrides should make the config valid: %v", err)
	}
	if c.LogLevel != "error" || c.BaseURL != "http://taxis.example/" {
		t.Fatalf("unexpected config %+v", c)
	}

	// without the override the file value is still rejected
	t.Setenv("TAXIS_LOG_LEVEL", "")
	if _, err := Load(""); err == nil {
		t.Fatalf("expected validation error for the file's log level")
	}
}

func TestLoadDotEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvHome, t.TempDir())
	wd, _ := os.Getwd()
	if err := os.WriteFile(filepath.Join(wd, ".env"), []byte("TAXIS_BASE_URL=http://from-dotenv:8080/\n"), 0o644); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	// godotenv never overrides variables that are already set, even to ""
	_ = os.Unsetenv("TAXIS_BASE_URL")
	t.Cleanup(func() { _ = os.Unsetenv("TAXIS_BASE_URL") })

	c, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.BaseURL != "http://from-dotenv:8080/" {
		t.Fatalf("expected .env base url, got %q", c.BaseURL)
	}
}

func TestResolveDBPath(t *testing.T) {
	t.Setenv(EnvDB, "")
	t.Setenv(EnvHome, "/tmp/taxis-home")
	c := Default
	p, err := c.ResolveDBPath()
	if err != nil || p != filepath.Join("/tmp/taxis-home", "taxis.db") {
		t.Fatalf("ResolveDBPath = %q, %v", p, err)
	}
	c.DBPath = "/data/x.db"
	if p, _ := c.ResolveDBPath(); p != "/data/x.db" {
		t.Fatalf("explicit DBPath ignored: %q", p)
	}
}
