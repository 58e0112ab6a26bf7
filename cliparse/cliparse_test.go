// cliparse/cliparse_test.go
package cliparse

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

const testSecret = "0123456789abcdef-test"

var configEnvKeys = []string{
	"PORT", "DATABASE_URL", "DATABASE_TYPE", "SESSION_SECRET", "SESSION_TTL",
	"REDIS_ADDR", "REDIS_PASSWORD", "LOG_LEVEL", "COOKIE_SECURE",
	"RATE_LIMIT", "RATE_WINDOW", "TRUSTED_PROXIES", "CONFIG_FILE",
}

// clearEnv unsets every config variable for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range configEnvKeys {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestParseFlags_EnvVars(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("DATABASE_URL", "postgres://test")
	t.Setenv("DATABASE_TYPE", "postgres")
	t.Setenv("SESSION_SECRET", testSecret)
	t.Setenv("SESSION_TTL", "2h")
	t.Setenv("COOKIE_SECURE", "true")

	cfg, err := ParseFlags([]string{"-env", ""})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != 9000 {
		t.Errorf("expected port 9000, got %d", cfg.Port)
	}
	if cfg.DatabaseType != "postgres" {
		t.Errorf("expected postgres, got %s", cfg.DatabaseType)
	}
	if cfg.SessionTTL != 2*time.Hour {
		t.Errorf("expected 2h session TTL, got %s", cfg.SessionTTL)
	}
	if !cfg.CookieSecure {
		t.Error("expected secure cookies")
	}
}

func TestParseFlags_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := ParseFlags([]string{"-env", "", "-d", "file:test.db", "-session-secret", testSecret})
	if err != nil {
		t.Fatal(err)
	}

	want := Default()
	if cfg.Port != want.Port || cfg.DatabaseType != want.DatabaseType || cfg.SessionTTL != want.SessionTTL {
		t.Errorf("expected defaults, got %+v", cfg)
	}
}

func TestParseFlags_CLIOverridesEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := ParseFlags([]string{"-env", "", "-p", "8080", "-d", "file:test.db", "-session-secret", testSecret, "-log-level", "debug"})
	if err != nil {
		t.Fatal(err)
	}

	// CLI should override env
	if cfg.Port != 8080 {
		t.Errorf("CLI should override env: expected 8080, got %d", cfg.Port)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("CLI should override env: expected debug, got %s", cfg.LogLevel)
	}
}

func TestParseFlags_ConfigFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "7000")

	path := filepath.Join(t.TempDir(), "polly.yaml")
	content := `
port: 4000
database_url: "file:from-yaml.db"
session_secret: "yaml-secret-0123456789"
session_ttl: 30m
redis_addr: "localhost:6379"
rate_limit: 5
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := ParseFlags([]string{"-env", "", "-c", path})
	if err != nil {
		t.Fatal(err)
	}

	// env beats the file
	if cfg.Port != 7000 {
		t.Errorf("expected env port 7000, got %d", cfg.Port)
	}
	if cfg.DatabaseURL != "file:from-yaml.db" {
		t.Errorf("expected database url from file, got %s", cfg.DatabaseURL)
	}
	if cfg.SessionTTL != 30*time.Minute {
		t.Errorf("expected 30m TTL, got %s", cfg.SessionTTL)
	}
	if cfg.RedisAddr != "localhost:6379" {
		t.Errorf("expected redis addr from file, got %s", cfg.RedisAddr)
	}
	if cfg.RateLimit != 5 {
		t.Errorf("expected rate limit 5, got %d", cfg.RateLimit)
	}
	// untouched keys keep defaults
	if cfg.RateWindow != time.Minute {
		t.Errorf("expected default window, got %s", cfg.RateWindow)
	}
}

func TestParseFlags_DotEnv(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), ".env")
	content := "DATABASE_URL=file:dotenv.db\nSESSION_SECRET=dotenv-secret-0123456789\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := ParseFlags([]string{"-env", path})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.DatabaseURL != "file:dotenv.db" {
		t.Errorf("expected database url from .env, got %s", cfg.DatabaseURL)
	}
}

func TestParseFlags_TrustedProxies(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", "file:x.db")
	t.Setenv("SESSION_SECRET", testSecret)

	cfg, err := ParseFlags([]string{"-env", ""})
	if err != nil {
		t.Fatalf("ParseFlags() error = %v", err)
	}
	if len(cfg.TrustedProxies) != 0 {
		t.Errorf("Expected no trusted proxies by default, got %v", cfg.TrustedProxies)
	}

	t.Setenv("TRUSTED_PROXIES", "10.0.0.0/8, 192.0.2.1")
	cfg, err = ParseFlags([]string{"-env", ""})
	if err != nil {
		t.Fatalf("ParseFlags() error = %v", err)
	}
	if len(cfg.TrustedProxies) != 2 {
		t.Fatalf("Expected 2 trusted proxies, got %v", cfg.TrustedProxies)
	}
}

func TestParseFlags_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		args []string
	}{
		{
			name: "missing database url",
			env:  map[string]string{"SESSION_SECRET": testSecret},
		},
		{
			name: "missing session secret",
			env:  map[string]string{"DATABASE_URL": "file:x.db"},
		},
		{
			name: "short session secret",
			env:  map[string]string{"DATABASE_URL": "file:x.db", "SESSION_SECRET": "short"},
		},
		{
			name: "invalid port",
			env:  map[string]string{"DATABASE_URL": "file:x.db", "SESSION_SECRET": testSecret, "PORT": "abc"},
		},
		{
			name: "unsupported database type",
			env:  map[string]string{"DATABASE_URL": "file:x.db", "SESSION_SECRET": testSecret, "DATABASE_TYPE": "mysql"},
		},
		{
			name: "missing config file",
			env:  map[string]string{"DATABASE_URL": "file:x.db", "SESSION_SECRET": testSecret},
			args: []string{"-c", "/does/not/exist.yaml"},
		},
		{
			name: "invalid trusted proxy",
			env:  map[string]string{"DATABASE_URL": "file:x.db", "SESSION_SECRET": testSecret, "TRUSTED_PROXIES": "10.0.0.0/8,lb.internal"},
		},
		{
			name: "unknown flag",
			args: []string{"-nope"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			args := append([]string{"-env", ""}, tt.args...)
			if _, err := ParseFlags(args); err == nil {
				t.Error("expected an error")
			}
		})
	}
}
