package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// Ensure the configuration file is decoded over the defaults.
func TestMain_LoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config")
	if err := os.WriteFile(path, []byte(`
[database]
driver = "memory"

[http]
addr = ":8080"

[auth]
secret = "s3cret"
token-ttl = "1h"

[log]
format = "json"
`), 0600); err != nil {
		t.Fatal(err)
	}

	m := NewMain()
	if err := m.ParseFlags([]string{"-config", path}); err != nil {
		t.Fatal(err)
	} else if err := m.LoadConfig(); err != nil {
		t.Fatal(err)
	}

	if m.Config.Database.Driver != "memory" {
		t.Fatalf("unexpected driver: %s", m.Config.Database.Driver)
	} else if m.Config.HTTP.Addr != ":8080" {
		t.Fatalf("unexpected addr: %s", m.Config.HTTP.Addr)
	} else if m.Config.Auth.Secret != "s3cret" {
		t.Fatalf("unexpected secret: %s", m.Config.Auth.Secret)
	} else if time.Duration(m.Config.Auth.TokenTTL) != time.Hour {
		t.Fatalf("unexpected ttl: %s", time.Duration(m.Config.Auth.TokenTTL))
	} else if m.Config.Auth.OTP != "1212" {
		t.Fatalf("unexpected otp: %s", m.Config.Auth.OTP)
	} else if m.Config.Log.Format != "json" {
		t.Fatalf("unexpected log format: %s", m.Config.Log.Format)
	}
}

// Ensure an explicit config path must exist.
func TestMain_LoadConfig_NotExist(t *testing.T) {
	m := NewMain()
	if err := m.ParseFlags([]string{"-config", filepath.Join(t.TempDir(), "missing")}); err != nil {
		t.Fatal(err)
	} else if err := m.LoadConfig(); !os.IsNotExist(err) {
		t.Fatalf("unexpected error: %v", err)
	}
}

// Ensure environment variables override the configuration.
func TestMain_LoadEnv(t *testing.T) {
	env := map[string]string{
		"PORT":        "4000",
		"JWT_SECRET":  "from-env",
		"MONGODB_URI": "mongodb://localhost:27017",
		"LOG_LEVEL":   "debug",
	}

	m := NewMain()
	m.EnvPath = ""
	m.LookupEnv = func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
	if err := m.LoadEnv(); err != nil {
		t.Fatal(err)
	}

	if m.Config.HTTP.Addr != ":4000" {
		t.Fatalf("unexpected addr: %s", m.Config.HTTP.Addr)
	} else if m.Config.Auth.Secret != "from-env" {
		t.Fatalf("unexpected secret: %s", m.Config.Auth.Secret)
	} else if m.Config.Database.Driver != "mongo" || m.Config.Database.URI != "mongodb://localhost:27017" {
		t.Fatalf("unexpected database: %#v", m.Config.Database)
	} else if m.Config.Log.Level != "debug" {
		t.Fatalf("unexpected log level: %s", m.Config.Log.Level)
	}
}

// Ensure a dotenv file is loaded into the environment.
func TestMain_LoadEnv_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("WISHLISTD_TEST_PORT=5000\n"), 0600); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Unsetenv("WISHLISTD_TEST_PORT") })

	m := NewMain()
	m.EnvPath = path
	if err := m.LoadEnv(); err != nil {
		t.Fatal(err)
	} else if v := os.Getenv("WISHLISTD_TEST_PORT"); v != "5000" {
		t.Fatalf("unexpected env: %q", v)
	}

	// A missing file is ignored.
	m.EnvPath = filepath.Join(t.TempDir(), "missing")
	if err := m.LoadEnv(); err != nil {
		t.Fatal(err)
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, LogConfig{Level: "warn", Format: "json"})
	logger.Info("hidden")
	logger.Warn("shown", "key", "value")

	if s := buf.String(); strings.Contains(s, "hidden") {
		t.Fatalf("unexpected info line: %s", s)
	} else if !strings.Contains(s, `"msg":"shown"`) || !strings.Contains(s, `"key":"value"`) {
		t.Fatalf("unexpected log: %s", s)
	}
}
