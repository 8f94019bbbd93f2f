package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Port != "8000" {
		t.Errorf("port = %q, want 8000", cfg.Server.Port)
	}
	if cfg.Database.Driver != "sqlite" || cfg.Database.DSN != "items.db" {
		t.Errorf("database = %+v", cfg.Database)
	}
	if cfg.Tasks.Delay != 500*time.Millisecond {
		t.Errorf("task delay = %s, want 500ms", cfg.Tasks.Delay)
	}
	if cfg.Events.Enabled {
		t.Error("events should be disabled by default")
	}
	if !cfg.Cache.Cacheable("get") || cfg.Cache.Cacheable("POST") {
		t.Errorf("cache methods = %v", cfg.Cache.Methods)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("ITEMS_SERVER_PORT", "9090")
	t.Setenv("ITEMS_SERVER_READ_TIMEOUT", "3s")
	t.Setenv("ITEMS_DATABASE_DRIVER", "mysql")
	t.Setenv("ITEMS_DATABASE_DSN", "root@tcp(localhost:3306)/items")
	t.Setenv("ITEMS_CACHE_METHODS", "get, head")
	t.Setenv("ITEMS_RATELIMIT_CAPACITY", "0")
	t.Setenv("ITEMS_TASKS_WORKERS", "2")
	t.Setenv("ITEMS_APP_ENV", "production")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Port != "9090" {
		t.Errorf("port = %q", cfg.Server.Port)
	}
	if cfg.Server.ReadTimeout != 3*time.Second {
		t.Errorf("read timeout = %s", cfg.Server.ReadTimeout)
	}
	if cfg.Database.Driver != "mysql" {
		t.Errorf("driver = %q", cfg.Database.Driver)
	}
	if !cfg.Cache.Cacheable("HEAD") {
		t.Errorf("cache methods = %v", cfg.Cache.Methods)
	}
	if cfg.RateLimit.Capacity != 1 {
		t.Errorf("capacity = %d, want clamped to 1", cfg.RateLimit.Capacity)
	}
	if cfg.Tasks.Workers != 2 {
		t.Errorf("workers = %d", cfg.Tasks.Workers)
	}
	if !cfg.IsProduction() {
		t.Error("expected production env")
	}
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	t.Setenv("ITEMS_DATABASE_DRIVER", "oracle")
	if _, err := Load(); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestEnvKey(t *testing.T) {
	cases := map[string]string{
		"ITEMS_DATABASE_DSN":            "database.dsn",
		"ITEMS_SERVER_SHUTDOWN_TIMEOUT": "server.shutdown_timeout",
		"ITEMS_RATELIMIT_REFILL_TOKENS": "ratelimit.refill_tokens",
		"ITEMS_APP_LOG_LEVEL":           "app.log_level",
	}
	for in, want := range cases {
		if got := envKey(in); got != want {
			t.Errorf("envKey(%q) = %q, want %q", in, got, want)
		}
	}
}
