package config

import (
	"testing"
	"time"
)

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse([]string{
		"ROSTERBOARD_DATABASE_URL=postgres://localhost/rosterboard",
		"ROSTERBOARD_REDIS_ADDR=localhost:6379",
	})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	if cfg.Leader {
		t.Error("expected Leader to default to false")
	}
	if cfg.HTTPPort != "8080" {
		t.Errorf("expected default port 8080, got %s", cfg.HTTPPort)
	}
	if cfg.Storage.Provider != "cdn" {
		t.Errorf("expected default storage provider cdn, got %s", cfg.Storage.Provider)
	}
	if cfg.Delivery.PollInterval != 100*time.Millisecond {
		t.Errorf("expected default poll interval 100ms, got %s", cfg.Delivery.PollInterval)
	}
	if cfg.Delivery.MaxWait != 45*time.Second {
		t.Errorf("expected default max wait 45s, got %s", cfg.Delivery.MaxWait)
	}
	if cfg.Delivery.MaxQueueDepth != 1000 {
		t.Errorf("expected default queue depth 1000, got %d", cfg.Delivery.MaxQueueDepth)
	}
	if cfg.Render.Timeout != 60*time.Second {
		t.Errorf("expected default render timeout 60s, got %s", cfg.Render.Timeout)
	}
}

func TestParseOverridesAndNesting(t *testing.T) {
	cfg, err := Parse([]string{
		"ROSTERBOARD_DATABASE_URL=postgres://db/r",
		"ROSTERBOARD_REDIS_ADDR=redis:6379",
		"ROSTERBOARD_LEADER=true",
		"ROSTERBOARD_HTTP_PORT=9090",
		"ROSTERBOARD_STORAGE_PROVIDER=localfs",
		"ROSTERBOARD_STORAGE_LOCAL_ROOT=/srv/objects",
		"ROSTERBOARD_TELEGRAM_TOKEN=123:abc",
		"ROSTERBOARD_DELIVERY_MAX_WAIT=10s",
	})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	if !cfg.Leader {
		t.Error("expected Leader true")
	}
	if cfg.HTTPPort != "9090" {
		t.Errorf("expected port 9090, got %s", cfg.HTTPPort)
	}
	if cfg.Storage.Provider != "localfs" || cfg.Storage.LocalRoot != "/srv/objects" {
		t.Errorf("expected nested storage config, got %+v", cfg.Storage)
	}
	if cfg.Telegram.Token != "123:abc" {
		t.Errorf("expected telegram token, got %q", cfg.Telegram.Token)
	}
	if cfg.Delivery.MaxWait != 10*time.Second {
		t.Errorf("expected max wait 10s, got %s", cfg.Delivery.MaxWait)
	}
}

func TestParseMissingRequired(t *testing.T) {
	if _, err := Parse([]string{"ROSTERBOARD_REDIS_ADDR=redis:6379"}); err == nil {
		t.Error("expected an error when DATABASE_URL is missing")
	}
}
