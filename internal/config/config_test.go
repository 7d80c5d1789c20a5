package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.PollInterval != 5*time.Minute {
		t.Fatalf("unexpected poll interval %v", cfg.PollInterval)
	}
	if cfg.FetchConnectTimeout != 15*time.Second || cfg.FetchReadTimeout != 10*time.Second {
		t.Fatalf("unexpected fetch timeouts %v / %v", cfg.FetchConnectTimeout, cfg.FetchReadTimeout)
	}
	if cfg.DisplayLocation != time.Local {
		t.Fatalf("expected local display location, got %v", cfg.DisplayLocation)
	}
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("POLL_INTERVAL", "60")
	t.Setenv("STORAGE_TYPE", "none")
	t.Setenv("DISPLAY_TIMEZONE", "UTC")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.PollInterval != time.Minute {
		t.Fatalf("expected 1m poll interval, got %v", cfg.PollInterval)
	}
	if cfg.StorageType != "none" {
		t.Fatalf("expected storage type none, got %q", cfg.StorageType)
	}
	if cfg.DisplayLocation.String() != "UTC" {
		t.Fatalf("expected UTC display location, got %v", cfg.DisplayLocation)
	}
}

func TestLoadRejectsNonPositiveInterval(t *testing.T) {
	t.Setenv("POLL_INTERVAL", "0")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for zero poll_interval")
	}
}

func TestLoadRejectsUnknownTimezone(t *testing.T) {
	t.Setenv("DISPLAY_TIMEZONE", "Mars/Olympus_Mons")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for unknown timezone")
	}
}
