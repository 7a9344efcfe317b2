package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("missing config should not fail: %v", err)
	}
	if cfg.Timer.Minutes != nil || cfg.Store.Path != nil || cfg.Log.Enabled != nil {
		t.Fatalf("expected empty config, got %+v", cfg)
	}
}

func TestLoadConfigEmptyPath(t *testing.T) {
	if _, err := LoadConfig(""); err == nil {
		t.Fatalf("expected error for empty path")
	}
}

func TestLoadConfigValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
[timer]
minutes = 50
mode = "deep"

[store]
retention-days = 14
timezone = "UTC"

[log]
enabled = false
level = "debug"
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Timer.Minutes == nil || *cfg.Timer.Minutes != 50 {
		t.Fatalf("unexpected minutes: %v", cfg.Timer.Minutes)
	}
	if cfg.Timer.Mode == nil || *cfg.Timer.Mode != "deep" {
		t.Fatalf("unexpected mode: %v", cfg.Timer.Mode)
	}
	if cfg.Store.RetentionDays == nil || *cfg.Store.RetentionDays != 14 {
		t.Fatalf("unexpected retention: %v", cfg.Store.RetentionDays)
	}
	if cfg.Store.Path != nil {
		t.Fatalf("unset path should stay nil")
	}
	if cfg.Log.Enabled == nil || *cfg.Log.Enabled {
		t.Fatalf("expected logging disabled")
	}
	loc, err := cfg.Store.Location()
	if err != nil || loc != time.UTC {
		t.Fatalf("expected UTC location, got %v (%v)", loc, err)
	}
}

func TestLoadConfigInvalidTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[timer\nminutes = "), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestLocationDefaultsAndErrors(t *testing.T) {
	loc, err := StoreConfig{}.Location()
	if err != nil || loc != time.Local {
		t.Fatalf("expected local location, got %v (%v)", loc, err)
	}
	bad := "Mars/Olympus"
	if _, err := (StoreConfig{Timezone: &bad}).Location(); err == nil {
		t.Fatalf("expected error for unknown timezone")
	}
}

func TestDefaultPathsUseXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/cfg")
	t.Setenv("XDG_DATA_HOME", "/data")
	if got := DefaultConfigPath(); got != filepath.Join("/cfg", "tufocus", "config.toml") {
		t.Fatalf("unexpected config path %s", got)
	}
	if got := DefaultDBPath(); got != filepath.Join("/data", "tufocus", "tufocus.db") {
		t.Fatalf("unexpected db path %s", got)
	}
	if got := DefaultLogPath(); got != filepath.Join("/data", "tufocus", "tufocus.log") {
		t.Fatalf("unexpected log path %s", got)
	}
}
