package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTPAddr != ":8082" || cfg.Storage != StorageMemory {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if cfg.NotificationTTL != 3*time.Second || cfg.ShutdownTimeout != 10*time.Second {
		t.Fatalf("unexpected durations %v %v", cfg.NotificationTTL, cfg.ShutdownTimeout)
	}
	if cfg.SessionIdle != 30*time.Minute {
		t.Fatalf("unexpected session idle %v", cfg.SessionIdle)
	}
}

func TestLoadFileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yml := `
app_env: prod
log_level: debug
http_addr: ":9000"
storage: postgres
menu_xlsx: /srv/menu.xlsx
notification_ttl: 5s
`
	if err := os.WriteFile(path, []byte(yml), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("HTTP_ADDR", ":9100")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.AppEnv != "prod" || cfg.LogLevel != "debug" || cfg.Storage != StoragePostgres {
		t.Fatalf("file values not applied: %+v", cfg)
	}
	if cfg.HTTPAddr != ":9100" {
		t.Fatalf("env should override file, got %q", cfg.HTTPAddr)
	}
	if cfg.MenuXLSX != "/srv/menu.xlsx" || cfg.NotificationTTL != 5*time.Second {
		t.Fatalf("unexpected menu/ttl %q %v", cfg.MenuXLSX, cfg.NotificationTTL)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("STORAGE", "redis")
	if _, err := Load(""); err == nil {
		t.Fatalf("expected error for unknown storage")
	}

	t.Setenv("STORAGE", "")
	t.Setenv("SHUTDOWN_TIMEOUT", "soon")
	if _, err := Load(""); err == nil {
		t.Fatalf("expected error for bad duration")
	}

	t.Setenv("SHUTDOWN_TIMEOUT", "")
	t.Setenv("SESSION_IDLE", "0s")
	if _, err := Load(""); err == nil {
		t.Fatalf("expected error for zero session idle")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
