package config

import (
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("A2SBOT_DATA_DIR", dir)
	t.Setenv("A2SBOT_BASE_DIR", dir)

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.ListenAddr != ":8080" {
		t.Errorf("listen = %q", cfg.ListenAddr)
	}
	if cfg.OutputPath != filepath.Join(dir, "server_status.png") {
		t.Errorf("output = %q", cfg.OutputPath)
	}
	if cfg.DatabasePath != filepath.Join(dir, "a2sbot.db") {
		t.Errorf("db = %q", cfg.DatabasePath)
	}
	if cfg.QueryTimeout != 5*time.Second || cfg.Browser != "local" {
		t.Errorf("cfg = %+v", cfg)
	}
	if len(cfg.CORSOrigins) != 2 {
		t.Errorf("cors = %v", cfg.CORSOrigins)
	}
}

func TestLoadOverrides(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("A2SBOT_DATA_DIR", dir)
	t.Setenv("A2SBOT_QUERY_TIMEOUT", "2s")
	t.Setenv("A2SBOT_BROWSER", "Docker")
	t.Setenv("A2SBOT_CORS_ORIGINS", " https://a , ,https://b")
	t.Setenv("A2SBOT_STEAM_API_KEY", "k")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.QueryTimeout != 2*time.Second || cfg.Browser != "docker" || cfg.SteamAPIKey != "k" {
		t.Errorf("cfg = %+v", cfg)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://b" {
		t.Errorf("cors = %v", cfg.CORSOrigins)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("A2SBOT_DATA_DIR", t.TempDir())

	t.Setenv("A2SBOT_QUERY_TIMEOUT", "soon")
	if _, err := Load(); err == nil {
		t.Error("expected duration error")
	}
	t.Setenv("A2SBOT_QUERY_TIMEOUT", "")

	t.Setenv("A2SBOT_BROWSER", "firefox")
	if _, err := Load(); err == nil {
		t.Error("expected browser error")
	}
}
