package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

type Config struct {
	ListenAddr   string
	DatabasePath string
	DataDir      string
	// BaseDir holds the style assets: font/, htmlmaterial/ and style.json.
	BaseDir      string
	StylePath    string
	OutputPath   string
	SteamAPIKey  string
	QueryTimeout time.Duration

	Browser      string
	BrowserPath  string
	BrowserImage string

	DefaultUser string
	DefaultPass string
	SessionTTL  time.Duration
	CORSOrigins []string

	HistoryRetention time.Duration
	HousekeepingCron string
}

func Load() (*Config, error) {
	dataDir := envOr("A2SBOT_DATA_DIR", "./data")
	// Docker bind mounts require absolute paths
	dataDir, err := filepath.Abs(dataDir)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, err
	}
	baseDir, err := filepath.Abs(envOr("A2SBOT_BASE_DIR", "."))
	if err != nil {
		return nil, err
	}

	queryTimeout, err := durationEnv("A2SBOT_QUERY_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, err
	}
	sessionTTL, err := durationEnv("A2SBOT_SESSION_TTL", 7*24*time.Hour)
	if err != nil {
		return nil, err
	}
	retention, err := durationEnv("A2SBOT_HISTORY_RETENTION", 30*24*time.Hour)
	if err != nil {
		return nil, err
	}

	browser := strings.ToLower(envOr("A2SBOT_BROWSER", "local"))
	if browser != "local" && browser != "docker" {
		return nil, fmt.Errorf("A2SBOT_BROWSER must be local or docker, got %q", browser)
	}

	return &Config{
		ListenAddr:       envOr("A2SBOT_LISTEN", ":8080"),
		DatabasePath:     envOr("A2SBOT_DB", filepath.Join(dataDir, "a2sbot.db")),
		DataDir:          dataDir,
		BaseDir:          baseDir,
		StylePath:        envOr("A2SBOT_STYLE", filepath.Join(baseDir, "style.json")),
		OutputPath:       filepath.Join(dataDir, "server_status.png"),
		SteamAPIKey:      os.Getenv("A2SBOT_STEAM_API_KEY"),
		QueryTimeout:     queryTimeout,
		Browser:          browser,
		BrowserPath:      os.Getenv("A2SBOT_BROWSER_PATH"),
		BrowserImage:     envOr("A2SBOT_BROWSER_IMAGE", "chromedp/headless-shell:latest"),
		DefaultUser:      envOr("A2SBOT_DEFAULT_USER", "admin"),
		DefaultPass:      envOr("A2SBOT_DEFAULT_PASS", "admin"),
		SessionTTL:       sessionTTL,
		CORSOrigins:      splitList(envOr("A2SBOT_CORS_ORIGINS", "http://localhost:5173,http://localhost:8080")),
		HistoryRetention: retention,
		HousekeepingCron: envOr("A2SBOT_HOUSEKEEPING_CRON", "0 4 * * *"),
	}, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%s: invalid duration %q", key, v)
	}
	return d, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
