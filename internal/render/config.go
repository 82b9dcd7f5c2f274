package render

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/imdario/mergo"
)

// Config holds the card style. It is built once and never mutated; New takes
// its own copy of the background list.
type Config struct {
	BotName         string
	BackgroundBlur  int
	BackgroundColor string // rgba() overlay drawn over the background
	DashboardColor1 string // rgba() accent for borders and headings
	DashboardColor2 string // rgba() server title color
	TitleFont       string
	TextFont        string
	Backgrounds     []Background
	Width           int
	Height          int
	CardSelector    string
}

// DefaultConfig returns the built-in style. Relative references resolve
// against baseDir.
func DefaultConfig(baseDir string) Config {
	return Config{
		BotName:         "伺服器狀態查詢",
		BackgroundBlur:  0,
		BackgroundColor: "rgba(230, 215, 235, 0.692)",
		DashboardColor1: "rgba(29,131,190,1)",
		DashboardColor2: "rgba(149,40,180,1)",
		TitleFont:       filepath.Join(baseDir, "font", "Gugi-Regular.ttf"),
		TextFont:        filepath.Join(baseDir, "font", "HachiMaruPop-Regular.ttf"),
		Backgrounds: []Background{
			ManifestSource{Path: filepath.Join(baseDir, "htmlmaterial", "ba.txt")},
		},
		Width:        900,
		Height:       1080,
		CardSelector: ".status-card",
	}
}

type fileConfig struct {
	BotName         string   `json:"bot_name" toml:"bot_name"`
	BackgroundBlur  int      `json:"background_blur" toml:"background_blur"`
	BackgroundColor string   `json:"background_color" toml:"background_color"`
	DashboardColor1 string   `json:"dashboard_text_color_1" toml:"dashboard_text_color_1"`
	DashboardColor2 string   `json:"dashboard_text_color_2" toml:"dashboard_text_color_2"`
	TitleFont       string   `json:"title_font" toml:"title_font"`
	TextFont        string   `json:"text_font" toml:"text_font"`
	Backgrounds     []string `json:"backgrounds" toml:"backgrounds"`
	Width           int      `json:"width" toml:"width"`
	Height          int      `json:"height" toml:"height"`
}

// LoadConfig reads a JSON or TOML style file and overlays its non-empty
// fields on DefaultConfig. A missing file is not an error.
func LoadConfig(path, baseDir string) (Config, error) {
	cfg := DefaultConfig(baseDir)
	if path == "" {
		return cfg, nil
	}

	var fc fileConfig
	if err := decodeStyle(path, &fc); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("load style %s: %w", path, err)
	}

	overlay := Config{
		BotName:         fc.BotName,
		BackgroundBlur:  fc.BackgroundBlur,
		BackgroundColor: fc.BackgroundColor,
		DashboardColor1: fc.DashboardColor1,
		DashboardColor2: fc.DashboardColor2,
		TitleFont:       relativeTo(baseDir, fc.TitleFont),
		TextFont:        relativeTo(baseDir, fc.TextFont),
		Width:           fc.Width,
		Height:          fc.Height,
	}
	for _, ref := range fc.Backgrounds {
		overlay.Backgrounds = append(overlay.Backgrounds, ParseBackground(relativeTo(baseDir, ref)))
	}
	if err := mergo.Merge(&cfg, overlay, mergo.WithOverride); err != nil {
		return cfg, fmt.Errorf("merge style %s: %w", path, err)
	}
	return cfg, nil
}

func decodeStyle(path string, fc *fileConfig) error {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		_, err := toml.DecodeFile(path, fc)
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, fc)
}

func relativeTo(baseDir, ref string) string {
	if ref == "" || isURL(ref) || filepath.IsAbs(ref) {
		return ref
	}
	return filepath.Join(baseDir, ref)
}

func (c Config) clone() Config {
	c.Backgrounds = slices.Clone(c.Backgrounds)
	return c
}
