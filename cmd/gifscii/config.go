package main

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// fileDefaults mirrors the flag surface so a config file can pre-seed the
// defaults. Explicit flags always win.
type fileDefaults struct {
	Width      int     `toml:"width"`
	Height     int     `toml:"height"`
	Scale      float64 `toml:"scale"`
	CharAspect float64 `toml:"char_aspect"`
	Workers    int     `toml:"workers"`
	Speed      float64 `toml:"speed"`
	FPS        int     `toml:"fps"`
	FontSize   float64 `toml:"font_size"`
	Background string  `toml:"background"`
	Foreground string  `toml:"foreground"`
}

func defaultsPath() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "gifscii", "config.toml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "gifscii", "config.toml")
}

// loadDefaults reads the optional config file. A missing file is fine; a
// broken one warns and falls back to the built-in defaults.
func loadDefaults() fileDefaults {
	d := fileDefaults{
		CharAspect: 0.5,
		FontSize:   14,
		Background: "#000000",
		Foreground: "#FFFFFF",
	}
	path := defaultsPath()
	if path == "" {
		return d
	}
	if _, err := toml.DecodeFile(path, &d); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "warning: %s: %v\n", path, err)
	}
	return d
}

// parseHexColor parses #RRGGBB; the leading # is optional.
func parseHexColor(s string) (color.RGBA, error) {
	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 {
		return color.RGBA{}, fmt.Errorf("invalid hex color %q", s)
	}
	var r, g, b uint8
	if _, err := fmt.Sscanf(hex, "%02x%02x%02x", &r, &g, &b); err != nil {
		return color.RGBA{}, fmt.Errorf("invalid hex color %q", s)
	}
	return color.RGBA{R: r, G: g, B: b, A: 0xff}, nil
}
