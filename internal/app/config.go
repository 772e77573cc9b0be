package app

import (
	"fmt"
	"os"

	"carousel/internal/layout"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override, e.g. CAROUSEL_UI_MOTION_LEVEL.
const EnvPrefix = "CAROUSEL_"

// Config controls runtime behavior for the carousel app.
type Config struct {
	DeckPath    string            `yaml:"deck" env:"DECK"`
	LogPath     string            `yaml:"log_path" env:"LOG_PATH"`
	Debug       bool              `yaml:"debug" env:"DEBUG"`
	ASCIIOnly   bool              `yaml:"ascii_only" env:"ASCII_ONLY"`
	Dev         bool              `yaml:"dev" env:"DEV"`
	DevHTTP     string            `yaml:"dev_http" env:"DEV_HTTP"`
	DevStateDir string            `yaml:"dev_state_dir" env:"DEV_STATE_DIR"`
	Layout      layout.Parameters `yaml:"layout" envPrefix:"LAYOUT_"`
	UI          UIConfig          `yaml:"ui" envPrefix:"UI_"`
}

type UIConfig struct {
	MotionLevel string  `yaml:"motion_level" env:"MOTION_LEVEL"`
	MouseScope  string  `yaml:"mouse_scope" env:"MOUSE_SCOPE"`
	CellWidth   float64 `yaml:"cell_width" env:"CELL_WIDTH"`
	CellHeight  float64 `yaml:"cell_height" env:"CELL_HEIGHT"`
}

func DefaultConfig() Config {
	p := layout.DefaultParameters()
	// Terminal viewports are far shorter than a phone screen; derive the
	// card height from the container instead of the fixed 560pt.
	p.ItemHeight = 0
	p.InteractiveClose = true
	return Config{
		DevHTTP: "127.0.0.1:17321",
		Layout:  p,
		UI: UIConfig{
			MotionLevel: string(MotionFull),
			MouseScope:  string(MouseFull),
			CellWidth:   8,
			CellHeight:  16,
		},
	}
}

// LoadConfig layers the YAML file at path (optional) and CAROUSEL_*
// environment variables over the defaults.
func LoadConfig(path string) (Config, error) {
	return loadConfig(path, nil)
}

func loadConfig(path string, environ map[string]string) (Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix, Environment: environ}); err != nil {
		return cfg, fmt.Errorf("environment overrides: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if err := c.Layout.Validate(); err != nil {
		return fmt.Errorf("invalid layout: %w", err)
	}
	motion, ok := normalizeMotionLevel(c.UI.MotionLevel)
	if !ok {
		return fmt.Errorf("invalid ui motion level %q", c.UI.MotionLevel)
	}
	c.UI.MotionLevel = string(motion)
	mouse, ok := normalizeMouseScope(c.UI.MouseScope)
	if !ok {
		return fmt.Errorf("invalid ui mouse scope %q", c.UI.MouseScope)
	}
	c.UI.MouseScope = string(mouse)
	if c.UI.CellWidth < 0 || c.UI.CellHeight < 0 {
		return fmt.Errorf("cell size must not be negative, got %vx%v", c.UI.CellWidth, c.UI.CellHeight)
	}
	if c.UI.CellWidth == 0 {
		c.UI.CellWidth = 8
	}
	if c.UI.CellHeight == 0 {
		c.UI.CellHeight = 16
	}
	if c.Dev && c.DevHTTP == "" {
		c.DevHTTP = "127.0.0.1:17321"
	}
	return nil
}
