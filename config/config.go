// Package config loads graphwork settings from a TOML file layered over
// built-in defaults.
//
// Lookup order when no path is given:
//  1. $GRAPHWORK_CONFIG
//  2. ./graphwork.toml
//  3. $XDG_CONFIG_HOME/graphwork/config.toml (or ~/.config/graphwork/config.toml)
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/TFMV/graphwork/logging"
	"github.com/TFMV/graphwork/physics"
	"github.com/TFMV/graphwork/style"
	"github.com/TFMV/graphwork/viewport"
)

// EnvPath names the environment variable that points at a config file.
const EnvPath = "GRAPHWORK_CONFIG"

// Config holds graphwork configuration.
type Config struct {
	Server   ServerConfig     `toml:"server"`
	Canvas   CanvasConfig     `toml:"canvas"`
	Physics  physics.Config   `toml:"physics"`
	Viewport viewport.Options `toml:"viewport"`
	Style    style.Palette    `toml:"style"`
	Log      logging.Config   `toml:"log"`
}

// ServerConfig controls the HTTP surface and the frame loop.
type ServerConfig struct {
	Addr          string        `toml:"addr"`
	FrameInterval time.Duration `toml:"frame_interval"`
	ReadTimeout   time.Duration `toml:"read_timeout"`
	WriteTimeout  time.Duration `toml:"write_timeout"`
	IdleTimeout   time.Duration `toml:"idle_timeout"`
	MaxUploadSize int64         `toml:"max_upload_size"`
}

// CanvasConfig is the size of the drawing surface in screen units.
type CanvasConfig struct {
	Width  float64 `toml:"width"`
	Height float64 `toml:"height"`
}

// Default returns the default configuration.
func Default() *Config {
	canvas := CanvasConfig{Width: 928, Height: 600}
	return &Config{
		Server: ServerConfig{
			Addr:          ":8080",
			FrameInterval: 16 * time.Millisecond,
			ReadTimeout:   10 * time.Second,
			WriteTimeout:  30 * time.Second,
			IdleTimeout:   120 * time.Second,
			MaxUploadSize: 10 << 20,
		},
		Canvas:   canvas,
		Physics:  physics.DefaultConfig(),
		Viewport: viewport.DefaultOptions(canvas.Width, canvas.Height),
		Style:    style.DefaultPalette(),
		Log:      logging.Config{Level: "info", Format: "console"},
	}
}

// ConfigDir returns the graphwork config directory path.
func ConfigDir() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "graphwork")
}

// FindPath returns the first existing config file in lookup order, or "".
func FindPath() string {
	candidates := []string{
		os.Getenv(EnvPath),
		"graphwork.toml",
		filepath.Join(ConfigDir(), "config.toml"),
	}
	for _, p := range candidates {
		if p == "" {
			continue
		}
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// Load reads path over the defaults. An empty path searches the lookup
// order and falls back to defaults when nothing is found.
func Load(path string) (*Config, error) {
	if path == "" {
		path = FindPath()
	}
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the config to path.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(c)
}

// Validate rejects values the engine cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.Canvas.Width <= 0 || c.Canvas.Height <= 0 {
		errs = append(errs, errors.New("canvas width and height must be positive"))
	}
	if c.Server.FrameInterval <= 0 {
		errs = append(errs, errors.New("server.frame_interval must be positive"))
	}
	p := c.Physics
	if p.AlphaMin <= 0 || p.AlphaMin >= 1 {
		errs = append(errs, errors.New("physics.alpha_min must be in (0, 1)"))
	}
	if p.AlphaDecay <= 0 || p.AlphaDecay >= 1 {
		errs = append(errs, errors.New("physics.alpha_decay must be in (0, 1)"))
	}
	if p.VelocityDecay < 0 || p.VelocityDecay > 1 {
		errs = append(errs, errors.New("physics.velocity_decay must be in [0, 1]"))
	}
	if p.ReheatAlpha <= 0 || p.ReheatAlpha > 1 {
		errs = append(errs, errors.New("physics.reheat_alpha must be in (0, 1]"))
	}
	if p.LinkDistance < 0 {
		errs = append(errs, errors.New("physics.link_distance must not be negative"))
	}
	if p.ManyBodyStrength >= 0 {
		errs = append(errs, errors.New("physics.many_body_strength must be negative"))
	}
	if p.DistanceMin2 <= 0 {
		errs = append(errs, errors.New("physics.distance_min2 must be positive"))
	}
	if p.Theta < 0 {
		errs = append(errs, errors.New("physics.theta must not be negative"))
	}
	v := c.Viewport
	if v.MinScale <= 0 || v.MaxScale < v.MinScale {
		errs = append(errs, errors.New("viewport scale extent must satisfy 0 < min_scale <= max_scale"))
	}
	if c.Style.BaseRadius <= 0 {
		errs = append(errs, errors.New("style.base_radius must be positive"))
	}
	return errors.Join(errs...)
}

// PhysicsConfig returns the simulation constants sized to the canvas.
func (c *Config) PhysicsConfig() physics.Config {
	p := c.Physics
	p.Width, p.Height = c.Canvas.Width, c.Canvas.Height
	return p
}

// ViewportOptions returns the viewport options sized to the canvas.
func (c *Config) ViewportOptions() viewport.Options {
	v := c.Viewport
	v.Width, v.Height = c.Canvas.Width, c.Canvas.Height
	return v
}
