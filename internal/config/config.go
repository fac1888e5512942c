// Package config resolves h5play settings from a YAML file and the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/abhisek/h5play/internal/host"
	"github.com/abhisek/h5play/internal/logging"
	"github.com/abhisek/h5play/internal/player/web"
)

// Config holds all h5play configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Content ContentConfig `yaml:"content"`
	Store   StoreConfig   `yaml:"store"`
	Log     LogConfig     `yaml:"log"`

	// Activity is the id selected at startup.
	Activity string `yaml:"activity"`

	// LoadTimeout bounds player instantiation. Zero means no timeout.
	LoadTimeout time.Duration `yaml:"load_timeout"`
}

// ServerConfig configures the embedded player server.
type ServerConfig struct {
	Addr           string   `yaml:"addr"`
	PublicURL      string   `yaml:"public_url"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	OpenBrowser    bool     `yaml:"open_browser"`
}

// ContentConfig locates the H5P runtime and content packages.
type ContentConfig struct {
	Dir          string `yaml:"dir"`           // content packages on disk
	AssetsDir    string `yaml:"assets_dir"`    // h5p-standalone bundle on disk
	BasePath     string `yaml:"base_path"`     // URL prefix for content packages
	PlayerScript string `yaml:"player_script"` // h5p-standalone main bundle URL
	FrameJS      string `yaml:"frame_js"`
	FrameCSS     string `yaml:"frame_css"`
}

// StoreConfig configures completion history.
type StoreConfig struct {
	// DBPath overrides the default XDG location when set.
	DBPath string `yaml:"db_path"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `yaml:"level"`
	// File receives log output. Empty means stderr.
	File string `yaml:"file"`
	// Development selects the console encoder.
	Development bool `yaml:"development"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Addr:        "127.0.0.1:8080",
			OpenBrowser: true,
		},
		Content: ContentConfig{
			Dir:          filepath.Join("public", "h5p"),
			AssetsDir:    filepath.Join("public", "assets"),
			BasePath:     "/h5p",
			PlayerScript: "/assets/main.bundle.js",
			FrameJS:      "/assets/frame.bundle.js",
			FrameCSS:     "/assets/h5p.css",
		},
		Log: LogConfig{
			Level: "info",
		},
		Activity: "vocabulary",
	}
}

// Load builds a Config from defaults, the YAML file at path (skipped when
// path is empty) and environment overrides, in that order.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// PathFromEnv returns the config file named by H5PLAY_CONFIG, or "".
func PathFromEnv() string {
	return os.Getenv("H5PLAY_CONFIG")
}

// applyEnv overrides cfg with H5PLAY_* environment variables.
func applyEnv(cfg *Config) error {
	if v := os.Getenv("H5PLAY_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("H5PLAY_PUBLIC_URL"); v != "" {
		cfg.Server.PublicURL = v
	}
	if v := os.Getenv("H5PLAY_ALLOWED_ORIGINS"); v != "" {
		cfg.Server.AllowedOrigins = splitList(v)
	}
	if v := os.Getenv("H5PLAY_OPEN_BROWSER"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("H5PLAY_OPEN_BROWSER: %w", err)
		}
		cfg.Server.OpenBrowser = b
	}

	if v := os.Getenv("H5PLAY_CONTENT_DIR"); v != "" {
		cfg.Content.Dir = v
	}
	if v := os.Getenv("H5PLAY_ASSETS_DIR"); v != "" {
		cfg.Content.AssetsDir = v
	}

	if v := os.Getenv("H5PLAY_DB"); v != "" {
		cfg.Store.DBPath = v
	}

	if v := os.Getenv("H5PLAY_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("H5PLAY_LOG_FILE"); v != "" {
		cfg.Log.File = v
	}
	if v := os.Getenv("H5PLAY_LOG_DEV"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("H5PLAY_LOG_DEV: %w", err)
		}
		cfg.Log.Development = b
	}

	if v := os.Getenv("H5PLAY_ACTIVITY"); v != "" {
		cfg.Activity = v
	}
	if v := os.Getenv("H5PLAY_LOAD_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("H5PLAY_LOAD_TIMEOUT: %w", err)
		}
		cfg.LoadTimeout = d
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// DefaultLogPath returns $XDG_STATE_HOME/h5play/h5play.log, falling back to
// ~/.local/state.
func DefaultLogPath() (string, error) {
	stateHome := os.Getenv("XDG_STATE_HOME")
	if stateHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		stateHome = filepath.Join(home, ".local", "state")
	}
	p := filepath.Join(stateHome, "h5play", "h5play.log")
	return p, os.MkdirAll(filepath.Dir(p), 0o755)
}

// Logging returns the logger options.
func (c Config) Logging() logging.Options {
	return logging.Options{
		Level:       c.Log.Level,
		File:        c.Log.File,
		Development: c.Log.Development,
	}
}

// Web returns the settings of the embedded player server.
func (c Config) Web() web.Config {
	return web.Config{
		Addr:           c.Server.Addr,
		PublicURL:      c.Server.PublicURL,
		ContentDir:     c.Content.Dir,
		ContentRoute:   c.Content.BasePath,
		AssetsDir:      c.Content.AssetsDir,
		PlayerScript:   c.Content.PlayerScript,
		AllowedOrigins: c.Server.AllowedOrigins,
	}
}

// Host returns the player locations handed to every host.
func (c Config) Host() host.Config {
	return host.Config{
		ContentBase: c.Content.BasePath,
		FrameJS:     c.Content.FrameJS,
		FrameCSS:    c.Content.FrameCSS,
		LoadTimeout: c.LoadTimeout,
	}
}
