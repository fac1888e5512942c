package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/abhisek/h5play/internal/logging"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"H5PLAY_ADDR", "H5PLAY_PUBLIC_URL", "H5PLAY_ALLOWED_ORIGINS", "H5PLAY_OPEN_BROWSER",
		"H5PLAY_CONTENT_DIR", "H5PLAY_ASSETS_DIR", "H5PLAY_DB", "H5PLAY_LOG_LEVEL",
		"H5PLAY_LOG_FILE", "H5PLAY_LOG_DEV", "H5PLAY_ACTIVITY", "H5PLAY_LOAD_TIMEOUT",
	} {
		t.Setenv(k, "")
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "h5play.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func mustLoad(t *testing.T, path string) Config {
	t.Helper()
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load(%q): %v", path, err)
	}
	return cfg
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg := mustLoad(t, "")
	if !reflect.DeepEqual(cfg, DefaultConfig()) {
		t.Errorf("Load(\"\") = %+v, want defaults", cfg)
	}
	if cfg.Content.BasePath != "/h5p" {
		t.Errorf("BasePath = %q", cfg.Content.BasePath)
	}
	if cfg.Content.FrameJS != "/assets/frame.bundle.js" || cfg.Content.FrameCSS != "/assets/h5p.css" {
		t.Errorf("unexpected frame assets %q %q", cfg.Content.FrameJS, cfg.Content.FrameCSS)
	}
	if cfg.Activity != "vocabulary" {
		t.Errorf("Activity = %q", cfg.Activity)
	}
	if cfg.LoadTimeout != 0 {
		t.Errorf("LoadTimeout = %v, want 0", cfg.LoadTimeout)
	}
	if cfg.Log.Development {
		t.Error("development logging should be off by default")
	}
}

func TestLoad_YAML(t *testing.T) {
	clearEnv(t)

	cfg := mustLoad(t, writeConfig(t, `
server:
  addr: 0.0.0.0:9090
  open_browser: false
  allowed_origins: [http://localhost:5173]
content:
  dir: /srv/h5p
log:
  level: debug
  development: true
activity: memory-game
load_timeout: 45s
`))

	if cfg.Server.Addr != "0.0.0.0:9090" {
		t.Errorf("Addr = %q", cfg.Server.Addr)
	}
	if cfg.Server.OpenBrowser {
		t.Error("OpenBrowser should be false")
	}
	if want := []string{"http://localhost:5173"}; !reflect.DeepEqual(cfg.Server.AllowedOrigins, want) {
		t.Errorf("AllowedOrigins = %v", cfg.Server.AllowedOrigins)
	}
	if cfg.Content.Dir != "/srv/h5p" {
		t.Errorf("Content.Dir = %q", cfg.Content.Dir)
	}
	// Unset keys keep their defaults.
	if cfg.Content.FrameCSS != "/assets/h5p.css" {
		t.Errorf("FrameCSS = %q", cfg.Content.FrameCSS)
	}
	if cfg.Log.Level != "debug" || !cfg.Log.Development {
		t.Errorf("Log = %+v", cfg.Log)
	}
	if cfg.Activity != "memory-game" {
		t.Errorf("Activity = %q", cfg.Activity)
	}
	if cfg.LoadTimeout != 45*time.Second {
		t.Errorf("LoadTimeout = %v", cfg.LoadTimeout)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "activity: memory-game\n")

	t.Setenv("H5PLAY_ACTIVITY", "vocabulary")
	t.Setenv("H5PLAY_ADDR", "127.0.0.1:7000")
	t.Setenv("H5PLAY_OPEN_BROWSER", "false")
	t.Setenv("H5PLAY_ALLOWED_ORIGINS", "http://a.test, http://b.test,")
	t.Setenv("H5PLAY_LOAD_TIMEOUT", "2m")
	t.Setenv("H5PLAY_LOG_DEV", "true")

	cfg := mustLoad(t, path)
	if cfg.Activity != "vocabulary" {
		t.Errorf("Activity = %q", cfg.Activity)
	}
	if cfg.Server.Addr != "127.0.0.1:7000" {
		t.Errorf("Addr = %q", cfg.Server.Addr)
	}
	if cfg.Server.OpenBrowser {
		t.Error("OpenBrowser should be false")
	}
	if want := []string{"http://a.test", "http://b.test"}; !reflect.DeepEqual(cfg.Server.AllowedOrigins, want) {
		t.Errorf("AllowedOrigins = %v", cfg.Server.AllowedOrigins)
	}
	if cfg.LoadTimeout != 2*time.Minute {
		t.Errorf("LoadTimeout = %v", cfg.LoadTimeout)
	}
	if !cfg.Log.Development {
		t.Error("H5PLAY_LOG_DEV should enable development logging")
	}
}

func TestLoad_Errors(t *testing.T) {
	clearEnv(t)

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
	if _, err := Load(writeConfig(t, "server: [unclosed")); err == nil {
		t.Error("expected error for malformed yaml")
	}

	tests := []struct {
		key, value string
	}{
		{"H5PLAY_OPEN_BROWSER", "maybe"},
		{"H5PLAY_LOAD_TIMEOUT", "soon"},
		{"H5PLAY_LOG_DEV", "sometimes"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)
			if _, err := Load(""); err == nil {
				t.Errorf("expected error for %s=%q", tt.key, tt.value)
			}
		})
	}
}

func TestDefaultLogPath(t *testing.T) {
	state := t.TempDir()
	t.Setenv("XDG_STATE_HOME", state)

	p, err := DefaultLogPath()
	if err != nil {
		t.Fatalf("DefaultLogPath: %v", err)
	}
	if want := filepath.Join(state, "h5play", "h5play.log"); p != want {
		t.Errorf("DefaultLogPath() = %q, want %q", p, want)
	}
	if fi, err := os.Stat(filepath.Dir(p)); err != nil || !fi.IsDir() {
		t.Errorf("expected log directory to exist: %v", err)
	}
}

func TestDerivedConfigs(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LoadTimeout = time.Minute
	cfg.Server.AllowedOrigins = []string{"http://localhost:5173"}
	cfg.Log = LogConfig{Level: "warn", File: "/tmp/h5play.log", Development: true}

	w := cfg.Web()
	if w.Addr != "127.0.0.1:8080" || w.ContentRoute != "/h5p" {
		t.Errorf("unexpected web addr/route %q %q", w.Addr, w.ContentRoute)
	}
	if w.ContentDir != filepath.Join("public", "h5p") {
		t.Errorf("ContentDir = %q", w.ContentDir)
	}
	if w.PlayerScript != "/assets/main.bundle.js" {
		t.Errorf("PlayerScript = %q", w.PlayerScript)
	}
	if !reflect.DeepEqual(w.AllowedOrigins, []string{"http://localhost:5173"}) {
		t.Errorf("AllowedOrigins = %v", w.AllowedOrigins)
	}

	h := cfg.Host()
	if h.ContentBase != "/h5p" || h.FrameJS != "/assets/frame.bundle.js" || h.FrameCSS != "/assets/h5p.css" {
		t.Errorf("unexpected host config %+v", h)
	}
	if h.LoadTimeout != time.Minute {
		t.Errorf("LoadTimeout = %v", h.LoadTimeout)
	}

	want := logging.Options{Level: "warn", File: "/tmp/h5play.log", Development: true}
	if got := cfg.Logging(); got != want {
		t.Errorf("Logging() = %+v, want %+v", got, want)
	}
}
