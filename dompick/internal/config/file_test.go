package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "elpick.yaml")
	data := `
picker:
  browser:
    headless: true
    resource_blocking: [images, fonts]
  debounce: 250ms
  default_level: 2
  theme:
    dark_mode: true
    bgcolor: 0x202124
  locale: fr
  platform: android
keeper:
  db_path: /tmp/filters.db
  listen: 127.0.0.1:9999
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	p := cfg.Picker
	if !p.Browser.Headless || len(p.Browser.ResourceBlocking) != 2 {
		t.Errorf("browser: got %+v", p.Browser)
	}
	if p.Debounce != 250*time.Millisecond {
		t.Errorf("debounce: got %v", p.Debounce)
	}
	if p.FrameInterval != 16*time.Millisecond {
		t.Errorf("frame interval default: got %v", p.FrameInterval)
	}
	if p.DefaultLevel != 2 {
		t.Errorf("level: got %d, want 2", p.DefaultLevel)
	}
	if !p.Host.Theme.IsDarkModeEnabled || p.Host.Theme.BGColor != 0x202124 {
		t.Errorf("theme: got %+v", p.Host.Theme)
	}
	if p.Host.Locale != "fr" || p.Host.Platform != "android" {
		t.Errorf("host: got %+v", p.Host)
	}
	if cfg.Keeper.DBPath != "/tmp/filters.db" || cfg.Keeper.Listen != "127.0.0.1:9999" {
		t.Errorf("keeper: got %+v", cfg.Keeper)
	}

	s := p.Session()
	if s.Debounce != 250*time.Millisecond || s.DefaultLevel != 2 {
		t.Errorf("session: got %+v", s)
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	p := cfg.Picker
	if p.Browser.XvfbDisplay != ":99" {
		t.Errorf("xvfb display: got %q, want %q", p.Browser.XvfbDisplay, ":99")
	}
	if p.Browser.NavTimeout != 30*time.Second {
		t.Errorf("nav timeout: got %v", p.Browser.NavTimeout)
	}
	if p.Debounce != 700*time.Millisecond {
		t.Errorf("debounce: got %v", p.Debounce)
	}
	if p.DefaultLevel != 4 {
		t.Errorf("level: got %d, want 4", p.DefaultLevel)
	}
	if p.Host.Theme.BGColor != 0xffffff {
		t.Errorf("bgcolor: got %#x", p.Host.Theme.BGColor)
	}
	if p.Host.Locale != "en" {
		t.Errorf("locale: got %q", p.Host.Locale)
	}
}

func TestLoadFile_ClampsLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "elpick.yaml")
	if err := os.WriteFile(path, []byte("picker:\n  default_level: 12\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Picker.DefaultLevel != 4 {
		t.Errorf("got %d, want 4", cfg.Picker.DefaultLevel)
	}
}
