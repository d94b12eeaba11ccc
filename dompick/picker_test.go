package dompick

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNew_Defaults(t *testing.T) {
	p := New(nil, nil, nil)
	if p.cfg == nil || p.logger == nil {
		t.Fatal("defaults not applied")
	}
	if p.cfg.Picker.DefaultLevel != 4 {
		t.Errorf("level: got %d, want 4", p.cfg.Picker.DefaultLevel)
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "elpick.yaml")
	if err := os.WriteFile(path, []byte("picker:\n  locale: fr\nkeeper:\n  listen: 127.0.0.1:9000\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadConfigFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Picker.Host.Locale != "fr" {
		t.Errorf("locale: got %q, want %q", cfg.Picker.Host.Locale, "fr")
	}
	if cfg.Keeper.Listen != "127.0.0.1:9000" {
		t.Errorf("listen: got %q", cfg.Keeper.Listen)
	}
	if _, err := LoadConfigFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("missing file: expected error")
	}
}

func TestPick_UnreachableRemote(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Picker.Browser.Remote = "ws://127.0.0.1:1/devtools/browser/none"

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := New(cfg, nil, nil).Pick(ctx, "https://example.com/"); err == nil {
		t.Fatal("expected connect error")
	}
}
