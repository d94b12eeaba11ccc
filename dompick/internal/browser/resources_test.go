package browser

import "testing"

func TestShouldBlock(t *testing.T) {
	set := map[string]bool{"images": true, "stylesheets": true, "websocket": true}

	cases := []struct {
		resType string
		want    bool
	}{
		{"Image", true},
		{"Stylesheet", true},
		{"Font", false},
		{"Media", false},
		{"WebSocket", true},
		{"Document", false},
		{"Script", false},
	}
	for _, tc := range cases {
		if got := shouldBlock(set, tc.resType); got != tc.want {
			t.Errorf("shouldBlock(%q): got %v, want %v", tc.resType, got, tc.want)
		}
	}
}

func TestConfigDefaults(t *testing.T) {
	m := NewManager(Config{})
	if m.cfg.XvfbDisplay != ":99" {
		t.Errorf("display: got %q, want %q", m.cfg.XvfbDisplay, ":99")
	}
	if m.cfg.XvfbScreen != "1280x800x24" {
		t.Errorf("screen: got %q, want %q", m.cfg.XvfbScreen, "1280x800x24")
	}
	if m.cfg.NavTimeout <= 0 {
		t.Error("nav timeout not defaulted")
	}
	if m.cfg.Logger == nil {
		t.Error("logger not defaulted")
	}
	if m.Browser() != nil {
		t.Error("browser set before Start")
	}
	if err := m.OpenPage(t.Context(), "http://127.0.0.1/"); err == nil {
		t.Error("OpenPage without browser: expected error")
	}
}

func TestStart_Closed(t *testing.T) {
	m := NewManager(Config{})
	if err := m.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if _, err := m.Start(t.Context()); err == nil {
		t.Error("Start after Close: expected error")
	}
}
