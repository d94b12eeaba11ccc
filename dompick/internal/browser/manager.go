// Package browser manages the Chrome instance the picker runs in: launch a
// local Chrome (optionally headful on an Xvfb display) or connect to a
// remote one, open stealth tabs and shut everything down.
package browser

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// Config configures the browser manager.
type Config struct {
	// RemoteURL is the WebSocket URL of an external Chrome instance.
	// Empty = launch a local Chrome via launcher.
	RemoteURL string

	// Headless hides the browser window. The picker is interactive, so the
	// default is a visible window.
	Headless bool

	// Xvfb starts a virtual display for the headful browser.
	Xvfb bool

	// XvfbDisplay for Xvfb mode. Default: ":99".
	XvfbDisplay string

	// XvfbScreen is the virtual screen geometry; the Chrome window is sized
	// to match. Default: "1280x800x24".
	XvfbScreen string

	// ResourceBlocking lists resource types to block (images, fonts, media, stylesheets).
	ResourceBlocking []string

	// NavTimeout bounds page navigation. Default: 30s.
	NavTimeout time.Duration

	Logger *slog.Logger
}

func (c *Config) defaults() {
	if c.XvfbDisplay == "" {
		c.XvfbDisplay = ":99"
	}
	if c.XvfbScreen == "" {
		c.XvfbScreen = "1280x800x24"
	}
	if c.NavTimeout <= 0 {
		c.NavTimeout = 30 * time.Second
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Manager manages Chrome lifecycle.
type Manager struct {
	cfg     Config
	mu      sync.RWMutex
	browser *rod.Browser
	lnch    *launcher.Launcher
	xvfb    *exec.Cmd
	closed  bool
}

// NewManager creates a browser Manager. Call Start to launch Chrome.
func NewManager(cfg Config) *Manager {
	cfg.defaults()
	return &Manager{cfg: cfg}
}

// Start launches Chrome (or connects to a remote instance) and returns
// the Rod browser handle.
func (m *Manager) Start(ctx context.Context) (*rod.Browser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, fmt.Errorf("browser: manager is closed")
	}
	if m.browser != nil {
		return m.browser, nil
	}

	b, err := m.launch(ctx)
	if err != nil {
		m.cleanup()
		return nil, err
	}
	m.browser = b
	return b, nil
}

// Browser returns the current Rod browser handle. Thread-safe.
func (m *Manager) Browser() *rod.Browser {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.browser
}

// OpenPage opens pageURL in a plain new tab and leaves it to the user.
func (m *Manager) OpenPage(ctx context.Context, pageURL string) error {
	b := m.Browser()
	if b == nil {
		return fmt.Errorf("browser: no active browser")
	}
	if _, err := b.Context(ctx).Page(proto.TargetCreateTarget{URL: pageURL}); err != nil {
		return fmt.Errorf("browser: open %s: %w", pageURL, err)
	}
	m.cfg.Logger.Info("browser: opened page", "url", pageURL)
	return nil
}

// Close shuts down Chrome and Xvfb.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return m.cleanup()
}

func (m *Manager) launch(ctx context.Context) (*rod.Browser, error) {
	log := m.cfg.Logger

	if m.cfg.Xvfb && !m.cfg.Headless && m.cfg.RemoteURL == "" {
		if err := m.startXvfb(ctx); err != nil {
			return nil, fmt.Errorf("browser: xvfb: %w", err)
		}
	}

	var wsURL string

	if m.cfg.RemoteURL != "" {
		wsURL = m.cfg.RemoteURL
		log.Info("browser: connecting to remote", "url", wsURL)
	} else {
		l := launcher.New().Context(ctx)

		if m.cfg.Headless {
			l = l.Headless(true)
		} else {
			l = l.Headless(false)
			if m.cfg.Xvfb {
				size, err := windowSize(m.cfg.XvfbScreen)
				if err != nil {
					return nil, fmt.Errorf("browser: xvfb: %w", err)
				}
				l = l.Env(append(os.Environ(), "DISPLAY="+m.cfg.XvfbDisplay)...).
					Set("window-size", size).
					Set("window-position", "0,0")
			}
		}

		// Anti-detection flags.
		l = l.Set("disable-blink-features", "AutomationControlled")

		u, err := l.Launch()
		if err != nil {
			return nil, fmt.Errorf("browser: launch: %w", err)
		}
		wsURL = u
		m.lnch = l
		log.Info("browser: launched local chrome", "url", wsURL, "headless", m.cfg.Headless)
	}

	b := rod.New().ControlURL(wsURL)
	if err := b.Connect(); err != nil {
		return nil, fmt.Errorf("browser: connect: %w", err)
	}
	return b, nil
}

func (m *Manager) cleanup() error {
	if m.browser != nil {
		if err := m.browser.Close(); err != nil {
			m.cfg.Logger.Debug("browser: close", "error", err)
		}
		m.browser = nil
	}
	if m.lnch != nil {
		m.lnch.Cleanup()
		m.lnch = nil
	}
	m.stopXvfb()
	return nil
}
