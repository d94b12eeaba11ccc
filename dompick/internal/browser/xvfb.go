package browser

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// x11SocketDir holds the X server sockets, one X<n> per display.
var x11SocketDir = "/tmp/.X11-unix"

// xvfbReadyTimeout bounds the wait for a fresh Xvfb socket.
const xvfbReadyTimeout = 5 * time.Second

// displaySocket returns the socket path of an X display such as ":99" or
// ":99.0".
func displaySocket(display string) (string, error) {
	num, ok := strings.CutPrefix(display, ":")
	if !ok {
		return "", fmt.Errorf("display %q: want :<n>", display)
	}
	num, _, _ = strings.Cut(num, ".")
	if _, err := strconv.Atoi(num); err != nil {
		return "", fmt.Errorf("display %q: want :<n>", display)
	}
	return filepath.Join(x11SocketDir, "X"+num), nil
}

// windowSize turns an Xvfb screen geometry (1280x800x24) into Chrome's
// window-size value (1280,800).
func windowSize(screen string) (string, error) {
	parts := strings.Split(screen, "x")
	if len(parts) < 2 {
		return "", fmt.Errorf("screen %q: want WxH[xD]", screen)
	}
	for _, p := range parts {
		if _, err := strconv.Atoi(p); err != nil {
			return "", fmt.Errorf("screen %q: want WxH[xD]", screen)
		}
	}
	return parts[0] + "," + parts[1], nil
}

// startXvfb makes the configured display available. A display whose socket
// already exists belongs to another X server and is reused as is.
func (m *Manager) startXvfb(ctx context.Context) error {
	if m.xvfb != nil {
		return nil
	}
	display := m.cfg.XvfbDisplay
	sock, err := displaySocket(display)
	if err != nil {
		return err
	}
	if _, err := os.Stat(sock); err == nil {
		m.cfg.Logger.Info("browser: reusing x display", "display", display)
		return nil
	}

	cmd := exec.Command("Xvfb", display, "-screen", "0", m.cfg.XvfbScreen, "-ac", "-nolisten", "tcp")
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start xvfb: %w", err)
	}
	m.xvfb = cmd

	if err := waitForSocket(ctx, sock, xvfbReadyTimeout); err != nil {
		m.stopXvfb()
		return fmt.Errorf("xvfb %s: %w", display, err)
	}
	m.cfg.Logger.Info("browser: xvfb started", "display", display, "screen", m.cfg.XvfbScreen, "pid", cmd.Process.Pid)
	return nil
}

// waitForSocket polls until path exists, ctx is done or timeout elapses.
func waitForSocket(ctx context.Context, path string, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	tick := time.NewTicker(50 * time.Millisecond)
	defer tick.Stop()
	for {
		if _, err := os.Stat(path); err == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("socket %s not ready: %w", path, ctx.Err())
		case <-tick.C:
		}
	}
}

// stopXvfb kills the Xvfb process this manager started, if any.
func (m *Manager) stopXvfb() {
	if m.xvfb == nil {
		return
	}
	if m.xvfb.Process != nil {
		m.xvfb.Process.Kill()
		m.xvfb.Wait()
	}
	m.cfg.Logger.Info("browser: xvfb stopped")
	m.xvfb = nil
}
