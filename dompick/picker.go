// Package dompick runs the element picker on a live page: it opens the page
// in a stealth Chrome tab, injects the overlay and drives a picker.Session
// until the user creates a filter or quits.
//
// Usage:
//
//	p := dompick.New(cfg, keeper, logger)
//	err := p.Pick(ctx, "https://example.com/")
package dompick

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hazyhaar/elpick/dompick/internal/browser"
	"github.com/hazyhaar/elpick/dompick/internal/overlay"
	"github.com/hazyhaar/elpick/filterkeeper"
	"github.com/hazyhaar/elpick/hostbridge"
	"github.com/hazyhaar/elpick/picker"
)

// Picker opens pages and runs picker sessions on them.
type Picker struct {
	cfg    *Config
	keeper *filterkeeper.Keeper
	logger *slog.Logger
}

// New creates a Picker. Created filters go to keeper; a nil keeper leaves
// the picker usable but filter creation fails and is logged.
func New(cfg *Config, keeper *filterkeeper.Keeper, logger *slog.Logger) *Picker {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Picker{cfg: cfg, keeper: keeper, logger: logger}
}

// Pick opens pageURL and runs one picker session on it. It returns nil when
// the session ends (filter created, quit, Escape) and ctx.Err() when ctx is
// cancelled first.
func (p *Picker) Pick(ctx context.Context, pageURL string) error {
	bc := p.cfg.Picker.Browser
	mgr := browser.NewManager(browser.Config{
		RemoteURL:        bc.Remote,
		Headless:         bc.Headless,
		Xvfb:             bc.Xvfb,
		XvfbDisplay:      bc.XvfbDisplay,
		XvfbScreen:       bc.XvfbScreen,
		ResourceBlocking: bc.ResourceBlocking,
		NavTimeout:       bc.NavTimeout,
		Logger:           p.logger,
	})
	defer mgr.Close()

	if _, err := mgr.Start(ctx); err != nil {
		return err
	}
	tab, err := browser.OpenTab(ctx, mgr, pageURL)
	if err != nil {
		return err
	}
	defer tab.Close()

	var sink hostbridge.FilterSink
	opts := []hostbridge.Option{hostbridge.WithLogger(p.logger)}
	if p.keeper != nil {
		sink = p.keeper
		manageURL := p.keeper.ManageURL()
		opts = append(opts, hostbridge.WithManage(func(ctx context.Context) error {
			return mgr.OpenPage(ctx, manageURL)
		}))
	}
	bridge, err := hostbridge.New(pageURL, sink, p.cfg.Picker.Host, opts...)
	if err != nil {
		return err
	}

	ov := overlay.New(tab.Page, p.logger)
	events, err := ov.Listen(ctx)
	if err != nil {
		return err
	}

	s := picker.NewSession(overlay.NewDocument(tab.Page, p.logger), ov, bridge,
		picker.WithLogger(p.logger),
		picker.WithConfig(p.cfg.Picker.Session()),
	)
	if err := s.Attach(ctx); err != nil {
		ov.Detach()
		return fmt.Errorf("dompick: attach: %w", err)
	}
	p.logger.Info("dompick: picker attached", "url", pageURL, "host", bridge.Host())

	err = picker.Run(ctx, s, events)
	if errors.Is(err, context.Canceled) {
		p.logger.Info("dompick: picker cancelled", "url", pageURL)
	}
	return err
}
