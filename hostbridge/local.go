// Package hostbridge implements the picker's HostBridge for a standalone
// host: filters go to a FilterSink scoped to the picked page's host, labels
// come from bundled locales and the theme from configuration.
package hostbridge

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"runtime"
	"strings"

	"github.com/hazyhaar/elpick/picker"
)

// ErrNoSink is returned when a filter is created without a sink.
var ErrNoSink = errors.New("hostbridge: no filter sink configured")

// FilterSink persists created filters.
type FilterSink interface {
	CreateFilter(ctx context.Context, host, selector string) error
}

// Config describes the host side.
type Config struct {
	Theme      picker.ThemeInfo `yaml:"theme"`
	Locale     string           `yaml:"locale"`
	LocaleFile string           `yaml:"locale_file"`
	Platform   string           `yaml:"platform"`
}

func (c *Config) defaults() {
	if c.Locale == "" {
		c.Locale = DefaultLocale
	}
	if c.Platform == "" {
		c.Platform = runtime.GOOS
	}
}

// Local is a HostBridge backed by a FilterSink.
type Local struct {
	host   string
	sink   FilterSink
	manage func(ctx context.Context) error
	cfg    Config
	texts  picker.Texts
	logger *slog.Logger
}

var _ picker.HostBridge = (*Local)(nil)

// Option configures a Local bridge.
type Option func(*Local)

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(b *Local) {
		if l != nil {
			b.logger = l
		}
	}
}

// WithManage sets the callback opening the filter management UI.
func WithManage(fn func(ctx context.Context) error) Option {
	return func(b *Local) { b.manage = fn }
}

// New creates a bridge for the page at pageURL.
func New(pageURL string, sink FilterSink, cfg Config, opts ...Option) (*Local, error) {
	cfg.defaults()
	host, err := HostOf(pageURL)
	if err != nil {
		return nil, err
	}
	texts, err := LoadTexts(cfg.Locale, cfg.LocaleFile)
	if err != nil {
		return nil, err
	}
	b := &Local{
		host:   host,
		sink:   sink,
		cfg:    cfg,
		texts:  texts,
		logger: slog.Default(),
	}
	for _, o := range opts {
		o(b)
	}
	return b, nil
}

// Host returns the site the bridge creates filters for.
func (b *Local) Host() string { return b.host }

func (b *Local) CosmeticFilterCreate(ctx context.Context, selector string) error {
	if b.sink == nil {
		return ErrNoSink
	}
	if err := b.sink.CreateFilter(ctx, b.host, selector); err != nil {
		return fmt.Errorf("hostbridge: create filter: %w", err)
	}
	b.logger.Info("hostbridge: filter created", "host", b.host, "selector", selector)
	return nil
}

func (b *Local) CosmeticFilterManage(ctx context.Context) error {
	if b.manage == nil {
		b.logger.Info("hostbridge: filter management not configured")
		return nil
	}
	return b.manage(ctx)
}

func (b *Local) ElementPickerThemeInfo(context.Context) (picker.ThemeInfo, error) {
	t := b.cfg.Theme
	t.BGColor &= 0xffffff
	return t, nil
}

func (b *Local) LocalizedTexts(context.Context) (picker.Texts, error) {
	return b.texts, nil
}

func (b *Local) Platform() string { return b.cfg.Platform }

// HostOf returns the lower-case host name of an http(s) URL.
func HostOf(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("hostbridge: parse url: %w", err)
	}
	host := strings.ToLower(u.Hostname())
	if host == "" {
		return "", fmt.Errorf("hostbridge: url %q has no host", rawURL)
	}
	return host, nil
}
