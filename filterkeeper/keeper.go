// Package filterkeeper stores the cosmetic filters created with the picker
// and serves them over HTTP and MCP, along with offline selector synthesis
// for pages fetched or pasted as HTML.
//
// Usage:
//
//	k, err := filterkeeper.New(cfg, logger)
//	defer k.Close()
//	k.RegisterMCP(mcpServer)
//	go k.Serve(ctx)
package filterkeeper

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/hazyhaar/elpick/dom/htmldoc"
	"github.com/hazyhaar/elpick/filterkeeper/internal/fetch"
	"github.com/hazyhaar/elpick/filterkeeper/internal/store"
)

var (
	// ErrInvalidSelector is returned for empty or unparsable selectors.
	ErrInvalidSelector = errors.New("filterkeeper: invalid selector")
	// ErrInvalidHost is returned for empty or malformed hosts.
	ErrInvalidHost = errors.New("filterkeeper: invalid host")
	// ErrNotFound is returned for unknown filter ids.
	ErrNotFound = store.ErrNotFound
)

// Filter is a stored cosmetic filter.
type Filter = store.Filter

// Keeper owns the filter store.
type Keeper struct {
	store   *store.Store
	fetcher *fetch.Fetcher
	logger  *slog.Logger
	config  *Config
}

// New opens the database and creates a Keeper.
func New(cfg *Config, logger *slog.Logger) (*Keeper, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	cfg.defaults()
	if logger == nil {
		logger = slog.Default()
	}

	s, err := store.Open(cfg.DBPath)
	if err != nil {
		return nil, err
	}
	return newKeeper(s, cfg, logger), nil
}

func newKeeper(s *store.Store, cfg *Config, logger *slog.Logger) *Keeper {
	opts := []fetch.Option{fetch.WithLogger(logger), fetch.WithTimeout(cfg.FetchTimeout)}
	if cfg.AllowPrivateFetch {
		opts = append(opts, fetch.WithAllowPrivate())
	}
	return &Keeper{
		store:   s,
		fetcher: fetch.New(opts...),
		logger:  logger,
		config:  cfg,
	}
}

// Close closes the database.
func (k *Keeper) Close() error {
	return k.store.Close()
}

// AddFilter validates and stores a filter. Adding an existing filter
// returns the stored one.
func (k *Keeper) AddFilter(ctx context.Context, host, selector string) (*Filter, error) {
	host, err := NormalizeHost(host)
	if err != nil {
		return nil, err
	}
	selector, err = ValidateSelector(selector)
	if err != nil {
		return nil, err
	}
	f, err := k.store.InsertFilter(ctx, host, selector)
	if err != nil {
		return nil, err
	}
	k.logger.Info("filterkeeper: filter stored", "id", f.ID, "host", host, "selector", selector)
	return f, nil
}

// CreateFilter stores a filter, discarding the result. It lets the keeper
// act as the picker host's filter sink.
func (k *Keeper) CreateFilter(ctx context.Context, host, selector string) error {
	_, err := k.AddFilter(ctx, host, selector)
	return err
}

// ListFilters returns the filters for host, or for every host when empty.
func (k *Keeper) ListFilters(ctx context.Context, host string) ([]*Filter, error) {
	if host != "" {
		h, err := NormalizeHost(host)
		if err != nil {
			return nil, err
		}
		host = h
	}
	return k.store.ListFilters(ctx, host, false)
}

// GetFilter returns one filter.
func (k *Keeper) GetFilter(ctx context.Context, id string) (*Filter, error) {
	return k.store.GetFilter(ctx, id)
}

// SetEnabled enables or disables a filter.
func (k *Keeper) SetEnabled(ctx context.Context, id string, enabled bool) error {
	return k.store.SetEnabled(ctx, id, enabled)
}

// DeleteFilter removes a filter.
func (k *Keeper) DeleteFilter(ctx context.Context, id string) error {
	if err := k.store.DeleteFilter(ctx, id); err != nil {
		return err
	}
	k.logger.Info("filterkeeper: filter deleted", "id", id)
	return nil
}

// Export returns the enabled filters as host##selector lines.
func (k *Keeper) Export(ctx context.Context, host string) ([]string, error) {
	if host != "" {
		h, err := NormalizeHost(host)
		if err != nil {
			return nil, err
		}
		host = h
	}
	return k.store.ExportRules(ctx, host)
}

// ValidateSelector trims selector and checks that it parses.
func ValidateSelector(selector string) (string, error) {
	selector = strings.TrimSpace(selector)
	if selector == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidSelector)
	}
	if _, err := htmldoc.Compile(selector); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidSelector, err)
	}
	return selector, nil
}

// NormalizeHost lower-cases host and checks it is a plain host name,
// optionally with a port.
func NormalizeHost(host string) (string, error) {
	host = strings.ToLower(strings.TrimSpace(host))
	if host == "" || len(host) > 253 {
		return "", fmt.Errorf("%w: %q", ErrInvalidHost, host)
	}
	for _, r := range host {
		ok := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') ||
			r == '.' || r == '-' || r == ':' || r == '_' || r == '[' || r == ']'
		if !ok {
			return "", fmt.Errorf("%w: %q", ErrInvalidHost, host)
		}
	}
	return host, nil
}
