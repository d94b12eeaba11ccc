// Package fetch downloads pages for offline selector synthesis. Only public
// http(s) targets are allowed and bodies are capped.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/hazyhaar/pkg/horosafe"
)

// MaxBody caps downloaded pages (10 MiB).
const MaxBody int64 = 10 << 20

var (
	// ErrSSRF is returned when a URL targets a private or loopback address.
	ErrSSRF = horosafe.ErrSSRF
	// ErrUnsafeScheme is returned for schemes other than http and https.
	ErrUnsafeScheme = horosafe.ErrUnsafeScheme
)

// Page is a fetched document.
type Page struct {
	URL        string
	StatusCode int
	HTML       []byte
}

// Fetcher performs guarded HTTP GETs.
type Fetcher struct {
	client   *http.Client
	ua       string
	logger   *slog.Logger
	validate func(string) error
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithClient sets a custom HTTP client.
func WithClient(c *http.Client) Option {
	return func(f *Fetcher) { f.client = c }
}

// WithTimeout sets the client timeout. Default: 30s.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		if d > 0 {
			f.client.Timeout = d
		}
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) { f.ua = ua }
}

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) Option {
	return func(f *Fetcher) {
		if l != nil {
			f.logger = l
		}
	}
}

// WithURLValidator overrides the URL check (default: horosafe.ValidateURL).
func WithURLValidator(fn func(string) error) Option {
	return func(f *Fetcher) { f.validate = fn }
}

// WithAllowPrivate keeps the scheme and host checks but lets private and
// loopback targets through. Tests use it to reach httptest servers.
func WithAllowPrivate() Option {
	return WithURLValidator(allowPrivate)
}

func allowPrivate(rawURL string) error {
	if err := horosafe.ValidateURL(rawURL); err != nil && !errors.Is(err, horosafe.ErrSSRF) {
		return err
	}
	return nil
}

// New creates a Fetcher.
func New(opts ...Option) *Fetcher {
	f := &Fetcher{
		client:   &http.Client{Timeout: 30 * time.Second},
		ua:       "Mozilla/5.0 (compatible; elpick/1.0)",
		logger:   slog.Default(),
		validate: horosafe.ValidateURL,
	}
	for _, o := range opts {
		o(f)
	}
	return f
}

// Fetch GETs pageURL and returns its body.
func (f *Fetcher) Fetch(ctx context.Context, pageURL string) (*Page, error) {
	if err := f.validate(pageURL); err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch: new request: %w", err)
	}
	req.Header.Set("User-Agent", f.ua)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: do: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetch: %s: status %d", pageURL, resp.StatusCode)
	}

	body, err := horosafe.LimitedReadAll(resp.Body, MaxBody)
	if err != nil {
		return nil, fmt.Errorf("fetch: read body: %w", err)
	}

	f.logger.Debug("fetch: fetched", "url", pageURL, "status", resp.StatusCode, "size", len(body))
	return &Page{URL: resp.Request.URL.String(), StatusCode: resp.StatusCode, HTML: body}, nil
}
