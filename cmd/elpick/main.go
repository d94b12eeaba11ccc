// Command elpick picks elements on web pages and turns them into cosmetic
// filters.
//
// Usage:
//
//	elpick -pick https://example.com/                   # live picker in Chrome
//	elpick -url https://example.com/ -target '.ad'      # offline synthesis
//	elpick -html page.html -target '#box > div' -level 2
//	elpick -serve                                       # management UI + API
//	elpick -serve -mcp                                  # ... plus MCP on stdio
//	elpick -export                                      # print host##selector rules
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hazyhaar/elpick/dompick"
	"github.com/hazyhaar/elpick/filterkeeper"
)

type options struct {
	configPath string
	pickURL    string
	pageURL    string
	htmlFile   string
	target     string
	level      int
	serve      bool
	mcp        bool
	export     bool
	host       string
}

func main() {
	var o options
	flag.StringVar(&o.configPath, "config", "", "path to elpick.yaml config file")
	flag.StringVar(&o.pickURL, "pick", "", "open URL in Chrome and run the element picker")
	flag.StringVar(&o.pageURL, "url", "", "fetch URL for offline synthesis (with -target)")
	flag.StringVar(&o.htmlFile, "html", "", "HTML file for offline synthesis (with -target)")
	flag.StringVar(&o.target, "target", "", "CSS selector of the element to synthesize for")
	flag.IntVar(&o.level, "level", 0, "specificity level 1..4 (default 4)")
	flag.BoolVar(&o.serve, "serve", false, "serve the filter management UI and API")
	flag.BoolVar(&o.mcp, "mcp", false, "with -serve, also serve MCP tools on stdio")
	flag.BoolVar(&o.export, "export", false, "print enabled filters as host##selector lines")
	flag.StringVar(&o.host, "host", "", "with -export, only this host")
	logLevel := flag.String("log-level", "info", "log level: debug, info, warn, error")
	flag.Parse()

	var level slog.Level
	switch *logLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, logger, o); err != nil {
		logger.Error("elpick: fatal", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger, o options) error {
	cfg := dompick.DefaultConfig()
	if o.configPath != "" {
		c, err := dompick.LoadConfigFile(o.configPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c
	}

	switch {
	case o.target != "":
		return runSynthesize(ctx, logger, cfg, o)
	case o.pickURL != "":
		return runPick(ctx, logger, cfg, o.pickURL)
	case o.serve:
		return runServe(ctx, logger, cfg, o.mcp)
	case o.export:
		return runExport(ctx, logger, cfg, o.host)
	}

	fmt.Fprintln(os.Stderr, "usage: elpick -pick <url> | -url <url> -target <sel> | -html <file> -target <sel> | -serve [-mcp] | -export")
	os.Exit(2)
	return nil
}

func openKeeper(logger *slog.Logger, cfg *dompick.Config) (*filterkeeper.Keeper, error) {
	k, err := filterkeeper.New(&cfg.Keeper, logger)
	if err != nil {
		return nil, fmt.Errorf("open filter keeper: %w", err)
	}
	return k, nil
}

func runSynthesize(ctx context.Context, logger *slog.Logger, cfg *dompick.Config, o options) error {
	req := filterkeeper.SynthesizeRequest{URL: o.pageURL, Target: o.target, Level: o.level}
	if o.htmlFile != "" {
		data, err := os.ReadFile(o.htmlFile)
		if err != nil {
			return err
		}
		req.HTML = string(data)
	}

	k, err := openKeeper(logger, cfg)
	if err != nil {
		return err
	}
	defer k.Close()

	res, err := k.Synthesize(ctx, req)
	if err != nil {
		return fmt.Errorf("synthesize: %w", err)
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(res)
}

func runPick(ctx context.Context, logger *slog.Logger, cfg *dompick.Config, pageURL string) error {
	k, err := openKeeper(logger, cfg)
	if err != nil {
		return err
	}
	defer k.Close()

	// The management page opened from the picker needs the API up.
	srvCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		if err := k.Serve(srvCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Warn("elpick: management server", "error", err)
		}
	}()

	err = dompick.New(cfg, k, logger).Pick(ctx, pageURL)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func runServe(ctx context.Context, logger *slog.Logger, cfg *dompick.Config, withMCP bool) error {
	k, err := openKeeper(logger, cfg)
	if err != nil {
		return err
	}
	defer k.Close()

	if withMCP {
		srv := mcp.NewServer(&mcp.Implementation{Name: "elpick", Version: "1.0.0"}, nil)
		k.RegisterMCP(srv)
		go func() {
			if err := srv.Run(ctx, &mcp.StdioTransport{}); err != nil && ctx.Err() == nil {
				logger.Error("elpick: mcp stdio", "error", err)
			}
		}()
		logger.Info("elpick: mcp tools on stdio")
	}

	if err := k.Serve(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func runExport(ctx context.Context, logger *slog.Logger, cfg *dompick.Config, host string) error {
	k, err := openKeeper(logger, cfg)
	if err != nil {
		return err
	}
	defer k.Close()

	rules, err := k.Export(ctx, host)
	if err != nil {
		return err
	}
	for _, r := range rules {
		fmt.Println(r)
	}
	return nil
}
