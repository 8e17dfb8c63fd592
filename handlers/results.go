// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/danielhkuo/quickpoll/render"
	"github.com/danielhkuo/quickpoll/views"
)

const DefaultWatchInterval = 5 * time.Second

type ResultsHandler struct {
	env Env
}

func NewResultsHandler(env Env) *ResultsHandler {
	return &ResultsHandler{env: env}
}

// Watch handles `quickpoll watch [-interval d] [-count n] <poll>`
// It redraws the poll and its results every interval until the context is
// cancelled or n refreshes have been shown. With -metrics-addr set, client
// metrics are served at /metrics while it runs.
func (h *ResultsHandler) Watch(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("watch", flag.ContinueOnError)
	interval := fs.Duration("interval", DefaultWatchInterval, "time between refreshes")
	count := fs.Int("count", 0, "stop after this many refreshes (0 = until interrupted)")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return usagef("watch [-interval d] [-count n] <poll>")
	}
	if *interval <= 0 {
		return usagef("interval must be positive")
	}
	id, err := parseID("poll", fs.Arg(0))
	if err != nil {
		return err
	}

	if h.env.Cfg.MetricsAddr != "" && h.env.Metrics != nil {
		_, stop, err := h.serveMetrics(h.env.Cfg.MetricsAddr)
		if err != nil {
			return err
		}
		defer func() {
			if err := stop(); err != nil {
				slog.Error("metrics server shutdown failed", "error", err)
			}
		}()
	}

	detail := views.NewPollDetail(h.env.deps(), id)
	defer detail.Close()

	redraw := render.IsTerminal(h.env.Out)
	refresh := func() error {
		if err := detail.Load(ctx); err != nil {
			return err
		}
		if redraw {
			fmt.Fprint(h.env.Out, "\033[H\033[2J")
		}
		showDetail(h.env, detail)
		fmt.Fprintf(h.env.Out, "\nUpdated %s. Ctrl-C to stop.\n", h.env.now().Format(time.TimeOnly))
		return nil
	}

	if err := refresh(); err != nil {
		return ignoreCancel(ctx, err)
	}
	shown := 1

	ticker := time.NewTicker(*interval)
	defer ticker.Stop()

	for *count == 0 || shown < *count {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
		if err := refresh(); err != nil {
			return ignoreCancel(ctx, err)
		}
		shown++
	}
	return nil
}

// serveMetrics exposes client metrics until the returned stop func is called.
// It returns the address actually bound.
func (h *ResultsHandler) serveMetrics(addr string) (string, func() error, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return "", nil, fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	mux := http.NewServeMux()
	mux.Handle("GET /metrics", h.env.Metrics.Handler())
	server := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("metrics server failed", "error", err)
		}
	}()
	slog.Info("serving metrics", "addr", ln.Addr().String())

	return ln.Addr().String(), func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			return fmt.Errorf("failed to stop metrics server: %w", err)
		}
		return nil
	}, nil
}
