package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/danielhkuo/quickpoll/apiclient"
	"github.com/danielhkuo/quickpoll/cliparse"
	"github.com/danielhkuo/quickpoll/db"
	"github.com/danielhkuo/quickpoll/handlers"
	"github.com/danielhkuo/quickpoll/metrics"
	"github.com/danielhkuo/quickpoll/render"
	"github.com/danielhkuo/quickpoll/router"
	"github.com/danielhkuo/quickpoll/session"
	"github.com/danielhkuo/quickpoll/views"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	// Parse configuration
	cfg, err := cliparse.ParseFlags(args)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		return 2
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel})))

	// Ctrl-C cancels whatever is in flight
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Open the session store
	conn, err := db.Open(ctx, cfg.StoreType, cfg.StoreURL)
	if err != nil {
		slog.Error("session store unavailable", "error", err)
		return 1
	}
	defer conn.Close()

	persisted := session.NewPersisted(db.NewLocalStorage(conn))
	clientMetrics := metrics.NewClientMetrics("quickpoll")

	// The client needs the store and router for its 401 hook, and they need the client
	var store *session.Store
	var rt *router.Router
	client := apiclient.New(cfg.APIURL,
		apiclient.WithTimeout(cfg.Timeout),
		apiclient.WithTokenStore(persisted),
		apiclient.WithMetrics(clientMetrics),
		apiclient.OnUnauthorized(func(ctx context.Context) {
			store.Expire(ctx)
			rt.Navigate(views.RouteLogin)
		}),
	)
	store = session.NewStore(persisted, client)
	if err := store.Restore(ctx); err != nil {
		slog.Error("failed to restore session", "error", err)
		return 1
	}

	rt = router.NewRouter(handlers.Env{
		Cfg:     cfg,
		API:     client,
		Session: store,
		Metrics: clientMetrics,
		Out:     os.Stdout,
		Toast:   render.NewToaster(os.Stdout),
		Prompt:  render.NewPrompter(os.Stdin, os.Stdout, cfg.AssumeYes),
		Spinner: render.NewSpinner(os.Stderr),
	})

	if cfg.Command == "" || cfg.Command == "help" {
		rt.Usage(os.Stdout)
		return 0
	}

	err = rt.Dispatch(ctx, cfg.Command, cfg.Args)
	switch {
	case err == nil:
		return 0
	case errors.Is(err, router.ErrUnknownCommand):
		fmt.Fprintln(os.Stderr, err)
		rt.Usage(os.Stderr)
		return 2
	case errors.Is(err, handlers.ErrUsage):
		fmt.Fprintln(os.Stderr, err)
		return 2
	case errors.Is(err, router.ErrLoginRequired), errors.Is(err, router.ErrSessionExpired):
		slog.Info("not signed in", "error", err)
		return 1
	case ctx.Err() != nil:
		slog.Info("interrupted", "command", cfg.Command)
		return 130
	}

	slog.Error("command failed", "command", cfg.Command, "error", err)
	return 1
}
