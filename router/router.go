// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"sync"

	"github.com/danielhkuo/quickpoll/apiclient"
	"github.com/danielhkuo/quickpoll/handlers"
	"github.com/danielhkuo/quickpoll/views"
)

var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrLoginRequired  = errors.New("login required")
	ErrSessionExpired = errors.New("session expired")
)

// HandlerFunc runs one command
type HandlerFunc func(ctx context.Context, args []string) error

type route struct {
	handler   HandlerFunc
	protected bool
	usage     string
}

// Router dispatches commands and follows navigation requests from views
type Router struct {
	routes  map[string]route
	session interface{ IsAuthenticated() bool }
	out     io.Writer

	mu       sync.Mutex
	location string
}

// NewRouter registers every command against env. env.Nav is set to the router.
func NewRouter(env handlers.Env) *Router {
	r := &Router{
		routes:   make(map[string]route),
		session:  env.Session,
		out:      env.Out,
		location: views.RouteHome,
	}
	env.Nav = r

	accounts := handlers.NewAccountHandler(env)
	polls := handlers.NewPollHandler(env)
	voting := handlers.NewVotingHandler(env)
	results := handlers.NewResultsHandler(env)

	// Accounts
	r.Handle("register", accounts.Register, false, "register [-u name] [-e email] [-p password]")
	r.Handle("login", accounts.Login, false, "login [-u name] [-p password]")
	r.Handle("logout", accounts.Logout, false, "logout")
	r.Handle("whoami", accounts.WhoAmI, false, "whoami")

	// Browsing (public)
	r.Handle("polls", polls.List, false, "polls")
	r.Handle("show", polls.Show, false, "show <poll>")
	r.Handle("watch", results.Watch, false, "watch [-interval d] [-count n] <poll>")

	// Voting; signed-out users get a login prompt from the view
	r.Handle("vote", voting.Vote, false, "vote <poll> <option>")
	r.Handle("like", voting.Like, false, "like <poll>")

	// Owner operations
	r.Handle("dashboard", polls.Dashboard, true, "dashboard")
	r.Handle("create", polls.Create, true, "create -title T [-desc D] <option> <option>...")
	r.Handle("delete", polls.Delete, true, "delete <poll>")

	return r
}

// Handle registers a command. Protected commands need a signed-in user.
func (r *Router) Handle(name string, h HandlerFunc, protected bool, usage string) {
	r.routes[name] = route{handler: h, protected: protected, usage: usage}
}

// Dispatch runs the named command
func (r *Router) Dispatch(ctx context.Context, name string, args []string) error {
	rt, ok := r.routes[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownCommand, name)
	}

	if rt.protected && !r.session.IsAuthenticated() {
		r.Navigate(views.RouteLogin)
		return fmt.Errorf("%s: %w", name, ErrLoginRequired)
	}

	slog.Debug("dispatching command", "command", name, "args", len(args))
	err := rt.handler(ctx, args)
	switch {
	case err == nil:
		return nil
	case apiclient.StatusCode(err) == http.StatusUnauthorized:
		return fmt.Errorf("%s: %w: %w", name, ErrSessionExpired, err)
	case errors.Is(err, handlers.ErrUsage):
		return fmt.Errorf("%w\nusage: quickpoll %s", err, rt.usage)
	}
	return fmt.Errorf("%s: %w", name, err)
}

// Navigate implements views.Navigator. There are no screens to switch to,
// so it prints the command that shows the destination.
func (r *Router) Navigate(to string) {
	r.mu.Lock()
	changed := r.location != to
	r.location = to
	r.mu.Unlock()

	slog.Debug("navigate", "to", to)
	if r.out == nil {
		return
	}

	switch {
	case to == views.RouteLogin:
		fmt.Fprintln(r.out, "→ Please log in: quickpoll login")
	case to == views.RouteDashboard:
		fmt.Fprintln(r.out, "→ See your polls: quickpoll dashboard")
	case strings.HasPrefix(to, "/poll/"):
		fmt.Fprintf(r.out, "→ View it: quickpoll show %s\n", strings.TrimPrefix(to, "/poll/"))
	case to == views.RouteHome && changed:
		fmt.Fprintln(r.out, "→ Browse polls: quickpoll polls")
	}
}

// Location is the last route navigated to
func (r *Router) Location() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.location
}

// Usage writes the command list
func (r *Router) Usage(w io.Writer) {
	names := make([]string, 0, len(r.routes))
	for name := range r.routes {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintln(w, "usage: quickpoll [flags] <command> [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "commands:")
	for _, name := range names {
		rt := r.routes[name]
		mark := ""
		if rt.protected {
			mark = "  (login required)"
		}
		fmt.Fprintf(w, "  %s%s\n", rt.usage, mark)
	}
}
