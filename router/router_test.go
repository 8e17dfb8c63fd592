// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"testing"

	"github.com/danielhkuo/quickpoll/apiclient"
	"github.com/danielhkuo/quickpoll/handlers"
	"github.com/danielhkuo/quickpoll/render"
	"github.com/danielhkuo/quickpoll/session"
	"github.com/danielhkuo/quickpoll/testutil"
	"github.com/danielhkuo/quickpoll/views"
)

type fixture struct {
	api    *testutil.FakeAPI
	store  *session.Store
	out    *bytes.Buffer
	router *Router
}

func setup(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{api: testutil.NewFakeAPI(t), out: &bytes.Buffer{}}
	persisted := session.NewPersisted(testutil.NewLocalStorage(t))
	client := apiclient.New(f.api.URL(),
		apiclient.WithTokenStore(persisted),
		apiclient.OnUnauthorized(func(ctx context.Context) {
			f.store.Expire(ctx)
			f.router.Navigate(views.RouteLogin)
		}),
	)
	f.store = session.NewStore(persisted, client)
	f.router = NewRouter(handlers.Env{
		API:     client,
		Session: f.store,
		Out:     f.out,
		Toast:   render.NewToaster(f.out),
		Prompt:  render.NewPrompter(strings.NewReader(""), io.Discard, true),
		Spinner: render.NewSpinner(io.Discard),
	})
	return f
}

func TestDispatch_UnknownCommand(t *testing.T) {
	f := setup(t)

	err := f.router.Dispatch(context.Background(), "frobnicate", nil)
	if !errors.Is(err, ErrUnknownCommand) {
		t.Errorf("Expected ErrUnknownCommand, got %v", err)
	}
}

func TestDispatch_ProtectedCommands(t *testing.T) {
	for _, name := range []string{"dashboard", "create", "delete"} {
		t.Run(name, func(t *testing.T) {
			f := setup(t)

			err := f.router.Dispatch(context.Background(), name, nil)
			if !errors.Is(err, ErrLoginRequired) {
				t.Errorf("Expected ErrLoginRequired, got %v", err)
			}
			if f.router.Location() != views.RouteLogin {
				t.Errorf("Expected redirect to login, got %q", f.router.Location())
			}
			if !strings.Contains(f.out.String(), "quickpoll login") {
				t.Errorf("Expected login hint, got %q", f.out.String())
			}
		})
	}
}

func TestDispatch_PublicCommands(t *testing.T) {
	f := setup(t)
	f.api.AddUser("alice", "pw")
	f.api.AddPoll("alice", "A or B", []string{"A", "B"})

	if err := f.router.Dispatch(context.Background(), "polls", nil); err != nil {
		t.Fatalf("polls: %v", err)
	}
	if !strings.Contains(f.out.String(), "A or B") {
		t.Errorf("Expected poll listed, got:\n%s", f.out.String())
	}
}

func TestDispatch_UsageError(t *testing.T) {
	f := setup(t)

	err := f.router.Dispatch(context.Background(), "show", []string{"nope"})
	if !errors.Is(err, handlers.ErrUsage) {
		t.Fatalf("Expected ErrUsage, got %v", err)
	}
	if !strings.Contains(err.Error(), "usage: quickpoll show <poll>") {
		t.Errorf("Expected usage line in %q", err.Error())
	}
}

func TestDispatch_SessionExpired(t *testing.T) {
	f := setup(t)
	f.api.AddUser("alice", "pw")
	ctx := context.Background()

	if err := f.router.Dispatch(ctx, "login", []string{"-u", "alice", "-p", "pw"}); err != nil {
		t.Fatalf("login: %v", err)
	}
	f.api.RevokeTokens()
	f.out.Reset()

	err := f.router.Dispatch(ctx, "dashboard", nil)
	if !errors.Is(err, ErrSessionExpired) || !errors.Is(err, apiclient.ErrUnauthorized) {
		t.Fatalf("Expected ErrSessionExpired wrapping ErrUnauthorized, got %v", err)
	}
	if f.store.IsAuthenticated() {
		t.Error("Expected session wiped after 401")
	}
	if f.router.Location() != views.RouteLogin {
		t.Errorf("Expected redirect to login, got %q", f.router.Location())
	}
	if !strings.Contains(f.out.String(), "→ Please log in") {
		t.Errorf("Expected login hint, got:\n%s", f.out.String())
	}
}

func TestDispatch_APIErrorKeepsStatus(t *testing.T) {
	f := setup(t)
	f.api.FailOn("GET", "/polls/", http.StatusForbidden, "Nope")

	err := f.router.Dispatch(context.Background(), "polls", nil)
	if errors.Is(err, ErrSessionExpired) {
		t.Fatalf("403 must not expire the session: %v", err)
	}
	if got := apiclient.StatusCode(err); got != http.StatusForbidden {
		t.Errorf("StatusCode() = %d, want %d", got, http.StatusForbidden)
	}
}

func TestFullFlow(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	steps := []struct {
		cmd  string
		args []string
	}{
		{"register", []string{"-u", "erin", "-e", "erin@example.com", "-p", "pw"}},
		{"create", []string{"-title", "Coffee or tea?", "coffee", "tea"}},
		{"dashboard", nil},
	}
	for _, s := range steps {
		if err := f.router.Dispatch(ctx, s.cmd, s.args); err != nil {
			t.Fatalf("%s: %v", s.cmd, err)
		}
	}

	if u := f.store.User(); u == nil || u.Username != "erin" {
		t.Fatalf("Expected erin signed in, got %+v", u)
	}
	if !strings.Contains(f.out.String(), "→ View it: quickpoll show") {
		t.Errorf("Expected navigation hint after create, got:\n%s", f.out.String())
	}
	if !strings.Contains(f.out.String(), "Polls: 1") {
		t.Errorf("Expected dashboard stats, got:\n%s", f.out.String())
	}

	created := findPollID(t, f, "Coffee or tea?")
	for _, s := range []struct {
		cmd  string
		args []string
	}{
		{"vote", []string{created, "tea"}},
		{"like", []string{created}},
		{"delete", []string{created}},
	} {
		if err := f.router.Dispatch(ctx, s.cmd, s.args); err != nil {
			t.Fatalf("%s: %v", s.cmd, err)
		}
	}
	if f.router.Location() != views.RouteDashboard {
		t.Errorf("Expected to land on the dashboard after delete, got %q", f.router.Location())
	}
}

func findPollID(t *testing.T, f *fixture, title string) string {
	t.Helper()
	client := apiclient.New(f.api.URL())
	polls, err := client.ListPolls(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	for _, p := range polls {
		if p.Title == title {
			return strconv.FormatInt(p.ID, 10)
		}
	}
	t.Fatalf("poll %q not found", title)
	return ""
}

func TestUsage(t *testing.T) {
	f := setup(t)
	var buf bytes.Buffer
	f.router.Usage(&buf)

	out := buf.String()
	for _, want := range []string{"register", "vote <poll> <option>", "watch", "delete <poll>  (login required)"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in usage:\n%s", want, out)
		}
	}
}
