// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/danielhkuo/quickpoll/apiclient"
	"github.com/danielhkuo/quickpoll/cliparse"
	"github.com/danielhkuo/quickpoll/metrics"
	"github.com/danielhkuo/quickpoll/render"
	"github.com/danielhkuo/quickpoll/session"
	"github.com/danielhkuo/quickpoll/views"
)

// ErrUsage marks bad command arguments
var ErrUsage = errors.New("usage")

// Env carries what every command handler needs
type Env struct {
	Cfg     cliparse.Config
	API     *apiclient.Client
	Session *session.Store
	Metrics *metrics.ClientMetrics

	// Toast, Prompt and Spinner may be nil
	Out     io.Writer
	Toast   *render.Toaster
	Prompt  *render.Prompter
	Spinner *render.Spinner
	Nav     views.Navigator

	Now func() time.Time
}

func (e Env) deps() views.Deps {
	d := views.Deps{
		API:     e.API,
		Session: e.Session,
		Nav:     e.Nav,
	}
	if e.Toast != nil {
		d.Notify = e.Toast
	}
	if e.Prompt != nil {
		d.Confirm = e.Prompt.Confirm
	}
	return d
}

func (e Env) success(msg string) {
	if e.Toast != nil {
		e.Toast.Success(msg)
	}
}

func (e Env) fail(msg string) {
	if e.Toast != nil {
		e.Toast.Error(msg)
	}
}

func (e Env) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

// loading runs fn behind the spinner
func (e Env) loading(fn func() error) error {
	if e.Spinner != nil {
		e.Spinner.Start("Loading...")
		defer e.Spinner.Stop()
	}
	return fn()
}

func usagef(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrUsage}, args...)...)
}

func parseID(what, raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, usagef("%s must be a positive number, got %q", what, raw)
	}
	return id, nil
}

// parseFlags parses a subcommand's flags; errors are usage errors
func parseFlags(fs *flag.FlagSet, args []string) error {
	fs.SetOutput(io.Discard)
	if err := fs.Parse(args); err != nil {
		return usagef("%s: %v", fs.Name(), err)
	}
	return nil
}

// ignoreCancel treats a cancelled context as a clean stop
func ignoreCancel(ctx context.Context, err error) error {
	if err != nil && ctx.Err() != nil && errors.Is(err, ctx.Err()) {
		return nil
	}
	return err
}
