// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"errors"
	"flag"
	"fmt"

	"github.com/danielhkuo/quickpoll/models"
	"github.com/danielhkuo/quickpoll/render"
	"github.com/danielhkuo/quickpoll/views"
)

type PollHandler struct {
	env Env
}

func NewPollHandler(env Env) *PollHandler {
	return &PollHandler{env: env}
}

// List handles `quickpoll polls`
func (h *PollHandler) List(ctx context.Context, args []string) error {
	home := views.NewHome(h.env.deps())
	defer home.Close()

	if err := h.env.loading(func() error { return home.Load(ctx) }); err != nil {
		return err
	}

	render.Navbar(h.env.Out, h.env.Session.User())
	fmt.Fprintln(h.env.Out)
	render.PollList(h.env.Out, home.Polls(), h.env.now())
	return nil
}

// Dashboard handles `quickpoll dashboard`
func (h *PollHandler) Dashboard(ctx context.Context, args []string) error {
	dash := views.NewDashboard(h.env.deps())
	defer dash.Close()

	if err := h.env.loading(func() error { return dash.Load(ctx) }); err != nil {
		return err
	}

	render.Navbar(h.env.Out, h.env.Session.User())
	render.Stats(h.env.Out, dash.Stats())
	fmt.Fprintln(h.env.Out)
	if len(dash.Polls()) == 0 {
		fmt.Fprintln(h.env.Out, "You haven't created any polls yet. Try: quickpoll create")
		return nil
	}
	render.PollList(h.env.Out, dash.Polls(), h.env.now())
	return nil
}

// Show handles `quickpoll show <poll>`
func (h *PollHandler) Show(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usagef("show <poll>")
	}
	id, err := parseID("poll", args[0])
	if err != nil {
		return err
	}

	detail := views.NewPollDetail(h.env.deps(), id)
	defer detail.Close()

	if err := h.env.loading(func() error { return detail.Load(ctx) }); err != nil {
		return err
	}
	showDetail(h.env, detail)
	return nil
}

// Create handles `quickpoll create -title T [-desc D] <option> <option>...`
func (h *PollHandler) Create(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("create", flag.ContinueOnError)
	title := fs.String("title", "", "poll title")
	desc := fs.String("desc", "", "optional description")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	form := views.NewCreatePollForm(h.env.deps())
	form.SetTitle(*title)
	form.SetDescription(*desc)
	for i, text := range fs.Args() {
		if i >= len(form.Options()) {
			if err := form.AddOption(); err != nil {
				h.env.fail(err.Error())
				return err
			}
		}
		if err := form.SetOption(i, text); err != nil {
			return err
		}
	}

	poll, err := form.Submit(ctx)
	if err != nil {
		return err
	}

	render.PollCard(h.env.Out, render.Card{Poll: *poll, Now: h.env.now()})
	return nil
}

// Delete handles `quickpoll delete <poll>`
// Only the owner may delete; the user is asked to confirm unless -y was given.
func (h *PollHandler) Delete(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usagef("delete <poll>")
	}
	id, err := parseID("poll", args[0])
	if err != nil {
		return err
	}

	detail := views.NewPollDetail(h.env.deps(), id)
	defer detail.Close()

	if err := h.env.loading(func() error { return detail.Load(ctx) }); err != nil {
		return err
	}

	err = detail.Delete(ctx)
	switch {
	case errors.Is(err, views.ErrNotOwner):
		h.env.fail("You can only delete your own polls")
		return err
	case errors.Is(err, views.ErrNotConfirmed):
		fmt.Fprintln(h.env.Out, "Cancelled")
		return nil
	}
	return err
}

// showDetail draws a loaded poll detail with results-based counts
func showDetail(env Env, detail *views.PollDetail) {
	poll := detail.Poll()
	if poll == nil {
		return
	}
	// Counts come from the results endpoint; missing results read as zero
	results := detail.Results()
	if results == nil {
		results = []models.VoteResult{}
	}
	render.PollCard(env.Out, render.Card{Poll: *poll, Results: results, Now: env.now()})
	if poll.UserVoted.Voted || !detail.CanVote() {
		return
	}
	fmt.Fprintf(env.Out, "    Vote with: quickpoll vote %d <option>\n", poll.ID)
}
