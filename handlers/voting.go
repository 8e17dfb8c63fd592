// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/danielhkuo/quickpoll/models"
	"github.com/danielhkuo/quickpoll/views"
)

type VotingHandler struct {
	env Env
}

func NewVotingHandler(env Env) *VotingHandler {
	return &VotingHandler{env: env}
}

// Vote handles `quickpoll vote <poll> <option>`
// The option may be given by id or by its text.
func (h *VotingHandler) Vote(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return usagef("vote <poll> <option>")
	}
	pollID, err := parseID("poll", args[0])
	if err != nil {
		return err
	}

	detail := views.NewPollDetail(h.env.deps(), pollID)
	defer detail.Close()

	if err := h.env.loading(func() error { return detail.Load(ctx) }); err != nil {
		return err
	}

	optionID, ok := resolveOption(*detail.Poll(), args[1])
	if !ok {
		h.env.fail("Invalid option for this poll")
		return usagef("poll %d has no option %q", pollID, args[1])
	}

	err = detail.Vote(ctx, optionID)
	if errors.Is(err, views.ErrAlreadyVoted) {
		h.env.fail(views.MsgAlreadyVoted)
	}
	if err != nil {
		return err
	}

	showDetail(h.env, detail)
	return nil
}

// Like handles `quickpoll like <poll>`, toggling the current user's like
func (h *VotingHandler) Like(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usagef("like <poll>")
	}
	pollID, err := parseID("poll", args[0])
	if err != nil {
		return err
	}

	detail := views.NewPollDetail(h.env.deps(), pollID)
	defer detail.Close()

	if err := h.env.loading(func() error { return detail.Load(ctx) }); err != nil {
		return err
	}
	if err := detail.ToggleLike(ctx); err != nil {
		return err
	}

	showDetail(h.env, detail)
	return nil
}

// resolveOption matches raw against option ids first, then option text
func resolveOption(poll models.Poll, raw string) (int64, bool) {
	if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
		for _, o := range poll.Options {
			if o.ID == id {
				return id, true
			}
		}
	}
	for _, o := range poll.Options {
		if strings.EqualFold(strings.TrimSpace(o.Text), strings.TrimSpace(raw)) {
			return o.ID, true
		}
	}
	return 0, false
}
