// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package views

import (
	"context"
	"log/slog"

	"github.com/danielhkuo/quickpoll/apiclient"
	"github.com/danielhkuo/quickpoll/models"
)

// Home lists every poll
type Home struct {
	lifecycle
	d     Deps
	polls []models.Poll
}

func NewHome(d Deps) *Home {
	h := &Home{d: d}
	h.start()
	return h
}

// Load fetches all polls. A failure keeps the previous list.
func (h *Home) Load(ctx context.Context) error {
	ctx, cancel, gen := h.begin(ctx)
	defer cancel()

	polls, err := h.d.API.ListPolls(ctx)
	if err != nil {
		if ok, cerr := h.commit(ctx, gen, nil); !ok {
			return cerr
		}
		slog.Warn("failed to fetch polls", "error", err)
		h.d.fail(apiclient.Message(err, MsgFetchFailed))
		return err
	}
	_, err = h.commit(ctx, gen, func() { h.polls = polls })
	return err
}

// Polls returns the loaded polls, newest first as the API orders them
func (h *Home) Polls() []models.Poll {
	h.mu.Lock()
	defer h.mu.Unlock()
	return clonePolls(h.polls)
}

func (h *Home) Loading() bool { return h.isLoading() }

// Vote votes on a listed poll and refetches the list
func (h *Home) Vote(ctx context.Context, pollID, optionID int64) error {
	poll, ok := h.poll(pollID)
	if !ok {
		return ErrUnknownPoll
	}
	if err := castVote(ctx, h.d, poll, optionID); err != nil {
		return err
	}
	return h.Load(ctx)
}

// ToggleLike likes or unlikes a listed poll and refetches the list
func (h *Home) ToggleLike(ctx context.Context, pollID int64) error {
	poll, ok := h.poll(pollID)
	if !ok {
		return ErrUnknownPoll
	}
	if err := toggleLike(ctx, h.d, poll); err != nil {
		return err
	}
	return h.Load(ctx)
}

func (h *Home) poll(id int64) (models.Poll, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return findPoll(h.polls, id)
}
