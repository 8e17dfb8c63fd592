// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package views

import (
	"context"
	"log/slog"

	"github.com/danielhkuo/quickpoll/apiclient"
	"github.com/danielhkuo/quickpoll/models"
	"github.com/danielhkuo/quickpoll/tally"
)

// Dashboard lists the signed-in user's polls with aggregate stats
type Dashboard struct {
	lifecycle
	d     Deps
	polls []models.Poll
	stats tally.Stats
}

func NewDashboard(d Deps) *Dashboard {
	v := &Dashboard{d: d}
	v.start()
	return v
}

// Load fetches all polls and keeps those owned by the current user
func (v *Dashboard) Load(ctx context.Context) error {
	user := v.d.Session.User()
	if user == nil {
		v.d.navigate(RouteLogin)
		return ErrNotAuthenticated
	}

	ctx, cancel, gen := v.begin(ctx)
	defer cancel()

	all, err := v.d.API.ListPolls(ctx)
	if err != nil {
		if ok, cerr := v.commit(ctx, gen, nil); !ok {
			return cerr
		}
		slog.Warn("failed to fetch own polls", "error", err)
		v.d.fail(apiclient.Message(err, MsgFetchMyFailed))
		return err
	}

	mine := tally.OwnedBy(all, user)
	_, err = v.commit(ctx, gen, func() {
		v.polls = mine
		v.stats = tally.Summarize(mine)
	})
	return err
}

func (v *Dashboard) Polls() []models.Poll {
	v.mu.Lock()
	defer v.mu.Unlock()
	return clonePolls(v.polls)
}

func (v *Dashboard) Stats() tally.Stats {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.stats
}

func (v *Dashboard) Loading() bool { return v.isLoading() }

// Delete asks for confirmation, deletes the poll, drops it from the list
// right away and then refetches.
func (v *Dashboard) Delete(ctx context.Context, pollID int64) error {
	if _, ok := v.poll(pollID); !ok {
		return ErrUnknownPoll
	}
	if err := deletePoll(ctx, v.d, pollID); err != nil {
		return err
	}

	v.mu.Lock()
	kept := v.polls[:0:0]
	for _, p := range v.polls {
		if p.ID != pollID {
			kept = append(kept, p)
		}
	}
	v.polls = kept
	v.stats = tally.Summarize(kept)
	v.mu.Unlock()

	if err := v.Load(ctx); err != nil {
		slog.Warn("refresh after delete failed", "error", err)
	}
	return nil
}

func (v *Dashboard) Vote(ctx context.Context, pollID, optionID int64) error {
	poll, ok := v.poll(pollID)
	if !ok {
		return ErrUnknownPoll
	}
	if err := castVote(ctx, v.d, poll, optionID); err != nil {
		return err
	}
	return v.Load(ctx)
}

func (v *Dashboard) ToggleLike(ctx context.Context, pollID int64) error {
	poll, ok := v.poll(pollID)
	if !ok {
		return ErrUnknownPoll
	}
	if err := toggleLike(ctx, v.d, poll); err != nil {
		return err
	}
	return v.Load(ctx)
}

func (v *Dashboard) poll(id int64) (models.Poll, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return findPoll(v.polls, id)
}
