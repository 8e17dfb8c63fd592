// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package views

import (
	"context"
	"log/slog"

	"github.com/danielhkuo/quickpoll/models"
	"github.com/danielhkuo/quickpoll/tally"
)

// PollDetail shows one poll with its vote results
type PollDetail struct {
	lifecycle
	d       Deps
	id      int64
	poll    *models.Poll
	results []models.VoteResult
}

func NewPollDetail(d Deps, id int64) *PollDetail {
	v := &PollDetail{d: d, id: id}
	v.start()
	return v
}

func (v *PollDetail) ID() int64 { return v.id }

// Load fetches the poll, then its results. A missing poll sends the user home;
// missing results are logged and leave the totals at zero.
func (v *PollDetail) Load(ctx context.Context) error {
	ctx, cancel, gen := v.begin(ctx)
	defer cancel()

	poll, err := v.d.API.GetPoll(ctx, v.id)
	if err != nil {
		if ok, cerr := v.commit(ctx, gen, nil); !ok {
			return cerr
		}
		slog.Warn("failed to fetch poll", "poll_id", v.id, "error", err)
		v.d.fail(MsgPollNotFound)
		v.d.navigate(RouteHome)
		return err
	}

	results, err := v.d.API.Results(ctx, v.id)
	if err != nil {
		if ctx.Err() == nil {
			slog.Warn("failed to fetch results", "poll_id", v.id, "error", err)
		}
		results = nil
	}

	_, err = v.commit(ctx, gen, func() {
		v.poll = poll
		v.results = results
	})
	return err
}

// Poll returns a copy of the loaded poll, or nil before the first Load
func (v *PollDetail) Poll() *models.Poll {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.poll == nil {
		return nil
	}
	p := *v.poll
	p.Options = append([]models.Option(nil), v.poll.Options...)
	return &p
}

func (v *PollDetail) Results() []models.VoteResult {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]models.VoteResult(nil), v.results...)
}

func (v *PollDetail) Loading() bool { return v.isLoading() }

// TotalVotes sums the results endpoint, not the option counts
func (v *PollDetail) TotalVotes() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return tally.TotalResults(v.results)
}

// Percentage is the option's share of all votes, one decimal place
func (v *PollDetail) Percentage(optionID int64) float64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	r := tally.ResultFor(v.results, optionID)
	return tally.Percentage(r.VoteCount, tally.TotalResults(v.results))
}

// VoteCount is the option's count from the results endpoint
func (v *PollDetail) VoteCount(optionID int64) int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return tally.ResultFor(v.results, optionID).VoteCount
}

func (v *PollDetail) IsOwner() bool {
	p := v.Poll()
	return p != nil && p.OwnedBy(v.d.Session.User())
}

// CanVote reports whether the vote buttons are live
func (v *PollDetail) CanVote() bool {
	p := v.Poll()
	return p != nil && v.d.Session.IsAuthenticated() && !p.UserVoted.Voted
}

// Vote records a vote, then refetches the poll and its results.
// Signed-out users are sent to the login screen.
func (v *PollDetail) Vote(ctx context.Context, optionID int64) error {
	p := v.Poll()
	if p == nil {
		return ErrUnknownPoll
	}
	if err := castVote(ctx, v.d, *p, optionID); err != nil {
		return err
	}
	return v.Load(ctx)
}

func (v *PollDetail) ToggleLike(ctx context.Context) error {
	p := v.Poll()
	if p == nil {
		return ErrUnknownPoll
	}
	if err := toggleLike(ctx, v.d, *p); err != nil {
		return err
	}
	return v.Load(ctx)
}

// Delete removes the poll if the current user owns it and confirms,
// then moves to the dashboard.
func (v *PollDetail) Delete(ctx context.Context) error {
	if !v.IsOwner() {
		return ErrNotOwner
	}
	if err := deletePoll(ctx, v.d, v.id); err != nil {
		return err
	}
	v.d.navigate(RouteDashboard)
	return nil
}
