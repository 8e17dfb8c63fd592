// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package views

import (
	"context"
	"log/slog"

	"github.com/danielhkuo/quickpoll/apiclient"
	"github.com/danielhkuo/quickpoll/models"
)

// User-facing messages
const (
	MsgVoteRecorded   = "Vote recorded!"
	MsgPollLiked      = "Poll liked!"
	MsgPollUnliked    = "Poll unliked!"
	MsgPollDeleted    = "Poll deleted successfully!"
	MsgPollCreated    = "Poll created successfully!"
	MsgVoteFailed     = "Failed to vote"
	MsgLikeFailed     = "Failed to like poll"
	MsgDeleteFailed   = "Failed to delete poll"
	MsgCreateFailed   = "Failed to create poll"
	MsgFetchFailed    = "Failed to fetch polls"
	MsgFetchMyFailed  = "Failed to fetch your polls"
	MsgLoginToVote    = "Please login to vote"
	MsgLoginToLike    = "Please login to like polls"
	MsgPollNotFound   = "Poll not found"
	MsgAlreadyVoted   = "You have already voted on this poll"
	MsgConfirmDelete  = "Are you sure you want to delete this poll?"
	MsgTitleRequired  = "Poll title is required"
	MsgTooFewOptions  = "At least 2 options are required"
	MsgTooManyOptions = "A poll can have at most 10 options"
)

// castVote is the card-level vote action. Signed-out users are sent to login;
// the caller refetches on success.
func castVote(ctx context.Context, d Deps, poll models.Poll, optionID int64) error {
	if !d.Session.IsAuthenticated() {
		d.fail(MsgLoginToVote)
		d.navigate(RouteLogin)
		return ErrNotAuthenticated
	}
	if poll.UserVoted.Voted {
		return ErrAlreadyVoted
	}
	if !hasOption(poll, optionID) {
		return ErrUnknownOption
	}

	if err := d.API.Vote(ctx, poll.ID, optionID); err != nil {
		d.fail(apiclient.Message(err, MsgVoteFailed))
		return err
	}
	slog.Info("vote cast", "poll_id", poll.ID, "option_id", optionID)
	d.success(MsgVoteRecorded)
	return nil
}

// toggleLike likes or unlikes depending on the poll's current flag
func toggleLike(ctx context.Context, d Deps, poll models.Poll) error {
	if !d.Session.IsAuthenticated() {
		d.fail(MsgLoginToLike)
		d.navigate(RouteLogin)
		return ErrNotAuthenticated
	}

	var err error
	if poll.UserLiked {
		err = d.API.Unlike(ctx, poll.ID)
	} else {
		err = d.API.Like(ctx, poll.ID)
	}
	if err != nil {
		d.fail(apiclient.Message(err, MsgLikeFailed))
		return err
	}

	if poll.UserLiked {
		d.success(MsgPollUnliked)
	} else {
		d.success(MsgPollLiked)
	}
	slog.Info("like toggled", "poll_id", poll.ID, "liked", !poll.UserLiked)
	return nil
}

func deletePoll(ctx context.Context, d Deps, pollID int64) error {
	if !d.confirm(MsgConfirmDelete) {
		return ErrNotConfirmed
	}
	if err := d.API.DeletePoll(ctx, pollID); err != nil {
		d.fail(apiclient.Message(err, MsgDeleteFailed))
		return err
	}
	slog.Info("poll deleted", "poll_id", pollID)
	d.success(MsgPollDeleted)
	return nil
}

func hasOption(poll models.Poll, optionID int64) bool {
	for _, o := range poll.Options {
		if o.ID == optionID {
			return true
		}
	}
	return false
}

func findPoll(polls []models.Poll, id int64) (models.Poll, bool) {
	for _, p := range polls {
		if p.ID == id {
			return p, true
		}
	}
	return models.Poll{}, false
}
