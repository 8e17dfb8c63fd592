// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package views

import (
	"context"
	"errors"
	"strconv"
	"sync"

	"github.com/danielhkuo/quickpoll/models"
)

var (
	ErrNotAuthenticated = errors.New("login required")
	ErrAlreadyVoted     = errors.New("already voted on this poll")
	ErrNotOwner         = errors.New("only the owner can do that")
	ErrNotConfirmed     = errors.New("cancelled")
	ErrUnknownPoll      = errors.New("poll is not in this view")
	ErrUnknownOption    = errors.New("option is not part of this poll")
)

// Routes a view can navigate to
const (
	RouteHome      = "/"
	RouteLogin     = "/login"
	RouteDashboard = "/dashboard"
)

func PollRoute(id int64) string {
	return "/poll/" + strconv.FormatInt(id, 10)
}

// PollAPI is the slice of the API client the views use
type PollAPI interface {
	ListPolls(ctx context.Context) ([]models.Poll, error)
	GetPoll(ctx context.Context, id int64) (*models.Poll, error)
	CreatePoll(ctx context.Context, req models.CreatePollRequest) (*models.Poll, error)
	DeletePoll(ctx context.Context, id int64) error
	Vote(ctx context.Context, pollID, optionID int64) error
	Results(ctx context.Context, pollID int64) ([]models.VoteResult, error)
	Like(ctx context.Context, pollID int64) error
	Unlike(ctx context.Context, pollID int64) error
}

// Session reports who is signed in
type Session interface {
	User() *models.User
	IsAuthenticated() bool
}

// Notifier shows transient messages
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

// Navigator moves the user to another screen
type Navigator interface {
	Navigate(route string)
}

type Deps struct {
	API     PollAPI
	Session Session
	Notify  Notifier
	Nav     Navigator
	// Confirm asks before destructive actions; nil means yes
	Confirm func(prompt string) bool
}

func (d Deps) confirm(prompt string) bool {
	if d.Confirm == nil {
		return true
	}
	return d.Confirm(prompt)
}

func (d Deps) navigate(route string) {
	if d.Nav != nil {
		d.Nav.Navigate(route)
	}
}

func (d Deps) success(msg string) {
	if d.Notify != nil {
		d.Notify.Success(msg)
	}
}

func (d Deps) fail(msg string) {
	if d.Notify != nil {
		d.Notify.Error(msg)
	}
}

// lifecycle ties fetches to the view. A fetch result is applied only while
// its context is live and no newer fetch has started; Close cancels every
// fetch still in flight.
type lifecycle struct {
	mu      sync.Mutex
	gen     uint64
	loading bool

	ctx    context.Context
	cancel context.CancelFunc
}

func (l *lifecycle) start() {
	l.ctx, l.cancel = context.WithCancel(context.Background())
}

// begin starts a fetch and returns its context and generation
func (l *lifecycle) begin(ctx context.Context) (context.Context, context.CancelFunc, uint64) {
	l.mu.Lock()
	l.gen++
	gen := l.gen
	l.loading = true
	l.mu.Unlock()

	c, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(l.ctx, cancel)
	return c, func() { stop(); cancel() }, gen
}

// commit applies fn if gen is still current and ctx is live, and reports
// whether it did. It returns ctx's error when the result was dropped because
// of it; a superseded fetch is dropped with a nil error.
func (l *lifecycle) commit(ctx context.Context, gen uint64, fn func()) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := ctx.Err(); err != nil {
		if gen == l.gen {
			l.loading = false
		}
		return false, err
	}
	if gen != l.gen {
		return false, nil
	}
	l.loading = false
	if fn != nil {
		fn()
	}
	return true, nil
}

func (l *lifecycle) isLoading() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loading
}

// Close cancels in-flight fetches; later results are discarded
func (l *lifecycle) Close() {
	l.cancel()
}

func clonePolls(polls []models.Poll) []models.Poll {
	return append([]models.Poll(nil), polls...)
}
