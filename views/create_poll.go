// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package views

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/danielhkuo/quickpoll/apiclient"
	"github.com/danielhkuo/quickpoll/models"
)

// ValidationError is a form problem caught before any request is sent
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// CreatePollForm holds the new-poll form. Inputs are clipped to the
// server's length limits as they are set.
type CreatePollForm struct {
	d Deps

	mu          sync.Mutex
	title       string
	description string
	options     []string
}

func NewCreatePollForm(d Deps) *CreatePollForm {
	return &CreatePollForm{d: d, options: make([]string, models.MinOptions)}
}

func (f *CreatePollForm) SetTitle(s string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.title = clip(s, models.MaxTitleLen)
}

func (f *CreatePollForm) SetDescription(s string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.description = clip(s, models.MaxDescriptionLen)
}

func (f *CreatePollForm) SetOption(i int, s string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if i < 0 || i >= len(f.options) {
		return fmt.Errorf("option %d out of range", i)
	}
	f.options[i] = clip(s, models.MaxOptionLen)
	return nil
}

// AddOption appends an empty option
func (f *CreatePollForm) AddOption() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.options) >= models.MaxOptions {
		return &ValidationError{Message: MsgTooManyOptions}
	}
	f.options = append(f.options, "")
	return nil
}

// RemoveOption drops option i; the form never goes below two options
func (f *CreatePollForm) RemoveOption(i int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.options) <= models.MinOptions {
		return &ValidationError{Message: MsgTooFewOptions}
	}
	if i < 0 || i >= len(f.options) {
		return fmt.Errorf("option %d out of range", i)
	}
	f.options = append(f.options[:i], f.options[i+1:]...)
	return nil
}

func (f *CreatePollForm) Options() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.options...)
}

// Request builds the payload: trimmed title, blank description as null,
// blank options dropped.
func (f *CreatePollForm) Request() models.CreatePollRequest {
	f.mu.Lock()
	defer f.mu.Unlock()

	req := models.CreatePollRequest{Title: strings.TrimSpace(f.title)}
	if d := strings.TrimSpace(f.description); d != "" {
		req.Description = &d
	}
	for _, o := range f.options {
		if t := strings.TrimSpace(o); t != "" {
			req.Options = append(req.Options, models.OptionInput{Text: t})
		}
	}
	return req
}

func (f *CreatePollForm) Validate() error {
	return validate(f.Request())
}

func validate(req models.CreatePollRequest) error {
	if req.Title == "" {
		return &ValidationError{Message: MsgTitleRequired}
	}
	if len(req.Options) < models.MinOptions {
		return &ValidationError{Message: MsgTooFewOptions}
	}
	if len(req.Options) > models.MaxOptions {
		return &ValidationError{Message: MsgTooManyOptions}
	}
	return nil
}

// Submit validates and creates the poll, then opens it.
// Validation failures never reach the network.
func (f *CreatePollForm) Submit(ctx context.Context) (*models.Poll, error) {
	req := f.Request()
	if err := validate(req); err != nil {
		f.d.fail(err.Error())
		return nil, err
	}

	poll, err := f.d.API.CreatePoll(ctx, req)
	if err != nil {
		f.d.fail(apiclient.Message(err, MsgCreateFailed))
		return nil, err
	}

	slog.Info("poll created", "poll_id", poll.ID, "options", len(poll.Options))
	f.d.success(MsgPollCreated)
	f.d.navigate(PollRoute(poll.ID))
	return poll, nil
}

func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
