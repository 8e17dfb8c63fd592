// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"flag"
	"fmt"
	"log/slog"

	"github.com/danielhkuo/quickpoll/models"
	"github.com/danielhkuo/quickpoll/render"
	"github.com/danielhkuo/quickpoll/views"
)

type AccountHandler struct {
	env Env
}

func NewAccountHandler(env Env) *AccountHandler {
	return &AccountHandler{env: env}
}

// Register handles `quickpoll register [-u name] [-e email] [-p password]`
// Missing fields are prompted for.
func (h *AccountHandler) Register(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("register", flag.ContinueOnError)
	username := fs.String("u", "", "username")
	email := fs.String("e", "", "email")
	password := fs.String("p", "", "password")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	if err := h.ask(username, "Username"); err != nil {
		return err
	}
	if err := h.ask(email, "Email"); err != nil {
		return err
	}
	if err := h.ask(password, "Password"); err != nil {
		return err
	}

	req := models.RegisterRequest{Username: *username, Email: *email, Password: *password}
	if err := h.env.Session.Register(ctx, req); err != nil {
		h.env.fail(err.Error())
		return err
	}

	h.env.success(fmt.Sprintf("Welcome, %s!", *username))
	h.env.Nav.Navigate(views.RouteHome)
	return nil
}

// Login handles `quickpoll login [-u name] [-p password]`
func (h *AccountHandler) Login(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	username := fs.String("u", "", "username")
	password := fs.String("p", "", "password")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	if err := h.ask(username, "Username"); err != nil {
		return err
	}
	if err := h.ask(password, "Password"); err != nil {
		return err
	}

	creds := models.Credentials{Username: *username, Password: *password}
	if err := h.env.Session.Login(ctx, creds); err != nil {
		h.env.fail(err.Error())
		return err
	}

	h.env.success(fmt.Sprintf("Logged in as %s", *username))
	h.env.Nav.Navigate(views.RouteHome)
	return nil
}

// Logout handles `quickpoll logout`
func (h *AccountHandler) Logout(ctx context.Context, args []string) error {
	if err := h.env.Session.Logout(ctx); err != nil {
		return err
	}
	slog.Info("logged out")
	h.env.success("Logged out")
	return nil
}

// WhoAmI handles `quickpoll whoami`
func (h *AccountHandler) WhoAmI(ctx context.Context, args []string) error {
	if !h.env.Session.IsAuthenticated() {
		render.Navbar(h.env.Out, nil)
		return nil
	}

	var user *models.User
	err := h.env.loading(func() error {
		var err error
		user, err = h.env.Session.Profile(ctx)
		return err
	})
	if err != nil {
		return err
	}

	render.Navbar(h.env.Out, user)
	render.User(h.env.Out, user, h.env.now())
	return nil
}

func (h *AccountHandler) ask(value *string, label string) error {
	if *value != "" {
		return nil
	}
	if h.env.Prompt == nil {
		return usagef("%s is required", label)
	}
	answer, err := h.env.Prompt.Ask(label)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", label, err)
	}
	if answer == "" {
		return usagef("%s is required", label)
	}
	*value = answer
	return nil
}
