// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/danielhkuo/quickpoll/apiclient"
	"github.com/danielhkuo/quickpoll/models"
)

// User-facing messages
const (
	MsgLoginFailed        = "Login failed"
	MsgRegisterFailed     = "Registration failed"
	MsgLoginAfterRegister = "Registration completed but login failed"
)

var ErrLoginAfterRegister = errors.New("registered but could not log in")

// AuthAPI is the part of the API client the store needs
type AuthAPI interface {
	Register(ctx context.Context, req models.RegisterRequest) (*models.User, error)
	Login(ctx context.Context, creds models.Credentials) (*models.TokenResponse, error)
	Profile(ctx context.Context) (*models.User, error)
}

// AuthError is a failed login or registration. Message is safe to show the user.
type AuthError struct {
	Message string
	Err     error
}

func (e *AuthError) Error() string { return e.Message }
func (e *AuthError) Unwrap() error { return e.Err }

// Store holds the signed-in user in memory, backed by Persisted
type Store struct {
	persisted *Persisted
	api       AuthAPI

	mu   sync.RWMutex
	user *models.User
}

func NewStore(persisted *Persisted, api AuthAPI) *Store {
	return &Store{persisted: persisted, api: api}
}

// Restore loads the user from storage when both token and user are present
func (s *Store) Restore(ctx context.Context) error {
	token, err := s.persisted.Token(ctx)
	if err != nil {
		return fmt.Errorf("failed to read session: %w", err)
	}
	if token == "" {
		s.setUser(nil)
		return nil
	}

	user, err := s.persisted.User(ctx)
	if err != nil {
		slog.Warn("dropping unreadable session", "error", err)
		s.setUser(nil)
		return s.persisted.Clear(ctx)
	}
	s.setUser(user)
	return nil
}

// Login exchanges credentials for a token, stores it, then fetches and stores the profile.
// Any failure leaves no token behind.
func (s *Store) Login(ctx context.Context, creds models.Credentials) error {
	fail := func(err error) error {
		// Cleanup must outlive a cancelled login
		if rmErr := s.persisted.RemoveToken(context.WithoutCancel(ctx)); rmErr != nil {
			slog.Error("failed to clear token after failed login", "error", rmErr)
		}
		slog.Info("login failed", "username", creds.Username, "error", err)
		return &AuthError{Message: apiclient.Message(err, MsgLoginFailed), Err: err}
	}

	tok, err := s.api.Login(ctx, creds)
	if err != nil {
		return fail(err)
	}
	if err := s.persisted.SetToken(ctx, tok.AccessToken); err != nil {
		return fail(err)
	}

	user, err := s.api.Profile(ctx)
	if err != nil {
		return fail(err)
	}
	if err := s.persisted.SetUser(ctx, user); err != nil {
		return fail(err)
	}

	s.setUser(user)
	slog.Info("logged in", "username", user.Username, "user_id", user.ID)
	return nil
}

// Register creates the account and logs in with the same credentials
func (s *Store) Register(ctx context.Context, req models.RegisterRequest) error {
	if _, err := s.api.Register(ctx, req); err != nil {
		return &AuthError{Message: apiclient.Message(err, MsgRegisterFailed), Err: err}
	}

	err := s.Login(ctx, models.Credentials{Username: req.Username, Password: req.Password})
	if err != nil {
		return &AuthError{
			Message: MsgLoginAfterRegister,
			Err:     fmt.Errorf("%w: %w", ErrLoginAfterRegister, err),
		}
	}
	return nil
}

// Logout forgets the session locally. There is no server call.
func (s *Store) Logout(ctx context.Context) error {
	s.setUser(nil)
	if err := s.persisted.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

// Expire drops the session after the API rejected it
func (s *Store) Expire(ctx context.Context) {
	s.setUser(nil)
	if err := s.persisted.Clear(ctx); err != nil {
		slog.Error("failed to clear expired session", "error", err)
	}
}

// Profile refetches the current user and refreshes the cached copy
func (s *Store) Profile(ctx context.Context) (*models.User, error) {
	user, err := s.api.Profile(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.persisted.SetUser(ctx, user); err != nil {
		return nil, err
	}
	s.setUser(user)
	return s.User(), nil
}

// User returns a copy of the signed-in user, or nil
func (s *Store) User() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil
}

func (s *Store) setUser(u *models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = u
}
