// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/danielhkuo/quickpoll/auth"
	"github.com/danielhkuo/quickpoll/models"
)

// Keys kept in local storage
const (
	TokenKey = "token"
	UserKey  = "user"
)

// Storage is a persistent string map, satisfied by db.LocalStorage
type Storage interface {
	GetItem(ctx context.Context, key string) (string, bool, error)
	SetItem(ctx context.Context, key, value string) error
	RemoveItem(ctx context.Context, key string) error
}

// Persisted is the session as it lives in storage: a token and the user it belongs to.
// It is also the API client's token store.
type Persisted struct {
	storage Storage
	now     func() time.Time
}

func NewPersisted(storage Storage) *Persisted {
	return &Persisted{storage: storage, now: time.Now}
}

// Token returns the stored token. An expired JWT is dropped along with the user
// and reported as no token.
func (p *Persisted) Token(ctx context.Context) (string, error) {
	token, ok, err := p.storage.GetItem(ctx, TokenKey)
	if err != nil || !ok {
		return "", err
	}

	if auth.Expired(token, p.now()) {
		slog.Info("stored token expired, clearing session")
		if err := p.Clear(ctx); err != nil {
			return "", err
		}
		return "", nil
	}
	return token, nil
}

func (p *Persisted) SetToken(ctx context.Context, token string) error {
	if err := auth.ValidateToken(token); err != nil {
		return err
	}
	return p.storage.SetItem(ctx, TokenKey, token)
}

func (p *Persisted) RemoveToken(ctx context.Context) error {
	return p.storage.RemoveItem(ctx, TokenKey)
}

// User returns the stored profile, or nil if none is stored
func (p *Persisted) User(ctx context.Context) (*models.User, error) {
	raw, ok, err := p.storage.GetItem(ctx, UserKey)
	if err != nil || !ok {
		return nil, err
	}

	var u models.User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		return nil, fmt.Errorf("stored user is corrupt: %w", err)
	}
	return &u, nil
}

func (p *Persisted) SetUser(ctx context.Context, u *models.User) error {
	data, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("failed to encode user: %w", err)
	}
	return p.storage.SetItem(ctx, UserKey, string(data))
}

// Clear removes both token and user
func (p *Persisted) Clear(ctx context.Context) error {
	return errors.Join(
		p.storage.RemoveItem(ctx, TokenKey),
		p.storage.RemoveItem(ctx, UserKey),
	)
}
