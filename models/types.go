// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Poll option limits
const (
	MinOptions = 2
	MaxOptions = 10
)

// Draft field limits
const (
	MaxTitleLen       = 200
	MaxDescriptionLen = 500
	MaxOptionLen      = 100
)

// Request types

type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type OptionInput struct {
	Text string `json:"text"`
}

type CreatePollRequest struct {
	Title       string        `json:"title"`
	Description *string       `json:"description"`
	Options     []OptionInput `json:"options"`
}

type VoteRequest struct {
	PollID   int64 `json:"poll_id"`
	OptionID int64 `json:"option_id"`
}

type LikeRequest struct {
	PollID int64 `json:"poll_id"`
}

// Response types

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type,omitempty"`
}

// ErrorResponse is the error body returned by the API. Detail is either a
// string or a list of validation errors.
type ErrorResponse struct {
	Detail json.RawMessage `json:"detail,omitempty"`
}

// Domain types

type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email,omitempty"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

type Option struct {
	ID        int64  `json:"id"`
	Text      string `json:"text"`
	VoteCount int    `json:"vote_count"`
}

type Poll struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	Owner       *User     `json:"owner,omitempty"`
	Options     []Option  `json:"options"`
	LikesCount  int       `json:"likes_count"`
	UserVoted   VoteMark  `json:"user_voted"`
	UserLiked   bool      `json:"user_liked"`
}

// OwnedBy reports whether the poll belongs to the given user.
func (p Poll) OwnedBy(u *User) bool {
	return u != nil && p.Owner != nil && p.Owner.ID == u.ID
}

type VoteResult struct {
	OptionID  int64 `json:"option_id"`
	VoteCount int   `json:"vote_count"`
}

// VoteMark records whether the current user voted on a poll.
// The API sends it as a bool, as the chosen option id, or as null.
type VoteMark struct {
	Voted    bool
	OptionID int64 // 0 when unknown
}

func (m VoteMark) MarshalJSON() ([]byte, error) {
	switch {
	case m.OptionID != 0:
		return json.Marshal(m.OptionID)
	default:
		return json.Marshal(m.Voted)
	}
}

func (m *VoteMark) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*m = VoteMark{}

	switch {
	case bytes.Equal(data, []byte("null")), bytes.Equal(data, []byte("false")):
		return nil
	case bytes.Equal(data, []byte("true")):
		m.Voted = true
		return nil
	}

	var id int64
	if err := json.Unmarshal(data, &id); err != nil {
		return fmt.Errorf("user_voted: unsupported value %s", data)
	}
	m.Voted = true
	m.OptionID = id
	return nil
}
