// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/danielhkuo/quickpoll/metrics"
	"github.com/danielhkuo/quickpoll/middleware"
	"github.com/danielhkuo/quickpoll/models"
)

// maxBodySize caps how much of a response body is read
const maxBodySize = 4 << 20

// TokenStore holds the persisted bearer token.
// Clear is called when the API rejects the token.
type TokenStore interface {
	Token(ctx context.Context) (string, error)
	Clear(ctx context.Context) error
}

type Client struct {
	baseURL        string
	http           *http.Client
	timeout        time.Duration
	tokens         TokenStore
	metrics        *metrics.ClientMetrics
	base           http.RoundTripper
	onUnauthorized []func(ctx context.Context)
}

type Option func(*Client)

// WithTransport replaces the innermost transport (defaults to http.DefaultTransport)
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) { c.base = rt }
}

// WithTimeout bounds every request; zero means no limit beyond the caller's context
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

func WithTokenStore(ts TokenStore) Option {
	return func(c *Client) { c.tokens = ts }
}

func WithMetrics(m *metrics.ClientMetrics) Option {
	return func(c *Client) { c.metrics = m }
}

// OnUnauthorized registers a hook run after any 401, once the token store is cleared
func OnUnauthorized(fn func(ctx context.Context)) Option {
	return func(c *Client) { c.onUnauthorized = append(c.onUnauthorized, fn) }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
	}
	for _, opt := range opts {
		opt(c)
	}

	var tokens middleware.TokenSource
	if c.tokens != nil {
		tokens = c.tokens
	}

	c.http = &http.Client{
		Transport: middleware.Chain(c.base,
			middleware.WithRequestID,
			middleware.WithLogging,
			middleware.WithMetrics(c.metrics),
			middleware.WithBearer(tokens),
			middleware.WithUnauthorized(c.handleUnauthorized),
		),
	}

	return c
}

func (c *Client) handleUnauthorized(ctx context.Context) {
	slog.Info("API rejected credentials, clearing session")

	if c.tokens != nil {
		if err := c.tokens.Clear(ctx); err != nil {
			slog.Error("failed to clear session", "error", err)
		}
	}
	for _, fn := range c.onUnauthorized {
		fn(ctx)
	}
}

// Auth API

// Register creates an account. The server answers with the created user.
func (c *Client) Register(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	var user models.User
	if err := c.doJSON(ctx, http.MethodPost, "/auth/register", req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Login exchanges credentials for an access token. The body is form-encoded.
func (c *Client) Login(ctx context.Context, creds models.Credentials) (*models.TokenResponse, error) {
	form := url.Values{}
	form.Set("username", creds.Username)
	form.Set("password", creds.Password)

	var tok models.TokenResponse
	err := c.do(ctx, http.MethodPost, "/auth/login",
		strings.NewReader(form.Encode()), "application/x-www-form-urlencoded", &tok)
	if err != nil {
		return nil, err
	}
	if tok.AccessToken == "" {
		return nil, fmt.Errorf("login response carried no access token")
	}
	return &tok, nil
}

// Profile fetches the user the current token belongs to
func (c *Client) Profile(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := c.doJSON(ctx, http.MethodGet, "/auth/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Polls API

func (c *Client) ListPolls(ctx context.Context) ([]models.Poll, error) {
	polls := []models.Poll{}
	if err := c.doJSON(ctx, http.MethodGet, "/polls/", nil, &polls); err != nil {
		return nil, err
	}
	return polls, nil
}

func (c *Client) GetPoll(ctx context.Context, id int64) (*models.Poll, error) {
	var poll models.Poll
	if err := c.doJSON(ctx, http.MethodGet, "/polls/"+itoa(id), nil, &poll); err != nil {
		return nil, err
	}
	return &poll, nil
}

func (c *Client) CreatePoll(ctx context.Context, req models.CreatePollRequest) (*models.Poll, error) {
	var poll models.Poll
	if err := c.doJSON(ctx, http.MethodPost, "/polls/", req, &poll); err != nil {
		return nil, err
	}
	return &poll, nil
}

func (c *Client) DeletePoll(ctx context.Context, id int64) error {
	return c.doJSON(ctx, http.MethodDelete, "/polls/"+itoa(id), nil, nil)
}

// Votes API

func (c *Client) Vote(ctx context.Context, pollID, optionID int64) error {
	return c.doJSON(ctx, http.MethodPost, "/votes/", models.VoteRequest{PollID: pollID, OptionID: optionID}, nil)
}

func (c *Client) Results(ctx context.Context, pollID int64) ([]models.VoteResult, error) {
	results := []models.VoteResult{}
	if err := c.doJSON(ctx, http.MethodGet, "/votes/results/"+itoa(pollID), nil, &results); err != nil {
		return nil, err
	}
	return results, nil
}

// Likes API

func (c *Client) Like(ctx context.Context, pollID int64) error {
	return c.doJSON(ctx, http.MethodPost, "/likes/", models.LikeRequest{PollID: pollID}, nil)
}

func (c *Client) Unlike(ctx context.Context, pollID int64) error {
	return c.doJSON(ctx, http.MethodDelete, "/likes/"+itoa(pollID), nil, nil)
}

// doJSON encodes body (if any) as JSON and decodes the response into out (if any)
func (c *Client) doJSON(ctx context.Context, method, path string, body, out interface{}) error {
	var r io.Reader
	contentType := ""
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		r = bytes.NewReader(b)
		contentType = "application/json"
	}
	return c.do(ctx, method, path, r, contentType, out)
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, out interface{}) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return fmt.Errorf("%s %s: failed to read response: %w", method, path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{StatusCode: resp.StatusCode, Detail: parseDetail(data)}
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%s %s: failed to decode response: %w", method, path, err)
	}
	return nil
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
