// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/danielhkuo/quickpoll/middleware"
	"github.com/danielhkuo/quickpoll/models"
)

// FakeAPI is an in-memory QuickPoll backend served over httptest.
// It mirrors the real API's routes, status codes and detail messages.
type FakeAPI struct {
	Server *httptest.Server

	mu       sync.Mutex
	nextID   int64
	users    map[string]*fakeUser // by username
	tokens   map[string]string    // token -> username
	polls    map[int64]*fakePoll
	failures map[string]failure // "METHOD /path" -> injected failure
	calls    map[string]int     // "METHOD /path" -> count
	requests []*http.Request
}

type fakeUser struct {
	models.User
	password string
}

type fakePoll struct {
	id          int64
	title       string
	description *string
	createdAt   time.Time
	owner       int64
	options     []models.Option
	votes       map[int64]int64 // user id -> option id
	likes       map[int64]bool
}

type failure struct {
	status int
	detail string
}

// NewFakeAPI starts a fake backend that is shut down when the test ends
func NewFakeAPI(t *testing.T) *FakeAPI {
	t.Helper()

	f := &FakeAPI{
		users:    make(map[string]*fakeUser),
		tokens:   make(map[string]string),
		polls:    make(map[int64]*fakePoll),
		failures: make(map[string]failure),
		calls:    make(map[string]int),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/register", f.register)
	mux.HandleFunc("POST /auth/login", f.login)
	mux.HandleFunc("GET /auth/me", f.me)
	mux.HandleFunc("GET /polls/{$}", f.listPolls)
	mux.HandleFunc("POST /polls/{$}", f.createPoll)
	mux.HandleFunc("GET /polls/{id}", f.getPoll)
	mux.HandleFunc("DELETE /polls/{id}", f.deletePoll)
	mux.HandleFunc("POST /votes/{$}", f.vote)
	mux.HandleFunc("GET /votes/results/{id}", f.results)
	mux.HandleFunc("POST /likes/{$}", f.like)
	mux.HandleFunc("DELETE /likes/{id}", f.unlike)

	f.Server = httptest.NewServer(f.intercept(mux))
	t.Cleanup(f.Server.Close)

	return f
}

// URL is the base URL to hand to the API client
func (f *FakeAPI) URL() string {
	return f.Server.URL
}

// FailOn makes every request matching method and path fail with status and detail.
// An empty detail sends an error body without one.
func (f *FakeAPI) FailOn(method, path string, status int, detail string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[method+" "+path] = failure{status: status, detail: detail}
}

// ClearFailures removes all injected failures
func (f *FakeAPI) ClearFailures() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures = make(map[string]failure)
}

// RevokeTokens invalidates every issued token, so the next authenticated call gets 401
func (f *FakeAPI) RevokeTokens() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokens = make(map[string]string)
}

// Calls returns how many times method path was requested
func (f *FakeAPI) Calls(method, path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[method+" "+path]
}

// LastRequest returns the most recent request seen by the fake
func (f *FakeAPI) LastRequest() *http.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.requests) == 0 {
		return nil
	}
	return f.requests[len(f.requests)-1]
}

// AddUser registers a user directly and returns it
func (f *FakeAPI) AddUser(username, password string) models.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.addUserLocked(username, username+"@example.com", password)
}

// IssueToken logs a user in without going through the API
func (f *FakeAPI) IssueToken(username string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.issueTokenLocked(username)
}

// AddPoll creates a poll owned by owner. counts seeds anonymous votes per option.
func (f *FakeAPI) AddPoll(owner string, title string, options []string, counts ...int) models.Poll {
	f.mu.Lock()
	defer f.mu.Unlock()

	u, ok := f.users[owner]
	if !ok {
		panic("testutil: unknown poll owner " + owner)
	}

	p := &fakePoll{
		id:        f.newIDLocked(),
		title:     title,
		createdAt: time.Now().Add(-time.Hour),
		owner:     u.ID,
		votes:     make(map[int64]int64),
		likes:     make(map[int64]bool),
	}
	for i, text := range options {
		opt := models.Option{ID: f.newIDLocked(), Text: text}
		if i < len(counts) {
			opt.VoteCount = counts[i]
		}
		p.options = append(p.options, opt)
	}
	f.polls[p.id] = p

	return f.renderLocked(p, 0)
}

// HasPoll reports whether a poll still exists
func (f *FakeAPI) HasPoll(id int64) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.polls[id]
	return ok
}

func (f *FakeAPI) intercept(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Method + " " + r.URL.Path

		f.mu.Lock()
		f.calls[key]++
		f.requests = append(f.requests, r.Clone(r.Context()))
		fail, failing := f.failures[key]
		f.mu.Unlock()

		if failing {
			if fail.detail == "" {
				middleware.JSONResponse(w, fail.status, map[string]string{})
				return
			}
			middleware.ErrorResponse(w, fail.status, fail.detail)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// Handlers

func (f *FakeAPI) register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusUnprocessableEntity, "Invalid JSON")
		return
	}
	if req.Username == "" || req.Password == "" {
		middleware.JSONResponse(w, http.StatusUnprocessableEntity, map[string]interface{}{
			"detail": []map[string]string{{"msg": "Field required"}},
		})
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if _, exists := f.users[req.Username]; exists {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Username already registered")
		return
	}
	u := f.addUserLocked(req.Username, req.Email, req.Password)
	middleware.JSONResponse(w, http.StatusOK, u)
}

func (f *FakeAPI) login(w http.ResponseWriter, r *http.Request) {
	if ct := r.Header.Get("Content-Type"); !strings.HasPrefix(ct, "application/x-www-form-urlencoded") {
		middleware.ErrorResponse(w, http.StatusUnprocessableEntity, "Expected form data")
		return
	}
	if err := r.ParseForm(); err != nil {
		middleware.ErrorResponse(w, http.StatusUnprocessableEntity, "Invalid form")
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	u, ok := f.users[r.PostForm.Get("username")]
	if !ok || u.password != r.PostForm.Get("password") {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Incorrect username or password")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.TokenResponse{
		AccessToken: f.issueTokenLocked(u.Username),
		TokenType:   "bearer",
	})
}

func (f *FakeAPI) me(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	u := f.callerLocked(r)
	if u == nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Could not validate credentials")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, u.User)
}

func (f *FakeAPI) listPolls(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	caller, ok := f.optionalCallerLocked(w, r)
	if !ok {
		return
	}

	ids := make([]int64, 0, len(f.polls))
	for id := range f.polls {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	polls := make([]models.Poll, 0, len(ids))
	for _, id := range ids {
		polls = append(polls, f.renderLocked(f.polls[id], caller))
	}
	middleware.JSONResponse(w, http.StatusOK, polls)
}

func (f *FakeAPI) getPoll(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	caller, ok := f.optionalCallerLocked(w, r)
	if !ok {
		return
	}
	p := f.pollLocked(w, r.PathValue("id"))
	if p == nil {
		return
	}
	middleware.JSONResponse(w, http.StatusOK, f.renderLocked(p, caller))
}

func (f *FakeAPI) createPoll(w http.ResponseWriter, r *http.Request) {
	var req models.CreatePollRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusUnprocessableEntity, "Invalid JSON")
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	u := f.callerLocked(r)
	if u == nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Not authenticated")
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Poll title is required")
		return
	}
	if len(req.Options) < models.MinOptions || len(req.Options) > models.MaxOptions {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Poll must have between 2 and 10 options")
		return
	}

	p := &fakePoll{
		id:          f.newIDLocked(),
		title:       req.Title,
		description: req.Description,
		createdAt:   time.Now(),
		owner:       u.ID,
		votes:       make(map[int64]int64),
		likes:       make(map[int64]bool),
	}
	for _, o := range req.Options {
		p.options = append(p.options, models.Option{ID: f.newIDLocked(), Text: o.Text})
	}
	f.polls[p.id] = p

	middleware.JSONResponse(w, http.StatusOK, f.renderLocked(p, u.ID))
}

func (f *FakeAPI) deletePoll(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	u := f.callerLocked(r)
	if u == nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Not authenticated")
		return
	}
	p := f.pollLocked(w, r.PathValue("id"))
	if p == nil {
		return
	}
	if p.owner != u.ID {
		middleware.ErrorResponse(w, http.StatusForbidden, "Not authorized to delete this poll")
		return
	}
	delete(f.polls, p.id)
	w.WriteHeader(http.StatusNoContent)
}

func (f *FakeAPI) vote(w http.ResponseWriter, r *http.Request) {
	var req models.VoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusUnprocessableEntity, "Invalid JSON")
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	u := f.callerLocked(r)
	if u == nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Not authenticated")
		return
	}
	p, ok := f.polls[req.PollID]
	if !ok {
		middleware.ErrorResponse(w, http.StatusNotFound, "Poll not found")
		return
	}
	idx := -1
	for i, o := range p.options {
		if o.ID == req.OptionID {
			idx = i
		}
	}
	if idx < 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid option for this poll")
		return
	}
	if _, voted := p.votes[u.ID]; voted {
		middleware.ErrorResponse(w, http.StatusBadRequest, "You have already voted on this poll")
		return
	}

	p.votes[u.ID] = req.OptionID
	p.options[idx].VoteCount++
	middleware.JSONResponse(w, http.StatusOK, map[string]string{"message": "Vote recorded"})
}

func (f *FakeAPI) results(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	p := f.pollLocked(w, r.PathValue("id"))
	if p == nil {
		return
	}
	results := make([]models.VoteResult, 0, len(p.options))
	for _, o := range p.options {
		results = append(results, models.VoteResult{OptionID: o.ID, VoteCount: o.VoteCount})
	}
	middleware.JSONResponse(w, http.StatusOK, results)
}

func (f *FakeAPI) like(w http.ResponseWriter, r *http.Request) {
	var req models.LikeRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusUnprocessableEntity, "Invalid JSON")
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	u := f.callerLocked(r)
	if u == nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Not authenticated")
		return
	}
	p, ok := f.polls[req.PollID]
	if !ok {
		middleware.ErrorResponse(w, http.StatusNotFound, "Poll not found")
		return
	}
	if p.likes[u.ID] {
		middleware.ErrorResponse(w, http.StatusBadRequest, "You have already liked this poll")
		return
	}
	p.likes[u.ID] = true
	middleware.JSONResponse(w, http.StatusOK, map[string]string{"message": "Poll liked successfully"})
}

func (f *FakeAPI) unlike(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	u := f.callerLocked(r)
	if u == nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Not authenticated")
		return
	}
	p := f.pollLocked(w, r.PathValue("id"))
	if p == nil {
		return
	}
	if !p.likes[u.ID] {
		middleware.ErrorResponse(w, http.StatusBadRequest, "You have not liked this poll")
		return
	}
	delete(p.likes, u.ID)
	middleware.JSONResponse(w, http.StatusOK, map[string]string{"message": "Poll unliked successfully"})
}

// Helpers; callers hold f.mu

func (f *FakeAPI) newIDLocked() int64 {
	f.nextID++
	return f.nextID
}

func (f *FakeAPI) addUserLocked(username, email, password string) models.User {
	u := &fakeUser{
		User: models.User{
			ID:        f.newIDLocked(),
			Username:  username,
			Email:     email,
			CreatedAt: time.Now().UTC().Truncate(time.Second),
		},
		password: password,
	}
	f.users[username] = u
	return u.User
}

func (f *FakeAPI) issueTokenLocked(username string) string {
	token := fmt.Sprintf("tok-%s-%d", username, f.newIDLocked())
	f.tokens[token] = username
	return token
}

func (f *FakeAPI) callerLocked(r *http.Request) *fakeUser {
	token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok {
		return nil
	}
	username, ok := f.tokens[token]
	if !ok {
		return nil
	}
	return f.users[username]
}

// optionalCallerLocked allows anonymous reads but rejects a bad token with 401
func (f *FakeAPI) optionalCallerLocked(w http.ResponseWriter, r *http.Request) (int64, bool) {
	if r.Header.Get("Authorization") == "" {
		return 0, true
	}
	u := f.callerLocked(r)
	if u == nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Could not validate credentials")
		return 0, false
	}
	return u.ID, true
}

func (f *FakeAPI) pollLocked(w http.ResponseWriter, rawID string) *fakePoll {
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusUnprocessableEntity, "Invalid poll id")
		return nil
	}
	p, ok := f.polls[id]
	if !ok {
		middleware.ErrorResponse(w, http.StatusNotFound, "Poll not found")
		return nil
	}
	return p
}

func (f *FakeAPI) renderLocked(p *fakePoll, caller int64) models.Poll {
	var owner *models.User
	for _, u := range f.users {
		if u.ID == p.owner {
			ou := u.User
			owner = &ou
		}
	}

	out := models.Poll{
		ID:          p.id,
		Title:       p.title,
		Description: p.description,
		CreatedAt:   p.createdAt,
		Owner:       owner,
		Options:     append([]models.Option(nil), p.options...),
		LikesCount:  len(p.likes),
	}
	if caller != 0 {
		if opt, ok := p.votes[caller]; ok {
			out.UserVoted = models.VoteMark{Voted: true, OptionID: opt}
		}
		out.UserLiked = p.likes[caller]
	}
	return out
}
