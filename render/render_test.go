// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package render

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/danielhkuo/quickpoll/models"
	"github.com/danielhkuo/quickpoll/tally"
	"github.com/danielhkuo/quickpoll/testutil"
)

func samplePoll(now time.Time) models.Poll {
	return models.Poll{
		ID:          7,
		Title:       "A or B",
		Description: testutil.Ptr("pick one"),
		CreatedAt:   now.Add(-time.Hour),
		Owner:       &models.User{ID: 1, Username: "alice"},
		Options: []models.Option{
			{ID: 10, Text: "A", VoteCount: 1},
			{ID: 11, Text: "B", VoteCount: 3},
		},
		LikesCount: 1,
	}
}

func TestBar(t *testing.T) {
	tests := []struct {
		pct    float64
		filled int
	}{
		{0, 0},
		{50, 10},
		{100, 20},
		{140, 20},
		{-5, 0},
		{33.3, 7},
	}

	for _, tt := range tests {
		bar := Bar(tt.pct, BarWidth)
		if got := strings.Count(bar, "█"); got != tt.filled {
			t.Errorf("Bar(%v) filled = %d, want %d", tt.pct, got, tt.filled)
		}
		if got := len([]rune(bar)); got != BarWidth {
			t.Errorf("Bar(%v) width = %d, want %d", tt.pct, got, BarWidth)
		}
	}
}

func TestPollCard(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	p := samplePoll(now)
	p.UserVoted = models.VoteMark{Voted: true, OptionID: 11}
	p.UserLiked = true

	var buf bytes.Buffer
	PollCard(&buf, Card{Poll: p, Now: now})
	out := buf.String()

	for _, want := range []string{
		"#7  A or B",
		"pick one",
		"25.0%",
		"75.0%",
		"4 votes",
		"by alice",
		"1 hour ago",
		"♥ 1 like",
		"✓ [11] B",
		"You voted",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in card:\n%s", want, out)
		}
	}
}

func TestPollCard_ResultsOverrideCounts(t *testing.T) {
	now := time.Now()
	p := samplePoll(now)

	var buf bytes.Buffer
	PollCard(&buf, Card{Poll: p, Now: now, Results: []models.VoteResult{{OptionID: 10, VoteCount: 5}}})
	out := buf.String()

	if !strings.Contains(out, "100.0%") || !strings.Contains(out, "5 votes") {
		t.Errorf("Expected counts from results:\n%s", out)
	}
	if strings.Contains(out, "You voted") {
		t.Error("Unvoted poll must not show a vote marker")
	}
}

func TestPollList_Empty(t *testing.T) {
	var buf bytes.Buffer
	PollList(&buf, nil, time.Now())
	if !strings.Contains(buf.String(), "No polls yet.") {
		t.Errorf("Unexpected output %q", buf.String())
	}
}

func TestStats(t *testing.T) {
	var buf bytes.Buffer
	Stats(&buf, tally.Stats{Polls: 3, Votes: 12345, Likes: 2})
	if !strings.Contains(buf.String(), "Votes: 12,345") {
		t.Errorf("Expected comma-separated votes, got %q", buf.String())
	}
}

func TestNavbar(t *testing.T) {
	var buf bytes.Buffer
	Navbar(&buf, nil)
	if !strings.Contains(buf.String(), "guest") {
		t.Errorf("Expected guest navbar, got %q", buf.String())
	}

	buf.Reset()
	Navbar(&buf, &models.User{Username: "alice"})
	if !strings.Contains(buf.String(), "alice") || !strings.Contains(buf.String(), "logout") {
		t.Errorf("Expected signed-in navbar, got %q", buf.String())
	}
}

func TestToaster(t *testing.T) {
	var buf bytes.Buffer
	toast := NewToaster(&buf)
	toast.Success("Vote recorded!")
	toast.Error("Failed to vote")

	want := "✓ Vote recorded!\n✗ Failed to vote\n"
	if buf.String() != want {
		t.Errorf("Toaster wrote %q, want %q", buf.String(), want)
	}
}

func TestPrompter_Confirm(t *testing.T) {
	tests := []struct {
		input     string
		assumeYes bool
		want      bool
	}{
		{"y\n", false, true},
		{"YES\n", false, true},
		{"n\n", false, false},
		{"\n", false, false},
		{"", false, false},
		{"", true, true},
	}

	for _, tt := range tests {
		var out bytes.Buffer
		p := NewPrompter(strings.NewReader(tt.input), &out, tt.assumeYes)
		if got := p.Confirm("Delete?"); got != tt.want {
			t.Errorf("Confirm(%q, yes=%v) = %v, want %v", tt.input, tt.assumeYes, got, tt.want)
		}
	}
}

func TestSpinner_NotATerminal(t *testing.T) {
	var buf bytes.Buffer
	s := NewSpinner(&buf)
	s.Start("Loading...")
	s.Start("Loading...")
	s.Stop()
	s.Stop()

	if buf.String() != "Loading...\n" {
		t.Errorf("Expected a single plain line, got %q", buf.String())
	}
}
