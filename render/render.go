// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package render

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/quickpoll/models"
	"github.com/danielhkuo/quickpoll/tally"
)

// BarWidth is the width of a full percentage bar in cells
const BarWidth = 20

// Bar draws pct (0 to 100) as a fixed-width bar
func Bar(pct float64, width int) string {
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	filled := int(pct/100*float64(width) + 0.5)
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

// Card holds what a poll card needs beyond the poll itself
type Card struct {
	Poll models.Poll
	// Results overrides the option counts when set (detail view)
	Results []models.VoteResult
	Now     time.Time
}

// PollCard writes one poll: header, options with bars, footer
func PollCard(w io.Writer, c Card) {
	p := c.Poll
	now := c.Now
	if now.IsZero() {
		now = time.Now()
	}

	fmt.Fprintf(w, "#%d  %s\n", p.ID, p.Title)
	if p.Description != nil && *p.Description != "" {
		fmt.Fprintf(w, "    %s\n", *p.Description)
	}

	count := func(o models.Option) int { return o.VoteCount }
	total := tally.TotalVotes(p)
	if c.Results != nil {
		count = func(o models.Option) int { return tally.ResultFor(c.Results, o.ID).VoteCount }
		total = tally.TotalResults(c.Results)
	}

	for _, o := range p.Options {
		n := count(o)
		pct := tally.Percentage(n, total)
		mark := " "
		if p.UserVoted.Voted && p.UserVoted.OptionID == o.ID {
			mark = "✓"
		}
		fmt.Fprintf(w, "  %s [%d] %-24s %s %5.1f%% (%s)\n",
			mark, o.ID, o.Text, Bar(pct, BarWidth), pct, plural(n, "vote"))
	}

	owner := "unknown"
	if p.Owner != nil {
		owner = p.Owner.Username
	}
	heart := "♡"
	if p.UserLiked {
		heart = "♥"
	}
	fmt.Fprintf(w, "    %s · by %s · %s · %s %s\n",
		plural(total, "vote"), owner, humanize.RelTime(p.CreatedAt, now, "ago", "from now"),
		heart, plural(p.LikesCount, "like"))
	if p.UserVoted.Voted {
		fmt.Fprintln(w, "    You voted")
	}
}

// PollList writes each poll card separated by a blank line
func PollList(w io.Writer, polls []models.Poll, now time.Time) {
	if len(polls) == 0 {
		fmt.Fprintln(w, "No polls yet.")
		return
	}
	for i, p := range polls {
		if i > 0 {
			fmt.Fprintln(w)
		}
		PollCard(w, Card{Poll: p, Now: now})
	}
}

// Stats writes the dashboard totals
func Stats(w io.Writer, s tally.Stats) {
	fmt.Fprintf(w, "Polls: %s   Votes: %s   Likes: %s\n",
		humanize.Comma(int64(s.Polls)), humanize.Comma(int64(s.Votes)), humanize.Comma(int64(s.Likes)))
}

// Navbar writes who is signed in and what they can do
func Navbar(w io.Writer, user *models.User) {
	if user == nil {
		fmt.Fprintln(w, "QuickPoll · guest · commands: polls, show, login, register")
		return
	}
	fmt.Fprintf(w, "QuickPoll · %s · commands: polls, dashboard, create, vote, like, delete, logout\n", user.Username)
}

// User writes a profile
func User(w io.Writer, u *models.User, now time.Time) {
	fmt.Fprintf(w, "%s (id %d)\n", u.Username, u.ID)
	if u.Email != "" {
		fmt.Fprintf(w, "  email:  %s\n", u.Email)
	}
	if !u.CreatedAt.IsZero() {
		fmt.Fprintf(w, "  joined: %s\n", humanize.RelTime(u.CreatedAt, now, "ago", "from now"))
	}
}

func plural(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return humanize.Comma(int64(n)) + " " + word + "s"
}
