// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package tally

import (
	"math"
	"testing"

	"github.com/danielhkuo/quickpoll/models"
)

func pollWith(counts ...int) models.Poll {
	p := models.Poll{}
	for i, c := range counts {
		p.Options = append(p.Options, models.Option{ID: int64(i + 1), VoteCount: c})
	}
	return p
}

func TestPercentage(t *testing.T) {
	tests := []struct {
		name         string
		count, total int
		want         float64
	}{
		{"zero total", 0, 0, 0},
		{"zero total nonzero count", 3, 0, 0},
		{"half", 2, 4, 50.0},
		{"third", 1, 3, 33.3},
		{"two thirds", 2, 3, 66.7},
		{"all", 7, 7, 100.0},
		{"none", 0, 9, 0},
		{"one of eight", 1, 8, 12.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Percentage(tt.count, tt.total); got != tt.want {
				t.Errorf("Percentage(%d, %d) = %v, want %v", tt.count, tt.total, got, tt.want)
			}
		})
	}
}

func TestPercentage_ZeroVotesAllZero(t *testing.T) {
	p := pollWith(0, 0, 0, 0)
	total := TotalVotes(p)
	for _, o := range p.Options {
		if got := Percentage(o.VoteCount, total); got != 0 {
			t.Errorf("Expected 0%% for option %d, got %v", o.ID, got)
		}
	}
}

func TestPercentage_SumsToHundred(t *testing.T) {
	cases := [][]int{
		{1, 1, 1},
		{2, 2},
		{1, 2, 3, 4, 5, 6, 7},
		{13, 0, 29, 1},
		{1, 1, 1, 1, 1, 1, 1, 1, 1, 1},
		{999, 1},
	}

	for _, counts := range cases {
		p := pollWith(counts...)
		total := TotalVotes(p)

		sum := 0.0
		for _, o := range p.Options {
			sum += Percentage(o.VoteCount, total)
		}
		// Each option rounds by at most 0.05
		tolerance := 0.05*float64(len(counts)) + 1e-9
		if math.Abs(sum-100) > tolerance {
			t.Errorf("counts %v: percentages sum to %v, outside ±%v", counts, sum, tolerance)
		}
	}
}

func TestTotals(t *testing.T) {
	if got := TotalVotes(pollWith(2, 2)); got != 4 {
		t.Errorf("TotalVotes() = %d, want 4", got)
	}
	if got := TotalVotes(models.Poll{}); got != 0 {
		t.Errorf("TotalVotes() of empty poll = %d, want 0", got)
	}

	results := []models.VoteResult{{OptionID: 1, VoteCount: 3}, {OptionID: 2, VoteCount: 5}}
	if got := TotalResults(results); got != 8 {
		t.Errorf("TotalResults() = %d, want 8", got)
	}
	if got := ResultFor(results, 2).VoteCount; got != 5 {
		t.Errorf("ResultFor(2) = %d, want 5", got)
	}
	if got := ResultFor(results, 9); got.VoteCount != 0 || got.OptionID != 9 {
		t.Errorf("ResultFor(missing) = %+v, want zero count", got)
	}
}

func TestSummarizeOwned(t *testing.T) {
	alice := &models.User{ID: 1, Username: "alice"}
	bob := &models.User{ID: 2, Username: "bob"}

	a := pollWith(2, 2)
	a.ID, a.Owner, a.LikesCount = 10, alice, 3
	b := pollWith(5)
	b.ID, b.Owner, b.LikesCount = 11, bob, 1
	c := pollWith(1, 0, 1)
	c.ID, c.Owner = 12, alice
	orphan := pollWith(4)
	orphan.ID = 13

	owned := OwnedBy([]models.Poll{a, b, c, orphan}, alice)
	if len(owned) != 2 || owned[0].ID != 10 || owned[1].ID != 12 {
		t.Fatalf("OwnedBy() = %+v", owned)
	}

	stats := Summarize(owned)
	want := Stats{Polls: 2, Votes: 6, Likes: 3}
	if stats != want {
		t.Errorf("Summarize() = %+v, want %+v", stats, want)
	}

	if got := OwnedBy([]models.Poll{a}, nil); len(got) != 0 {
		t.Errorf("OwnedBy(nil user) = %+v, want none", got)
	}
}
