// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package tally

import (
	"math"

	"github.com/danielhkuo/quickpoll/models"
)

// Stats summarises a set of polls
type Stats struct {
	Polls int
	Votes int
	Likes int
}

// TotalVotes sums the option counts of a poll
func TotalVotes(p models.Poll) int {
	total := 0
	for _, o := range p.Options {
		total += o.VoteCount
	}
	return total
}

// TotalResults sums a results listing
func TotalResults(results []models.VoteResult) int {
	total := 0
	for _, r := range results {
		total += r.VoteCount
	}
	return total
}

// Percentage is count/total as a percent rounded to one decimal, or 0 when total is 0
func Percentage(count, total int) float64 {
	if total <= 0 {
		return 0
	}
	return math.Round(float64(count)/float64(total)*1000) / 10
}

// ResultFor finds the result row for an option. Missing options count as zero votes.
func ResultFor(results []models.VoteResult, optionID int64) models.VoteResult {
	for _, r := range results {
		if r.OptionID == optionID {
			return r
		}
	}
	return models.VoteResult{OptionID: optionID}
}

// Summarize totals polls, votes and likes across polls
func Summarize(polls []models.Poll) Stats {
	s := Stats{Polls: len(polls)}
	for _, p := range polls {
		s.Votes += TotalVotes(p)
		s.Likes += p.LikesCount
	}
	return s
}

// OwnedBy keeps the polls whose owner is u, preserving order
func OwnedBy(polls []models.Poll, u *models.User) []models.Poll {
	out := make([]models.Poll, 0, len(polls))
	for _, p := range polls {
		if p.OwnedBy(u) {
			out = append(out, p)
		}
	}
	return out
}
