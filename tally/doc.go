// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package tally computes vote totals, percentages and dashboard stats.

Percentages are rounded to one decimal place and are 0 when a poll has no
votes, so the shares of a poll sum to 100 within rounding error:

	tally.Percentage(1, 3)  // 33.3
	tally.Percentage(2, 3)  // 66.7
	tally.Percentage(0, 0)  // 0
*/
package tally
