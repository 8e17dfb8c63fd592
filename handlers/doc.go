// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains the command handlers behind the quickpoll CLI.

# Handler Types

Each handler is a struct built from a shared Env:

  - AccountHandler: register, login, logout, whoami
  - PollHandler: polls, dashboard, show, create, delete
  - VotingHandler: vote, like
  - ResultsHandler: watch

Handlers are created via constructor functions:

	pollHandler := handlers.NewPollHandler(env)

Every handler method has the same shape, so the router can register them
directly:

	func(ctx context.Context, args []string) error

# Commands

	register [-u name] [-e email] [-p password]
	login    [-u name] [-p password]     missing fields are prompted for
	polls                                 every poll
	dashboard                             your polls and totals
	show <poll>                           one poll with results
	create -title T [-desc D] <opt>...    2 to 10 options
	vote <poll> <option>                  option by id or text
	like <poll>                           like, or unlike if already liked
	delete <poll>                         owner only, asks to confirm
	watch [-interval d] [-count n] <poll> redraw until Ctrl-C

Bad arguments return an error wrapping ErrUsage.

# Watch

watch reloads the poll detail on a ticker. With -metrics-addr it also serves
the client's prometheus metrics at /metrics for as long as it runs.
*/
package handlers
