// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package views holds the state behind each QuickPoll screen.

# Screens

	Home            every poll; vote and like inline
	Dashboard       the signed-in user's polls, stats, delete
	PollDetail      one poll with results and percentages
	CreatePollForm  title, description, 2 to 10 options

Each view is built from Deps:

	deps := views.Deps{
		API:     client,          // *apiclient.Client
		Session: store,           // *session.Store
		Notify:  toaster,         // success / error messages
		Nav:     router,          // "/", "/login", "/dashboard", "/poll/{id}"
		Confirm: render.Confirm,  // asked before deletes
	}

# Mutations

Every vote, like, unlike or delete is followed by a refetch, so what the view
holds always comes from the server. Dashboard drops a deleted poll locally
before refetching.

Vote and like check the session first and never send a request while signed
out. A poll already voted on is refused with ErrAlreadyVoted.

# Loads

Load can be called again at any time. Only the most recent Load is applied;
an older one that finishes later is dropped. Close cancels whatever is in
flight and a cancelled Load applies nothing, sends no notification and does
not navigate.
*/
package views
