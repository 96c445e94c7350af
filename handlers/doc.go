// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the Quickly Vote API.

# Handler Types

Each handler is a struct holding the shared election plus what it persists
to:

  - WorkflowHandler: phase transitions and the tally (owner only)
  - VotingHandler: voter registration, proposals and votes
  - ResultsHandler: election summary, proposals, voters, winner, event log

	workflow := handlers.NewWorkflowHandler(el, store, cfg)
	voting := handlers.NewVotingHandler(el, store, cfg)
	results := handlers.NewResultsHandler(el, events)

# Identity

Every request acts as the address in the X-Caller-Address header. Owner
operations also need X-Admin-Key, the HMAC of the owner address under the
configured salt. A missing or malformed header is a 401; a valid caller that
the election refuses is a 403.

# Workflow

	POST /voters                    → RegisterVoter (registering_voters)
	POST /workflow/proposals/start  → StartProposals
	POST /proposals                 → RegisterProposal (registered voters)
	POST /workflow/proposals/end    → EndProposals (needs a proposal)
	POST /workflow/voting/start     → StartVoting
	POST /votes                     → Vote (one per voter)
	POST /workflow/voting/end       → EndVoting
	POST /workflow/tally            → Tally (computes the winner)

# Persistence

After every successful mutation the handler saves a snapshot through
db.Store. Snapshots carry a sequence number and the store drops stale ones,
so concurrent requests need no extra ordering. A failed save is logged; the
change is already committed in memory and the next save includes it.

# Errors

Election errors map to statuses in one place (electionErrorStatus):

	ErrUnauthorized                          → 403
	ErrInvalidPhaseTransition, ErrAlreadyRegistered,
	ErrAlreadyVoted, ErrNoProposals          → 409
	ErrInvalidProposal, ErrNoVoteCast        → 404
	ErrDescriptionTooShort, ErrInvalidIdentity → 400
*/
package handlers
