// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the Quickly Vote API.

# Route Registration

NewRouter wires the handlers for one election:

	mux := router.NewRouter(el, store, events, cfg)

# Endpoints

Health:

	GET /health

Workflow (owner, requires X-Caller-Address and X-Admin-Key):

	POST /voters                   - Register a voter
	POST /workflow/proposals/start - Open proposal registration
	POST /workflow/proposals/end   - Close proposal registration
	POST /workflow/voting/start    - Open the voting session
	POST /workflow/voting/end      - Close the voting session
	POST /workflow/tally           - Tally votes and pick the winner

Voters (requires X-Caller-Address):

	POST /proposals - Submit a proposal
	POST /votes     - Cast the single vote

Views:

	GET /election              - Status, owner and counts
	GET /proposals             - All proposals
	GET /proposals/{id}        - One proposal
	GET /voters/{address}      - Voter record
	GET /voters/{address}/vote - Proposal the voter chose
	GET /winner                - Winning proposal (after tally)
	GET /events?after=&limit=  - Persisted event log

Proposal, voter and event views require a registered caller unless
VIEWS_REQUIRE_REGISTRATION is off. The election summary and the winner are
always public.
*/
package router
