// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and view types for the API.

# Request Types

Types for parsing incoming JSON:

  - RegisterVoterRequest: address
  - RegisterProposalRequest: description
  - VoteRequest: proposal_id

# Response Types

Types for JSON responses:

  - RegisterVoterResponse: address
  - RegisterProposalResponse: proposal_id
  - VoteResponse: proposal_id, message
  - PhaseChangeResponse: previous, current
  - TallyResponse: status, winner, summary
  - ProposalsResponse: proposals
  - VoterResponse: address, is_registered, has_voted, voted_proposal_id
  - VotedProposalResponse: address, proposal_id
  - WinnerResponse: winner, summary
  - EventsResponse: events
  - ErrorResponse: error, message

# View Types

  - ProposalView: id, description, vote_count
  - EventRecord: a persisted election event with its JSON payload

# Headers

	HeaderCaller   = "X-Caller-Address"
	HeaderAdminKey = "X-Admin-Key"

Phases serialize by name, e.g. "voting_session_started".
*/
package models
