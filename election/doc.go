// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package election implements the single-election voting workflow.

# Phases

An election moves through six phases, always to the direct successor:

	registering_voters → proposals_registration_started →
	proposals_registration_ended → voting_session_started →
	voting_session_ended → votes_tallied

Only the owner can advance the phase or register voters:

	e, err := election.New(owner)
	err = e.Register(owner, alice)
	err = e.StartProposalsRegistration(owner)

# Voting

Registered voters submit proposals while proposal registration is open and
cast exactly one vote while the voting session is open:

	id, err := e.RegisterProposal(alice, "Build more parks")
	err = e.Vote(alice, id)

Every guard runs before any state changes, so a failed call leaves the
election untouched. Errors wrap the sentinel values in errors.go and are
matched with errors.Is.

# Tally

TallyVotes picks the proposal with the most votes. Ties are resolved by the
policy's TieBreaker:

  - SimpleMax: the lowest id wins
  - KeccakTieBreak: keccak256(timestamp, caller, index) % 100 >= 50 switches
  - SeededTieBreak: uniform choice among tied proposals, reproducible by seed

# Events

Each committed change is published to an EventSink in commit order:
voter_registered, workflow_status_change, proposal_registered and voted.

# Persistence

Snapshot returns a consistent copy of the state and Restore rebuilds an
election from one after checking every invariant.
*/
package election
