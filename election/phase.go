// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package election

import "fmt"

// Phase is one stage of the election workflow.
type Phase uint8

const (
	RegisteringVoters Phase = iota
	ProposalsRegistrationStarted
	ProposalsRegistrationEnded
	VotingSessionStarted
	VotingSessionEnded
	VotesTallied
)

var phaseNames = [...]string{
	RegisteringVoters:            "registering_voters",
	ProposalsRegistrationStarted: "proposals_registration_started",
	ProposalsRegistrationEnded:   "proposals_registration_ended",
	VotingSessionStarted:         "voting_session_started",
	VotingSessionEnded:           "voting_session_ended",
	VotesTallied:                 "votes_tallied",
}

// transitions is the only place the phase order is defined.
// Each phase maps to its single legal successor.
var transitions = map[Phase]Phase{
	RegisteringVoters:            ProposalsRegistrationStarted,
	ProposalsRegistrationStarted: ProposalsRegistrationEnded,
	ProposalsRegistrationEnded:   VotingSessionStarted,
	VotingSessionStarted:         VotingSessionEnded,
	VotingSessionEnded:           VotesTallied,
}

// Phases returns every phase in workflow order.
func Phases() []Phase {
	return []Phase{
		RegisteringVoters,
		ProposalsRegistrationStarted,
		ProposalsRegistrationEnded,
		VotingSessionStarted,
		VotingSessionEnded,
		VotesTallied,
	}
}

// Next returns the successor of p. ok is false for VotesTallied.
func (p Phase) Next() (next Phase, ok bool) {
	next, ok = transitions[p]
	return next, ok
}

// CanTransition reports whether to is the direct successor of p.
func (p Phase) CanTransition(to Phase) bool {
	next, ok := transitions[p]
	return ok && next == to
}

func (p Phase) Valid() bool {
	return int(p) < len(phaseNames)
}

func (p Phase) String() string {
	if !p.Valid() {
		return fmt.Sprintf("phase(%d)", uint8(p))
	}
	return phaseNames[p]
}

// MarshalText encodes the phase by name so JSON and SQL stay readable.
func (p Phase) MarshalText() ([]byte, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("unknown phase %d", uint8(p))
	}
	return []byte(p.String()), nil
}

func (p *Phase) UnmarshalText(text []byte) error {
	parsed, err := ParsePhase(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// ParsePhase is the inverse of Phase.String.
func ParsePhase(s string) (Phase, error) {
	for i, name := range phaseNames {
		if name == s {
			return Phase(i), nil
		}
	}
	return 0, fmt.Errorf("unknown phase %q", s)
}
