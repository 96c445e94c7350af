// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package election

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// Summary is the public overview of an election.
type Summary struct {
	Owner         common.Address `json:"owner"`
	Status        Phase          `json:"status"`
	VoterCount    int            `json:"voter_count"`
	ProposalCount int            `json:"proposal_count"`
	VotesCast     int            `json:"votes_cast"`
	WinnerID      *int           `json:"winning_proposal_id,omitempty"`
}

func (e *Election) Status() Phase {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.status
}

func (e *Election) Owner() common.Address {
	return e.owner
}

func (e *Election) Policy() Policy {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.policy
}

func (e *Election) Summary() Summary {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := Summary{
		Owner:         e.owner,
		Status:        e.status,
		VoterCount:    len(e.voters),
		ProposalCount: len(e.proposals),
	}
	for _, v := range e.voters {
		if v.HasVoted {
			s.VotesCast++
		}
	}
	if e.tallied {
		id := e.winner
		s.WinnerID = &id
	}
	return s
}

func (e *Election) requireViewer(caller common.Address) error {
	if !e.policy.ViewsRequireRegistration {
		return nil
	}
	return e.requireRegistered(caller)
}

// CanView reports, as an error, whether caller may read voter and proposal
// data under the current policy.
func (e *Election) CanView(caller common.Address) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.requireViewer(caller)
}

// Proposals returns a copy of every proposal in id order.
func (e *Election) Proposals(caller common.Address) ([]Proposal, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.requireViewer(caller); err != nil {
		return nil, err
	}
	out := make([]Proposal, len(e.proposals))
	copy(out, e.proposals)
	return out, nil
}

func (e *Election) Proposal(caller common.Address, id int) (Proposal, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.requireViewer(caller); err != nil {
		return Proposal{}, err
	}
	if id < 0 || id >= len(e.proposals) {
		return Proposal{}, fmt.Errorf("proposal %d: %w", id, ErrInvalidProposal)
	}
	return e.proposals[id], nil
}

// Voter returns the record for identity. Unknown identities yield a zero
// Voter, not an error.
func (e *Election) Voter(caller, identity common.Address) (Voter, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.requireViewer(caller); err != nil {
		return Voter{}, err
	}
	return e.voters[identity], nil
}

// VotedProposalID returns the proposal voter voted for.
func (e *Election) VotedProposalID(caller, voter common.Address) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.requireViewer(caller); err != nil {
		return 0, err
	}
	v := e.voters[voter]
	if !v.HasVoted {
		return 0, fmt.Errorf("%s: %w", voter.Hex(), ErrNoVoteCast)
	}
	return v.VotedProposalID, nil
}

// Winner returns the winning proposal once votes are tallied.
func (e *Election) Winner() (int, Proposal, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.requirePhase(VotesTallied); err != nil {
		return 0, Proposal{}, err
	}
	return e.winner, e.proposals[e.winner], nil
}
