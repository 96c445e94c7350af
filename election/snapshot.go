// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package election

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// Snapshot is a consistent copy of the election state, used to persist and
// restore it. Seq increases with every committed mutation.
type Snapshot struct {
	Seq               uint64
	Owner             common.Address
	Status            Phase
	Voters            map[common.Address]Voter
	Proposals         []Proposal
	WinningProposalID *int
}

func (e *Election) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := Snapshot{
		Seq:       e.seq,
		Owner:     e.owner,
		Status:    e.status,
		Voters:    make(map[common.Address]Voter, len(e.voters)),
		Proposals: make([]Proposal, len(e.proposals)),
	}
	for addr, v := range e.voters {
		s.Voters[addr] = v
	}
	copy(s.Proposals, e.proposals)
	if e.tallied {
		id := e.winner
		s.WinningProposalID = &id
	}
	return s
}

// Validate checks that s could have been produced by a legal sequence of
// operations.
func (s Snapshot) Validate() error {
	if s.Owner == (common.Address{}) {
		return fmt.Errorf("zero owner: %w", ErrInvalidSnapshot)
	}
	if !s.Status.Valid() {
		return fmt.Errorf("status %d: %w", uint8(s.Status), ErrInvalidSnapshot)
	}
	if s.Status < ProposalsRegistrationStarted && len(s.Proposals) > 0 {
		return fmt.Errorf("proposals in %s: %w", s.Status, ErrInvalidSnapshot)
	}
	if s.Status >= ProposalsRegistrationEnded && len(s.Proposals) == 0 {
		return fmt.Errorf("no proposals in %s: %w", s.Status, ErrInvalidSnapshot)
	}

	counts := make([]uint64, len(s.Proposals))
	for addr, v := range s.Voters {
		if addr == (common.Address{}) {
			return fmt.Errorf("zero voter address: %w", ErrInvalidSnapshot)
		}
		if !v.IsRegistered {
			return fmt.Errorf("unregistered voter %s: %w", addr.Hex(), ErrInvalidSnapshot)
		}
		if !v.HasVoted {
			continue
		}
		if s.Status < VotingSessionStarted {
			return fmt.Errorf("vote recorded in %s: %w", s.Status, ErrInvalidSnapshot)
		}
		if v.VotedProposalID < 0 || v.VotedProposalID >= len(s.Proposals) {
			return fmt.Errorf("voter %s voted for unknown proposal %d: %w", addr.Hex(), v.VotedProposalID, ErrInvalidSnapshot)
		}
		counts[v.VotedProposalID]++
	}

	var maxVotes uint64
	for i, p := range s.Proposals {
		if p.VoteCount != counts[i] {
			return fmt.Errorf("proposal %d has %d votes, %d recorded: %w", i, p.VoteCount, counts[i], ErrInvalidSnapshot)
		}
		if p.VoteCount > maxVotes {
			maxVotes = p.VoteCount
		}
	}

	switch {
	case s.Status == VotesTallied && s.WinningProposalID == nil:
		return fmt.Errorf("tallied without winner: %w", ErrInvalidSnapshot)
	case s.Status != VotesTallied && s.WinningProposalID != nil:
		return fmt.Errorf("winner set in %s: %w", s.Status, ErrInvalidSnapshot)
	case s.WinningProposalID != nil:
		id := *s.WinningProposalID
		if id < 0 || id >= len(s.Proposals) || s.Proposals[id].VoteCount != maxVotes {
			return fmt.Errorf("winner %d is not a maximum: %w", id, ErrInvalidSnapshot)
		}
	}
	return nil
}

// Restore rebuilds an election from a validated snapshot.
func Restore(s Snapshot, opts ...Option) (*Election, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	e, err := New(s.Owner, opts...)
	if err != nil {
		return nil, err
	}
	e.seq = s.Seq
	e.status = s.Status
	for addr, v := range s.Voters {
		e.voters[addr] = v
	}
	e.proposals = make([]Proposal, len(s.Proposals))
	copy(e.proposals, s.Proposals)
	if s.WinningProposalID != nil {
		e.winner = *s.WinningProposalID
		e.tallied = true
	}
	return e, nil
}
