// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package election

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotRestoreRoundTrip(t *testing.T) {
	e, _ := newElection(t)
	openVoting(t, e)
	require.NoError(t, e.Vote(alice, 1))

	snap := e.Snapshot()
	require.NoError(t, snap.Validate())

	sink := &MemorySink{}
	restored, err := Restore(snap, WithSink(sink))
	require.NoError(t, err)
	assert.Equal(t, snap, restored.Snapshot())

	// the restored election keeps enforcing the same rules
	assert.ErrorIs(t, restored.Vote(alice, 0), ErrAlreadyVoted)
	require.NoError(t, restored.Vote(bob, 1))
	require.NoError(t, restored.EndVotingSession(owner))
	winner, err := restored.TallyVotes(owner)
	require.NoError(t, err)
	assert.Equal(t, 1, winner)

	events := sink.Events()
	require.NotEmpty(t, events)
	assert.Equal(t, snap.Seq+1, events[0].Seq)
}

func TestSnapshotIsACopy(t *testing.T) {
	e, _ := newElection(t)
	openVoting(t, e)

	snap := e.Snapshot()
	snap.Proposals[0].VoteCount = 99
	snap.Voters[alice] = Voter{}

	fresh := e.Snapshot()
	assert.Equal(t, uint64(0), fresh.Proposals[0].VoteCount)
	assert.True(t, fresh.Voters[alice].IsRegistered)
}

func TestSnapshotValidateRejectsCorruption(t *testing.T) {
	build := func(t *testing.T) Snapshot {
		e, _ := newElection(t)
		openVoting(t, e)
		require.NoError(t, e.Vote(alice, 0))
		require.NoError(t, e.Vote(bob, 0))
		require.NoError(t, e.EndVotingSession(owner))
		_, err := e.TallyVotes(owner)
		require.NoError(t, err)
		return e.Snapshot()
	}

	tests := []struct {
		name    string
		corrupt func(s *Snapshot)
	}{
		{"zero owner", func(s *Snapshot) { s.Owner = common.Address{} }},
		{"unknown status", func(s *Snapshot) { s.Status = Phase(9) }},
		{"count mismatch", func(s *Snapshot) { s.Proposals[1].VoteCount = 1 }},
		{"vote for missing proposal", func(s *Snapshot) {
			s.Voters[carol] = Voter{IsRegistered: true, HasVoted: true, VotedProposalID: 7}
		}},
		{"unregistered voter voted", func(s *Snapshot) {
			s.Voters[mallory] = Voter{HasVoted: true}
			s.Proposals[0].VoteCount++
		}},
		{"unregistered voter record", func(s *Snapshot) { s.Voters[mallory] = Voter{} }},
		{"proposals before registration opens", func(s *Snapshot) {
			s.Status = RegisteringVoters
			s.WinningProposalID = nil
			for addr := range s.Voters {
				s.Voters[addr] = Voter{IsRegistered: true}
			}
			for i := range s.Proposals {
				s.Proposals[i].VoteCount = 0
			}
		}},
		{"winner not maximum", func(s *Snapshot) { id := 1; s.WinningProposalID = &id }},
		{"winner missing", func(s *Snapshot) { s.WinningProposalID = nil }},
		{"winner before tally", func(s *Snapshot) { s.Status = VotingSessionEnded }},
		{"votes before voting", func(s *Snapshot) {
			s.Status = ProposalsRegistrationEnded
			s.WinningProposalID = nil
		}},
		{"no proposals after registration", func(s *Snapshot) {
			s.Proposals = nil
			s.Voters = map[common.Address]Voter{}
			s.WinningProposalID = nil
			s.Status = VotingSessionStarted
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := build(t)
			require.NoError(t, snap.Validate())

			tt.corrupt(&snap)
			assert.ErrorIs(t, snap.Validate(), ErrInvalidSnapshot)
			_, err := Restore(snap)
			assert.ErrorIs(t, err, ErrInvalidSnapshot)
		})
	}
}
