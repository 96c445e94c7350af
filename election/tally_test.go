// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package election

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func proposalsWithVotes(counts ...uint64) []Proposal {
	out := make([]Proposal, len(counts))
	for i, c := range counts {
		out[i] = Proposal{Description: "proposal description", VoteCount: c}
	}
	return out
}

func TestTallyEmpty(t *testing.T) {
	_, err := Tally(nil, SimpleMax{}, TallyContext{})
	assert.ErrorIs(t, err, ErrNoProposals)
}

func TestTallyUniqueMaximumIgnoresTieBreak(t *testing.T) {
	breakers := []TieBreaker{SimpleMax{}, KeccakTieBreak{}, SeededTieBreak{Seed: 7}, nil}
	tests := []struct {
		name   string
		counts []uint64
		want   int
	}{
		{"first", []uint64{5, 1, 2}, 0},
		{"middle", []uint64{1, 4, 2}, 1},
		{"last", []uint64{0, 0, 3}, 2},
		{"single", []uint64{0}, 0},
	}

	for _, tt := range tests {
		for _, tb := range breakers {
			for i := 0; i < 5; i++ {
				tc := TallyContext{Caller: alice, Timestamp: time.Unix(int64(1700000000+i), 0)}
				got, err := Tally(proposalsWithVotes(tt.counts...), tb, tc)
				require.NoError(t, err)
				assert.Equal(t, tt.want, got, tt.name)
			}
		}
	}
}

func TestTallySimpleMaxTies(t *testing.T) {
	got, err := Tally(proposalsWithVotes(1, 3, 3, 3), SimpleMax{}, TallyContext{})
	require.NoError(t, err)
	assert.Equal(t, 1, got)
}

func TestKeccakDraw(t *testing.T) {
	tc := TallyContext{Caller: alice, Timestamp: time.Unix(1700000000, 0)}

	first := KeccakDraw(tc, 3)
	assert.Less(t, first, uint64(100))
	assert.Equal(t, first, KeccakDraw(tc, 3))

	// the draw must react to every input
	varied := map[uint64]bool{}
	for i := 0; i < 50; i++ {
		varied[KeccakDraw(tc, i)] = true
		varied[KeccakDraw(TallyContext{Caller: bob, Timestamp: tc.Timestamp}, i)] = true
		varied[KeccakDraw(TallyContext{Caller: alice, Timestamp: tc.Timestamp.Add(time.Duration(i) * time.Second)}, 0)] = true
	}
	assert.Greater(t, len(varied), 10)
}

func TestKeccakTieBreakFollowsDraw(t *testing.T) {
	for i := 0; i < 30; i++ {
		tc := TallyContext{Caller: carol, Timestamp: time.Unix(int64(1600000000+i*17), 0)}
		got, err := Tally(proposalsWithVotes(2, 2), KeccakTieBreak{}, tc)
		require.NoError(t, err)

		want := 0
		if KeccakDraw(tc, 1) >= 50 {
			want = 1
		}
		assert.Equal(t, want, got)
	}
}

func TestSeededTieBreakReproducible(t *testing.T) {
	counts := proposalsWithVotes(4, 1, 4, 4, 0)
	for seed := uint64(0); seed < 50; seed++ {
		tb := SeededTieBreak{Seed: seed}
		a, err := Tally(counts, tb, TallyContext{Caller: alice, Timestamp: time.Unix(1, 0)})
		require.NoError(t, err)
		b, err := Tally(counts, tb, TallyContext{Caller: bob, Timestamp: time.Unix(99999, 0)})
		require.NoError(t, err)

		assert.Equal(t, a, b)
		assert.Contains(t, []int{0, 2, 3}, a)
	}
}

func TestSeededTieBreakIsRoughlyUniform(t *testing.T) {
	counts := proposalsWithVotes(2, 2, 2, 2)
	wins := make([]int, len(counts))
	const rounds = 2000
	for seed := uint64(0); seed < rounds; seed++ {
		got, err := Tally(counts, SeededTieBreak{Seed: seed}, TallyContext{})
		require.NoError(t, err)
		wins[got]++
	}
	for id, n := range wins {
		assert.InDelta(t, rounds/len(counts), n, 150, "proposal %d won %d times", id, n)
	}
}

func TestParseTieBreak(t *testing.T) {
	tests := []struct {
		name    string
		want    string
		wantErr bool
	}{
		{"", TieBreakSimple, false},
		{"simple", TieBreakSimple, false},
		{"keccak", TieBreakKeccak, false},
		{"seeded", TieBreakSeeded, false},
		{"coinflip", "", true},
	}
	for _, tt := range tests {
		tb, err := ParseTieBreak(tt.name, 42)
		if tt.wantErr {
			assert.Error(t, err)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, tb.Name())
	}

	tb, err := ParseTieBreak("seeded", 42)
	require.NoError(t, err)
	assert.Equal(t, SeededTieBreak{Seed: 42}, tb)
}
