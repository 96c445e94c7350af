// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package election

import (
	"encoding/binary"
	"fmt"
	"math/big"
	"math/rand/v2"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/crypto"
)

// Tie-break policy names accepted by ParseTieBreak.
const (
	TieBreakSimple = "simple"
	TieBreakKeccak = "keccak"
	TieBreakSeeded = "seeded"
)

// TallyContext holds the inputs a tie-break policy may draw from.
type TallyContext struct {
	Caller    common.Address
	Timestamp time.Time
}

// TieBreaker decides whether a proposal that ties the current maximum takes
// over as the winner. tied counts the proposals seen so far at the current
// maximum, candidate included.
type TieBreaker interface {
	Name() string
	Switch(tc TallyContext, candidate, tied int) bool
}

// Tally scans proposals once in id order and returns the winning id.
func Tally(proposals []Proposal, tb TieBreaker, tc TallyContext) (int, error) {
	if len(proposals) == 0 {
		return 0, ErrNoProposals
	}
	if tb == nil {
		tb = SimpleMax{}
	}

	winner := 0
	maxVotes := proposals[0].VoteCount
	tied := 1
	for i := 1; i < len(proposals); i++ {
		count := proposals[i].VoteCount
		switch {
		case count > maxVotes:
			maxVotes = count
			winner = i
			tied = 1
		case count == maxVotes:
			tied++
			if tb.Switch(tc, i, tied) {
				winner = i
			}
		}
	}
	return winner, nil
}

// SimpleMax keeps the earliest proposal on ties.
type SimpleMax struct{}

func (SimpleMax) Name() string { return TieBreakSimple }

func (SimpleMax) Switch(TallyContext, int, int) bool { return false }

// KeccakTieBreak switches on a tie when
// keccak256(uint256(timestamp) ++ caller ++ uint256(candidate)) % 100 >= 50.
// The draw depends on who tallies and when; it is neither fair nor
// reproducible and exists for parity with contract deployments.
type KeccakTieBreak struct{}

func (KeccakTieBreak) Name() string { return TieBreakKeccak }

func (KeccakTieBreak) Switch(tc TallyContext, candidate, _ int) bool {
	return KeccakDraw(tc, candidate) >= 50
}

// KeccakDraw returns the 0-99 draw used by KeccakTieBreak.
func KeccakDraw(tc TallyContext, candidate int) uint64 {
	packed := make([]byte, 0, 32+common.AddressLength+32)
	packed = append(packed, math.U256Bytes(big.NewInt(tc.Timestamp.Unix()))...)
	packed = append(packed, tc.Caller.Bytes()...)
	packed = append(packed, math.U256Bytes(big.NewInt(int64(candidate)))...)

	sum := new(big.Int).SetBytes(crypto.Keccak256(packed))
	return sum.Mod(sum, big.NewInt(100)).Uint64()
}

// SeededTieBreak picks uniformly among tied maxima by reservoir sampling:
// the k-th tied proposal takes over with probability 1/k. The same seed
// always yields the same winner.
type SeededTieBreak struct {
	Seed uint64
}

func (SeededTieBreak) Name() string { return TieBreakSeeded }

func (s SeededTieBreak) Switch(_ TallyContext, candidate, tied int) bool {
	var buf [16]byte
	binary.BigEndian.PutUint64(buf[:8], s.Seed)
	binary.BigEndian.PutUint64(buf[8:], uint64(candidate))

	var key [32]byte
	copy(key[:], crypto.Keccak256(buf[:]))
	return rand.New(rand.NewChaCha8(key)).IntN(tied) == 0
}

// ParseTieBreak maps a policy name to its TieBreaker.
func ParseTieBreak(name string, seed uint64) (TieBreaker, error) {
	switch name {
	case "", TieBreakSimple:
		return SimpleMax{}, nil
	case TieBreakKeccak:
		return KeccakTieBreak{}, nil
	case TieBreakSeeded:
		return SeededTieBreak{Seed: seed}, nil
	}
	return nil, fmt.Errorf("unknown tie-break policy %q", name)
}
