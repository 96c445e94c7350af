// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"sync"

	"github.com/danielhkuo/quickly-vote/election"
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
)

// Store persists election snapshots.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// SaveSnapshot writes the full election state in one transaction. A snapshot
// whose Seq is not newer than the stored one is ignored, so concurrent
// handlers may save in any order. Reports whether anything was written.
func (s *Store) SaveSnapshot(ctx context.Context, snap election.Snapshot) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, errors.Wrap(err, "begin snapshot transaction")
	}
	defer tx.Rollback()

	var storedSeq int64
	err = tx.QueryRowContext(ctx, `SELECT seq FROM election WHERE id = 1`).Scan(&storedSeq)
	switch {
	case err == sql.ErrNoRows:
	case err != nil:
		return false, errors.Wrap(err, "read stored seq")
	case uint64(storedSeq) >= snap.Seq:
		return false, nil
	}

	var winner sql.NullInt64
	if snap.WinningProposalID != nil {
		winner = sql.NullInt64{Int64: int64(*snap.WinningProposalID), Valid: true}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO election (id, owner, status, winning_proposal_id, seq)
		VALUES (1, $1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET
			owner = excluded.owner,
			status = excluded.status,
			winning_proposal_id = excluded.winning_proposal_id,
			seq = excluded.seq
	`, snap.Owner.Hex(), snap.Status.String(), winner, int64(snap.Seq))
	if err != nil {
		return false, errors.Wrap(err, "upsert election")
	}

	for addr, v := range snap.Voters {
		var voted sql.NullInt64
		if v.HasVoted {
			voted = sql.NullInt64{Int64: int64(v.VotedProposalID), Valid: true}
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO voter (address, is_registered, has_voted, voted_proposal_id)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (address) DO UPDATE SET
				is_registered = excluded.is_registered,
				has_voted = excluded.has_voted,
				voted_proposal_id = excluded.voted_proposal_id
		`, addr.Hex(), v.IsRegistered, v.HasVoted, voted)
		if err != nil {
			return false, errors.Wrapf(err, "upsert voter %s", addr.Hex())
		}
	}

	for id, p := range snap.Proposals {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO proposal (id, description, vote_count)
			VALUES ($1, $2, $3)
			ON CONFLICT (id) DO UPDATE SET
				description = excluded.description,
				vote_count = excluded.vote_count
		`, id, p.Description, int64(p.VoteCount))
		if err != nil {
			return false, errors.Wrapf(err, "upsert proposal %d", id)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, errors.Wrap(err, "commit snapshot")
	}
	return true, nil
}

// LoadSnapshot reads the stored election. The boolean is false when nothing
// has been saved yet. The snapshot is not validated; election.Restore does
// that. All rows are read in one transaction.
func (s *Store) LoadSnapshot(ctx context.Context) (election.Snapshot, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var snap election.Snapshot
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return snap, false, errors.Wrap(err, "begin load transaction")
	}
	defer tx.Rollback()

	var (
		owner  string
		status string
		winner sql.NullInt64
		seq    int64
	)
	err = tx.QueryRowContext(ctx, `
		SELECT owner, status, winning_proposal_id, seq
		FROM election
		WHERE id = 1
	`).Scan(&owner, &status, &winner, &seq)
	if err == sql.ErrNoRows {
		return snap, false, nil
	}
	if err != nil {
		return snap, false, errors.Wrap(err, "load election")
	}

	phase, err := election.ParsePhase(status)
	if err != nil {
		return snap, false, errors.Wrap(err, "load election status")
	}
	if !common.IsHexAddress(owner) {
		return snap, false, errors.Errorf("stored owner %q is not an address", owner)
	}
	snap.Seq = uint64(seq)
	snap.Owner = common.HexToAddress(owner)
	snap.Status = phase
	if winner.Valid {
		id := int(winner.Int64)
		snap.WinningProposalID = &id
	}

	if snap.Voters, err = loadVoters(ctx, tx); err != nil {
		return snap, false, err
	}
	if snap.Proposals, err = loadProposals(ctx, tx); err != nil {
		return snap, false, err
	}
	return snap, true, nil
}

func loadVoters(ctx context.Context, tx *sql.Tx) (map[common.Address]election.Voter, error) {
	rows, err := tx.QueryContext(ctx, `
		SELECT address, is_registered, has_voted, voted_proposal_id
		FROM voter
	`)
	if err != nil {
		return nil, errors.Wrap(err, "load voters")
	}
	defer rows.Close()

	voters := make(map[common.Address]election.Voter)
	for rows.Next() {
		var (
			addr  string
			v     election.Voter
			voted sql.NullInt64
		)
		if err := rows.Scan(&addr, &v.IsRegistered, &v.HasVoted, &voted); err != nil {
			return nil, errors.Wrap(err, "scan voter")
		}
		if !common.IsHexAddress(addr) {
			return nil, errors.Errorf("stored voter %q is not an address", addr)
		}
		if voted.Valid {
			v.VotedProposalID = int(voted.Int64)
		}
		voters[common.HexToAddress(addr)] = v
	}
	return voters, errors.Wrap(rows.Err(), "iterate voters")
}

func loadProposals(ctx context.Context, tx *sql.Tx) ([]election.Proposal, error) {
	rows, err := tx.QueryContext(ctx, `
		SELECT id, description, vote_count
		FROM proposal
		ORDER BY id
	`)
	if err != nil {
		return nil, errors.Wrap(err, "load proposals")
	}
	defer rows.Close()

	var proposals []election.Proposal
	for rows.Next() {
		var (
			id    int
			p     election.Proposal
			count int64
		)
		if err := rows.Scan(&id, &p.Description, &count); err != nil {
			return nil, errors.Wrap(err, "scan proposal")
		}
		if id != len(proposals) {
			return nil, errors.Errorf("proposal ids not contiguous: got %d, want %d", id, len(proposals))
		}
		p.VoteCount = uint64(count)
		proposals = append(proposals, p)
	}
	return proposals, errors.Wrap(rows.Err(), "iterate proposals")
}
