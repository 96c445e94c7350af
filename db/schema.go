// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// The statements stay within the subset PostgreSQL and SQLite share.
const schema = `
-- Election (single row)
CREATE TABLE IF NOT EXISTS election (
    id INTEGER PRIMARY KEY CHECK (id = 1),
    owner TEXT NOT NULL,
    status TEXT NOT NULL,
    winning_proposal_id INTEGER,
    seq BIGINT NOT NULL
);

-- Voters
CREATE TABLE IF NOT EXISTS voter (
    address TEXT PRIMARY KEY,
    is_registered BOOLEAN NOT NULL,
    has_voted BOOLEAN NOT NULL,
    voted_proposal_id INTEGER
);

CREATE INDEX IF NOT EXISTS idx_voter_has_voted ON voter(has_voted);

-- Proposals (id is the proposal index)
CREATE TABLE IF NOT EXISTS proposal (
    id INTEGER PRIMARY KEY,
    description TEXT NOT NULL,
    vote_count BIGINT NOT NULL CHECK (vote_count >= 0)
);

-- Event log
CREATE TABLE IF NOT EXISTS election_event (
    id TEXT PRIMARY KEY,
    seq BIGINT NOT NULL,
    kind TEXT NOT NULL,
    payload TEXT NOT NULL,
    occurred_at BIGINT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_election_event_seq ON election_event(seq);
`
