// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db persists the election and its event log.

# Connecting

Open selects the driver from the database type and pings until the server
answers, backing off on a Fibonacci schedule:

	conn, err := db.Open(ctx, "postgres", cfg.DatabaseURL)
	conn, err := db.Open(ctx, "sqlite", "quickly-vote.db")

PostgreSQL uses github.com/lib/pq; SQLite uses the pure-Go modernc.org/sqlite.
SQLite connections are limited to one at a time.

# Schema Creation

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.
The statements use only syntax both databases accept, so the same schema
serves both drivers.

# Tables

  - election: single row with owner, status, winning proposal and seq
  - voter: one row per registered address
  - proposal: one row per proposal, keyed by proposal index
  - election_event: append-only event log

Times are stored as Unix milliseconds.

# Snapshots

Store.SaveSnapshot writes the whole election in one transaction and skips
snapshots whose seq is not newer than the stored one. Handlers save after
every mutation without coordinating with each other:

	store := db.NewStore(conn)
	if _, err := store.SaveSnapshot(ctx, el.Snapshot()); err != nil {
		slog.Error("failed to persist election snapshot", "error", err)
	}

On boot, LoadSnapshot returns the stored state for election.Restore, which
revalidates it.

# Event Log

EventLog is an election.EventSink. Each published event becomes a row with a
random UUID and a JSON payload:

	events := db.NewEventLog(conn, slog.Default())
	el, err := election.New(owner, election.WithSink(events))

	records, err := events.List(ctx, 0, 100)

Errors from the driver are wrapped with github.com/pkg/errors.
*/
package db
