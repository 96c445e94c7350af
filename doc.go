// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Quickly Vote API server.

Quickly Vote runs a single election: the owner registers voters and moves the
election through six phases, voters submit proposals and cast one vote each,
and the tally picks the proposal with the most votes.

# Starting the Server

	OWNER_ADDRESS=0x... ADMIN_KEY_SALT=... DATABASE_URL=quickly-vote.db go run .

Or with flags:

	go run . -p 3318 -t postgres -d "postgres://..." -owner 0x... -admin-salt ...

Settings may also come from a .env file (-env, default ".env"); variables
already set in the environment win.

On startup the server logs the owner's admin key. Owner requests send it in
the X-Admin-Key header.

# Configuration

Required settings:

  - DATABASE_URL (-d): SQLite file or PostgreSQL connection string
  - ADMIN_KEY_SALT (-admin-salt): Secret for admin key HMAC
  - OWNER_ADDRESS (-owner): Hex address of the election owner

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - TIE_BREAK (-tie-break): simple, keccak or seeded (default: simple)
  - TIE_BREAK_SEED (-tie-seed): Seed for the seeded tie-break
  - MIN_DESCRIPTION_LENGTH (-min-desc): Descriptions need more characters (default: 10)
  - VIEWS_REQUIRE_REGISTRATION (-private-views): Restrict views to voters (default: true)

# Restarts

The election is stored after every change. A restart restores it, and fails
if the stored election belongs to a different owner than the configured one.

# Architecture

  - election: Phase machine, voting rules, tally and events
  - handlers: HTTP request handlers (workflow, voting, results)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, caller identity, JSON helpers
  - models: Request/response types
  - auth: Address parsing and admin keys
  - db: Connection, schema, snapshot store and event log
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
