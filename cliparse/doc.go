// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 3318)
  - DatabaseURL: PostgreSQL or SQLite connection string (required)
  - DatabaseType: sqlite (default) or postgres
  - AdminKeySalt: Secret for the owner's admin key HMAC (required)
  - OwnerAddress: Hex address of the election owner (required)
  - TieBreak, TieBreakSeed: tally tie-break policy
  - MinDescriptionLength: proposal descriptions must be longer (default: 10)
  - ViewsRequireRegistration: restrict proposal and vote views (default: true)

# CLI Flags

	-p              Server port
	-d              Database URL
	-t              Database type
	-env            Dotenv file (default: .env, ignored when missing)
	--admin-salt    Admin key salt
	--owner         Owner address
	--tie-break     simple, keccak or seeded
	--tie-seed      Seed for the seeded tie-break
	--min-desc      Minimum description length
	--private-views Views require registration

# Environment Variables

Flags fall back to environment variables, which may come from the dotenv
file:

	PORT                       → -p
	DATABASE_URL               → -d
	DATABASE_TYPE              → -t
	ADMIN_KEY_SALT             → --admin-salt
	OWNER_ADDRESS              → --owner
	TIE_BREAK                  → --tie-break
	TIE_BREAK_SEED             → --tie-seed
	MIN_DESCRIPTION_LENGTH     → --min-desc
	VIEWS_REQUIRE_REGISTRATION → --private-views

CLI flags take precedence over environment variables, and real environment
variables take precedence over the dotenv file.

# Validation

ParseFlags returns an error if:

  - DATABASE_URL is missing or DATABASE_TYPE is unknown
  - ADMIN_KEY_SALT is missing
  - OWNER_ADDRESS is not a non-zero hex address
  - TIE_BREAK names an unknown policy

# Example

	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}
	policy, err := cfg.Policy()
	e, err := election.New(cfg.Owner(), election.WithPolicy(policy))
*/
package cliparse
