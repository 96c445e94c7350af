// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/Rican7/retry"
	"github.com/Rican7/retry/backoff"
	"github.com/Rican7/retry/strategy"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

const connectAttempts = 5

// connectBackoff is the base of the Fibonacci backoff between ping attempts.
var connectBackoff = time.Second

// Open connects to the database and pings it until it answers.
// dbType is "postgres" or "sqlite".
func Open(ctx context.Context, dbType, url string) (*sql.DB, error) {
	var driver string
	switch dbType {
	case "postgres":
		driver = "postgres"
	case "sqlite":
		driver = "sqlite"
	default:
		return nil, fmt.Errorf("unsupported database type %q", dbType)
	}

	conn, err := sql.Open(driver, url)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}
	if dbType == "sqlite" {
		// one writer at a time, and keeps :memory: databases alive
		conn.SetMaxOpenConns(1)
	}

	action := func(attempt uint) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := conn.PingContext(ctx); err != nil {
			slog.Warn("database ping failed", "attempt", attempt, "error", err)
			return err
		}
		return nil
	}
	err = retry.Retry(action, strategy.Limit(connectAttempts), strategy.Backoff(backoff.Fibonacci(connectBackoff)))
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	return conn, nil
}
