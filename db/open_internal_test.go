// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func TestOpenGivesUpAfterRetries(t *testing.T) {
	saved := connectBackoff
	connectBackoff = time.Millisecond
	t.Cleanup(func() { connectBackoff = saved })

	// The parent directory does not exist, so every ping fails
	url := filepath.Join(t.TempDir(), "missing", "vote.db")

	start := time.Now()
	if _, err := Open(context.Background(), "sqlite", url); err == nil {
		t.Fatal("Expected Open to fail for an unreachable database")
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("Expected retries to use the short backoff, took %v", elapsed)
	}
}

func TestOpenStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := Open(ctx, "sqlite", ":memory:"); err == nil {
		t.Error("Expected Open to fail with a cancelled context")
	}
}
