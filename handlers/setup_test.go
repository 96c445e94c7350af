// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"database/sql"
	"testing"

	"github.com/ethereum/go-ethereum/common"

	"github.com/danielhkuo/quickly-vote/cliparse"
	"github.com/danielhkuo/quickly-vote/db"
	"github.com/danielhkuo/quickly-vote/election"
	"github.com/danielhkuo/quickly-vote/testutil"
)

type testEnv struct {
	db       *sql.DB
	cfg      cliparse.Config
	election *election.Election
	store    *db.Store
	events   *db.EventLog

	workflow *WorkflowHandler
	voting   *VotingHandler
	results  *ResultsHandler
}

func newTestEnv(t *testing.T) *testEnv {
	return newTestEnvWithConfig(t, testutil.GetTestConfig())
}

func newTestEnvWithConfig(t *testing.T, cfg cliparse.Config) *testEnv {
	t.Helper()

	conn := testutil.SetupTestDB(t)
	events := db.NewEventLog(conn, nil)
	el := testutil.NewTestElection(t, cfg, events)
	store := db.NewStore(conn)

	return &testEnv{
		db:       conn,
		cfg:      cfg,
		election: el,
		store:    store,
		events:   events,
		workflow: NewWorkflowHandler(el, store, cfg),
		voting:   NewVotingHandler(el, store, cfg),
		results:  NewResultsHandler(el, events),
	}
}

// openVoting drives the election straight to voting_session_started with
// alice, bob and carol registered and two proposals
func (env *testEnv) openVoting(t *testing.T) {
	t.Helper()
	testutil.OpenVoting(t, env.election,
		[]common.Address{testutil.Alice, testutil.Bob, testutil.Carol},
		"Build more parks", "Lower taxes rate")
}

func (env *testEnv) storedSnapshot(t *testing.T) election.Snapshot {
	t.Helper()
	snap, ok, err := env.store.LoadSnapshot(context.Background())
	if err != nil {
		t.Fatalf("Failed to load snapshot: %v", err)
	}
	if !ok {
		t.Fatal("Expected a stored snapshot")
	}
	return snap
}
