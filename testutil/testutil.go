// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ethereum/go-ethereum/common"

	"github.com/danielhkuo/quickly-vote/auth"
	"github.com/danielhkuo/quickly-vote/cliparse"
	"github.com/danielhkuo/quickly-vote/db"
	"github.com/danielhkuo/quickly-vote/election"
	"github.com/danielhkuo/quickly-vote/models"
)

// TestDBURL is an in-memory SQLite database, private to each connection
const TestDBURL = ":memory:"

// Well-known identities used across tests
var (
	TestOwner = common.HexToAddress("0x00000000000000000000000000000000000000aa")
	Alice     = common.HexToAddress("0x0000000000000000000000000000000000000001")
	Bob       = common.HexToAddress("0x0000000000000000000000000000000000000002")
	Carol     = common.HexToAddress("0x0000000000000000000000000000000000000003")
	Mallory   = common.HexToAddress("0x00000000000000000000000000000000000000ff")
)

// SetupTestDB opens a fresh in-memory database with the full schema.
// The connection is closed when the test ends.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := db.Open(context.Background(), "sqlite", TestDBURL)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:                     3318,
		DatabaseURL:              TestDBURL,
		DatabaseType:             "sqlite",
		AdminKeySalt:             "test-admin-salt",
		OwnerAddress:             TestOwner.Hex(),
		TieBreak:                 election.TieBreakSimple,
		MinDescriptionLength:     10,
		ViewsRequireRegistration: true,
	}
}

// NewTestElection creates an election owned by cfg's owner with cfg's policy
func NewTestElection(t *testing.T, cfg cliparse.Config, sinks ...election.EventSink) *election.Election {
	t.Helper()

	policy, err := cfg.Policy()
	if err != nil {
		t.Fatalf("Invalid test policy: %v", err)
	}

	opts := []election.Option{election.WithPolicy(policy)}
	if len(sinks) > 0 {
		opts = append(opts, election.WithSink(election.MultiSink(sinks)))
	}

	el, err := election.New(cfg.Owner(), opts...)
	if err != nil {
		t.Fatalf("Failed to create election: %v", err)
	}
	return el
}

// OpenVoting registers voters, adds proposals and starts the voting session
func OpenVoting(t *testing.T, el *election.Election, voters []common.Address, descriptions ...string) {
	t.Helper()

	owner := el.Owner()
	for _, v := range voters {
		if err := el.Register(owner, v); err != nil {
			t.Fatalf("Failed to register voter %s: %v", v.Hex(), err)
		}
	}
	if err := el.StartProposalsRegistration(owner); err != nil {
		t.Fatalf("Failed to start proposals registration: %v", err)
	}
	for _, d := range descriptions {
		if _, err := el.RegisterProposal(voters[0], d); err != nil {
			t.Fatalf("Failed to register proposal %q: %v", d, err)
		}
	}
	if err := el.EndProposalsRegistration(owner); err != nil {
		t.Fatalf("Failed to end proposals registration: %v", err)
	}
	if err := el.StartVotingSession(owner); err != nil {
		t.Fatalf("Failed to start voting session: %v", err)
	}
}

// CallerHeaders identifies a request as coming from addr
func CallerHeaders(addr common.Address) map[string]string {
	return map[string]string{models.HeaderCaller: addr.Hex()}
}

// AdminHeaders identifies a request as the configured owner, with admin key
func AdminHeaders(cfg cliparse.Config) map[string]string {
	return map[string]string{
		models.HeaderCaller:   cfg.Owner().Hex(),
		models.HeaderAdminKey: auth.GenerateAdminKey(cfg.Owner(), cfg.AdminKeySalt),
	}
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
