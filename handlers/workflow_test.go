// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/danielhkuo/quickly-vote/auth"
	"github.com/danielhkuo/quickly-vote/election"
	"github.com/danielhkuo/quickly-vote/models"
	"github.com/danielhkuo/quickly-vote/testutil"
)

func TestWorkflowAuthentication(t *testing.T) {
	env := newTestEnv(t)
	ownerKey := auth.GenerateAdminKey(env.cfg.Owner(), env.cfg.AdminKeySalt)

	tests := []struct {
		name           string
		headers        map[string]string
		expectedStatus int
	}{
		{
			name:           "no headers",
			headers:        nil,
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "caller without admin key",
			headers:        testutil.CallerHeaders(env.cfg.Owner()),
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name: "wrong admin key",
			headers: map[string]string{
				models.HeaderCaller:   env.cfg.Owner().Hex(),
				models.HeaderAdminKey: "not-the-key",
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name: "malformed caller",
			headers: map[string]string{
				models.HeaderCaller:   "owner",
				models.HeaderAdminKey: ownerKey,
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name: "key reused by another caller",
			headers: map[string]string{
				models.HeaderCaller:   testutil.Mallory.Hex(),
				models.HeaderAdminKey: ownerKey,
			},
			expectedStatus: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeRequest("POST", "/workflow/proposals/start", nil, tt.headers)
			w := httptest.NewRecorder()
			env.workflow.StartProposals(w, req)

			testutil.AssertStatus(t, w, tt.expectedStatus)
			if got := env.election.Status(); got != election.RegisteringVoters {
				t.Errorf("Expected status unchanged, got %s", got)
			}
		})
	}
}

func TestWorkflowPhaseWalk(t *testing.T) {
	env := newTestEnv(t)
	admin := testutil.AdminHeaders(env.cfg)
	if err := env.election.Register(env.cfg.Owner(), testutil.Alice); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	steps := []struct {
		name    string
		handler http.HandlerFunc
		before  func(t *testing.T)
		want    models.PhaseChangeResponse
	}{
		{
			name:    "start proposals",
			handler: env.workflow.StartProposals,
			want:    models.PhaseChangeResponse{Previous: election.RegisteringVoters, Current: election.ProposalsRegistrationStarted},
		},
		{
			name:    "end proposals",
			handler: env.workflow.EndProposals,
			before: func(t *testing.T) {
				if _, err := env.election.RegisterProposal(testutil.Alice, "Build more parks"); err != nil {
					t.Fatalf("RegisterProposal failed: %v", err)
				}
			},
			want: models.PhaseChangeResponse{Previous: election.ProposalsRegistrationStarted, Current: election.ProposalsRegistrationEnded},
		},
		{
			name:    "start voting",
			handler: env.workflow.StartVoting,
			want:    models.PhaseChangeResponse{Previous: election.ProposalsRegistrationEnded, Current: election.VotingSessionStarted},
		},
		{
			name:    "end voting",
			handler: env.workflow.EndVoting,
			want:    models.PhaseChangeResponse{Previous: election.VotingSessionStarted, Current: election.VotingSessionEnded},
		},
	}

	for _, step := range steps {
		if step.before != nil {
			step.before(t)
		}

		req := testutil.MakeRequest("POST", "/workflow", nil, admin)
		w := httptest.NewRecorder()
		step.handler(w, req)

		testutil.AssertStatus(t, w, http.StatusOK)
		var resp models.PhaseChangeResponse
		testutil.AssertJSON(t, w, &resp)
		if resp != step.want {
			t.Errorf("%s: expected %+v, got %+v", step.name, step.want, resp)
		}

		// Every transition is persisted before the response
		if got := env.storedSnapshot(t).Status; got != step.want.Current {
			t.Errorf("%s: expected stored status %s, got %s", step.name, step.want.Current, got)
		}
	}
}

func TestWorkflowRejectsOutOfOrderTransitions(t *testing.T) {
	env := newTestEnv(t)
	admin := testutil.AdminHeaders(env.cfg)

	handlers := map[string]http.HandlerFunc{
		"end proposals": env.workflow.EndProposals,
		"start voting":  env.workflow.StartVoting,
		"end voting":    env.workflow.EndVoting,
		"tally":         env.workflow.Tally,
	}

	for name, handler := range handlers {
		t.Run(name, func(t *testing.T) {
			req := testutil.MakeRequest("POST", "/workflow", nil, admin)
			w := httptest.NewRecorder()
			handler(w, req)

			testutil.AssertStatus(t, w, http.StatusConflict)
		})
	}

	if got := env.election.Status(); got != election.RegisteringVoters {
		t.Errorf("Expected status unchanged, got %s", got)
	}
}

func TestEndProposalsWithoutProposals(t *testing.T) {
	env := newTestEnv(t)
	admin := testutil.AdminHeaders(env.cfg)

	if err := env.election.StartProposalsRegistration(env.cfg.Owner()); err != nil {
		t.Fatalf("StartProposalsRegistration failed: %v", err)
	}

	req := testutil.MakeRequest("POST", "/workflow/proposals/end", nil, admin)
	w := httptest.NewRecorder()
	env.workflow.EndProposals(w, req)

	testutil.AssertStatus(t, w, http.StatusConflict)
	var resp models.ErrorResponse
	testutil.AssertJSON(t, w, &resp)
	if !strings.Contains(resp.Message, "no proposal") {
		t.Errorf("Expected no proposals message, got '%s'", resp.Message)
	}
}

func TestTally(t *testing.T) {
	env := newTestEnv(t)
	admin := testutil.AdminHeaders(env.cfg)
	owner := env.cfg.Owner()

	env.openVoting(t)
	if err := env.election.Vote(testutil.Alice, 1); err != nil {
		t.Fatalf("Vote failed: %v", err)
	}
	if err := env.election.Vote(testutil.Bob, 1); err != nil {
		t.Fatalf("Vote failed: %v", err)
	}
	if err := env.election.Vote(testutil.Carol, 0); err != nil {
		t.Fatalf("Vote failed: %v", err)
	}
	if err := env.election.EndVotingSession(owner); err != nil {
		t.Fatalf("EndVotingSession failed: %v", err)
	}

	req := testutil.MakeRequest("POST", "/workflow/tally", nil, admin)
	w := httptest.NewRecorder()
	env.workflow.Tally(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)
	var resp models.TallyResponse
	testutil.AssertJSON(t, w, &resp)

	if resp.Status != election.VotesTallied {
		t.Errorf("Expected votes_tallied, got %s", resp.Status)
	}
	want := models.ProposalView{ID: 1, Description: "Lower taxes rate", VoteCount: 2}
	if resp.Winner != want {
		t.Errorf("Expected winner %+v, got %+v", want, resp.Winner)
	}
	if resp.Summary != "Proposal 1 wins with 2 of 3 votes cast (3 registered voters)" {
		t.Errorf("Unexpected summary '%s'", resp.Summary)
	}

	snap := env.storedSnapshot(t)
	if snap.WinningProposalID == nil || *snap.WinningProposalID != 1 {
		t.Errorf("Expected stored winner 1, got %v", snap.WinningProposalID)
	}

	// A second tally is not a legal transition
	w = httptest.NewRecorder()
	env.workflow.Tally(w, testutil.MakeRequest("POST", "/workflow/tally", nil, admin))
	testutil.AssertStatus(t, w, http.StatusConflict)
}
