// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/dustin/go-humanize"
	"github.com/ethereum/go-ethereum/common"

	"github.com/danielhkuo/quickly-vote/cliparse"
	"github.com/danielhkuo/quickly-vote/db"
	"github.com/danielhkuo/quickly-vote/election"
	"github.com/danielhkuo/quickly-vote/middleware"
	"github.com/danielhkuo/quickly-vote/models"
)

type WorkflowHandler struct {
	election *election.Election
	store    *db.Store
	cfg      cliparse.Config
}

func NewWorkflowHandler(el *election.Election, store *db.Store, cfg cliparse.Config) *WorkflowHandler {
	return &WorkflowHandler{election: el, store: store, cfg: cfg}
}

// StartProposals handles POST /workflow/proposals/start
func (h *WorkflowHandler) StartProposals(w http.ResponseWriter, r *http.Request) {
	h.advance(w, r, election.RegisteringVoters, election.ProposalsRegistrationStarted, h.election.StartProposalsRegistration)
}

// EndProposals handles POST /workflow/proposals/end
func (h *WorkflowHandler) EndProposals(w http.ResponseWriter, r *http.Request) {
	h.advance(w, r, election.ProposalsRegistrationStarted, election.ProposalsRegistrationEnded, h.election.EndProposalsRegistration)
}

// StartVoting handles POST /workflow/voting/start
func (h *WorkflowHandler) StartVoting(w http.ResponseWriter, r *http.Request) {
	h.advance(w, r, election.ProposalsRegistrationEnded, election.VotingSessionStarted, h.election.StartVotingSession)
}

// EndVoting handles POST /workflow/voting/end
func (h *WorkflowHandler) EndVoting(w http.ResponseWriter, r *http.Request) {
	h.advance(w, r, election.VotingSessionStarted, election.VotingSessionEnded, h.election.EndVotingSession)
}

func (h *WorkflowHandler) advance(w http.ResponseWriter, r *http.Request, from, to election.Phase, op func(common.Address) error) {
	caller, ok := requireOwnerKey(w, r, h.election, h.cfg.AdminKeySalt)
	if !ok {
		return
	}

	if err := op(caller); err != nil {
		writeElectionError(w, err)
		return
	}
	persist(r, h.store, h.election)

	slog.Info("workflow status changed", "previous", from.String(), "current", to.String())

	middleware.JSONResponse(w, http.StatusOK, models.PhaseChangeResponse{
		Previous: from,
		Current:  to,
	})
}

// Tally handles POST /workflow/tally
func (h *WorkflowHandler) Tally(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireOwnerKey(w, r, h.election, h.cfg.AdminKeySalt)
	if !ok {
		return
	}

	if _, err := h.election.TallyVotes(caller); err != nil {
		writeElectionError(w, err)
		return
	}
	persist(r, h.store, h.election)

	id, p, err := h.election.Winner()
	if err != nil {
		writeElectionError(w, err)
		return
	}
	summary := h.election.Summary()

	slog.Info("votes tallied",
		"winning_proposal_id", id,
		"votes", p.VoteCount,
		"tie_break", h.election.Policy().TieBreak.Name(),
	)

	middleware.JSONResponse(w, http.StatusOK, models.TallyResponse{
		Status:  election.VotesTallied,
		Winner:  models.NewProposalView(id, p),
		Summary: winnerSummary(id, p, summary),
	})
}

func winnerSummary(id int, p election.Proposal, s election.Summary) string {
	return fmt.Sprintf("Proposal %d wins with %s of %s votes cast (%s registered voters)",
		id,
		humanize.Comma(int64(p.VoteCount)),
		humanize.Comma(int64(s.VotesCast)),
		humanize.Comma(int64(s.VoterCount)),
	)
}
