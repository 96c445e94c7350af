// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/ethereum/go-ethereum/common"

	"github.com/danielhkuo/quickly-vote/auth"
	"github.com/danielhkuo/quickly-vote/db"
	"github.com/danielhkuo/quickly-vote/election"
	"github.com/danielhkuo/quickly-vote/middleware"
	"github.com/danielhkuo/quickly-vote/models"
)

const (
	defaultEventLimit = 100
	maxEventLimit     = 1000
)

type ResultsHandler struct {
	election *election.Election
	events   *db.EventLog
}

func NewResultsHandler(el *election.Election, events *db.EventLog) *ResultsHandler {
	return &ResultsHandler{election: el, events: events}
}

// GetElection handles GET /election
func (h *ResultsHandler) GetElection(w http.ResponseWriter, r *http.Request) {
	middleware.JSONResponse(w, http.StatusOK, h.election.Summary())
}

// GetProposals handles GET /proposals
func (h *ResultsHandler) GetProposals(w http.ResponseWriter, r *http.Request) {
	caller, ok := viewer(w, r, h.election)
	if !ok {
		return
	}

	proposals, err := h.election.Proposals(caller)
	if err != nil {
		writeElectionError(w, err)
		return
	}

	views := make([]models.ProposalView, len(proposals))
	for i, p := range proposals {
		views[i] = models.NewProposalView(i, p)
	}
	middleware.JSONResponse(w, http.StatusOK, models.ProposalsResponse{Proposals: views})
}

// GetProposal handles GET /proposals/{id}
func (h *ResultsHandler) GetProposal(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "proposal id must be an integer")
		return
	}

	caller, ok := viewer(w, r, h.election)
	if !ok {
		return
	}

	p, err := h.election.Proposal(caller, id)
	if err != nil {
		writeElectionError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, models.NewProposalView(id, p))
}

// GetVoter handles GET /voters/{address}
func (h *ResultsHandler) GetVoter(w http.ResponseWriter, r *http.Request) {
	voter, ok := pathAddress(w, r)
	if !ok {
		return
	}
	caller, ok := viewer(w, r, h.election)
	if !ok {
		return
	}

	v, err := h.election.Voter(caller, voter)
	if err != nil {
		writeElectionError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, models.NewVoterResponse(voter.Hex(), v))
}

// GetVotedProposal handles GET /voters/{address}/vote
func (h *ResultsHandler) GetVotedProposal(w http.ResponseWriter, r *http.Request) {
	voter, ok := pathAddress(w, r)
	if !ok {
		return
	}
	caller, ok := viewer(w, r, h.election)
	if !ok {
		return
	}

	id, err := h.election.VotedProposalID(caller, voter)
	if err != nil {
		writeElectionError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, models.VotedProposalResponse{
		Address:    voter.Hex(),
		ProposalID: id,
	})
}

// GetWinner handles GET /winner. Public once votes are tallied.
func (h *ResultsHandler) GetWinner(w http.ResponseWriter, r *http.Request) {
	id, p, err := h.election.Winner()
	if err != nil {
		writeElectionError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, models.WinnerResponse{
		Winner:  models.NewProposalView(id, p),
		Summary: winnerSummary(id, p, h.election.Summary()),
	})
}

// GetEvents handles GET /events?after=N&limit=M
func (h *ResultsHandler) GetEvents(w http.ResponseWriter, r *http.Request) {
	caller, ok := viewer(w, r, h.election)
	if !ok {
		return
	}
	if err := h.election.CanView(caller); err != nil {
		writeElectionError(w, err)
		return
	}

	var after uint64
	if s := r.URL.Query().Get("after"); s != "" {
		v, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			middleware.ErrorResponse(w, http.StatusBadRequest, "after must be a non-negative integer")
			return
		}
		after = v
	}

	limit := defaultEventLimit
	if s := r.URL.Query().Get("limit"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 1 || v > maxEventLimit {
			middleware.ErrorResponse(w, http.StatusBadRequest, "limit must be between 1 and 1000")
			return
		}
		limit = v
	}

	records, err := h.events.List(r.Context(), after, limit)
	if err != nil {
		slog.Error("failed to list events", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, models.EventsResponse{Events: records})
}

func pathAddress(w http.ResponseWriter, r *http.Request) (common.Address, bool) {
	addr, err := auth.ParseAddress(r.PathValue("address"))
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "address must be a non-zero 20-byte hex address")
		return common.Address{}, false
	}
	return addr, true
}
