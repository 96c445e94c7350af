// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/quickly-vote/auth"
	"github.com/danielhkuo/quickly-vote/cliparse"
	"github.com/danielhkuo/quickly-vote/db"
	"github.com/danielhkuo/quickly-vote/election"
	"github.com/danielhkuo/quickly-vote/middleware"
	"github.com/danielhkuo/quickly-vote/models"
)

type VotingHandler struct {
	election *election.Election
	store    *db.Store
	cfg      cliparse.Config
}

func NewVotingHandler(el *election.Election, store *db.Store, cfg cliparse.Config) *VotingHandler {
	return &VotingHandler{election: el, store: store, cfg: cfg}
}

// RegisterVoter handles POST /voters (owner only)
func (h *VotingHandler) RegisterVoter(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireOwnerKey(w, r, h.election, h.cfg.AdminKeySalt)
	if !ok {
		return
	}

	var req models.RegisterVoterRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if strings.TrimSpace(req.Address) == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "address is required")
		return
	}
	voter, err := auth.ParseAddress(req.Address)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "address must be a non-zero 20-byte hex address")
		return
	}

	if err := h.election.Register(caller, voter); err != nil {
		writeElectionError(w, err)
		return
	}
	persist(r, h.store, h.election)

	slog.Info("voter registered", "voter", voter.Hex())

	middleware.JSONResponse(w, http.StatusCreated, models.RegisterVoterResponse{
		Address: voter.Hex(),
	})
}

// RegisterProposal handles POST /proposals
func (h *VotingHandler) RegisterProposal(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireCaller(w, r)
	if !ok {
		return
	}

	var req models.RegisterProposalRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	id, err := h.election.RegisterProposal(caller, req.Description)
	if err != nil {
		writeElectionError(w, err)
		return
	}
	persist(r, h.store, h.election)

	slog.Info("proposal registered", "proposal_id", id, "author", caller.Hex())

	middleware.JSONResponse(w, http.StatusCreated, models.RegisterProposalResponse{
		ProposalID: id,
	})
}

// Vote handles POST /votes
func (h *VotingHandler) Vote(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireCaller(w, r)
	if !ok {
		return
	}

	var req models.VoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.ProposalID == nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "proposal_id is required")
		return
	}

	if err := h.election.Vote(caller, *req.ProposalID); err != nil {
		writeElectionError(w, err)
		return
	}
	persist(r, h.store, h.election)

	cast := h.election.Summary().VotesCast
	slog.Info("vote recorded", "voter", caller.Hex(), "proposal_id", *req.ProposalID, "votes_cast", cast)

	middleware.JSONResponse(w, http.StatusCreated, models.VoteResponse{
		ProposalID: *req.ProposalID,
		Message:    fmt.Sprintf("Vote recorded, %s ballot cast", humanize.Ordinal(cast)),
	})
}
