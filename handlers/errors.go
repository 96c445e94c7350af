// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/ethereum/go-ethereum/common"

	"github.com/danielhkuo/quickly-vote/auth"
	"github.com/danielhkuo/quickly-vote/db"
	"github.com/danielhkuo/quickly-vote/election"
	"github.com/danielhkuo/quickly-vote/middleware"
	"github.com/danielhkuo/quickly-vote/models"
)

// electionErrorStatus maps an election error to its HTTP status
func electionErrorStatus(err error) int {
	switch {
	case errors.Is(err, election.ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, election.ErrInvalidPhaseTransition),
		errors.Is(err, election.ErrAlreadyRegistered),
		errors.Is(err, election.ErrAlreadyVoted),
		errors.Is(err, election.ErrNoProposals):
		return http.StatusConflict
	case errors.Is(err, election.ErrInvalidProposal),
		errors.Is(err, election.ErrNoVoteCast):
		return http.StatusNotFound
	case errors.Is(err, election.ErrDescriptionTooShort),
		errors.Is(err, election.ErrInvalidIdentity):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func writeElectionError(w http.ResponseWriter, err error) {
	status := electionErrorStatus(err)
	if status == http.StatusInternalServerError {
		slog.Error("election operation failed", "error", err)
		middleware.ErrorResponse(w, status, "Internal error")
		return
	}
	middleware.ErrorResponse(w, status, err.Error())
}

// requireCaller reads the caller address, writing a 401 when it is absent
// or malformed
func requireCaller(w http.ResponseWriter, r *http.Request) (common.Address, bool) {
	caller, err := middleware.CallerAddress(r)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, err.Error())
		return common.Address{}, false
	}
	return caller, true
}

// requireOwnerKey authenticates an owner-only request. The admin key proves
// the request comes from the operator; the election itself still checks
// that the caller is the owner.
func requireOwnerKey(w http.ResponseWriter, r *http.Request, el *election.Election, salt string) (common.Address, bool) {
	caller, ok := requireCaller(w, r)
	if !ok {
		return common.Address{}, false
	}
	adminKey := r.Header.Get(models.HeaderAdminKey)
	if err := auth.ValidateAdminKey(el.Owner(), adminKey, salt); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid admin key")
		return common.Address{}, false
	}
	return caller, true
}

// viewer returns the caller for read endpoints. Anonymous reads are allowed
// when the policy does not require registration.
func viewer(w http.ResponseWriter, r *http.Request, el *election.Election) (common.Address, bool) {
	if r.Header.Get(models.HeaderCaller) == "" && !el.Policy().ViewsRequireRegistration {
		return common.Address{}, true
	}
	return requireCaller(w, r)
}

// persist saves the current election state. The mutation has already
// committed in memory, so a failure is logged and the next save carries it.
func persist(r *http.Request, store *db.Store, el *election.Election) {
	snap := el.Snapshot()
	ctx := context.WithoutCancel(r.Context())
	if _, err := store.SaveSnapshot(ctx, snap); err != nil {
		slog.Error("failed to persist election snapshot", "seq", snap.Seq, "error", err)
	}
}
