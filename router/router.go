// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/danielhkuo/quickly-vote/cliparse"
	"github.com/danielhkuo/quickly-vote/db"
	"github.com/danielhkuo/quickly-vote/election"
	"github.com/danielhkuo/quickly-vote/handlers"
	"github.com/danielhkuo/quickly-vote/middleware"
)

func NewRouter(el *election.Election, store *db.Store, events *db.EventLog, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	workflowHandler := handlers.NewWorkflowHandler(el, store, cfg)
	votingHandler := handlers.NewVotingHandler(el, store, cfg)
	resultsHandler := handlers.NewResultsHandler(el, events)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Workflow (owner, requires X-Admin-Key)
	mux.HandleFunc("POST /voters", middleware.WithLogging(votingHandler.RegisterVoter))
	mux.HandleFunc("POST /workflow/proposals/start", middleware.WithLogging(workflowHandler.StartProposals))
	mux.HandleFunc("POST /workflow/proposals/end", middleware.WithLogging(workflowHandler.EndProposals))
	mux.HandleFunc("POST /workflow/voting/start", middleware.WithLogging(workflowHandler.StartVoting))
	mux.HandleFunc("POST /workflow/voting/end", middleware.WithLogging(workflowHandler.EndVoting))
	mux.HandleFunc("POST /workflow/tally", middleware.WithLogging(workflowHandler.Tally))

	// Voter operations
	mux.HandleFunc("POST /proposals", middleware.WithLogging(votingHandler.RegisterProposal))
	mux.HandleFunc("POST /votes", middleware.WithLogging(votingHandler.Vote))

	// Views
	mux.HandleFunc("GET /election", middleware.WithLogging(resultsHandler.GetElection))
	mux.HandleFunc("GET /proposals", middleware.WithLogging(resultsHandler.GetProposals))
	mux.HandleFunc("GET /proposals/{id}", middleware.WithLogging(resultsHandler.GetProposal))
	mux.HandleFunc("GET /voters/{address}", middleware.WithLogging(resultsHandler.GetVoter))
	mux.HandleFunc("GET /voters/{address}/vote", middleware.WithLogging(resultsHandler.GetVotedProposal))
	mux.HandleFunc("GET /winner", middleware.WithLogging(resultsHandler.GetWinner))
	mux.HandleFunc("GET /events", middleware.WithLogging(resultsHandler.GetEvents))

	// Root endpoint
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("quickly-vote API v1"))
	})

	return mux
}
