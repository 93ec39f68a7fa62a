// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"github.com/openpoll/openpoll/cliparse"
	"github.com/openpoll/openpoll/handlers"
	"github.com/openpoll/openpoll/identity"
	"github.com/openpoll/openpoll/ledger"
	"github.com/openpoll/openpoll/middleware"
	"github.com/openpoll/openpoll/polls"
	"github.com/openpoll/openpoll/results"
	"github.com/openpoll/openpoll/store"
)

func NewRouter(db *sql.DB, cfg cliparse.Config) http.Handler {
	st := store.New(db)
	resolver := identity.NewResolver(cfg.JWTSecret)

	pollService := polls.NewService(st)
	voteLedger := ledger.New(st)
	resultService := results.NewService(st)

	userHandler := handlers.NewUserHandler(st, cfg)
	pollHandler := handlers.NewPollHandler(pollService, resolver)
	votingHandler := handlers.NewVotingHandler(voteLedger, resolver)
	resultsHandler := handlers.NewResultsHandler(resultService)

	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Accounts
	mux.HandleFunc("POST /users/register", middleware.WithLogging(userHandler.Register))
	mux.HandleFunc("POST /users/login", middleware.WithLogging(userHandler.Login))

	// Poll lifecycle (mutations are owner-only, enforced in the core)
	mux.HandleFunc("POST /polls", middleware.WithLogging(pollHandler.CreatePoll))
	mux.HandleFunc("GET /polls", middleware.WithLogging(pollHandler.ListPolls))
	mux.HandleFunc("GET /polls/{id}", middleware.WithLogging(pollHandler.GetPoll))
	mux.HandleFunc("PATCH /polls/{id}", middleware.WithLogging(pollHandler.UpdatePoll))
	mux.HandleFunc("POST /polls/{id}/close", middleware.WithLogging(pollHandler.ClosePoll))
	mux.HandleFunc("POST /polls/{id}/reopen", middleware.WithLogging(pollHandler.ReopenPoll))

	// Voting and results (public)
	mux.HandleFunc("POST /polls/{id}/vote", middleware.WithLogging(votingHandler.CastVote))
	mux.HandleFunc("GET /polls/{id}/results", middleware.WithLogging(resultsHandler.GetResults))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("openpoll API v1"))
	})

	return middleware.CORS(middleware.EnsureSession(mux))
}
