// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/openpoll/openpoll/identity"
	"github.com/openpoll/openpoll/ledger"
	"github.com/openpoll/openpoll/middleware"
	"github.com/openpoll/openpoll/models"
)

type VotingHandler struct {
	ledger   *ledger.Ledger
	resolver *identity.Resolver
}

func NewVotingHandler(ledger *ledger.Ledger, resolver *identity.Resolver) *VotingHandler {
	return &VotingHandler{ledger: ledger, resolver: resolver}
}

// CastVote handles POST /polls/{id}/vote for both authenticated users and
// guests. First vote answers 201, a changed vote answers 200.
func (h *VotingHandler) CastVote(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("id")
	if pollID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "poll id is required")
		return
	}

	caller, err := h.resolver.Resolve(r)
	if err != nil {
		middleware.CoreError(w, err)
		return
	}

	var req models.CastVoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Option == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "option is required")
		return
	}

	// Body session id is the last-resort fallback for cookie-less clients
	if !caller.Authenticated() && caller.SessionID == "" {
		caller.SessionID = req.SessionID
	}

	status, err := h.ledger.CastVote(r.Context(), pollID, req.Option, caller)
	if err != nil {
		middleware.CoreError(w, err)
		return
	}

	slog.Info("vote cast",
		"poll_id", pollID,
		"status", status,
		"authenticated", caller.Authenticated(),
	)

	if status == models.VoteCreated {
		middleware.JSONResponse(w, http.StatusCreated, models.CastVoteResponse{
			Status: status,
			Detail: "Vote recorded.",
		})
		return
	}
	middleware.JSONResponse(w, http.StatusOK, models.CastVoteResponse{
		Status: status,
		Detail: "Your vote has been updated.",
	})
}
