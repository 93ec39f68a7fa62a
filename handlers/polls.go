// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/dustin/go-humanize"

	"github.com/openpoll/openpoll/identity"
	"github.com/openpoll/openpoll/middleware"
	"github.com/openpoll/openpoll/models"
	"github.com/openpoll/openpoll/polls"
)

type PollHandler struct {
	polls    *polls.Service
	resolver *identity.Resolver
}

func NewPollHandler(polls *polls.Service, resolver *identity.Resolver) *PollHandler {
	return &PollHandler{polls: polls, resolver: resolver}
}

// CreatePoll handles POST /polls
func (h *PollHandler) CreatePoll(w http.ResponseWriter, r *http.Request) {
	actor, err := h.resolver.Resolve(r)
	if err != nil {
		middleware.CoreError(w, err)
		return
	}

	var req models.CreatePollRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	poll, options, err := h.polls.Create(r.Context(), actor, req)
	if err != nil {
		middleware.CoreError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, pollResponse(poll, options))
}

// ListPolls handles GET /polls
func (h *PollHandler) ListPolls(w http.ResponseWriter, r *http.Request) {
	list, err := h.polls.List(r.Context())
	if err != nil {
		middleware.CoreError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, list)
}

// GetPoll handles GET /polls/{id} and records a view audit entry
func (h *PollHandler) GetPoll(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("id")
	if pollID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "poll id is required")
		return
	}

	viewer, err := h.resolver.Resolve(r)
	if err != nil {
		middleware.CoreError(w, err)
		return
	}

	poll, options, err := h.polls.Get(r.Context(), pollID, viewer)
	if err != nil {
		middleware.CoreError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, pollResponse(poll, options))
}

// UpdatePoll handles PATCH /polls/{id} (owner only)
func (h *PollHandler) UpdatePoll(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("id")
	if pollID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "poll id is required")
		return
	}

	actor, err := h.resolver.Resolve(r)
	if err != nil {
		middleware.CoreError(w, err)
		return
	}

	var req models.UpdatePollRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	poll, err := h.polls.Update(r.Context(), pollID, actor, req)
	if err != nil {
		middleware.CoreError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, poll)
}

// ClosePoll handles POST /polls/{id}/close (owner only, idempotent)
func (h *PollHandler) ClosePoll(w http.ResponseWriter, r *http.Request) {
	h.setActive(w, r, false, "Poll closed.")
}

// ReopenPoll handles POST /polls/{id}/reopen (owner only, idempotent)
func (h *PollHandler) ReopenPoll(w http.ResponseWriter, r *http.Request) {
	h.setActive(w, r, true, "Poll reopened.")
}

func (h *PollHandler) setActive(w http.ResponseWriter, r *http.Request, active bool, detail string) {
	pollID := r.PathValue("id")
	if pollID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "poll id is required")
		return
	}

	actor, err := h.resolver.Resolve(r)
	if err != nil {
		middleware.CoreError(w, err)
		return
	}

	if active {
		err = h.polls.Reopen(r.Context(), pollID, actor)
	} else {
		err = h.polls.Close(r.Context(), pollID, actor)
	}
	if err != nil {
		middleware.CoreError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, map[string]string{"detail": detail})
}

func pollResponse(poll models.Poll, options []models.Option) models.PollResponse {
	resp := models.PollResponse{Poll: poll, Options: options}
	if poll.ExpiresAt != nil {
		resp.ExpiresIn = humanize.Time(*poll.ExpiresAt)
	}
	return resp
}
