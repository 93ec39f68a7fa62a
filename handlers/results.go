// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/openpoll/openpoll/middleware"
	"github.com/openpoll/openpoll/results"
)

type ResultsHandler struct {
	results *results.Service
}

func NewResultsHandler(results *results.Service) *ResultsHandler {
	return &ResultsHandler{results: results}
}

// GetResults handles GET /polls/{id}/results. Open to everyone, including
// anonymous callers; reads committed tallies without locking.
func (h *ResultsHandler) GetResults(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("id")
	if pollID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "poll id is required")
		return
	}

	resp, err := h.results.Results(r.Context(), pollID)
	if err != nil {
		middleware.CoreError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, resp)
}
