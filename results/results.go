// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package results

import (
	"context"

	"github.com/openpoll/openpoll/models"
)

// Store is the read-only surface the aggregator needs.
type Store interface {
	Poll(ctx context.Context, id string) (models.Poll, error)
	OptionCounts(ctx context.Context, pollID string) ([]models.OptionCount, error)
}

// Service computes per-option tallies on demand. No locking: it reads
// committed state, so a result requested right after a vote commit
// includes that vote.
type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// Results returns the poll question and per-option vote counts in option
// creation order. Counts merge authenticated and guest votes additively.
func (s *Service) Results(ctx context.Context, pollID string) (models.ResultsResponse, error) {
	poll, err := s.store.Poll(ctx, pollID)
	if err != nil {
		return models.ResultsResponse{}, err
	}

	counts, err := s.store.OptionCounts(ctx, pollID)
	if err != nil {
		return models.ResultsResponse{}, err
	}

	resp := models.ResultsResponse{
		Question: poll.Question,
		Results:  make([]models.OptionResult, len(counts)),
	}
	for i, c := range counts {
		resp.Results[i] = models.OptionResult{Option: c.Text, Votes: c.Votes}
	}
	return resp, nil
}
