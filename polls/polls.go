// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package polls

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/openpoll/openpoll/auth"
	"github.com/openpoll/openpoll/errs"
	"github.com/openpoll/openpoll/identity"
	"github.com/openpoll/openpoll/models"
)

// Store is the narrow persistence surface the lifecycle manager needs.
// *store.Store satisfies it; tests may substitute a fake.
type Store interface {
	CreatePoll(ctx context.Context, p models.Poll, options []models.Option) error
	Poll(ctx context.Context, id string) (models.Poll, error)
	Polls(ctx context.Context) ([]models.Poll, error)
	UpdatePoll(ctx context.Context, p models.Poll) error
	OptionsByPoll(ctx context.Context, pollID string) ([]models.Option, error)
	RecordPollView(ctx context.Context, v models.PollView) error
}

// Service owns poll state transitions and creation-time validation.
type Service struct {
	store Store
	now   func() time.Time
}

func NewService(store Store) *Service {
	return &Service{store: store, now: func() time.Time { return time.Now().UTC() }}
}

// Votable reports whether the poll accepts votes at the given instant:
// active and either without expiry or not yet expired. Expiry is evaluated
// lazily at call time; there is no sweep.
func Votable(p models.Poll, now time.Time) bool {
	return p.Active && (p.ExpiresAt == nil || p.ExpiresAt.After(now))
}

// Create validates and persists a poll with its options atomically.
// Option texts must number at least two and be pairwise unique after
// trimming and case folding.
func (s *Service) Create(ctx context.Context, actor identity.Identity, req models.CreatePollRequest) (models.Poll, []models.Option, error) {
	if !CanCreate(actor) {
		return models.Poll{}, nil, fmt.Errorf("poll creation: %w", errs.ErrUnauthenticated)
	}

	question := strings.TrimSpace(req.Question)
	if question == "" {
		return models.Poll{}, nil, fmt.Errorf("question is required: %w", errs.ErrValidation)
	}
	if len(req.Options) < 2 {
		return models.Poll{}, nil, fmt.Errorf("at least two options are required: %w", errs.ErrValidation)
	}

	seen := make(map[string]bool, len(req.Options))
	texts := make([]string, 0, len(req.Options))
	for _, raw := range req.Options {
		text := strings.TrimSpace(raw)
		if text == "" {
			return models.Poll{}, nil, fmt.Errorf("option text cannot be empty: %w", errs.ErrValidation)
		}
		norm := strings.ToLower(text)
		if seen[norm] {
			return models.Poll{}, nil, fmt.Errorf("option texts must be unique, %q repeats: %w", text, errs.ErrValidation)
		}
		seen[norm] = true
		texts = append(texts, text)
	}

	nowT := s.now()
	poll := models.Poll{
		ID:        auth.NewID(),
		Question:  question,
		ExpiresAt: req.ExpiresAt,
		Active:    true,
		CreatedBy: actor.UserID,
		CreatedAt: nowT,
		UpdatedAt: nowT,
	}

	options := make([]models.Option, len(texts))
	for i, text := range texts {
		options[i] = models.Option{
			ID:       auth.NewID(),
			PollID:   poll.ID,
			Text:     text,
			Position: i,
		}
	}

	if err := s.store.CreatePoll(ctx, poll, options); err != nil {
		return models.Poll{}, nil, err
	}

	slog.Info("poll created", "poll_id", poll.ID, "owner", poll.CreatedBy, "options", len(options))
	return poll, options, nil
}

// Close deactivates the poll. Idempotent: closing a closed poll succeeds.
func (s *Service) Close(ctx context.Context, pollID string, actor identity.Identity) error {
	return s.setActive(ctx, pollID, actor, false)
}

// Reopen reactivates the poll. Idempotent, symmetric with Close.
func (s *Service) Reopen(ctx context.Context, pollID string, actor identity.Identity) error {
	return s.setActive(ctx, pollID, actor, true)
}

func (s *Service) setActive(ctx context.Context, pollID string, actor identity.Identity, active bool) error {
	poll, err := s.store.Poll(ctx, pollID)
	if err != nil {
		return err
	}
	if !CanMutate(poll, actor) {
		return fmt.Errorf("only the poll owner may change poll state: %w", errs.ErrPermission)
	}

	poll.Active = active
	poll.UpdatedAt = s.now()
	if err := s.store.UpdatePoll(ctx, poll); err != nil {
		return err
	}

	slog.Info("poll state changed", "poll_id", pollID, "active", active)
	return nil
}

// Update applies a partial owner-only edit of question and active flag.
func (s *Service) Update(ctx context.Context, pollID string, actor identity.Identity, req models.UpdatePollRequest) (models.Poll, error) {
	poll, err := s.store.Poll(ctx, pollID)
	if err != nil {
		return models.Poll{}, err
	}
	if !CanMutate(poll, actor) {
		return models.Poll{}, fmt.Errorf("only the poll owner may edit the poll: %w", errs.ErrPermission)
	}

	if req.Question != nil {
		question := strings.TrimSpace(*req.Question)
		if question == "" {
			return models.Poll{}, fmt.Errorf("question cannot be empty: %w", errs.ErrValidation)
		}
		poll.Question = question
	}
	if req.Active != nil {
		poll.Active = *req.Active
	}

	poll.UpdatedAt = s.now()
	if err := s.store.UpdatePoll(ctx, poll); err != nil {
		return models.Poll{}, err
	}
	return poll, nil
}

// Get returns the poll with its options and appends a view audit record.
// The view write is best effort; analytics never fail a read.
func (s *Service) Get(ctx context.Context, pollID string, viewer identity.Identity) (models.Poll, []models.Option, error) {
	poll, err := s.store.Poll(ctx, pollID)
	if err != nil {
		return models.Poll{}, nil, err
	}
	options, err := s.store.OptionsByPoll(ctx, pollID)
	if err != nil {
		return models.Poll{}, nil, err
	}

	view := models.PollView{
		ID:        auth.NewID(),
		PollID:    pollID,
		SessionID: viewer.SessionID,
		IPAddress: viewer.IPAddress,
		ViewedAt:  s.now(),
	}
	if viewer.Authenticated() {
		uid := viewer.UserID
		view.UserID = &uid
	}
	if err := s.store.RecordPollView(ctx, view); err != nil {
		slog.Warn("failed to record poll view", "poll_id", pollID, "error", err)
	}

	return poll, options, nil
}

func (s *Service) List(ctx context.Context) ([]models.Poll, error) {
	return s.store.Polls(ctx)
}
