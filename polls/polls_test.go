// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package polls

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/openpoll/openpoll/errs"
	"github.com/openpoll/openpoll/identity"
	"github.com/openpoll/openpoll/models"
)

// fakeStore is an in-memory Store for exercising the lifecycle logic
// without a database.
type fakeStore struct {
	polls   map[string]models.Poll
	options map[string][]models.Option
	views   []models.PollView
	viewErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		polls:   make(map[string]models.Poll),
		options: make(map[string][]models.Option),
	}
}

func (f *fakeStore) CreatePoll(_ context.Context, p models.Poll, options []models.Option) error {
	f.polls[p.ID] = p
	f.options[p.ID] = options
	return nil
}

func (f *fakeStore) Poll(_ context.Context, id string) (models.Poll, error) {
	p, ok := f.polls[id]
	if !ok {
		return models.Poll{}, fmt.Errorf("poll %s: %w", id, errs.ErrNotFound)
	}
	return p, nil
}

func (f *fakeStore) Polls(_ context.Context) ([]models.Poll, error) {
	out := []models.Poll{}
	for _, p := range f.polls {
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeStore) UpdatePoll(_ context.Context, p models.Poll) error {
	if _, ok := f.polls[p.ID]; !ok {
		return fmt.Errorf("poll %s: %w", p.ID, errs.ErrNotFound)
	}
	f.polls[p.ID] = p
	return nil
}

func (f *fakeStore) OptionsByPoll(_ context.Context, pollID string) ([]models.Option, error) {
	return f.options[pollID], nil
}

func (f *fakeStore) RecordPollView(_ context.Context, v models.PollView) error {
	if f.viewErr != nil {
		return f.viewErr
	}
	f.views = append(f.views, v)
	return nil
}

func newTestService(store Store) *Service {
	return &Service{store: store, now: func() time.Time { return time.Now().UTC() }}
}

var owner = identity.Identity{UserID: "owner-1"}

func TestCreatePoll(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	poll, options, err := svc.Create(context.Background(), owner, models.CreatePollRequest{
		Question: "  Favorite color?  ",
		Options:  []string{"Red", "Blue"},
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if poll.Question != "Favorite color?" {
		t.Errorf("Expected trimmed question, got %q", poll.Question)
	}
	if !poll.Active {
		t.Error("Expected new poll to be active")
	}
	if poll.CreatedBy != "owner-1" {
		t.Errorf("Expected owner-1, got %s", poll.CreatedBy)
	}
	if len(options) != 2 {
		t.Fatalf("Expected 2 options, got %d", len(options))
	}
	if options[0].Text != "Red" || options[0].Position != 0 {
		t.Errorf("Expected Red at position 0, got %q at %d", options[0].Text, options[0].Position)
	}
	if options[1].Text != "Blue" || options[1].Position != 1 {
		t.Errorf("Expected Blue at position 1, got %q at %d", options[1].Text, options[1].Position)
	}
	if _, ok := store.polls[poll.ID]; !ok {
		t.Error("Poll was not persisted")
	}
}

func TestCreatePollValidation(t *testing.T) {
	tests := []struct {
		name    string
		actor   identity.Identity
		req     models.CreatePollRequest
		wantErr error
	}{
		{
			name:    "guest cannot create",
			actor:   identity.Identity{SessionID: "s1", IPAddress: "1.2.3.4"},
			req:     models.CreatePollRequest{Question: "Q?", Options: []string{"A", "B"}},
			wantErr: errs.ErrUnauthenticated,
		},
		{
			name:    "empty question",
			actor:   owner,
			req:     models.CreatePollRequest{Question: "   ", Options: []string{"A", "B"}},
			wantErr: errs.ErrValidation,
		},
		{
			name:    "single option",
			actor:   owner,
			req:     models.CreatePollRequest{Question: "Q?", Options: []string{"A"}},
			wantErr: errs.ErrValidation,
		},
		{
			name:    "no options",
			actor:   owner,
			req:     models.CreatePollRequest{Question: "Q?"},
			wantErr: errs.ErrValidation,
		},
		{
			name:    "blank option",
			actor:   owner,
			req:     models.CreatePollRequest{Question: "Q?", Options: []string{"A", "  "}},
			wantErr: errs.ErrValidation,
		},
		{
			name:    "duplicate options differ only by case",
			actor:   owner,
			req:     models.CreatePollRequest{Question: "Q?", Options: []string{"A", "a"}},
			wantErr: errs.ErrValidation,
		},
		{
			name:    "duplicate options differ only by whitespace",
			actor:   owner,
			req:     models.CreatePollRequest{Question: "Q?", Options: []string{"A", " A "}},
			wantErr: errs.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(newFakeStore())
			_, _, err := svc.Create(context.Background(), tt.actor, tt.req)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestVotable(t *testing.T) {
	now := time.Now().UTC()
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	tests := []struct {
		name     string
		poll     models.Poll
		expected bool
	}{
		{"active without expiry", models.Poll{Active: true}, true},
		{"active before expiry", models.Poll{Active: true, ExpiresAt: &future}, true},
		{"active past expiry", models.Poll{Active: true, ExpiresAt: &past}, false},
		{"inactive", models.Poll{Active: false}, false},
		{"inactive before expiry", models.Poll{Active: false, ExpiresAt: &future}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Votable(tt.poll, now); got != tt.expected {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestCloseAndReopen(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	ctx := context.Background()

	poll, _, err := svc.Create(ctx, owner, models.CreatePollRequest{
		Question: "Q?", Options: []string{"A", "B"},
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := svc.Close(ctx, poll.ID, owner); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if store.polls[poll.ID].Active {
		t.Error("Expected poll inactive after close")
	}

	// Closing an already-closed poll is a no-op, not an error
	if err := svc.Close(ctx, poll.ID, owner); err != nil {
		t.Errorf("Second close failed: %v", err)
	}

	if err := svc.Reopen(ctx, poll.ID, owner); err != nil {
		t.Fatalf("Reopen failed: %v", err)
	}
	if !store.polls[poll.ID].Active {
		t.Error("Expected poll active after reopen")
	}

	// Reopening an open poll is equally idempotent
	if err := svc.Reopen(ctx, poll.ID, owner); err != nil {
		t.Errorf("Second reopen failed: %v", err)
	}
}

func TestCloseRequiresOwner(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	ctx := context.Background()

	poll, _, err := svc.Create(ctx, owner, models.CreatePollRequest{
		Question: "Q?", Options: []string{"A", "B"},
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	tests := []struct {
		name  string
		actor identity.Identity
	}{
		{"other user", identity.Identity{UserID: "intruder"}},
		{"guest", identity.Identity{SessionID: "s1", IPAddress: "1.2.3.4"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := svc.Close(ctx, poll.ID, tt.actor); !errors.Is(err, errs.ErrPermission) {
				t.Errorf("Expected ErrPermission, got %v", err)
			}
			if err := svc.Reopen(ctx, poll.ID, tt.actor); !errors.Is(err, errs.ErrPermission) {
				t.Errorf("Expected ErrPermission, got %v", err)
			}
		})
	}

	if !store.polls[poll.ID].Active {
		t.Error("Poll state must be untouched after denied mutations")
	}
}

func TestCloseUnknownPoll(t *testing.T) {
	svc := newTestService(newFakeStore())
	if err := svc.Close(context.Background(), "nope", owner); !errors.Is(err, errs.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestUpdatePoll(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	ctx := context.Background()

	poll, _, err := svc.Create(ctx, owner, models.CreatePollRequest{
		Question: "Q?", Options: []string{"A", "B"},
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	question := "Better question?"
	active := false
	updated, err := svc.Update(ctx, poll.ID, owner, models.UpdatePollRequest{
		Question: &question,
		Active:   &active,
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.Question != "Better question?" {
		t.Errorf("Expected updated question, got %q", updated.Question)
	}
	if updated.Active {
		t.Error("Expected poll inactive after update")
	}

	// Partial update leaves the other field alone
	question2 := "Final question?"
	updated, err = svc.Update(ctx, poll.ID, owner, models.UpdatePollRequest{Question: &question2})
	if err != nil {
		t.Fatalf("Partial update failed: %v", err)
	}
	if updated.Active {
		t.Error("Partial update must not resurrect the active flag")
	}

	empty := "  "
	if _, err := svc.Update(ctx, poll.ID, owner, models.UpdatePollRequest{Question: &empty}); !errors.Is(err, errs.ErrValidation) {
		t.Errorf("Expected ErrValidation for blank question, got %v", err)
	}

	if _, err := svc.Update(ctx, poll.ID, identity.Identity{UserID: "intruder"}, models.UpdatePollRequest{Question: &question}); !errors.Is(err, errs.ErrPermission) {
		t.Errorf("Expected ErrPermission, got %v", err)
	}
}

func TestGetRecordsView(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	ctx := context.Background()

	poll, _, err := svc.Create(ctx, owner, models.CreatePollRequest{
		Question: "Q?", Options: []string{"A", "B"},
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	viewer := identity.Identity{SessionID: "s1", IPAddress: "1.2.3.4"}
	got, options, err := svc.Get(ctx, poll.ID, viewer)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.ID != poll.ID {
		t.Errorf("Expected poll %s, got %s", poll.ID, got.ID)
	}
	if len(options) != 2 {
		t.Errorf("Expected 2 options, got %d", len(options))
	}

	if len(store.views) != 1 {
		t.Fatalf("Expected 1 view record, got %d", len(store.views))
	}
	view := store.views[0]
	if view.PollID != poll.ID || view.SessionID != "s1" || view.IPAddress != "1.2.3.4" {
		t.Errorf("View record mismatch: %+v", view)
	}
	if view.UserID != nil {
		t.Error("Guest view must not carry a user id")
	}
}

// Analytics writes are best effort: a failing view insert must not fail the read.
func TestGetSurvivesViewFailure(t *testing.T) {
	store := newFakeStore()
	store.viewErr = errors.New("disk full")
	svc := newTestService(store)
	ctx := context.Background()

	poll, _, err := svc.Create(ctx, owner, models.CreatePollRequest{
		Question: "Q?", Options: []string{"A", "B"},
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if _, _, err := svc.Get(ctx, poll.ID, owner); err != nil {
		t.Errorf("Get must succeed despite view failure, got %v", err)
	}
}

func TestCanMutate(t *testing.T) {
	poll := models.Poll{CreatedBy: "owner-1"}

	if !CanMutate(poll, identity.Identity{UserID: "owner-1"}) {
		t.Error("Owner must be allowed to mutate")
	}
	if CanMutate(poll, identity.Identity{UserID: "other"}) {
		t.Error("Non-owner must not mutate")
	}
	if CanMutate(poll, identity.Identity{SessionID: "s1", IPAddress: "1.2.3.4"}) {
		t.Error("Guest must not mutate")
	}
}
