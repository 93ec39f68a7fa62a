// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ledger

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/openpoll/openpoll/errs"
	"github.com/openpoll/openpoll/identity"
	"github.com/openpoll/openpoll/models"
)

// castAttempts bounds the retry loop for retryable storage conflicts. Each
// attempt is a fresh transaction; a lost insert race resolves on the next
// attempt via the update path.
const castAttempts = 3

// Store is the transactional surface the ledger writes through. Both
// methods run their full validate-and-upsert sequence atomically and
// report created=true only for a first-time vote.
type Store interface {
	CastUserVote(ctx context.Context, v models.Vote) (created bool, err error)
	CastGuestVote(ctx context.Context, v models.GuestVote) (created bool, err error)
}

// Ledger records one vote per identity per poll.
type Ledger struct {
	store Store
	now   func() time.Time
}

func New(store Store) *Ledger {
	return &Ledger{store: store, now: func() time.Time { return time.Now().UTC() }}
}

// CastVote accepts or reconciles a vote for the caller's identity and
// returns models.VoteCreated for a first vote or models.VoteUpdated when an
// existing vote moved to the new option (last write wins).
//
// Retryable conflicts (lost insert races, lock timeouts) are retried up to
// castAttempts times; anything still contended after that surfaces as
// errs.ErrContention, the one error callers may retry.
func (l *Ledger) CastVote(ctx context.Context, pollID, optionID string, id identity.Identity) (string, error) {
	if err := id.CanVote(); err != nil {
		return "", err
	}

	var lastErr error
	for attempt := 0; attempt < castAttempts; attempt++ {
		if attempt > 0 {
			// Brief pause before re-running the transaction; the winner
			// of the race needs to commit first.
			time.Sleep(time.Duration(attempt) * 10 * time.Millisecond)
		}

		created, err := l.cast(ctx, pollID, optionID, id)
		if err == nil {
			if created {
				return models.VoteCreated, nil
			}
			return models.VoteUpdated, nil
		}
		if !errors.Is(err, errs.ErrContention) {
			return "", err
		}

		slog.Debug("vote cast contended, retrying", "poll_id", pollID, "attempt", attempt+1)
		lastErr = err
	}

	return "", lastErr
}

func (l *Ledger) cast(ctx context.Context, pollID, optionID string, id identity.Identity) (bool, error) {
	votedAt := l.now()

	if id.Authenticated() {
		return l.store.CastUserVote(ctx, models.Vote{
			PollID:    pollID,
			OptionID:  optionID,
			UserID:    id.UserID,
			SessionID: id.SessionID,
			IPAddress: id.IPAddress,
			VotedAt:   votedAt,
		})
	}

	return l.store.CastGuestVote(ctx, models.GuestVote{
		PollID:    pollID,
		OptionID:  optionID,
		SessionID: id.SessionID,
		IPAddress: id.IPAddress,
		VotedAt:   votedAt,
	})
}
