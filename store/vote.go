// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/openpoll/openpoll/errs"
	"github.com/openpoll/openpoll/models"
	"github.com/openpoll/openpoll/polls"
)

// CastUserVote runs the whole find-or-create sequence for an authenticated
// vote in one transaction: validate the option and poll state, then update
// the existing row or insert a fresh one. Returns created=true on first
// vote, false when an existing row was moved to the new option.
//
// Two racing first votes cannot both insert: the second hits the
// (poll_id, user_id) primary key and surfaces as ErrContention, which the
// ledger retries — the retry then takes the update path.
func (s *Store) CastUserVote(ctx context.Context, v models.Vote) (bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, classify("begin cast vote", err)
	}
	defer tx.Rollback()

	if err := castable(ctx, tx, v.PollID, v.OptionID, v.VotedAt); err != nil {
		return false, err
	}

	res, err := tx.ExecContext(ctx, `
		UPDATE vote SET option_id = $1, session_id = $2, ip_address = $3, voted_at = $4
		WHERE poll_id = $5 AND user_id = $6
	`, v.OptionID, v.SessionID, v.IPAddress, v.VotedAt, v.PollID, v.UserID)
	if err != nil {
		return false, classify("update vote", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, classify("update vote rows", err)
	}

	if n == 0 {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO vote (poll_id, option_id, user_id, session_id, ip_address, voted_at)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, v.PollID, v.OptionID, v.UserID, v.SessionID, v.IPAddress, v.VotedAt)
		if err != nil {
			if isUniqueViolation(err) {
				return false, fmt.Errorf("concurrent vote for the same identity: %w: %w", errs.ErrContention, err)
			}
			return false, classify("insert vote", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, classify("commit cast vote", err)
	}
	return n == 0, nil
}

// CastGuestVote is CastUserVote keyed on the guest fingerprint
// (poll, session id, IP) against the guest_vote table.
func (s *Store) CastGuestVote(ctx context.Context, v models.GuestVote) (bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, classify("begin cast guest vote", err)
	}
	defer tx.Rollback()

	if err := castable(ctx, tx, v.PollID, v.OptionID, v.VotedAt); err != nil {
		return false, err
	}

	res, err := tx.ExecContext(ctx, `
		UPDATE guest_vote SET option_id = $1, voted_at = $2
		WHERE poll_id = $3 AND session_id = $4 AND ip_address = $5
	`, v.OptionID, v.VotedAt, v.PollID, v.SessionID, v.IPAddress)
	if err != nil {
		return false, classify("update guest vote", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, classify("update guest vote rows", err)
	}

	if n == 0 {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO guest_vote (poll_id, option_id, session_id, ip_address, voted_at)
			VALUES ($1, $2, $3, $4, $5)
		`, v.PollID, v.OptionID, v.SessionID, v.IPAddress, v.VotedAt)
		if err != nil {
			if isUniqueViolation(err) {
				return false, fmt.Errorf("concurrent vote for the same guest: %w: %w", errs.ErrContention, err)
			}
			return false, classify("insert guest vote", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, classify("commit cast guest vote", err)
	}
	return n == 0, nil
}

// castable performs the validation reads inside the vote transaction, in
// contract order: unknown poll, option membership, then votability. All of
// it happens before any write, so a failed validation never dirties state.
func castable(ctx context.Context, tx *sql.Tx, pollID, optionID string, now time.Time) error {
	row := tx.QueryRowContext(ctx, `
		SELECT id, question, expires_at, active, created_by, created_at, updated_at
		FROM poll WHERE id = $1
	`, pollID)
	p, err := scanPoll(row)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("poll %s: %w", pollID, errs.ErrNotFound)
	}
	if err != nil {
		return classify("load poll", err)
	}

	var optionPoll string
	err = tx.QueryRowContext(ctx, `SELECT poll_id FROM option WHERE id = $1`, optionID).Scan(&optionPoll)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("option %s: %w", optionID, errs.ErrInvalidOption)
	}
	if err != nil {
		return classify("load option", err)
	}
	if optionPoll != pollID {
		return fmt.Errorf("option %s belongs to another poll: %w", optionID, errs.ErrInvalidOption)
	}

	if !polls.Votable(p, now) {
		return fmt.Errorf("poll %s: %w", pollID, errs.ErrPollClosed)
	}
	return nil
}
