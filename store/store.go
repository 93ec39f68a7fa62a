// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/openpoll/openpoll/errs"
	"github.com/openpoll/openpoll/models"
)

// Store is the SQL implementation of the narrow per-entity repositories the
// core consumes. One instance wraps one *sql.DB; all methods are safe for
// concurrent use.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Users

func (s *Store) CreateUser(ctx context.Context, u models.User) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO app_user (id, username, email, password_hash, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, u.ID, u.Username, u.Email, u.PasswordHash, u.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("username %q already taken: %w", u.Username, errs.ErrConflict)
		}
		return classify("insert user", err)
	}
	return nil
}

func (s *Store) UserByUsername(ctx context.Context, username string) (models.User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx, `
		SELECT id, username, email, password_hash, created_at
		FROM app_user WHERE username = $1
	`, username))
}

func (s *Store) UserByID(ctx context.Context, id string) (models.User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx, `
		SELECT id, username, email, password_hash, created_at
		FROM app_user WHERE id = $1
	`, id))
}

func (s *Store) scanUser(row *sql.Row) (models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, fmt.Errorf("user: %w", errs.ErrNotFound)
	}
	if err != nil {
		return models.User{}, classify("scan user", err)
	}
	return u, nil
}

// Polls

// CreatePoll persists the poll and its options in one transaction so a poll
// is never visible without its full option set.
func (s *Store) CreatePoll(ctx context.Context, p models.Poll, options []models.Option) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return classify("begin create poll", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO poll (id, question, expires_at, active, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, p.ID, p.Question, p.ExpiresAt, p.Active, p.CreatedBy, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return classify("insert poll", err)
	}

	for _, opt := range options {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO option (id, poll_id, option_text, position)
			VALUES ($1, $2, $3, $4)
		`, opt.ID, opt.PollID, opt.Text, opt.Position)
		if err != nil {
			return classify("insert option", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return classify("commit create poll", err)
	}
	return nil
}

func (s *Store) Poll(ctx context.Context, id string) (models.Poll, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, question, expires_at, active, created_by, created_at, updated_at
		FROM poll WHERE id = $1
	`, id)

	p, err := scanPoll(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Poll{}, fmt.Errorf("poll %s: %w", id, errs.ErrNotFound)
	}
	if err != nil {
		return models.Poll{}, classify("scan poll", err)
	}
	return p, nil
}

func (s *Store) Polls(ctx context.Context) ([]models.Poll, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, question, expires_at, active, created_by, created_at, updated_at
		FROM poll ORDER BY created_at DESC, id
	`)
	if err != nil {
		return nil, classify("query polls", err)
	}
	defer rows.Close()

	polls := []models.Poll{}
	for rows.Next() {
		p, err := scanPoll(rows)
		if err != nil {
			return nil, classify("scan poll row", err)
		}
		polls = append(polls, p)
	}
	return polls, rows.Err()
}

// UpdatePoll writes the mutable poll fields (question, active, updated_at).
func (s *Store) UpdatePoll(ctx context.Context, p models.Poll) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE poll SET question = $1, active = $2, updated_at = $3 WHERE id = $4
	`, p.Question, p.Active, p.UpdatedAt, p.ID)
	if err != nil {
		return classify("update poll", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return classify("update poll rows", err)
	}
	if n == 0 {
		return fmt.Errorf("poll %s: %w", p.ID, errs.ErrNotFound)
	}
	return nil
}

func (s *Store) OptionsByPoll(ctx context.Context, pollID string) ([]models.Option, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, poll_id, option_text, position
		FROM option WHERE poll_id = $1 ORDER BY position
	`, pollID)
	if err != nil {
		return nil, classify("query options", err)
	}
	defer rows.Close()

	options := []models.Option{}
	for rows.Next() {
		var opt models.Option
		if err := rows.Scan(&opt.ID, &opt.PollID, &opt.Text, &opt.Position); err != nil {
			return nil, classify("scan option", err)
		}
		options = append(options, opt)
	}
	return options, rows.Err()
}

// RecordPollView appends to the view audit trail. No uniqueness, no locking.
func (s *Store) RecordPollView(ctx context.Context, v models.PollView) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO poll_view (id, poll_id, user_id, session_id, ip_address, viewed_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, v.ID, v.PollID, v.UserID, v.SessionID, v.IPAddress, v.ViewedAt)
	if err != nil {
		return classify("insert poll view", err)
	}
	return nil
}

// OptionCounts returns per-option tallies in option creation order, merging
// authenticated and guest votes additively. Plain committed reads; results
// computed after a commit reflect that commit.
func (s *Store) OptionCounts(ctx context.Context, pollID string) ([]models.OptionCount, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT o.id, o.option_text,
		       (SELECT COUNT(*) FROM vote v WHERE v.option_id = o.id) +
		       (SELECT COUNT(*) FROM guest_vote g WHERE g.option_id = o.id)
		FROM option o
		WHERE o.poll_id = $1
		ORDER BY o.position
	`, pollID)
	if err != nil {
		return nil, classify("query option counts", err)
	}
	defer rows.Close()

	counts := []models.OptionCount{}
	for rows.Next() {
		var c models.OptionCount
		if err := rows.Scan(&c.OptionID, &c.Text, &c.Votes); err != nil {
			return nil, classify("scan option count", err)
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

// rowScanner lets scanPoll work for both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanPoll(row rowScanner) (models.Poll, error) {
	var p models.Poll
	var expires sql.NullTime
	err := row.Scan(&p.ID, &p.Question, &expires, &p.Active, &p.CreatedBy, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return models.Poll{}, err
	}
	if expires.Valid {
		t := expires.Time
		p.ExpiresAt = &t
	}
	return p, nil
}

// Driver error classification: recognize the concrete error shapes of both
// supported engines at the call site.

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// isBusy recognizes lock waits and serialization failures that are safe to
// retry: Postgres lock_not_available / serialization_failure / deadlock,
// and SQLite BUSY.
func isBusy(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "55P03" || pqErr.Code == "40001" || pqErr.Code == "40P01"
	}
	msg := err.Error()
	return strings.Contains(msg, "database is locked") || strings.Contains(msg, "SQLITE_BUSY")
}

// classify wraps a driver error, promoting retryable lock failures to
// errs.ErrContention so callers can tell them from hard faults.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	if isBusy(err) {
		return fmt.Errorf("%s: %w: %w", op, errs.ErrContention, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
