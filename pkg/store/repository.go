// Package store provides database operations for engagement sessions.
package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hackdook/engage/pkg/engage"
	hderrors "github.com/hackdook/engage/pkg/errors"
	"github.com/hackdook/engage/pkg/logging"
)

// Session is one upload of engagement data for a week. Week numbers are not
// unique; repeated uploads for the same week create independent sessions.
type Session struct {
	ID         int64     `json:"id"`
	WeekNumber int       `json:"week_number"`
	CreatedAt  time.Time `json:"created_at"`
}

// ParticipantTally is the persisted engagement count for one participant in
// one session. Names are unique within a session.
type ParticipantTally struct {
	ID              int64  `json:"-"`
	SessionID       int64  `json:"-"`
	Name            string `json:"name"`
	ChatCount       int    `json:"chat_count"`
	TranscriptLines int    `json:"transcript_lines"`
}

// Repository provides session create and lookup operations over pgx.
type Repository struct {
	pool   *pgxpool.Pool
	logger logging.Logger
}

// NewRepository creates a new engagement repository.
func NewRepository(pool *pgxpool.Pool, logger logging.Logger) *Repository {
	return &Repository{
		pool:   pool,
		logger: logger.With(logging.F("component", "store")),
	}
}

// CreateSession persists one session row plus one tally row per participant.
// All writes happen in a single transaction, so a failure never leaves a
// session without its tallies.
//
// Negative counts are rejected with ErrValidation; they cannot be produced by
// the aggregator and indicate caller corruption. Persistence failures are
// wrapped with ErrStorage.
func (r *Repository) CreateSession(ctx context.Context, weekNumber int, tallies map[string]engage.Tally) (*Session, []ParticipantTally, error) {
	if weekNumber < 0 {
		return nil, nil, fmt.Errorf("week number %d: %w", weekNumber, hderrors.ErrValidation)
	}
	for name, tally := range tallies {
		if tally.ChatCount < 0 || tally.TranscriptLines < 0 {
			return nil, nil, fmt.Errorf("negative counts for %q: %w", name, hderrors.ErrValidation)
		}
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, nil, storageErr("beginning transaction", err)
	}
	defer tx.Rollback(ctx)

	session := &Session{WeekNumber: weekNumber}
	err = tx.QueryRow(ctx,
		`INSERT INTO sessions (week_number) VALUES ($1) RETURNING id, created_at`,
		weekNumber,
	).Scan(&session.ID, &session.CreatedAt)
	if err != nil {
		return nil, nil, storageErr("inserting session", err)
	}

	// Insert in name order so repeated uploads produce identical row order.
	names := make([]string, 0, len(tallies))
	for name := range tallies {
		names = append(names, name)
	}
	sort.Strings(names)

	created := make([]ParticipantTally, 0, len(names))
	for _, name := range names {
		tally := tallies[name]
		record := ParticipantTally{
			SessionID:       session.ID,
			Name:            name,
			ChatCount:       tally.ChatCount,
			TranscriptLines: tally.TranscriptLines,
		}
		err = tx.QueryRow(ctx,
			`INSERT INTO participant_tallies (session_id, name, chat_count, transcript_lines)
			 VALUES ($1, $2, $3, $4) RETURNING id`,
			record.SessionID, record.Name, record.ChatCount, record.TranscriptLines,
		).Scan(&record.ID)
		if err != nil {
			return nil, nil, storageErr(fmt.Sprintf("inserting tally for %q", name), err)
		}
		created = append(created, record)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, storageErr("committing session", err)
	}

	r.logger.Debug("Session created",
		logging.F("session_id", session.ID),
		logging.F("week_number", weekNumber),
		logging.F("participants", len(created)))

	return session, created, nil
}

// GetEngagementByWeek returns the most recent session for the given week and
// its participant tallies. When multiple sessions share a week number the
// newest upload wins. Returns ErrNotFound when no session exists.
func (r *Repository) GetEngagementByWeek(ctx context.Context, weekNumber int) (*Session, []ParticipantTally, error) {
	session := &Session{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, week_number, created_at
		 FROM sessions
		 WHERE week_number = $1
		 ORDER BY created_at DESC, id DESC
		 LIMIT 1`,
		weekNumber,
	).Scan(&session.ID, &session.WeekNumber, &session.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil, fmt.Errorf("week %d: %w", weekNumber, hderrors.ErrNotFound)
	}
	if err != nil {
		return nil, nil, storageErr("querying session", err)
	}

	rows, err := r.pool.Query(ctx,
		`SELECT id, session_id, name, chat_count, transcript_lines
		 FROM participant_tallies
		 WHERE session_id = $1
		 ORDER BY name`,
		session.ID,
	)
	if err != nil {
		return nil, nil, storageErr("querying tallies", err)
	}
	defer rows.Close()

	tallies := make([]ParticipantTally, 0)
	for rows.Next() {
		var t ParticipantTally
		if err := rows.Scan(&t.ID, &t.SessionID, &t.Name, &t.ChatCount, &t.TranscriptLines); err != nil {
			return nil, nil, storageErr("scanning tally", err)
		}
		tallies = append(tallies, t)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, storageErr("iterating tallies", err)
	}

	return session, tallies, nil
}

// ListWeeks returns the distinct week numbers that have at least one session,
// most recent first. Backs the weeks index endpoint.
func (r *Repository) ListWeeks(ctx context.Context) ([]int, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT week_number, MAX(created_at) AS latest
		 FROM sessions
		 GROUP BY week_number
		 ORDER BY latest DESC`,
	)
	if err != nil {
		return nil, storageErr("querying weeks", err)
	}
	defer rows.Close()

	weeks := make([]int, 0)
	for rows.Next() {
		var week int
		var latest time.Time
		if err := rows.Scan(&week, &latest); err != nil {
			return nil, storageErr("scanning week", err)
		}
		weeks = append(weeks, week)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("iterating weeks", err)
	}

	return weeks, nil
}

// storageErr wraps a driver error so callers can match it with
// errors.Is(err, hderrors.ErrStorage) while keeping the original chain.
func storageErr(op string, err error) error {
	return fmt.Errorf("%s: %w", op, errors.Join(hderrors.ErrStorage, err))
}
