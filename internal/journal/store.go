package journal

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Event is one classified device line.
type Event struct {
	ID         string
	ReceivedAt time.Time
	Kind       string
	Tag        string
	Project    string
	Detail     string
}

// SessionTotal aggregates banked time per project.
type SessionTotal struct {
	Project    string
	Sessions   int
	DurationMS int64
}

// Store reads and writes the journal tables.
type Store struct {
	db *DB
}

// NewStore creates a Store on an open journal database.
func NewStore(db *DB) *Store {
	return &Store{db: db}
}

// AppendEvent records one device line. A missing ID or timestamp is
// filled in.
func (s *Store) AppendEvent(ctx context.Context, ev Event) error {
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	if ev.ReceivedAt.IsZero() {
		ev.ReceivedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO events (id, received_at, kind, tag, project, detail)
		VALUES (?, ?, ?, ?, ?, ?)
	`, ev.ID, ev.ReceivedAt, ev.Kind, ev.Tag, ev.Project, ev.Detail)
	if err != nil {
		return fmt.Errorf("failed to append event: %w", err)
	}
	return nil
}

// RecentEvents returns the newest events, newest first.
func (s *Store) RecentEvents(ctx context.Context, limit int) ([]Event, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, received_at, kind, tag, project, detail
		FROM events
		ORDER BY received_at DESC, id
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var ev Event
		if err := rows.Scan(&ev.ID, &ev.ReceivedAt, &ev.Kind, &ev.Tag, &ev.Project, &ev.Detail); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}

// OpenSession starts a working interval for a project. Any interval
// still open for the same project is closed first; overlapping rows
// would double-count time.
func (s *Store) OpenSession(ctx context.Context, project string, at time.Time) error {
	if err := s.CloseSession(ctx, project, at); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (id, project, started_at)
		VALUES (?, ?, ?)
	`, uuid.NewString(), project, at)
	if err != nil {
		return fmt.Errorf("failed to open session: %w", err)
	}
	return nil
}

// CloseSession ends the open interval for a project, banking its
// duration. No-op when nothing is open.
func (s *Store) CloseSession(ctx context.Context, project string, at time.Time) error {
	var id string
	var startedAt time.Time
	err := s.db.QueryRowContext(ctx, `
		SELECT id, started_at FROM sessions
		WHERE project = ? AND ended_at IS NULL
		ORDER BY started_at DESC
		LIMIT 1
	`, project).Scan(&id, &startedAt)
	if err == sql.ErrNoRows {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to find open session: %w", err)
	}

	duration := at.Sub(startedAt).Milliseconds()
	if duration < 0 {
		duration = 0
	}
	_, err = s.db.ExecContext(ctx, `
		UPDATE sessions SET ended_at = ?, duration_ms = ? WHERE id = ?
	`, at, duration, id)
	if err != nil {
		return fmt.Errorf("failed to close session: %w", err)
	}
	return nil
}

// ProjectTotals sums completed sessions per project, largest first.
func (s *Store) ProjectTotals(ctx context.Context) ([]SessionTotal, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT project, COUNT(*), COALESCE(SUM(duration_ms), 0)
		FROM sessions
		WHERE ended_at IS NOT NULL
		GROUP BY project
		ORDER BY SUM(duration_ms) DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to total sessions: %w", err)
	}
	defer rows.Close()

	var totals []SessionTotal
	for rows.Next() {
		var t SessionTotal
		if err := rows.Scan(&t.Project, &t.Sessions, &t.DurationMS); err != nil {
			return nil, fmt.Errorf("failed to scan total: %w", err)
		}
		totals = append(totals, t)
	}
	return totals, rows.Err()
}
