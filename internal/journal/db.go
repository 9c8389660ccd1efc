// Package journal persists the host-side record of device traffic: the
// raw event log and the completed work sessions derived from it. The
// device core itself keeps no state across power loss; this bookkeeping
// lives entirely on the host.
package journal

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// DB wraps a SQLite database connection.
type DB struct {
	*sql.DB
}

// New opens (or creates) the journal database and applies the schema.
func New(dataSourceName string) (*DB, error) {
	db, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	wrapped := &DB{db}
	if err := wrapped.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return wrapped, nil
}

func (db *DB) migrate() error {
	schema := `
-- Every line received from the device, as classified by the parser.
CREATE TABLE IF NOT EXISTS events (
    id TEXT PRIMARY KEY,
    received_at TIMESTAMP NOT NULL,
    kind TEXT NOT NULL,
    tag TEXT NOT NULL DEFAULT '',
    project TEXT NOT NULL DEFAULT '',
    detail TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_events_kind ON events(kind);
CREATE INDEX IF NOT EXISTS idx_events_project ON events(project);
CREATE INDEX IF NOT EXISTS idx_events_received ON events(received_at);

-- One row per contiguous working interval. ended_at stays NULL while
-- the session is still running.
CREATE TABLE IF NOT EXISTS sessions (
    id TEXT PRIMARY KEY,
    project TEXT NOT NULL,
    started_at TIMESTAMP NOT NULL,
    ended_at TIMESTAMP,
    duration_ms INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_sessions_project ON sessions(project);
`
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}
