// Package sqlite implements the intent-log store driver on SQLite.
// SQLite is the embedded default; a single audit table needs nothing more.
package sqlite

import (
	"database/sql"

	"github.com/pkg/errors"

	// Import the pure-Go SQLite driver.
	_ "modernc.org/sqlite"

	"github.com/mirahq/mira/store"
)

// DB is the SQLite-backed store driver.
type DB struct {
	db *sql.DB
}

// NewDB opens (and migrates) a SQLite database at the given DSN.
// Use ":memory:" for tests.
func NewDB(dsn string) (store.Driver, error) {
	if dsn == "" {
		return nil, errors.New("dsn is required")
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open database %s", dsn)
	}

	d := &DB{db: db}
	if err := d.migrate(); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "failed to migrate database")
	}
	return d, nil
}

func (d *DB) migrate() error {
	_, err := d.db.Exec(`
		CREATE TABLE IF NOT EXISTS mira_intent_log (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			conversation_id TEXT NOT NULL DEFAULT '',
			topic TEXT NOT NULL,
			subtopic TEXT NOT NULL,
			intent_name TEXT NOT NULL,
			confidence REAL NOT NULL,
			confidence_tier TEXT NOT NULL DEFAULT 'low',
			selected_agent TEXT NOT NULL,
			selected_skill TEXT NOT NULL,
			user_message TEXT NOT NULL,
			metadata TEXT NOT NULL DEFAULT '{}',
			created_ts BIGINT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_intent_log_conversation
			ON mira_intent_log (conversation_id, created_ts);
	`)
	return err
}

// Close implements store.Driver.
func (d *DB) Close() error {
	return d.db.Close()
}
