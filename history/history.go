// Package history records when saved commands were last run and with which
// parameter values.
package history

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Usage is the run history of one record.
type Usage struct {
	RecordID   string
	LastUsedAt time.Time
	RunCount   int
	LastParams map[string]string
}

type DB struct {
	conn *sql.DB
}

// Open opens or creates the history database at path.
func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}

	conn, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening history: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrating history: %w", err)
	}
	return db, nil
}

func (d *DB) migrate() error {
	_, err := d.conn.Exec(`
		CREATE TABLE IF NOT EXISTS usage (
			record_id TEXT PRIMARY KEY,
			last_used_at DATETIME NOT NULL,
			run_count INTEGER NOT NULL DEFAULT 0,
			last_params TEXT NOT NULL DEFAULT '{}'
		);
		CREATE INDEX IF NOT EXISTS idx_usage_last_used ON usage(last_used_at);
	`)
	return err
}

func (d *DB) Close() error {
	return d.conn.Close()
}

// Touch marks recordID as used now with the given parameter values.
func (d *DB) Touch(recordID string, params map[string]string) error {
	if params == nil {
		params = map[string]string{}
	}
	encoded, err := json.Marshal(params)
	if err != nil {
		return err
	}

	_, err = d.conn.Exec(`
		INSERT INTO usage (record_id, last_used_at, run_count, last_params)
		VALUES (?, ?, 1, ?)
		ON CONFLICT(record_id) DO UPDATE SET
			last_used_at = excluded.last_used_at,
			run_count = usage.run_count + 1,
			last_params = excluded.last_params`,
		recordID, time.Now().UTC(), string(encoded),
	)
	return err
}

// Get returns the usage of recordID. ok is false if it never ran.
func (d *DB) Get(recordID string) (u Usage, ok bool, err error) {
	var params string
	err = d.conn.QueryRow(
		`SELECT record_id, last_used_at, run_count, last_params FROM usage WHERE record_id = ?`,
		recordID,
	).Scan(&u.RecordID, &u.LastUsedAt, &u.RunCount, &params)
	if errors.Is(err, sql.ErrNoRows) {
		return Usage{}, false, nil
	}
	if err != nil {
		return Usage{}, false, err
	}
	if err := json.Unmarshal([]byte(params), &u.LastParams); err != nil {
		return Usage{}, false, fmt.Errorf("decoding params for %s: %w", recordID, err)
	}
	return u, true, nil
}

// Forget drops the usage of the given records.
func (d *DB) Forget(recordIDs ...string) error {
	if len(recordIDs) == 0 {
		return nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(recordIDs)), ",")
	args := make([]any, len(recordIDs))
	for i, id := range recordIDs {
		args[i] = id
	}
	_, err := d.conn.Exec(`DELETE FROM usage WHERE record_id IN (`+placeholders+`)`, args...)
	return err
}
