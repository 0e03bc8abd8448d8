package db

import (
	"database/sql"
	"errors"
	"time"
)

// HistoryLimit is how many previous values are kept per key
const HistoryLimit = 20

// Get returns the value stored under key. The bool is false when the key
// has never been written.
func (db *DB) Get(key string) (string, bool, error) {
	var value string
	err := db.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// Set replaces the value stored under key. The previous value is moved to
// kv_history and older history beyond HistoryLimit is pruned.
func (db *DB) Set(key, value string) error {
	now := time.Now()
	return db.inTx(func(tx *sql.Tx) error {
		_, err := tx.Exec(`
			INSERT INTO kv_history (key, value, replaced_at)
			SELECT key, value, ? FROM kv WHERE key = ? AND value != ?
		`, now, key, value)
		if err != nil {
			return err
		}

		_, err = tx.Exec(`
			INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
		`, key, value, now)
		if err != nil {
			return err
		}

		_, err = tx.Exec(`
			DELETE FROM kv_history
			WHERE key = ? AND rowid NOT IN (
				SELECT rowid FROM kv_history WHERE key = ?
				ORDER BY replaced_at DESC, rowid DESC
				LIMIT ?
			)
		`, key, key, HistoryLimit)
		return err
	})
}

// History returns previous values of key, newest first
func (db *DB) History(key string) ([]string, error) {
	rows, err := db.Query(`
		SELECT value FROM kv_history
		WHERE key = ?
		ORDER BY replaced_at DESC, rowid DESC
	`, key)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, rows.Err()
}
