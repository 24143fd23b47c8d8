// Package storage persists the game snapshot and the purchase ledger
// in a single SQLite file. The snapshot is stored as one JSON document
// per key, mirroring the key-value store the app writes to.
package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/pocketpet/pocketpet/internal/pet"
	"github.com/pocketpet/pocketpet/internal/store"
)

// SnapshotKey is the storage key for the one owned pet.
const SnapshotKey = "@my_tamagotchi_data_v5"

// DB wraps a SQLite connection for snapshot and ledger storage.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates the database at path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS snapshots (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		saved_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS purchases (
		txn_id TEXT PRIMARY KEY,
		product_id TEXT NOT NULL,
		coins INTEGER NOT NULL,
		credited_at INTEGER NOT NULL
	);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// SaveSnapshot upserts the snapshot JSON under key.
func (db *DB) SaveSnapshot(key string, snap pet.Snapshot) error {
	raw, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	_, err = db.conn.Exec(
		"INSERT OR REPLACE INTO snapshots (key, value, saved_at) VALUES (?, ?, ?)",
		key, string(raw), time.Now().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

// LoadSnapshot reads the snapshot stored under key. Absent keys return
// ok=false and the defaults unchanged. The stored document is schema
// validated before decoding; decoding happens over defaults, so fields
// missing from older snapshot versions keep their default values.
func (db *DB) LoadSnapshot(key string, defaults pet.Snapshot) (pet.Snapshot, bool, error) {
	var raw string
	err := db.conn.Get(&raw, "SELECT value FROM snapshots WHERE key = ?", key)
	if errors.Is(err, sql.ErrNoRows) {
		return defaults, false, nil
	}
	if err != nil {
		return defaults, false, fmt.Errorf("read snapshot: %w", err)
	}

	if err := ValidateSnapshot([]byte(raw)); err != nil {
		return defaults, false, fmt.Errorf("stored snapshot rejected: %w", err)
	}

	snap := defaults
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		return defaults, false, fmt.Errorf("decode snapshot: %w", err)
	}
	return snap, true, nil
}

// Credited implements store.Ledger.
func (db *DB) Credited(txnID string) (bool, error) {
	var n int
	if err := db.conn.Get(&n, "SELECT COUNT(*) FROM purchases WHERE txn_id = ?", txnID); err != nil {
		return false, fmt.Errorf("check ledger: %w", err)
	}
	return n > 0, nil
}

// Record implements store.Ledger. Replayed transaction ids are ignored
// so a race between check and record cannot double-insert.
func (db *DB) Record(c store.Credit) error {
	_, err := db.conn.Exec(
		"INSERT OR IGNORE INTO purchases (txn_id, product_id, coins, credited_at) VALUES (?, ?, ?, ?)",
		c.TxnID, c.ProductID, c.Coins, c.At.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("record credit: %w", err)
	}
	return nil
}

var _ store.Ledger = (*DB)(nil)
