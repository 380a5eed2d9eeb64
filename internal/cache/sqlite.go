package cache

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore is a file-backed Gateway so cached standings survive restarts.
// Rows carry their fetch timestamp; freshness is evaluated against the
// namespace TTL at read time, and stale rows are purged lazily.
type SQLiteStore struct {
	db   *sql.DB
	ttls TTLPolicy
	now  func() time.Time
}

// NewSQLiteStore opens or creates the cache database at dbPath.
func NewSQLiteStore(dbPath string, ttls TTLPolicy) (*SQLiteStore, error) {
	if dbPath == "" {
		return nil, errors.New("cache: database path is required")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("cache: create data directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("cache: open database: %w", err)
	}
	db.SetMaxOpenConns(1) // single writer; WAL allows concurrent readers
	if _, err := db.Exec(`PRAGMA journal_mode=WAL`); err != nil {
		db.Close()
		return nil, fmt.Errorf("cache: set WAL mode: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS entries (
		key        TEXT PRIMARY KEY,
		payload    BLOB NOT NULL,
		fetched_at INTEGER NOT NULL
	)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("cache: create tables: %w", err)
	}

	if ttls == nil {
		ttls = DefaultTTLs()
	}
	return &SQLiteStore{db: db, ttls: ttls, now: time.Now}, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// GetIfFresh returns the payload for key when present and younger than the
// namespace TTL.
func (s *SQLiteStore) GetIfFresh(key, namespace string) ([]byte, bool) {
	var payload []byte
	var fetchedAt int64
	err := s.db.QueryRow(`SELECT payload, fetched_at FROM entries WHERE key = ?`, key).
		Scan(&payload, &fetchedAt)
	if err != nil {
		return nil, false
	}

	age := s.now().Sub(time.Unix(fetchedAt, 0))
	if age > s.ttls.ttl(namespace) {
		_, _ = s.db.Exec(`DELETE FROM entries WHERE key = ? AND fetched_at = ?`, key, fetchedAt)
		return nil, false
	}
	return payload, true
}

// Put upserts payload under key with the current time as fetch timestamp.
func (s *SQLiteStore) Put(key string, payload []byte) error {
	_, err := s.db.Exec(`INSERT INTO entries (key, payload, fetched_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET payload = excluded.payload, fetched_at = excluded.fetched_at`,
		key, payload, s.now().Unix())
	if err != nil {
		return fmt.Errorf("cache: put %s: %w", key, err)
	}
	return nil
}
