package store

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"

	_ "modernc.org/sqlite"
)

// ErrNotFound reports that a key has no stored value.
var ErrNotFound = errors.New("key not found")

// KV is the minimal key/value capability the record store needs. The
// production medium is a local SQLite file; NoopKV stands in when no
// usable medium is available so callers always have something to talk to.
type KV interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Delete(key string) error
}

const kvSchema = `
PRAGMA journal_mode=WAL;

CREATE TABLE IF NOT EXISTS records (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);
`

// SQLiteKV persists key/value pairs in a local SQLite file.
type SQLiteKV struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the database file and ensures the records
// table exists.
func OpenSQLite(path string) (*SQLiteKV, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec(kvSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return &SQLiteKV{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteKV) Close() error { return s.db.Close() }

func (s *SQLiteKV) Get(key string) (string, error) {
	var v string
	err := s.db.QueryRow("SELECT value FROM records WHERE key = ?", key).Scan(&v)
	if err == sql.ErrNoRows {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return v, nil
}

func (s *SQLiteKV) Set(key, value string) error {
	_, err := s.db.Exec(`
INSERT INTO records (key, value) VALUES (?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	return err
}

func (s *SQLiteKV) Delete(key string) error {
	_, err := s.db.Exec("DELETE FROM records WHERE key = ?", key)
	return err
}

// MemoryKV keeps key/value pairs in process memory. It backs tests and
// ephemeral runs where nothing should touch disk.
type MemoryKV struct {
	mu   sync.Mutex
	data map[string]string
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{data: make(map[string]string)}
}

func (m *MemoryKV) Get(key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (m *MemoryKV) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *MemoryKV) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// NoopKV discards writes and reports every key absent. It stands in when
// the storage medium cannot be opened; the app keeps working with empty
// data instead of failing.
type NoopKV struct{}

func (NoopKV) Get(string) (string, error) { return "", ErrNotFound }
func (NoopKV) Set(string, string) error   { return nil }
func (NoopKV) Delete(string) error        { return nil }
