package mirror

import (
	"database/sql"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
	_ "modernc.org/sqlite"
)

// Collection keys. Each key holds one whole denormalized container; writes
// replace the container entirely.
const (
	SlotsKey    = "eclipse_slots"
	MatchesKey  = "eclipse_matches"
	POVsKey     = "eclipse_povs"
	CommentsKey = "eclipse_comments"
)

// Store is the local fallback mirror: a single sqlite key-value table with
// msgpack-encoded values. It stands in for the browser localStorage of the
// original client and carries the same guarantees, which is to say none
// beyond last-writer-wins within one process.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// Open creates or opens the mirror database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", "file:"+path)
	if err != nil {
		return nil, err
	}

	_, err = db.Exec(`
	CREATE TABLE IF NOT EXISTS mirror (
		key TEXT PRIMARY KEY,
		value BLOB NOT NULL
	);`)
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// Read decodes the container stored under key into out. A missing or corrupt
// payload leaves out untouched; corruption is logged, never surfaced.
func (s *Store) Read(key string, out any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var value []byte
	err := s.db.QueryRow("SELECT value FROM mirror WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return
	}
	if err != nil {
		log.Error("Failed to read mirror key", "key", key, "error", err)
		return
	}

	if err := msgpack.Unmarshal(value, out); err != nil {
		log.Error("Corrupt mirror payload", "key", key, "error", err)
	}
}

// Write overwrites the container stored under key. Best effort: any
// persistence error is logged and swallowed.
func (s *Store) Write(key string, v any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	value, err := msgpack.Marshal(v)
	if err != nil {
		log.Error("Failed to encode mirror payload", "key", key, "error", err)
		return
	}

	_, err = s.db.Exec(`
		INSERT INTO mirror (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value;
	`, key, value)
	if err != nil {
		log.Error("Failed to write mirror key", "key", key, "error", err)
	}
}

// Keys returns all stored keys, mainly so backup snapshots can be listed.
func (s *Store) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query("SELECT key FROM mirror ORDER BY key")
	if err != nil {
		log.Error("Failed to list mirror keys", "error", err)
		return nil
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			log.Error("Failed to scan mirror key", "error", err)
			return keys
		}
		keys = append(keys, key)
	}
	return keys
}

func (s *Store) Close() error {
	return s.db.Close()
}
