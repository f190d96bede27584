// Package store persists raw brain-dump embeddings in SQLite and serves the
// similarity-search read path used by the semantic recommendation step.
//
// Two builds exist: the default build uses the pure-Go modernc driver with
// cosine ranking computed in Go; the sqlite_vec build uses the mattn driver
// with the sqlite-vec extension ranking in SQL.
package store

import (
	"context"
	"database/sql"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sync"
	"time"

	"mindmesh/internal/logging"
	"mindmesh/internal/types"
)

// Store is the SQLite-backed vector store.
type Store struct {
	db     *sql.DB
	mu     sync.RWMutex
	dbPath string
}

// Open initializes the SQLite database at the given path.
func Open(path string) (*Store, error) {
	timer := logging.StartTimer(logging.CategoryStore, "Open")
	defer timer.Stop()

	logging.Store("Opening vector store at path: %s", path)

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open(driverName, path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		logging.StoreDebug("Failed to set sqlite busy_timeout: %v", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		logging.StoreDebug("Failed to set sqlite journal_mode=WAL: %v", err)
	}

	s := &Store{db: db, dbPath: path}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

// migrate creates the required tables.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS dumps (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id TEXT NOT NULL,
		content TEXT NOT NULL,
		embedding BLOB NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_dumps_user ON dumps(user_id);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save stores a brain dump and its embedding for later similarity search.
// Best-effort from the caller's perspective: the write is not read back
// within the same request.
func (s *Store) Save(ctx context.Context, userID, content string, vector []float32) error {
	timer := logging.StartTimer(logging.CategoryStore, "Save")
	defer timer.Stop()

	s.mu.Lock()
	defer s.mu.Unlock()

	logging.StoreDebug("Storing dump (user=%s, content_len=%d, dim=%d)", userID, len(content), len(vector))

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO dumps (user_id, content, embedding) VALUES (?, ?, ?)",
		userID, content, encodeVector(vector),
	)
	if err != nil {
		logging.Get(logging.CategoryStore).Error("Failed to store dump: %v", err)
		return fmt.Errorf("failed to store dump: %w", err)
	}

	return nil
}

// SimilaritySearch returns the user's stored dumps ranked by cosine
// similarity to the query vector, descending, at most limit entries.
func (s *Store) SimilaritySearch(ctx context.Context, vector []float32, userID string, limit int) ([]types.SimilarTask, error) {
	timer := logging.StartTimer(logging.CategoryStore, "SimilaritySearch")
	defer timer.Stop()

	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 5
	}

	logging.StoreDebug("Similarity search (user=%s, dim=%d, limit=%d)", userID, len(vector), limit)

	return s.search(ctx, vector, userID, limit)
}

// scanSimilar reads (content, created_at, similarity) rows.
func scanSimilar(rows *sql.Rows) ([]types.SimilarTask, error) {
	var results []types.SimilarTask
	for rows.Next() {
		var task types.SimilarTask
		var created time.Time
		if err := rows.Scan(&task.Content, &created, &task.SimilarityScore); err != nil {
			continue
		}
		task.CreatedAt = created
		results = append(results, task)
	}
	return results, rows.Err()
}

// =============================================================================
// VECTOR SERIALIZATION
// =============================================================================

// encodeVector serializes a float32 vector as a little-endian blob, the same
// layout sqlite-vec expects.
func encodeVector(v []float32) []byte {
	buf := make([]byte, 4*len(v))
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// decodeVector is the inverse of encodeVector.
func decodeVector(b []byte) []float32 {
	v := make([]float32, len(b)/4)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return v
}
