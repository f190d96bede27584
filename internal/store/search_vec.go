//go:build sqlite_vec && cgo

package store

import (
	"context"
	"fmt"

	vec "github.com/asg017/sqlite-vec-go-bindings/cgo"
	_ "github.com/mattn/go-sqlite3"

	"mindmesh/internal/types"
)

const driverName = "sqlite3"

func init() {
	// Register the sqlite-vec extension with the mattn/go-sqlite3 driver.
	// vec.Auto() registers it as an auto-loadable extension.
	vec.Auto()
}

// search ranks rows in SQL using sqlite-vec's cosine distance.
// Similarity = 1 - distance, matching the Go-side ranking of the default build.
func (s *Store) search(ctx context.Context, vector []float32, userID string, limit int) ([]types.SimilarTask, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT content, created_at, 1.0 - vec_distance_cosine(embedding, ?) AS similarity
		 FROM dumps WHERE user_id = ?
		 ORDER BY similarity DESC LIMIT ?`,
		encodeVector(vector), userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("similarity query failed: %w", err)
	}
	defer rows.Close()

	return scanSimilar(rows)
}
