//go:build !sqlite_vec

package store

import (
	"context"
	"fmt"
	"sort"
	"time"

	_ "modernc.org/sqlite"

	"mindmesh/internal/embedding"
	"mindmesh/internal/types"
)

const driverName = "sqlite"

// search ranks the user's rows by cosine similarity computed in Go. The
// per-user row count is small enough that a full scan beats maintaining an
// index for the default build.
func (s *Store) search(ctx context.Context, vector []float32, userID string, limit int) ([]types.SimilarTask, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT content, embedding, created_at FROM dumps WHERE user_id = ?",
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("similarity query failed: %w", err)
	}
	defer rows.Close()

	var results []types.SimilarTask
	for rows.Next() {
		var content string
		var blob []byte
		var created time.Time
		if err := rows.Scan(&content, &blob, &created); err != nil {
			continue
		}
		sim, err := embedding.CosineSimilarity(vector, decodeVector(blob))
		if err != nil {
			// Dimension drift after an engine swap; skip the stale row.
			continue
		}
		results = append(results, types.SimilarTask{
			Content:         content,
			SimilarityScore: sim,
			CreatedAt:       created,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].SimilarityScore > results[j].SimilarityScore
	})
	if len(results) > limit {
		results = results[:limit]
	}

	return results, nil
}
