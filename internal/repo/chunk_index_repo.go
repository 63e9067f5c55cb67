package repo

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"
	"github.com/pgvector/pgvector-go"

	"github.com/hirelens/hirelens/internal/model"
	appErr "github.com/hirelens/hirelens/internal/pkg/errors"
)

// ChunkIndexRepo is the vector index over résumé chunks. Replace swaps a
// résumé's whole entry set inside one transaction, so concurrent readers
// see either all old rows or all new rows for that résumé, never a mix.
type ChunkIndexRepo struct {
	db *sql.DB
}

func NewChunkIndexRepo(db *sql.DB) *ChunkIndexRepo {
	return &ChunkIndexRepo{db: db}
}

func (r *ChunkIndexRepo) Replace(ctx context.Context, resumeID string, chunks []model.EmbeddedChunk) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return indexErr(err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM resume_chunks WHERE resume_id = $1`, resumeID); err != nil {
		return indexErr(err)
	}
	const insert = `
		INSERT INTO resume_chunks (resume_id, position, section, content, token_count, content_hash, embedding)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	for _, chunk := range chunks {
		if _, err := tx.ExecContext(ctx, insert,
			resumeID,
			chunk.Position,
			chunk.Section,
			chunk.Content,
			chunk.TokenCount,
			chunk.ContentHash,
			pgvector.NewVector(chunk.Embedding),
		); err != nil {
			return indexErr(err)
		}
	}
	if err := tx.Commit(); err != nil {
		return indexErr(err)
	}
	return nil
}

// DeleteByResume removes every entry for the résumé; absent entries are
// not an error.
func (r *ChunkIndexRepo) DeleteByResume(ctx context.Context, resumeID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM resume_chunks WHERE resume_id = $1`, resumeID); err != nil {
		return indexErr(err)
	}
	return nil
}

func (r *ChunkIndexRepo) Count(ctx context.Context) (int64, error) {
	row := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM resume_chunks`)
	var count int64
	if err := row.Scan(&count); err != nil {
		return 0, indexErr(err)
	}
	return count, nil
}

// Search returns the k nearest chunks by cosine similarity, above
// minScore, optionally restricted to resumeIDs. Ties break on lower
// résumé id then chunk position so results are deterministic.
func (r *ChunkIndexRepo) Search(ctx context.Context, queryVec []float32, k int, resumeIDs []string, minScore float32) ([]model.ScoredChunk, error) {
	const query = `
		SELECT c.resume_id, c.position, c.section, c.content, c.token_count, r.file_name,
		       1 - (c.embedding <=> $1) AS score
		FROM resume_chunks c
		JOIN resumes r ON r.id = c.resume_id
		WHERE r.state = $2
		  AND ($3::text[] IS NULL OR c.resume_id = ANY($3))
		  AND 1 - (c.embedding <=> $1) >= $4
		ORDER BY c.embedding <=> $1, c.resume_id, c.position
		LIMIT $5
	`
	var filter interface{}
	if len(resumeIDs) > 0 {
		filter = pq.Array(resumeIDs)
	}
	rows, err := r.db.QueryContext(ctx, query,
		pgvector.NewVector(queryVec), model.ResumeStateNormal, filter, minScore, k)
	if err != nil {
		return nil, indexErr(err)
	}
	defer rows.Close()
	var results []model.ScoredChunk
	for rows.Next() {
		var item model.ScoredChunk
		if err := rows.Scan(&item.ResumeID, &item.Position, &item.Section, &item.Content, &item.TokenCount, &item.FileName, &item.Score); err != nil {
			return nil, indexErr(err)
		}
		results = append(results, item)
	}
	if err := rows.Err(); err != nil {
		return nil, indexErr(err)
	}
	return results, nil
}

func indexErr(err error) error {
	return fmt.Errorf("%w: %v", appErr.ErrIndexUnavailable, err)
}
