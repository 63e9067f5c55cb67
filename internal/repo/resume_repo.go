package repo

import (
	"context"
	"database/sql"

	"github.com/didi/gendry/builder"

	"github.com/hirelens/hirelens/internal/model"
	"github.com/hirelens/hirelens/internal/pkg/dbutil"
	appErr "github.com/hirelens/hirelens/internal/pkg/errors"
)

// ResumeRepo is the registry of ingested résumés. Chunk vectors live in
// ChunkIndexRepo; this table only tracks identity and bookkeeping.
type ResumeRepo struct {
	db *sql.DB
}

func NewResumeRepo(db *sql.DB) *ResumeRepo {
	return &ResumeRepo{db: db}
}

func (r *ResumeRepo) Upsert(ctx context.Context, resume *model.Resume) error {
	const query = `
		INSERT INTO resumes (id, file_name, content_hash, chunk_count, state, ctime, mtime)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			file_name = EXCLUDED.file_name,
			content_hash = EXCLUDED.content_hash,
			chunk_count = EXCLUDED.chunk_count,
			state = EXCLUDED.state,
			mtime = EXCLUDED.mtime
	`
	_, err := r.db.ExecContext(ctx, query,
		resume.ID,
		resume.FileName,
		resume.ContentHash,
		resume.ChunkCount,
		resume.State,
		resume.Ctime,
		resume.Mtime,
	)
	return err
}

func (r *ResumeRepo) GetByID(ctx context.Context, id string) (*model.Resume, error) {
	where := map[string]interface{}{
		"id":    id,
		"state": model.ResumeStateNormal,
	}
	sqlStr, args, err := builder.BuildSelect("resumes", where,
		[]string{"id", "file_name", "content_hash", "chunk_count", "state", "ctime", "mtime"})
	if err != nil {
		return nil, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	row := r.db.QueryRowContext(ctx, sqlStr, args...)
	var item model.Resume
	if err := row.Scan(&item.ID, &item.FileName, &item.ContentHash, &item.ChunkCount, &item.State, &item.Ctime, &item.Mtime); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErr.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

func (r *ResumeRepo) List(ctx context.Context) ([]model.Resume, error) {
	where := map[string]interface{}{
		"state":    model.ResumeStateNormal,
		"_orderby": "file_name asc",
	}
	sqlStr, args, err := builder.BuildSelect("resumes", where,
		[]string{"id", "file_name", "content_hash", "chunk_count", "state", "ctime", "mtime"})
	if err != nil {
		return nil, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var results []model.Resume
	for rows.Next() {
		var item model.Resume
		if err := rows.Scan(&item.ID, &item.FileName, &item.ContentHash, &item.ChunkCount, &item.State, &item.Ctime, &item.Mtime); err != nil {
			return nil, err
		}
		results = append(results, item)
	}
	return results, rows.Err()
}

func (r *ResumeRepo) Delete(ctx context.Context, id string) error {
	where := map[string]interface{}{
		"id": id,
	}
	sqlStr, args, err := builder.BuildDelete("resumes", where)
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	_, err = r.db.ExecContext(ctx, sqlStr, args...)
	return err
}

func (r *ResumeRepo) DeleteAll(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM resumes`)
	return err
}
