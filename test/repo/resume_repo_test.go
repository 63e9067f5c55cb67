package repo_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/hirelens/hirelens/internal/model"
	appErr "github.com/hirelens/hirelens/internal/pkg/errors"
	"github.com/hirelens/hirelens/internal/repo"
	"github.com/hirelens/hirelens/test/testutil"
)

func resetTables(t *testing.T, db *sql.DB) {
	t.Helper()
	for _, table := range []string{"resume_chunks", "resumes", "embedding_cache"} {
		_, err := db.Exec("DELETE FROM " + table)
		require.NoError(t, err)
	}
}

func TestResumeRepoLifecycle(t *testing.T) {
	db, cleanup := testutil.OpenTestDB(t)
	defer cleanup()
	resetTables(t, db)

	resumes := repo.NewResumeRepo(db)
	now := time.Now().UnixMilli()

	resume := &model.Resume{
		ID:          "res-1",
		FileName:    "alice.pdf",
		ContentHash: "hash-1",
		ChunkCount:  3,
		State:       model.ResumeStateNormal,
		Ctime:       now,
		Mtime:       now,
	}
	require.NoError(t, resumes.Upsert(context.Background(), resume))

	got, err := resumes.GetByID(context.Background(), "res-1")
	require.NoError(t, err)
	require.Equal(t, "alice.pdf", got.FileName)
	require.Equal(t, 3, got.ChunkCount)

	// upsert with the same id updates in place
	resume.ContentHash = "hash-2"
	resume.ChunkCount = 5
	require.NoError(t, resumes.Upsert(context.Background(), resume))
	got, err = resumes.GetByID(context.Background(), "res-1")
	require.NoError(t, err)
	require.Equal(t, "hash-2", got.ContentHash)
	require.Equal(t, 5, got.ChunkCount)

	require.NoError(t, resumes.Upsert(context.Background(), &model.Resume{
		ID: "res-2", FileName: "bob.pdf", ContentHash: "h", State: model.ResumeStateNormal, Ctime: now, Mtime: now,
	}))
	list, err := resumes.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "alice.pdf", list[0].FileName)
	require.Equal(t, "bob.pdf", list[1].FileName)

	require.NoError(t, resumes.Delete(context.Background(), "res-1"))
	_, err = resumes.GetByID(context.Background(), "res-1")
	require.ErrorIs(t, err, appErr.ErrNotFound)

	list, err = resumes.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
}

func TestResumeRepoGetMissing(t *testing.T) {
	db, cleanup := testutil.OpenTestDB(t)
	defer cleanup()
	resetTables(t, db)

	resumes := repo.NewResumeRepo(db)
	_, err := resumes.GetByID(context.Background(), "nope")
	require.ErrorIs(t, err, appErr.ErrNotFound)
}
