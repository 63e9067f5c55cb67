package repo_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/hirelens/hirelens/internal/model"
	"github.com/hirelens/hirelens/internal/repo"
	"github.com/hirelens/hirelens/test/testutil"
)

const embedDim = 768

// makeVec builds a unit-ish vector whose first component dominates, so
// cosine similarity against baseVec decreases as skew grows.
func makeVec(skew float32) []float32 {
	vec := make([]float32, embedDim)
	vec[0] = 1
	vec[1] = skew
	return vec
}

func seedResume(t *testing.T, db *sql.DB, id, fileName string) {
	t.Helper()
	now := time.Now().UnixMilli()
	require.NoError(t, repo.NewResumeRepo(db).Upsert(context.Background(), &model.Resume{
		ID: id, FileName: fileName, ContentHash: "h", State: model.ResumeStateNormal, Ctime: now, Mtime: now,
	}))
}

func embedded(resumeID string, position int, section, content string, vec []float32) model.EmbeddedChunk {
	return model.EmbeddedChunk{
		Chunk: model.Chunk{
			ResumeID: resumeID,
			Position: position,
			Section:  section,
			Content:  content,
		},
		ContentHash: content,
		Embedding:   vec,
	}
}

func TestChunkIndexReplaceAndSearch(t *testing.T) {
	db, cleanup := testutil.OpenTestDB(t)
	defer cleanup()
	resetTables(t, db)

	index := repo.NewChunkIndexRepo(db)
	seedResume(t, db, "res-a", "alice.pdf")
	seedResume(t, db, "res-b", "bob.pdf")

	require.NoError(t, index.Replace(context.Background(), "res-a", []model.EmbeddedChunk{
		embedded("res-a", 0, "Experience", "alice go experience", makeVec(0)),
		embedded("res-a", 1, "Education", "alice education", makeVec(2)),
	}))
	require.NoError(t, index.Replace(context.Background(), "res-b", []model.EmbeddedChunk{
		embedded("res-b", 0, "Experience", "bob python experience", makeVec(0.5)),
	}))

	count, err := index.Count(context.Background())
	require.NoError(t, err)
	require.EqualValues(t, 3, count)

	hits, err := index.Search(context.Background(), makeVec(0), 10, nil, 0)
	require.NoError(t, err)
	require.Len(t, hits, 3)
	require.Equal(t, "alice go experience", hits[0].Content)
	require.Equal(t, "alice.pdf", hits[0].FileName)
	// closer vectors score higher
	require.GreaterOrEqual(t, hits[0].Score, hits[1].Score)
	require.GreaterOrEqual(t, hits[1].Score, hits[2].Score)

	// score threshold trims distant chunks
	strict, err := index.Search(context.Background(), makeVec(0), 10, nil, hits[1].Score)
	require.NoError(t, err)
	require.Len(t, strict, 2)

	// candidate filter restricts to the selected resume
	onlyBob, err := index.Search(context.Background(), makeVec(0), 10, []string{"res-b"}, 0)
	require.NoError(t, err)
	require.Len(t, onlyBob, 1)
	require.Equal(t, "res-b", onlyBob[0].ResumeID)
}

func TestChunkIndexReplaceSwapsAtomically(t *testing.T) {
	db, cleanup := testutil.OpenTestDB(t)
	defer cleanup()
	resetTables(t, db)

	index := repo.NewChunkIndexRepo(db)
	seedResume(t, db, "res-a", "alice.pdf")

	require.NoError(t, index.Replace(context.Background(), "res-a", []model.EmbeddedChunk{
		embedded("res-a", 0, "Experience", "old chunk one", makeVec(0)),
		embedded("res-a", 1, "Experience", "old chunk two", makeVec(0)),
	}))
	require.NoError(t, index.Replace(context.Background(), "res-a", []model.EmbeddedChunk{
		embedded("res-a", 0, "Experience", "new chunk", makeVec(0)),
	}))

	hits, err := index.Search(context.Background(), makeVec(0), 10, nil, 0)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	require.Equal(t, "new chunk", hits[0].Content)
}

func TestChunkIndexDeleteByResume(t *testing.T) {
	db, cleanup := testutil.OpenTestDB(t)
	defer cleanup()
	resetTables(t, db)

	index := repo.NewChunkIndexRepo(db)
	seedResume(t, db, "res-a", "alice.pdf")

	require.NoError(t, index.Replace(context.Background(), "res-a", []model.EmbeddedChunk{
		embedded("res-a", 0, "", "content", makeVec(0)),
	}))
	require.NoError(t, index.DeleteByResume(context.Background(), "res-a"))
	require.NoError(t, index.DeleteByResume(context.Background(), "res-a")) // idempotent

	count, err := index.Count(context.Background())
	require.NoError(t, err)
	require.EqualValues(t, 0, count)
}

func TestEmbeddingCacheRepo(t *testing.T) {
	db, cleanup := testutil.OpenTestDB(t)
	defer cleanup()
	resetTables(t, db)

	cache := repo.NewEmbeddingCacheRepo(db)

	_, ok, err := cache.Get(context.Background(), "m1", "RETRIEVAL_DOCUMENT", "hash-1")
	require.NoError(t, err)
	require.False(t, ok)

	vec := makeVec(0.25)
	require.NoError(t, cache.Save(context.Background(), &model.EmbeddingCache{
		ModelName:   "m1",
		TaskType:    "RETRIEVAL_DOCUMENT",
		ContentHash: "hash-1",
		Embedding:   vec,
		Ctime:       time.Now().Unix(),
	}))

	got, ok, err := cache.Get(context.Background(), "m1", "RETRIEVAL_DOCUMENT", "hash-1")
	require.NoError(t, err)
	require.True(t, ok)
	require.InDelta(t, 0.25, got[1], 0.0001)
	require.Len(t, got, embedDim)

	// same content under a different task type is a separate entry
	_, ok, err = cache.Get(context.Background(), "m1", "RETRIEVAL_QUERY", "hash-1")
	require.NoError(t, err)
	require.False(t, ok)
}
