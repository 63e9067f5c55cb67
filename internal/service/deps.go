package service

import (
	"context"

	"github.com/hirelens/hirelens/internal/model"
)

// Narrow views of the collaborators the services need; the concrete
// implementations live in repo and ai.

type ResumeRegistry interface {
	Upsert(ctx context.Context, resume *model.Resume) error
	GetByID(ctx context.Context, id string) (*model.Resume, error)
	List(ctx context.Context) ([]model.Resume, error)
	Delete(ctx context.Context, id string) error
}

type VectorIndex interface {
	Replace(ctx context.Context, resumeID string, chunks []model.EmbeddedChunk) error
	DeleteByResume(ctx context.Context, resumeID string) error
	Count(ctx context.Context) (int64, error)
	Search(ctx context.Context, queryVec []float32, k int, resumeIDs []string, minScore float32) ([]model.ScoredChunk, error)
}

type Embedder interface {
	Embed(ctx context.Context, text string, taskType string) ([]float32, error)
}

type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}
