package service

import (
	"context"
	"sort"
	"sync"

	"github.com/hirelens/hirelens/internal/model"
	appErr "github.com/hirelens/hirelens/internal/pkg/errors"
)

type fakeRegistry struct {
	mu    sync.Mutex
	items map[string]*model.Resume
}

func newFakeRegistry() *fakeRegistry {
	return &fakeRegistry{items: map[string]*model.Resume{}}
}

func (f *fakeRegistry) Upsert(ctx context.Context, resume *model.Resume) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	clone := *resume
	f.items[resume.ID] = &clone
	return nil
}

func (f *fakeRegistry) GetByID(ctx context.Context, id string) (*model.Resume, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	resume, ok := f.items[id]
	if !ok {
		return nil, appErr.ErrNotFound
	}
	clone := *resume
	return &clone, nil
}

func (f *fakeRegistry) List(ctx context.Context) ([]model.Resume, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.Resume, 0, len(f.items))
	for _, resume := range f.items {
		out = append(out, *resume)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FileName < out[j].FileName })
	return out, nil
}

func (f *fakeRegistry) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.items, id)
	return nil
}

type fakeIndex struct {
	mu           sync.Mutex
	chunks       map[string][]model.EmbeddedChunk
	replaceCalls int
	searchFn     func(resumeIDs []string) ([]model.ScoredChunk, error)
	countFn      func() (int64, error)
}

func newFakeIndex() *fakeIndex {
	return &fakeIndex{chunks: map[string][]model.EmbeddedChunk{}}
}

func (f *fakeIndex) Replace(ctx context.Context, resumeID string, chunks []model.EmbeddedChunk) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.replaceCalls++
	f.chunks[resumeID] = chunks
	return nil
}

func (f *fakeIndex) DeleteByResume(ctx context.Context, resumeID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.chunks, resumeID)
	return nil
}

func (f *fakeIndex) Count(ctx context.Context) (int64, error) {
	if f.countFn != nil {
		return f.countFn()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var total int64
	for _, chunks := range f.chunks {
		total += int64(len(chunks))
	}
	return total, nil
}

func (f *fakeIndex) Search(ctx context.Context, queryVec []float32, k int, resumeIDs []string, minScore float32) ([]model.ScoredChunk, error) {
	if f.searchFn != nil {
		return f.searchFn(resumeIDs)
	}
	return nil, nil
}

type fakeEmbedder struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (f *fakeEmbedder) Embed(ctx context.Context, text string, taskType string) ([]float32, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return []float32{float32(len(text)), 1, 0}, nil
}

type fakeCompleter struct {
	mu      sync.Mutex
	prompts []string
	output  string
	err     error
}

func (f *fakeCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	f.mu.Lock()
	f.prompts = append(f.prompts, prompt)
	f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	return f.output, nil
}
