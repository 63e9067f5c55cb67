package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/hirelens/hirelens/internal/ai"
	"github.com/hirelens/hirelens/internal/chunker"
	"github.com/hirelens/hirelens/internal/filestore"
	"github.com/hirelens/hirelens/internal/model"
	"github.com/hirelens/hirelens/internal/parser"
	appErr "github.com/hirelens/hirelens/internal/pkg/errors"
)

// IngestService owns the write path: parse, chunk, embed, and replace the
// résumé's index entries. Writes to the same résumé are serialized by a
// per-résumé lock; embeddings are computed before the index transaction
// so a stalled provider call never holds the write lock.
type IngestService struct {
	resumes  ResumeRegistry
	index    VectorIndex
	embedder Embedder
	chunker  *chunker.Chunker
	store    filestore.Store
	locks    sync.Map // resumeID -> *sync.Mutex
}

func NewIngestService(resumes ResumeRegistry, index VectorIndex, embedder Embedder, chk *chunker.Chunker, store filestore.Store) *IngestService {
	return &IngestService{
		resumes:  resumes,
		index:    index,
		embedder: embedder,
		chunker:  chk,
		store:    store,
	}
}

// Ingest indexes one résumé. Re-ingesting identical content is a no-op;
// changed content atomically replaces all prior entries for the résumé.
func (s *IngestService) Ingest(ctx context.Context, fileName string, content []byte) (*model.Resume, error) {
	return s.ingest(ctx, fileName, content, false)
}

// Resync re-parses a résumé from its stored raw bytes, even when the
// content hash is unchanged (for example after a chunking config change).
func (s *IngestService) Resync(ctx context.Context, resumeID string) (*model.Resume, error) {
	if s.store == nil {
		return nil, fmt.Errorf("%w: no file store configured", appErr.ErrInvalid)
	}
	resume, err := s.resumes.GetByID(ctx, resumeID)
	if err != nil {
		return nil, err
	}
	raw, err := s.store.Open(ctx, storeKey(resume.ID, resume.FileName))
	if err != nil {
		return nil, fmt.Errorf("%w: raw resume bytes unavailable: %v", appErr.ErrNotFound, err)
	}
	defer raw.Close()
	content, err := io.ReadAll(raw)
	if err != nil {
		return nil, err
	}
	return s.ingest(ctx, resume.FileName, content, true)
}

func (s *IngestService) ingest(ctx context.Context, fileName string, content []byte, force bool) (*model.Resume, error) {
	if strings.TrimSpace(fileName) == "" || len(content) == 0 {
		return nil, appErr.ErrInvalid
	}
	resumeID := resumeIDFor(fileName)
	logger := logutil.GetLogger(ctx).With(zap.String("resume_id", resumeID), zap.String("file_name", fileName))

	unlock := s.lock(resumeID)
	defer unlock()

	hash := contentHash(content)
	existing, err := s.resumes.GetByID(ctx, resumeID)
	if err != nil && !errors.Is(err, appErr.ErrNotFound) {
		return nil, err
	}
	if !force && existing != nil && existing.ContentHash == hash {
		logger.Info("resume content unchanged, skipping reindex")
		return existing, nil
	}

	elements, err := parser.Parse(resumeID, fileName, content)
	if err != nil {
		return nil, err
	}
	chunks := s.chunker.Chunk(elements)
	if len(chunks) == 0 {
		return nil, fmt.Errorf("%w: no chunks produced for %s", appErr.ErrParse, fileName)
	}

	embedded := make([]model.EmbeddedChunk, 0, len(chunks))
	for _, chunk := range chunks {
		vec, err := s.embedder.Embed(ctx, chunk.Content, ai.TaskRetrievalDocument)
		if err != nil {
			return nil, fmt.Errorf("%w: embed chunk %d: %v", appErr.ErrExternalService, chunk.Position, err)
		}
		embedded = append(embedded, model.EmbeddedChunk{
			Chunk:       chunk,
			ContentHash: contentHash([]byte(chunk.Content)),
			Embedding:   vec,
		})
	}

	if s.store != nil {
		if err := s.store.Save(ctx, storeKey(resumeID, fileName), readSeekCloser(content), int64(len(content))); err != nil {
			logger.Warn("failed to store raw resume bytes", zap.Error(err))
		}
	}

	if err := s.index.Replace(ctx, resumeID, embedded); err != nil {
		return nil, err
	}

	now := time.Now().UnixMilli()
	resume := &model.Resume{
		ID:          resumeID,
		FileName:    fileName,
		ContentHash: hash,
		ChunkCount:  len(embedded),
		State:       model.ResumeStateNormal,
		Ctime:       now,
		Mtime:       now,
	}
	if existing != nil {
		resume.Ctime = existing.Ctime
	}
	if err := s.resumes.Upsert(ctx, resume); err != nil {
		return nil, err
	}
	logger.Info("resume indexed", zap.Int("chunks", len(embedded)))
	return resume, nil
}

// Remove deletes the résumé and all its index entries. Removing an
// unknown résumé is not an error.
func (s *IngestService) Remove(ctx context.Context, resumeID string) error {
	if resumeID == "" {
		return appErr.ErrInvalid
	}
	unlock := s.lock(resumeID)
	defer unlock()

	logger := logutil.GetLogger(ctx).With(zap.String("resume_id", resumeID))
	existing, err := s.resumes.GetByID(ctx, resumeID)
	if err != nil && !errors.Is(err, appErr.ErrNotFound) {
		return err
	}

	if err := s.index.DeleteByResume(ctx, resumeID); err != nil {
		return err
	}
	if err := s.resumes.Delete(ctx, resumeID); err != nil {
		return err
	}
	if s.store != nil && existing != nil {
		if err := s.store.Delete(ctx, storeKey(resumeID, existing.FileName)); err != nil {
			logger.Warn("failed to delete raw resume bytes", zap.Error(err))
		}
	}
	logger.Info("resume removed")
	return nil
}

// RemoveAll purges the whole knowledge base, one résumé at a time so
// per-résumé write exclusion still holds.
func (s *IngestService) RemoveAll(ctx context.Context) (int, error) {
	resumes, err := s.resumes.List(ctx)
	if err != nil {
		return 0, err
	}
	removed := 0
	for _, resume := range resumes {
		if err := s.Remove(ctx, resume.ID); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}

func (s *IngestService) ListIndexed(ctx context.Context) ([]model.Resume, error) {
	return s.resumes.List(ctx)
}

func (s *IngestService) lock(resumeID string) func() {
	value, _ := s.locks.LoadOrStore(resumeID, &sync.Mutex{})
	mu := value.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

func storeKey(resumeID, fileName string) string {
	return resumeID + strings.ToLower(filepath.Ext(fileName))
}

type byteReadSeekCloser struct {
	*bytes.Reader
}

func (byteReadSeekCloser) Close() error { return nil }

func readSeekCloser(content []byte) filestore.ReadSeekCloser {
	return byteReadSeekCloser{bytes.NewReader(content)}
}
