package handler

import (
	"io"

	"github.com/gin-gonic/gin"

	"github.com/hirelens/hirelens/internal/model"
	"github.com/hirelens/hirelens/internal/pkg/errcode"
	"github.com/hirelens/hirelens/internal/pkg/response"
	"github.com/hirelens/hirelens/internal/service"
)

const maxResumeSize = 20 << 20 // 20MB per upload

type ResumeHandler struct {
	ingest *service.IngestService
}

func NewResumeHandler(ingest *service.IngestService) *ResumeHandler {
	return &ResumeHandler{ingest: ingest}
}

type resumeItem struct {
	ID         string `json:"id"`
	FileName   string `json:"file_name"`
	ChunkCount int    `json:"chunk_count"`
	Ctime      int64  `json:"ctime"`
	Mtime      int64  `json:"mtime"`
}

func toResumeItem(r *model.Resume) resumeItem {
	return resumeItem{
		ID:         r.ID,
		FileName:   r.FileName,
		ChunkCount: r.ChunkCount,
		Ctime:      r.Ctime,
		Mtime:      r.Mtime,
	}
}

// Upload accepts one or more resume files in a multipart form and
// indexes each one. Files that fail to parse are reported per file
// instead of failing the whole batch.
func (h *ResumeHandler) Upload(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		response.Error(c, errcode.ErrInvalidFile, "multipart form with files is required")
		return
	}
	files := form.File["files"]
	if len(files) == 0 {
		if single := form.File["file"]; len(single) > 0 {
			files = single
		}
	}
	if len(files) == 0 {
		response.Error(c, errcode.ErrInvalidFile, "at least one file is required")
		return
	}

	type uploadResult struct {
		FileName string      `json:"file_name"`
		Ok       bool        `json:"ok"`
		Error    string      `json:"error,omitempty"`
		Resume   *resumeItem `json:"resume,omitempty"`
	}
	results := make([]uploadResult, 0, len(files))
	indexed := 0
	for _, file := range files {
		if file.Size > maxResumeSize {
			results = append(results, uploadResult{FileName: file.Filename, Error: "file too large"})
			continue
		}
		opened, err := file.Open()
		if err != nil {
			results = append(results, uploadResult{FileName: file.Filename, Error: "failed to open file"})
			continue
		}
		content, err := io.ReadAll(opened)
		opened.Close()
		if err != nil {
			results = append(results, uploadResult{FileName: file.Filename, Error: "failed to read file"})
			continue
		}
		resume, err := h.ingest.Ingest(c.Request.Context(), file.Filename, content)
		if err != nil {
			results = append(results, uploadResult{FileName: file.Filename, Error: err.Error()})
			continue
		}
		item := toResumeItem(resume)
		results = append(results, uploadResult{FileName: file.Filename, Ok: true, Resume: &item})
		indexed++
	}
	response.Success(c, gin.H{"indexed": indexed, "results": results})
}

func (h *ResumeHandler) List(c *gin.Context) {
	resumes, err := h.ingest.ListIndexed(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	items := make([]resumeItem, 0, len(resumes))
	for i := range resumes {
		items = append(items, toResumeItem(&resumes[i]))
	}
	response.Success(c, gin.H{"items": items, "total": len(items)})
}

func (h *ResumeHandler) Delete(c *gin.Context) {
	resumeID := c.Param("id")
	if resumeID == "" {
		response.Error(c, errcode.ErrInvalid, "resume id is required")
		return
	}
	if err := h.ingest.Remove(c.Request.Context(), resumeID); err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"id": resumeID})
}

// Purge removes every indexed resume.
func (h *ResumeHandler) Purge(c *gin.Context) {
	removed, err := h.ingest.RemoveAll(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"removed": removed})
}

// Resync re-parses a resume from its stored bytes, useful after a
// chunking config change.
func (h *ResumeHandler) Resync(c *gin.Context) {
	resumeID := c.Param("id")
	if resumeID == "" {
		response.Error(c, errcode.ErrInvalid, "resume id is required")
		return
	}
	resume, err := h.ingest.Resync(c.Request.Context(), resumeID)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, toResumeItem(resume))
}
