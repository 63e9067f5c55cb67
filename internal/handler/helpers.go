package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/hirelens/hirelens/internal/ai"
	"github.com/hirelens/hirelens/internal/pkg/errcode"
	appErr "github.com/hirelens/hirelens/internal/pkg/errors"
	"github.com/hirelens/hirelens/internal/pkg/response"
)

func handleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	logutil.GetLogger(c.Request.Context()).Error("request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.Error(err))
	switch {
	case errors.Is(err, appErr.ErrInvalid):
		response.Error(c, errcode.ErrInvalid, "invalid request")
	case errors.Is(err, appErr.ErrNotFound):
		response.Error(c, errcode.ErrNotFound, "not found")
	case errors.Is(err, appErr.ErrConflict):
		response.Error(c, errcode.ErrConflict, "conflict")
	case errors.Is(err, appErr.ErrUnsupportedFormat):
		response.Error(c, errcode.ErrUnsupportedFormat, "unsupported document format")
	case errors.Is(err, appErr.ErrParse):
		response.Error(c, errcode.ErrParseFailed, "document could not be parsed")
	case errors.Is(err, appErr.ErrEmptyKnowledgeBase):
		response.Error(c, errcode.ErrEmptyKnowledgeBase, "no resumes indexed yet, upload some first")
	case errors.Is(err, appErr.ErrContextTooLarge):
		response.Error(c, errcode.ErrContextTooLarge, "retrieved context exceeds the model limit")
	case errors.Is(err, appErr.ErrIndexUnavailable):
		response.Error(c, errcode.ErrIndexUnavailable, "vector index unavailable")
	case errors.Is(err, ai.ErrUnavailable), errors.Is(err, appErr.ErrExternalService):
		response.Error(c, errcode.ErrAIUnavailable, "ai service unavailable")
	default:
		response.Error(c, errcode.ErrInternal, "internal error")
	}
}
