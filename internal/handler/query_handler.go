package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/hirelens/hirelens/internal/pkg/errcode"
	"github.com/hirelens/hirelens/internal/pkg/response"
	"github.com/hirelens/hirelens/internal/service"
)

type QueryHandler struct {
	query *service.QueryService
}

func NewQueryHandler(query *service.QueryService) *QueryHandler {
	return &QueryHandler{query: query}
}

type rankRequest struct {
	JobTitle     string `json:"job_title"`
	MinYears     int    `json:"min_years"`
	Skills       string `json:"skills"`
	Requirements string `json:"requirements"`
}

type chatRequest struct {
	Question string `json:"question"`
}

type compareRequest struct {
	Criterion string   `json:"criterion"`
	ResumeIDs []string `json:"resume_ids"`
}

func (h *QueryHandler) Rank(c *gin.Context) {
	var req rankRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errcode.ErrInvalid, "invalid request")
		return
	}
	candidates, err := h.query.Rank(c.Request.Context(), service.RankQuery{
		JobTitle:     req.JobTitle,
		MinYears:     req.MinYears,
		Skills:       req.Skills,
		Requirements: req.Requirements,
	})
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"candidates": candidates})
}

func (h *QueryHandler) Chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errcode.ErrInvalid, "invalid request")
		return
	}
	answer, err := h.query.Chat(c.Request.Context(), req.Question)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"answer": answer})
}

func (h *QueryHandler) Compare(c *gin.Context) {
	var req compareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errcode.ErrInvalid, "invalid request")
		return
	}
	answer, err := h.query.Compare(c.Request.Context(), req.Criterion, req.ResumeIDs)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"answer": answer})
}
