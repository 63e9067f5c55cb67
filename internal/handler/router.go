package handler

import (
	"github.com/gin-gonic/gin"
)

type RouterDeps struct {
	Resumes *ResumeHandler
	Query   *QueryHandler
}

func RegisterRoutes(api *gin.RouterGroup, deps RouterDeps) {
	api.POST("/resumes", deps.Resumes.Upload)
	api.GET("/resumes", deps.Resumes.List)
	api.DELETE("/resumes", deps.Resumes.Purge)
	api.DELETE("/resumes/:id", deps.Resumes.Delete)
	api.POST("/resumes/:id/resync", deps.Resumes.Resync)

	api.POST("/query/rank", deps.Query.Rank)
	api.POST("/query/chat", deps.Query.Chat)
	api.POST("/query/compare", deps.Query.Compare)
}
