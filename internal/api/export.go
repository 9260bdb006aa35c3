package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aura-dbt/backend/internal/middleware"
	"github.com/aura-dbt/backend/internal/service"
)

// ExportHandler produces a downloadable snapshot of the caller's data.
type ExportHandler struct {
	export *service.ExportService
}

func NewExportHandler(export *service.ExportService) *ExportHandler {
	return &ExportHandler{export: export}
}

func (h *ExportHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/export", h.Export)
}

func (h *ExportHandler) Export(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	url, err := h.export.ExportUserData(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to export data"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}
