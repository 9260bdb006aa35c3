package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/aura-dbt/backend/internal/middleware"
	"github.com/aura-dbt/backend/internal/service"
)

// DashboardHandler serves read-only diary history views.
type DashboardHandler struct {
	diaries service.IDiaryStore
}

func NewDashboardHandler(diaries service.IDiaryStore) *DashboardHandler {
	return &DashboardHandler{diaries: diaries}
}

func (h *DashboardHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/dashboard/history", h.History)
	router.GET("/dashboard/today", h.Today)
}

// History returns the most recent cards, newest first. The limit query
// parameter caps the count; it defaults to the store's standard window.
func (h *DashboardHandler) History(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	limit := service.DefaultRecentLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = parsed
	}

	cards, err := h.diaries.LoadRecent(c.Request.Context(), userID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load history"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"cards": cards, "count": len(cards)})
}

// Today reports whether a card exists for the current day, so the client
// can offer "edit today's entry" instead of "start".
func (h *DashboardHandler) Today(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	card, err := h.diaries.LoadForDate(c.Request.Context(), userID, time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load diary card"})
		return
	}
	if card == nil {
		c.JSON(http.StatusOK, gin.H{"completed": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"completed": true, "card": card})
}
