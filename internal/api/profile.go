package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/aura-dbt/backend/internal/middleware"
	"github.com/aura-dbt/backend/internal/service"
)

// ProfileHandler serves the saved profile and post-onboarding edits to the
// tracked item sets.
type ProfileHandler struct {
	profiles service.IProfileStore
}

func NewProfileHandler(profiles service.IProfileStore) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

func (h *ProfileHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/profile", h.GetProfile)
	router.GET("/profile/items", h.GetTrackedItems)
	router.PUT("/profile/selections", h.UpdateSelections)
	router.POST("/profile/custom/:category", h.AddCustomItem)
}

func (h *ProfileHandler) userID(c *gin.Context) (uuid.UUID, bool) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
	}
	return userID, ok
}

func (h *ProfileHandler) GetProfile(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	profile, err := h.profiles.LoadProfile(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load profile"})
		return
	}
	if profile == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
		return
	}
	c.JSON(http.StatusOK, profile)
}

// GetTrackedItems resolves the profile's selected ids against the catalog
// and returns the concrete items the diary flow will present.
func (h *ProfileHandler) GetTrackedItems(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	profile, err := h.profiles.LoadProfile(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load profile"})
		return
	}
	if profile == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"urges":   service.TrackedUrges(profile),
		"goals":   service.TrackedGoals(profile),
		"actions": service.TrackedActions(profile),
	})
}

type updateSelectionsRequest struct {
	UrgeIDs   []string `json:"selectedUrgeIds" binding:"required"`
	GoalIDs   []string `json:"selectedGoalIds" binding:"required"`
	ActionIDs []string `json:"selectedActionIds" binding:"required"`
}

func (h *ProfileHandler) UpdateSelections(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	var req updateSelectionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.profiles.UpdateSelections(c.Request.Context(), userID, req.UrgeIDs, req.GoalIDs, req.ActionIDs)
	if err != nil {
		if errors.Is(err, service.ErrProfileNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update selections"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "selections updated"})
}

func (h *ProfileHandler) AddCustomItem(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	var req customItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	var (
		item interface{}
		err  error
	)
	switch c.Param("category") {
	case "urges":
		item, err = h.profiles.AddCustomUrge(ctx, userID, req.Name)
	case "goals":
		item, err = h.profiles.AddCustomGoal(ctx, userID, req.Name)
	case "actions":
		item, err = h.profiles.AddCustomAction(ctx, userID, req.Name)
	default:
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown item category"})
		return
	}
	if err != nil {
		if errors.Is(err, service.ErrProfileNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to add custom item"})
		return
	}
	c.JSON(http.StatusCreated, item)
}
