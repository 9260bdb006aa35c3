package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/aura-dbt/backend/internal/middleware"
	"github.com/aura-dbt/backend/internal/onboarding"
	"github.com/aura-dbt/backend/internal/service"
	"github.com/aura-dbt/backend/internal/session"
)

// OnboardingHandler drives a user's onboarding flow. Each request locks
// the user's session so the manager never sees concurrent mutation.
type OnboardingHandler struct {
	sessions *session.Registry
	profiles service.IProfileStore
	logger   *zap.Logger
}

func NewOnboardingHandler(sessions *session.Registry, profiles service.IProfileStore, logger *zap.Logger) *OnboardingHandler {
	return &OnboardingHandler{sessions: sessions, profiles: profiles, logger: logger}
}

func (h *OnboardingHandler) RegisterRoutes(router *gin.RouterGroup) {
	g := router.Group("/onboarding")
	g.GET("/state", h.GetState)
	g.PUT("/fields", h.UpdateFields)
	g.POST("/selections/:category/toggle", h.ToggleSelection)
	g.POST("/selections/:category/custom", h.AddCustomItem)
	g.POST("/next", h.Next)
	g.POST("/previous", h.Previous)
	g.POST("/complete", h.Complete)
	g.POST("/reset", h.Reset)
}

// withSession resolves the caller, locks their session and runs fn.
func (h *OnboardingHandler) withSession(c *gin.Context, fn func(userID uuid.UUID, m *onboarding.Manager)) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	sess := h.sessions.Get(userID)
	sess.Lock()
	defer sess.Unlock()
	fn(userID, sess.Onboarding)
}

func (h *OnboardingHandler) GetState(c *gin.Context) {
	h.withSession(c, func(_ uuid.UUID, m *onboarding.Manager) {
		c.JSON(http.StatusOK, m.State())
	})
}

type onboardingFieldsRequest struct {
	FirstName       *string    `json:"firstName"`
	LastName        *string    `json:"lastName"`
	Age             *int       `json:"age"`
	TakesMedication *bool      `json:"takesMediation"`
	ReminderTime    *time.Time `json:"reminderTime"`
}

// UpdateFields applies the provided scalar fields. Absent fields are left
// untouched so a screen can submit only what it edits.
func (h *OnboardingHandler) UpdateFields(c *gin.Context) {
	var req onboardingFieldsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.withSession(c, func(_ uuid.UUID, m *onboarding.Manager) {
		if req.FirstName != nil {
			m.SetFirstName(*req.FirstName)
		}
		if req.LastName != nil {
			m.SetLastName(*req.LastName)
		}
		if req.Age != nil {
			m.SetAge(*req.Age)
		}
		if req.TakesMedication != nil {
			m.SetTakesMedication(*req.TakesMedication)
		}
		if req.ReminderTime != nil {
			m.SetReminderTime(*req.ReminderTime)
		}
		c.JSON(http.StatusOK, m.State())
	})
}

type toggleSelectionRequest struct {
	Index int `json:"index"`
}

func (h *OnboardingHandler) ToggleSelection(c *gin.Context) {
	var req toggleSelectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Index < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "index must not be negative"})
		return
	}

	category := c.Param("category")
	h.withSession(c, func(_ uuid.UUID, m *onboarding.Manager) {
		var outcome onboarding.SelectionOutcome
		switch category {
		case "urges":
			outcome = m.ToggleUrgeSelection(req.Index)
		case "goals":
			outcome = m.ToggleGoalSelection(req.Index)
		case "actions":
			outcome = m.ToggleActionSelection(req.Index)
		default:
			c.JSON(http.StatusNotFound, gin.H{"error": "unknown selection category"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"outcome": outcome, "state": m.State()})
	})
}

type customItemRequest struct {
	Name string `json:"name" binding:"required"`
}

func (h *OnboardingHandler) AddCustomItem(c *gin.Context) {
	var req customItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	category := c.Param("category")
	h.withSession(c, func(_ uuid.UUID, m *onboarding.Manager) {
		switch category {
		case "urges":
			c.JSON(http.StatusCreated, gin.H{"item": m.AddCustomUrge(req.Name), "state": m.State()})
		case "goals":
			c.JSON(http.StatusCreated, gin.H{"item": m.AddCustomGoal(req.Name), "state": m.State()})
		case "actions":
			c.JSON(http.StatusCreated, gin.H{"item": m.AddCustomAction(req.Name), "state": m.State()})
		default:
			c.JSON(http.StatusNotFound, gin.H{"error": "unknown selection category"})
		}
	})
}

func (h *OnboardingHandler) Next(c *gin.Context) {
	h.withSession(c, func(_ uuid.UUID, m *onboarding.Manager) {
		if !m.CanProceed() {
			c.JSON(http.StatusConflict, gin.H{
				"error": "current step is incomplete",
				"step":  m.Step(),
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{"step": m.NextStep()})
	})
}

func (h *OnboardingHandler) Previous(c *gin.Context) {
	h.withSession(c, func(_ uuid.UUID, m *onboarding.Manager) {
		c.JSON(http.StatusOK, gin.H{"step": m.PreviousStep()})
	})
}

func (h *OnboardingHandler) Complete(c *gin.Context) {
	h.withSession(c, func(userID uuid.UUID, m *onboarding.Manager) {
		profile, err := m.CompleteOnboarding(c.Request.Context(), userID, h.profiles)
		if err != nil {
			if errors.Is(err, onboarding.ErrCompletionInFlight) {
				c.JSON(http.StatusConflict, gin.H{"error": "completion already in progress"})
				return
			}
			if errors.Is(err, onboarding.ErrAlreadyComplete) {
				c.JSON(http.StatusConflict, gin.H{"error": "onboarding already completed"})
				return
			}
			h.logger.Error("onboarding completion failed",
				zap.String("user_id", userID.String()),
				zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save profile"})
			return
		}
		c.JSON(http.StatusCreated, profile)
	})
}

func (h *OnboardingHandler) Reset(c *gin.Context) {
	h.withSession(c, func(_ uuid.UUID, m *onboarding.Manager) {
		m.Reset()
		c.JSON(http.StatusOK, m.State())
	})
}
