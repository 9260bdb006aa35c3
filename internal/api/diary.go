package api

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/aura-dbt/backend/internal/diary"
	"github.com/aura-dbt/backend/internal/middleware"
	"github.com/aura-dbt/backend/internal/service"
	"github.com/aura-dbt/backend/internal/session"
)

// DiaryHandler drives a user's diary-entry flow.
type DiaryHandler struct {
	sessions *session.Registry
	profiles service.IProfileStore
	diaries  service.IDiaryStore
	logger   *zap.Logger
}

func NewDiaryHandler(sessions *session.Registry, profiles service.IProfileStore, diaries service.IDiaryStore, logger *zap.Logger) *DiaryHandler {
	return &DiaryHandler{sessions: sessions, profiles: profiles, diaries: diaries, logger: logger}
}

func (h *DiaryHandler) RegisterRoutes(router *gin.RouterGroup) {
	g := router.Group("/diary")
	g.POST("/start", h.Start)
	g.GET("/state", h.GetState)
	g.PUT("/responses", h.UpdateResponses)
	g.POST("/next", h.Next)
	g.POST("/previous", h.Previous)
	g.POST("/complete", h.Complete)
	g.POST("/cancel", h.Cancel)
}

func (h *DiaryHandler) withSession(c *gin.Context, fn func(userID uuid.UUID, m *diary.Manager)) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	sess := h.sessions.Get(userID)
	sess.Lock()
	defer sess.Unlock()
	fn(userID, sess.Diary)
}

type startEntryRequest struct {
	// Date defaults to today when omitted.
	Date *time.Time `json:"date"`
}

// Start begins an entry for the given day, seeded from the user's profile.
// When a card already exists for that day its values are loaded so the flow
// edits the existing entry instead of starting blank.
func (h *DiaryHandler) Start(c *gin.Context) {
	var req startEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	date := time.Now()
	if req.Date != nil {
		date = *req.Date
	}

	h.withSession(c, func(userID uuid.UUID, m *diary.Manager) {
		profile, err := h.profiles.LoadProfile(c.Request.Context(), userID)
		if err != nil {
			h.logger.Error("failed to load profile for diary entry",
				zap.String("user_id", userID.String()),
				zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load profile"})
			return
		}
		if profile == nil {
			c.JSON(http.StatusConflict, gin.H{"error": "onboarding not completed"})
			return
		}

		m.StartNewEntry(date)
		m.PrepareForUser(profile)

		existing, err := h.diaries.LoadForDate(c.Request.Context(), userID, date)
		if err != nil {
			h.logger.Error("failed to check for existing diary card",
				zap.String("user_id", userID.String()),
				zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load diary card"})
			return
		}
		if existing != nil {
			m.LoadExistingEntry(existing)
			m.PrepareForUser(profile)
		}

		c.JSON(http.StatusOK, m.State())
	})
}

func (h *DiaryHandler) GetState(c *gin.Context) {
	h.withSession(c, func(_ uuid.UUID, m *diary.Manager) {
		c.JSON(http.StatusOK, gin.H{
			"state":    m.State(),
			"progress": m.ProgressPercentage(),
		})
	})
}

type diaryResponsesRequest struct {
	UrgeIntensities    map[string]int  `json:"urgeIntensities"`
	EmotionIntensities map[string]int  `json:"emotionIntensities"`
	GoalCompletions    map[string]bool `json:"goalCompletions"`
	ActionsPerformed   map[string]bool `json:"actionsPerformed"`
	SkillRating        *int            `json:"skillRating"`
	MedicationTaken    *bool           `json:"medicationTaken"`
	Note               *string         `json:"note"`
}

// UpdateResponses merges the provided values into the in-flight entry.
// Intensities and ratings outside 0..10 are clamped, not rejected.
func (h *DiaryHandler) UpdateResponses(c *gin.Context) {
	var req diaryResponsesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.withSession(c, func(_ uuid.UUID, m *diary.Manager) {
		if !m.InProgress() {
			c.JSON(http.StatusConflict, gin.H{"error": "no diary entry in progress"})
			return
		}
		for id, v := range req.UrgeIntensities {
			m.SetUrgeIntensity(id, v)
		}
		for id, v := range req.EmotionIntensities {
			m.SetEmotionIntensity(id, v)
		}
		for id, v := range req.GoalCompletions {
			m.SetGoalCompletion(id, v)
		}
		for id, v := range req.ActionsPerformed {
			m.SetActionPerformed(id, v)
		}
		if req.SkillRating != nil {
			m.SetSkillRating(*req.SkillRating)
		}
		if req.MedicationTaken != nil {
			m.SetMedicationTaken(*req.MedicationTaken)
		}
		if req.Note != nil {
			m.SetDiaryNote(*req.Note)
		}
		c.JSON(http.StatusOK, m.State())
	})
}

func (h *DiaryHandler) Next(c *gin.Context) {
	h.withSession(c, func(_ uuid.UUID, m *diary.Manager) {
		if !m.CanProceed() {
			c.JSON(http.StatusConflict, gin.H{
				"error": "current step is incomplete",
				"step":  m.Step(),
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"step":     m.NextStep(),
			"progress": m.ProgressPercentage(),
		})
	})
}

func (h *DiaryHandler) Previous(c *gin.Context) {
	h.withSession(c, func(_ uuid.UUID, m *diary.Manager) {
		c.JSON(http.StatusOK, gin.H{
			"step":     m.PreviousStep(),
			"progress": m.ProgressPercentage(),
		})
	})
}

func (h *DiaryHandler) Complete(c *gin.Context) {
	h.withSession(c, func(userID uuid.UUID, m *diary.Manager) {
		card, err := m.CompleteEntry(c.Request.Context(), userID, h.diaries)
		if err != nil {
			if errors.Is(err, diary.ErrCompletionInFlight) {
				c.JSON(http.StatusConflict, gin.H{"error": "completion already in progress"})
				return
			}
			if errors.Is(err, diary.ErrNoActiveEntry) {
				c.JSON(http.StatusConflict, gin.H{"error": "no entry in progress"})
				return
			}
			h.logger.Error("diary completion failed",
				zap.String("user_id", userID.String()),
				zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save diary card"})
			return
		}
		c.JSON(http.StatusCreated, card)
	})
}

func (h *DiaryHandler) Cancel(c *gin.Context) {
	h.withSession(c, func(_ uuid.UUID, m *diary.Manager) {
		m.CancelEntry()
		c.JSON(http.StatusOK, gin.H{"message": "entry cancelled"})
	})
}
