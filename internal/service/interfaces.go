package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/aura-dbt/backend/internal/middleware"
	"github.com/aura-dbt/backend/internal/models"
)

// IProfileStore is the profile persistence boundary. The onboarding manager
// only needs SaveProfile; the remaining operations cover session restore and
// post-onboarding updates.
type IProfileStore interface {
	SaveProfile(ctx context.Context, profile *models.UserProfile) error
	// LoadProfile returns (nil, nil) when the user has no profile yet.
	LoadProfile(ctx context.Context, userID uuid.UUID) (*models.UserProfile, error)
	UpdateSelections(ctx context.Context, userID uuid.UUID, urgeIDs, goalIDs, actionIDs []string) error
	AddCustomUrge(ctx context.Context, userID uuid.UUID, name string) (models.CustomItem, error)
	AddCustomGoal(ctx context.Context, userID uuid.UUID, name string) (models.CustomItem, error)
	AddCustomAction(ctx context.Context, userID uuid.UUID, name string) (models.CustomItem, error)
}

// IDiaryStore is the diary-card persistence boundary. SaveCard upserts by
// (user, day): completing the same day twice leaves one stored card.
type IDiaryStore interface {
	SaveCard(ctx context.Context, card *models.DiaryCard) error
	// LoadForDate returns (nil, nil) when no card exists for that day.
	LoadForDate(ctx context.Context, userID uuid.UUID, date time.Time) (*models.DiaryCard, error)
	LoadRecent(ctx context.Context, userID uuid.UUID, limit int) ([]models.DiaryCard, error)
}

// IAuthService issues and validates the opaque user identifier the rest of
// the system treats as an input.
type IAuthService interface {
	Register(ctx context.Context, email, password string) (*models.User, string, error)
	Login(ctx context.Context, email, password string) (*models.User, string, error)
	ValidateToken(token string) (*middleware.TokenClaims, error)
}
