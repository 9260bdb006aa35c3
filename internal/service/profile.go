package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/aura-dbt/backend/internal/catalog"
	"github.com/aura-dbt/backend/internal/models"
)

// ErrProfileNotFound is returned by update operations when the user has not
// completed onboarding yet.
var ErrProfileNotFound = errors.New("user profile not found")

// ProfileStore persists user profiles on GORM. It is the ProfileSink the
// onboarding manager saves through, plus the update operations available
// after onboarding.
type ProfileStore struct {
	db     *gorm.DB
	logger *zap.Logger
}

var _ IProfileStore = (*ProfileStore)(nil)

func NewProfileStore(db *gorm.DB, logger *zap.Logger) *ProfileStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProfileStore{db: db, logger: logger}
}

// SaveProfile creates the one profile row for the user.
func (s *ProfileStore) SaveProfile(ctx context.Context, profile *models.UserProfile) error {
	if err := s.db.WithContext(ctx).Create(profile).Error; err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	s.logger.Info("profile saved", zap.String("user_id", profile.UserID.String()))
	return nil
}

// LoadProfile fetches the user's profile; (nil, nil) when none exists.
func (s *ProfileStore) LoadProfile(ctx context.Context, userID uuid.UUID) (*models.UserProfile, error) {
	var profile models.UserProfile
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	return &profile, nil
}

func (s *ProfileStore) loadForUpdate(ctx context.Context, userID uuid.UUID) (*models.UserProfile, error) {
	profile, err := s.LoadProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, ErrProfileNotFound
	}
	return profile, nil
}

// UpdateSelections replaces the three selected-id lists wholesale.
func (s *ProfileStore) UpdateSelections(ctx context.Context, userID uuid.UUID, urgeIDs, goalIDs, actionIDs []string) error {
	profile, err := s.loadForUpdate(ctx, userID)
	if err != nil {
		return err
	}

	profile.SelectedUrgeIDs = urgeIDs
	profile.SelectedGoalIDs = goalIDs
	profile.SelectedActionIDs = actionIDs
	profile.UpdatedAt = time.Now()

	if err := s.db.WithContext(ctx).Save(profile).Error; err != nil {
		return fmt.Errorf("failed to update selections: %w", err)
	}
	return nil
}

// AddCustomUrge appends a user-authored urge to the profile and selects it.
func (s *ProfileStore) AddCustomUrge(ctx context.Context, userID uuid.UUID, name string) (models.CustomItem, error) {
	item := models.CustomItem{ID: uuid.NewString(), Name: name, InputType: string(catalog.InputScale)}
	return item, s.appendCustom(ctx, userID, func(p *models.UserProfile) {
		p.CustomUrges = append(p.CustomUrges, item)
		p.SelectedUrgeIDs = append(p.SelectedUrgeIDs, item.ID)
	})
}

// AddCustomGoal appends a user-authored goal to the profile and selects it.
func (s *ProfileStore) AddCustomGoal(ctx context.Context, userID uuid.UUID, name string) (models.CustomItem, error) {
	item := models.CustomItem{ID: uuid.NewString(), Name: name, InputType: string(catalog.InputBinary)}
	return item, s.appendCustom(ctx, userID, func(p *models.UserProfile) {
		p.CustomGoals = append(p.CustomGoals, item)
		p.SelectedGoalIDs = append(p.SelectedGoalIDs, item.ID)
	})
}

// AddCustomAction appends a user-authored action to the profile and selects it.
func (s *ProfileStore) AddCustomAction(ctx context.Context, userID uuid.UUID, name string) (models.CustomItem, error) {
	item := models.CustomItem{ID: uuid.NewString(), Name: name, InputType: string(catalog.InputBinary)}
	return item, s.appendCustom(ctx, userID, func(p *models.UserProfile) {
		p.CustomActions = append(p.CustomActions, item)
		p.SelectedActionIDs = append(p.SelectedActionIDs, item.ID)
	})
}

func (s *ProfileStore) appendCustom(ctx context.Context, userID uuid.UUID, mutate func(*models.UserProfile)) error {
	profile, err := s.loadForUpdate(ctx, userID)
	if err != nil {
		return err
	}

	mutate(profile)
	profile.UpdatedAt = time.Now()

	if err := s.db.WithContext(ctx).Save(profile).Error; err != nil {
		return fmt.Errorf("failed to add custom item: %w", err)
	}
	return nil
}

// TrackedUrges resolves the full urge set the profile tracks daily: fixed
// urges, then selected standard urges, then customs.
func TrackedUrges(p *models.UserProfile) []catalog.Item {
	items := catalog.FixedUrges()
	for _, item := range catalog.SelectableUrges() {
		if p.SelectedUrgeIDs.Contains(item.ID) {
			items = append(items, item)
		}
	}
	return append(items, customToCatalog(p.CustomUrges)...)
}

// TrackedGoals resolves the goals the profile tracks daily.
func TrackedGoals(p *models.UserProfile) []catalog.Item {
	var items []catalog.Item
	for _, item := range catalog.SelectableGoals() {
		if p.SelectedGoalIDs.Contains(item.ID) {
			items = append(items, item)
		}
	}
	return append(items, customToCatalog(p.CustomGoals)...)
}

// TrackedActions resolves the actions the profile tracks daily.
func TrackedActions(p *models.UserProfile) []catalog.Item {
	items := catalog.FixedActions()
	for _, item := range catalog.SelectableActions() {
		if p.SelectedActionIDs.Contains(item.ID) {
			items = append(items, item)
		}
	}
	return append(items, customToCatalog(p.CustomActions)...)
}

func customToCatalog(customs models.CustomItemList) []catalog.Item {
	items := make([]catalog.Item, len(customs))
	for i, c := range customs {
		items[i] = catalog.Item{ID: c.ID, Name: c.Name, InputType: catalog.InputType(c.InputType)}
	}
	return items
}
