package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/aura-dbt/backend/internal/models"
)

// DefaultRecentLimit is the dashboard history page size; only this page is
// cached in Redis.
const DefaultRecentLimit = 30

const recentCacheTTL = 5 * time.Minute

// DiaryStore persists diary cards on GORM with an optional Redis cache for
// the recent-history page. A nil Redis client disables caching, which unit
// tests rely on.
type DiaryStore struct {
	db     *gorm.DB
	redis  *redis.Client
	logger *zap.Logger
}

var _ IDiaryStore = (*DiaryStore)(nil)

func NewDiaryStore(db *gorm.DB, redisClient *redis.Client, logger *zap.Logger) *DiaryStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DiaryStore{db: db, redis: redisClient, logger: logger}
}

func recentCacheKey(userID uuid.UUID) string {
	return fmt.Sprintf("diary:recent:%s", userID)
}

// SaveCard stores the card, replacing any existing card for the same user
// and day. The load-by-date path assumes at most one card per day, so the
// store enforces that here rather than trusting every caller.
func (s *DiaryStore) SaveCard(ctx context.Context, card *models.DiaryCard) error {
	card.Date = models.StartOfDay(card.Date)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ? AND date = ?", card.UserID, card.Date).
			Delete(&models.DiaryCard{}).Error; err != nil {
			return err
		}
		return tx.Create(card).Error
	})
	if err != nil {
		return fmt.Errorf("failed to save diary card: %w", err)
	}

	if s.redis != nil {
		if err := s.redis.Del(ctx, recentCacheKey(card.UserID)).Err(); err != nil {
			s.logger.Warn("failed to invalidate recent-cards cache", zap.Error(err))
		}
	}

	s.logger.Info("diary card saved",
		zap.String("user_id", card.UserID.String()),
		zap.Time("date", card.Date))
	return nil
}

// LoadForDate fetches the card for the given calendar day; (nil, nil) when
// none exists.
func (s *DiaryStore) LoadForDate(ctx context.Context, userID uuid.UUID, date time.Time) (*models.DiaryCard, error) {
	var card models.DiaryCard
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND date = ?", userID, models.StartOfDay(date)).
		First(&card).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load diary card: %w", err)
	}
	return &card, nil
}

// LoadRecent returns up to limit cards, newest first. The default page is
// served from Redis when warm.
func (s *DiaryStore) LoadRecent(ctx context.Context, userID uuid.UUID, limit int) ([]models.DiaryCard, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}

	useCache := s.redis != nil && limit == DefaultRecentLimit
	if useCache {
		if raw, err := s.redis.Get(ctx, recentCacheKey(userID)).Bytes(); err == nil {
			var cards []models.DiaryCard
			if err := json.Unmarshal(raw, &cards); err == nil {
				return cards, nil
			}
		}
	}

	var cards []models.DiaryCard
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("date DESC").
		Limit(limit).
		Find(&cards).Error; err != nil {
		return nil, fmt.Errorf("failed to load recent diary cards: %w", err)
	}

	if useCache {
		if raw, err := json.Marshal(cards); err == nil {
			if err := s.redis.Set(ctx, recentCacheKey(userID), raw, recentCacheTTL).Err(); err != nil {
				s.logger.Warn("failed to cache recent cards", zap.Error(err))
			}
		}
	}
	return cards, nil
}
