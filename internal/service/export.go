package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/aura-dbt/backend/config"
	"github.com/aura-dbt/backend/internal/models"
)

// exportHistoryLimit bounds how many cards go into one export archive.
const exportHistoryLimit = 365

const exportURLTTL = 24 * time.Hour

// ExportService writes a JSON snapshot of a user's profile and diary history
// to S3 and hands back a presigned download link.
type ExportService struct {
	s3Config *config.S3Config
	profiles IProfileStore
	diaries  IDiaryStore
	logger   *zap.Logger
}

func NewExportService(s3Config *config.S3Config, profiles IProfileStore, diaries IDiaryStore, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{s3Config: s3Config, profiles: profiles, diaries: diaries, logger: logger}
}

// ExportPayload is the archive document format.
type ExportPayload struct {
	ExportedAt time.Time           `json:"exportedAt"`
	Profile    *models.UserProfile `json:"profile"`
	DiaryCards []models.DiaryCard  `json:"diaryCards"`
}

// ExportUserData builds and uploads the archive, returning a presigned URL
// the client can download from.
func (s *ExportService) ExportUserData(ctx context.Context, userID uuid.UUID) (string, error) {
	profile, err := s.profiles.LoadProfile(ctx, userID)
	if err != nil {
		return "", err
	}
	if profile == nil {
		return "", ErrProfileNotFound
	}

	cards, err := s.diaries.LoadRecent(ctx, userID, exportHistoryLimit)
	if err != nil {
		return "", err
	}

	payload := ExportPayload{
		ExportedAt: time.Now(),
		Profile:    profile,
		DiaryCards: cards,
	}
	raw, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode export: %w", err)
	}

	key := fmt.Sprintf("exports/%s/%s.json", userID, time.Now().Format("2006-01-02"))
	_, err = s.s3Config.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.s3Config.BucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(raw),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload export: %w", err)
	}

	url, err := s.s3Config.GeneratePresignedURL(ctx, key, exportURLTTL)
	if err != nil {
		return "", fmt.Errorf("failed to presign export url: %w", err)
	}

	s.logger.Info("user data exported",
		zap.String("user_id", userID.String()),
		zap.String("key", key),
		zap.Int("cards", len(cards)))
	return url, nil
}
