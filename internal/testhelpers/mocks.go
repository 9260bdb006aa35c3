package testhelpers

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/aura-dbt/backend/internal/models"
)

// MockProfileSink is a testify mock for the onboarding profile sink.
type MockProfileSink struct {
	mock.Mock
}

func (m *MockProfileSink) SaveProfile(ctx context.Context, profile *models.UserProfile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

// MockDiarySink is a testify mock for the diary card sink.
type MockDiarySink struct {
	mock.Mock
}

func (m *MockDiarySink) SaveCard(ctx context.Context, card *models.DiaryCard) error {
	args := m.Called(ctx, card)
	return args.Error(0)
}
