package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/aura-dbt/backend/internal/models"
	"github.com/aura-dbt/backend/internal/testhelpers"
)

func TestReminderDueWindow(t *testing.T) {
	day := func(hour, min int) time.Time {
		return time.Date(2026, 3, 14, hour, min, 0, 0, time.UTC)
	}
	// The stored value's date is irrelevant, only its wall-clock time counts.
	reminderAt := func(hour, min int) time.Time {
		return time.Date(2000, 1, 1, hour, min, 0, 0, time.UTC)
	}

	tests := []struct {
		name     string
		reminder time.Time
		since    time.Time
		now      time.Time
		due      bool
	}{
		{"exact minute", reminderAt(20, 30), day(20, 29), day(20, 30), true},
		{"tick skipped a minute", reminderAt(20, 30), day(20, 28), day(20, 31), true},
		{"not due yet", reminderAt(20, 45), day(20, 29), day(20, 30), false},
		{"already covered by previous sweep", reminderAt(20, 30), day(20, 30), day(20, 31), false},
		{
			"window spanning midnight",
			reminderAt(23, 59),
			day(23, 58),
			time.Date(2026, 3, 15, 0, 1, 0, 0, time.UTC),
			true,
		},
		{
			"reminder stored in another zone",
			time.Date(2000, 1, 1, 1, 30, 0, 0, time.FixedZone("UTC+5", 5*3600)),
			day(20, 29),
			day(20, 30),
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, due := reminderDue(tt.reminder, tt.since, tt.now)
			assert.Equal(t, tt.due, due)
		})
	}
}

func TestSendDueSkipsUsersWithTodaysCard(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	diaries := NewDiaryStore(db, nil, nil)
	ctx := context.Background()

	now := time.Date(2026, 3, 14, 20, 30, 0, 0, time.UTC)
	reminder := time.Date(2000, 1, 1, 20, 30, 0, 0, time.UTC)

	finished := uuid.New()
	pending := uuid.New()
	for i, userID := range []uuid.UUID{finished, pending} {
		require.NoError(t, db.Create(&models.User{
			ID:           userID,
			Email:        []string{"done@example.com", "pending@example.com"}[i],
			PasswordHash: "x",
		}).Error)
		require.NoError(t, db.Create(&models.UserProfile{
			ID:           uuid.New(),
			UserID:       userID,
			FirstName:    "Ada",
			LastName:     "Lovelace",
			Age:          30,
			ReminderTime: reminder,
		}).Error)
	}
	require.NoError(t, diaries.SaveCard(ctx, newCard(finished, now)))

	svc := &ReminderService{db: db, diaries: diaries, logger: zap.NewNop()}
	var sent []string
	svc.send = func(user *models.User, _ *models.UserProfile) error {
		sent = append(sent, user.Email)
		return nil
	}

	require.NoError(t, svc.SendDue(ctx, now.Add(-time.Minute), now))
	assert.Equal(t, []string{"pending@example.com"}, sent)

	// A later sweep whose window opens at the reminder minute does not resend.
	sent = nil
	require.NoError(t, svc.SendDue(ctx, now, now.Add(time.Minute)))
	assert.Empty(t, sent)
}
