package service

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/aura-dbt/backend/config"
	"github.com/aura-dbt/backend/internal/models"
)

// ReminderService emails users whose reminder time has come around, nudging
// them toward today's diary card.
type ReminderService struct {
	db           *gorm.DB
	diaries      IDiaryStore
	logger       *zap.Logger
	smtpHost     string
	smtpPort     string
	smtpUsername string
	smtpPassword string
	fromEmail    string

	// send is swapped out in tests to observe delivery without SMTP.
	send func(user *models.User, profile *models.UserProfile) error
}

func NewReminderService(db *gorm.DB, diaries IDiaryStore, logger *zap.Logger) *ReminderService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &ReminderService{
		db:           db,
		diaries:      diaries,
		logger:       logger,
		smtpHost:     config.ReadSecret("smtp_host"),
		smtpPort:     config.ReadSecret("smtp_port"),
		smtpUsername: config.ReadSecret("smtp_username"),
		smtpPassword: config.ReadSecret("smtp_password"),
		fromEmail:    config.ReadSecret("email_from"),
	}
	s.send = s.sendReminder
	return s
}

// Run sweeps for due reminders once a minute until ctx is cancelled. Each
// sweep covers the window since the previous one, so reminders are not lost
// when a tick is delayed past a minute boundary.
func (s *ReminderService) Run(ctx context.Context) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if err := s.SendDue(ctx, last, now); err != nil {
				s.logger.Warn("reminder sweep failed", zap.Error(err))
			}
			last = now
		}
	}
}

// reminderDue resolves the most recent occurrence of the profile's reminder
// wall-clock time at or before now, in now's location, and reports whether
// it falls inside the (since, now] window. Wall-clock comparison in a single
// location keeps reminders stored with a different zone offset firing at the
// hour and minute the user picked.
func reminderDue(reminder, since, now time.Time) (time.Time, bool) {
	rt := reminder.In(now.Location())
	due := time.Date(now.Year(), now.Month(), now.Day(), rt.Hour(), rt.Minute(), 0, 0, now.Location())
	if due.After(now) {
		due = due.AddDate(0, 0, -1)
	}
	return due, due.After(since)
}

// SendDue emails every user whose reminder time fell inside the (since, now]
// window and who has not completed the card for that day yet.
func (s *ReminderService) SendDue(ctx context.Context, since, now time.Time) error {
	var profiles []models.UserProfile
	if err := s.db.WithContext(ctx).Find(&profiles).Error; err != nil {
		return fmt.Errorf("failed to list profiles: %w", err)
	}

	for _, profile := range profiles {
		due, ok := reminderDue(profile.ReminderTime, since, now)
		if !ok {
			continue
		}

		card, err := s.diaries.LoadForDate(ctx, profile.UserID, due)
		if err != nil {
			s.logger.Warn("failed to check today's card", zap.String("user_id", profile.UserID.String()), zap.Error(err))
			continue
		}
		if card != nil {
			continue
		}

		var user models.User
		if err := s.db.WithContext(ctx).First(&user, "id = ?", profile.UserID).Error; err != nil {
			s.logger.Warn("reminder user lookup failed", zap.String("user_id", profile.UserID.String()), zap.Error(err))
			continue
		}

		if err := s.send(&user, &profile); err != nil {
			s.logger.Warn("reminder send failed", zap.String("user_id", profile.UserID.String()), zap.Error(err))
		}
	}
	return nil
}

func (s *ReminderService) sendReminder(user *models.User, profile *models.UserProfile) error {
	if s.smtpHost == "" {
		// SMTP not configured; reminders are a no-op in that deployment.
		return nil
	}

	subject := "Time for today's diary card"
	body := fmt.Sprintf("Hi %s,\n\nThis is your daily reminder to fill out today's diary card.\n", profile.FirstName)
	msg := strings.Join([]string{
		fmt.Sprintf("From: %s", s.fromEmail),
		fmt.Sprintf("To: %s", user.Email),
		fmt.Sprintf("Subject: %s", subject),
		"",
		body,
	}, "\r\n")

	addr := fmt.Sprintf("%s:%s", s.smtpHost, s.smtpPort)
	auth := smtp.PlainAuth("", s.smtpUsername, s.smtpPassword, s.smtpHost)
	return smtp.SendMail(addr, auth, s.fromEmail, []string{user.Email}, []byte(msg))
}
