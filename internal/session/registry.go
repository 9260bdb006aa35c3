// Package session hands out the per-user flow managers behind the HTTP
// layer. The managers themselves are single-owner and lock-free; the session
// mutex is the "one active screen at a time" guarantee they rely on.
package session

import (
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/aura-dbt/backend/internal/diary"
	"github.com/aura-dbt/backend/internal/onboarding"
)

// Session bundles one user's managers. Callers must hold the embedded mutex
// while touching either manager.
type Session struct {
	sync.Mutex
	Onboarding *onboarding.Manager
	Diary      *diary.Manager
}

// Registry lazily creates and caches one Session per user.
type Registry struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*Session
	logger   *zap.Logger
}

func NewRegistry(logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		sessions: make(map[uuid.UUID]*Session),
		logger:   logger,
	}
}

// Get returns the user's session, creating it on first use.
func (r *Registry) Get(userID uuid.UUID) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.sessions[userID]; ok {
		return s
	}
	s := &Session{
		Onboarding: onboarding.NewManager(r.logger),
		Diary:      diary.NewManager(r.logger),
	}
	r.sessions[userID] = s
	r.logger.Debug("session created", zap.String("user_id", userID.String()))
	return s
}

// Drop discards the user's session, e.g. on logout. The next Get starts
// from fresh managers.
func (r *Registry) Drop(userID uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, userID)
}
