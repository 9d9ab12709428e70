// Package session keeps login sessions in process memory.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/cipherbank/internal/logger"
	"github.com/dtroode/cipherbank/internal/model"
)

const (
	// DefaultFixedTimeout bounds a session's lifetime from creation.
	DefaultFixedTimeout = 180 * time.Minute
	// DefaultRollingTimeout bounds the idle time between two validations.
	DefaultRollingTimeout = 10 * time.Minute
)

// Manager issues and expires sessions. A session is deleted as soon as it is
// found expired; expired sessions are never returned.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]model.Session

	fixedTimeout   time.Duration
	rollingTimeout time.Duration
	now            func() time.Time
	logger         *logger.Logger
}

// NewManager creates a Manager. Zero timeouts fall back to the defaults.
func NewManager(fixedTimeout, rollingTimeout time.Duration, logger *logger.Logger) *Manager {
	if fixedTimeout <= 0 {
		fixedTimeout = DefaultFixedTimeout
	}
	if rollingTimeout <= 0 {
		rollingTimeout = DefaultRollingTimeout
	}

	return &Manager{
		sessions:       make(map[string]model.Session),
		fixedTimeout:   fixedTimeout,
		rollingTimeout: rollingTimeout,
		now:            time.Now,
		logger:         logger,
	}
}

// Create starts a session for accountID and returns its token.
func (m *Manager) Create(accountID uuid.UUID) (string, error) {
	token, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("failed to generate session id: %w", err)
	}

	now := m.now()
	s := model.Session{
		ID:           token.String(),
		AccountID:    accountID,
		CreatedAt:    now,
		LastActivity: now,
	}

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	return s.ID, nil
}

// Validate reports whether the session is alive. A live session has its
// last activity refreshed; an expired one is deleted.
func (m *Manager) Validate(sessionID string) (model.Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.alive(sessionID)
	if !ok {
		return model.Session{}, false
	}

	s.LastActivity = m.now()
	m.sessions[sessionID] = s

	return s, true
}

// MarkVerified records that the session holder answered a challenge.
func (m *Manager) MarkVerified(sessionID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.alive(sessionID)
	if !ok {
		return false
	}

	s.Verified = true
	s.LastActivity = m.now()
	m.sessions[sessionID] = s

	return true
}

// Destroy deletes the session. It reports false if there was none.
func (m *Manager) Destroy(sessionID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[sessionID]; !ok {
		return false
	}
	delete(m.sessions, sessionID)

	return true
}

// Sweep deletes every expired session and returns how many were removed.
func (m *Manager) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	removed := 0
	for id, s := range m.sessions {
		if m.expired(s, now) {
			delete(m.sessions, id)
			removed++
		}
	}

	return removed
}

// Run sweeps expired sessions every interval until ctx is done.
func (m *Manager) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := m.Sweep(); n > 0 {
				m.logger.Debug("Session manager: expired sessions removed", "count", n)
			}
		}
	}
}

// alive returns the session if it exists and has not expired, deleting it
// otherwise. m.mu must be held.
func (m *Manager) alive(sessionID string) (model.Session, bool) {
	s, ok := m.sessions[sessionID]
	if !ok {
		return model.Session{}, false
	}

	if m.expired(s, m.now()) {
		delete(m.sessions, sessionID)
		return model.Session{}, false
	}

	return s, true
}

func (m *Manager) expired(s model.Session, now time.Time) bool {
	return now.Sub(s.CreatedAt) > m.fixedTimeout || now.Sub(s.LastActivity) > m.rollingTimeout
}
