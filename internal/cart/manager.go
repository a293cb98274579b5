package cart

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sipeslibya/storefront-backend/pkg/config"
	"github.com/sipeslibya/storefront-backend/pkg/logger"
)

type session struct {
	store    *Store
	lastSeen time.Time
}

// Manager owns the per-session cart stores. Carts are ephemeral by design:
// they live in process memory and expire after the configured idle TTL.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*session
	ttl      time.Duration
	interval time.Duration
	now      func() time.Time
	logger   *logger.Logger
}

// NewManager builds a session cart registry.
func NewManager(cfg config.CartConfig, logg *logger.Logger) (*Manager, error) {
	if cfg.SessionTTL <= 0 {
		return nil, fmt.Errorf("cart session ttl must be positive")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	interval := cfg.SweepInterval
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	return &Manager{
		sessions: make(map[string]*session),
		ttl:      cfg.SessionTTL,
		interval: interval,
		now:      time.Now,
		logger:   logg,
	}, nil
}

// Get returns the cart for the session, creating one when absent, and
// refreshes the idle timer.
func (m *Manager) Get(sessionID string) *Store {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.sessions[sessionID]
	if !ok {
		entry = &session{store: NewStore()}
		m.sessions[sessionID] = entry
	}
	entry.lastSeen = m.now()
	return entry.store
}

// Drop removes the session's cart entirely.
func (m *Manager) Drop(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, sessionID)
}

// Sweep evicts sessions idle past the TTL and reports how many were removed.
func (m *Manager) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := m.now().Add(-m.ttl)
	var evicted int
	for id, entry := range m.sessions {
		if entry.lastSeen.Before(cutoff) {
			delete(m.sessions, id)
			evicted++
		}
	}
	return evicted
}

// Run sweeps on the configured interval until the context is cancelled.
func (m *Manager) Run(ctx context.Context) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if evicted := m.Sweep(); evicted > 0 {
				m.logger.Info(m.logger.WithField(ctx, "evicted", evicted), "swept idle cart sessions")
			}
		}
	}
}

// Len reports how many sessions currently hold a cart.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
