package session

import (
	"context"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/resume-builder/internal/types"
)

// DefaultIdleTimeout is how long an untouched session is kept
const DefaultIdleTimeout = 30 * time.Minute

// ManagerConfig configures a Manager
type ManagerConfig struct {
	Session     Options
	IdleTimeout time.Duration
	MaxSessions int
}

// Manager keeps the in-memory sessions of a server process
type Manager struct {
	cfg ManagerConfig

	mu       sync.RWMutex
	sessions map[string]*Session

	now func() time.Time
}

// NewManager creates an empty manager
func NewManager(cfg ManagerConfig) *Manager {
	if cfg.IdleTimeout <= 0 {
		cfg.IdleTimeout = DefaultIdleTimeout
	}
	return &Manager{
		cfg:      cfg,
		sessions: make(map[string]*Session),
		now:      time.Now,
	}
}

// Create starts a session over doc, or over an empty document when doc is nil
func (m *Manager) Create(doc *types.ResumeDocument) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cfg.MaxSessions > 0 && len(m.sessions) >= m.cfg.MaxSessions {
		return nil, &LimitError{Max: m.cfg.MaxSessions}
	}
	id := uuid.NewString()
	s := New(id, doc, m.cfg.Session)
	m.sessions[id] = s
	log.Printf("[session] created %s (%d active)", id, len(m.sessions))
	return s, nil
}

// Get returns the session with the given id
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, &NotFoundError{ID: id}
	}
	return s, nil
}

// Delete closes and removes a session
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()

	if !ok {
		return &NotFoundError{ID: id}
	}
	s.Close()
	log.Printf("[session] deleted %s", id)
	return nil
}

// IDs lists the active session ids in sorted order
func (m *Manager) IDs() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Len returns the number of active sessions
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// EvictIdle closes every session idle for longer than the idle timeout
// and returns how many were evicted
func (m *Manager) EvictIdle() int {
	cutoff := m.now().Add(-m.cfg.IdleTimeout)

	m.mu.Lock()
	var evicted []*Session
	for id, s := range m.sessions {
		if s.LastActive().Before(cutoff) {
			evicted = append(evicted, s)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	for _, s := range evicted {
		s.Close()
		log.Printf("[session] evicted idle session %s", s.ID())
	}
	return len(evicted)
}

// Run evicts idle sessions every interval until ctx is done
func (m *Manager) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.EvictIdle()
		}
	}
}

// CloseAll closes and removes every session
func (m *Manager) CloseAll() {
	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()

	for _, s := range sessions {
		s.Close()
	}
}
