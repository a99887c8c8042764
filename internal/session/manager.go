package session

import (
	"log/slog"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/google/uuid"

	"github.com/javonjax/OpenAQ-App/internal/airquality"
)

// Session pairs an engine with its identity and activity timestamp.
type Session struct {
	ID     string
	Engine *Engine

	// lastActive is guarded by the manager's mutex.
	lastActive time.Time
}

// Manager tracks live sessions. All sessions share the two read-only
// datasets; each gets its own RecentSource so throttle and breaker state
// stay per session.
type Manager struct {
	mu        sync.RWMutex
	sessions  map[string]*Session
	datasets  map[airquality.PollutantKind]*airquality.Dataset
	newSource func() RecentSource
	ttl       time.Duration
	scheduler *gocron.Scheduler
	logger    *slog.Logger
}

// NewManager creates a Manager. newSource is called once per session.
func NewManager(datasets map[airquality.PollutantKind]*airquality.Dataset, newSource func() RecentSource, ttl time.Duration, logger *slog.Logger) *Manager {
	return &Manager{
		sessions:  make(map[string]*Session),
		datasets:  datasets,
		newSource: newSource,
		ttl:       ttl,
		logger:    logger,
	}
}

// Create registers a new session with default selection state.
func (m *Manager) Create() *Session {
	id := uuid.NewString()
	s := &Session{
		ID:         id,
		Engine:     NewEngine(m.datasets, m.newSource(), m.logger.With("session", id)),
		lastActive: time.Now(),
	}

	m.mu.Lock()
	m.sessions[id] = s
	m.mu.Unlock()

	return s
}

// Get returns a live session and marks it active.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, false
	}
	s.lastActive = time.Now()
	return s, true
}

// Delete removes a session and cancels any in-flight work it owns.
func (m *Manager) Delete(id string) {
	m.mu.Lock()
	s, ok := m.sessions[id]
	if ok {
		delete(m.sessions, id)
	}
	m.mu.Unlock()

	if ok {
		s.Engine.Close()
	}
}

// Len reports the number of live sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// StartSweeper schedules periodic removal of idle sessions.
func (m *Manager) StartSweeper(interval time.Duration) error {
	seconds := int(interval.Seconds())
	if seconds <= 0 {
		seconds = 60
	}

	m.scheduler = gocron.NewScheduler(time.UTC)
	if _, err := m.scheduler.Every(seconds).Seconds().Do(m.sweep); err != nil {
		return err
	}
	m.scheduler.StartAsync()
	return nil
}

// Stop halts the sweeper.
func (m *Manager) Stop() {
	if m.scheduler != nil {
		m.scheduler.Stop()
	}
}

func (m *Manager) sweep() {
	cutoff := time.Now().Add(-m.ttl)

	m.mu.Lock()
	var expired []*Session
	for id, s := range m.sessions {
		if s.lastActive.Before(cutoff) {
			expired = append(expired, s)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	for _, s := range expired {
		s.Engine.Close()
	}
	if len(expired) > 0 {
		m.logger.Info("swept idle sessions", "count", len(expired))
	}
}
