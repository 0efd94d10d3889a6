package session

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"
)

// Info is a snapshot of a streaming session.
type Info struct {
	ID        string    `json:"id"`
	Input     string    `json:"input"`
	StartedAt time.Time `json:"started_at"`
}

// Manager keeps track of the sessions currently streaming. It is safe for
// concurrent use.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]Info
	releases map[string]func()
	wg       sync.WaitGroup
}

// NewManager creates an empty Manager.
func NewManager() *Manager {
	return &Manager{
		sessions: make(map[string]Info),
		releases: make(map[string]func()),
	}
}

// Hooks returns session hooks tracking every session from start to close.
func (m *Manager) Hooks() Hooks {
	return Hooks{
		OnStart: func(_ context.Context, e *Event) {
			release := m.Track(e.SessionID, e.Input)
			m.mu.Lock()
			m.releases[e.SessionID] = release
			m.mu.Unlock()
		},
		OnClose: func(_ context.Context, e *Event) {
			m.mu.Lock()
			release, ok := m.releases[e.SessionID]
			delete(m.releases, e.SessionID)
			m.mu.Unlock()
			if ok {
				release()
			}
		},
	}
}

// Track registers a session until the returned release func is called.
// Calling release more than once has no effect.
func (m *Manager) Track(id, input string) (release func()) {
	m.mu.Lock()
	m.sessions[id] = Info{ID: id, Input: input, StartedAt: time.Now()}
	m.mu.Unlock()
	m.wg.Add(1)

	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			delete(m.sessions, id)
			m.mu.Unlock()
			m.wg.Done()
		})
	}
}

// Len returns the number of active sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Active returns the active sessions, oldest first.
func (m *Manager) Active() []Info {
	m.mu.Lock()
	list := make([]Info, 0, len(m.sessions))
	for _, info := range m.sessions {
		list = append(list, info)
	}
	m.mu.Unlock()

	slices.SortFunc(list, func(a, b Info) int {
		if c := a.StartedAt.Compare(b.StartedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return list
}

// Wait blocks until every tracked session is released.
func (m *Manager) Wait() {
	m.wg.Wait()
}
