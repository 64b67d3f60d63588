package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Memory is a mutex-guarded in-process session manager for dev and tests.
type Memory struct {
	mu       sync.Mutex
	sessions map[string]Session
}

// NewMemory returns an empty in-memory manager.
func NewMemory() *Memory {
	return &Memory{sessions: make(map[string]Session)}
}

// Create opens a dashboard session for the employee.
func (m *Memory) Create(_ context.Context, employeeID string) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now().UTC()
	s := Session{
		ID:         uuid.NewString(),
		View:       ViewDashboard,
		EmployeeID: employeeID,
		Epoch:      1,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	m.sessions[s.ID] = s
	return s, nil
}

// Get returns a session by id.
func (m *Memory) Get(_ context.Context, id string) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return Session{}, ErrNotFound
	}
	return s, nil
}

// Logout resets the session to the auth view and bumps the epoch.
func (m *Memory) Logout(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil
	}
	s.View = ViewAuth
	s.EmployeeID = ""
	s.Epoch++
	s.UpdatedAt = time.Now().UTC()
	m.sessions[id] = s
	return nil
}

// Epoch returns the session's current epoch.
func (m *Memory) Epoch(_ context.Context, id string) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return 0, ErrNotFound
	}
	return s.Epoch, nil
}

// Healthy always succeeds.
func (m *Memory) Healthy(context.Context) bool { return true }
