package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"attendanceportal/internal/model"
	"attendanceportal/internal/store"
)

// Store is an in-memory implementation used for dev mode and tests. It
// mirrors the Postgres schema's constraint that employee ids are unique.
type Store struct {
	mu         sync.Mutex
	employees  map[string]model.Employee
	attendance map[string][]model.AttendanceRecord
}

// NewStore returns an empty in-memory store.
func NewStore() *Store {
	return &Store{
		employees:  make(map[string]model.Employee),
		attendance: make(map[string][]model.AttendanceRecord),
	}
}

// Ping always succeeds.
func (s *Store) Ping(context.Context) error { return nil }

// FindEmployee matches on all three identity fields.
func (s *Store) FindEmployee(_ context.Context, id, name, department string) (model.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.employees[id]
	if !ok || e.Name != name || e.Department != department {
		return model.Employee{}, store.ErrNotFound
	}
	return e, nil
}

// GetEmployee returns an employee by id.
func (s *Store) GetEmployee(_ context.Context, id string) (model.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.employees[id]
	if !ok {
		return model.Employee{}, store.ErrNotFound
	}
	return e, nil
}

// InsertEmployee persists a new employee, rejecting duplicate ids the way
// the employees primary key does.
func (s *Store) InsertEmployee(_ context.Context, e model.Employee) (model.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.employees[e.ID]; ok {
		return model.Employee{}, fmt.Errorf("employee %q already exists", e.ID)
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	s.employees[e.ID] = e
	return e, nil
}

// ListAttendance returns records newest first; equal dates keep insertion
// order.
func (s *Store) ListAttendance(_ context.Context, employeeID string) ([]model.AttendanceRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	recs := s.attendance[employeeID]
	out := make([]model.AttendanceRecord, len(recs))
	copy(out, recs)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})
	return out, nil
}

// SeedAttendance adds a record directly. Attendance is written outside the
// portal in production; this exists so dev mode and tests have history to
// show.
func (s *Store) SeedAttendance(rec model.AttendanceRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	s.attendance[rec.EmployeeID] = append(s.attendance[rec.EmployeeID], rec)
}
