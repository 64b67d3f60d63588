package store

import (
	"context"
	"errors"

	"attendanceportal/internal/model"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("not_found")

// Store is the persistence abstraction consumed by the portal. Postgres
// backs production; the memory implementation backs dev and tests.
type Store interface {
	// FindEmployee returns the employee whose id, name and department all
	// exactly equal the supplied values, or ErrNotFound.
	FindEmployee(ctx context.Context, id, name, department string) (model.Employee, error)

	// GetEmployee returns an employee by id alone, or ErrNotFound.
	GetEmployee(ctx context.Context, id string) (model.Employee, error)

	// InsertEmployee persists a new employee and returns the row as stored.
	InsertEmployee(ctx context.Context, e model.Employee) (model.Employee, error)

	// ListAttendance returns all attendance records for an employee ordered
	// by date descending. Ties in date keep store order.
	ListAttendance(ctx context.Context, employeeID string) ([]model.AttendanceRecord, error)

	// Ping reports backend reachability for health checks.
	Ping(ctx context.Context) error
}
