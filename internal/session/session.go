// Package session tracks per-user portal sessions: the current view, the
// resolved employee, and an epoch counter that fences off late-arriving
// async results after logout.
package session

import (
	"context"
	"errors"
	"time"
)

// Views of the two-screen portal flow.
const (
	ViewAuth      = "auth"
	ViewDashboard = "dashboard"
)

// ErrNotFound is returned for unknown or expired session ids.
var ErrNotFound = errors.New("session_not_found")

// Session is the server-side session record. Invariant: View is
// ViewDashboard exactly when EmployeeID is non-empty.
type Session struct {
	ID         string    `json:"id"`
	View       string    `json:"view"`
	EmployeeID string    `json:"employee_id"`
	Epoch      uint64    `json:"epoch"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Manager is the session backend abstraction. Redis backs production;
// the memory implementation backs dev and tests.
type Manager interface {
	// Create opens a new session in the dashboard view for a resolved
	// employee, starting at epoch 1.
	Create(ctx context.Context, employeeID string) (Session, error)

	// Get returns a session by id or ErrNotFound.
	Get(ctx context.Context, id string) (Session, error)

	// Logout resets a session to the auth view, clears the employee and
	// bumps the epoch. Logging out an unknown session is not an error.
	Logout(ctx context.Context, id string) error

	// Epoch returns the session's current epoch, or ErrNotFound.
	Epoch(ctx context.Context, id string) (uint64, error)

	// Healthy reports backend reachability.
	Healthy(ctx context.Context) bool
}
