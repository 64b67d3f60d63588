// Package portal implements the identity resolver and attendance history
// presenter behind the portal API.
package portal

import (
	"context"
	"errors"
	"log"
	"strings"

	"attendanceportal/internal/metrics"
	"attendanceportal/internal/model"
	"attendanceportal/internal/store"
)

var (
	// ErrMissingFields is returned before any store access when a required
	// identity field is empty after trimming.
	ErrMissingFields = errors.New("all fields are required")

	// ErrStoreUnavailable is the generic failure shown to users. The
	// underlying store error is logged, never surfaced.
	ErrStoreUnavailable = errors.New("something went wrong, please try again")
)

// Service coordinates identity resolution and history retrieval.
type Service struct {
	store store.Store
}

// NewService creates a service backed by the given store.
func NewService(st store.Store) *Service {
	return &Service{store: st}
}

// ResolveIdentity matches the submitted (id, name, department) triple to an
// existing employee or registers a new one. An existing match is returned
// unchanged; on the creation path the QR payload is set to the id and the
// row returned is the one the store persisted. At most one read and one
// conditional write reach the store.
func (s *Service) ResolveIdentity(ctx context.Context, id, name, department string) (model.Employee, error) {
	// Whitespace-only fields fail validation, but the values queried and
	// stored are the ones as submitted.
	if strings.TrimSpace(id) == "" || strings.TrimSpace(name) == "" || strings.TrimSpace(department) == "" {
		metrics.IdentityResolutions.WithLabelValues("rejected").Inc()
		return model.Employee{}, ErrMissingFields
	}

	existing, err := s.store.FindEmployee(ctx, id, name, department)
	if err == nil {
		metrics.IdentityResolutions.WithLabelValues("matched").Inc()
		return existing, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		log.Printf("employee lookup failed: %v", err)
		metrics.IdentityResolutions.WithLabelValues("failed").Inc()
		return model.Employee{}, ErrStoreUnavailable
	}

	created, err := s.store.InsertEmployee(ctx, model.Employee{
		ID:         id,
		Name:       name,
		Department: department,
		QRCodeURL:  id,
	})
	if err != nil {
		log.Printf("employee insert failed: %v", err)
		metrics.IdentityResolutions.WithLabelValues("failed").Inc()
		return model.Employee{}, ErrStoreUnavailable
	}
	metrics.IdentityResolutions.WithLabelValues("registered").Inc()
	return created, nil
}

// LoadHistory returns the employee's attendance records newest first. A
// store failure is downgraded to an empty history: the record is logged
// and the caller cannot tell failure from no rows.
func (s *Service) LoadHistory(ctx context.Context, employeeID string) []model.AttendanceRecord {
	recs, err := s.store.ListAttendance(ctx, employeeID)
	if err != nil {
		log.Printf("attendance history load failed for %s: %v", employeeID, err)
		metrics.HistoryLoads.WithLabelValues("error").Inc()
		return nil
	}
	metrics.HistoryLoads.WithLabelValues("ok").Inc()
	return recs
}
