package portal

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"attendanceportal/internal/model"
	"attendanceportal/internal/store"
	"attendanceportal/internal/store/memory"
)

// spyStore counts calls so tests can assert the fail-fast and
// at-most-one-write contracts.
type spyStore struct {
	inner   store.Store
	finds   int
	gets    int
	inserts int
	lists   int
}

func (s *spyStore) FindEmployee(ctx context.Context, id, name, department string) (model.Employee, error) {
	s.finds++
	return s.inner.FindEmployee(ctx, id, name, department)
}

func (s *spyStore) GetEmployee(ctx context.Context, id string) (model.Employee, error) {
	s.gets++
	return s.inner.GetEmployee(ctx, id)
}

func (s *spyStore) InsertEmployee(ctx context.Context, e model.Employee) (model.Employee, error) {
	s.inserts++
	return s.inner.InsertEmployee(ctx, e)
}

func (s *spyStore) ListAttendance(ctx context.Context, employeeID string) ([]model.AttendanceRecord, error) {
	s.lists++
	return s.inner.ListAttendance(ctx, employeeID)
}

func (s *spyStore) Ping(ctx context.Context) error { return s.inner.Ping(ctx) }

func (s *spyStore) total() int { return s.finds + s.gets + s.inserts + s.lists }

// brokenStore fails every operation with a backend error.
type brokenStore struct{}

var errBackend = errors.New("connection refused")

func (brokenStore) FindEmployee(context.Context, string, string, string) (model.Employee, error) {
	return model.Employee{}, errBackend
}
func (brokenStore) GetEmployee(context.Context, string) (model.Employee, error) {
	return model.Employee{}, errBackend
}
func (brokenStore) InsertEmployee(context.Context, model.Employee) (model.Employee, error) {
	return model.Employee{}, errBackend
}
func (brokenStore) ListAttendance(context.Context, string) ([]model.AttendanceRecord, error) {
	return nil, errBackend
}
func (brokenStore) Ping(context.Context) error { return errBackend }

func day(s string) time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return t
}

func TestResolveIdentityValidation(t *testing.T) {
	ctx := context.Background()
	spy := &spyStore{inner: memory.NewStore()}
	svc := NewService(spy)

	cases := []struct{ id, name, dept string }{
		{"", "Alice", "Eng"},
		{"E1", "", "Eng"},
		{"E1", "Alice", ""},
		{"   ", "Alice", "Eng"},
		{"E1", "\t", "Eng"},
		{"", "", ""},
	}
	for _, tc := range cases {
		_, err := svc.ResolveIdentity(ctx, tc.id, tc.name, tc.dept)
		assert.ErrorIs(t, err, ErrMissingFields)
	}
	assert.Zero(t, spy.total(), "validation failures must not reach the store")
}

func TestResolveIdentityExistingMatch(t *testing.T) {
	ctx := context.Background()
	mem := memory.NewStore()
	seeded, err := mem.InsertEmployee(ctx, model.Employee{
		ID: "E1", Name: "Alice", Department: "Eng", QRCodeURL: "E1",
	})
	assert.NoError(t, err)

	spy := &spyStore{inner: mem}
	svc := NewService(spy)

	got, err := svc.ResolveIdentity(ctx, "E1", "Alice", "Eng")
	assert.NoError(t, err)
	assert.Equal(t, seeded, got)
	assert.Zero(t, spy.inserts, "a matched triple must not insert")
}

func TestResolveIdentityMismatchedFieldsRegisterSeparately(t *testing.T) {
	// Same id but a different name is not a match; the resolver goes down
	// the creation path and the store's uniqueness constraint decides.
	ctx := context.Background()
	mem := memory.NewStore()
	_, err := mem.InsertEmployee(ctx, model.Employee{
		ID: "E1", Name: "Alice", Department: "Eng", QRCodeURL: "E1",
	})
	assert.NoError(t, err)

	svc := NewService(mem)
	_, err = svc.ResolveIdentity(ctx, "E1", "Alicia", "Eng")
	assert.ErrorIs(t, err, ErrStoreUnavailable)
}

func TestResolveIdentityRegisters(t *testing.T) {
	ctx := context.Background()
	spy := &spyStore{inner: memory.NewStore()}
	svc := NewService(spy)

	created, err := svc.ResolveIdentity(ctx, "E1", "Alice", "Eng")
	assert.NoError(t, err)
	assert.Equal(t, 1, spy.inserts)
	assert.Equal(t, "E1", created.ID)
	assert.Equal(t, "E1", created.QRCodeURL, "qr payload is the id at creation")
	assert.False(t, created.CreatedAt.IsZero(), "the persisted row is returned")
}

func TestResolveIdentityStoreFailureIsGeneric(t *testing.T) {
	svc := NewService(brokenStore{})
	_, err := svc.ResolveIdentity(context.Background(), "E1", "Alice", "Eng")
	assert.ErrorIs(t, err, ErrStoreUnavailable)
	assert.NotContains(t, err.Error(), "connection refused")
}

func TestLoadHistorySortedNewestFirst(t *testing.T) {
	ctx := context.Background()
	mem := memory.NewStore()
	mem.SeedAttendance(model.AttendanceRecord{ID: "a", EmployeeID: "E1", Date: day("2024-05-01"), Status: model.StatusPresent})
	mem.SeedAttendance(model.AttendanceRecord{ID: "b", EmployeeID: "E1", Date: day("2024-05-10"), Status: model.StatusAbsent})

	svc := NewService(mem)
	recs := svc.LoadHistory(ctx, "E1")
	assert.Len(t, recs, 2)
	assert.Equal(t, "b", recs[0].ID, "2024-05-10 sorts before 2024-05-01")
	assert.Equal(t, "a", recs[1].ID)
}

func TestLoadHistoryFailureIndistinguishableFromEmpty(t *testing.T) {
	ctx := context.Background()

	fromError := NewService(brokenStore{}).LoadHistory(ctx, "E1")
	fromEmpty := NewService(memory.NewStore()).LoadHistory(ctx, "E1")

	assert.Empty(t, fromError)
	assert.Empty(t, fromEmpty)
}
