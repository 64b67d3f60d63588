package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCreateOpensDashboardSession(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	s, err := m.Create(ctx, "E1")
	assert.NoError(t, err)
	assert.NotEmpty(t, s.ID)
	assert.Equal(t, ViewDashboard, s.View)
	assert.Equal(t, "E1", s.EmployeeID)
	assert.Equal(t, uint64(1), s.Epoch)

	got, err := m.Get(ctx, s.ID)
	assert.NoError(t, err)
	assert.Equal(t, s, got)
}

func TestGetUnknownSession(t *testing.T) {
	m := NewMemory()
	_, err := m.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLogoutResetsAndBumpsEpoch(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	s, err := m.Create(ctx, "E1")
	assert.NoError(t, err)

	assert.NoError(t, m.Logout(ctx, s.ID))

	got, err := m.Get(ctx, s.ID)
	assert.NoError(t, err)
	assert.Equal(t, ViewAuth, got.View)
	assert.Empty(t, got.EmployeeID)
	assert.Equal(t, uint64(2), got.Epoch)

	// Repeated logout keeps bumping the epoch and stays in auth.
	assert.NoError(t, m.Logout(ctx, s.ID))
	epoch, err := m.Epoch(ctx, s.ID)
	assert.NoError(t, err)
	assert.Equal(t, uint64(3), epoch)
}

func TestLogoutUnknownSessionIsNoop(t *testing.T) {
	m := NewMemory()
	assert.NoError(t, m.Logout(context.Background(), "missing"))
}
