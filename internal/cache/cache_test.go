package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssiatkowski/wedding-website/internal/model"
)

type countingGuestStore struct {
	lists int
	err   error
}

func (c *countingGuestStore) CreateGuest(context.Context, *model.Guest) (uuid.UUID, error) {
	return uuid.Nil, nil
}
func (c *countingGuestStore) UpdateGuest(context.Context, *model.Guest) error { return nil }
func (c *countingGuestStore) ListGuests(context.Context) ([]*model.Guest, error) {
	c.lists++
	if c.err != nil {
		return nil, c.err
	}
	return []*model.Guest{{FirstName: "Ada"}}, nil
}
func (c *countingGuestStore) ListGuestsByGroup(context.Context, string) ([]*model.Guest, error) {
	return nil, nil
}
func (c *countingGuestStore) GetGuestByID(context.Context, uuid.UUID) (*model.Guest, error) {
	return nil, nil
}
func (c *countingGuestStore) DeleteGuest(context.Context, uuid.UUID) error { return nil }

type staticEventStore struct{}

func (staticEventStore) GetEvent(context.Context, model.EventID) (*model.Event, error) {
	return nil, nil
}
func (staticEventStore) ListEvents(context.Context) ([]*model.Event, error) {
	return []*model.Event{{ID: model.EventMainWedding}}, nil
}
func (staticEventStore) UpdateEvent(context.Context, *model.Event) error { return nil }

func TestSnapshots_ServesWithinTTL(t *testing.T) {
	ctx := context.Background()
	guests := &countingGuestStore{}
	s := NewSnapshots(guests, staticEventStore{}, time.Minute)

	first, err := s.Get(ctx)
	require.NoError(t, err)
	require.Len(t, first.Guests, 1)
	require.Equal(t, 1, guests.lists)

	second, err := s.Get(ctx)
	require.NoError(t, err)
	assert.Same(t, first, second, "within the TTL the same snapshot is served")
	assert.Equal(t, 1, guests.lists)
}

func TestSnapshots_ExpiresAfterTTL(t *testing.T) {
	ctx := context.Background()
	guests := &countingGuestStore{}
	s := NewSnapshots(guests, staticEventStore{}, time.Minute)

	now := time.Now()
	s.now = func() time.Time { return now }

	_, err := s.Get(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, guests.lists)

	now = now.Add(2 * time.Minute)
	_, err = s.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, guests.lists, "a stale snapshot triggers a refetch")
}

func TestSnapshots_InvalidateForcesRefetch(t *testing.T) {
	ctx := context.Background()
	guests := &countingGuestStore{}
	s := NewSnapshots(guests, staticEventStore{}, time.Hour)

	_, err := s.Get(ctx)
	require.NoError(t, err)

	s.Invalidate()

	_, err = s.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, guests.lists)
}

func TestSnapshots_FailedRefreshServesLastKnownGood(t *testing.T) {
	ctx := context.Background()
	guests := &countingGuestStore{}
	s := NewSnapshots(guests, staticEventStore{}, time.Hour)

	first, err := s.Get(ctx)
	require.NoError(t, err)

	s.Invalidate()
	guests.err = errors.New("store unavailable")

	got, err := s.Get(ctx)
	require.NoError(t, err, "a failed refresh must not surface while stale data exists")
	assert.Equal(t, first.Guests, got.Guests)

	// no snapshot at all: then the error does surface
	empty := NewSnapshots(&countingGuestStore{err: errors.New("down")}, staticEventStore{}, time.Hour)
	_, err = empty.Get(ctx)
	assert.Error(t, err)
}
