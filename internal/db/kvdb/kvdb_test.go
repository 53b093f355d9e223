package kvdb

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	bolt "go.etcd.io/bbolt"

	"github.com/ssiatkowski/wedding-website/internal/db"
	"github.com/ssiatkowski/wedding-website/internal/model"
)

func openTestDB(t *testing.T) *bolt.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	bdb, err := bolt.Open(path, 0600, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = bdb.Close() })
	return bdb
}

func TestGuestStore_CRUD(t *testing.T) {
	ctx := context.Background()
	store, err := NewGuestStore(openTestDB(t))
	require.NoError(t, err)

	id, err := store.CreateGuest(ctx, &model.Guest{
		FirstName: "Ada",
		LastName:  "Lovelace",
		GroupID:   "lovelace",
		Invited:   map[model.EventID]bool{model.EventMainWedding: true},
	})
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, id)

	guest, err := store.GetGuestByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Ada", guest.FirstName)
	assert.True(t, guest.InvitedTo(model.EventMainWedding))
	assert.False(t, guest.InvitedTo(model.EventChurch))

	guest.Allergies = "peanuts"
	require.NoError(t, store.UpdateGuest(ctx, guest))
	got, err := store.GetGuestByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "peanuts", got.Allergies)
	assert.NotNil(t, got.UpdatedAt)

	_, err = store.GetGuestByID(ctx, uuid.New())
	assert.ErrorIs(t, err, db.ErrNotFound)
}

func TestGuestStore_ListGuestsByGroup(t *testing.T) {
	ctx := context.Background()
	store, err := NewGuestStore(openTestDB(t))
	require.NoError(t, err)

	for _, g := range []*model.Guest{
		{FirstName: "Ada", GroupID: "lovelace"},
		{FirstName: "William", GroupID: "lovelace"},
		{FirstName: "Alan", GroupID: "turing"},
	} {
		_, err := store.CreateGuest(ctx, g)
		require.NoError(t, err)
	}

	members, err := store.ListGuestsByGroup(ctx, "lovelace")
	require.NoError(t, err)
	require.Len(t, members, 2)
	for _, m := range members {
		assert.Equal(t, "lovelace", m.GroupID)
	}
}

func TestRSVPStore_OverwriteNotAppend(t *testing.T) {
	ctx := context.Background()
	bdb := openTestDB(t)
	store, err := NewRSVPStore(bdb)
	require.NoError(t, err)
	batch, err := NewBatchWriter(bdb)
	require.NoError(t, err)

	userID := uuid.New()
	put := func(attending bool) {
		require.NoError(t, batch.Apply(ctx, &model.WriteSet{
			PutRSVPs: []*model.RSVP{{UserID: userID, EventID: model.EventChurch, Attending: attending}},
		}))
	}

	put(true)
	put(false)

	rsvps, err := store.ListRSVPs(ctx)
	require.NoError(t, err)
	require.Len(t, rsvps, 1, "same key must overwrite, never duplicate")
	assert.False(t, rsvps[0].Attending)
}

func TestBatchWriter_AllOrNothing(t *testing.T) {
	ctx := context.Background()
	bdb := openTestDB(t)
	guests, err := NewGuestStore(bdb)
	require.NoError(t, err)
	rsvps, err := NewRSVPStore(bdb)
	require.NoError(t, err)
	batch, err := NewBatchWriter(bdb)
	require.NoError(t, err)

	responded := true
	ws := &model.WriteSet{
		CreateGuests: []*model.Guest{{FirstName: "Plus", LastName: "One", GroupID: "g", IsPlusOne: true}},
		PutRSVPs:     []*model.RSVP{{UserID: uuid.New(), EventID: model.EventChurch, Attending: true}},
		// merge target does not exist, the whole batch must roll back
		MergeGuests: []model.GuestMerge{{ID: uuid.New(), HasResponded: &responded}},
	}
	err = batch.Apply(ctx, ws)
	require.ErrorIs(t, err, db.ErrNotFound)

	all, err := guests.ListGuests(ctx)
	require.NoError(t, err)
	assert.Empty(t, all, "no guest may be visible after a failed batch")

	rows, err := rsvps.ListRSVPs(ctx)
	require.NoError(t, err)
	assert.Empty(t, rows, "no rsvp may be visible after a failed batch")
}

func TestBatchWriter_MergeKeepsOtherFields(t *testing.T) {
	ctx := context.Background()
	bdb := openTestDB(t)
	guests, err := NewGuestStore(bdb)
	require.NoError(t, err)
	batch, err := NewBatchWriter(bdb)
	require.NoError(t, err)

	id, err := guests.CreateGuest(ctx, &model.Guest{
		FirstName: "Grace",
		GroupID:   "hopper",
		Invited:   map[model.EventID]bool{model.EventChurch: true},
	})
	require.NoError(t, err)

	note := "shellfish"
	require.NoError(t, batch.Apply(ctx, &model.WriteSet{
		MergeGuests: []model.GuestMerge{{ID: id, Allergies: &note}},
	}))

	got, err := guests.GetGuestByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "shellfish", got.Allergies)
	assert.Equal(t, "Grace", got.FirstName)
	assert.True(t, got.InvitedTo(model.EventChurch), "merge must not clobber invitation flags")
	assert.False(t, got.HasResponded)
}

func TestBatchWriter_PlusOnePrecondition(t *testing.T) {
	ctx := context.Background()
	bdb := openTestDB(t)
	guests, err := NewGuestStore(bdb)
	require.NoError(t, err)
	batch, err := NewBatchWriter(bdb)
	require.NoError(t, err)

	inviter := uuid.New()
	newPlusOne := func(first string) *model.WriteSet {
		return &model.WriteSet{
			CreateGuests: []*model.Guest{{
				FirstName: first,
				LastName:  "Companion",
				GroupID:   "g",
				IsPlusOne: true,
				PlusOneOf: inviter,
			}},
		}
	}

	require.NoError(t, batch.Apply(ctx, newPlusOne("First")))
	err = batch.Apply(ctx, newPlusOne("Second"))
	require.ErrorIs(t, err, db.ErrPlusOneExists)

	all, err := guests.ListGuests(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "First", all[0].FirstName)
}

func TestChangeLog_AppendOrder(t *testing.T) {
	ctx := context.Background()
	bdb := openTestDB(t)
	store, err := NewRSVPStore(bdb)
	require.NoError(t, err)
	batch, err := NewBatchWriter(bdb)
	require.NoError(t, err)

	userID := uuid.New()
	before := true
	after := false
	require.NoError(t, batch.Apply(ctx, &model.WriteSet{
		Changes: []*model.RSVPChange{
			{UserID: userID, EventID: model.EventChurch, Type: model.RSVPChangeCreated, After: &before},
			{UserID: userID, EventID: model.EventChurch, Type: model.RSVPChangeUpdated, Before: &before, After: &after},
		},
	}))

	changes, err := store.ListChanges(ctx)
	require.NoError(t, err)
	require.Len(t, changes, 2)
	assert.Equal(t, model.RSVPChangeCreated, changes[0].Type)
	assert.Equal(t, model.RSVPChangeUpdated, changes[1].Type)
	assert.False(t, changes[0].Timestamp.IsZero())
}
