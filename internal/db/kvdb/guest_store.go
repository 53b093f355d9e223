// Copyright (C) 2025 the wedding-website maintainers
// See root-dir/LICENSE for more information

package kvdb

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/ssiatkowski/wedding-website/internal/db"
	"github.com/ssiatkowski/wedding-website/internal/model"
)

const bucketGuest = "guest_store"

func NewGuestStore(bdb *bolt.DB) (*GuestStore, error) {
	return &GuestStore{db: bdb}, bdb.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketGuest))
		return err
	})
}

type GuestStore struct {
	db *bolt.DB
}

func (g *GuestStore) CreateGuest(ctx context.Context, guest *model.Guest) (uuid.UUID, error) {
	var span trace.Span
	_, span = tracer.Start(ctx, "CreateGuest")
	defer span.End()

	if guest.ID == uuid.Nil {
		guest.ID = uuid.New()
	}
	now := time.Now()
	guest.CreatedAt = &now

	return guest.ID, g.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(bucketGuest))
		if bucket.Get(guest.ID[:]) != nil {
			err := fmt.Errorf("guest %s already exists", guest.ID)
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return err
		}
		j, err := json.Marshal(guest)
		if err != nil {
			return err
		}
		return bucket.Put(guest.ID[:], j)
	})
}

func (g *GuestStore) UpdateGuest(ctx context.Context, guest *model.Guest) error {
	var span trace.Span
	_, span = tracer.Start(ctx, "UpdateGuest")
	defer span.End()

	if guest.ID == uuid.Nil {
		err := fmt.Errorf("guest ID is required for updating")
		span.RecordError(err)
		return err
	}

	now := time.Now()
	guest.UpdatedAt = &now

	return g.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(bucketGuest))
		if bucket.Get(guest.ID[:]) == nil {
			span.RecordError(db.ErrNotFound)
			return db.ErrNotFound
		}
		j, err := json.Marshal(guest)
		if err != nil {
			return err
		}
		return bucket.Put(guest.ID[:], j)
	})
}

func (g *GuestStore) ListGuests(ctx context.Context) ([]*model.Guest, error) {
	var span trace.Span
	_, span = tracer.Start(ctx, "ListGuests")
	defer span.End()

	span.AddEvent("View bucket")
	var guests []*model.Guest
	return guests, g.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(bucketGuest))
		return bucket.ForEach(func(_, v []byte) error {
			guest := &model.Guest{}
			if err := json.Unmarshal(v, guest); err != nil {
				return err
			}
			guests = append(guests, guest)
			return nil
		})
	})
}

// ListGuestsByGroup is the equality-filtered query of the document store:
// it scans the collection and keeps guests with a matching group id.
func (g *GuestStore) ListGuestsByGroup(ctx context.Context, groupID string) ([]*model.Guest, error) {
	var span trace.Span
	ctx, span = tracer.Start(ctx, "ListGuestsByGroup")
	defer span.End()

	guests, err := g.ListGuests(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	members := guests[:0]
	for _, guest := range guests {
		if guest.GroupID == groupID {
			members = append(members, guest)
		}
	}
	return members, nil
}

func (g *GuestStore) GetGuestByID(ctx context.Context, id uuid.UUID) (*model.Guest, error) {
	var span trace.Span
	_, span = tracer.Start(ctx, "GetGuestByID")
	defer span.End()

	guest := &model.Guest{}
	return guest, g.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(bucketGuest))
		res := bucket.Get(id[:])
		if res == nil {
			span.RecordError(db.ErrNotFound)
			return db.ErrNotFound
		}
		return json.Unmarshal(res, guest)
	})
}

func (g *GuestStore) DeleteGuest(ctx context.Context, id uuid.UUID) error {
	var span trace.Span
	_, span = tracer.Start(ctx, "DeleteGuest")
	defer span.End()

	return g.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(bucketGuest))
		if bucket.Get(id[:]) == nil {
			span.RecordError(db.ErrNotFound)
			return db.ErrNotFound
		}
		return bucket.Delete(id[:])
	})
}
