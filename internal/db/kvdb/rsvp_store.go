// Copyright (C) 2025 the wedding-website maintainers
// See root-dir/LICENSE for more information

package kvdb

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/ssiatkowski/wedding-website/internal/db"
	"github.com/ssiatkowski/wedding-website/internal/model"
)

const (
	bucketRSVP      = "rsvp_store"
	bucketChangeLog = "rsvp_changelog"
)

func NewRSVPStore(bdb *bolt.DB) (*RSVPStore, error) {
	return &RSVPStore{db: bdb}, bdb.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists([]byte(bucketRSVP)); err != nil {
			return err
		}
		_, err := tx.CreateBucketIfNotExists([]byte(bucketChangeLog))
		return err
	})
}

type RSVPStore struct {
	db *bolt.DB
}

func (r *RSVPStore) GetRSVP(ctx context.Context, userID uuid.UUID, eventID model.EventID) (*model.RSVP, error) {
	var span trace.Span
	_, span = tracer.Start(ctx, "GetRSVP")
	defer span.End()

	rsvp := &model.RSVP{}
	return rsvp, r.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(bucketRSVP))
		res := bucket.Get([]byte(model.RSVPKey(userID, eventID)))
		if res == nil {
			span.RecordError(db.ErrNotFound)
			return db.ErrNotFound
		}
		return json.Unmarshal(res, rsvp)
	})
}

func (r *RSVPStore) ListRSVPs(ctx context.Context) ([]*model.RSVP, error) {
	var span trace.Span
	_, span = tracer.Start(ctx, "ListRSVPs")
	defer span.End()

	var rsvps []*model.RSVP
	return rsvps, r.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(bucketRSVP))
		return bucket.ForEach(func(_, v []byte) error {
			rsvp := &model.RSVP{}
			if err := json.Unmarshal(v, rsvp); err != nil {
				return err
			}
			rsvps = append(rsvps, rsvp)
			return nil
		})
	})
}

// ListRSVPsByUsers is the IN-filtered query used to pre-fill a group's
// checkboxes: it keeps records whose user id is in the given set.
func (r *RSVPStore) ListRSVPsByUsers(ctx context.Context, userIDs []uuid.UUID) ([]*model.RSVP, error) {
	var span trace.Span
	ctx, span = tracer.Start(ctx, "ListRSVPsByUsers")
	defer span.End()
	span.SetAttributes(attribute.Int("users", len(userIDs)))

	want := make(map[uuid.UUID]struct{}, len(userIDs))
	for _, id := range userIDs {
		want[id] = struct{}{}
	}

	rsvps, err := r.ListRSVPs(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	filtered := rsvps[:0]
	for _, rsvp := range rsvps {
		if _, ok := want[rsvp.UserID]; ok {
			filtered = append(filtered, rsvp)
		}
	}
	return filtered, nil
}

// ListChanges returns the attendance change log in insertion order.
func (r *RSVPStore) ListChanges(ctx context.Context) ([]*model.RSVPChange, error) {
	var span trace.Span
	_, span = tracer.Start(ctx, "ListChanges")
	defer span.End()

	var changes []*model.RSVPChange
	return changes, r.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(bucketChangeLog))
		return bucket.ForEach(func(_, v []byte) error {
			change := &model.RSVPChange{}
			if err := json.Unmarshal(v, change); err != nil {
				return err
			}
			changes = append(changes, change)
			return nil
		})
	})
}
