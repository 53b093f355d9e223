// Copyright (C) 2025 the wedding-website maintainers
// See root-dir/LICENSE for more information

package kvdb

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/ssiatkowski/wedding-website/internal/db"
	"github.com/ssiatkowski/wedding-website/internal/model"
)

// NewBatchWriter returns a writer that applies a WriteSet inside a single
// bbolt update transaction. Any failure rolls back the whole set.
func NewBatchWriter(bdb *bolt.DB) (*BatchWriter, error) {
	return &BatchWriter{db: bdb}, bdb.Update(func(tx *bolt.Tx) error {
		for _, name := range []string{bucketGuest, bucketRSVP, bucketChangeLog} {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return err
			}
		}
		return nil
	})
}

type BatchWriter struct {
	db *bolt.DB
}

func (b *BatchWriter) Apply(ctx context.Context, ws *model.WriteSet) error {
	var span trace.Span
	_, span = tracer.Start(ctx, "BatchWriter.Apply")
	defer span.End()
	span.SetAttributes(
		attribute.Int("guests.create", len(ws.CreateGuests)),
		attribute.Int("guests.merge", len(ws.MergeGuests)),
		attribute.Int("rsvps.put", len(ws.PutRSVPs)),
		attribute.Int("rsvps.delete", len(ws.DeleteRSVPs)),
		attribute.Int("changelog", len(ws.Changes)),
	)

	if ws.Empty() {
		return nil
	}

	now := time.Now()
	err := b.db.Update(func(tx *bolt.Tx) error {
		guests := tx.Bucket([]byte(bucketGuest))
		rsvps := tx.Bucket([]byte(bucketRSVP))
		changelog := tx.Bucket([]byte(bucketChangeLog))

		for _, guest := range ws.CreateGuests {
			if guest.IsPlusOne && guest.PlusOneOf != uuid.Nil {
				if err := noPlusOneFor(guests, guest.PlusOneOf); err != nil {
					return err
				}
			}
			if guest.ID == uuid.Nil {
				guest.ID = uuid.New()
			}
			guest.CreatedAt = &now
			j, err := json.Marshal(guest)
			if err != nil {
				return err
			}
			if err := guests.Put(guest.ID[:], j); err != nil {
				return err
			}
		}

		for _, merge := range ws.MergeGuests {
			res := guests.Get(merge.ID[:])
			if res == nil {
				return fmt.Errorf("merge guest %s: %w", merge.ID, db.ErrNotFound)
			}
			guest := &model.Guest{}
			if err := json.Unmarshal(res, guest); err != nil {
				return err
			}
			if merge.Allergies != nil {
				guest.Allergies = *merge.Allergies
			}
			if merge.HasResponded != nil {
				guest.HasResponded = *merge.HasResponded
			}
			guest.UpdatedAt = &now
			j, err := json.Marshal(guest)
			if err != nil {
				return err
			}
			if err := guests.Put(guest.ID[:], j); err != nil {
				return err
			}
		}

		for _, rsvp := range ws.PutRSVPs {
			j, err := json.Marshal(rsvp)
			if err != nil {
				return err
			}
			if err := rsvps.Put([]byte(rsvp.Key()), j); err != nil {
				return err
			}
		}

		for _, key := range ws.DeleteRSVPs {
			if err := rsvps.Delete([]byte(key)); err != nil {
				return err
			}
		}

		for _, change := range ws.Changes {
			if change.Timestamp.IsZero() {
				change.Timestamp = now
			}
			seq, err := changelog.NextSequence()
			if err != nil {
				return err
			}
			key := make([]byte, 8)
			binary.BigEndian.PutUint64(key, seq)
			j, err := json.Marshal(change)
			if err != nil {
				return err
			}
			if err := changelog.Put(key, j); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

// noPlusOneFor is the in-transaction precondition that keeps a double
// submission from creating two plus-one guests for the same inviter.
func noPlusOneFor(bucket *bolt.Bucket, inviter uuid.UUID) error {
	return bucket.ForEach(func(_, v []byte) error {
		existing := &model.Guest{}
		if err := json.Unmarshal(v, existing); err != nil {
			return err
		}
		if existing.IsPlusOne && existing.PlusOneOf == inviter {
			return db.ErrPlusOneExists
		}
		return nil
	})
}
