// Copyright (C) 2025 the wedding-website maintainers
// See root-dir/LICENSE for more information

package kvdb

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	bolt "go.etcd.io/bbolt"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/ssiatkowski/wedding-website/internal/db"
	"github.com/ssiatkowski/wedding-website/internal/model"
)

const bucketEvent = "event_store"

func NewEventStore(bdb *bolt.DB) (*EventStore, error) {
	return &EventStore{db: bdb}, bdb.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketEvent))
		return err
	})
}

type EventStore struct {
	db *bolt.DB
}

func (e *EventStore) GetEvent(ctx context.Context, id model.EventID) (*model.Event, error) {
	var span trace.Span
	_, span = tracer.Start(ctx, "GetEvent")
	defer span.End()

	span.AddEvent("View bucket")
	event := &model.Event{}
	return event, e.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(bucketEvent))
		res := bucket.Get([]byte(id))
		if res == nil {
			span.RecordError(db.ErrNotFound)
			span.SetStatus(codes.Error, db.ErrNotFound.Error())
			return db.ErrNotFound
		}
		return json.Unmarshal(res, event)
	})
}

// ListEvents returns all events ordered by start time.
func (e *EventStore) ListEvents(ctx context.Context) ([]*model.Event, error) {
	var span trace.Span
	_, span = tracer.Start(ctx, "ListEvents")
	defer span.End()

	var events []*model.Event
	err := e.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(bucketEvent))
		return bucket.ForEach(func(_, v []byte) error {
			event := &model.Event{}
			if err := json.Unmarshal(v, event); err != nil {
				return err
			}
			events = append(events, event)
			return nil
		})
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	sort.Slice(events, func(i, j int) bool { return events[i].Start.Before(events[j].Start) })
	return events, nil
}

func (e *EventStore) UpdateEvent(ctx context.Context, in *model.Event) error {
	var span trace.Span
	_, span = tracer.Start(ctx, "UpdateEvent")
	defer span.End()

	now := time.Now()
	in.UpdatedAt = &now

	return e.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(bucketEvent))
		j, err := json.Marshal(in)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return err
		}
		return bucket.Put([]byte(in.ID), j)
	})
}
