// Copyright (C) 2025 the wedding-website maintainers
// See root-dir/LICENSE for more information

// Package cache holds a process-wide snapshot of the guest and event
// collections behind a single last-fetch timestamp. The whole snapshot
// expires at once after a fixed duration, and any RSVP write invalidates
// it wholesale; there is no per-key eviction.
package cache

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/ssiatkowski/wedding-website/internal/db"
	"github.com/ssiatkowski/wedding-website/internal/model"
)

var tracer = otel.GetTracerProvider().Tracer("github.com/ssiatkowski/wedding-website/internal/cache")

const DefaultTTL = 5 * time.Minute

type Snapshot struct {
	Guests    []*model.Guest
	Events    []*model.Event
	FetchedAt time.Time
}

func NewSnapshots(gStore db.GuestStore, eStore db.EventStore, ttl time.Duration) *Snapshots {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Snapshots{
		gStore: gStore,
		eStore: eStore,
		ttl:    ttl,
		now:    time.Now,
	}
}

type Snapshots struct {
	gStore db.GuestStore
	eStore db.EventStore
	ttl    time.Duration

	mu         sync.Mutex
	current    *Snapshot
	refreshing bool

	now func() time.Time // swapped out in tests
}

// Get returns the cached snapshot, refreshing it when the last fetch is
// older than the TTL. While another caller is refreshing, or when the
// refresh itself fails, the last-known-good snapshot is returned instead
// of blocking or erroring.
func (s *Snapshots) Get(ctx context.Context) (*Snapshot, error) {
	var span trace.Span
	ctx, span = tracer.Start(ctx, "Snapshots.Get")
	defer span.End()

	s.mu.Lock()
	if s.current != nil && s.now().Sub(s.current.FetchedAt) < s.ttl {
		snap := s.current
		s.mu.Unlock()
		span.AddEvent("cache hit")
		return snap, nil
	}
	if s.refreshing && s.current != nil {
		snap := s.current
		s.mu.Unlock()
		span.AddEvent("refresh pending, serving last known good")
		return snap, nil
	}
	s.refreshing = true
	stale := s.current
	s.mu.Unlock()

	span.AddEvent("refresh")
	snap, err := s.fetch(ctx)

	s.mu.Lock()
	s.refreshing = false
	if err == nil {
		s.current = snap
	}
	s.mu.Unlock()

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		if stale != nil {
			return stale, nil
		}
		return nil, err
	}
	return snap, nil
}

// Invalidate expires the snapshot immediately. Called after every RSVP
// write so the next read sees fresh data.
func (s *Snapshots) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current != nil {
		s.current.FetchedAt = time.Time{}
	}
}

func (s *Snapshots) fetch(ctx context.Context) (*Snapshot, error) {
	guests, err := s.gStore.ListGuests(ctx)
	if err != nil {
		return nil, err
	}
	events, err := s.eStore.ListEvents(ctx)
	if err != nil {
		return nil, err
	}
	return &Snapshot{Guests: guests, Events: events, FetchedAt: s.now()}, nil
}
