// Copyright (C) 2025 the wedding-website maintainers
// See root-dir/LICENSE for more information

package registry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/ssiatkowski/wedding-website/internal/db"
	"github.com/ssiatkowski/wedding-website/internal/model"
)

var tracer = otel.GetTracerProvider().Tracer("github.com/ssiatkowski/wedding-website/internal/registry")

// ErrNoChanges reports that the submitted allocation is identical to the
// stored one and no write was performed.
var ErrNoChanges = errors.New("allocation unchanged")

func NewService(store db.RegistryStore) *Service {
	return &Service{store: store}
}

type Service struct {
	store db.RegistryStore
}

// Load returns the guest's stored allocation, or nil if they have not
// confirmed one yet.
func (s *Service) Load(ctx context.Context, userID uuid.UUID) (*model.Allocation, error) {
	var span trace.Span
	ctx, span = tracer.Start(ctx, "Service.Load")
	defer span.End()

	alloc, err := s.store.GetAllocation(ctx, userID)
	if errors.Is(err, db.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return alloc, nil
}

// Submit persists the current form state as one keyed overwrite with a
// fresh timestamp. Identical state skips the write and returns
// ErrNoChanges, so a double click never produces a redundant document.
func (s *Service) Submit(ctx context.Context, userID uuid.UUID, a *Allocator) (*model.Allocation, error) {
	var span trace.Span
	ctx, span = tracer.Start(ctx, "Service.Submit")
	defer span.End()

	alloc := a.Snapshot(userID)

	stored, err := s.Load(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load stored allocation: %w", err)
	}
	if stored != nil && stored.Equal(alloc) {
		span.AddEvent("allocation unchanged, skipping write")
		return stored, ErrNoChanges
	}

	alloc.UpdatedAt = time.Now()
	if err := s.store.PutAllocation(ctx, alloc); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return alloc, nil
}
