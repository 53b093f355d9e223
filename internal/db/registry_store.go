package db

import (
	"context"

	"github.com/google/uuid"

	"github.com/ssiatkowski/wedding-website/internal/model"
)

type RegistryStore interface {
	GetAllocation(context.Context, uuid.UUID) (*model.Allocation, error)
	PutAllocation(context.Context, *model.Allocation) error
}
