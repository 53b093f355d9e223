// Copyright (C) 2025 the wedding-website maintainers
// See root-dir/LICENSE for more information

package db

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/ssiatkowski/wedding-website/internal/model"
)

// ErrNotFound is returned by stores when the requested document does not
// exist. Handlers map it to "not logged in" or a 404 depending on context.
var ErrNotFound = errors.New("document not found")

type GuestStore interface {
	CreateGuest(context.Context, *model.Guest) (uuid.UUID, error)
	UpdateGuest(context.Context, *model.Guest) error
	ListGuests(context.Context) ([]*model.Guest, error)
	ListGuestsByGroup(context.Context, string) ([]*model.Guest, error)
	GetGuestByID(context.Context, uuid.UUID) (*model.Guest, error)
	DeleteGuest(context.Context, uuid.UUID) error
}
