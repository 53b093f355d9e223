// Copyright (C) 2025 the wedding-website maintainers
// See root-dir/LICENSE for more information

package db

import (
	"context"

	"github.com/ssiatkowski/wedding-website/internal/model"
)

type EventStore interface {
	GetEvent(context.Context, model.EventID) (*model.Event, error)
	ListEvents(context.Context) ([]*model.Event, error)
	UpdateEvent(context.Context, *model.Event) error
}
