package db

import (
	"context"

	"github.com/google/uuid"

	"github.com/ssiatkowski/wedding-website/internal/model"
)

type RSVPStore interface {
	GetRSVP(ctx context.Context, userID uuid.UUID, eventID model.EventID) (*model.RSVP, error)
	ListRSVPs(context.Context) ([]*model.RSVP, error)
	ListRSVPsByUsers(context.Context, []uuid.UUID) ([]*model.RSVP, error)
}

type ChangeLogStore interface {
	ListChanges(context.Context) ([]*model.RSVPChange, error)
}
