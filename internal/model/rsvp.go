// Copyright (C) 2025 the wedding-website maintainers
// See root-dir/LICENSE for more information

package model

import (
	"time"

	"github.com/google/uuid"
)

// RSVP is the attendance decision of one guest for one event. There is at
// most one record per (guest, event) pair; a submission overwrites it.
type RSVP struct {
	UserID    uuid.UUID `json:"user_id"`
	EventID   EventID   `json:"event_id"`
	Attending bool      `json:"attending"`
}

// Key returns the composite storage key `<guestID>_<eventID>`.
func (r *RSVP) Key() string {
	return RSVPKey(r.UserID, r.EventID)
}

func RSVPKey(userID uuid.UUID, eventID EventID) string {
	return userID.String() + "_" + string(eventID)
}

type RSVPChangeType string

const (
	RSVPChangeCreated RSVPChangeType = "created"
	RSVPChangeUpdated RSVPChangeType = "updated"
	RSVPChangeDeleted RSVPChangeType = "deleted"
)

// RSVPChange is one entry of the attendance change log. Entries are only
// written when the attending value actually changed.
type RSVPChange struct {
	Timestamp time.Time      `json:"timestamp"`
	UserID    uuid.UUID      `json:"user_id"`
	EventID   EventID        `json:"event_id"`
	Type      RSVPChangeType `json:"type"`
	Before    *bool          `json:"before"`
	After     *bool          `json:"after"`
}
