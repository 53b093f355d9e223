// Copyright (C) 2025 the wedding-website maintainers
// See root-dir/LICENSE for more information

package model

import "github.com/google/uuid"

// GuestMerge is a partial guest update. Only non-nil fields are applied so
// a merge never clobbers invitation flags or names written by someone else.
type GuestMerge struct {
	ID           uuid.UUID
	Allergies    *string
	HasResponded *bool
}

// WriteSet is the complete set of document writes one submission produces.
// It is applied in a single storage transaction: either every write lands
// or none do, so readers never observe a partially updated group.
type WriteSet struct {
	CreateGuests []*Guest
	MergeGuests  []GuestMerge
	PutRSVPs     []*RSVP
	DeleteRSVPs  []string
	Changes      []*RSVPChange
}

func (w *WriteSet) Empty() bool {
	return len(w.CreateGuests) == 0 &&
		len(w.MergeGuests) == 0 &&
		len(w.PutRSVPs) == 0 &&
		len(w.DeleteRSVPs) == 0 &&
		len(w.Changes) == 0
}
