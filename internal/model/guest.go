// Copyright (C) 2025 the wedding-website maintainers
// See root-dir/LICENSE for more information

package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Guest is one invitee or an added companion. All members of a traveling
// party share the same GroupID and answer the RSVP form together.
type Guest struct {
	ID             uuid.UUID        `json:"id" form:"-"`
	CreatedAt      *time.Time       `json:"created_at" form:"-"`
	UpdatedAt      *time.Time       `json:"updated_at" form:"-"`
	FirstName      string           `json:"first_name" form:"first_name"`
	LastName       string           `json:"last_name" form:"last_name"`
	PreferredName  string           `json:"preferred_name,omitempty" form:"preferred_name"`
	GroupID        string           `json:"group_id" form:"-"`
	Invited        map[EventID]bool `json:"invited" form:"-"`
	HasResponded   bool             `json:"has_responded" form:"-"`
	Allergies      string           `json:"allergies,omitempty" form:"allergies"`
	IsPlusOne      bool             `json:"is_plus_one,omitempty" form:"-"`
	PlusOneOf      uuid.UUID        `json:"plus_one_of,omitempty" form:"-"`
	PlusOneAllowed bool             `json:"plus_one_allowed,omitempty" form:"-"`
}

// InvitedTo reports whether the guest carries the invitation flag for the
// given event. A nil map means not invited to anything.
func (g *Guest) InvitedTo(id EventID) bool {
	return g.Invited[id]
}

// SetInvited flips a single invitation flag, allocating the map on first use.
func (g *Guest) SetInvited(id EventID, invited bool) {
	if g.Invited == nil {
		g.Invited = make(map[EventID]bool)
	}
	g.Invited[id] = invited
}

// DisplayName prefers the nickname over the legal first name.
func (g *Guest) DisplayName() string {
	if g.PreferredName != "" {
		return g.PreferredName
	}
	return g.FirstName
}

// FullName joins first and last name for login matching and admin tables.
func (g *Guest) FullName() string {
	return strings.TrimSpace(g.FirstName + " " + g.LastName)
}
