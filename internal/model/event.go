package model

import "time"

// EventID is a stable string identifier for a scheduled occurrence. It keys
// the per-guest invitation flags, so renaming an event id invalidates every
// invitation that references it.
type EventID string

const (
	EventChurch            EventID = "Church"
	EventWelcomeParty      EventID = "WelcomeParty"
	EventMainWedding       EventID = "MainWedding"
	EventSundayBrunchEarly EventID = "SundayBrunchEarly"
	EventSundayBrunchLate  EventID = "SundayBrunchLate"
)

type Event struct {
	ID          EventID    `json:"id"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
	Title       string     `json:"title"`
	Start       time.Time  `json:"start"`
	End         time.Time  `json:"end"`
	Location    string     `json:"location"`
	Description string     `json:"description,omitempty"`
	Attire      string     `json:"attire,omitempty"`
	Parking     string     `json:"parking,omitempty"`
	Transport   string     `json:"transport,omitempty"`
}

// RelevantEvents filters events down to those at least one group member is
// invited to. Only relevant events appear on a group's RSVP form.
func RelevantEvents(events []*Event, group []*Guest) []*Event {
	var out []*Event
	for _, ev := range events {
		for _, g := range group {
			if g.InvitedTo(ev.ID) {
				out = append(out, ev)
				break
			}
		}
	}
	return out
}
