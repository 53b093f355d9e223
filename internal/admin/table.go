// Copyright (C) 2025 the wedding-website maintainers
// See root-dir/LICENSE for more information

// Package admin aggregates RSVP records into the dashboard table. Filter
// and sort are pure functions over already-fetched rows, independent of
// any rendering concern.
package admin

import (
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/ssiatkowski/wedding-website/internal/model"
)

// Row is one line of the dashboard: an RSVP record joined with its guest
// and event.
type Row struct {
	Name      string
	Group     string
	Event     string
	EventID   model.EventID
	GuestID   uuid.UUID
	Attending bool
	Allergies string
}

// Stats are the headline numbers above the table.
type Stats struct {
	Total         int
	Attending     int
	WithAllergies int
	ByEvent       map[string]int
	ByGroup       map[string]int
}

// BuildRows joins RSVP records with guests and events. Records whose guest
// no longer exists are skipped; an unknown event id falls back to the raw
// id, matching what the store actually holds.
func BuildRows(rsvps []*model.RSVP, guests []*model.Guest, events []*model.Event) []Row {
	guestByID := make(map[uuid.UUID]*model.Guest, len(guests))
	for _, g := range guests {
		guestByID[g.ID] = g
	}
	titleByID := make(map[model.EventID]string, len(events))
	for _, ev := range events {
		titleByID[ev.ID] = ev.Title
	}

	rows := make([]Row, 0, len(rsvps))
	for _, r := range rsvps {
		guest, ok := guestByID[r.UserID]
		if !ok {
			continue
		}
		title, ok := titleByID[r.EventID]
		if !ok {
			title = string(r.EventID)
		}
		rows = append(rows, Row{
			Name:      guest.FullName(),
			Group:     guest.GroupID,
			Event:     title,
			EventID:   r.EventID,
			GuestID:   guest.ID,
			Attending: r.Attending,
			Allergies: guest.Allergies,
		})
	}
	return rows
}

// Summarize computes the dashboard statistics for a set of rows.
func Summarize(rows []Row) Stats {
	stats := Stats{
		ByEvent: make(map[string]int),
		ByGroup: make(map[string]int),
	}
	for _, r := range rows {
		stats.Total++
		if r.Attending {
			stats.Attending++
		}
		if r.Allergies != "" {
			stats.WithAllergies++
		}
		stats.ByEvent[r.Event]++
		stats.ByGroup[r.Group]++
	}
	return stats
}

type SortKey string

const (
	SortByName      SortKey = "name"
	SortByGroup     SortKey = "group"
	SortByEvent     SortKey = "event"
	SortByAttending SortKey = "attending"
)

// Match returns a predicate that keeps rows containing the query in any
// text column, case-insensitively. An empty query keeps everything.
func Match(query string) func(Row) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return func(Row) bool { return true }
	}
	return func(r Row) bool {
		for _, field := range []string{r.Name, r.Group, r.Event, r.Allergies} {
			if strings.Contains(strings.ToLower(field), q) {
				return true
			}
		}
		return false
	}
}

// Display filters and sorts without mutating the input slice. The sort is
// stable so equal keys keep their fetch order.
func Display(rows []Row, keep func(Row) bool, key SortKey) []Row {
	out := make([]Row, 0, len(rows))
	for _, r := range rows {
		if keep == nil || keep(r) {
			out = append(out, r)
		}
	}
	less := lessFunc(key)
	if less != nil {
		sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	}
	return out
}

func lessFunc(key SortKey) func(a, b Row) bool {
	switch key {
	case SortByName:
		return func(a, b Row) bool { return a.Name < b.Name }
	case SortByGroup:
		return func(a, b Row) bool { return a.Group < b.Group }
	case SortByEvent:
		return func(a, b Row) bool { return a.Event < b.Event }
	case SortByAttending:
		return func(a, b Row) bool { return a.Attending && !b.Attending }
	default:
		return nil
	}
}
