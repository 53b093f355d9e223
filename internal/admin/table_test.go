package admin

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssiatkowski/wedding-website/internal/model"
)

func sampleRows() ([]*model.RSVP, []*model.Guest, []*model.Event) {
	ada := &model.Guest{ID: uuid.New(), FirstName: "Ada", LastName: "Lovelace", GroupID: "lovelace", Allergies: "peanuts"}
	alan := &model.Guest{ID: uuid.New(), FirstName: "Alan", LastName: "Turing", GroupID: "turing"}
	rsvps := []*model.RSVP{
		{UserID: ada.ID, EventID: model.EventChurch, Attending: true},
		{UserID: ada.ID, EventID: model.EventMainWedding, Attending: true},
		{UserID: alan.ID, EventID: model.EventMainWedding, Attending: false},
		{UserID: uuid.New(), EventID: model.EventChurch, Attending: true}, // orphaned
	}
	events := []*model.Event{
		{ID: model.EventChurch, Title: "Church Ceremony"},
		{ID: model.EventMainWedding, Title: "Wedding"},
	}
	return rsvps, []*model.Guest{ada, alan}, events
}

func TestBuildRows_JoinsAndSkipsOrphans(t *testing.T) {
	rsvps, guests, events := sampleRows()
	rows := BuildRows(rsvps, guests, events)

	require.Len(t, rows, 3, "rsvp without a guest is skipped")
	assert.Equal(t, "Ada Lovelace", rows[0].Name)
	assert.Equal(t, "Church Ceremony", rows[0].Event)
}

func TestBuildRows_UnknownEventFallsBackToID(t *testing.T) {
	guest := &model.Guest{ID: uuid.New(), FirstName: "Ada", GroupID: "g"}
	rows := BuildRows(
		[]*model.RSVP{{UserID: guest.ID, EventID: "Retired"}},
		[]*model.Guest{guest},
		nil,
	)
	require.Len(t, rows, 1)
	assert.Equal(t, "Retired", rows[0].Event)
}

func TestSummarize(t *testing.T) {
	rsvps, guests, events := sampleRows()
	stats := Summarize(BuildRows(rsvps, guests, events))

	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 2, stats.Attending)
	assert.Equal(t, 2, stats.WithAllergies)
	assert.Equal(t, 2, stats.ByEvent["Wedding"])
	assert.Equal(t, 2, stats.ByGroup["lovelace"])
}

func TestDisplay_FilterAndSortArePure(t *testing.T) {
	rsvps, guests, events := sampleRows()
	rows := BuildRows(rsvps, guests, events)
	original := make([]Row, len(rows))
	copy(original, rows)

	got := Display(rows, Match("turing"), SortByName)
	require.Len(t, got, 1)
	assert.Equal(t, "Alan Turing", got[0].Name)
	assert.Equal(t, original, rows, "input slice must not be mutated")

	sorted := Display(rows, nil, SortByEvent)
	require.Len(t, sorted, 3)
	assert.Equal(t, "Church Ceremony", sorted[0].Event)
	assert.Equal(t, "Wedding", sorted[2].Event)
}

func TestMatch(t *testing.T) {
	row := Row{Name: "Ada Lovelace", Group: "lovelace", Event: "Wedding", Allergies: "Peanuts"}

	tt := []struct {
		query string
		want  bool
	}{
		{query: "", want: true},
		{query: "ada", want: true},
		{query: "WEDDING", want: true},
		{query: "peanut", want: true},
		{query: "turing", want: false},
	}
	for _, tc := range tt {
		assert.Equal(t, tc.want, Match(tc.query)(row), "query %q", tc.query)
	}
}

func TestDisplay_AttendingSortPutsYesFirst(t *testing.T) {
	rows := []Row{
		{Name: "No", Attending: false},
		{Name: "Yes", Attending: true},
	}
	got := Display(rows, nil, SortByAttending)
	assert.Equal(t, "Yes", got[0].Name)
}
