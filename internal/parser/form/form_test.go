package form

import (
	"net/url"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type rsvpRow struct {
	Attending bool      `form:"attending"`
	Allergies string    `form:"allergies"`
	Guests    int       `form:"guests"`
	Amount    float64   `form:"amount"`
	Tags      []string  `form:"tags"`
	ID        uuid.UUID `form:"id"`
	Skipped   string
}

func TestUnmarshal(t *testing.T) {
	id := uuid.New()
	input := url.Values{
		"attending": {"on"},
		"allergies": {"peanuts"},
		"guests":    {"3"},
		"amount":    {"120.50"},
		"tags":      {"church", "brunch"},
		"id":        {id.String()},
		"Skipped":   {"ignored"},
	}

	var row rsvpRow
	require.NoError(t, Unmarshal(input, &row))
	assert.True(t, row.Attending)
	assert.Equal(t, "peanuts", row.Allergies)
	assert.Equal(t, 3, row.Guests)
	assert.Equal(t, 120.50, row.Amount)
	assert.Equal(t, []string{"church", "brunch"}, row.Tags)
	assert.Equal(t, id, row.ID)
	assert.Empty(t, row.Skipped)
}

func TestUnmarshalCheckboxValues(t *testing.T) {
	for raw, want := range map[string]bool{
		"on": true, "true": true, "TRUE": true, "1": true,
		"off": false, "false": false, "": false,
	} {
		var row rsvpRow
		require.NoError(t, Unmarshal(url.Values{"attending": {raw}}, &row))
		assert.Equal(t, want, row.Attending, "value %q", raw)
	}
}

func TestUnmarshalMissingKeysLeaveZeroValues(t *testing.T) {
	var row rsvpRow
	require.NoError(t, Unmarshal(url.Values{}, &row))
	assert.False(t, row.Attending)
	assert.Empty(t, row.Allergies)
	assert.Zero(t, row.Guests)
}

func TestUnmarshalRejectsNonPointer(t *testing.T) {
	var row rsvpRow
	err := Unmarshal(url.Values{}, row)
	var invalid *InvalidUnmarshalError
	require.ErrorAs(t, err, &invalid)
}

func TestUnmarshalBadNumber(t *testing.T) {
	var row rsvpRow
	assert.Error(t, Unmarshal(url.Values{"guests": {"many"}}, &row))
	assert.Error(t, Unmarshal(url.Values{"amount": {"lots"}}, &row))
	assert.Error(t, Unmarshal(url.Values{"id": {"not-a-uuid"}}, &row))
}

func TestUnmarshalNestedStruct(t *testing.T) {
	type companion struct {
		FirstName string `form:"firstname"`
		LastName  string `form:"lastname"`
	}
	type submission struct {
		Allergies string    `form:"allergies"`
		PlusOne   companion `form:"plusone"`
	}

	var sub submission
	require.NoError(t, Unmarshal(url.Values{
		"allergies":         {"none"},
		"plusone.firstname": {"Ada"},
		"plusone.lastname":  {"Lovelace"},
	}, &sub))
	assert.Equal(t, "Ada", sub.PlusOne.FirstName)
	assert.Equal(t, "Lovelace", sub.PlusOne.LastName)
}

func TestGroupValues(t *testing.T) {
	a, b := uuid.NewString(), uuid.NewString()
	grouped := GroupValues(url.Values{
		a + ".attending-church": {"on"},
		a + ".allergies":        {"gluten"},
		b + ".attending-church": {"off"},
		"total":                 {"ignored, no prefix"},
	})

	require.Len(t, grouped, 2)
	assert.Equal(t, "on", grouped[a].Get("attending-church"))
	assert.Equal(t, "gluten", grouped[a].Get("allergies"))
	assert.Equal(t, "off", grouped[b].Get("attending-church"))
}
