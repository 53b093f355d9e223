// Copyright (C) 2025 the wedding-website maintainers
// See root-dir/LICENSE for more information

package templates

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ssiatkowski/wedding-website/internal/model"
	"github.com/ssiatkowski/wedding-website/internal/parser/form"
	"github.com/ssiatkowski/wedding-website/internal/rsvp"
)

// plusOnePrefix keys the companion block in the submitted form, next to
// the per-guest uuid prefixes.
const plusOnePrefix = "plusone"

const attendingField = "attending-"

type rsvpCell struct {
	Event     *model.Event
	Invited   bool
	Attending bool
	Field     string
}

type rsvpMember struct {
	Guest          *model.Guest
	AllergiesField string
	Cells          []rsvpCell
}

// RenderRSVP shows the group form: one attendance checkbox per relevant
// event per member, an allergy note per member and, for eligible solo
// guests, the plus-one block.
func (p *GuestHandler) RenderRSVP(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "GuestHandler.RenderRSVP")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	p.renderRSVPPage(c, nil)
}

// SubmitRSVP feeds the parsed form through the consistency engine and
// re-renders the form with an inline toast. A failed batch leaves nothing
// behind, so the retry hint in the error toast is always safe to follow.
func (p *GuestHandler) SubmitRSVP(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "GuestHandler.SubmitRSVP")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	guest, err := p.currentGuest(c)
	if err != nil {
		p.fail(c, http.StatusInternalServerError, "could not load guest", err)
		return
	}

	if err := c.Request.ParseForm(); err != nil {
		span.RecordError(err)
		p.fail(c, http.StatusBadRequest, "could not parse form", err)
		return
	}

	sub, err := parseSubmission(guest.ID, c.Request.PostForm)
	if err != nil {
		span.RecordError(err)
		p.fail(c, http.StatusBadRequest, "could not parse form", err)
		return
	}

	_, translation := p.language(c)
	if _, err := p.engine.Submit(ctx, guest.GroupID, *sub); err != nil {
		span.RecordError(err)
		p.logger.ErrorContext(ctx, "rsvp submission failed", "error", err, "group", guest.GroupID)
		p.renderRSVPPage(c, &toast{
			Kind:    "error",
			Title:   translation.Error.Title,
			Message: translation.Error.Process,
		})
		return
	}

	p.renderRSVPPage(c, &toast{
		Kind:    "success",
		Title:   translation.Success.Title,
		Message: translation.RSVPForm.MessageSubmitSuccess,
	})
}

func (p *GuestHandler) renderRSVPPage(c *gin.Context, t *toast) {
	ctx := c.Request.Context()

	guest, err := p.currentGuest(c)
	if err != nil {
		p.fail(c, http.StatusInternalServerError, "could not load guest", err)
		return
	}

	group, err := p.gStore.ListGuestsByGroup(ctx, guest.GroupID)
	if err != nil {
		p.fail(c, http.StatusInternalServerError, "could not load group", err)
		return
	}

	events, err := p.eStore.ListEvents(ctx)
	if err != nil {
		p.fail(c, http.StatusInternalServerError, "could not load events", err)
		return
	}
	relevant := model.RelevantEvents(events, group)

	ids := make([]uuid.UUID, len(group))
	for i, g := range group {
		ids[i] = g.ID
	}
	prior, err := p.rStore.ListRSVPsByUsers(ctx, ids)
	if err != nil {
		p.fail(c, http.StatusInternalServerError, "could not load answers", err)
		return
	}
	attending := make(map[string]bool, len(prior))
	for _, r := range prior {
		attending[r.Key()] = r.Attending
	}

	members := make([]rsvpMember, len(group))
	responded := false
	for i, g := range group {
		m := rsvpMember{
			Guest:          g,
			AllergiesField: g.ID.String() + ".allergies",
			Cells:          make([]rsvpCell, len(relevant)),
		}
		for j, ev := range relevant {
			m.Cells[j] = rsvpCell{
				Event:     ev,
				Invited:   g.InvitedTo(ev.ID),
				Attending: attending[model.RSVPKey(g.ID, ev.ID)],
				Field:     fmt.Sprintf("%s.%s%s", g.ID, attendingField, ev.ID),
			}
		}
		members[i] = m
		responded = responded || g.HasResponded
	}

	data := p.pageData(c)
	data["members"] = members
	data["events"] = relevant
	data["responded"] = responded
	if rsvp.Eligible(group, guest.ID) {
		cells := make([]rsvpCell, len(relevant))
		for i, ev := range relevant {
			cells[i] = rsvpCell{
				Event: ev,
				Field: fmt.Sprintf("%s.%s%s", plusOnePrefix, attendingField, ev.ID),
			}
		}
		data["plusOneCells"] = cells
	}
	if t != nil {
		data["toast"] = t
	}
	p.render(c, p.tmplRSVP, data)
}

// parseSubmission turns the flat dotted form keys back into the engine's
// submission shape. Unknown prefixes that are not valid guest ids are
// dropped rather than rejected, so stray inputs cannot block the group.
func parseSubmission(submitter uuid.UUID, raw url.Values) (*rsvp.Submission, error) {
	sub := &rsvp.Submission{
		SubmitterID: submitter,
		Members:     make(map[uuid.UUID]rsvp.MemberAnswers),
	}

	for prefix, values := range form.GroupValues(raw) {
		if prefix == plusOnePrefix {
			var companion struct {
				FirstName string `form:"first_name"`
				LastName  string `form:"last_name"`
				Allergies string `form:"allergies"`
			}
			if err := form.Unmarshal(values, &companion); err != nil {
				return nil, err
			}
			sub.PlusOne = &rsvp.PlusOne{
				FirstName: companion.FirstName,
				LastName:  companion.LastName,
				Allergies: companion.Allergies,
				Attending: attendance(values),
			}
			continue
		}

		guestID, err := uuid.Parse(prefix)
		if err != nil {
			continue
		}
		answers := rsvp.MemberAnswers{Attending: attendance(values)}
		if notes, ok := values["allergies"]; ok && len(notes) > 0 {
			answers.Allergies = &notes[0]
		}
		sub.Members[guestID] = answers
	}
	return sub, nil
}

func attendance(values url.Values) map[model.EventID]bool {
	out := make(map[model.EventID]bool)
	for key, v := range values {
		eventID, found := strings.CutPrefix(key, attendingField)
		if !found || len(v) == 0 {
			continue
		}
		out[model.EventID(eventID)] = checked(v[0])
	}
	return out
}

func checked(raw string) bool {
	switch strings.ToLower(raw) {
	case "true", "on", "1":
		return true
	}
	return false
}
