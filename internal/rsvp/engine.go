// Copyright (C) 2025 the wedding-website maintainers
// See root-dir/LICENSE for more information

// Package rsvp decides which documents to write when a guest group submits
// the RSVP form, so that invitation flags, attendance records and an
// optional plus-one companion stay consistent. Planning is pure; the
// resulting write set is applied as one atomic batch.
package rsvp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/ssiatkowski/wedding-website/internal/db"
	"github.com/ssiatkowski/wedding-website/internal/model"
)

// MemberAnswers is one existing group member's part of the form: the state
// of every attendance checkbox rendered for them and, if the allergy field
// was present, its content.
type MemberAnswers struct {
	Attending map[model.EventID]bool
	Allergies *string
}

// PlusOne is the optional companion block of the form.
type PlusOne struct {
	FirstName string
	LastName  string
	Allergies string
	Attending map[model.EventID]bool
}

// Submission is the complete submitted form state for one group.
type Submission struct {
	SubmitterID uuid.UUID
	Members     map[uuid.UUID]MemberAnswers
	PlusOne     *PlusOne
}

// Result reports what a successful submission did.
type Result struct {
	PlusOneCreated bool
	PlusOneID      uuid.UUID
}

var ErrEmptyGroup = errors.New("group has no members")

// Eligible reports whether the submitting guest may add a plus-one:
// the explicit PlusOneAllowed flag must be set AND the guest must be the
// only existing member of their group. Groups of two or more never get the
// option, regardless of the flag.
func Eligible(group []*model.Guest, submitterID uuid.UUID) bool {
	if len(group) != 1 {
		return false
	}
	g := group[0]
	return g.ID == submitterID && g.PlusOneAllowed && !g.IsPlusOne
}

// Plan computes the complete write set for one submission. Guarantees:
//
//   - one RSVP overwrite per (member, event) pair the member is invited
//     to, whether or not the checkbox was checked, so a previous yes can
//     flip back to no;
//   - an allergy merge for every member whose note field was submitted;
//   - HasResponded=true for every existing member, unconditionally;
//   - at most one new plus-one guest, with invitation flags only for the
//     events explicitly checked, plus an RSVP row per relevant event;
//   - a change-log entry for every attendance value that actually changed.
//
// Events no group member is invited to produce no writes at all.
func Plan(group []*model.Guest, events []*model.Event, prior []*model.RSVP, sub Submission) (*model.WriteSet, error) {
	if len(group) == 0 {
		return nil, ErrEmptyGroup
	}

	relevant := model.RelevantEvents(events, group)
	previous := make(map[string]bool, len(prior))
	for _, r := range prior {
		previous[r.Key()] = r.Attending
	}

	ws := &model.WriteSet{}
	responded := true

	for _, member := range group {
		answers := sub.Members[member.ID]
		for _, ev := range relevant {
			if !member.InvitedTo(ev.ID) {
				continue
			}
			rsvp := &model.RSVP{
				UserID:    member.ID,
				EventID:   ev.ID,
				Attending: answers.Attending[ev.ID],
			}
			ws.PutRSVPs = append(ws.PutRSVPs, rsvp)
			logChange(ws, previous, rsvp)
		}
		merge := model.GuestMerge{ID: member.ID, HasResponded: &responded}
		if answers.Allergies != nil {
			note := strings.TrimSpace(*answers.Allergies)
			merge.Allergies = &note
		}
		ws.MergeGuests = append(ws.MergeGuests, merge)
	}

	if p := sub.PlusOne; p != nil && Eligible(group, sub.SubmitterID) {
		planPlusOne(ws, previous, relevant, group[0], p)
	}

	return ws, nil
}

// planPlusOne appends the companion guest and its attendance rows. The
// companion joins the inviter's group so later group loads and submissions
// include it. A blank first or last name suppresses the whole block, never
// a partial record.
func planPlusOne(ws *model.WriteSet, previous map[string]bool, relevant []*model.Event, inviter *model.Guest, p *PlusOne) {
	first := strings.TrimSpace(p.FirstName)
	last := strings.TrimSpace(p.LastName)
	if first == "" || last == "" {
		return
	}

	guest := &model.Guest{
		ID:           uuid.New(),
		GroupID:      inviter.GroupID,
		FirstName:    first,
		LastName:     last,
		Allergies:    strings.TrimSpace(p.Allergies),
		IsPlusOne:    true,
		PlusOneOf:    inviter.ID,
		HasResponded: true,
	}
	for _, ev := range relevant {
		if p.Attending[ev.ID] {
			guest.SetInvited(ev.ID, true)
		}
		rsvp := &model.RSVP{
			UserID:    guest.ID,
			EventID:   ev.ID,
			Attending: p.Attending[ev.ID],
		}
		ws.PutRSVPs = append(ws.PutRSVPs, rsvp)
		logChange(ws, previous, rsvp)
	}
	ws.CreateGuests = append(ws.CreateGuests, guest)
}

func logChange(ws *model.WriteSet, previous map[string]bool, rsvp *model.RSVP) {
	after := rsvp.Attending
	before, existed := previous[rsvp.Key()]
	if existed && before == after {
		return
	}
	change := &model.RSVPChange{
		UserID:  rsvp.UserID,
		EventID: rsvp.EventID,
		Type:    model.RSVPChangeCreated,
		After:   &after,
	}
	if existed {
		change.Type = model.RSVPChangeUpdated
		change.Before = &before
	}
	ws.Changes = append(ws.Changes, change)
}

// Invalidator drops cached user/event snapshots after a write.
type Invalidator interface {
	Invalidate()
}

func NewEngine(
	gStore db.GuestStore,
	eStore db.EventStore,
	rStore db.RSVPStore,
	batch db.BatchWriter,
	cache Invalidator,
) *Engine {
	return &Engine{
		gStore: gStore,
		eStore: eStore,
		rStore: rStore,
		batch:  batch,
		cache:  cache,
	}
}

type Engine struct {
	gStore db.GuestStore
	eStore db.EventStore
	rStore db.RSVPStore
	batch  db.BatchWriter
	cache  Invalidator
}

// Submit loads the group's current state, plans the writes and applies
// them atomically. If a concurrent submission already created the plus-one
// the batch is retried once with the companion answers folded onto the
// existing plus-one record; everything else is an overwrite, so retrying a
// failed submission is always safe.
func (e *Engine) Submit(ctx context.Context, groupID string, sub Submission) (*Result, error) {
	var span trace.Span
	ctx, span = tracer.Start(ctx, "Engine.Submit")
	defer span.End()
	span.SetAttributes(attribute.String("group", groupID))

	group, err := e.gStore.ListGuestsByGroup(ctx, groupID)
	if err != nil {
		return nil, e.fail(span, fmt.Errorf("load group: %w", err))
	}
	events, err := e.eStore.ListEvents(ctx)
	if err != nil {
		return nil, e.fail(span, fmt.Errorf("load events: %w", err))
	}
	memberIDs := make([]uuid.UUID, len(group))
	for i, g := range group {
		memberIDs[i] = g.ID
	}
	prior, err := e.rStore.ListRSVPsByUsers(ctx, memberIDs)
	if err != nil {
		return nil, e.fail(span, fmt.Errorf("load prior rsvps: %w", err))
	}

	ws, err := Plan(group, events, prior, sub)
	if err != nil {
		return nil, e.fail(span, err)
	}

	if err := e.batch.Apply(ctx, ws); err != nil {
		if !errors.Is(err, db.ErrPlusOneExists) {
			return nil, e.fail(span, err)
		}
		span.AddEvent("plus-one exists, merging answers into existing companion")
		if group, err = e.gStore.ListGuestsByGroup(ctx, groupID); err != nil {
			return nil, e.fail(span, fmt.Errorf("reload group: %w", err))
		}
		retry := sub
		retry.PlusOne = nil
		retry.Members = mergeCompanion(sub, group)
		memberIDs = memberIDs[:0]
		for _, g := range group {
			memberIDs = append(memberIDs, g.ID)
		}
		if prior, err = e.rStore.ListRSVPsByUsers(ctx, memberIDs); err != nil {
			return nil, e.fail(span, fmt.Errorf("reload prior rsvps: %w", err))
		}
		if ws, err = Plan(group, events, prior, retry); err != nil {
			return nil, e.fail(span, err)
		}
		if err = e.batch.Apply(ctx, ws); err != nil {
			return nil, e.fail(span, err)
		}
	}

	if e.cache != nil {
		e.cache.Invalidate()
	}

	res := &Result{}
	if len(ws.CreateGuests) == 1 {
		res.PlusOneCreated = true
		res.PlusOneID = ws.CreateGuests[0].ID
	}
	return res, nil
}

// mergeCompanion folds the submitted companion block into the answer map,
// as if the already existing plus-one had been part of the rendered form.
// Without a matching plus-one in the group the block is dropped.
func mergeCompanion(sub Submission, group []*model.Guest) map[uuid.UUID]MemberAnswers {
	members := make(map[uuid.UUID]MemberAnswers, len(sub.Members)+1)
	for id, a := range sub.Members {
		members[id] = a
	}
	p := sub.PlusOne
	if p == nil {
		return members
	}
	for _, g := range group {
		if g.IsPlusOne && g.PlusOneOf == sub.SubmitterID {
			allergies := p.Allergies
			members[g.ID] = MemberAnswers{Attending: p.Attending, Allergies: &allergies}
			break
		}
	}
	return members
}

// ClearRSVP is the admin reset: it flips HasResponded back to false and
// deletes the guest's attendance rows in one batch. The guest record
// itself survives.
func (e *Engine) ClearRSVP(ctx context.Context, guestID uuid.UUID) error {
	var span trace.Span
	ctx, span = tracer.Start(ctx, "Engine.ClearRSVP")
	defer span.End()

	prior, err := e.rStore.ListRSVPsByUsers(ctx, []uuid.UUID{guestID})
	if err != nil {
		return e.fail(span, fmt.Errorf("load rsvps: %w", err))
	}

	notResponded := false
	ws := &model.WriteSet{
		MergeGuests: []model.GuestMerge{{ID: guestID, HasResponded: &notResponded}},
	}
	for _, r := range prior {
		before := r.Attending
		ws.DeleteRSVPs = append(ws.DeleteRSVPs, r.Key())
		ws.Changes = append(ws.Changes, &model.RSVPChange{
			UserID:  r.UserID,
			EventID: r.EventID,
			Type:    model.RSVPChangeDeleted,
			Before:  &before,
		})
	}
	if err := e.batch.Apply(ctx, ws); err != nil {
		return e.fail(span, err)
	}
	if e.cache != nil {
		e.cache.Invalidate()
	}
	return nil
}

func (e *Engine) fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
