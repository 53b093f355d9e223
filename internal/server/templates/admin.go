// Copyright (C) 2025 the wedding-website maintainers
// See root-dir/LICENSE for more information

package templates

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jeremywohl/flatten/v2"

	"github.com/ssiatkowski/wedding-website/internal/admin"
)

// RenderAdminOverview is the dashboard: headline stats, the filterable
// and sortable answer table, the recent change log and the translation
// matrix.
func (p *GuestHandler) RenderAdminOverview(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "GuestHandler.RenderAdminOverview")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	guests, err := p.gStore.ListGuests(ctx)
	if err != nil {
		p.fail(c, http.StatusInternalServerError, "could not list guests", err)
		return
	}
	events, err := p.eStore.ListEvents(ctx)
	if err != nil {
		p.fail(c, http.StatusInternalServerError, "could not list events", err)
		return
	}
	rsvps, err := p.rStore.ListRSVPs(ctx)
	if err != nil {
		p.fail(c, http.StatusInternalServerError, "could not list answers", err)
		return
	}

	rows := admin.BuildRows(rsvps, guests, events)
	query := c.Query("q")
	sortKey := admin.SortKey(c.Query("sort"))

	changes, err := p.cStore.ListChanges(ctx)
	if err != nil {
		p.logger.WarnContext(ctx, "could not list change log", "error", err)
	}
	// newest first, capped for the dashboard
	if len(changes) > 1 {
		for i, j := 0, len(changes)-1; i < j; i, j = i+1, j-1 {
			changes[i], changes[j] = changes[j], changes[i]
		}
	}
	if len(changes) > 25 {
		changes = changes[:25]
	}

	langs, err := p.tStore.ListLanguages(ctx)
	if err != nil {
		p.logger.WarnContext(ctx, "could not list languages", "error", err)
	}
	translations := make(map[string]map[string]string, len(langs))
	for _, lang := range langs {
		translation, err := p.tStore.ByLanguage(ctx, lang)
		if err != nil {
			continue
		}
		out, err := json.Marshal(translation)
		if err != nil {
			continue
		}
		flattened, err := flatten.FlattenString(string(out), "", flatten.DotStyle)
		if err != nil {
			continue
		}
		result := make(map[string]string)
		if err := json.Unmarshal([]byte(flattened), &result); err != nil {
			continue
		}
		translations[lang] = result
	}

	data := p.pageData(c)
	data["stats"] = admin.Summarize(rows)
	data["rows"] = admin.Display(rows, admin.Match(query), sortKey)
	data["query"] = query
	data["sort"] = string(sortKey)
	data["changes"] = changes
	data["translations"] = translations
	p.render(c, p.tmplAdmin, data)
}

// ClearRSVP resets one guest's answers so they can start over: attendance
// rows are deleted and the responded flag drops back to false.
func (p *GuestHandler) ClearRSVP(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "GuestHandler.ClearRSVP")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	guestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		p.fail(c, http.StatusBadRequest, "invalid guest id", err)
		return
	}

	if err := p.engine.ClearRSVP(ctx, guestID); err != nil {
		span.RecordError(err)
		p.fail(c, http.StatusInternalServerError, "could not clear answers", err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/admin")
}
