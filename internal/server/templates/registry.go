// Copyright (C) 2025 the wedding-website maintainers
// See root-dir/LICENSE for more information

package templates

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ssiatkowski/wedding-website/internal/model"
	"github.com/ssiatkowski/wedding-website/internal/registry"
)

type registryFund struct {
	Category model.Category
	Field    string
	Amount   int
}

// RenderRegistry shows the cash-gift form prefilled from the visitor's
// stored allocation.
func (p *GuestHandler) RenderRegistry(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "GuestHandler.RenderRegistry")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	p.renderRegistryPage(c, nil)
}

// SubmitRegistry rebuilds the allocation from the stored state, replays
// the submitted total and per-fund amounts through the allocator and
// persists the result. Submitting identical numbers stores nothing and
// tells the visitor so.
func (p *GuestHandler) SubmitRegistry(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "GuestHandler.SubmitRegistry")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	guest, err := p.currentGuest(c)
	if err != nil {
		p.fail(c, http.StatusInternalServerError, "could not load guest", err)
		return
	}

	stored, err := p.gifts.Load(ctx, guest.ID)
	if err != nil {
		p.fail(c, http.StatusInternalServerError, "could not load allocation", err)
		return
	}
	alloc := registry.FromAllocation(stored)

	total, err := formAmount(c, "total")
	if err != nil {
		p.fail(c, http.StatusBadRequest, "invalid total amount", err)
		return
	}
	alloc.SetTotal(total)
	for _, cat := range model.Categories() {
		amount, err := formAmount(c, "amount-"+string(cat))
		if err != nil {
			p.fail(c, http.StatusBadRequest, "invalid fund amount", err)
			return
		}
		alloc.SetCategory(cat, amount)
	}

	_, translation := p.language(c)
	_, err = p.gifts.Submit(ctx, guest.ID, alloc)
	switch {
	case errors.Is(err, registry.ErrNoChanges):
		p.renderRegistryPage(c, &toast{
			Kind:    "info",
			Title:   translation.Success.Title,
			Message: translation.Registry.MessageNoChanges,
		})
	case err != nil:
		span.RecordError(err)
		p.logger.ErrorContext(ctx, "allocation submission failed", "error", err, "guest", guest.ID)
		p.renderRegistryPage(c, &toast{
			Kind:    "error",
			Title:   translation.Error.Title,
			Message: translation.Error.Process,
		})
	default:
		p.renderRegistryPage(c, &toast{
			Kind:    "success",
			Title:   translation.Success.Title,
			Message: translation.Registry.MessageSubmitted,
		})
	}
}

func (p *GuestHandler) renderRegistryPage(c *gin.Context, t *toast) {
	ctx := c.Request.Context()

	guest, err := p.currentGuest(c)
	if err != nil {
		p.fail(c, http.StatusInternalServerError, "could not load guest", err)
		return
	}

	stored, err := p.gifts.Load(ctx, guest.ID)
	if err != nil {
		p.fail(c, http.StatusInternalServerError, "could not load allocation", err)
		return
	}
	alloc := registry.FromAllocation(stored)

	funds := make([]registryFund, 0, len(model.Categories()))
	for _, cat := range model.Categories() {
		funds = append(funds, registryFund{
			Category: cat,
			Field:    "amount-" + string(cat),
			Amount:   alloc.Amount(cat),
		})
	}

	data := p.pageData(c)
	data["total"] = alloc.Total()
	data["funds"] = funds
	data["remaining"] = alloc.Total() - alloc.Sum()
	if t != nil {
		data["toast"] = t
	}
	p.render(c, p.tmplRegistry, data)
}

func formAmount(c *gin.Context, field string) (float64, error) {
	raw := c.PostForm(field)
	if raw == "" {
		return 0, nil
	}
	return strconv.ParseFloat(raw, 64)
}
