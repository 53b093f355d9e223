// Copyright (C) 2025 the wedding-website maintainers
// See root-dir/LICENSE for more information

package templates

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ssiatkowski/wedding-website/internal/model"
	"github.com/ssiatkowski/wedding-website/internal/server/session"
)

type loginForm struct {
	FirstName string `form:"first_name"`
	LastName  string `form:"last_name"`
	Password  string `form:"password"`

	// GuestID is set when the visitor picks one of the fuzzy-match
	// suggestions instead of retyping their name. Bound as a string,
	// gin cannot bind into a uuid.UUID.
	GuestID string `form:"guest_id"`
}

// RenderLogin shows the sign-in form.
func (p *GuestHandler) RenderLogin(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "GuestHandler.RenderLogin")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	data := p.pageData(c)
	data["firstName"] = ""
	data["lastName"] = ""
	p.render(c, p.tmplLogin, data)
}

// Login checks the shared guest password (or the admin credentials),
// resolves the visitor to a guest document and issues the session cookie.
// An ambiguous name renders prefix-matched suggestions instead of failing.
func (p *GuestHandler) Login(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "GuestHandler.Login")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	var input loginForm
	if err := c.ShouldBind(&input); err != nil {
		p.fail(c, http.StatusBadRequest, "could not parse form", err)
		return
	}
	first := strings.TrimSpace(input.FirstName)
	last := strings.TrimSpace(input.LastName)
	fullName := strings.TrimSpace(first + " " + last)

	lang, translation := p.language(c)
	data := p.pageData(c)
	data["firstName"] = first
	data["lastName"] = last

	isAdmin := strings.EqualFold(fullName, p.cfg.AdminUser) &&
		session.VerifyAdminPassword(p.cfg.AdminPasswordHash, input.Password) == nil
	if !isAdmin && !strings.EqualFold(input.Password, p.cfg.GuestPassword) {
		data["loginError"] = translation.Login.IncorrectPassword
		p.render(c, p.tmplLogin, data)
		return
	}

	guests, err := p.gStore.ListGuests(ctx)
	if err != nil {
		p.fail(c, http.StatusInternalServerError, "could not list guests", err)
		return
	}

	if input.GuestID != "" {
		guestID, err := uuid.Parse(input.GuestID)
		if err != nil {
			p.fail(c, http.StatusBadRequest, "invalid guest id", err)
			return
		}
		for _, g := range guests {
			if g.ID == guestID {
				p.finishLogin(c, g.ID, isAdmin, lang)
				return
			}
		}
		data["loginError"] = translation.Login.NoGuestFound
		p.render(c, p.tmplLogin, data)
		return
	}

	var exact []*model.Guest
	for _, g := range guests {
		if strings.EqualFold(g.FirstName, first) && strings.EqualFold(g.LastName, last) {
			exact = append(exact, g)
		}
	}
	if len(exact) == 1 {
		p.finishLogin(c, exact[0].ID, isAdmin, lang)
		return
	}

	var matches []*model.Guest
	for _, g := range guests {
		if g.IsPlusOne {
			continue
		}
		if fuzzyMatches(g.FirstName, first) || fuzzyMatches(g.LastName, last) {
			matches = append(matches, g)
		}
	}
	if len(matches) == 0 {
		data["loginError"] = translation.Login.NoGuestFound
		p.render(c, p.tmplLogin, data)
		return
	}

	data["suggestions"] = matches
	data["password"] = input.Password
	p.render(c, p.tmplLogin, data)
}

// Logout clears the session cookie.
func (p *GuestHandler) Logout(c *gin.Context) {
	c.SetCookie(session.CookieName, "", -1, "/", "", false, true)
	c.Redirect(http.StatusSeeOther, "/login")
}

func (p *GuestHandler) finishLogin(c *gin.Context, guestID uuid.UUID, admin bool, lang string) {
	token, err := p.sessions.Issue(session.Session{
		GuestID:  guestID,
		Admin:    admin,
		Language: lang,
	}, session.DefaultTTL)
	if err != nil {
		p.fail(c, http.StatusInternalServerError, "could not create session", err)
		return
	}
	c.SetCookie(session.CookieName, token, int(session.DefaultTTL.Seconds()), "/", "", false, true)
	c.Redirect(http.StatusSeeOther, "/")
}

func fuzzyMatches(full, input string) bool {
	if input == "" {
		return false
	}
	return strings.HasPrefix(strings.ToLower(full), strings.ToLower(input))
}
