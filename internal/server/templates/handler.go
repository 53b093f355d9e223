// Copyright (C) 2025 the wedding-website maintainers
// See root-dir/LICENSE for more information

package templates

import (
	"context"
	"embed"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ssiatkowski/wedding-website/internal/cache"
	"github.com/ssiatkowski/wedding-website/internal/config"
	"github.com/ssiatkowski/wedding-website/internal/db"
	"github.com/ssiatkowski/wedding-website/internal/model"
	"github.com/ssiatkowski/wedding-website/internal/registry"
	"github.com/ssiatkowski/wedding-website/internal/rsvp"
	"github.com/ssiatkowski/wedding-website/internal/server/session"
)

//go:embed *.html
var templates embed.FS

// SessionKey is where the auth middleware stores the verified session on
// the gin context.
const SessionKey = "session"

// CurrentSession returns the verified session set by the auth middleware.
func CurrentSession(c *gin.Context) (session.Session, bool) {
	v, ok := c.Get(SessionKey)
	if !ok {
		return session.Session{}, false
	}
	s, ok := v.(session.Session)
	return s, ok
}

func NewGuestHandler(
	cfg *config.Config,
	gStore db.GuestStore,
	eStore db.EventStore,
	rStore db.RSVPStore,
	cStore db.ChangeLogStore,
	tStore db.TranslationStore,
	engine *rsvp.Engine,
	gifts *registry.Service,
	snapshots *cache.Snapshots,
	sessions *session.Issuer,
) *GuestHandler {
	coreTemplates := []string{"main.html", "main.style.html", "nav.html", "toast.html", "footer.html"}
	parse := func(pages ...string) *template.Template {
		return template.Must(template.ParseFS(templates, append(coreTemplates, pages...)...))
	}

	return &GuestHandler{
		tmplLogin:    parse("login.html"),
		tmplHome:     parse("home.html"),
		tmplSchedule: parse("schedule.html"),
		tmplRSVP:     parse("rsvp-form.html"),
		tmplRegistry: parse("registry.html"),
		tmplAdmin:    parse("admin.content.html", "admin.translations.html"),
		gStore:       gStore,
		eStore:       eStore,
		rStore:       rStore,
		cStore:       cStore,
		tStore:       tStore,
		engine:       engine,
		gifts:        gifts,
		snapshots:    snapshots,
		sessions:     sessions,
		cfg:          cfg,
		logger:       slog.Default().WithGroup("http"),
	}
}

type GuestHandler struct {
	tmplLogin    *template.Template
	tmplHome     *template.Template
	tmplSchedule *template.Template
	tmplRSVP     *template.Template
	tmplRegistry *template.Template
	tmplAdmin    *template.Template

	gStore db.GuestStore
	eStore db.EventStore
	rStore db.RSVPStore
	cStore db.ChangeLogStore
	tStore db.TranslationStore

	engine    *rsvp.Engine
	gifts     *registry.Service
	snapshots *cache.Snapshots
	sessions  *session.Issuer
	cfg       *config.Config

	logger *slog.Logger
}

type toast struct {
	Kind    string
	Title   string
	Message string
}

// language resolves the display language: explicit query parameter wins,
// then the session cookie, then english.
func (p *GuestHandler) language(c *gin.Context) (string, *model.Translation) {
	ctx := c.Request.Context()

	try := func(lang string) *model.Translation {
		if lang == "" {
			return nil
		}
		t, err := p.tStore.ByLanguage(ctx, lang)
		if err != nil {
			return nil
		}
		return t
	}

	if t := try(c.Query("lang")); t != nil {
		return c.Query("lang"), t
	}
	if s, ok := CurrentSession(c); ok {
		if t := try(s.Language); t != nil {
			return s.Language, t
		}
	}
	t, err := p.tStore.ByLanguage(ctx, "en")
	if err != nil {
		p.logger.ErrorContext(ctx, "default language missing", "error", err)
		t = &model.Translation{}
	}
	return "en", t
}

func (p *GuestHandler) languageOptions(ctx context.Context) []model.LanguageOption {
	langs, err := p.tStore.ListLanguages(ctx)
	if err != nil {
		p.logger.WarnContext(ctx, "could not list languages", "error", err)
		return nil
	}
	options := make([]model.LanguageOption, 0, len(langs))
	for _, lang := range langs {
		translation, err := p.tStore.ByLanguage(ctx, lang)
		if err != nil {
			continue
		}
		options = append(options, model.LanguageOption{Lang: lang, FlagImgSrc: translation.FlagImgSrc})
	}
	return options
}

// pageData assembles the values every page template expects.
func (p *GuestHandler) pageData(c *gin.Context) gin.H {
	lang, translation := p.language(c)
	data := gin.H{
		"lang":            lang,
		"translation":     translation,
		"languageOptions": p.languageOptions(c.Request.Context()),
	}
	if s, ok := CurrentSession(c); ok {
		data["session"] = s
	}
	return data
}

func (p *GuestHandler) render(c *gin.Context, t *template.Template, data gin.H) {
	if err := t.Execute(c.Writer, data); err != nil {
		p.logger.ErrorContext(c.Request.Context(), "unable to render page", "error", err)
	}
}

func (p *GuestHandler) fail(c *gin.Context, status int, msg string, err error) {
	p.logger.ErrorContext(c.Request.Context(), msg, "error", err)
	c.String(status, msg)
}

// currentGuest loads the logged-in guest. ErrNotFound means the session
// points at a deleted document and the caller must treat the visitor as
// logged out.
func (p *GuestHandler) currentGuest(c *gin.Context) (*model.Guest, error) {
	s, ok := CurrentSession(c)
	if !ok {
		return nil, db.ErrNotFound
	}
	return p.gStore.GetGuestByID(c.Request.Context(), s.GuestID)
}

// RenderHome is the countdown landing page.
func (p *GuestHandler) RenderHome(c *gin.Context) {
	ctx := c.Request.Context()
	ctx, span := tracer.Start(ctx, "GuestHandler.RenderHome")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	guest, err := p.currentGuest(c)
	if err != nil {
		p.fail(c, http.StatusInternalServerError, "could not load guest", err)
		return
	}

	snap, err := p.snapshots.Get(ctx)
	if err != nil {
		p.fail(c, http.StatusInternalServerError, "could not load events", err)
		return
	}

	data := p.pageData(c)
	data["guest"] = guest
	if len(snap.Events) > 0 {
		data["mainEvent"] = snap.Events[0]
		for _, ev := range snap.Events {
			if ev.ID == model.EventMainWedding {
				data["mainEvent"] = ev
				break
			}
		}
	}
	p.render(c, p.tmplHome, data)
}

// RenderSchedule shows the events relevant to the visitor's group.
func (p *GuestHandler) RenderSchedule(c *gin.Context) {
	ctx := c.Request.Context()
	ctx, span := tracer.Start(ctx, "GuestHandler.RenderSchedule")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

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

	snap, err := p.snapshots.Get(ctx)
	if err != nil {
		p.fail(c, http.StatusInternalServerError, "could not load events", err)
		return
	}

	data := p.pageData(c)
	data["events"] = model.RelevantEvents(snap.Events, group)
	p.render(c, p.tmplSchedule, data)
}
