// Copyright (C) 2025 the wedding-website maintainers
// See root-dir/LICENSE for more information

package server

import (
	"embed"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	sloggin "github.com/samber/slog-gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/trace"

	"github.com/ssiatkowski/wedding-website/internal/cache"
	"github.com/ssiatkowski/wedding-website/internal/config"
	"github.com/ssiatkowski/wedding-website/internal/db"
	"github.com/ssiatkowski/wedding-website/internal/registry"
	"github.com/ssiatkowski/wedding-website/internal/rsvp"
	"github.com/ssiatkowski/wedding-website/internal/server/session"
	"github.com/ssiatkowski/wedding-website/internal/server/templates"
)

//go:embed all:static
var staticFS embed.FS

func NewServer(
	serviceName string,
	cfg *config.Config,
	gStore db.GuestStore,
	eStore db.EventStore,
	rStore db.RSVPStore,
	cStore db.ChangeLogStore,
	tStore db.TranslationStore,
	regStore db.RegistryStore,
	batch db.BatchWriter,
) *Server {
	snapshots := cache.NewSnapshots(gStore, eStore, cfg.CacheTTL)
	engine := rsvp.NewEngine(gStore, eStore, rStore, batch, snapshots)
	sessions := session.NewIssuer(cfg.SessionSecret)

	return &Server{
		logger:      slog.Default().WithGroup("http"),
		serviceName: serviceName,
		guests:      templates.NewGuestHandler(cfg, gStore, eStore, rStore, cStore, tStore, engine, registry.NewService(regStore), snapshots, sessions),
		gStore:      gStore,
		tStore:      tStore,
		sessions:    sessions,
	}
}

type Server struct {
	serviceName string
	logger      *slog.Logger
	guests      *templates.GuestHandler
	gStore      db.GuestStore
	tStore      db.TranslationStore
	sessions    *session.Issuer
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	mux := gin.New()
	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	middlewares := []gin.HandlerFunc{
		sloggin.NewWithConfig(s.logger,
			sloggin.Config{
				DefaultLevel:     slog.LevelInfo,
				ClientErrorLevel: slog.LevelWarn,
				ServerErrorLevel: slog.LevelError,
			},
		),
		gin.Recovery(), otelgin.Middleware(s.serviceName), slogAddTraceAttributes,
	}

	staticDir, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	mux.StaticFS("/static", http.FS(fs.FS(staticDir)))

	open := mux.Group("/")
	open.Use(middlewares...)
	open.GET("/login", s.guests.RenderLogin)
	open.POST("/login", s.guests.Login)
	open.POST("/logout", s.guests.Logout)

	site := mux.Group("/")
	site.Use(append(middlewares, s.requireSession())...)
	site.GET("/", s.guests.RenderHome)
	site.GET("/schedule", s.guests.RenderSchedule)
	site.GET("/rsvp", s.guests.RenderRSVP)
	site.POST("/rsvp/submit", s.guests.SubmitRSVP)
	site.GET("/registry", s.guests.RenderRegistry)
	site.POST("/registry/submit", s.guests.SubmitRegistry)

	adminArea := mux.Group("/admin")
	adminArea.Use(append(middlewares, s.requireSession(), requireAdmin)...)
	adminArea.GET("/", s.guests.RenderAdminOverview)
	adminArea.POST("/guests/:id/clear-rsvp", s.guests.ClearRSVP)

	mux.NoRoute(notFound)

	mux.ServeHTTP(w, r)
}

// requireSession gates the guest pages behind the login cookie. A session
// whose guest document no longer exists is treated as not logged in: the
// cookie is cleared and the visitor lands back on the login form.
func (s *Server) requireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := c.Cookie(session.CookieName)
		if err != nil {
			c.Redirect(http.StatusSeeOther, "/login")
			c.Abort()
			return
		}

		sess, err := s.sessions.Verify(raw)
		if err != nil {
			c.SetCookie(session.CookieName, "", -1, "/", "", false, true)
			c.Redirect(http.StatusSeeOther, "/login")
			c.Abort()
			return
		}

		if sess.GuestID != uuid.Nil {
			if _, err := s.gStore.GetGuestByID(c.Request.Context(), sess.GuestID); err != nil {
				if !errors.Is(err, db.ErrNotFound) {
					s.logger.ErrorContext(c.Request.Context(), "could not verify session guest", "error", err)
				}
				c.SetCookie(session.CookieName, "", -1, "/", "", false, true)
				c.Redirect(http.StatusSeeOther, "/login")
				c.Abort()
				return
			}
		}

		// a ?lang= switch sticks for the rest of the session
		if lang := c.Query("lang"); lang != "" && lang != sess.Language {
			if _, err := s.tStore.ByLanguage(c.Request.Context(), lang); err == nil {
				sess.Language = lang
				if token, err := s.sessions.Issue(sess, session.DefaultTTL); err == nil {
					c.SetCookie(session.CookieName, token, int(session.DefaultTTL.Seconds()), "/", "", false, true)
				}
			}
		}

		c.Set(templates.SessionKey, sess)
		c.Next()
	}
}

func requireAdmin(c *gin.Context) {
	sess, ok := templates.CurrentSession(c)
	if !ok || !sess.Admin {
		notFound(c)
		c.Abort()
		return
	}
	c.Next()
}

func notFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"code": "PAGE_NOT_FOUND", "message": "Page not found"})
}

func slogAddTraceAttributes(c *gin.Context) {
	sloggin.AddCustomAttributes(c,
		slog.String("trace-id", trace.SpanFromContext(c.Request.Context()).SpanContext().TraceID().String()),
	)
	sloggin.AddCustomAttributes(c,
		slog.String("span-id", trace.SpanFromContext(c.Request.Context()).SpanContext().SpanID().String()),
	)
	c.Next()
}
