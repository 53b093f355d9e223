package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	bolt "go.etcd.io/bbolt"

	"github.com/ssiatkowski/wedding-website/internal/config"
	"github.com/ssiatkowski/wedding-website/internal/db/kvdb"
	"github.com/ssiatkowski/wedding-website/internal/model"
	"github.com/ssiatkowski/wedding-website/internal/server/session"
)

type testSite struct {
	srv    *Server
	guests *kvdb.GuestStore
	rsvps  *kvdb.RSVPStore

	solo  *model.Guest
	maria *model.Guest
	jan   *model.Guest
}

func newTestSite(t *testing.T) *testSite {
	t.Helper()
	gin.SetMode(gin.TestMode)

	bdb, err := bolt.Open(filepath.Join(t.TempDir(), "site.db"), 0600, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = bdb.Close() })

	guestStore, err := kvdb.NewGuestStore(bdb)
	require.NoError(t, err)
	eventStore, err := kvdb.NewEventStore(bdb)
	require.NoError(t, err)
	rsvpStore, err := kvdb.NewRSVPStore(bdb)
	require.NoError(t, err)
	translationStore, err := kvdb.NewTranslationStore(bdb)
	require.NoError(t, err)
	registryStore, err := kvdb.NewRegistryStore(bdb)
	require.NoError(t, err)
	batch, err := kvdb.NewBatchWriter(bdb)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, translationStore.CreateLanguage(ctx, "en", &model.Translation{
		Welcome: "Welcome",
		Login: model.TranslationLogin{
			IncorrectPassword: "Incorrect password.",
			NoGuestFound:      "No matching guest found.",
			DidYouMean:        "Did you mean:",
		},
		RSVPForm: model.TranslationRSVPForm{
			Title:                "RSVP",
			MessageSubmitSuccess: "Your RSVP has been saved.",
		},
		Registry: model.TranslationRegistry{
			MessageNoChanges: "Nothing changed.",
			MessageSubmitted: "Saved.",
		},
		Error:   model.TranslationError{Title: "Something went wrong", Process: "Please try again."},
		Success: model.TranslationSuccess{Title: "Saved"},
	}))

	now := time.Now()
	for _, id := range []model.EventID{model.EventChurch, model.EventMainWedding} {
		require.NoError(t, eventStore.UpdateEvent(ctx, &model.Event{
			ID:    id,
			Title: string(id),
			Start: now.Add(24 * time.Hour),
			End:   now.Add(30 * time.Hour),
		}))
	}

	site := &testSite{
		guests: guestStore,
		rsvps:  rsvpStore,
		solo: &model.Guest{
			FirstName:      "Priya",
			LastName:       "Patel",
			GroupID:        "patel",
			PlusOneAllowed: true,
			Invited:        map[model.EventID]bool{model.EventMainWedding: true},
		},
		maria: &model.Guest{
			FirstName: "Maria",
			LastName:  "Kowalska",
			GroupID:   "kowalski",
			Invited:   map[model.EventID]bool{model.EventChurch: true, model.EventMainWedding: true},
		},
		jan: &model.Guest{
			FirstName: "Jan",
			LastName:  "Kowalski",
			GroupID:   "kowalski",
			Invited:   map[model.EventID]bool{model.EventChurch: true, model.EventMainWedding: true},
		},
	}
	for _, g := range []*model.Guest{site.solo, site.maria, site.jan} {
		_, err := guestStore.CreateGuest(ctx, g)
		require.NoError(t, err)
	}

	adminHash, err := session.HashAdminPassword("topsecret")
	require.NoError(t, err)
	cfg := &config.Config{
		Environment:       "test",
		GuestPassword:     "rex",
		AdminUser:         "Priya Patel",
		AdminPasswordHash: adminHash,
		SessionSecret:     "test-secret",
		CacheTTL:          time.Minute,
	}

	site.srv = NewServer("wedding-test", cfg, guestStore, eventStore, rsvpStore, rsvpStore, translationStore, registryStore, batch)
	return site
}

func (s *testSite) do(t *testing.T, method, target string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	s.srv.ServeHTTP(w, req)
	return w
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == session.CookieName && c.Value != "" {
			return c
		}
	}
	t.Fatal("no session cookie issued")
	return nil
}

func (s *testSite) login(t *testing.T, first, last, password string) *http.Cookie {
	t.Helper()
	w := s.do(t, http.MethodPost, "/login", url.Values{
		"first_name": {first},
		"last_name":  {last},
		"password":   {password},
	})
	require.Equal(t, http.StatusSeeOther, w.Code, w.Body.String())
	return sessionCookie(t, w)
}

func TestRedirectsToLoginWithoutSession(t *testing.T) {
	site := newTestSite(t)

	for _, target := range []string{"/", "/schedule", "/rsvp", "/registry"} {
		w := site.do(t, http.MethodGet, target, nil)
		assert.Equal(t, http.StatusSeeOther, w.Code, target)
		assert.Equal(t, "/login", w.Header().Get("Location"), target)
	}
}

func TestLoginAndRenderHome(t *testing.T) {
	site := newTestSite(t)

	cookie := site.login(t, "Maria", "Kowalska", "rex")
	w := site.do(t, http.MethodGet, "/", nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Welcome Maria")
}

func TestLoginWrongPassword(t *testing.T) {
	site := newTestSite(t)

	w := site.do(t, http.MethodPost, "/login", url.Values{
		"first_name": {"Maria"},
		"last_name":  {"Kowalska"},
		"password":   {"wrong"},
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Incorrect password.")
}

func TestLoginSuggestionsOnMisspelledName(t *testing.T) {
	site := newTestSite(t)

	w := site.do(t, http.MethodPost, "/login", url.Values{
		"first_name": {"Mar"},
		"last_name":  {"Kowalsky"},
		"password":   {"rex"},
	})
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Did you mean:")
	assert.Contains(t, body, "Maria Kowalska")

	w = site.do(t, http.MethodPost, "/login", url.Values{
		"guest_id": {site.maria.ID.String()},
		"password": {"rex"},
	})
	require.Equal(t, http.StatusSeeOther, w.Code)
	sessionCookie(t, w)

	w = site.do(t, http.MethodPost, "/login", url.Values{
		"guest_id": {"not-a-uuid"},
		"password": {"rex"},
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSubmitRSVPPersists(t *testing.T) {
	site := newTestSite(t)
	cookie := site.login(t, "Priya", "Patel", "rex")

	w := site.do(t, http.MethodPost, "/rsvp/submit", url.Values{
		site.solo.ID.String() + ".attending-MainWedding": {"on"},
		site.solo.ID.String() + ".allergies":             {"peanuts"},
	}, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Your RSVP has been saved.")

	r, err := site.rsvps.GetRSVP(context.Background(), site.solo.ID, model.EventMainWedding)
	require.NoError(t, err)
	assert.True(t, r.Attending)

	g, err := site.guests.GetGuestByID(context.Background(), site.solo.ID)
	require.NoError(t, err)
	assert.True(t, g.HasResponded)
	assert.Equal(t, "peanuts", g.Allergies)
}

func TestSubmitRegistryReportsNoChanges(t *testing.T) {
	site := newTestSite(t)
	cookie := site.login(t, "Priya", "Patel", "rex")

	form := url.Values{
		"total":            {"100"},
		"amount-honeymoon": {"60"},
		"amount-house":     {"40"},
	}
	w := site.do(t, http.MethodPost, "/registry/submit", form, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Saved.")

	w = site.do(t, http.MethodPost, "/registry/submit", form, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Nothing changed.")
}

func TestRenderRegistryFundControls(t *testing.T) {
	site := newTestSite(t)
	cookie := site.login(t, "Maria", "Kowalska", "rex")

	w := site.do(t, http.MethodGet, "/registry", nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	// each fund renders a slider next to the manual field, wired up by
	// registry.js
	assert.Contains(t, body, `class="fund-slider"`)
	assert.Contains(t, body, `name="amount-honeymoon"`)
	assert.Contains(t, body, "/static/js/registry.js")
}

func TestAdminAreaRequiresAdminSession(t *testing.T) {
	site := newTestSite(t)

	guestCookie := site.login(t, "Maria", "Kowalska", "rex")
	w := site.do(t, http.MethodGet, "/admin/", nil, guestCookie)
	assert.Equal(t, http.StatusNotFound, w.Code)

	adminCookie := site.login(t, "Priya", "Patel", "topsecret")
	w = site.do(t, http.MethodGet, "/admin/", nil, adminCookie)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestStaleSessionClearsCookie(t *testing.T) {
	site := newTestSite(t)

	issuer := session.NewIssuer("test-secret")
	token, err := issuer.Issue(session.Session{GuestID: uuid.New()}, time.Hour)
	require.NoError(t, err)

	w := site.do(t, http.MethodGet, "/", nil, &http.Cookie{Name: session.CookieName, Value: token})
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))

	for _, c := range w.Result().Cookies() {
		if c.Name == session.CookieName {
			assert.Empty(t, c.Value)
		}
	}
}
