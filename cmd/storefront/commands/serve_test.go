package commands

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alextreichler/shopfront/internal/config"
	"github.com/alextreichler/shopfront/internal/handlers"
	"github.com/alextreichler/shopfront/internal/store"
)

var csrfFieldRe = regexp.MustCompile(`name="gorilla\.csrf\.Token" value="([^"]+)"`)

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	cfg := &config.Config{
		Port:       "8585",
		CSRFKey:    []byte(strings.Repeat("c", 32)),
		SessionKey: []byte(strings.Repeat("s", 32)),
	}

	db, err := store.NewStore(store.DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, db.Migrate(context.Background()))

	templates := handlers.NewTemplateCache()
	require.NoError(t, templates.LoadEmbedded())

	shop := &handlers.ShopHandler{Store: db, SessionStore: newSessionStore(cfg), Templates: templates}
	mux := http.NewServeMux()
	shop.Routes(mux, nil)
	return newHandler(cfg, mux)
}

func postRegister(h http.Handler, form url.Values, cookies []*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Origin", "http://localhost:8585")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestServeHandlerRegisterWithCSRFToken(t *testing.T) {
	h := newTestServer(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/register", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	match := csrfFieldRe.FindStringSubmatch(rec.Body.String())
	require.Len(t, match, 2, "register form carries a CSRF token")
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)

	form := url.Values{"username": {"alice"}, "password": {"pw"}, "gorilla.csrf.Token": {match[1]}}
	rec = postRegister(h, form, cookies)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))

	var session *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == "shop-session" {
			session = c
		}
	}
	require.NotNil(t, session)
	assert.True(t, session.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, session.SameSite)
	assert.False(t, session.Secure)
}

func TestServeHandlerRejectsMissingCSRFToken(t *testing.T) {
	h := newTestServer(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/register", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	form := url.Values{"username": {"alice"}, "password": {"pw"}}
	rec = postRegister(h, form, rec.Result().Cookies())
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestNewSessionStoreOptions(t *testing.T) {
	s := newSessionStore(&config.Config{
		SessionKey:   []byte(strings.Repeat("s", 32)),
		CookieSecure: true,
		CookieDomain: "shop.example",
	})
	assert.True(t, s.Options.HttpOnly)
	assert.True(t, s.Options.Secure)
	assert.Equal(t, http.SameSiteLaxMode, s.Options.SameSite)
	assert.Equal(t, "/", s.Options.Path)
	assert.Equal(t, "shop.example", s.Options.Domain)
}
