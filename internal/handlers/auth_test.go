package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/projectbar/barweb/internal/api"
	"github.com/projectbar/barweb/internal/models"
)

func loginBackend(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Basic "+api.Token("laura", "clave123") {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		json.NewEncoder(w).Encode(models.User{Username: "laura", Roles: []string{"WAITER"}})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func doLogin(t *testing.T, h *AuthHandler) *httptest.ResponseRecorder {
	t.Helper()
	form := url.Values{"username": {"laura"}, "password": {"clave123"}}
	r := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	h.LoginPost(w, r)
	return w
}

func carryCookies(r *http.Request, prev *httptest.ResponseRecorder) *http.Request {
	for _, c := range prev.Result().Cookies() {
		r.AddCookie(c)
	}
	return r
}

func TestLogin_StoresTokenAndProfile(t *testing.T) {
	h := &AuthHandler{
		API:          api.New(loginBackend(t).URL, time.Second),
		Templates:    NewTemplateCache(),
		SessionStore: testSessionStore(),
	}

	w := doLogin(t, h)
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/orders", w.Header().Get("Location"))

	next := carryCookies(httptest.NewRequest(http.MethodGet, "/orders", nil), w)
	assert.Equal(t, api.Token("laura", "clave123"), staffToken(h.SessionStore, next))
	user, ok := staffUser(h.SessionStore, next)
	require.True(t, ok)
	assert.Equal(t, "laura", user.Username)
}

func TestLogin_BadCredentialsRedirectBack(t *testing.T) {
	h := &AuthHandler{
		API:          api.New(loginBackend(t).URL, time.Second),
		Templates:    NewTemplateCache(),
		SessionStore: testSessionStore(),
	}

	form := url.Values{"username": {"laura"}, "password": {"wrong"}}
	r := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	h.LoginPost(w, r)

	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))

	next := carryCookies(httptest.NewRequest(http.MethodGet, "/login", nil), w)
	assert.Empty(t, staffToken(h.SessionStore, next))
}

func TestLogout_ClearsCredentialsButKeepsFlash(t *testing.T) {
	h := &AuthHandler{
		API:          api.New(loginBackend(t).URL, time.Second),
		Templates:    NewTemplateCache(),
		SessionStore: testSessionStore(),
	}

	loggedIn := doLogin(t, h)

	w := httptest.NewRecorder()
	h.Logout(w, carryCookies(httptest.NewRequest(http.MethodGet, "/logout", nil), loggedIn))
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))

	// The follow-up request must see no credentials but still get the
	// goodbye flash.
	next := carryCookies(httptest.NewRequest(http.MethodGet, "/login", nil), w)
	assert.Empty(t, staffToken(h.SessionStore, next))
	_, ok := staffUser(h.SessionStore, next)
	assert.False(t, ok)

	session, err := h.SessionStore.Get(next, StaffSession)
	require.NoError(t, err)
	flashes := GetFlash(session)
	require.NotEmpty(t, flashes)
	assert.Equal(t, "Sesión cerrada.", flashes[len(flashes)-1].Message)
}

func TestAuthMiddleware_RedirectsWithoutToken(t *testing.T) {
	h := &AuthHandler{SessionStore: testSessionStore()}

	var reached bool
	protected := h.AuthMiddleware(func(w http.ResponseWriter, r *http.Request) { reached = true })

	w := httptest.NewRecorder()
	protected(w, httptest.NewRequest(http.MethodGet, "/orders", nil))

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
	assert.False(t, reached)
}
