package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/csrf"
	"github.com/gorilla/sessions"

	"github.com/projectbar/barweb/internal/api"
	"github.com/projectbar/barweb/internal/models"
)

// AuthHandler gates the staff screens. Credentials are validated against the
// backend's Basic-auth login endpoint; the resulting token (base64 of
// user:pass, there is no bearer scheme upstream) and the profile ride in the
// staff cookie session until logout or a 401 clears them. This is a nominal
// gate, not an access-control boundary: the backend still authorizes every
// staff request itself.
type AuthHandler struct {
	API          *api.Client
	Templates    *TemplateCache
	SessionStore *sessions.CookieStore
}

func (h *AuthHandler) LoginGet(w http.ResponseWriter, r *http.Request) {
	tmpl := h.Templates.Get("login.html")
	if tmpl == nil {
		http.Error(w, "Template not found", http.StatusInternalServerError)
		return
	}
	session, _ := h.SessionStore.Get(r, StaffSession)
	data := map[string]interface{}{
		"CsrfField": csrf.TemplateField(r),
		"Flashes":   GetFlash(session),
	}
	session.Save(r, w)
	tmpl.Execute(w, data)
}

func (h *AuthHandler) LoginPost(w http.ResponseWriter, r *http.Request) {
	session, _ := h.SessionStore.Get(r, StaffSession)

	username := r.FormValue("username")
	password := r.FormValue("password")
	if username == "" || password == "" {
		session.AddFlash(FlashMessage{Type: "error", Message: "Usuario y contraseña son obligatorios."})
		session.Save(r, w)
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	user, token, err := h.API.Login(r.Context(), username, password)
	if err != nil {
		if errors.Is(err, api.ErrUnauthorized) {
			session.AddFlash(FlashMessage{Type: "error", Message: "Usuario o contraseña incorrectos."})
		} else {
			slog.Error("Login request failed", "error", err)
			session.AddFlash(FlashMessage{Type: "error", Message: "No se pudo contactar el servidor."})
		}
		session.Save(r, w)
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	session.Values["token"] = token
	session.Values["user"] = user
	session.Options.Path = "/"
	session.AddFlash(FlashMessage{Type: "success", Message: "Bienvenido, " + user.Username + "!"})
	if err := session.Save(r, w); err != nil {
		slog.Error("Failed to save session", "error", err)
		http.Error(w, "Failed to save session", http.StatusInternalServerError)
		return
	}

	slog.Info("Staff login", "user", user.Username, "roles", user.Roles)
	http.Redirect(w, r, "/orders", http.StatusSeeOther)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	session, _ := h.SessionStore.Get(r, StaffSession)
	// Clear the credentials but keep the cookie alive; expiring it here
	// would drop the flash before the login page can show it.
	delete(session.Values, "token")
	delete(session.Values, "user")
	session.AddFlash(FlashMessage{Type: "success", Message: "Sesión cerrada."})
	session.Save(r, w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// AuthMiddleware ensures a staff token is present. Validity is only known to
// the backend; a stale token shows up as a 401 on the next staff request and
// clearStaffSession drops it then.
func (h *AuthHandler) AuthMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, _ := h.SessionStore.Get(r, StaffSession)
		token, ok := session.Values["token"].(string)
		if !ok || token == "" {
			session.AddFlash(FlashMessage{Type: "error", Message: "Debes iniciar sesión para acceder."})
			session.Save(r, w)
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next(w, r)
	}
}

// staffToken returns the session's Basic token, empty when logged out.
func staffToken(store *sessions.CookieStore, r *http.Request) string {
	session, _ := store.Get(r, StaffSession)
	token, _ := session.Values["token"].(string)
	return token
}

// staffUser returns the cached profile from the session.
func staffUser(store *sessions.CookieStore, r *http.Request) (models.User, bool) {
	session, _ := store.Get(r, StaffSession)
	user, ok := session.Values["user"].(models.User)
	return user, ok
}

// clearStaffSession drops stored credentials after the backend rejected
// them, mirroring what a 401 does to the browser-stored token upstream.
func clearStaffSession(store *sessions.CookieStore, w http.ResponseWriter, r *http.Request) {
	session, _ := store.Get(r, StaffSession)
	delete(session.Values, "token")
	delete(session.Values, "user")
	session.AddFlash(FlashMessage{Type: "error", Message: "Tu sesión expiró, inicia sesión de nuevo."})
	session.Save(r, w)
}
