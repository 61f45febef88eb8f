package cart

import (
	"encoding/gob"
	"log/slog"
	"net/http"

	"github.com/gorilla/sessions"
)

// The cart rides in the customer cookie session between requests, gob-encoded
// the same way flash messages are.
func init() {
	gob.Register(&Cart{})
}

const sessionKey = "cart"

// FromSession returns the cart stored in the session, or a fresh empty cart.
// A value that fails to decode (stale cookie after a deploy) is treated as an
// empty cart rather than an error.
func FromSession(session *sessions.Session) *Cart {
	raw, ok := session.Values[sessionKey]
	if !ok {
		return New()
	}
	c, ok := raw.(*Cart)
	if !ok {
		slog.Debug("Discarding undecodable cart from session")
		return New()
	}
	return c
}

// Save writes the cart back into the session and persists the session. An
// empty cart is removed entirely to keep the cookie small.
func Save(session *sessions.Session, c *Cart, w http.ResponseWriter, r *http.Request) error {
	if c.IsEmpty() && c.TableNumber == 0 && c.ClientName == "" {
		delete(session.Values, sessionKey)
	} else {
		session.Values[sessionKey] = c
	}
	return session.Save(r, w)
}
