package api

import (
	"context"

	"github.com/projectbar/barweb/internal/models"
)

// Login validates a username/password pair against the backend. The backend
// uses HTTP Basic rather than a bearer-token scheme: the "token" is just the
// base64 of the credentials, reusable on every later request. On success the
// caller gets the user profile plus the token it should keep for the session.
func (c *Client) Login(ctx context.Context, username, password string) (models.User, string, error) {
	token := Token(username, password)
	var user models.User
	if err := c.WithToken(token).get(ctx, "/api/auth/login", &user); err != nil {
		return models.User{}, "", err
	}
	return user, token, nil
}

// Me fetches the profile behind the client's current token. Used as the
// best-effort validation of stored credentials at session restore; a 401
// means they should be dropped.
func (c *Client) Me(ctx context.Context) (models.User, error) {
	var user models.User
	if err := c.get(ctx, "/api/auth/me", &user); err != nil {
		return models.User{}, err
	}
	return user, nil
}
