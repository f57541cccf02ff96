package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/farmhub/client-go/internal/logging"
	"github.com/farmhub/client-go/internal/models"
	"github.com/farmhub/client-go/internal/normalize"
	"github.com/farmhub/client-go/internal/session"
)

// ErrNoToken is returned when an auth endpoint answered successfully but
// no token could be found in any recognized envelope shape. An HTTP 200
// does not imply a usable session; nothing is persisted in this case.
var ErrNoToken = errors.New("auth response contained no usable token")

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login authenticates and persists the resulting session before
// returning, so a navigation decision made after Login observes the
// committed state.
func (c *Client) Login(ctx context.Context, email, password string) (session.Session, error) {
	l := logging.FromContext(ctx).With("svc", "api.login")

	raw, status, err := c.roundTrip(ctx, http.MethodPost, "/users/login", credentials{Email: email, Password: password})
	if err != nil {
		return session.Session{}, err
	}
	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		l.Warn("login rejected", "status", status)
		return session.Session{}, statusError(ErrUnauthorized, raw)
	}
	if err := checkStatus(status, raw); err != nil {
		return session.Session{}, err
	}

	return c.commitAuth(ctx, raw)
}

// Register creates an account. When the backend answers with a user but
// no token, a follow-up login with the same credentials resolves one; the
// partial response is never persisted as a session.
func (c *Client) Register(ctx context.Context, user models.User) (session.Session, error) {
	l := logging.FromContext(ctx).With("svc", "api.register")

	password := user.Password
	raw, status, err := c.roundTrip(ctx, http.MethodPost, "/users/register", user)
	if err != nil {
		return session.Session{}, err
	}
	if err := checkStatus(status, raw); err != nil {
		return session.Session{}, err
	}

	sess, err := c.commitAuth(ctx, raw)
	if errors.Is(err, ErrNoToken) && password != "" {
		l.Info("registration returned no token, logging in")
		return c.Login(ctx, user.Email, password)
	}
	return sess, err
}

// commitAuth runs a successful auth response body through the normalizer
// and persists the outcome. A provisional user derived from token claims
// is written first, then replaced by the authoritative profile when
// /users/me answers.
func (c *Client) commitAuth(ctx context.Context, raw []byte) (session.Session, error) {
	result, err := normalize.Auth(raw)
	if err != nil {
		return session.Session{}, fmt.Errorf("%w: %v", ErrNoToken, err)
	}
	if result.Token == "" {
		// A bare user is not a session. The caller resolves a token
		// separately (registration falls back to login).
		return session.Session{User: result.User}, ErrNoToken
	}

	if err := c.sessions.Write(ctx, result.Token, result.User); err != nil {
		return session.Session{}, err
	}

	if result.User == nil || result.Provisional {
		if user, err := c.CurrentUser(ctx); err == nil {
			if err := c.sessions.Write(ctx, result.Token, user); err == nil {
				return session.Session{Token: result.Token, User: user}, nil
			}
		}
	}
	return session.Session{Token: result.Token, User: result.User}, nil
}

// CurrentUser fetches the authoritative profile.
func (c *Client) CurrentUser(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := c.do(ctx, http.MethodGet, "/users/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Session returns the persisted identity state.
func (c *Client) Session(ctx context.Context) (session.Session, error) {
	return c.sessions.Read(ctx)
}

// Logout discards the local session. The token is a stateless bearer
// credential; there is nothing to revoke server-side.
func (c *Client) Logout(ctx context.Context) error {
	return c.sessions.Clear(ctx)
}
