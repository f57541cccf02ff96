package normalize

import (
	"encoding/json"
	"errors"

	"github.com/golang-jwt/jwt/v5"

	"github.com/farmhub/client-go/internal/models"
)

// ErrNoSession is returned when an auth response contains neither a token
// nor a user in any of the envelope shapes the backend has been seen to use.
var ErrNoSession = errors.New("no token or user in auth response")

// Result is the canonical outcome of parsing an auth-class response.
// Provisional marks a user synthesized from token claims rather than
// returned by the server; callers should replace it with /users/me data
// when that endpoint answers.
type Result struct {
	Token       string
	User        *models.User
	Provisional bool
}

// envelope covers the three response shapes observed from the backend:
// flat {token, user}, nested {data: {token, user}} and doubly nested
// {data: {data: {token, user}}}.
type envelope struct {
	Token string           `json:"token"`
	User  *models.User     `json:"user"`
	Data  *json.RawMessage `json:"data"`
}

// Auth extracts a token/user pair from a raw auth response body.
// Precedence is ordered and first match wins: a flat token beats a nested
// one, a nested one beats a doubly nested one. A user with no token at any
// depth is returned token-less; the caller must not persist that as a
// session. When a token arrives without a user, a provisional user is
// derived from the token's own claims.
func Auth(body []byte) (Result, error) {
	env, ok := decode(body)
	if !ok {
		return Result{}, ErrNoSession
	}

	token, user := walk(env, 0)
	if token == "" {
		if user != nil {
			return Result{User: user}, nil
		}
		return Result{}, ErrNoSession
	}

	if user != nil {
		return Result{Token: token, User: user}, nil
	}
	if derived := UserFromToken(token); derived != nil {
		return Result{Token: token, User: derived, Provisional: true}, nil
	}
	return Result{Token: token}, nil
}

// walk descends through data wrappers looking for the first level that
// carries a token. At most two levels of nesting are recognized; deeper
// wrapping has never been observed and is treated as absent.
func walk(env *envelope, depth int) (string, *models.User) {
	if env.Token != "" {
		return env.Token, env.User
	}
	if env.Data != nil && depth < 2 {
		if inner, ok := decode(*env.Data); ok {
			token, user := walk(inner, depth+1)
			if token != "" {
				return token, user
			}
			if env.User == nil {
				return "", user
			}
		}
	}
	// No token at this level or below. A bare user still counts.
	return "", env.User
}

func decode(raw []byte) (*envelope, bool) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, false
	}
	return &env, true
}

// UserFromToken decodes the JWT payload without verifying the signature and
// builds a minimal profile from whatever identity claims it holds. This is
// a convenience read for display purposes, never an authorization decision.
// Returns nil when the token is malformed or carries no usable claims.
func UserFromToken(token string) *models.User {
	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return nil
	}

	user := models.User{Role: models.RoleBuyer}
	for _, key := range []string{"id", "_id", "userId", "sub"} {
		if v, ok := claims[key].(string); ok && v != "" {
			user.ID = v
			break
		}
	}
	if v, ok := claims["email"].(string); ok {
		user.Email = v
	}
	if v, ok := claims["name"].(string); ok {
		user.Name = v
	}
	if v, ok := claims["role"].(string); ok && v != "" {
		user.Role = v
	}

	if user.ID == "" && user.Email == "" {
		return nil
	}
	return &user
}
