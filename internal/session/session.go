package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/farmhub/client-go/internal/kvstore"
	"github.com/farmhub/client-go/internal/models"
)

const (
	tokenKey = "token"
	userKey  = "user"
)

// Session is the persisted identity state. Either field may be absent;
// a token without a user is a legitimate intermediate state while the
// profile fetch is pending.
type Session struct {
	Token string
	User  *models.User
}

func (s Session) IsAuthenticated() bool { return s.Token != "" }

// Store persists the session in the device key-value store. It is the
// single writer; screens share one instance instead of importing ambient
// global state.
type Store struct {
	kv kvstore.Store
}

func NewStore(kv kvstore.Store) *Store {
	return &Store{kv: kv}
}

// Write persists the token, and the user when known, replacing any prior
// session wholesale. The previous account's profile never survives a new
// login: a token-only write removes the stored user, and a failed user
// write rolls the whole session back so a caller reporting failure never
// observes a half-written identity.
func (s *Store) Write(ctx context.Context, token string, user *models.User) error {
	if token == "" {
		return errors.New("refusing to write session without token")
	}

	if user == nil {
		if err := s.kv.Delete(ctx, userKey); err != nil {
			return fmt.Errorf("clear previous user: %w", err)
		}
		if err := s.kv.Put(ctx, tokenKey, token); err != nil {
			return fmt.Errorf("persist token: %w", err)
		}
		return nil
	}

	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	if err := s.kv.Put(ctx, tokenKey, token); err != nil {
		return fmt.Errorf("persist token: %w", err)
	}
	if err := s.kv.Put(ctx, userKey, string(raw)); err != nil {
		if clearErr := s.Clear(ctx); clearErr != nil {
			return fmt.Errorf("persist user: %w (rollback failed: %v)", err, clearErr)
		}
		return fmt.Errorf("persist user: %w", err)
	}
	return nil
}

// Read returns the persisted session. A stored user that no longer parses
// is treated as absent; there is no schema versioning and a crashed read
// would brick the app on every start.
func (s *Store) Read(ctx context.Context) (Session, error) {
	var sess Session

	token, err := s.kv.Get(ctx, tokenKey)
	switch {
	case errors.Is(err, kvstore.ErrNotFound):
	case err != nil:
		return Session{}, fmt.Errorf("read token: %w", err)
	default:
		sess.Token = token
	}

	raw, err := s.kv.Get(ctx, userKey)
	switch {
	case errors.Is(err, kvstore.ErrNotFound):
	case err != nil:
		return Session{}, fmt.Errorf("read user: %w", err)
	default:
		var user models.User
		if jsonErr := json.Unmarshal([]byte(raw), &user); jsonErr == nil {
			sess.User = &user
		}
	}

	return sess, nil
}

// Clear removes both fields. Called on explicit sign-out and on token
// rejection by the server; there is no refresh flow, so clearing is
// terminal for the session.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.kv.Delete(ctx, tokenKey); err != nil {
		return fmt.Errorf("clear token: %w", err)
	}
	if err := s.kv.Delete(ctx, userKey); err != nil {
		return fmt.Errorf("clear user: %w", err)
	}
	return nil
}

// IsAuthenticated is token presence only. The user may legitimately be
// absent while a profile fetch is pending.
func (s *Store) IsAuthenticated(ctx context.Context) bool {
	sess, err := s.Read(ctx)
	if err != nil {
		return false
	}
	return sess.IsAuthenticated()
}
