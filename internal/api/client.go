package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/farmhub/client-go/internal/session"
)

var (
	// ErrNetwork wraps transport-level failures: unreachable host,
	// timeout, connection reset. Never retried automatically.
	ErrNetwork = errors.New("cannot reach server")
	// ErrUnauthorized covers rejected credentials and rejected tokens.
	// A rejection on an authenticated call also clears the session.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrConflict is returned when the email is already registered.
	// Recoverable: the caller should offer sign-in instead.
	ErrConflict = errors.New("already registered")
	// ErrNotFound is returned for a missing resource.
	ErrNotFound = errors.New("not found")
)

// Client talks to the FarmHub backend. All authenticated requests carry
// the stored bearer token; a 401-class response invalidates the session.
type Client struct {
	baseURL    string
	httpClient *http.Client
	sessions   *session.Store
}

func New(baseURL string, sessions *session.Store, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		sessions: sessions,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// do performs one request and decodes a 2xx response into out (out may be
// nil). Non-2xx responses are mapped onto the error taxonomy with the
// server-provided message folded in.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	raw, status, err := c.roundTrip(ctx, method, path, body)
	if err != nil {
		return err
	}
	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		// Passive invalidation: the token was rejected, the session is
		// over. No refresh flow exists, re-login is the only recovery.
		if clearErr := c.sessions.Clear(ctx); clearErr != nil {
			return fmt.Errorf("%w (and clearing session failed: %v)", ErrUnauthorized, clearErr)
		}
		return statusError(ErrUnauthorized, raw)
	}
	if err := checkStatus(status, raw); err != nil {
		return err
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// roundTrip builds the request, attaches the bearer token when one is
// stored, and returns the body bytes and status. Transport failures come
// back as ErrNetwork.
func (c *Client) roundTrip(ctx context.Context, method, path string, body any) ([]byte, int, error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, 0, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	if sess, err := c.sessions.Read(ctx); err == nil && sess.Token != "" {
		req.Header.Set("Authorization", "Bearer "+sess.Token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	return raw, resp.StatusCode, nil
}

func checkStatus(status int, raw []byte) error {
	switch {
	case status >= 200 && status < 300:
		return nil
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return statusError(ErrUnauthorized, raw)
	case status == http.StatusConflict:
		return statusError(ErrConflict, raw)
	case status == http.StatusNotFound:
		return statusError(ErrNotFound, raw)
	default:
		msg := serverMessage(raw)
		if msg == "" {
			msg = http.StatusText(status)
		}
		return fmt.Errorf("request failed with status %d: %s", status, msg)
	}
}

func statusError(sentinel error, raw []byte) error {
	if msg := serverMessage(raw); msg != "" {
		return fmt.Errorf("%w: %s", sentinel, msg)
	}
	return sentinel
}

// serverMessage pulls the human-readable reason out of a failure body.
// The backend uses "message" on some routes and "error" on others.
func serverMessage(raw []byte) string {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return ""
	}
	if body.Message != "" {
		return body.Message
	}
	return body.Error
}
