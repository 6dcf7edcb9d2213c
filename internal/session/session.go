// Package session holds the identity and credentials used to talk to the
// remote task store.
package session

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/oauth2"
)

// AnonymousKey is the user key used when no identity is configured.
const AnonymousKey = "anonymous"

// Session is the explicit client context threaded through the sync layer.
// It replaces any process-wide default headers: every request built from it
// carries its own token.
type Session struct {
	onInvalid func()
	userKey   string
	token     string
	mu        sync.RWMutex
	invalid   bool
}

// New returns a session for userKey authenticated with token. onInvalid, if
// non-nil, is called once when the remote store rejects the credentials.
func New(userKey, token string, onInvalid func()) *Session {
	return &Session{
		userKey:   strings.TrimSpace(userKey),
		token:     strings.TrimSpace(token),
		onInvalid: onInvalid,
	}
}

// Key returns the stable user key, or AnonymousKey.
func (s *Session) Key() string {
	if s == nil || s.userKey == "" {
		return AnonymousKey
	}

	return s.userKey
}

// Valid reports whether the session still holds usable credentials.
func (s *Session) Valid() bool {
	if s == nil {
		return false
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return !s.invalid
}

// Invalidate drops the token and notifies the auth hook. Only the first call
// has an effect.
func (s *Session) Invalidate() {
	s.mu.Lock()

	if s.invalid {
		s.mu.Unlock()
		return
	}

	s.invalid = true
	s.token = ""
	hook := s.onInvalid

	s.mu.Unlock()

	if hook != nil {
		hook()
	}
}

// Token implements oauth2.TokenSource.
func (s *Session) Token() (*oauth2.Token, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return &oauth2.Token{AccessToken: s.token, TokenType: "Bearer"}, nil
}

// HTTPClient returns a client that authenticates every request with the
// session token. Requests carry no Authorization header once the session has
// been invalidated or when no token is configured.
func (s *Session) HTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &authTransport{
			session: s,
			base: &oauth2.Transport{
				Source: s,
				Base:   http.DefaultTransport,
			},
		},
	}
}

// authTransport skips the oauth2 transport when there is no token to send.
type authTransport struct {
	session *Session
	base    *oauth2.Transport
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	tok, _ := t.session.Token()
	if tok.AccessToken == "" {
		return t.base.Base.RoundTrip(req)
	}

	return t.base.RoundTrip(req)
}
