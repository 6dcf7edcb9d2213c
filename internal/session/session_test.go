package session

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKey(t *testing.T) {
	assert.Equal(t, AnonymousKey, New("", "", nil).Key())
	assert.Equal(t, AnonymousKey, New("  ", "tok", nil).Key())
	assert.Equal(t, "u1", New("u1", "", nil).Key())

	var s *Session
	assert.Equal(t, AnonymousKey, s.Key())
}

func TestInvalidateOnce(t *testing.T) {
	var calls int

	s := New("u1", "secret", func() { calls++ })
	assert.True(t, s.Valid())

	s.Invalidate()
	s.Invalidate()

	assert.False(t, s.Valid())
	assert.Equal(t, 1, calls)

	tok, err := s.Token()
	require.NoError(t, err)
	assert.Empty(t, tok.AccessToken)
}

func TestHTTPClientAuthorization(t *testing.T) {
	var got []string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = append(got, r.Header.Get("Authorization"))
	}))
	defer srv.Close()

	s := New("u1", "secret", nil)
	client := s.HTTPClient(time.Second)

	resp, err := client.Get(srv.URL)
	require.NoError(t, err)
	resp.Body.Close()

	s.Invalidate()

	resp, err = client.Get(srv.URL)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, []string{"Bearer secret", ""}, got)
}
