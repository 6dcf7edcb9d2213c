package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayoisaiah/dayplan/internal/apperr"
	"github.com/ayoisaiah/dayplan/internal/models"
	"github.com/ayoisaiah/dayplan/internal/session"
	"github.com/ayoisaiah/dayplan/internal/timeutil"
	"github.com/ayoisaiah/dayplan/ledger"
	"github.com/ayoisaiah/dayplan/stats"
	"github.com/ayoisaiah/dayplan/store"
)

const testDate = "2024-05-01"

func init() {
	gin.SetMode(gin.TestMode)
}

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func newTestServer(t *testing.T, tokens map[string]string) *httptest.Server {
	t.Helper()

	db, err := store.NewClient(filepath.Join(t.TempDir(), "server.db"), discard)
	require.NoError(t, err)

	t.Cleanup(func() { _ = db.Close() })

	srv := httptest.NewServer(NewServer(db, tokens, discard).Handler())
	t.Cleanup(srv.Close)

	return srv
}

func TestClientServerRoundTrip(t *testing.T) {
	srv := newTestServer(t, map[string]string{"secret": "u1"})

	c := NewClient(srv.URL+"/api/", session.New("u1", "secret", nil), time.Second)
	ctx := context.Background()

	_, found, err := c.Fetch(ctx, testDate)
	require.NoError(t, err)
	assert.False(t, found)

	l, err := ledger.Initialize(testDate).InsertAfter(0)
	require.NoError(t, err)

	tasks := l.Tasks()
	tasks[0].PlanTask = "sleep"
	tasks[0].Category = models.Sleep

	require.NoError(t, c.Push(ctx, testDate, tasks, stats.Summarize(tasks)))

	got, found, err := c.Fetch(ctx, testDate)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, tasks, got, "ids and fields survive the round trip")
}

func TestServerRejectsInvalidLedger(t *testing.T) {
	srv := newTestServer(t, nil)

	c := NewClient(srv.URL+"/api", session.New("", "", nil), time.Second)

	tasks := ledger.Initialize(testDate).Tasks()
	tasks[1].StartTime = timeutil.NewClock(1, 30)

	err := c.Push(context.Background(), testDate, tasks, stats.Summarize(tasks))
	require.ErrorIs(t, err, ErrRejected)
	assert.Equal(t, apperr.RemoteRejection, apperr.KindOf(err))
}

func TestServerRejectsUnknownCategory(t *testing.T) {
	srv := newTestServer(t, nil)

	body := []byte(`{"tasks":[{"id":"a","startTime":"00:00","endTime":"24:00","category":"Gaming","duration":1440}]}`)

	resp, err := http.Post(srv.URL+"/api/tasks/"+testDate, "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestServerBadDate(t *testing.T) {
	srv := newTestServer(t, nil)

	resp, err := http.Get(srv.URL + "/api/tasks/yesterday")
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestServerStatusCreatedThenOK(t *testing.T) {
	srv := newTestServer(t, nil)

	tasks := ledger.Initialize(testDate).Tasks()
	body, err := json.Marshal(Payload{Tasks: tasks, Summary: stats.Summarize(tasks)})
	require.NoError(t, err)

	var codes []int

	for range 2 {
		resp, err := http.Post(srv.URL+"/api/tasks/"+testDate, "application/json", bytes.NewReader(body))
		require.NoError(t, err)
		resp.Body.Close()

		codes = append(codes, resp.StatusCode)
	}

	assert.Equal(t, []int{http.StatusCreated, http.StatusOK}, codes)
}

func TestServerScopesByToken(t *testing.T) {
	srv := newTestServer(t, map[string]string{"a": "alice", "b": "bob"})
	ctx := context.Background()

	alice := NewClient(srv.URL+"/api", session.New("alice", "a", nil), time.Second)
	bob := NewClient(srv.URL+"/api", session.New("bob", "b", nil), time.Second)

	tasks := ledger.Initialize(testDate).Tasks()
	require.NoError(t, alice.Push(ctx, testDate, tasks, stats.Summarize(tasks)))

	_, found, err := bob.Fetch(ctx, testDate)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestClientUnauthorized(t *testing.T) {
	srv := newTestServer(t, map[string]string{"secret": "u1"})

	for _, token := range []string{"", "wrong"} {
		c := NewClient(srv.URL+"/api", session.New("u1", token, nil), time.Second)

		_, _, err := c.Fetch(context.Background(), testDate)
		require.ErrorIs(t, err, ErrUnauthorized, "token %q", token)
		assert.Equal(t, apperr.Session, apperr.KindOf(err))
	}
}

func TestClientStatusClassification(t *testing.T) {
	cases := []struct {
		name   string
		status int
		kind   apperr.Kind
	}{
		{"ok", http.StatusOK, ""},
		{"created", http.StatusCreated, ""},
		{"bad request", http.StatusBadRequest, apperr.RemoteRejection},
		{"unauthorized", http.StatusUnauthorized, apperr.Session},
		{"server error", http.StatusInternalServerError, apperr.Transient},
		{"unavailable", http.StatusServiceUnavailable, apperr.Transient},
		{"not found", http.StatusNotFound, apperr.Transient},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tc.status)
			}))
			defer srv.Close()

			c := NewClient(srv.URL, session.New("", "", nil), time.Second)

			err := c.Push(context.Background(), testDate, nil, models.Summary{})
			if tc.kind == "" {
				assert.NoError(t, err)
				return
			}

			assert.Equal(t, tc.kind, apperr.KindOf(err))
		})
	}
}

func TestClientNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewClient(url, session.New("", "", nil), time.Second)

	_, _, err := c.Fetch(context.Background(), testDate)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, apperr.Transient, apperr.KindOf(err))
}

func TestClientMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<html>"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, session.New("", "", nil), time.Second)

	_, _, err := c.Fetch(context.Background(), testDate)
	assert.Equal(t, apperr.Transient, apperr.KindOf(err))
}

func TestClientTimeout(t *testing.T) {
	release := make(chan struct{})

	srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	c := NewClient(srv.URL, session.New("", "", nil), 50*time.Millisecond)

	_, _, err := c.Fetch(context.Background(), testDate)
	assert.Equal(t, apperr.Transient, apperr.KindOf(err))
}
