package connectivity

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSwitchNotifiesOnTransition(t *testing.T) {
	s := NewSwitch(false)

	var got []bool

	unsubscribe := s.Subscribe(func(online bool) {
		got = append(got, online)
	})

	s.Set(false)
	s.Set(true)
	s.Set(true)
	s.Set(false)

	assert.Equal(t, []bool{true, false}, got)

	unsubscribe()
	unsubscribe()
	s.Set(true)

	assert.Len(t, got, 2, "no notifications after unsubscribe")
	assert.True(t, s.Online())
}

func TestProbe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	p := NewProbe(srv.URL, time.Second, nil)
	assert.False(t, p.Online())

	var got []bool

	p.Subscribe(func(online bool) {
		got = append(got, online)
	})

	ctx := context.Background()

	assert.True(t, p.Check(ctx), "any response counts as online")

	srv.Close()

	assert.False(t, p.Check(ctx))
	assert.Equal(t, []bool{true, false}, got)
}

func TestProbeRunStops(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	p := NewProbe(srv.URL, time.Second, nil)

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})

	go func() {
		p.Run(ctx, 10*time.Millisecond)
		close(done)
	}()

	assert.Eventually(t, p.Online, time.Second, 5*time.Millisecond)

	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
