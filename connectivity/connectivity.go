// Package connectivity reports whether the remote task store is reachable
// and notifies subscribers when that changes.
package connectivity

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"
)

// Signal is a boolean online/offline state with change notifications.
type Signal interface {
	Online() bool
	// Subscribe registers fn to be called with the new state after every
	// transition. The returned function removes the subscription.
	Subscribe(fn func(online bool)) (unsubscribe func())
}

// broadcaster tracks a state and its subscribers.
type broadcaster struct {
	subs   map[int]func(bool)
	mu     sync.Mutex
	nextID int
	online bool
}

func (b *broadcaster) Online() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.online
}

func (b *broadcaster) Subscribe(fn func(bool)) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.subs == nil {
		b.subs = make(map[int]func(bool))
	}

	id := b.nextID
	b.nextID++
	b.subs[id] = fn

	var once sync.Once

	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
		})
	}
}

// set updates the state and notifies subscribers if it changed.
func (b *broadcaster) set(online bool) bool {
	b.mu.Lock()

	if b.online == online {
		b.mu.Unlock()
		return false
	}

	b.online = online

	fns := make([]func(bool), 0, len(b.subs))
	for _, fn := range b.subs {
		fns = append(fns, fn)
	}

	b.mu.Unlock()

	for _, fn := range fns {
		fn(online)
	}

	return true
}

// Switch is a Signal whose state is set by hand, as with --offline or in
// tests.
type Switch struct {
	broadcaster
}

var _ Signal = (*Switch)(nil)

// NewSwitch returns a Switch in the given state.
func NewSwitch(online bool) *Switch {
	s := &Switch{}
	s.online = online

	return s
}

// Set changes the state, notifying subscribers on a transition.
func (s *Switch) Set(online bool) {
	s.set(online)
}

// Probe is a Signal that polls a URL. Any HTTP response counts as online;
// only transport failures count as offline.
type Probe struct {
	client *http.Client
	log    *slog.Logger
	url    string
	broadcaster
}

var _ Signal = (*Probe)(nil)

// NewProbe returns a probe for url. It reports offline until the first check.
func NewProbe(url string, timeout time.Duration, logger *slog.Logger) *Probe {
	if logger == nil {
		logger = slog.Default()
	}

	return &Probe{
		url:    url,
		client: &http.Client{Timeout: timeout},
		log:    logger.With(slog.String("component", "probe")),
	}
}

// Check performs one probe and returns the resulting state.
func (p *Probe) Check(ctx context.Context) bool {
	online := p.reachable(ctx)

	if p.set(online) {
		p.log.Info("connectivity changed", slog.Bool("online", online))
	}

	return online
}

func (p *Probe) reachable(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, p.url, http.NoBody)
	if err != nil {
		return false
	}

	resp, err := p.client.Do(req)
	if err != nil {
		p.log.Debug("probe failed", slog.Any("error", err))
		return false
	}

	resp.Body.Close()

	return true
}

// Run checks immediately and then every interval until ctx is done.
func (p *Probe) Run(ctx context.Context, interval time.Duration) {
	p.Check(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.Check(ctx)
		}
	}
}
