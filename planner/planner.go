// Package planner is the surface the presentation layer works against. It
// holds the ledger being edited, applies mutations one at a time, and routes
// every load and save through the reconciler.
package planner

import (
	"context"
	"sync"
	"time"

	"github.com/ayoisaiah/dayplan/internal/models"
	"github.com/ayoisaiah/dayplan/ledger"
	"github.com/ayoisaiah/dayplan/reconcile"
	"github.com/ayoisaiah/dayplan/stats"
)

// Syncer loads and saves ledgers.
type Syncer interface {
	Load(ctx context.Context, date string) (ledger.Ledger, reconcile.Source)
	Save(ctx context.Context, l ledger.Ledger) (reconcile.Status, error)
	Stash(l ledger.Ledger)
	Cached(date string) (ledger.Ledger, bool)
	Clear(date string) error
	Watch(
		ctx context.Context,
		active func() ledger.Ledger,
		interval time.Duration,
		onSave func(reconcile.Status, error),
	)
}

// Planner owns the ledger for one date.
type Planner struct {
	syncer  Syncer
	current ledger.Ledger
	source  reconcile.Source
	mu      sync.Mutex
}

// Open loads the ledger for date.
func Open(ctx context.Context, s Syncer, date string) *Planner {
	l, src := s.Load(ctx, date)

	return &Planner{
		syncer:  s,
		current: l,
		source:  src,
	}
}

// Ledger returns the current ledger.
func (p *Planner) Ledger() ledger.Ledger {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.current
}

// Source reports where the ledger was loaded from.
func (p *Planner) Source() reconcile.Source {
	return p.source
}

// Summary returns the totals for the current ledger.
func (p *Planner) Summary() models.Summary {
	return stats.Summarize(p.Ledger().Tasks())
}

// apply runs fn against the current ledger and commits the result, writing
// it to the local cache. On error the current ledger is left as it was.
func (p *Planner) apply(fn func(ledger.Ledger) (ledger.Ledger, error)) (ledger.Ledger, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	next, err := fn(p.current)
	if err != nil {
		return p.current, err
	}

	p.current = next
	p.syncer.Stash(next)

	return next, nil
}

// Apply runs a sequence of changes as one mutation. fn receives the current
// ledger and returns the result of all its changes; the result is committed
// only if fn succeeds, so a failing step leaves the current and cached ledger
// untouched.
func (p *Planner) Apply(fn func(ledger.Ledger) (ledger.Ledger, error)) (ledger.Ledger, error) {
	return p.apply(fn)
}

func (p *Planner) InsertAfter(index int) (ledger.Ledger, error) {
	return p.apply(func(l ledger.Ledger) (ledger.Ledger, error) {
		return l.InsertAfter(index)
	})
}

func (p *Planner) UpdateBoundary(
	id string,
	field ledger.Boundary,
	value string,
) (ledger.Ledger, error) {
	return p.apply(func(l ledger.Ledger) (ledger.Ledger, error) {
		return l.UpdateBoundary(id, field, value)
	})
}

func (p *Planner) Edit(id string, e ledger.Edit) (ledger.Ledger, error) {
	return p.apply(func(l ledger.Ledger) (ledger.Ledger, error) {
		return l.Edit(id, e)
	})
}

func (p *Planner) Delete(id string) (ledger.Ledger, error) {
	return p.apply(func(l ledger.Ledger) (ledger.Ledger, error) {
		return l.Delete(id)
	})
}

// Save pushes a snapshot of the current ledger.
func (p *Planner) Save(ctx context.Context) (reconcile.Status, error) {
	return p.syncer.Save(ctx, p.Ledger())
}

// Clear drops the cached ledger, resets the day to the default ledger, and
// saves it so the remote copy is reset too.
func (p *Planner) Clear(ctx context.Context) (reconcile.Status, error) {
	p.mu.Lock()

	date := p.current.Date()

	if err := p.syncer.Clear(date); err != nil {
		p.mu.Unlock()
		return reconcile.StatusLocal, err
	}

	p.current = ledger.Initialize(date)
	p.mu.Unlock()

	return p.Save(ctx)
}

// Refresh adopts the cached ledger when there is one, picking up changes
// written by other processes, and returns the current ledger.
func (p *Planner) Refresh() ledger.Ledger {
	p.mu.Lock()
	defer p.mu.Unlock()

	if l, ok := p.syncer.Cached(p.current.Date()); ok {
		p.current = l
	}

	return p.current
}

// Run autosaves every interval and replays the cached ledger on reconnect
// until ctx is done. Each autosave refreshes from the cache first.
func (p *Planner) Run(
	ctx context.Context,
	interval time.Duration,
	onSave func(reconcile.Status, error),
) {
	p.syncer.Watch(ctx, p.Refresh, interval, onSave)
}
