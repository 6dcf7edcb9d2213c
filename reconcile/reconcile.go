// Package reconcile keeps the local ledger cache and the remote task store in
// step. Loads fall back from remote to cache to a default ledger, saves
// always land locally first, and remote pushes are coalesced per ledger key.
package reconcile

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/ayoisaiah/dayplan/connectivity"
	"github.com/ayoisaiah/dayplan/internal/apperr"
	"github.com/ayoisaiah/dayplan/internal/models"
	"github.com/ayoisaiah/dayplan/internal/session"
	"github.com/ayoisaiah/dayplan/ledger"
	"github.com/ayoisaiah/dayplan/stats"
)

var errCorruptCache = &apperr.Error{
	Kind:    apperr.StorageCorruption,
	Message: "cached ledger for %s is invalid",
}

// Cache is the local store the reconciler writes through to.
type Cache interface {
	Get(userKey, date string) ([]models.Task, bool)
	Set(userKey, date string, tasks []models.Task) error
	Clear(userKey, date string) error
}

// Remote is the remote task store.
type Remote interface {
	Fetch(ctx context.Context, date string) ([]models.Task, bool, error)
	Push(ctx context.Context, date string, tasks []models.Task, summary models.Summary) error
}

// Source names where a loaded ledger came from.
type Source string

const (
	SourceRemote  Source = "remote"
	SourceCache   Source = "cache"
	SourceDefault Source = "default"
)

// Status is the outcome of a save.
type Status string

const (
	// StatusSynced means the remote store accepted the ledger.
	StatusSynced Status = "synced"
	// StatusLocal means the ledger is saved locally and will sync later.
	StatusLocal Status = "saved locally, pending sync"
)

// Hook runs after a ledger has been fully synced.
type Hook func(date string, l ledger.Ledger)

// Result receives the outcome of a deferred push. Saves that are coalesced
// behind an in-flight push return StatusLocal at once; their real outcome is
// delivered here.
type Result func(date string, status Status, err error)

type Option func(*Reconciler)

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(r *Reconciler) {
		if l != nil {
			r.log = l
		}
	}
}

// WithSyncHook registers h to run after every fully synced push.
func WithSyncHook(h Hook) Option {
	return func(r *Reconciler) {
		r.hooks = append(r.hooks, h)
	}
}

// WithDeferredResult registers fn to receive the outcome of every deferred
// push.
func WithDeferredResult(fn Result) Option {
	return func(r *Reconciler) {
		r.deferred = fn
	}
}

// slot tracks the remote push for one ledger key. At most one push is in
// flight and at most one save waits behind it.
type slot struct {
	pending  *ledger.Ledger
	inFlight bool
}

// Reconciler implements the load and save contract for day ledgers.
type Reconciler struct {
	cache    Cache
	remote   Remote
	sess     *session.Session
	signal   connectivity.Signal
	log      *slog.Logger
	slots    map[string]*slot
	hooks    []Hook
	deferred Result
	wg       sync.WaitGroup
	mu       sync.Mutex
	closed   bool
}

// New returns a reconciler. remote may be nil, in which case every save
// resolves locally.
func New(
	cache Cache,
	remote Remote,
	sess *session.Session,
	signal connectivity.Signal,
	opts ...Option,
) *Reconciler {
	r := &Reconciler{
		cache:  cache,
		remote: remote,
		sess:   sess,
		signal: signal,
		log:    slog.Default(),
		slots:  make(map[string]*slot),
	}

	for _, opt := range opts {
		opt(r)
	}

	r.log = r.log.With(slog.String("component", "reconcile"))

	return r
}

func (r *Reconciler) online() bool {
	if r.remote == nil || !r.sess.Valid() {
		return false
	}

	return r.signal == nil || r.signal.Online()
}

func (r *Reconciler) key(date string) string {
	return r.sess.Key() + "/" + date
}

// Load returns the ledger for date. The remote copy wins when it can be
// fetched and is valid, and is written through to the cache. Otherwise the
// cached copy is used, and failing that a default ledger.
func (r *Reconciler) Load(ctx context.Context, date string) (ledger.Ledger, Source) {
	log := r.log.With(slog.String("date", date))

	if r.online() {
		tasks, found, err := r.remote.Fetch(ctx, date)

		switch {
		case err != nil:
			r.handleRemoteError(log, "fetch", err)
		case found:
			l := ledger.FromTasks(date, tasks)

			if err := l.Validate(); err != nil {
				log.Warn("remote ledger is invalid", slog.Any("error", err))
				break
			}

			r.stash(log, l)

			return l, SourceRemote
		default:
			log.Debug("no remote ledger")
		}
	}

	if l, ok := r.Cached(date); ok {
		return l, SourceCache
	}

	return ledger.Initialize(date), SourceDefault
}

// Stash writes l to the local cache without contacting the remote store.
// Failures are logged.
func (r *Reconciler) Stash(l ledger.Ledger) {
	r.stash(r.log.With(slog.String("date", l.Date())), l)
}

func (r *Reconciler) stash(log *slog.Logger, l ledger.Ledger) {
	if err := r.cache.Set(r.sess.Key(), l.Date(), l.Tasks()); err != nil {
		log.Error("local write failed", slog.Any("error", err))
	}
}

// Save writes l locally and then, when online, pushes it to the remote
// store. Only a rejected payload or refused credentials produce an error;
// every other remote failure resolves to StatusLocal.
func (r *Reconciler) Save(ctx context.Context, l ledger.Ledger) (Status, error) {
	r.Stash(l)

	return r.push(ctx, l)
}

// Cached returns the valid ledger cached for date, if any.
func (r *Reconciler) Cached(date string) (ledger.Ledger, bool) {
	tasks, ok := r.cache.Get(r.sess.Key(), date)
	if !ok {
		return ledger.Ledger{}, false
	}

	l := ledger.FromTasks(date, tasks)
	if err := l.Validate(); err != nil {
		r.log.Warn(
			"ignoring cached ledger",
			slog.Any("error", errCorruptCache.Fmt(date).Wrap(err)),
		)

		return ledger.Ledger{}, false
	}

	return l, true
}

// Replay pushes the cached ledger for date, if any.
func (r *Reconciler) Replay(ctx context.Context, date string) (Status, error) {
	l, ok := r.Cached(date)
	if !ok {
		return StatusLocal, nil
	}

	return r.push(ctx, l)
}

// Clear removes the cached ledger for date, or every cached ledger for the
// user when date is empty.
func (r *Reconciler) Clear(date string) error {
	return r.cache.Clear(r.sess.Key(), date)
}

// push sends l unless a push for the same key is already in flight, in which
// case l replaces any pending save and is sent once the current push ends.
func (r *Reconciler) push(ctx context.Context, l ledger.Ledger) (Status, error) {
	if !r.online() {
		return StatusLocal, nil
	}

	key := r.key(l.Date())

	r.mu.Lock()

	if r.closed {
		r.mu.Unlock()
		return StatusLocal, nil
	}

	s, ok := r.slots[key]
	if !ok {
		s = &slot{}
		r.slots[key] = s
	}

	if s.inFlight {
		s.pending = &l
		r.mu.Unlock()

		r.log.Debug("save coalesced", slog.String("key", key))

		return StatusLocal, nil
	}

	s.inFlight = true
	r.mu.Unlock()

	status, err := r.send(ctx, l)

	r.release(key, s)

	return status, err
}

// release hands the slot to the pending save, if there is one, or frees it.
func (r *Reconciler) release(key string, s *slot) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s.pending == nil || r.closed {
		s.pending = nil
		s.inFlight = false

		return
	}

	next := *s.pending
	s.pending = nil

	r.wg.Add(1)

	go func() {
		defer r.wg.Done()

		status, err := r.send(context.Background(), next)

		if r.deferred != nil && !r.isClosed() {
			r.deferred(next.Date(), status, err)
		}

		r.release(key, s)
	}()
}

// send performs one remote push of a snapshot of l and classifies the result.
func (r *Reconciler) send(ctx context.Context, l ledger.Ledger) (Status, error) {
	log := r.log.With(slog.String("date", l.Date()))

	tasks := l.Tasks()

	err := r.remote.Push(ctx, l.Date(), tasks, stats.Summarize(tasks))

	if r.isClosed() {
		log.Debug("discarding push result after close", slog.Any("error", err))
		return StatusLocal, nil
	}

	if err == nil {
		log.Info("ledger synced")

		for _, h := range r.hooks {
			h(l.Date(), l)
		}

		return StatusSynced, nil
	}

	if r.handleRemoteError(log, "push", err) {
		return StatusLocal, err
	}

	return StatusLocal, nil
}

// handleRemoteError logs err and reports whether it must be surfaced.
func (r *Reconciler) handleRemoteError(log *slog.Logger, op string, err error) bool {
	switch apperr.KindOf(err) {
	case apperr.RemoteRejection:
		log.Error("remote store rejected ledger", slog.String("op", op), slog.Any("error", err))
		return true
	case apperr.Session:
		log.Error("session rejected", slog.String("op", op), slog.Any("error", err))
		r.sess.Invalidate()

		return true
	default:
		log.Warn("remote unavailable", slog.String("op", op), slog.Any("error", err))
		return false
	}
}

// Watch saves the ledger returned by active every interval and replays the
// cached ledger for the active date whenever connectivity is restored. It
// blocks until ctx is done, then removes its subscription and waits for the
// replays it started.
func (r *Reconciler) Watch(
	ctx context.Context,
	active func() ledger.Ledger,
	interval time.Duration,
	onSave func(Status, error),
) {
	if onSave == nil {
		onSave = func(Status, error) {}
	}

	var replays sync.WaitGroup

	reconnected := make(chan struct{}, 1)

	if r.signal != nil {
		unsubscribe := r.signal.Subscribe(func(online bool) {
			if !online {
				return
			}

			select {
			case reconnected <- struct{}{}:
			default:
			}
		})
		defer unsubscribe()
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	defer replays.Wait()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l := active()
			if l.Len() == 0 {
				continue
			}

			onSave(r.Save(ctx, l))
		case <-reconnected:
			date := active().Date()

			r.log.Info("connectivity restored, replaying cached ledger", slog.String("date", date))

			replays.Add(1)

			go func() {
				defer replays.Done()

				onSave(r.Replay(context.WithoutCancel(ctx), date))
			}()
		}
	}
}

func (r *Reconciler) isClosed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.closed
}

// Close stops accepting pushes and waits for deferred pushes to finish.
// Results arriving after Close are discarded.
func (r *Reconciler) Close() {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()

	r.wg.Wait()
}
