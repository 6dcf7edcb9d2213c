// Package store persists day ledgers locally in a BoltDB file
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"
	bolterrors "go.etcd.io/bbolt/errors"

	"github.com/ayoisaiah/dayplan/internal/apperr"
	"github.com/ayoisaiah/dayplan/internal/models"
	"github.com/ayoisaiah/dayplan/internal/osutil"
)

const (
	ledgerBucket = "ledgers"
	keyPrefix    = "daily_tasks_"
	anonymousKey = "anonymous"
)

var (
	errDBLocked = &apperr.Error{
		Message: "is dayplan already running? The database at %s is locked",
	}

	errCorruptEntry = &apperr.Error{
		Kind:    apperr.StorageCorruption,
		Message: "stored entry %s is malformed",
	}
)

// StorageKey returns the name under which a user's days are stored.
func StorageKey(userKey string) string {
	userKey = strings.TrimSpace(userKey)
	if userKey == "" {
		userKey = anonymousKey
	}

	return keyPrefix + userKey
}

// Client is a BoltDB database client. Each user's days live under a single
// key as a JSON object mapping dates to interval lists, and every write is a
// read-modify-write of that object inside one transaction.
type Client struct {
	db  *bolt.DB
	log *slog.Logger
	// locks serializes read-modify-write cycles per user key.
	locks sync.Map
}

var _ DB = (*Client)(nil)

// NewClient opens (or creates) the database at dbPath.
func NewClient(dbPath string, logger *slog.Logger) (*Client, error) {
	if logger == nil {
		logger = slog.Default()
	}

	db, err := openDB(dbPath)
	if err != nil {
		return nil, err
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(ledgerBucket))
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Client{
		db:  db,
		log: logger.With(slog.String("component", "store")),
	}, nil
}

// openDB creates or opens a database and locks it.
func openDB(dbPath string) (*bolt.DB, error) {
	var fileMode fs.FileMode = osutil.FilePermission

	if err := os.MkdirAll(filepath.Dir(dbPath), osutil.DirPermission); err != nil {
		return nil, err
	}

	db, err := bolt.Open(
		dbPath,
		fileMode,
		&bolt.Options{Timeout: 1 * time.Second},
	)
	if err != nil {
		if errors.Is(err, bolterrors.ErrDatabaseOpen) ||
			errors.Is(err, bolterrors.ErrTimeout) {
			return nil, errDBLocked.Fmt(dbPath)
		}

		return nil, err
	}

	return db, nil
}

func (c *Client) lock(userKey string) func() {
	mu, _ := c.locks.LoadOrStore(StorageKey(userKey), &sync.Mutex{})

	m := mu.(*sync.Mutex)
	m.Lock()

	return m.Unlock
}

// readDays decodes a user's entry into raw per-date values so that one
// malformed day does not hide the others.
func (c *Client) readDays(b *bolt.Bucket, key string) (map[string]json.RawMessage, error) {
	days := make(map[string]json.RawMessage)

	v := b.Get([]byte(key))
	if len(v) == 0 {
		return days, nil
	}

	if err := json.Unmarshal(v, &days); err != nil {
		return make(map[string]json.RawMessage), errCorruptEntry.Fmt(key).Wrap(err)
	}

	return days, nil
}

func (c *Client) writeDays(b *bolt.Bucket, key string, days map[string]json.RawMessage) error {
	if len(days) == 0 {
		return b.Delete([]byte(key))
	}

	v, err := json.Marshal(days)
	if err != nil {
		return err
	}

	return b.Put([]byte(key), v)
}

func (c *Client) Get(userKey, date string) ([]models.Task, bool) {
	key := StorageKey(userKey)

	var tasks []models.Task

	err := c.db.View(func(tx *bolt.Tx) error {
		days, err := c.readDays(tx.Bucket([]byte(ledgerBucket)), key)
		if err != nil {
			return err
		}

		raw, ok := days[date]
		if !ok {
			return nil
		}

		if err := json.Unmarshal(raw, &tasks); err != nil {
			tasks = nil
			return errCorruptEntry.Fmt(key + "/" + date).Wrap(err)
		}

		return nil
	})
	if err != nil {
		c.log.Error(
			"reading cached ledger failed",
			slog.String("key", key),
			slog.String("date", date),
			slog.Any("error", err),
		)

		return nil, false
	}

	if len(tasks) == 0 {
		return nil, false
	}

	return tasks, true
}

func (c *Client) Set(userKey, date string, tasks []models.Task) error {
	if strings.TrimSpace(date) == "" {
		return errors.New("cannot save tasks: no date provided")
	}

	key := StorageKey(userKey)

	if len(tasks) == 0 {
		c.log.Debug("skipping empty ledger", slog.String("key", key), slog.String("date", date))
		return nil
	}

	raw, err := json.Marshal(tasks)
	if err != nil {
		return err
	}

	unlock := c.lock(userKey)
	defer unlock()

	err = c.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(ledgerBucket))

		days, err := c.readDays(b, key)
		if err != nil {
			c.log.Warn(
				"replacing malformed cache entry",
				slog.String("key", key),
				slog.Any("error", err),
			)
		}

		days[date] = raw

		return c.writeDays(b, key, days)
	})
	if err != nil {
		return fmt.Errorf("saving %s for %s: %w", date, key, err)
	}

	c.log.Debug("saved ledger", slog.String("key", key), slog.String("date", date))

	return nil
}

func (c *Client) Clear(userKey, date string) error {
	key := StorageKey(userKey)

	unlock := c.lock(userKey)
	defer unlock()

	return c.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(ledgerBucket))

		if date == "" {
			return b.Delete([]byte(key))
		}

		days, err := c.readDays(b, key)
		if err != nil {
			c.log.Warn("clearing malformed cache entry", slog.String("key", key), slog.Any("error", err))
			return b.Delete([]byte(key))
		}

		delete(days, date)

		return c.writeDays(b, key, days)
	})
}

func (c *Client) Dates(userKey string) ([]string, error) {
	key := StorageKey(userKey)

	var dates []string

	err := c.db.View(func(tx *bolt.Tx) error {
		days, err := c.readDays(tx.Bucket([]byte(ledgerBucket)), key)
		if err != nil {
			return err
		}

		for d := range days {
			dates = append(dates, d)
		}

		return nil
	})

	sort.Strings(dates)

	return dates, err
}

func (c *Client) Import(userKey string, days map[string][]models.Task) error {
	key := StorageKey(userKey)

	unlock := c.lock(userKey)
	defer unlock()

	return c.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(ledgerBucket))

		existing, err := c.readDays(b, key)
		if err != nil {
			c.log.Warn("replacing malformed cache entry", slog.String("key", key), slog.Any("error", err))
		}

		for date, tasks := range days {
			if len(tasks) == 0 {
				continue
			}

			raw, err := json.Marshal(tasks)
			if err != nil {
				return err
			}

			existing[date] = raw
		}

		return c.writeDays(b, key, existing)
	})
}

func (c *Client) Close() error {
	return c.db.Close()
}
