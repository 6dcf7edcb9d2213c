package store

import "github.com/ayoisaiah/dayplan/internal/models"

// DB is the local ledger cache. Entries are scoped by user key and date, and
// every write replaces the stored intervals for a date wholesale.
type DB interface {
	// Get returns the intervals stored for date. Malformed entries are logged
	// and reported as absent.
	Get(userKey, date string) ([]models.Task, bool)
	// Set overwrites the intervals stored for date. An empty list is ignored.
	Set(userKey, date string, tasks []models.Task) error
	// Clear removes one date, or every date for the user when date is empty.
	Clear(userKey, date string) error
	// Dates lists the dates stored for the user in ascending order.
	Dates(userKey string) ([]string, error)
	// Import merges whole days into the user's entry.
	Import(userKey string, days map[string][]models.Task) error
	// Close ends the database connection
	Close() error
}
