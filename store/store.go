// Package store defines the record store contract and its backends. A store
// is a durable keyed collection of truck records; it owns id generation and
// makes no policy decisions.
package store

import (
	"context"
	"errors"

	"github.com/Mandeep003/nestle-truck-monitor/models"
)

// ErrNotFound is returned by Get when no record has the given id.
var ErrNotFound = errors.New("record not found")

// RecordStore is the adapter contract the workflow engine consumes.
// Last write wins: adapters perform whole-record writes with no version
// check, and concurrent engine instances race at the store.
type RecordStore interface {
	// ListAll returns every record. Iteration order is stable per backend
	// but otherwise unspecified.
	ListAll(ctx context.Context) ([]models.TruckRecord, error)
	// Get returns the record with the given id, or ErrNotFound.
	Get(ctx context.Context, id string) (models.TruckRecord, error)
	// Create persists a new record and returns the store-assigned id,
	// ignoring any id already set on the record.
	Create(ctx context.Context, record models.TruckRecord) (string, error)
	// Update replaces the record stored under id.
	Update(ctx context.Context, id string, record models.TruckRecord) error
	// Delete removes the record under id. Deleting an absent id is not an
	// error.
	Delete(ctx context.Context, id string) error
	// Close releases backend resources.
	Close() error
}
