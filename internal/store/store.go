// Package store persists the queue of pending cadastral lookups
// between CLI invocations.
package store

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/Egidiu/cadastral-cli/internal/model"
)

// Sentinel errors shared by both drivers.
var (
	// ErrDuplicate means a structurally equal request is already queued.
	ErrDuplicate = eris.New("store: request already queued")

	// ErrNotFound means no request with the given id exists.
	ErrNotFound = eris.New("store: request not found")
)

// Store is the persistence interface for the lookup queue.
type Store interface {
	// Add queues a request, assigning its id and timestamp. Returns
	// ErrDuplicate when an equal request is already pending.
	Add(ctx context.Context, req model.LookupRequest) (*model.LookupRequest, error)

	// List returns the pending requests in insertion order.
	List(ctx context.Context) ([]model.LookupRequest, error)

	// Remove deletes one request by id.
	Remove(ctx context.Context, id string) error

	// Clear deletes all pending requests and reports how many.
	Clear(ctx context.Context) (int, error)

	// Consume atomically returns the pending batch in insertion order
	// and empties the queue; a processing run consumes the whole batch
	// exactly once.
	Consume(ctx context.Context) ([]model.LookupRequest, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
