package storage

import (
	"context"
	"time"

	"github.com/lexc24/tictactoe/internal/model"
)

// Registry is the authoritative store of connected clients and their
// matchmaking state. Implementations must make every mutation visible to
// immediately subsequent reads (no eventual-consistency lag), and must reject
// SetActive calls that would break the two-active / distinct-marker invariant
// without partially applying them.
type Registry interface {
	// Create inserts a new inactive record queued at the given time.
	// Returns model.ErrDuplicateClient if the ID is already registered.
	Create(ctx context.Context, id model.ClientID, queuedAt time.Time) (*model.ClientRecord, error)

	// Remove deletes the record. Removing an absent ID is a no-op, since a
	// disconnect can race with an already-completed cleanup.
	Remove(ctx context.Context, id model.ClientID) error

	// Get returns the record or model.ErrClientNotFound
	Get(ctx context.Context, id model.ClientID) (*model.ClientRecord, error)

	// SetActive transitions the record to active with the given marker.
	// Returns model.ErrInvariantViolation if the marker is already held by
	// another active record or a third record would become active.
	SetActive(ctx context.Context, id model.ClientID, marker model.Marker) error

	// SetInactive transitions the record to inactive, clears its marker, and
	// re-queues it at the back with the given timestamp.
	SetInactive(ctx context.Context, id model.ClientID, queuedAt time.Time) error

	// SetDisplayName updates the record's display name. Empty names are
	// allowed; callers render a placeholder downstream.
	SetDisplayName(ctx context.Context, id model.ClientID, name string) error

	// ActiveCount returns the number of active records (0, 1, or 2)
	ActiveCount(ctx context.Context) (int, error)

	// ActiveRecords returns all active records
	ActiveRecords(ctx context.Context) ([]model.ClientRecord, error)

	// OldestInactive returns up to limit inactive records in promotion order:
	// ascending QueuedAt, ties broken by enqueue sequence.
	OldestInactive(ctx context.Context, limit int) ([]model.ClientRecord, error)

	// Snapshot returns every record in roster order: active records first
	// (by marker, X before O), then inactive records in promotion order.
	Snapshot(ctx context.Context) ([]model.ClientRecord, error)
}
