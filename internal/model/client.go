package model

import "time"

// ClientID uniquely identifies a connected client. IDs are connection-scoped:
// a client that disconnects and reconnects gets a fresh ID.
type ClientID string

// Status is a client's matchmaking state
type Status string

const (
	// StatusActive means the client holds a marker and is playing
	StatusActive Status = "active"
	// StatusInactive means the client is waiting in the queue
	StatusInactive Status = "inactive"
)

// Marker is one of the two play tokens. Exactly one active client may hold each.
type Marker string

const (
	MarkerNone Marker = ""
	MarkerX    Marker = "X"
	MarkerO    Marker = "O"
)

// ClientRecord is the registry's view of one connected client.
//
// Invariants maintained by the registry:
//   - at most 2 records are active at any time
//   - active records hold distinct, non-empty markers
//   - inactive records hold MarkerNone
type ClientRecord struct {
	ID          ClientID
	DisplayName string
	Status      Status
	Marker      Marker

	// QueuedAt is when the client last entered the queue (on connect, or on
	// re-queue after losing). Meaningless while the client is active.
	QueuedAt time.Time

	// Seq is a monotonic sequence number assigned by the registry on every
	// transition into the queue. It breaks QueuedAt ties so FIFO promotion
	// is deterministic even when timestamps collide.
	Seq uint64

	ConnectedAt time.Time
}

// IsActive reports whether the record currently holds a play slot
func (r *ClientRecord) IsActive() bool {
	return r.Status == StatusActive
}
