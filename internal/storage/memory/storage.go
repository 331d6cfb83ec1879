package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/lexc24/tictactoe/internal/model"
	"github.com/lexc24/tictactoe/internal/storage"
)

// Registry is an in-memory implementation of the registry interface.
// All reads are strongly consistent with preceding writes by construction.
type Registry struct {
	mu sync.RWMutex

	clients map[model.ClientID]*model.ClientRecord

	// seq increments on every transition into the queue. It gives inactive
	// records a deterministic promotion order even when QueuedAt collides.
	seq uint64
}

// New creates a new in-memory registry
func New() *Registry {
	return &Registry{
		clients: make(map[model.ClientID]*model.ClientRecord),
	}
}

// Ensure Registry implements the interface
var _ storage.Registry = (*Registry)(nil)

func (r *Registry) Create(ctx context.Context, id model.ClientID, queuedAt time.Time) (*model.ClientRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.clients[id]; ok {
		return nil, model.ErrDuplicateClient
	}

	r.seq++
	rec := &model.ClientRecord{
		ID:          id,
		Status:      model.StatusInactive,
		Marker:      model.MarkerNone,
		QueuedAt:    queuedAt,
		Seq:         r.seq,
		ConnectedAt: queuedAt,
	}
	r.clients[id] = rec

	cp := *rec
	return &cp, nil
}

func (r *Registry) Remove(ctx context.Context, id model.ClientID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.clients, id)
	return nil
}

func (r *Registry) Get(ctx context.Context, id model.ClientID) (*model.ClientRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.clients[id]
	if !ok {
		return nil, model.ErrClientNotFound
	}
	cp := *rec
	return &cp, nil
}

func (r *Registry) SetActive(ctx context.Context, id model.ClientID, marker model.Marker) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.clients[id]
	if !ok {
		return model.ErrClientNotFound
	}

	if marker != model.MarkerX && marker != model.MarkerO {
		return model.ErrInvariantViolation
	}

	// The invariant is re-validated here against authoritative state, not a
	// caller-supplied pre-read: the write is rejected whole on conflict.
	for _, other := range r.clients {
		if other.ID == id || other.Status != model.StatusActive {
			continue
		}
		if other.Marker == marker {
			return model.ErrInvariantViolation
		}
	}
	if rec.Status != model.StatusActive && r.activeCountLocked() >= 2 {
		return model.ErrInvariantViolation
	}

	rec.Status = model.StatusActive
	rec.Marker = marker
	rec.QueuedAt = time.Time{}
	return nil
}

func (r *Registry) SetInactive(ctx context.Context, id model.ClientID, queuedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.clients[id]
	if !ok {
		return model.ErrClientNotFound
	}

	r.seq++
	rec.Status = model.StatusInactive
	rec.Marker = model.MarkerNone
	rec.QueuedAt = queuedAt
	rec.Seq = r.seq
	return nil
}

func (r *Registry) SetDisplayName(ctx context.Context, id model.ClientID, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.clients[id]
	if !ok {
		return model.ErrClientNotFound
	}
	rec.DisplayName = name
	return nil
}

func (r *Registry) ActiveCount(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.activeCountLocked(), nil
}

func (r *Registry) activeCountLocked() int {
	count := 0
	for _, rec := range r.clients {
		if rec.Status == model.StatusActive {
			count++
		}
	}
	return count
}

func (r *Registry) ActiveRecords(ctx context.Context) ([]model.ClientRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var active []model.ClientRecord
	for _, rec := range r.clients {
		if rec.Status == model.StatusActive {
			active = append(active, *rec)
		}
	}
	sortActive(active)
	return active, nil
}

func (r *Registry) OldestInactive(ctx context.Context, limit int) ([]model.ClientRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var waiting []model.ClientRecord
	for _, rec := range r.clients {
		if rec.Status == model.StatusInactive {
			waiting = append(waiting, *rec)
		}
	}
	sortQueued(waiting)

	if limit >= 0 && len(waiting) > limit {
		waiting = waiting[:limit]
	}
	return waiting, nil
}

func (r *Registry) Snapshot(ctx context.Context) ([]model.ClientRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var active, waiting []model.ClientRecord
	for _, rec := range r.clients {
		if rec.Status == model.StatusActive {
			active = append(active, *rec)
		} else {
			waiting = append(waiting, *rec)
		}
	}
	sortActive(active)
	sortQueued(waiting)

	return append(active, waiting...), nil
}

// sortActive orders active records X before O
func sortActive(records []model.ClientRecord) {
	sort.Slice(records, func(i, j int) bool {
		return markerRank(records[i].Marker) < markerRank(records[j].Marker)
	})
}

func markerRank(m model.Marker) int {
	switch m {
	case model.MarkerX:
		return 0
	case model.MarkerO:
		return 1
	default:
		return 2
	}
}

// sortQueued orders inactive records by promotion order
func sortQueued(records []model.ClientRecord) {
	sort.Slice(records, func(i, j int) bool {
		if !records[i].QueuedAt.Equal(records[j].QueuedAt) {
			return records[i].QueuedAt.Before(records[j].QueuedAt)
		}
		return records[i].Seq < records[j].Seq
	})
}
