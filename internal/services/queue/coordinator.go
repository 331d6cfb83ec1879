// Package queue implements the matchmaking coordinator: it keeps at most two
// clients active with distinct markers and promotes waiting clients in FIFO
// order whenever a slot frees up.
package queue

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/lexc24/tictactoe/internal/dependencies/clock"
	"github.com/lexc24/tictactoe/internal/model"
	"github.com/lexc24/tictactoe/internal/services/marker"
	"github.com/lexc24/tictactoe/internal/storage"
)

// MaxActive is the number of play slots
const MaxActive = 2

// Policy selects what happens to the winner when a game ends
type Policy string

const (
	// PolicyWinnerStays keeps the winner active; only the loser re-queues
	PolicyWinnerStays Policy = "winner_stays"
	// PolicyBothRequeue sends winner and loser both to the back of the queue
	PolicyBothRequeue Policy = "both_requeue"
)

// Config holds coordinator settings
type Config struct {
	Policy Policy
}

// DefaultConfig returns the default coordinator configuration
func DefaultConfig() Config {
	return Config{Policy: PolicyWinnerStays}
}

// Notifier receives the full roster after each committed mutation. Calls are
// made in commit order; implementations must not block the coordinator.
type Notifier interface {
	RosterChanged(ctx context.Context, roster []model.ClientRecord)
}

// Coordinator handles connect, disconnect, game-over and name-update events.
//
// Every event handler serializes on a single mutex. The registry is the only
// shared mutable state, and the read-check-write sequences here (slot counting
// then promoting) are only correct when no other mutation interleaves.
type Coordinator struct {
	mu       sync.Mutex
	registry storage.Registry
	clock    clock.Clock
	notifier Notifier
	cfg      Config
	logger   *slog.Logger
}

// NewCoordinator creates a new Coordinator
func NewCoordinator(registry storage.Registry, clk clock.Clock, notifier Notifier, cfg Config, logger *slog.Logger) *Coordinator {
	if cfg.Policy == "" {
		cfg.Policy = PolicyWinnerStays
	}
	return &Coordinator{
		registry: registry,
		clock:    clk,
		notifier: notifier,
		cfg:      cfg,
		logger:   logger.With(slog.String("component", "queue")),
	}
}

// Connect registers a new client and promotes it immediately if a slot is
// free. A duplicate connect for an already-registered ID is treated as an
// idempotent reconnect: no re-promotion, just a fresh roster push.
func (c *Coordinator) Connect(ctx context.Context, id model.ClientID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock.Now()

	if _, err := c.registry.Create(ctx, id, now); err != nil {
		if errors.Is(err, model.ErrDuplicateClient) {
			c.logger.Warn("duplicate connect for registered client",
				slog.String("client_id", string(id)))
			c.broadcast(ctx)
			return nil
		}
		return err
	}

	count, err := c.registry.ActiveCount(ctx)
	if err != nil {
		return err
	}

	if count < MaxActive {
		if err := c.promote(ctx, id); err != nil {
			c.logger.Error("failed to promote new client",
				slog.String("client_id", string(id)),
				slog.String("error", err.Error()))
		}
	} else {
		c.logger.Info("client queued",
			slog.String("client_id", string(id)))
	}

	c.broadcast(ctx)
	return nil
}

// Disconnect removes a client. If it held a play slot, the oldest waiting
// client is promoted into it. Disconnecting an unknown ID is a no-op.
func (c *Coordinator) Disconnect(ctx context.Context, id model.ClientID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	rec, err := c.registry.Get(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrClientNotFound) {
			// already cleaned up, expected when events race
			c.logger.Debug("disconnect for unknown client",
				slog.String("client_id", string(id)))
			return nil
		}
		return err
	}

	wasActive := rec.IsActive()

	if err := c.registry.Remove(ctx, id); err != nil {
		return err
	}

	c.logger.Info("client disconnected",
		slog.String("client_id", string(id)),
		slog.Bool("was_active", wasActive))

	if wasActive {
		c.fillOpenSlots(ctx)
	}

	c.broadcast(ctx)
	return nil
}

// GameOver re-queues the loser at the back of the queue and fills the freed
// slot. Under PolicyWinnerStays the winner's record is untouched. Returns
// model.ErrClientNotFound if the loser has already disconnected; slot filling
// and the broadcast still run in that case.
func (c *Coordinator) GameOver(ctx context.Context, loserID model.ClientID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock.Now()

	_, err := c.registry.Get(ctx, loserID)
	switch {
	case errors.Is(err, model.ErrClientNotFound):
		// The loser may have disconnected between losing and this event
		// arriving. Another slot could still be open, so promotion runs.
		c.logger.Info("game over for unknown client",
			slog.String("loser_id", string(loserID)))
		c.fillOpenSlots(ctx)
		c.broadcast(ctx)
		return model.ErrClientNotFound
	case err != nil:
		return err
	}

	if err := c.registry.SetInactive(ctx, loserID, now); err != nil {
		return err
	}

	c.logger.Info("loser re-queued",
		slog.String("loser_id", string(loserID)))

	if c.cfg.Policy == PolicyBothRequeue {
		if err := c.requeueOpponent(ctx, loserID); err != nil {
			return err
		}
	}

	c.fillOpenSlots(ctx)
	c.broadcast(ctx)
	return nil
}

// SetName updates a client's display name. A missing record means the client
// already left; the update fails silently.
func (c *Coordinator) SetName(ctx context.Context, id model.ClientID, name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.registry.SetDisplayName(ctx, id, name); err != nil {
		if !errors.Is(err, model.ErrClientNotFound) {
			return err
		}
		c.logger.Debug("name update for unknown client",
			slog.String("client_id", string(id)))
	}

	c.broadcast(ctx)
	return nil
}

// Roster returns the current full roster snapshot
func (c *Coordinator) Roster(ctx context.Context) ([]model.ClientRecord, error) {
	return c.registry.Snapshot(ctx)
}

// requeueOpponent marks the remaining active client inactive after the loser
// has re-queued, so the winner waits behind the player it just beat
func (c *Coordinator) requeueOpponent(ctx context.Context, loserID model.ClientID) error {
	active, err := c.registry.ActiveRecords(ctx)
	if err != nil {
		return err
	}
	for _, rec := range active {
		if rec.ID == loserID {
			continue
		}
		if err := c.registry.SetInactive(ctx, rec.ID, c.clock.Now()); err != nil {
			return err
		}
	}
	return nil
}

// fillOpenSlots promotes waiting clients until both slots are held or the
// queue is empty. Must be called with c.mu held.
//
// Candidates are promoted one at a time, and the active set is re-read before
// each marker assignment: promoting both slots from a single stale snapshot
// could hand out duplicate markers. Failures are logged, never propagated;
// the registry stays valid and a later event retries promotion.
func (c *Coordinator) fillOpenSlots(ctx context.Context) {
	count, err := c.registry.ActiveCount(ctx)
	if err != nil {
		c.logger.Error("failed to count active clients",
			slog.String("error", err.Error()))
		return
	}

	slots := MaxActive - count
	if slots <= 0 {
		return
	}

	candidates, err := c.registry.OldestInactive(ctx, slots)
	if err != nil {
		c.logger.Error("failed to read queue",
			slog.String("error", err.Error()))
		return
	}

	for _, candidate := range candidates {
		if err := c.promote(ctx, candidate.ID); err != nil {
			c.logger.Error("failed to promote client",
				slog.String("client_id", string(candidate.ID)),
				slog.String("error", err.Error()))
			continue
		}
	}
}

// promote assigns the free marker to the given client and activates it.
// Must be called with c.mu held.
func (c *Coordinator) promote(ctx context.Context, id model.ClientID) error {
	active, err := c.registry.ActiveRecords(ctx)
	if err != nil {
		return err
	}

	m, err := marker.Next(active)
	if err != nil {
		return err
	}

	if err := c.registry.SetActive(ctx, id, m); err != nil {
		return err
	}

	c.logger.Info("client promoted",
		slog.String("client_id", string(id)),
		slog.String("marker", string(m)))
	return nil
}

// broadcast pushes the current roster to the notifier. Called with c.mu held
// so pushes are delivered in mutation commit order.
func (c *Coordinator) broadcast(ctx context.Context) {
	if c.notifier == nil {
		return
	}

	roster, err := c.registry.Snapshot(ctx)
	if err != nil {
		c.logger.Error("failed to snapshot roster for broadcast",
			slog.String("error", err.Error()))
		return
	}

	c.notifier.RosterChanged(ctx, roster)
}
