package ws

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/lexc24/tictactoe/internal/model"
)

// RosterEntry is one client in the broadcast payload
type RosterEntry struct {
	ClientID    string `json:"clientId"`
	DisplayName string `json:"displayName"`
	Status      string `json:"status"`
	Marker      string `json:"marker,omitempty"`
}

// queueUpdate is the wire format for roster pushes
type queueUpdate struct {
	Action string        `json:"action"`
	Data   []RosterEntry `json:"data"`
}

// connectedMessage greets a freshly connected session with its assigned ID
type connectedMessage struct {
	Action   string `json:"action"`
	ClientID string `json:"clientId"`
}

// Broadcaster pushes roster snapshots to every connected client.
// It implements the coordinator's Notifier interface.
type Broadcaster struct {
	hub    *Hub
	logger *slog.Logger
}

// NewBroadcaster creates a new Broadcaster
func NewBroadcaster(hub *Hub, logger *slog.Logger) *Broadcaster {
	return &Broadcaster{
		hub:    hub,
		logger: logger.With(slog.String("component", "ws-broadcaster")),
	}
}

// RosterChanged serializes the roster and queues it for delivery to all
// connected clients
func (b *Broadcaster) RosterChanged(ctx context.Context, roster []model.ClientRecord) {
	payload := queueUpdate{
		Action: "queueUpdate",
		Data:   RosterFromRecords(roster),
	}

	data, err := json.Marshal(payload)
	if err != nil {
		b.logger.Error("failed to marshal roster", slog.String("error", err.Error()))
		return
	}

	b.hub.Broadcast(data)
}

// RosterFromRecords converts registry records to the wire roster
func RosterFromRecords(records []model.ClientRecord) []RosterEntry {
	entries := make([]RosterEntry, len(records))
	for i, rec := range records {
		entries[i] = RosterEntry{
			ClientID:    string(rec.ID),
			DisplayName: rec.DisplayName,
			Status:      string(rec.Status),
			Marker:      string(rec.Marker),
		}
	}
	return entries
}
