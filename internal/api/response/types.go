package response

import (
	"time"

	"github.com/lexc24/tictactoe/internal/model"
)

// RosterEntry is one client in the roster response
type RosterEntry struct {
	ClientID    string     `json:"client_id"`
	DisplayName string     `json:"display_name"`
	Status      string     `json:"status"`
	Marker      string     `json:"marker,omitempty"`
	QueuedAt    *time.Time `json:"queued_at,omitempty"`
}

// RosterEntryFromModel converts a registry record to a response entry
func RosterEntryFromModel(rec model.ClientRecord) RosterEntry {
	entry := RosterEntry{
		ClientID:    string(rec.ID),
		DisplayName: rec.DisplayName,
		Status:      string(rec.Status),
		Marker:      string(rec.Marker),
	}
	if rec.Status == model.StatusInactive && !rec.QueuedAt.IsZero() {
		t := rec.QueuedAt
		entry.QueuedAt = &t
	}
	return entry
}

// Roster is the full roster response
type Roster struct {
	Clients []RosterEntry `json:"clients"`
}

// RosterFromModel converts registry records to a Roster
func RosterFromModel(records []model.ClientRecord) Roster {
	clients := make([]RosterEntry, len(records))
	for i, rec := range records {
		clients[i] = RosterEntryFromModel(rec)
	}
	return Roster{Clients: clients}
}
