package ws

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexc24/tictactoe/internal/model"
	"github.com/lexc24/tictactoe/internal/testutil"
)

func TestRosterChangedWireFormat(t *testing.T) {
	hub := NewHub(testutil.NopLogger())
	go hub.Run()
	defer hub.Close()

	client := NewClient(hub, "watcher", nil)
	hub.Register(client)
	waitFor(t, func() bool { return hub.ClientCount() == 1 })

	broadcaster := NewBroadcaster(hub, testutil.NopLogger())
	queuedAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	broadcaster.RosterChanged(context.Background(), []model.ClientRecord{
		{ID: "c1", DisplayName: "Alice", Status: model.StatusActive, Marker: model.MarkerX},
		{ID: "c2", Status: model.StatusActive, Marker: model.MarkerO},
		{ID: "c3", DisplayName: "Carol", Status: model.StatusInactive, QueuedAt: queuedAt},
	})

	var data []byte
	select {
	case data = <-client.send:
	case <-time.After(time.Second):
		t.Fatal("no broadcast delivered")
	}

	var msg struct {
		Action string            `json:"action"`
		Data   []json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(data, &msg))
	assert.Equal(t, "queueUpdate", msg.Action)
	require.Len(t, msg.Data, 3)

	var first map[string]any
	require.NoError(t, json.Unmarshal(msg.Data[0], &first))
	assert.Equal(t, "c1", first["clientId"])
	assert.Equal(t, "Alice", first["displayName"])
	assert.Equal(t, "active", first["status"])
	assert.Equal(t, "X", first["marker"])

	// Inactive entries carry no marker field at all
	var third map[string]any
	require.NoError(t, json.Unmarshal(msg.Data[2], &third))
	assert.Equal(t, "inactive", third["status"])
	assert.NotContains(t, third, "marker")
}

func TestRosterChangedEmptyRoster(t *testing.T) {
	hub := NewHub(testutil.NopLogger())
	go hub.Run()
	defer hub.Close()

	client := NewClient(hub, "watcher", nil)
	hub.Register(client)
	waitFor(t, func() bool { return hub.ClientCount() == 1 })

	broadcaster := NewBroadcaster(hub, testutil.NopLogger())
	broadcaster.RosterChanged(context.Background(), nil)

	var data []byte
	select {
	case data = <-client.send:
	case <-time.After(time.Second):
		t.Fatal("no broadcast delivered")
	}

	var msg struct {
		Action string        `json:"action"`
		Data   []RosterEntry `json:"data"`
	}
	require.NoError(t, json.Unmarshal(data, &msg))
	assert.Equal(t, "queueUpdate", msg.Action)
	assert.Empty(t, msg.Data)
}

func TestRosterFromRecords(t *testing.T) {
	entries := RosterFromRecords([]model.ClientRecord{
		{ID: "c1", DisplayName: "Alice", Status: model.StatusActive, Marker: model.MarkerX},
		{ID: "c2", Status: model.StatusInactive},
	})

	require.Len(t, entries, 2)
	assert.Equal(t, RosterEntry{
		ClientID:    "c1",
		DisplayName: "Alice",
		Status:      "active",
		Marker:      "X",
	}, entries[0])
	assert.Equal(t, RosterEntry{
		ClientID: "c2",
		Status:   "inactive",
	}, entries[1])
}
