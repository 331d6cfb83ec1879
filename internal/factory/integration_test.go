package factory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/lexc24/tictactoe/internal/model"
)

type IntegrationSuite struct {
	suite.Suite
	app *TestApp
	ctx context.Context
}

func TestIntegrationSuite(t *testing.T) {
	suite.Run(t, new(IntegrationSuite))
}

func (s *IntegrationSuite) SetupTest() {
	s.app = NewTestApp()
	s.ctx = context.Background()
}

func (s *IntegrationSuite) TearDownTest() {
	_ = s.app.Close()
}

func (s *IntegrationSuite) connect(id model.ClientID) {
	s.Require().NoError(s.app.Coordinator.Connect(s.ctx, id))
	s.app.MockClock.Advance(time.Second)
}

func (s *IntegrationSuite) record(id model.ClientID) *model.ClientRecord {
	rec, err := s.app.Registry.Get(s.ctx, id)
	s.Require().NoError(err)
	return rec
}

// Test: queue life cycle from first connect through a game and a disconnect
func (s *IntegrationSuite) TestQueueLifeCycle() {
	// Step 1: three clients connect; two are seated, one waits
	s.connect("alice")
	s.connect("bob")
	s.connect("carol")

	s.Equal(model.MarkerX, s.record("alice").Marker)
	s.Equal(model.MarkerO, s.record("bob").Marker)
	s.Equal(model.StatusInactive, s.record("carol").Status)

	// Step 2: alice loses; carol takes her seat, alice waits
	s.Require().NoError(s.app.Coordinator.GameOver(s.ctx, "alice"))

	s.Equal(model.MarkerX, s.record("carol").Marker)
	s.Equal(model.MarkerO, s.record("bob").Marker)
	s.Equal(model.StatusInactive, s.record("alice").Status)

	// Step 3: bob disconnects; alice is seated again with bob's freed marker
	s.Require().NoError(s.app.Coordinator.Disconnect(s.ctx, "bob"))

	s.Equal(model.MarkerX, s.record("carol").Marker)
	s.Equal(model.MarkerO, s.record("alice").Marker)

	// Step 4: the roster reflects exactly the two seated clients
	roster, err := s.app.Coordinator.Roster(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(roster, 2)
	s.Equal(model.ClientID("carol"), roster[0].ID)
	s.Equal(model.ClientID("alice"), roster[1].ID)
}

func (s *IntegrationSuite) TestNamesSurviveRequeue() {
	s.connect("alice")
	s.connect("bob")
	s.Require().NoError(s.app.Coordinator.SetName(s.ctx, "alice", "Alice"))

	s.Require().NoError(s.app.Coordinator.GameOver(s.ctx, "alice"))

	// Re-queued and re-promoted, the display name sticks
	s.Equal("Alice", s.record("alice").DisplayName)
}

func TestNewDefaultsToMemoryStorage(t *testing.T) {
	app, err := New(Config{})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer func() { _ = app.Close() }()

	if app.Coordinator == nil || app.Hub == nil || app.Broadcaster == nil {
		t.Error("factory left components unwired")
	}
}

func TestNewRejectsUnknownStorageType(t *testing.T) {
	_, err := New(Config{StorageType: "papyrus"})
	if err == nil {
		t.Error("expected error for unknown storage type")
	}
}

func TestNewRedisRequiresConfig(t *testing.T) {
	_, err := New(Config{StorageType: StorageTypeRedis})
	if err == nil {
		t.Error("expected error for missing redis config")
	}
}
