package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/lexc24/tictactoe/internal/model"
)

type RegistrySuite struct {
	suite.Suite
	registry *Registry
	ctx      context.Context
	base     time.Time
}

func TestRegistrySuite(t *testing.T) {
	suite.Run(t, new(RegistrySuite))
}

func (s *RegistrySuite) SetupTest() {
	s.registry = New()
	s.ctx = context.Background()
	s.base = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
}

func (s *RegistrySuite) TestCreateAndGet() {
	rec, err := s.registry.Create(s.ctx, "client-1", s.base)
	s.Require().NoError(err)
	s.Equal(model.ClientID("client-1"), rec.ID)
	s.Equal(model.StatusInactive, rec.Status)
	s.Equal(model.MarkerNone, rec.Marker)
	s.Equal(s.base, rec.QueuedAt)

	retrieved, err := s.registry.Get(s.ctx, "client-1")
	s.Require().NoError(err)
	s.Equal(rec.ID, retrieved.ID)
	s.Equal(rec.Seq, retrieved.Seq)
}

func (s *RegistrySuite) TestCreateDuplicate() {
	_, err := s.registry.Create(s.ctx, "client-1", s.base)
	s.Require().NoError(err)

	_, err = s.registry.Create(s.ctx, "client-1", s.base.Add(time.Second))
	s.ErrorIs(err, model.ErrDuplicateClient)
}

func (s *RegistrySuite) TestGetNotFound() {
	_, err := s.registry.Get(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrClientNotFound)
}

func (s *RegistrySuite) TestRemove() {
	_, _ = s.registry.Create(s.ctx, "client-1", s.base)

	err := s.registry.Remove(s.ctx, "client-1")
	s.Require().NoError(err)

	_, err = s.registry.Get(s.ctx, "client-1")
	s.ErrorIs(err, model.ErrClientNotFound)
}

func (s *RegistrySuite) TestRemoveUnknownIsNoOp() {
	err := s.registry.Remove(s.ctx, "nonexistent")
	s.NoError(err)
}

func (s *RegistrySuite) TestSetActive() {
	_, _ = s.registry.Create(s.ctx, "client-1", s.base)

	err := s.registry.SetActive(s.ctx, "client-1", model.MarkerX)
	s.Require().NoError(err)

	rec, err := s.registry.Get(s.ctx, "client-1")
	s.Require().NoError(err)
	s.Equal(model.StatusActive, rec.Status)
	s.Equal(model.MarkerX, rec.Marker)
	s.True(rec.QueuedAt.IsZero())
}

func (s *RegistrySuite) TestSetActiveNotFound() {
	err := s.registry.SetActive(s.ctx, "nonexistent", model.MarkerX)
	s.ErrorIs(err, model.ErrClientNotFound)
}

func (s *RegistrySuite) TestSetActiveRejectsEmptyMarker() {
	_, _ = s.registry.Create(s.ctx, "client-1", s.base)

	err := s.registry.SetActive(s.ctx, "client-1", model.MarkerNone)
	s.ErrorIs(err, model.ErrInvariantViolation)
}

func (s *RegistrySuite) TestSetActiveRejectsDuplicateMarker() {
	_, _ = s.registry.Create(s.ctx, "client-1", s.base)
	_, _ = s.registry.Create(s.ctx, "client-2", s.base.Add(time.Second))
	s.Require().NoError(s.registry.SetActive(s.ctx, "client-1", model.MarkerX))

	err := s.registry.SetActive(s.ctx, "client-2", model.MarkerX)
	s.ErrorIs(err, model.ErrInvariantViolation)
}

func (s *RegistrySuite) TestSetActiveRejectsThirdActive() {
	for i, id := range []model.ClientID{"client-1", "client-2", "client-3"} {
		_, _ = s.registry.Create(s.ctx, id, s.base.Add(time.Duration(i)*time.Second))
	}
	s.Require().NoError(s.registry.SetActive(s.ctx, "client-1", model.MarkerX))
	s.Require().NoError(s.registry.SetActive(s.ctx, "client-2", model.MarkerO))

	// Both markers are held, so either choice fails
	s.ErrorIs(s.registry.SetActive(s.ctx, "client-3", model.MarkerX), model.ErrInvariantViolation)
	s.ErrorIs(s.registry.SetActive(s.ctx, "client-3", model.MarkerO), model.ErrInvariantViolation)
}

func (s *RegistrySuite) TestSetActiveIdempotentForSameMarker() {
	_, _ = s.registry.Create(s.ctx, "client-1", s.base)
	s.Require().NoError(s.registry.SetActive(s.ctx, "client-1", model.MarkerX))

	err := s.registry.SetActive(s.ctx, "client-1", model.MarkerX)
	s.NoError(err)
}

func (s *RegistrySuite) TestSetInactive() {
	_, _ = s.registry.Create(s.ctx, "client-1", s.base)
	s.Require().NoError(s.registry.SetActive(s.ctx, "client-1", model.MarkerX))

	requeuedAt := s.base.Add(time.Minute)
	err := s.registry.SetInactive(s.ctx, "client-1", requeuedAt)
	s.Require().NoError(err)

	rec, err := s.registry.Get(s.ctx, "client-1")
	s.Require().NoError(err)
	s.Equal(model.StatusInactive, rec.Status)
	s.Equal(model.MarkerNone, rec.Marker)
	s.Equal(requeuedAt, rec.QueuedAt)
}

func (s *RegistrySuite) TestSetInactiveBumpsSeq() {
	first, _ := s.registry.Create(s.ctx, "client-1", s.base)
	_, _ = s.registry.Create(s.ctx, "client-2", s.base)

	s.Require().NoError(s.registry.SetActive(s.ctx, "client-1", model.MarkerX))
	s.Require().NoError(s.registry.SetInactive(s.ctx, "client-1", s.base))

	rec, err := s.registry.Get(s.ctx, "client-1")
	s.Require().NoError(err)
	s.Greater(rec.Seq, first.Seq)
}

func (s *RegistrySuite) TestSetDisplayName() {
	_, _ = s.registry.Create(s.ctx, "client-1", s.base)

	err := s.registry.SetDisplayName(s.ctx, "client-1", "Alice")
	s.Require().NoError(err)

	rec, err := s.registry.Get(s.ctx, "client-1")
	s.Require().NoError(err)
	s.Equal("Alice", rec.DisplayName)
}

func (s *RegistrySuite) TestSetDisplayNameNotFound() {
	err := s.registry.SetDisplayName(s.ctx, "nonexistent", "Alice")
	s.ErrorIs(err, model.ErrClientNotFound)
}

func (s *RegistrySuite) TestActiveCount() {
	_, _ = s.registry.Create(s.ctx, "client-1", s.base)
	_, _ = s.registry.Create(s.ctx, "client-2", s.base)

	count, err := s.registry.ActiveCount(s.ctx)
	s.Require().NoError(err)
	s.Equal(0, count)

	s.Require().NoError(s.registry.SetActive(s.ctx, "client-1", model.MarkerX))

	count, err = s.registry.ActiveCount(s.ctx)
	s.Require().NoError(err)
	s.Equal(1, count)
}

func (s *RegistrySuite) TestActiveRecordsOrdersXBeforeO() {
	_, _ = s.registry.Create(s.ctx, "client-1", s.base)
	_, _ = s.registry.Create(s.ctx, "client-2", s.base)

	// O first to make sure ordering comes from markers, not insertion
	s.Require().NoError(s.registry.SetActive(s.ctx, "client-2", model.MarkerO))
	s.Require().NoError(s.registry.SetActive(s.ctx, "client-1", model.MarkerX))

	active, err := s.registry.ActiveRecords(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(active, 2)
	s.Equal(model.MarkerX, active[0].Marker)
	s.Equal(model.MarkerO, active[1].Marker)
}

func (s *RegistrySuite) TestOldestInactiveOrdering() {
	_, _ = s.registry.Create(s.ctx, "client-2", s.base.Add(time.Second))
	_, _ = s.registry.Create(s.ctx, "client-1", s.base)
	_, _ = s.registry.Create(s.ctx, "client-3", s.base.Add(2*time.Second))

	waiting, err := s.registry.OldestInactive(s.ctx, 2)
	s.Require().NoError(err)
	s.Require().Len(waiting, 2)
	s.Equal(model.ClientID("client-1"), waiting[0].ID)
	s.Equal(model.ClientID("client-2"), waiting[1].ID)
}

func (s *RegistrySuite) TestOldestInactiveTieBreaksBySeq() {
	// Identical timestamps: arrival order decides
	_, _ = s.registry.Create(s.ctx, "client-1", s.base)
	_, _ = s.registry.Create(s.ctx, "client-2", s.base)

	waiting, err := s.registry.OldestInactive(s.ctx, -1)
	s.Require().NoError(err)
	s.Require().Len(waiting, 2)
	s.Equal(model.ClientID("client-1"), waiting[0].ID)
	s.Equal(model.ClientID("client-2"), waiting[1].ID)
}

func (s *RegistrySuite) TestRequeuedClientGoesToBack() {
	_, _ = s.registry.Create(s.ctx, "client-1", s.base)
	_, _ = s.registry.Create(s.ctx, "client-2", s.base.Add(time.Second))

	s.Require().NoError(s.registry.SetActive(s.ctx, "client-1", model.MarkerX))
	s.Require().NoError(s.registry.SetInactive(s.ctx, "client-1", s.base.Add(2*time.Second)))

	waiting, err := s.registry.OldestInactive(s.ctx, -1)
	s.Require().NoError(err)
	s.Require().Len(waiting, 2)
	s.Equal(model.ClientID("client-2"), waiting[0].ID)
	s.Equal(model.ClientID("client-1"), waiting[1].ID)
}

func (s *RegistrySuite) TestSnapshotOrdering() {
	_, _ = s.registry.Create(s.ctx, "client-1", s.base)
	_, _ = s.registry.Create(s.ctx, "client-2", s.base.Add(time.Second))
	_, _ = s.registry.Create(s.ctx, "client-3", s.base.Add(2*time.Second))
	_, _ = s.registry.Create(s.ctx, "client-4", s.base.Add(3*time.Second))

	s.Require().NoError(s.registry.SetActive(s.ctx, "client-2", model.MarkerO))
	s.Require().NoError(s.registry.SetActive(s.ctx, "client-1", model.MarkerX))

	snapshot, err := s.registry.Snapshot(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(snapshot, 4)
	s.Equal(model.ClientID("client-1"), snapshot[0].ID)
	s.Equal(model.ClientID("client-2"), snapshot[1].ID)
	s.Equal(model.ClientID("client-3"), snapshot[2].ID)
	s.Equal(model.ClientID("client-4"), snapshot[3].ID)
}

func (s *RegistrySuite) TestRecordsAreCopies() {
	rec, _ := s.registry.Create(s.ctx, "client-1", s.base)
	rec.DisplayName = "mutated"

	stored, err := s.registry.Get(s.ctx, "client-1")
	s.Require().NoError(err)
	s.Empty(stored.DisplayName)
}
