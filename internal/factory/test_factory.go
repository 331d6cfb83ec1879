package factory

import (
	"time"

	"github.com/lexc24/tictactoe/internal/dependencies/mocks"
	"github.com/lexc24/tictactoe/internal/services/queue"
	"github.com/lexc24/tictactoe/internal/storage/memory"
	"github.com/lexc24/tictactoe/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
}

// NewTestApp creates an App configured for testing with mocked dependencies
func NewTestApp() *TestApp {
	registry := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()

	app := newWithDependencies(registry, mockClock, mockRandom, queue.DefaultConfig(), testutil.NopLogger())

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
	}
}
