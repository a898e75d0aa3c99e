package factory

import (
	"io"
	"log/slog"
	"time"

	"github.com/ludosur/parchis-server/internal/dependencies/mocks"
	"github.com/ludosur/parchis-server/internal/services/auth"
	"github.com/ludosur/parchis-server/internal/services/game"
	"github.com/ludosur/parchis-server/internal/services/settlement"
	"github.com/ludosur/parchis-server/internal/storage/memory"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
}

// NewTestApp creates an App configured for testing with mocked dependencies.
// Turn passes happen synchronously so tests need no timers.
func NewTestApp() *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	gameCfg := game.Config{NoMoveDelay: 0, SettleRetryDelay: 10 * time.Millisecond}

	app := newWithDependencies(store, mockClock, mockRandom, auth.DefaultConfig(), settlement.DefaultConfig(), gameCfg, logger)

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
	}
}
