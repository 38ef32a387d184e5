package factory

import (
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/quizbuzz/quizbuzz/internal/dependencies/mocks"
	"github.com/quizbuzz/quizbuzz/internal/services/credentials"
	"github.com/quizbuzz/quizbuzz/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
}

// NewTestApp creates an App configured for testing with mocked dependencies.
// Hashing runs at bcrypt.MinCost so password-heavy tests stay fast.
func NewTestApp() *TestApp {
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()
	hasher := credentials.NewWithCost(bcrypt.MinCost)

	app := newWithDependencies(mockClock, mockRandom, hasher, Config{}, testutil.NopLogger())

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
	}
}
