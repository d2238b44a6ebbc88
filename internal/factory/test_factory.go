package factory

import (
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/pelada/internal/dependencies/mocks"
	"github.com/mcoot/pelada/internal/metrics"
	"github.com/mcoot/pelada/internal/services/auth"
	"github.com/mcoot/pelada/internal/services/balancer"
	"github.com/mcoot/pelada/internal/storage/memory"
	"github.com/mcoot/pelada/internal/testutil"
)

// TestJWTSecret signs sessions issued by a TestApp
const TestJWTSecret = "test-secret"

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
}

// NewTestApp creates an App configured for testing with mocked dependencies.
// The mock random source makes every shuffle the identity permutation until
// values are queued.
func NewTestApp() *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()

	authCfg := auth.DefaultConfig()
	authCfg.JWTSecret = TestJWTSecret
	authCfg.BcryptCost = bcrypt.MinCost

	app, err := newWithDependencies(
		store,
		mockClock,
		mockRandom.Factory(),
		authCfg,
		balancer.DefaultConfig(),
		metrics.NewRecorder(),
		testutil.NopLogger(),
	)
	if err != nil {
		panic(err)
	}

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
	}
}
