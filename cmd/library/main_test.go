package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"library_service/pkg/config"
	"library_service/pkg/database"
	"library_service/pkg/repository"
)

func testConfig() *config.Config {
	return &config.Config{
		ServiceName: serviceName,
		JWT:         config.JWTConfig{SigningKey: "secret", ExpirationHours: 1},
		Lending:     config.LendingConfig{ReservationHoldDays: 3, LoanPeriodDays: 14},
		Lockout:     config.LockoutConfig{MaxFailures: 5},
		RateLimit:   config.RateLimitConfig{Enabled: true, RPS: 5, Burst: 5},
		Seed:        config.SeedConfig{AdminEmail: "admin@library.local", AdminPassword: "admin123"},
	}
}

func TestSeedDataIsIdempotent(t *testing.T) {
	db, err := database.OpenInMemory()
	require.NoError(t, err)
	cfg := testConfig()
	deps := newDeps(cfg, db, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, seedData(ctx, deps, cfg.Seed))
	require.NoError(t, seedData(ctx, deps, cfg.Seed))

	admin, err := deps.Users.GetByEmail(ctx, "admin@library.local")
	require.NoError(t, err)
	assert.Equal(t, "ADMIN", string(admin.Role))

	books, total, err := deps.Libraries.Books(ctx, "Central", repository.NewPage(1, 10))
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "Dune", books[0].Title)

	_, _, err = deps.Auth.Login(ctx, "admin@library.local", "admin123")
	assert.NoError(t, err)
}

func TestNewDepsHonoursRateLimitSwitch(t *testing.T) {
	db, err := database.OpenInMemory()
	require.NoError(t, err)
	cfg := testConfig()

	assert.NotNil(t, newDeps(cfg, db, zap.NewNop()).RateLimiter)
	cfg.RateLimit.Enabled = false
	assert.Nil(t, newDeps(cfg, db, zap.NewNop()).RateLimiter)
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	root := newRootCommand()
	for _, name := range []string{"serve", "migrate", "seed"} {
		cmd, _, err := root.Find([]string{name})
		require.NoError(t, err)
		assert.Equal(t, name, cmd.Name())
	}
}
