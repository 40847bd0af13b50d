package auth_test

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-circulation/circulation/auth"
	"github.com/AntonStoeckl/library-circulation/circulation/core"
	"github.com/AntonStoeckl/library-circulation/circulation/features/query/staffcredentials"
	"github.com/AntonStoeckl/library-circulation/circulation/session"
	"github.com/AntonStoeckl/library-circulation/eventstore/memengine"
	"github.com/AntonStoeckl/library-circulation/testutil/helper"
	"github.com/AntonStoeckl/library-circulation/testutil/testdoubles"
)

func Test_HashPassword(t *testing.T) {
	// act
	hash, err := auth.HashPassword("correct horse")
	_, shortErr := auth.HashPassword("short")

	// assert
	require.NoError(t, err)
	assert.True(t, auth.PasswordMatches(hash, "correct horse"))
	assert.False(t, auth.PasswordMatches(hash, "wrong horse"))
	assert.ErrorIs(t, shortErr, core.ErrValidation)
}

func Test_MemoryLimiter(t *testing.T) {
	// arrange
	ctx := context.Background()
	now := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	limiter := auth.NewMemoryLimiterWithClock(2, time.Minute, func() time.Time { return now })

	// act
	first, _ := limiter.Allow(ctx, "jdoe|10.0.0.1")
	second, _ := limiter.Allow(ctx, "jdoe|10.0.0.1")
	third, _ := limiter.Allow(ctx, "jdoe|10.0.0.1")
	otherKey, _ := limiter.Allow(ctx, "jdoe|10.0.0.2")

	now = now.Add(time.Minute)
	afterWindow, _ := limiter.Allow(ctx, "jdoe|10.0.0.1")

	// assert
	assert.True(t, first.Allowed)
	assert.True(t, second.Allowed)
	assert.False(t, third.Allowed)
	assert.Equal(t, time.Date(2026, 5, 1, 9, 1, 0, 0, time.UTC), third.ResetAt)
	assert.True(t, otherKey.Allowed)
	assert.True(t, afterWindow.Allowed)
}

func Test_MemoryLimiter_Reset(t *testing.T) {
	// arrange
	ctx := context.Background()
	limiter := auth.NewMemoryLimiter(1, time.Minute)
	_, _ = limiter.Allow(ctx, "k")

	// act
	require.NoError(t, limiter.Reset(ctx, "k"))
	decision, err := limiter.Allow(ctx, "k")

	// assert
	require.NoError(t, err)
	assert.True(t, decision.Allowed)
}

func Test_MemoryLimiter_ConcurrentUse(t *testing.T) {
	// arrange
	ctx := context.Background()
	limiter := auth.NewMemoryLimiter(50, time.Minute)

	var wg sync.WaitGroup
	var mu sync.Mutex
	allowed := 0

	// act
	for range 100 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			decision, _ := limiter.Allow(ctx, "shared")
			if decision.Allowed {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	// assert
	assert.Equal(t, 50, allowed)
}

func Test_RedisLimiter(t *testing.T) {
	addr := os.Getenv("LIBRARY_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("LIBRARY_TEST_REDIS_ADDR not set")
	}

	// arrange
	ctx := context.Background()
	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = client.Close() })
	limiter := auth.NewRedisLimiter(client, 1, time.Minute)
	key := helper.GivenUniqueID(t)

	// act
	first, err := limiter.Allow(ctx, key)
	require.NoError(t, err)
	second, err := limiter.Allow(ctx, key)
	require.NoError(t, err)
	require.NoError(t, limiter.Reset(ctx, key))
	afterReset, err := limiter.Allow(ctx, key)
	require.NoError(t, err)

	// assert
	assert.True(t, first.Allowed)
	assert.False(t, second.Allowed)
	assert.True(t, afterReset.Allowed)
}

func givenLoginService(t *testing.T, limiter auth.Limiter) (auth.Service, *testdoubles.ContextualLoggerSpy, string) {
	t.Helper()

	store := memengine.NewEventStore()
	hash, err := auth.HashPassword("librarian-pass")
	require.NoError(t, err)

	userID := helper.GivenUniqueID(t)
	helper.GivenEvents(t, store,
		helper.FixtureStaffAccountOpened(userID, "jdoe", hash, core.RoleLibrarian, time.Now()),
	)

	logger := testdoubles.NewContextualLoggerSpy()
	service := auth.NewService(staffcredentials.NewQueryHandler(store), limiter, auth.WithContextualLogger(logger))

	return service, logger, userID
}

func Test_Service_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("correct credentials", func(t *testing.T) {
		// arrange
		service, logger, userID := givenLoginService(t, nil)

		// act
		got, err := service.Login(ctx, " jdoe ", "librarian-pass", "10.0.0.1")

		// assert
		require.NoError(t, err)
		assert.Equal(t, session.Session{UserID: userID, Role: core.RoleLibrarian, Username: "jdoe"}, got)
		assert.True(t, logger.HasInfoLog(auth.LogMsgLoginSucceeded))
	})

	t.Run("wrong password and unknown user look the same", func(t *testing.T) {
		// arrange
		service, logger, _ := givenLoginService(t, nil)

		// act
		_, wrongPassword := service.Login(ctx, "jdoe", "nope-nope", "10.0.0.1")
		_, unknownUser := service.Login(ctx, "nobody", "librarian-pass", "10.0.0.1")

		// assert
		assert.ErrorIs(t, wrongPassword, core.ErrInvalidCredentials)
		assert.ErrorIs(t, unknownUser, core.ErrInvalidCredentials)
		assert.Equal(t, wrongPassword.Error(), unknownUser.Error())
		assert.True(t, logger.HasWarnLog(auth.LogMsgLoginRejected))
	})

	t.Run("missing fields", func(t *testing.T) {
		// arrange
		service, _, _ := givenLoginService(t, nil)

		// act
		_, err := service.Login(ctx, "", "", "10.0.0.1")

		// assert
		assert.ErrorIs(t, err, core.ErrValidation)
	})

	t.Run("rate limited after too many attempts", func(t *testing.T) {
		// arrange
		service, logger, _ := givenLoginService(t, auth.NewMemoryLimiter(2, time.Minute))
		_, _ = service.Login(ctx, "jdoe", "bad-password-1", "10.0.0.9")
		_, _ = service.Login(ctx, "jdoe", "bad-password-2", "10.0.0.9")

		// act
		_, limited := service.Login(ctx, "JDOE", "librarian-pass", "10.0.0.9")
		_, otherClient := service.Login(ctx, "jdoe", "librarian-pass", "10.0.0.10")

		// assert
		assert.ErrorIs(t, limited, core.ErrTooManyLoginAttempts)
		assert.NoError(t, otherClient)
		assert.True(t, logger.HasWarnLog(auth.LogMsgLoginRateLimited))
	})

	t.Run("success resets the counter", func(t *testing.T) {
		// arrange
		service, _, _ := givenLoginService(t, auth.NewMemoryLimiter(2, time.Minute))
		_, _ = service.Login(ctx, "jdoe", "bad-password-1", "10.0.0.9")
		_, err := service.Login(ctx, "jdoe", "librarian-pass", "10.0.0.9")
		require.NoError(t, err)

		// act
		_, first := service.Login(ctx, "jdoe", "bad-password-2", "10.0.0.9")
		_, second := service.Login(ctx, "jdoe", "librarian-pass", "10.0.0.9")

		// assert
		assert.ErrorIs(t, first, core.ErrInvalidCredentials)
		assert.NoError(t, second)
	})
}
