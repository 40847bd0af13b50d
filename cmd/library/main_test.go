package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-circulation/circulation/auth"
	"github.com/AntonStoeckl/library-circulation/circulation/core"
	"github.com/AntonStoeckl/library-circulation/circulation/features/query/staffcredentials"
	"github.com/AntonStoeckl/library-circulation/circulation/session"
	"github.com/AntonStoeckl/library-circulation/circulation/shell/config"
	"github.com/AntonStoeckl/library-circulation/eventstore/memengine"
)

func givenRuntime(t *testing.T, mutate func(cfg *config.Config)) *runtime {
	t.Helper()

	cfg := config.Defaults()
	cfg.Store = config.StoreMemory
	cfg.InsecurePlainSessions = true
	if mutate != nil {
		mutate(&cfg)
	}

	rt, err := newRuntime(context.Background(), cfg, &bytes.Buffer{})
	require.NoError(t, err)
	t.Cleanup(func() { rt.shutdown(context.Background()) })

	return rt
}

func Test_NewRuntime_OpensTheMemoryStore(t *testing.T) {
	// act
	rt := givenRuntime(t, nil)

	// assert
	assert.IsType(t, &memengine.EventStore{}, rt.store)
	assert.NotNil(t, rt.contextualLogger)
	assert.Nil(t, rt.metrics, "no metrics without an OTLP endpoint")

	created, err := rt.createSchema(context.Background())
	require.NoError(t, err)
	assert.False(t, created)
}

func Test_Migrate_CreatesTheSQLiteSchema(t *testing.T) {
	// arrange
	cfg := config.Defaults()
	cfg.SQLitePath = filepath.Join(t.TempDir(), "library.db")

	// act
	err := migrate(context.Background(), cfg)

	// assert
	require.NoError(t, err)

	rt := givenRuntime(t, func(c *config.Config) {
		c.Store = config.StoreSQLite
		c.SQLitePath = cfg.SQLitePath
	})
	created, schemaErr := rt.createSchema(context.Background())
	require.NoError(t, schemaErr, "creating the schema twice is harmless")
	assert.True(t, created)
}

func Test_CreateAdmin_OpensAnAccountThatCanLogIn(t *testing.T) {
	// arrange
	ctx := context.Background()
	rt := givenRuntime(t, nil)
	params := adminParams{Username: "ada", FullName: "Ada Lovelace", Email: "ada@library.example"}

	// act
	userID, err := createAdmin(ctx, rt, params, "correct horse")

	// assert
	require.NoError(t, err)
	assert.NotEmpty(t, userID)

	credentials, credErr := rt.credentialsReader()
	require.NoError(t, credErr)

	service := auth.NewService(credentials, auth.NewMemoryLimiter(5, time.Minute))
	sess, loginErr := service.Login(ctx, "ada", "correct horse", "127.0.0.1")
	require.NoError(t, loginErr)
	assert.Equal(t, userID, sess.UserID)
	assert.Equal(t, core.RoleAdmin, sess.Role)
}

func Test_CreateAdmin_RejectsAShortPassword(t *testing.T) {
	// arrange
	rt := givenRuntime(t, nil)
	params := adminParams{Username: "ada", FullName: "Ada Lovelace", Email: "ada@library.example"}

	// act
	_, err := createAdmin(context.Background(), rt, params, "short")

	// assert
	assert.ErrorIs(t, err, core.ErrValidation)

	credentials, credErr := rt.credentialsReader()
	require.NoError(t, credErr)
	_, lookupErr := credentials.Handle(context.Background(), staffcredentials.BuildQuery("ada"))
	assert.ErrorIs(t, lookupErr, core.ErrStaffAccountNotFound)
}

func Test_CreateAdmin_RejectsATakenUsername(t *testing.T) {
	// arrange
	rt := givenRuntime(t, nil)
	params := adminParams{Username: "ada", FullName: "Ada Lovelace", Email: "ada@library.example"}
	_, err := createAdmin(context.Background(), rt, params, "correct horse")
	require.NoError(t, err)

	// act
	_, err = createAdmin(context.Background(), rt, params, "another horse")

	// assert
	_, isFailure := core.AsFailure(err)
	assert.True(t, isFailure)
}

func Test_APIServer_IsWiredWithAllHandlers(t *testing.T) {
	// arrange
	rt := givenRuntime(t, func(c *config.Config) {
		c.OverdueSweepSchedule = ""
	})

	// act
	server, err := rt.newAPIServer(context.Background())
	sweepErr := rt.scheduleSweep(context.Background())

	// assert
	require.NoError(t, err)
	require.NoError(t, sweepErr)
	assert.NotNil(t, server.Handler())
}

func Test_ScheduleSweep_RejectsAMalformedSchedule(t *testing.T) {
	// arrange
	rt := givenRuntime(t, func(c *config.Config) {
		c.OverdueSweepSchedule = "every morning"
	})

	// act
	err := rt.scheduleSweep(context.Background())

	// assert
	assert.Error(t, err)
}

func Test_SessionCodec_IsSignedWhenASecretIsConfigured(t *testing.T) {
	// arrange
	rt := givenRuntime(t, func(c *config.Config) {
		c.SessionSecret = "s3cret"
	})

	// act
	codec, err := rt.sessionCodec()

	// assert
	require.NoError(t, err)
	token, encodeErr := codec.Encode(session.Session{UserID: "u-1", Role: core.RoleLibrarian, Username: "grace"})
	require.NoError(t, encodeErr)
	assert.Equal(t, 2, strings.Count(token, "."), "a JWT has three segments")
}

func Test_Serve_RefusesToStartWithoutSessionSecret(t *testing.T) {
	// arrange
	root := newRootCommand()
	root.SetArgs([]string{"serve", "--store=memory"})
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})

	// act
	err := root.Execute()

	// assert
	assert.ErrorIs(t, err, config.ErrMissingSessionSecret)
}
