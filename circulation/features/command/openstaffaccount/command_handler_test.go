package openstaffaccount_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-circulation/circulation/core"
	"github.com/AntonStoeckl/library-circulation/circulation/features/command/openstaffaccount"
	"github.com/AntonStoeckl/library-circulation/eventstore/memengine"
)

func Test_CommandHandler_Handle_UsernamesStayUnique(t *testing.T) {
	// arrange
	ctx := context.Background()
	store := memengine.NewEventStore()
	handler := openstaffaccount.NewCommandHandler(store)
	_, err := handler.Handle(ctx, buildCommand("u-1", "alice"))
	require.NoError(t, err)

	// act
	retried, retryErr := handler.Handle(ctx, buildCommand("u-1", "alice"))
	_, duplicateErr := handler.Handle(ctx, buildCommand("u-2", "alice"))

	// assert
	require.NoError(t, retryErr)
	assert.True(t, retried.Idempotent)
	assert.ErrorIs(t, duplicateErr, core.ErrDuplicateUsername)
	assert.Equal(t, 2, store.Len())
}
