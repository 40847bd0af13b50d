package addcopies_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-circulation/circulation/core"
	"github.com/AntonStoeckl/library-circulation/circulation/features/command/addcopies"
	"github.com/AntonStoeckl/library-circulation/eventstore/memengine"
	"github.com/AntonStoeckl/library-circulation/testutil/helper"
)

func Test_CommandHandler_Handle_Success(t *testing.T) {
	// arrange
	ctx := context.Background()
	store := memengine.NewEventStore()
	helper.GivenEvents(t, store, helper.FixtureBookRegistered(helper.FixtureISBN, "", now))
	handler := addcopies.NewCommandHandler(store)

	// act
	result, err := handler.Handle(ctx, addcopies.BuildCommand(helper.FixtureISBN, 5, "lib-1", now))

	// assert
	require.NoError(t, err)
	assert.Len(t, result.CopyIDs, 5)
	assert.Equal(t, 6, store.Len())
}

func Test_CommandHandler_Handle_InvalidQuantityReadsNothing(t *testing.T) {
	// arrange
	ctx := context.Background()
	store := memengine.NewEventStore()
	handler := addcopies.NewCommandHandler(store)

	// act
	_, err := handler.Handle(ctx, addcopies.BuildCommand(helper.FixtureISBN, 0, "lib-1", now))

	// assert
	assert.ErrorIs(t, err, core.ErrInvalidQuantity)
	assert.Equal(t, 0, store.Len())
}
