package addbook_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-circulation/circulation/features/command/addbook"
	"github.com/AntonStoeckl/library-circulation/eventstore/memengine"
)

func Test_CommandHandler_Handle_SecondCopyReusesCatalogEntry(t *testing.T) {
	// arrange
	ctx := context.Background()
	store := memengine.NewEventStore()
	handler := addbook.NewCommandHandler(store)

	// act
	first, err := handler.Handle(ctx, buildCommand("c-1", "Vlad Khononov"))
	require.NoError(t, err)
	second, err := handler.Handle(ctx, buildCommand("c-2", "Vlad Khononov"))
	require.NoError(t, err)

	// assert
	assert.True(t, first.BookRegistered)
	assert.False(t, second.BookRegistered)
	assert.Equal(t, "c-2", second.CopyID)
	assert.Equal(t, 3, store.Len())
}

func Test_CommandHandler_Handle_RepeatedCopyIsIdempotent(t *testing.T) {
	// arrange
	ctx := context.Background()
	store := memengine.NewEventStore()
	handler := addbook.NewCommandHandler(store)
	_, err := handler.Handle(ctx, buildCommand("c-1", "Vlad Khononov"))
	require.NoError(t, err)

	// act
	result, err := handler.Handle(ctx, buildCommand("c-1", "Vlad Khononov"))

	// assert
	require.NoError(t, err)
	assert.True(t, result.Idempotent)
	assert.Equal(t, 2, store.Len())
}
