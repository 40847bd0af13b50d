package registermember_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-circulation/circulation/core"
	"github.com/AntonStoeckl/library-circulation/circulation/features/command/registermember"
	"github.com/AntonStoeckl/library-circulation/eventstore/memengine"
)

func Test_CommandHandler_Handle_SecondRegistrationIsDuplicate(t *testing.T) {
	// arrange
	ctx := context.Background()
	store := memengine.NewEventStore()
	handler := registermember.NewCommandHandler(store)
	_, err := handler.Handle(ctx, buildCommand("M010", "grace@example.com"))
	require.NoError(t, err)

	// act
	_, err = handler.Handle(ctx, buildCommand("M010", "other@example.com"))

	// assert
	assert.ErrorIs(t, err, core.ErrDuplicateMember)
	assert.Equal(t, 2, store.Len())
}
