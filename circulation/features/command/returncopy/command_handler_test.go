package returncopy_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-circulation/circulation/core"
	"github.com/AntonStoeckl/library-circulation/circulation/features/command/borrowcopy"
	"github.com/AntonStoeckl/library-circulation/circulation/features/command/returncopy"
	"github.com/AntonStoeckl/library-circulation/eventstore/memengine"
	"github.com/AntonStoeckl/library-circulation/testutil/helper"
)

func Test_CommandHandler_Handle_OverdueReturnInTwoPhases(t *testing.T) {
	// arrange
	ctx := context.Background()
	store := memengine.NewEventStore()
	helper.GivenEvents(t, store,
		helper.FixtureCopyAdded("1042", helper.FixtureISBN, now.Add(-1000*time.Hour)),
		givenOpenBorrow(dueDate),
	)
	handler := returncopy.NewCommandHandler(store, policy)

	// act
	pending, err := handler.Handle(ctx, phaseOne())
	lenAfterPhaseOne := store.Len()
	require.NoError(t, err)
	settled, settleErr := handler.Handle(ctx, phaseTwo(pending.Fine.FineID))

	// assert
	assert.True(t, pending.Pending)
	assert.Equal(t, returncopy.OutcomePaymentRequired, pending.Outcome)
	assert.Equal(t, "100.00", pending.Fine.Amount.String())
	assert.Equal(t, 2, lenAfterPhaseOne, "phase one appends nothing")

	require.NoError(t, settleErr)
	assert.Equal(t, returncopy.OutcomeSettled, settled.Outcome)
	assert.Equal(t, 4, store.Len())
}

func Test_CommandHandler_Handle_SecondConfirmationIsStale(t *testing.T) {
	// arrange
	ctx := context.Background()
	store := memengine.NewEventStore()
	helper.GivenEvents(t, store, givenOpenBorrow(dueDate))
	handler := returncopy.NewCommandHandler(store, policy)
	pending, err := handler.Handle(ctx, phaseOne())
	require.NoError(t, err)
	_, err = handler.Handle(ctx, phaseTwo(pending.Fine.FineID))
	require.NoError(t, err)

	// act
	_, err = handler.Handle(ctx, phaseTwo(pending.Fine.FineID))

	// assert
	assert.ErrorIs(t, err, core.ErrStaleFineState)
	assert.Equal(t, 4, store.Len(), "one borrow, one settlement, one return, one rejection")
}

func Test_CommandHandler_Handle_ConcurrentConfirmationsSettleTheFineOnce(t *testing.T) {
	// arrange
	const librarians = 12
	ctx := context.Background()
	store := memengine.NewEventStore()
	helper.GivenEvents(t, store, givenOpenBorrow(dueDate))
	handler := returncopy.NewCommandHandler(store, policy)
	pending, err := handler.Handle(ctx, phaseOne())
	require.NoError(t, err)

	start := make(chan struct{})
	results := make([]returncopy.Result, librarians)
	errs := make([]error, librarians)
	var wg sync.WaitGroup

	for i := 0; i < librarians; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			results[i], errs[i] = handler.Handle(ctx, phaseTwo(pending.Fine.FineID))
		}(i)
	}

	// act
	close(start)
	wg.Wait()

	// assert
	settled := 0
	for i, handleErr := range errs {
		if handleErr == nil {
			settled++
			assert.Equal(t, returncopy.OutcomeSettled, results[i].Outcome)
			continue
		}
		assert.ErrorIs(t, handleErr, core.ErrStaleFineState)
	}
	assert.Equal(t, 1, settled)
	assert.Equal(t, 3+(librarians-1), store.Len(), "one borrow, one settlement, one return, and a rejection per loser")
}

func Test_CommandHandler_Handle_ReturnedCopyCanBeBorrowedAgain(t *testing.T) {
	// arrange
	ctx := context.Background()
	store := memengine.NewEventStore()
	helper.GivenEvents(t, store,
		helper.FixtureCopyAdded("1042", helper.FixtureISBN, now),
		helper.FixtureMemberRegistered("M002", now),
		givenOpenBorrow(today),
	)
	_, err := returncopy.NewCommandHandler(store, policy).Handle(ctx, phaseOne())
	require.NoError(t, err)

	// act
	_, err = borrowcopy.NewCommandHandler(store).Handle(
		ctx,
		borrowcopy.BuildCommand("b-2", "1042", "M002", today.AddDays(14), today, "lib-1", now),
	)

	// assert
	assert.NoError(t, err)
}
