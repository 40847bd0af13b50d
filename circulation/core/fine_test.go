package core_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-circulation/circulation/core"
)

func Test_ParseMoney(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected core.Money
		wantErr  bool
	}{
		{name: "two fraction digits", input: "10.00", expected: 1000},
		{name: "one fraction digit", input: "2.5", expected: 250},
		{name: "no fraction", input: "7", expected: 700},
		{name: "surrounding space", input: " 0.75 ", expected: 75},
		{name: "three fraction digits", input: "1.005", wantErr: true},
		{name: "negative", input: "-1.00", wantErr: true},
		{name: "trailing dot", input: "3.", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// act
			money, err := core.ParseMoney(tc.input)

			// assert
			if tc.wantErr {
				assert.ErrorIs(t, err, core.ErrInvalidMoney)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.expected, money)
		})
	}
}

func Test_Money_String(t *testing.T) {
	assert.Equal(t, "100.00", core.Money(10000).String())
	assert.Equal(t, "0.05", core.Money(5).String())
	assert.InDelta(t, 100.0, core.Money(10000).Float64(), 0.0001)
}

func Test_FinePolicy_Assess_TenDaysOverdue(t *testing.T) {
	// arrange
	policy := core.NewFinePolicy(core.DefaultFineRatePerDay)
	borrow := core.OpenBorrow{
		BorrowID: uuid.NewString(),
		CopyID:   "1042",
		MemberID: "7",
		DueDate:  core.NewCalendarDate(2026, 3, 1),
	}

	// act
	fine, ok := policy.Assess(borrow, core.NewCalendarDate(2026, 3, 11))

	// assert
	require.True(t, ok)
	assert.Equal(t, 10, fine.DaysOverdue)
	assert.Equal(t, core.Money(10000), fine.Amount)
	assert.Equal(t, "100.00", fine.Amount.String())
	assert.Equal(t, borrow.BorrowID, fine.BorrowID)
	assert.NotEmpty(t, fine.FineID)
}

func Test_FinePolicy_Assess_NotOverdue(t *testing.T) {
	// arrange
	policy := core.NewFinePolicy(core.DefaultFineRatePerDay)
	borrow := core.OpenBorrow{BorrowID: uuid.NewString(), DueDate: core.NewCalendarDate(2026, 3, 11)}

	// act
	_, onDueDate := policy.Assess(borrow, core.NewCalendarDate(2026, 3, 11))
	_, beforeDueDate := policy.Assess(borrow, core.NewCalendarDate(2026, 3, 5))

	// assert
	assert.False(t, onDueDate)
	assert.False(t, beforeDueDate)
}

func Test_FineID_IsStablePerDayAndAmount(t *testing.T) {
	// arrange
	borrowID := uuid.NewString()
	day := core.NewCalendarDate(2026, 3, 11)

	// act
	first := core.FineID(borrowID, day, 10, 10000)
	repeated := core.FineID(borrowID, day, 10, 10000)
	nextDay := core.FineID(borrowID, day.AddDays(1), 11, 11000)
	otherRate := core.FineID(borrowID, day, 10, 5000)

	// assert
	assert.Equal(t, first, repeated)
	assert.NotEqual(t, first, nextDay)
	assert.NotEqual(t, first, otherRate)

	parsed, err := uuid.Parse(first)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(5), parsed.Version())
}
