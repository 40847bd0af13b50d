package core_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-circulation/circulation/core"
)

func Test_CalendarDateOf_UsesTheGivenLocation(t *testing.T) {
	// arrange
	berlin, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)

	lateEveningUTC := time.Date(2026, 3, 9, 23, 30, 0, 0, time.UTC)

	// act
	inUTC := core.CalendarDateOf(lateEveningUTC, time.UTC)
	inBerlin := core.CalendarDateOf(lateEveningUTC, berlin)

	// assert
	assert.Equal(t, "2026-03-09", inUTC.String())
	assert.Equal(t, "2026-03-10", inBerlin.String())
}

func Test_CalendarDate_DaysSince(t *testing.T) {
	testCases := []struct {
		name     string
		from     core.CalendarDate
		to       core.CalendarDate
		expected int
	}{
		{"same day", core.NewCalendarDate(2026, 3, 1), core.NewCalendarDate(2026, 3, 1), 0},
		{"ten days later", core.NewCalendarDate(2026, 3, 1), core.NewCalendarDate(2026, 3, 11), 10},
		{"across a DST switch", core.NewCalendarDate(2026, 3, 28), core.NewCalendarDate(2026, 3, 30), 2},
		{"across a leap day", core.NewCalendarDate(2028, 2, 28), core.NewCalendarDate(2028, 3, 1), 2},
		{"earlier", core.NewCalendarDate(2026, 3, 11), core.NewCalendarDate(2026, 3, 1), -10},
		{"four centuries apart", core.NewCalendarDate(1700, 1, 1), core.NewCalendarDate(2100, 1, 1), 146097},
		{"four centuries earlier", core.NewCalendarDate(2100, 1, 1), core.NewCalendarDate(1700, 1, 1), -146097},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// act
			days := tc.to.DaysSince(tc.from)

			// assert
			assert.Equal(t, tc.expected, days)
		})
	}
}

func Test_ParseCalendarDate(t *testing.T) {
	// act
	plain, plainErr := core.ParseCalendarDate("2026-03-10")
	withTime, withTimeErr := core.ParseCalendarDate("2026-03-10T15:04:05Z")
	withOffset, withOffsetErr := core.ParseCalendarDate("2026-03-10T23:30:00.125-05:00")
	_, invalidErr := core.ParseCalendarDate("10.03.2026")

	// assert
	require.NoError(t, plainErr)
	require.NoError(t, withTimeErr)
	require.NoError(t, withOffsetErr)
	assert.True(t, plain.Equal(withTime))
	assert.True(t, plain.Equal(withOffset), "the date is taken as written")
	assert.ErrorIs(t, invalidErr, core.ErrInvalidCalendarDate)
}

func Test_ParseCalendarDate_RejectsMalformedTimeParts(t *testing.T) {
	for _, value := range []string{"2026-10-15Tgarbage", "2026-10-15T", "2026-10-15T25:00:00Z", "2026-10-15T10:00:00"} {
		t.Run(value, func(t *testing.T) {
			// act
			_, err := core.ParseCalendarDate(value)

			// assert
			assert.ErrorIs(t, err, core.ErrInvalidCalendarDate)
		})
	}
}

func Test_CalendarDate_JSON(t *testing.T) {
	// arrange
	type carrier struct {
		DueDate core.CalendarDate
		Empty   core.CalendarDate
	}

	// act
	data, marshalErr := json.Marshal(carrier{DueDate: core.NewCalendarDate(2026, 3, 10)})
	var decoded carrier
	unmarshalErr := json.Unmarshal(data, &decoded)

	// assert
	require.NoError(t, marshalErr)
	require.NoError(t, unmarshalErr)
	assert.JSONEq(t, `{"DueDate":"2026-03-10","Empty":""}`, string(data))
	assert.True(t, decoded.DueDate.Equal(core.NewCalendarDate(2026, 3, 10)))
	assert.True(t, decoded.Empty.IsZero())
}
