package calendar_test

import (
	"testing"
	"time"

	"wsb/shared/calendar"
	"wsb/shared/failure"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCalendar(t *testing.T, now time.Time) *calendar.Calendar {
	t.Helper()

	cal, err := calendar.NewWithOptions(calendar.Options{
		StepMinutes:        30,
		DayOpen:            "07:00",
		DayClose:           "22:00",
		MaxDurationMinutes: 480,
		Location:           time.UTC,
		Now:                calendar.NewManualClock(now).Now,
	})
	require.NoError(t, err)

	return cal
}

func at(hour, minute int) time.Time {
	return time.Date(2025, 1, 10, hour, minute, 0, 0, time.UTC)
}

func TestNewWithOptions_Invalid(t *testing.T) {
	tests := []struct {
		name string
		opts calendar.Options
	}{
		{name: "step does not divide hour", opts: calendar.Options{StepMinutes: 25}},
		{name: "bad open", opts: calendar.Options{DayOpen: "7am"}},
		{name: "close before open", opts: calendar.Options{DayOpen: "22:00", DayClose: "07:00"}},
		{name: "unaligned open", opts: calendar.Options{DayOpen: "07:15"}},
		{name: "max duration not multiple", opts: calendar.Options{MaxDurationMinutes: 45}},
		{name: "closing step past midnight", opts: calendar.Options{DayClose: "23:45", StepMinutes: 30}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := calendar.NewWithOptions(tt.opts)
			assert.Error(t, err)
		})
	}
}

func TestCalendar_ParseTime(t *testing.T) {
	cal := newCalendar(t, at(8, 0))

	tests := []struct {
		name    string
		input   string
		want    string
		wantErr error
	}{
		{name: "aligned", input: "09:30", want: "09:30"},
		{name: "midnight", input: "00:00", want: "00:00"},
		{name: "single digit hour", input: "9:30", wantErr: failure.ErrBadTimeFormat},
		{name: "garbage", input: "ab:cd", wantErr: failure.ErrBadTimeFormat},
		{name: "out of range", input: "25:00", wantErr: failure.ErrBadTimeFormat},
		{name: "unaligned", input: "09:15", wantErr: failure.ErrUnaligned},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tod, err := cal.ParseTime(tt.input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, tod.String())
		})
	}
}

func TestCalendar_SlotGrid(t *testing.T) {
	cal := newCalendar(t, at(8, 0))

	grid := cal.SlotGrid(at(0, 0))

	require.Len(t, grid, 30)
	assert.Equal(t, at(7, 0), grid[0])
	assert.Equal(t, at(21, 30), grid[len(grid)-1])

	for i := 1; i < len(grid); i++ {
		assert.Equal(t, 30*time.Minute, grid[i].Sub(grid[i-1]))
	}
}

func TestCalendar_ClipToDay(t *testing.T) {
	cal := newCalendar(t, at(8, 0))

	assert.Equal(t, at(22, 30), cal.ClipToDay(at(20, 0), at(23, 0)))
	assert.Equal(t, at(21, 0), cal.ClipToDay(at(20, 0), at(21, 0)))
}

func TestCalendar_RoundDownToStep(t *testing.T) {
	cal := newCalendar(t, at(8, 0))

	assert.Equal(t, 0, cal.RoundDownToStep(-5))
	assert.Equal(t, 0, cal.RoundDownToStep(29))
	assert.Equal(t, 30, cal.RoundDownToStep(59))
	assert.Equal(t, 90, cal.RoundDownToStep(90))
}

func TestCalendar_ValidateInterval(t *testing.T) {
	cal := newCalendar(t, at(8, 0))

	tests := []struct {
		name    string
		start   time.Time
		end     time.Time
		wantErr error
	}{
		{name: "happy", start: at(9, 0), end: at(10, 30)},
		{name: "exactly max duration", start: at(9, 0), end: at(17, 0)},
		{name: "ends at closing plus step", start: at(21, 30), end: at(22, 30)},
		{name: "longer than max", start: at(9, 0), end: at(17, 30), wantErr: failure.ErrDurationOutOfRange},
		{name: "empty", start: at(9, 0), end: at(9, 0), wantErr: failure.ErrDurationOutOfRange},
		{name: "before opening", start: at(6, 30), end: at(7, 30), wantErr: failure.ErrOutOfHours},
		{name: "start at closing", start: at(22, 0), end: at(22, 30), wantErr: failure.ErrOutOfHours},
		{name: "past day limit", start: at(21, 30), end: at(23, 0), wantErr: failure.ErrOutOfHours},
		{name: "unaligned end", start: at(9, 0), end: at(9, 45), wantErr: failure.ErrUnaligned},
		{name: "one minute past limit", start: at(21, 30), end: at(22, 31), wantErr: failure.ErrUnaligned},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := cal.ValidateInterval(tt.start, tt.end)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)

				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestCalendar_ValidateDuration(t *testing.T) {
	cal := newCalendar(t, at(8, 0))

	assert.NoError(t, cal.ValidateDuration(30))
	assert.NoError(t, cal.ValidateDuration(480))
	assert.ErrorIs(t, cal.ValidateDuration(0), failure.ErrDurationOutOfRange)
	assert.ErrorIs(t, cal.ValidateDuration(510), failure.ErrDurationOutOfRange)
	assert.ErrorIs(t, cal.ValidateDuration(45), failure.ErrUnaligned)
}

func TestCalendar_ValidateNotPast(t *testing.T) {
	cal := newCalendar(t, at(8, 0).Add(42*time.Second))

	assert.NoError(t, cal.ValidateNotPast(at(8, 0)))
	assert.ErrorIs(t, cal.ValidateNotPast(at(7, 59)), failure.ErrPastTime)
	assert.ErrorIs(t, cal.ValidateNotPast(at(7, 30)), failure.ErrPastTime)
}

func TestCalendar_ValidateExtension(t *testing.T) {
	cal := newCalendar(t, at(8, 0))

	newEnd, err := cal.ValidateExtension(at(9, 0), at(10, 30), 60)
	require.NoError(t, err)
	assert.Equal(t, at(11, 30), newEnd)

	_, err = cal.ValidateExtension(at(9, 0), at(10, 30), 0)
	assert.ErrorIs(t, err, failure.ErrDurationOutOfRange)

	_, err = cal.ValidateExtension(at(9, 0), at(10, 30), 20)
	assert.ErrorIs(t, err, failure.ErrUnaligned)

	_, err = cal.ValidateExtension(at(9, 0), at(16, 30), 60)
	assert.ErrorIs(t, err, failure.ErrDurationOutOfRange)

	_, err = cal.ValidateExtension(at(21, 0), at(22, 0), 60)
	assert.ErrorIs(t, err, failure.ErrOutOfHours)
}

func TestCalendar_NowTruncatesToMinute(t *testing.T) {
	clock := calendar.NewManualClock(at(9, 44).Add(59 * time.Second))
	cal, err := calendar.NewWithOptions(calendar.Options{Now: clock.Now})
	require.NoError(t, err)

	assert.Equal(t, at(9, 44), cal.Now())

	clock.Advance(time.Second)
	assert.Equal(t, at(9, 45), cal.Now())
	assert.True(t, cal.IsToday(at(0, 0)))
	assert.False(t, cal.IsToday(at(0, 0).AddDate(0, 0, 1)))
}

func TestCalendar_ParseDateUsesLocation(t *testing.T) {
	loc := time.FixedZone("MSK", 3*60*60)
	cal, err := calendar.NewWithOptions(calendar.Options{Location: loc})
	require.NoError(t, err)

	date, err := cal.ParseDate("2025-01-10")
	require.NoError(t, err)
	assert.Equal(t, loc, date.Location())

	tod, err := cal.ParseTime("09:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 1, 10, 6, 0, 0, 0, time.UTC), cal.Combine(date, tod).UTC())

	_, err = cal.ParseDate("10.01.2025")
	assert.ErrorIs(t, err, failure.ErrBadTimeFormat)
}
