package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/otavioq/ticket-metrics-backend/internal/core/domain"
	apperrors "github.com/otavioq/ticket-metrics-backend/internal/core/errors"
)

// weekdayHours is the default schedule used across tests: split shift
// Mon-Fri, weekend closed.
func weekdayHours() map[string]string {
	return map[string]string{
		"monday":    "08:00-12:00,14:00-18:00",
		"tuesday":   "08:00-12:00,14:00-18:00",
		"wednesday": "08:00-12:00,14:00-18:00",
		"thursday":  "08:00-12:00,14:00-18:00",
		"friday":    "08:00-12:00,14:00-18:00",
		"saturday":  "",
		"sunday":    "",
	}
}

func mustCalendar(t *testing.T, holidays ...domain.Holiday) *domain.BusinessCalendar {
	t.Helper()
	cal, err := domain.NewBusinessCalendar(weekdayHours(), holidays)
	require.NoError(t, err)
	return cal
}

// 2024-03-04 is a Monday.
func mondayAt(hour, min int) time.Time {
	return time.Date(2024, 3, 4, hour, min, 0, 0, time.UTC)
}

func TestParseDayRanges(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int
		wantErr error
	}{
		{"empty string is a closed day", "", 0, nil},
		{"single range", "08:00-12:00", 1, nil},
		{"split shift", "08:00-12:00,14:00-18:00", 2, nil},
		{"missing dash", "08:00", 0, apperrors.ErrMalformedTimeRange},
		{"hour out of range", "25:00-26:00", 0, apperrors.ErrInvalidTimeOfDay},
		{"minute out of range", "08:61-09:00", 0, apperrors.ErrInvalidTimeOfDay},
		{"inverted range", "12:00-08:00", 0, apperrors.ErrIntervalNotAscending},
		{"zero-length range", "08:00-08:00", 0, apperrors.ErrIntervalNotAscending},
		{"overlapping ranges", "08:00-12:00,11:00-13:00", 0, apperrors.ErrOverlappingIntervals},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			intervals, err := domain.ParseDayRanges(tt.input)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Len(t, intervals, tt.want)
		})
	}
}

func TestParseDayRanges_SortsIntervals(t *testing.T) {
	intervals, err := domain.ParseDayRanges("14:00-18:00,08:00-12:00")
	require.NoError(t, err)
	require.Len(t, intervals, 2)
	assert.Equal(t, domain.ClockTime{Hour: 8}, intervals[0].Start)
	assert.Equal(t, domain.ClockTime{Hour: 14}, intervals[1].Start)
}

func TestNewBusinessCalendar_RejectsMalformedConfig(t *testing.T) {
	hours := weekdayHours()
	hours["wednesday"] = "nine to five"

	_, err := domain.NewBusinessCalendar(hours, nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrMalformedTimeRange)
}

func TestNewBusinessCalendar_RejectsUnknownWeekday(t *testing.T) {
	_, err := domain.NewBusinessCalendar(map[string]string{"someday": "08:00-12:00"}, nil)
	assert.ErrorIs(t, err, apperrors.ErrInvalidWeekday)
}

func TestBusinessCalendar_IsOpen(t *testing.T) {
	cal := mustCalendar(t)

	tests := []struct {
		name    string
		instant time.Time
		want    bool
	}{
		{"mid-morning weekday", mondayAt(9, 30), true},
		{"interval start is open", mondayAt(8, 0), true},
		{"interval end is open", mondayAt(18, 0), true},
		{"lunch gap is closed", mondayAt(13, 0), false},
		{"before opening", mondayAt(7, 59), false},
		{"after closing", mondayAt(18, 1), false},
		{"saturday is closed", time.Date(2024, 3, 9, 10, 0, 0, 0, time.UTC), false},
		{"sunday is closed", time.Date(2024, 3, 10, 10, 0, 0, 0, time.UTC), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cal.IsOpen(tt.instant))
		})
	}
}

func TestBusinessCalendar_HolidayIsClosedAllDay(t *testing.T) {
	holiday := domain.Holiday{Date: domain.Date{Year: 2024, Month: 3, Day: 4}, Label: "Carnaval"}
	cal := mustCalendar(t, holiday)

	// The weekday schedule would say open; the holiday wins at any hour.
	for _, hour := range []int{0, 8, 10, 12, 15, 18, 23} {
		assert.False(t, cal.IsOpen(mondayAt(hour, 0)), "hour %d", hour)
	}
}

func TestBusinessCalendar_DuplicateHolidaysCollapse(t *testing.T) {
	date := domain.Date{Year: 2024, Month: 3, Day: 4}
	cal := mustCalendar(t,
		domain.Holiday{Date: date, Label: "first"},
		domain.Holiday{Date: date, Label: "second"},
	)

	assert.True(t, cal.IsHoliday(date))
}

func TestBusinessSecondsBetween(t *testing.T) {
	cal := mustCalendar(t)

	friday := time.Date(2024, 3, 8, 17, 0, 0, 0, time.UTC)
	nextMonday := time.Date(2024, 3, 11, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		start time.Time
		end   time.Time
		want  float64
	}{
		{"two hours inside one window", mondayAt(9, 0), mondayAt(11, 0), 7200},
		{"spanning a weekend", friday, nextMonday, 7200},
		{"entirely inside the lunch gap", mondayAt(12, 15), mondayAt(13, 45), 0},
		{"window edges contribute zero", mondayAt(12, 0), mondayAt(14, 0), 0},
		{"full business day", mondayAt(0, 0), mondayAt(23, 59), 8 * 3600},
		{"inverted range returns zero", mondayAt(11, 0), mondayAt(9, 0), 0},
		{"equal instants return zero", mondayAt(9, 0), mondayAt(9, 0), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, cal.BusinessSecondsBetween(tt.start, tt.end), 1e-6)
		})
	}
}

func TestBusinessSecondsBetween_SkipsHolidays(t *testing.T) {
	cal := mustCalendar(t, domain.Holiday{Date: domain.Date{Year: 2024, Month: 3, Day: 5}})

	// Monday 09:00 to Wednesday 09:00 with Tuesday as a holiday: the middle
	// day contributes nothing.
	start := mondayAt(9, 0)
	end := time.Date(2024, 3, 6, 9, 0, 0, 0, time.UTC)

	// Mon 09:00-12:00 + 14:00-18:00 = 7h, Wed 08:00-09:00 = 1h.
	assert.InDelta(t, 8*3600, cal.BusinessSecondsBetween(start, end), 1e-6)
}

func TestBusinessSecondsBetween_Additivity(t *testing.T) {
	cal := mustCalendar(t)

	start := mondayAt(9, 0)
	mid := time.Date(2024, 3, 6, 13, 30, 0, 0, time.UTC)
	end := time.Date(2024, 3, 8, 17, 45, 0, 0, time.UTC)

	sum := cal.BusinessSecondsBetween(start, mid) + cal.BusinessSecondsBetween(mid, end)
	whole := cal.BusinessSecondsBetween(start, end)

	assert.InDelta(t, whole, sum, 1e-6)
}

func TestBusinessSecondsBetween_BoundedByWallTime(t *testing.T) {
	cal := mustCalendar(t)

	pairs := []struct {
		start, end time.Time
	}{
		{mondayAt(9, 0), mondayAt(11, 0)},
		{mondayAt(7, 0), mondayAt(19, 0)},
		{mondayAt(0, 0), time.Date(2024, 3, 10, 23, 59, 0, 0, time.UTC)},
	}

	for _, p := range pairs {
		business := cal.BusinessSecondsBetween(p.start, p.end)
		assert.LessOrEqual(t, business, p.end.Sub(p.start).Seconds())
		assert.GreaterOrEqual(t, business, 0.0)
	}
}

func TestParseDate(t *testing.T) {
	d, err := domain.ParseDate("2024-12-25")
	require.NoError(t, err)
	assert.Equal(t, domain.Date{Year: 2024, Month: time.December, Day: 25}, d)

	_, err = domain.ParseDate("25/12/2024")
	assert.ErrorIs(t, err, apperrors.ErrInvalidHolidayDate)
}
