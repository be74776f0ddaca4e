package domain

import (
	"fmt"
	"sort"
	"strings"
	"time"

	apperrors "github.com/otavioq/ticket-metrics-backend/internal/core/errors"
)

// ClockTime is a wall-clock time of day without a date component.
type ClockTime struct {
	Hour   int
	Minute int
}

// SecondOfDay returns the number of seconds since midnight.
func (c ClockTime) SecondOfDay() int {
	return c.Hour*3600 + c.Minute*60
}

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// ParseClockTime parses a "HH:MM" string.
func ParseClockTime(s string) (ClockTime, error) {
	var h, m int
	if _, err := fmt.Sscanf(strings.TrimSpace(s), "%d:%d", &h, &m); err != nil {
		return ClockTime{}, fmt.Errorf("%w: %q", apperrors.ErrMalformedTimeRange, s)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return ClockTime{}, fmt.Errorf("%w: %q", apperrors.ErrInvalidTimeOfDay, s)
	}
	return ClockTime{Hour: h, Minute: m}, nil
}

// TimeInterval is one open-for-business window within a single day.
// Start must be strictly before End.
type TimeInterval struct {
	Start ClockTime
	End   ClockTime
}

func (iv TimeInterval) String() string {
	return iv.Start.String() + "-" + iv.End.String()
}

// Date is a calendar date without a time component.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf extracts the calendar date of an instant in its own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// ParseDate parses a "YYYY-MM-DD" string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", apperrors.ErrInvalidHolidayDate, s)
	}
	return DateOf(t), nil
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// Before reports whether d is earlier than other.
func (d Date) Before(other Date) bool {
	if d.Year != other.Year {
		return d.Year < other.Year
	}
	if d.Month != other.Month {
		return d.Month < other.Month
	}
	return d.Day < other.Day
}

// Holiday is an excluded calendar date with a display label.
type Holiday struct {
	Date  Date
	Label string
}

// WeeklySchedule maps each weekday to its business-hour windows.
// An absent or empty entry means the weekday has no business hours.
type WeeklySchedule map[time.Weekday][]TimeInterval

// weekdayNames maps configuration keys to weekdays.
var weekdayNames = map[string]time.Weekday{
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
	"sunday":    time.Sunday,
}

// ParseWeekday resolves a lowercase English weekday name.
func ParseWeekday(name string) (time.Weekday, error) {
	wd, ok := weekdayNames[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, fmt.Errorf("%w: %q", apperrors.ErrInvalidWeekday, name)
	}
	return wd, nil
}

// ParseDayRanges parses a comma-separated list of "HH:MM-HH:MM" windows.
// An empty string yields no windows. Windows must be ascending and must not
// overlap each other.
func ParseDayRanges(s string) ([]TimeInterval, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	var intervals []TimeInterval
	for _, rangeStr := range strings.Split(s, ",") {
		parts := strings.SplitN(rangeStr, "-", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("%w: %q", apperrors.ErrMalformedTimeRange, rangeStr)
		}
		start, err := ParseClockTime(parts[0])
		if err != nil {
			return nil, err
		}
		end, err := ParseClockTime(parts[1])
		if err != nil {
			return nil, err
		}
		if start.SecondOfDay() >= end.SecondOfDay() {
			return nil, fmt.Errorf("%w: %q", apperrors.ErrIntervalNotAscending, rangeStr)
		}
		intervals = append(intervals, TimeInterval{Start: start, End: end})
	}

	sort.Slice(intervals, func(i, j int) bool {
		return intervals[i].Start.SecondOfDay() < intervals[j].Start.SecondOfDay()
	})
	for i := 1; i < len(intervals); i++ {
		if intervals[i].Start.SecondOfDay() < intervals[i-1].End.SecondOfDay() {
			return nil, fmt.Errorf("%w: %s and %s",
				apperrors.ErrOverlappingIntervals, intervals[i-1], intervals[i])
		}
	}

	return intervals, nil
}

// BusinessCalendar answers whether an instant falls inside business hours and
// how many business seconds lie between two instants. It is immutable once
// built; configuration changes construct a replacement instance.
type BusinessCalendar struct {
	schedule WeeklySchedule
	holidays map[Date]struct{}
}

// NewBusinessCalendar builds a calendar from per-weekday range strings
// (e.g. "08:00-12:00,14:00-18:00", empty string for a closed day) and a
// holiday list. Malformed range strings fail construction; silently
// defaulting to always-open or always-closed would mask a configuration
// mistake.
func NewBusinessCalendar(hours map[string]string, holidays []Holiday) (*BusinessCalendar, error) {
	schedule := make(WeeklySchedule, 7)
	for name, rangesStr := range hours {
		wd, err := ParseWeekday(name)
		if err != nil {
			return nil, err
		}
		intervals, err := ParseDayRanges(rangesStr)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		schedule[wd] = intervals
	}

	holidaySet := make(map[Date]struct{}, len(holidays))
	for _, h := range holidays {
		// Duplicate dates collapse into one entry.
		holidaySet[h.Date] = struct{}{}
	}

	return &BusinessCalendar{schedule: schedule, holidays: holidaySet}, nil
}

// IsHoliday reports whether the given date is excluded from business time.
func (c *BusinessCalendar) IsHoliday(d Date) bool {
	_, ok := c.holidays[d]
	return ok
}

// Intervals returns the business-hour windows for a weekday.
func (c *BusinessCalendar) Intervals(wd time.Weekday) []TimeInterval {
	return c.schedule[wd]
}

// IsOpen reports whether the instant falls within business hours. It fails
// closed: holidays, weekdays without windows, and instants outside every
// window all return false. Window endpoints count as open.
func (c *BusinessCalendar) IsOpen(t time.Time) bool {
	if c.IsHoliday(DateOf(t)) {
		return false
	}

	intervals := c.schedule[t.Weekday()]
	if len(intervals) == 0 {
		return false
	}

	secondOfDay := t.Hour()*3600 + t.Minute()*60 + t.Second()
	for _, iv := range intervals {
		if iv.Start.SecondOfDay() <= secondOfDay && secondOfDay <= iv.End.SecondOfDay() {
			return true
		}
	}
	return false
}

// BusinessSecondsBetween returns the business seconds between two instants.
// It returns 0 when start >= end. The walk visits each calendar day in the
// span exactly once, skipping holidays and closed weekdays, and sums the
// positive overlap between each window and the clipped [start, end] range.
func (c *BusinessCalendar) BusinessSecondsBetween(start, end time.Time) float64 {
	if !start.Before(end) {
		return 0
	}

	var total float64
	endDate := DateOf(end)
	for day := midnightOf(start); ; day = day.AddDate(0, 0, 1) {
		date := DateOf(day)
		if endDate.Before(date) {
			break
		}
		if c.IsHoliday(date) {
			continue
		}

		for _, iv := range c.schedule[day.Weekday()] {
			windowStart := day.Add(time.Duration(iv.Start.SecondOfDay()) * time.Second)
			windowEnd := day.Add(time.Duration(iv.End.SecondOfDay()) * time.Second)

			clippedStart := maxTime(windowStart, start)
			clippedEnd := minTime(windowEnd, end)
			if clippedEnd.After(clippedStart) {
				total += clippedEnd.Sub(clippedStart).Seconds()
			}
		}
	}

	return total
}

func midnightOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func maxTime(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func minTime(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}
