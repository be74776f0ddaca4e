package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/otavioq/ticket-metrics-backend/internal/core/domain"
	apperrors "github.com/otavioq/ticket-metrics-backend/internal/core/errors"
	"github.com/otavioq/ticket-metrics-backend/internal/core/ports"
)

// DefaultBusinessHours is the schedule used until an operator configures one:
// split shift on weekdays, closed on weekends.
func DefaultBusinessHours() map[string]string {
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

// CalendarService implements business-hours and holiday management
type CalendarService struct {
	calendarRepo ports.CalendarRepository
}

var _ ports.CalendarService = (*CalendarService)(nil)

// NewCalendarService creates a new calendar service
func NewCalendarService(calendarRepo ports.CalendarRepository) ports.CalendarService {
	return &CalendarService{calendarRepo: calendarRepo}
}

// GetBusinessHours returns the configured schedule, falling back to defaults
// when nothing has been stored yet
func (s *CalendarService) GetBusinessHours(ctx context.Context) (map[string]string, error) {
	hours, err := s.calendarRepo.GetBusinessHours(ctx)
	if err != nil {
		return nil, err
	}
	if len(hours) == 0 {
		return DefaultBusinessHours(), nil
	}
	return hours, nil
}

// UpdateBusinessHours validates and replaces the weekly schedule. The store
// holds the whole week at once, so every weekday must be present (an empty
// string closes that day explicitly); a partial map would silently zero the
// days it omits. Validation failures are reported per weekday so the client
// can highlight the bad field.
func (s *CalendarService) UpdateBusinessHours(ctx context.Context, params ports.UpdateBusinessHoursParams) error {
	validationErrs := apperrors.NewValidationErrors()

	for name := range DefaultBusinessHours() {
		if _, ok := params.Hours[name]; !ok {
			validationErrs.Add(name, "weekday is required")
		}
	}

	for name, rangesStr := range params.Hours {
		if _, err := domain.ParseWeekday(name); err != nil {
			validationErrs.Add(name, "unknown weekday name")
			continue
		}
		if _, err := domain.ParseDayRanges(rangesStr); err != nil {
			validationErrs.Add(name, err.Error())
		}
	}

	if validationErrs.HasErrors() {
		return validationErrs
	}

	return s.calendarRepo.SaveBusinessHours(ctx, params.Hours)
}

// ListHolidays returns all configured holidays
func (s *CalendarService) ListHolidays(ctx context.Context) ([]domain.Holiday, error) {
	return s.calendarRepo.ListHolidays(ctx)
}

// AddHoliday inserts or overwrites a single holiday
func (s *CalendarService) AddHoliday(ctx context.Context, holiday domain.Holiday) error {
	if holiday.Date == (domain.Date{}) {
		return apperrors.NewBadRequestError(apperrors.ErrInvalidHolidayDate, "A holiday date is required")
	}
	return s.calendarRepo.UpsertHolidays(ctx, []domain.Holiday{holiday})
}

// RemoveHoliday deletes a holiday by date
func (s *CalendarService) RemoveHoliday(ctx context.Context, date domain.Date) error {
	return s.calendarRepo.DeleteHoliday(ctx, date)
}

// ImportHolidays parses "date;label" lines and upserts every holiday found.
// Blank lines are skipped; a malformed line aborts the whole import so a
// partial file is never half-applied.
func (s *CalendarService) ImportHolidays(ctx context.Context, params ports.ImportHolidaysParams) (int, error) {
	var holidays []domain.Holiday

	for i, line := range strings.Split(params.Lines, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		datePart, label, _ := strings.Cut(line, ";")
		date, err := domain.ParseDate(datePart)
		if err != nil {
			return 0, apperrors.NewBadRequestError(err, fmt.Sprintf("Line %d: invalid holiday date", i+1))
		}

		holidays = append(holidays, domain.Holiday{Date: date, Label: strings.TrimSpace(label)})
	}

	if len(holidays) == 0 {
		return 0, nil
	}

	if err := s.calendarRepo.UpsertHolidays(ctx, holidays); err != nil {
		return 0, err
	}
	return len(holidays), nil
}

// Calendar builds a fresh immutable calendar snapshot from the stored
// configuration
func (s *CalendarService) Calendar(ctx context.Context) (*domain.BusinessCalendar, error) {
	hours, err := s.GetBusinessHours(ctx)
	if err != nil {
		return nil, err
	}

	holidays, err := s.calendarRepo.ListHolidays(ctx)
	if err != nil {
		return nil, err
	}

	return domain.NewBusinessCalendar(hours, holidays)
}
