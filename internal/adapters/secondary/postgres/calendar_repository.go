package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/otavioq/ticket-metrics-backend/internal/core/domain"
	apperrors "github.com/otavioq/ticket-metrics-backend/internal/core/errors"
	"github.com/otavioq/ticket-metrics-backend/internal/core/ports"
)

// CalendarRepository is the secondary adapter for calendar persistence.
type CalendarRepository struct {
	pool *pgxpool.Pool
}

var _ ports.CalendarRepository = (*CalendarRepository)(nil)

// NewCalendarRepository creates a new calendar repository.
func NewCalendarRepository(pool *pgxpool.Pool) ports.CalendarRepository {
	return &CalendarRepository{pool: pool}
}

// GetBusinessHours returns the stored per-weekday range strings.
func (r *CalendarRepository) GetBusinessHours(ctx context.Context) (map[string]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT weekday, ranges FROM business_hours`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	hours := make(map[string]string)
	for rows.Next() {
		var weekday, ranges string
		if err := rows.Scan(&weekday, &ranges); err != nil {
			return nil, err
		}
		hours[weekday] = ranges
	}
	return hours, rows.Err()
}

// SaveBusinessHours replaces the whole schedule atomically.
func (r *CalendarRepository) SaveBusinessHours(ctx context.Context, hours map[string]string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM business_hours`); err != nil {
		return err
	}
	for weekday, ranges := range hours {
		if _, err := tx.Exec(ctx,
			`INSERT INTO business_hours (weekday, ranges) VALUES ($1, $2)`,
			weekday, ranges,
		); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// ListHolidays returns all holidays ordered by date.
func (r *CalendarRepository) ListHolidays(ctx context.Context) ([]domain.Holiday, error) {
	rows, err := r.pool.Query(ctx, `SELECT day, label FROM holidays ORDER BY day`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var holidays []domain.Holiday
	for rows.Next() {
		var day time.Time
		var label string
		if err := rows.Scan(&day, &label); err != nil {
			return nil, err
		}
		holidays = append(holidays, domain.Holiday{Date: domain.DateOf(day), Label: label})
	}
	return holidays, rows.Err()
}

// UpsertHolidays inserts or overwrites holidays by date.
func (r *CalendarRepository) UpsertHolidays(ctx context.Context, holidays []domain.Holiday) error {
	batch := &pgx.Batch{}
	for _, h := range holidays {
		batch.Queue(
			`INSERT INTO holidays (day, label) VALUES ($1, $2)
			 ON CONFLICT (day) DO UPDATE SET label = EXCLUDED.label`,
			dateToTime(h.Date), h.Label,
		)
	}
	return r.pool.SendBatch(ctx, batch).Close()
}

// DeleteHoliday removes a holiday by date.
func (r *CalendarRepository) DeleteHoliday(ctx context.Context, date domain.Date) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM holidays WHERE day = $1`, dateToTime(date))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrHolidayNotFound
	}
	return nil
}

func dateToTime(d domain.Date) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}
