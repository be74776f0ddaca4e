package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/otavioq/ticket-metrics-backend/internal/core/domain"
)

// CalendarRepository persists the weekly business-hours configuration and the
// holiday list backing the business calendar.
type CalendarRepository interface {
	// GetBusinessHours returns the per-weekday range strings, keyed by
	// lowercase English weekday name. An empty map means nothing has been
	// configured yet and the caller should fall back to defaults.
	GetBusinessHours(ctx context.Context) (map[string]string, error)
	SaveBusinessHours(ctx context.Context, hours map[string]string) error

	ListHolidays(ctx context.Context) ([]domain.Holiday, error)
	// UpsertHolidays inserts or overwrites holidays by date.
	UpsertHolidays(ctx context.Context, holidays []domain.Holiday) error
	DeleteHoliday(ctx context.Context, date domain.Date) error
}

// AnalysisRepository persists analysis jobs and per-ticket classification
// overrides.
type AnalysisRepository interface {
	SaveJob(ctx context.Context, job *domain.AnalysisJob) error
	GetJob(ctx context.Context, jobID uuid.UUID) (*domain.AnalysisJob, error)

	// GetClassificationOverrides returns the persisted overrides for one
	// ticket, keyed by event id. Missing tickets yield an empty map.
	GetClassificationOverrides(ctx context.Context, ticketID string) (map[string]domain.Classification, error)
	SetClassificationOverrides(ctx context.Context, ticketID string, overrides map[string]domain.Classification) error
}

// ListTicketsParams defines the filters accepted by the vendor ticket list.
type ListTicketsParams struct {
	Page        int
	SituationID *int
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// TicketSource is the port to the upstream ticket vendor.
type TicketSource interface {
	ListTickets(ctx context.Context, params ListTicketsParams) ([]domain.TicketSummary, error)
	GetTicketDetail(ctx context.Context, ticketID string) (*domain.TicketDetail, error)
}

// TicketCache is a read-through cache for vendor ticket details. A miss is
// reported as (nil, nil), not an error.
type TicketCache interface {
	GetDetail(ctx context.Context, ticketID string) (*domain.TicketDetail, error)
	SetDetail(ctx context.Context, detail *domain.TicketDetail, ttl time.Duration) error
}

// EventBroadcaster pushes analysis job events to connected subscribers.
type EventBroadcaster interface {
	BroadcastEvent(event domain.Event)
}
