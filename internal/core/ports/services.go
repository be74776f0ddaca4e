package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/otavioq/ticket-metrics-backend/internal/core/domain"
)

// AuthService defines the port for API authentication.
type AuthService interface {
	// Login validates the configured admin credentials and returns a signed
	// token on success.
	Login(ctx context.Context, username, password string) (string, error)
}

// UpdateBusinessHoursParams defines the input for replacing the weekly
// schedule. Keys are lowercase English weekday names, values are range
// strings like "08:00-12:00,14:00-18:00".
type UpdateBusinessHoursParams struct {
	Hours map[string]string
}

// ImportHolidaysParams defines the input for bulk holiday import. Lines is
// the raw "date;label" payload, one holiday per line.
type ImportHolidaysParams struct {
	Lines string
}

// CalendarService defines the port for business-hours and holiday management.
type CalendarService interface {
	GetBusinessHours(ctx context.Context) (map[string]string, error)
	UpdateBusinessHours(ctx context.Context, params UpdateBusinessHoursParams) error

	ListHolidays(ctx context.Context) ([]domain.Holiday, error)
	AddHoliday(ctx context.Context, holiday domain.Holiday) error
	RemoveHoliday(ctx context.Context, date domain.Date) error
	// ImportHolidays parses and upserts "date;label" lines, returning the
	// number of holidays imported.
	ImportHolidays(ctx context.Context, params ImportHolidaysParams) (int, error)

	// Calendar builds an immutable business calendar from the stored
	// configuration. Callers get a fresh snapshot per call.
	Calendar(ctx context.Context) (*domain.BusinessCalendar, error)
}

// StartAnalysisParams defines the input for starting a batch analysis job.
type StartAnalysisParams struct {
	TicketIDs []string
}

// SetClassificationsParams defines the input for overriding event
// classifications on one ticket.
type SetClassificationsParams struct {
	TicketID        string
	Classifications map[string]domain.Classification
}

// AnalysisService defines the port for running ticket time attribution.
type AnalysisService interface {
	// StartAnalysis registers a job and analyzes the tickets asynchronously.
	// One ticket failing does not abort the batch.
	StartAnalysis(ctx context.Context, params StartAnalysisParams) (*domain.AnalysisJob, error)
	GetJob(ctx context.Context, jobID uuid.UUID) (*domain.AnalysisJob, error)

	// SetClassifications persists overrides for one ticket and returns the
	// re-replayed analysis.
	SetClassifications(ctx context.Context, params SetClassificationsParams) (*domain.TicketAnalysis, error)

	// AnalyzeTicket replays a single ticket with its persisted overrides.
	AnalyzeTicket(ctx context.Context, ticketID string) (*domain.TicketAnalysis, error)

	Shutdown()
}

// TicketQueryService defines the port for browsing vendor tickets.
type TicketQueryService interface {
	ListTickets(ctx context.Context, params ListTicketsParams) ([]domain.TicketSummary, error)
	GetTicketDetail(ctx context.Context, ticketID string) (*domain.TicketDetail, error)
}
