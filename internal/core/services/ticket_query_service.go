package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/otavioq/ticket-metrics-backend/internal/core/domain"
	apperrors "github.com/otavioq/ticket-metrics-backend/internal/core/errors"
	"github.com/otavioq/ticket-metrics-backend/internal/core/ports"
	"github.com/otavioq/ticket-metrics-backend/internal/infrastructure/metrics"
)

// detailCacheTTL bounds how long a vendor ticket snapshot may be reused.
// Finished tickets rarely change, open ones accumulate replies, so the TTL
// is a compromise rather than per-state logic.
const detailCacheTTL = 15 * time.Minute

// TicketQueryService proxies vendor ticket browsing through the detail cache
type TicketQueryService struct {
	tickets ports.TicketSource
	cache   ports.TicketCache
	logger  *slog.Logger
}

var _ ports.TicketQueryService = (*TicketQueryService)(nil)

// NewTicketQueryService creates a new ticket query service
func NewTicketQueryService(tickets ports.TicketSource, cache ports.TicketCache, logger *slog.Logger) ports.TicketQueryService {
	return &TicketQueryService{tickets: tickets, cache: cache, logger: logger}
}

// ListTickets forwards list filters to the vendor. Listings are not cached:
// they change on every vendor-side update and staleness is visible to users.
func (s *TicketQueryService) ListTickets(ctx context.Context, params ports.ListTicketsParams) ([]domain.TicketSummary, error) {
	if params.Page < 1 {
		params.Page = 1
	}
	return s.tickets.ListTickets(ctx, params)
}

// GetTicketDetail fetches one ticket through the cache
func (s *TicketQueryService) GetTicketDetail(ctx context.Context, ticketID string) (*domain.TicketDetail, error) {
	if ticketID == "" {
		return nil, apperrors.NewBadRequestError(apperrors.ErrTicketNotFound, "A ticket ID is required")
	}

	if s.cache != nil {
		detail, err := s.cache.GetDetail(ctx, ticketID)
		if err != nil {
			s.logger.Warn("ticket cache read failed", "ticket_id", ticketID, "error", err)
		} else if detail != nil {
			metrics.TicketCacheTotal.WithLabelValues("hit").Inc()
			return detail, nil
		} else {
			metrics.TicketCacheTotal.WithLabelValues("miss").Inc()
		}
	}

	detail, err := s.tickets.GetTicketDetail(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetDetail(ctx, detail, detailCacheTTL); err != nil {
			s.logger.Warn("ticket cache write failed", "ticket_id", ticketID, "error", err)
		}
	}

	return detail, nil
}
