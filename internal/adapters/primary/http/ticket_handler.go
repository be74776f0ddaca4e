package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/otavioq/ticket-metrics-backend/internal/adapters/primary/validation"
	"github.com/otavioq/ticket-metrics-backend/internal/core/domain"
	"github.com/otavioq/ticket-metrics-backend/internal/core/ports"
)

// TicketHandler handles vendor ticket browsing requests
type TicketHandler struct {
	ticketQueries   ports.TicketQueryService
	analysisHandler *AnalysisHandler
	errorHandler    *ErrorHandler
	logger          *slog.Logger
}

// NewTicketHandler creates a new ticket handler
func NewTicketHandler(
	ticketQueries ports.TicketQueryService,
	analysisHandler *AnalysisHandler,
	errorHandler *ErrorHandler,
	logger *slog.Logger,
) *TicketHandler {
	return &TicketHandler{
		ticketQueries:   ticketQueries,
		analysisHandler: analysisHandler,
		errorHandler:    errorHandler,
		logger:          logger.With("handler", "ticket"),
	}
}

// RegisterRoutes sets up the routing for the ticket endpoints.
func (h *TicketHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.HandleListTickets)

	r.Route("/{ticketID}", func(r chi.Router) {
		r.Get("/", h.HandleGetTicket)

		if h.analysisHandler != nil {
			r.Post("/classifications", h.analysisHandler.HandleSetClassifications)
		}
	})
}

// --- Response DTOs ---

// TicketSummaryDTO is the listing view of a vendor ticket
type TicketSummaryDTO struct {
	ID            string    `json:"id"`
	Protocol      string    `json:"protocol"`
	Subject       string    `json:"subject"`
	CustomerName  string    `json:"customerName"`
	CustomerEmail string    `json:"customerEmail"`
	CreatedAt     time.Time `json:"createdAt"`
	SituationID   int       `json:"situationId"`
	Situation     string    `json:"situation"`
}

func toTicketSummaryDTO(t domain.TicketSummary) TicketSummaryDTO {
	return TicketSummaryDTO{
		ID:            t.ID,
		Protocol:      t.Protocol,
		Subject:       t.Subject,
		CustomerName:  t.CustomerName,
		CustomerEmail: t.CustomerEmail,
		CreatedAt:     t.CreatedAt,
		SituationID:   t.SituationID,
		Situation:     t.Situation,
	}
}

// --- Handlers ---

// HandleListTickets proxies one page of the vendor ticket listing
func (h *TicketHandler) HandleListTickets(w http.ResponseWriter, r *http.Request) {
	// 1. Parse query filters
	page := validation.ParseIntQueryParam(r, "page", 1)

	situationID, err := validation.ParseOptionalIntQueryParam(r, "situation")
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	createdFrom, err := validation.ParseTimeQueryParam(r, "created_from")
	if HandleError(w, r, err, h.errorHandler) {
		return
	}
	createdTo, err := validation.ParseTimeQueryParam(r, "created_to")
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	// 2. Fetch the page from the vendor
	tickets, err := h.ticketQueries.ListTickets(r.Context(), ports.ListTicketsParams{
		Page:        page,
		SituationID: situationID,
		CreatedFrom: createdFrom,
		CreatedTo:   createdTo,
	})
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	// 3. Map to DTOs
	dtos := make([]TicketSummaryDTO, 0, len(tickets))
	for _, ticket := range tickets {
		dtos = append(dtos, toTicketSummaryDTO(ticket))
	}

	WritePaged(w, dtos, page)
}

// HandleGetTicket returns the full detail of one vendor ticket
func (h *TicketHandler) HandleGetTicket(w http.ResponseWriter, r *http.Request) {
	ticketID := chi.URLParam(r, "ticketID")

	detail, err := h.ticketQueries.GetTicketDetail(r.Context(), ticketID)
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	WriteSuccess(w, detail)
}
