package http

import (
	"encoding/json"
	stdhttp "net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/otavioq/ticket-metrics-backend/internal/core/domain"
	apperrors "github.com/otavioq/ticket-metrics-backend/internal/core/errors"
	"github.com/otavioq/ticket-metrics-backend/internal/core/mocks"
	"github.com/otavioq/ticket-metrics-backend/internal/core/ports"
)

func TestTicketHandler_ListTickets(t *testing.T) {
	t.Run("proxies one vendor page with filters", func(t *testing.T) {
		queries := mocks.NewMockTicketQueryService()
		situation := 5
		queries.On("ListTickets", mock.Anything, mock.MatchedBy(func(p ports.ListTicketsParams) bool {
			return p.Page == 2 &&
				p.SituationID != nil && *p.SituationID == situation &&
				p.CreatedFrom != nil && p.CreatedFrom.Equal(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)) &&
				p.CreatedTo == nil
		})).Return([]domain.TicketSummary{
			{ID: "100", Protocol: "P-100", Subject: "Erro no login", SituationID: 5},
		}, nil)

		req := httptest.NewRequest(stdhttp.MethodGet,
			"/tickets?page=2&situation=5&created_from=2024-03-01", nil)
		rec := httptest.NewRecorder()

		newTicketRouter(queries, mocks.NewMockAnalysisService()).ServeHTTP(rec, req)

		require.Equal(t, stdhttp.StatusOK, rec.Code)

		var resp PagedResponse[TicketSummaryDTO]
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, 2, resp.Page)
		require.Equal(t, 1, resp.Count)
		assert.Equal(t, "100", resp.Data[0].ID)
	})

	t.Run("rejects an unparseable date filter with 400", func(t *testing.T) {
		queries := mocks.NewMockTicketQueryService()

		req := httptest.NewRequest(stdhttp.MethodGet,
			"/tickets?created_from=01/03/2024", nil)
		rec := httptest.NewRecorder()

		newTicketRouter(queries, mocks.NewMockAnalysisService()).ServeHTTP(rec, req)

		assert.Equal(t, stdhttp.StatusBadRequest, rec.Code)
		queries.AssertNotCalled(t, "ListTickets")
	})

	t.Run("maps vendor outages to 502", func(t *testing.T) {
		queries := mocks.NewMockTicketQueryService()
		queries.On("ListTickets", mock.Anything, mock.Anything).
			Return(nil, apperrors.ErrVendorUnavailable)

		req := httptest.NewRequest(stdhttp.MethodGet, "/tickets", nil)
		rec := httptest.NewRecorder()

		newTicketRouter(queries, mocks.NewMockAnalysisService()).ServeHTTP(rec, req)

		assert.Equal(t, stdhttp.StatusBadGateway, rec.Code)
	})
}

func TestTicketHandler_GetTicket(t *testing.T) {
	t.Run("returns the full detail", func(t *testing.T) {
		queries := mocks.NewMockTicketQueryService()
		queries.On("GetTicketDetail", mock.Anything, "4711").Return(&domain.TicketDetail{
			TicketSummary: domain.TicketSummary{ID: "4711", Subject: "Sistema fora do ar"},
		}, nil)

		req := httptest.NewRequest(stdhttp.MethodGet, "/tickets/4711", nil)
		rec := httptest.NewRecorder()

		newTicketRouter(queries, mocks.NewMockAnalysisService()).ServeHTTP(rec, req)

		assert.Equal(t, stdhttp.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Sistema fora do ar")
	})

	t.Run("maps a missing ticket to 404", func(t *testing.T) {
		queries := mocks.NewMockTicketQueryService()
		queries.On("GetTicketDetail", mock.Anything, "9999").
			Return(nil, apperrors.NewNotFoundError(apperrors.ErrTicketNotFound, "Ticket not found"))

		req := httptest.NewRequest(stdhttp.MethodGet, "/tickets/9999", nil)
		rec := httptest.NewRecorder()

		newTicketRouter(queries, mocks.NewMockAnalysisService()).ServeHTTP(rec, req)

		assert.Equal(t, stdhttp.StatusNotFound, rec.Code)
	})
}
