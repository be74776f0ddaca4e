package http

import (
	"bytes"
	"encoding/json"
	stdhttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/otavioq/ticket-metrics-backend/internal/core/domain"
	apperrors "github.com/otavioq/ticket-metrics-backend/internal/core/errors"
	"github.com/otavioq/ticket-metrics-backend/internal/core/mocks"
	"github.com/otavioq/ticket-metrics-backend/internal/core/ports"
)

func newCalendarRouter(svc *mocks.MockCalendarService) stdhttp.Handler {
	logger := testLogger()
	handler := NewCalendarHandler(svc, NewErrorHandler(logger), logger)

	r := chi.NewRouter()
	r.Route("/calendar", handler.RegisterRoutes)
	return r
}

func TestCalendarHandler_BusinessHours(t *testing.T) {
	t.Run("returns the configured schedule", func(t *testing.T) {
		svc := mocks.NewMockCalendarService()
		svc.On("GetBusinessHours", mock.Anything).Return(map[string]string{
			"monday": "08:00-12:00,14:00-18:00",
		}, nil)

		req := httptest.NewRequest(stdhttp.MethodGet, "/calendar/hours", nil)
		rec := httptest.NewRecorder()

		newCalendarRouter(svc).ServeHTTP(rec, req)

		require.Equal(t, stdhttp.StatusOK, rec.Code)

		var resp BusinessHoursResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "08:00-12:00,14:00-18:00", resp.Hours["monday"])
	})

	t.Run("replaces the schedule", func(t *testing.T) {
		hours := map[string]string{
			"monday":    "09:00-17:00",
			"tuesday":   "09:00-17:00",
			"wednesday": "09:00-17:00",
			"thursday":  "09:00-17:00",
			"friday":    "09:00-17:00",
			"saturday":  "",
			"sunday":    "",
		}

		svc := mocks.NewMockCalendarService()
		svc.On("UpdateBusinessHours", mock.Anything, ports.UpdateBusinessHoursParams{
			Hours: hours,
		}).Return(nil)

		body, err := json.Marshal(UpdateBusinessHoursRequest{Hours: hours})
		require.NoError(t, err)

		req := httptest.NewRequest(stdhttp.MethodPut, "/calendar/hours", bytes.NewReader(body))
		rec := httptest.NewRecorder()

		newCalendarRouter(svc).ServeHTTP(rec, req)

		assert.Equal(t, stdhttp.StatusOK, rec.Code)
		svc.AssertExpectations(t)
	})

	t.Run("rejects an empty schedule with 422", func(t *testing.T) {
		svc := mocks.NewMockCalendarService()

		req := httptest.NewRequest(stdhttp.MethodPut, "/calendar/hours",
			strings.NewReader(`{"hours":{}}`))
		rec := httptest.NewRecorder()

		newCalendarRouter(svc).ServeHTTP(rec, req)

		assert.Equal(t, stdhttp.StatusUnprocessableEntity, rec.Code)
		svc.AssertNotCalled(t, "UpdateBusinessHours")
	})

	t.Run("surfaces per-weekday validation failures", func(t *testing.T) {
		svc := mocks.NewMockCalendarService()
		errs := apperrors.NewValidationErrors()
		errs.Add("monday", "malformed time range, expected HH:MM-HH:MM")
		svc.On("UpdateBusinessHours", mock.Anything, mock.Anything).Return(errs)

		req := httptest.NewRequest(stdhttp.MethodPut, "/calendar/hours",
			strings.NewReader(`{"hours":{"monday":"nope"}}`))
		rec := httptest.NewRecorder()

		newCalendarRouter(svc).ServeHTTP(rec, req)

		assert.Equal(t, stdhttp.StatusUnprocessableEntity, rec.Code)

		var resp ValidationErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Contains(t, resp.Fields, "monday")
	})
}

func TestCalendarHandler_Holidays(t *testing.T) {
	t.Run("lists holidays", func(t *testing.T) {
		svc := mocks.NewMockCalendarService()
		svc.On("ListHolidays", mock.Anything).Return([]domain.Holiday{
			{Date: domain.Date{Year: 2025, Month: 12, Day: 25}, Label: "Natal"},
		}, nil)

		req := httptest.NewRequest(stdhttp.MethodGet, "/calendar/holidays", nil)
		rec := httptest.NewRecorder()

		newCalendarRouter(svc).ServeHTTP(rec, req)

		require.Equal(t, stdhttp.StatusOK, rec.Code)

		var resp ListResponse[HolidayDTO]
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Equal(t, 1, resp.Count)
		assert.Equal(t, "2025-12-25", resp.Data[0].Date)
		assert.Equal(t, "Natal", resp.Data[0].Label)
	})

	t.Run("adds a holiday", func(t *testing.T) {
		svc := mocks.NewMockCalendarService()
		svc.On("AddHoliday", mock.Anything, domain.Holiday{
			Date:  domain.Date{Year: 2025, Month: 1, Day: 1},
			Label: "Confraternizacao",
		}).Return(nil)

		req := httptest.NewRequest(stdhttp.MethodPost, "/calendar/holidays",
			strings.NewReader(`{"date":"2025-01-01","label":"Confraternizacao"}`))
		rec := httptest.NewRecorder()

		newCalendarRouter(svc).ServeHTTP(rec, req)

		assert.Equal(t, stdhttp.StatusCreated, rec.Code)
		svc.AssertExpectations(t)
	})

	t.Run("rejects an unparseable date with 400", func(t *testing.T) {
		svc := mocks.NewMockCalendarService()

		req := httptest.NewRequest(stdhttp.MethodPost, "/calendar/holidays",
			strings.NewReader(`{"date":"25/12/2025","label":"Natal"}`))
		rec := httptest.NewRecorder()

		newCalendarRouter(svc).ServeHTTP(rec, req)

		assert.Equal(t, stdhttp.StatusBadRequest, rec.Code)
		svc.AssertNotCalled(t, "AddHoliday")
	})

	t.Run("removes a holiday", func(t *testing.T) {
		svc := mocks.NewMockCalendarService()
		svc.On("RemoveHoliday", mock.Anything, domain.Date{Year: 2025, Month: 12, Day: 25}).Return(nil)

		req := httptest.NewRequest(stdhttp.MethodDelete, "/calendar/holidays/2025-12-25", nil)
		rec := httptest.NewRecorder()

		newCalendarRouter(svc).ServeHTTP(rec, req)

		assert.Equal(t, stdhttp.StatusNoContent, rec.Code)
		svc.AssertExpectations(t)
	})

	t.Run("maps a missing holiday to 404", func(t *testing.T) {
		svc := mocks.NewMockCalendarService()
		svc.On("RemoveHoliday", mock.Anything, mock.Anything).Return(apperrors.ErrHolidayNotFound)

		req := httptest.NewRequest(stdhttp.MethodDelete, "/calendar/holidays/2025-12-26", nil)
		rec := httptest.NewRecorder()

		newCalendarRouter(svc).ServeHTTP(rec, req)

		assert.Equal(t, stdhttp.StatusNotFound, rec.Code)
	})

	t.Run("imports holidays from plain text", func(t *testing.T) {
		svc := mocks.NewMockCalendarService()
		svc.On("ImportHolidays", mock.Anything, ports.ImportHolidaysParams{
			Lines: "2025-12-25;Natal\n2025-01-01;Confraternizacao",
		}).Return(2, nil)

		req := httptest.NewRequest(stdhttp.MethodPost, "/calendar/holidays/import",
			strings.NewReader("2025-12-25;Natal\n2025-01-01;Confraternizacao"))
		rec := httptest.NewRecorder()

		newCalendarRouter(svc).ServeHTTP(rec, req)

		require.Equal(t, stdhttp.StatusOK, rec.Code)

		var resp ImportResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, 2, resp.Imported)
	})
}
