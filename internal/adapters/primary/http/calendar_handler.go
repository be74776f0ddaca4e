package http

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/otavioq/ticket-metrics-backend/internal/adapters/primary/validation"
	"github.com/otavioq/ticket-metrics-backend/internal/core/domain"
	apperrors "github.com/otavioq/ticket-metrics-backend/internal/core/errors"
	"github.com/otavioq/ticket-metrics-backend/internal/core/ports"
)

// maxImportBodyBytes caps the holiday import payload.
const maxImportBodyBytes = 1 << 20

// CalendarHandler handles business-hours and holiday configuration requests
type CalendarHandler struct {
	calendarService ports.CalendarService
	errorHandler    *ErrorHandler
	logger          *slog.Logger
}

// NewCalendarHandler creates a new calendar handler
func NewCalendarHandler(calendarService ports.CalendarService, errorHandler *ErrorHandler, logger *slog.Logger) *CalendarHandler {
	return &CalendarHandler{
		calendarService: calendarService,
		errorHandler:    errorHandler,
		logger:          logger.With("handler", "calendar"),
	}
}

// RegisterRoutes sets up the routing for all calendar endpoints.
func (h *CalendarHandler) RegisterRoutes(r chi.Router) {
	r.Get("/hours", h.HandleGetBusinessHours)
	r.Put("/hours", h.HandleUpdateBusinessHours)

	r.Route("/holidays", func(r chi.Router) {
		r.Get("/", h.HandleListHolidays)
		r.Post("/", h.HandleAddHoliday)
		r.Post("/import", h.HandleImportHolidays)
		r.Delete("/{date}", h.HandleRemoveHoliday)
	})
}

// --- Request/Response DTOs ---

// BusinessHoursResponse carries the weekly schedule keyed by weekday name
type BusinessHoursResponse struct {
	Hours map[string]string `json:"hours"`
}

// UpdateBusinessHoursRequest defines the expected JSON body for replacing the
// weekly schedule
type UpdateBusinessHoursRequest struct {
	Hours map[string]string `json:"hours"`
}

// Validate validates the update request
func (r *UpdateBusinessHoursRequest) Validate() error {
	v := validation.NewValidator()

	v.Custom("hours", len(r.Hours) > 0, "At least one weekday is required")

	if v.HasErrors() {
		return v.Errors()
	}
	return nil
}

// HolidayDTO represents a holiday in responses and requests
type HolidayDTO struct {
	Date  string `json:"date"`
	Label string `json:"label"`
}

func toHolidayDTO(h domain.Holiday) HolidayDTO {
	return HolidayDTO{
		Date:  fmt.Sprintf("%04d-%02d-%02d", h.Date.Year, h.Date.Month, h.Date.Day),
		Label: h.Label,
	}
}

// AddHolidayRequest defines the expected JSON body for adding one holiday
type AddHolidayRequest struct {
	Date  string `json:"date"`
	Label string `json:"label"`
}

// Validate validates the add holiday request
func (r *AddHolidayRequest) Validate() error {
	v := validation.NewValidator()

	v.Required("date", r.Date)
	v.MaxLength("label", r.Label, 200)

	if v.HasErrors() {
		return v.Errors()
	}
	return nil
}

// ImportResponse reports how many holidays were imported
type ImportResponse struct {
	Imported int `json:"imported"`
}

// --- Handlers ---

// HandleGetBusinessHours returns the configured weekly schedule
func (h *CalendarHandler) HandleGetBusinessHours(w http.ResponseWriter, r *http.Request) {
	hours, err := h.calendarService.GetBusinessHours(r.Context())
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	WriteJSON(w, http.StatusOK, BusinessHoursResponse{Hours: hours})
}

// HandleUpdateBusinessHours replaces the weekly schedule
func (h *CalendarHandler) HandleUpdateBusinessHours(w http.ResponseWriter, r *http.Request) {
	req, err := validation.DecodeAndValidate[UpdateBusinessHoursRequest](r)
	if HandleError(w, r, err, h.errorHandler) {
		return
	}
	if err := req.Validate(); HandleError(w, r, err, h.errorHandler) {
		return
	}

	err = h.calendarService.UpdateBusinessHours(r.Context(), ports.UpdateBusinessHoursParams{
		Hours: req.Hours,
	})
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	WriteJSON(w, http.StatusOK, BusinessHoursResponse{Hours: req.Hours})
}

// HandleListHolidays returns all configured holidays
func (h *CalendarHandler) HandleListHolidays(w http.ResponseWriter, r *http.Request) {
	holidays, err := h.calendarService.ListHolidays(r.Context())
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	dtos := make([]HolidayDTO, 0, len(holidays))
	for _, holiday := range holidays {
		dtos = append(dtos, toHolidayDTO(holiday))
	}

	WriteList(w, dtos)
}

// HandleAddHoliday registers a single holiday
func (h *CalendarHandler) HandleAddHoliday(w http.ResponseWriter, r *http.Request) {
	req, err := validation.DecodeAndValidate[AddHolidayRequest](r)
	if HandleError(w, r, err, h.errorHandler) {
		return
	}
	if err := req.Validate(); HandleError(w, r, err, h.errorHandler) {
		return
	}

	date, err := domain.ParseDate(req.Date)
	if err != nil {
		h.errorHandler.Handle(w, r, apperrors.NewBadRequestError(err, "Invalid holiday date, expected YYYY-MM-DD"))
		return
	}

	holiday := domain.Holiday{Date: date, Label: req.Label}
	if err := h.calendarService.AddHoliday(r.Context(), holiday); HandleError(w, r, err, h.errorHandler) {
		return
	}

	WriteCreated(w, toHolidayDTO(holiday))
}

// HandleRemoveHoliday deletes a holiday by date
func (h *CalendarHandler) HandleRemoveHoliday(w http.ResponseWriter, r *http.Request) {
	date, err := domain.ParseDate(chi.URLParam(r, "date"))
	if err != nil {
		h.errorHandler.Handle(w, r, apperrors.NewBadRequestError(err, "Invalid holiday date, expected YYYY-MM-DD"))
		return
	}

	if err := h.calendarService.RemoveHoliday(r.Context(), date); HandleError(w, r, err, h.errorHandler) {
		return
	}

	WriteNoContent(w)
}

// HandleImportHolidays bulk-imports holidays from a "date;label" plain-text
// body, one holiday per line
func (h *CalendarHandler) HandleImportHolidays(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxImportBodyBytes))
	if err != nil {
		h.errorHandler.Handle(w, r, apperrors.NewBadRequestError(err, "Failed to read request body"))
		return
	}

	imported, err := h.calendarService.ImportHolidays(r.Context(), ports.ImportHolidaysParams{
		Lines: string(body),
	})
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	WriteJSON(w, http.StatusOK, ImportResponse{Imported: imported})
}
