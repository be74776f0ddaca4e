package http

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"math"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/otavioq/ticket-metrics-backend/internal/adapters/primary/validation"
	"github.com/otavioq/ticket-metrics-backend/internal/core/domain"
	apperrors "github.com/otavioq/ticket-metrics-backend/internal/core/errors"
	"github.com/otavioq/ticket-metrics-backend/internal/core/ports"
)

// maxTicketsPerJob caps how many tickets a single job may analyze.
const maxTicketsPerJob = 500

// AnalysisHandler handles analysis job requests
type AnalysisHandler struct {
	analysisService ports.AnalysisService
	errorHandler    *ErrorHandler
	logger          *slog.Logger
}

// NewAnalysisHandler creates a new analysis handler
func NewAnalysisHandler(analysisService ports.AnalysisService, errorHandler *ErrorHandler, logger *slog.Logger) *AnalysisHandler {
	return &AnalysisHandler{
		analysisService: analysisService,
		errorHandler:    errorHandler,
		logger:          logger.With("handler", "analysis"),
	}
}

// RegisterRoutes sets up the routing for the analysis endpoints.
func (h *AnalysisHandler) RegisterRoutes(r chi.Router) {
	r.Post("/", h.HandleStartAnalysis)

	r.Route("/{jobID}", func(r chi.Router) {
		r.Get("/", h.HandleGetJob)
		r.Get("/export", h.HandleExportJob)
	})
}

// --- Request/Response DTOs ---

// StartAnalysisRequest defines the expected JSON body for starting a job
type StartAnalysisRequest struct {
	TicketIDs []string `json:"ticketIds"`
}

// Validate validates the start analysis request
func (r *StartAnalysisRequest) Validate() error {
	v := validation.NewValidator()

	v.Custom("ticketIds", len(r.TicketIDs) > 0, "At least one ticket ID is required")
	v.MaxItems("ticketIds", len(r.TicketIDs), maxTicketsPerJob)

	if v.HasErrors() {
		return v.Errors()
	}
	return nil
}

// SetClassificationsRequest defines the expected JSON body for overriding
// event classifications on one ticket
type SetClassificationsRequest struct {
	Classifications map[string]string `json:"classifications"`
}

// Validate validates the classifications request
func (r *SetClassificationsRequest) Validate() error {
	v := validation.NewValidator()

	v.Custom("classifications", len(r.Classifications) > 0, "At least one classification is required")
	for eventID, class := range r.Classifications {
		v.OneOf("classifications."+eventID, class, []string{"C", "A", "B", "I"})
	}

	if v.HasErrors() {
		return v.Errors()
	}
	return nil
}

// --- Handlers ---

// HandleStartAnalysis registers a batch job and starts analyzing asynchronously
func (h *AnalysisHandler) HandleStartAnalysis(w http.ResponseWriter, r *http.Request) {
	// 1. Decode and validate the request body
	req, err := validation.DecodeAndValidate[StartAnalysisRequest](r)
	if HandleError(w, r, err, h.errorHandler) {
		return
	}
	if err := req.Validate(); HandleError(w, r, err, h.errorHandler) {
		return
	}

	// 2. Start the job
	job, err := h.analysisService.StartAnalysis(r.Context(), ports.StartAnalysisParams{
		TicketIDs: req.TicketIDs,
	})
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	// 3. The job runs in the background; hand back the pending snapshot
	WriteAccepted(w, job)
}

// HandleGetJob returns the current snapshot of a job
func (h *AnalysisHandler) HandleGetJob(w http.ResponseWriter, r *http.Request) {
	jobID, err := parseJobID(r)
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	job, err := h.analysisService.GetJob(r.Context(), jobID)
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	WriteJSON(w, http.StatusOK, job)
}

// HandleExportJob streams a job's results as CSV
func (h *AnalysisHandler) HandleExportJob(w http.ResponseWriter, r *http.Request) {
	jobID, err := parseJobID(r)
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	job, err := h.analysisService.GetJob(r.Context(), jobID)
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="analysis-%s.csv"`, jobID))

	cw := csv.NewWriter(w)
	_ = cw.Write([]string{
		"ticket_id", "protocol", "subject",
		"customer_wall", "customer_business",
		"support_wall", "support_business",
		"bug_wall", "bug_business",
		"ignored_wall", "ignored_business",
		"first_response_wall", "first_response_business",
		"closing_status", "error",
	})

	for i := range job.Results {
		res := &job.Results[i]
		record := []string{res.TicketID, res.Protocol, res.Subject}
		for _, bucket := range domain.Buckets {
			totals := res.Result.Totals(bucket)
			record = append(record,
				FormatDuration(totals.WallSeconds),
				FormatDuration(totals.BusinessSeconds),
			)
		}
		if res.FirstResponse != nil {
			record = append(record,
				FormatDuration(res.FirstResponse.WallSeconds),
				FormatDuration(res.FirstResponse.BusinessSeconds),
			)
		} else {
			record = append(record, "", "")
		}
		record = append(record, res.ClosingStatus, res.Error)
		_ = cw.Write(record)
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		h.logger.Error("failed to write csv export", "job_id", jobID, "error", err)
	}
}

// HandleSetClassifications overrides event classifications for one ticket and
// returns the re-replayed analysis. Mounted under the tickets subtree.
func (h *AnalysisHandler) HandleSetClassifications(w http.ResponseWriter, r *http.Request) {
	ticketID := chi.URLParam(r, "ticketID")

	req, err := validation.DecodeAndValidate[SetClassificationsRequest](r)
	if HandleError(w, r, err, h.errorHandler) {
		return
	}
	if err := req.Validate(); HandleError(w, r, err, h.errorHandler) {
		return
	}

	classifications := make(map[string]domain.Classification, len(req.Classifications))
	for eventID, class := range req.Classifications {
		classifications[eventID] = domain.Classification(class)
	}

	analysis, err := h.analysisService.SetClassifications(r.Context(), ports.SetClassificationsParams{
		TicketID:        ticketID,
		Classifications: classifications,
	})
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	WriteJSON(w, http.StatusOK, analysis)
}

// parseJobID extracts and parses the jobID path parameter
func parseJobID(r *http.Request) (uuid.UUID, error) {
	jobID, err := uuid.Parse(chi.URLParam(r, "jobID"))
	if err != nil {
		return uuid.Nil, apperrors.NewBadRequestError(err, "Invalid job ID")
	}
	return jobID, nil
}

// FormatDuration renders a second count as "HH:MM:SS", or "Nd HH:MM:SS" once
// it spans a day or more.
func FormatDuration(seconds float64) string {
	total := int64(math.Round(seconds))
	if total < 0 {
		total = 0
	}

	days := total / 86400
	rest := total % 86400
	hours := rest / 3600
	minutes := (rest % 3600) / 60
	secs := rest % 60

	if days > 0 {
		return fmt.Sprintf("%dd %02d:%02d:%02d", days, hours, minutes, secs)
	}
	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, secs)
}
