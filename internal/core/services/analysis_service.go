package services

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/otavioq/ticket-metrics-backend/internal/core/domain"
	apperrors "github.com/otavioq/ticket-metrics-backend/internal/core/errors"
	"github.com/otavioq/ticket-metrics-backend/internal/core/ports"
	"github.com/otavioq/ticket-metrics-backend/internal/infrastructure/logging"
	"github.com/otavioq/ticket-metrics-backend/internal/infrastructure/metrics"
)

// AnalysisService implements batch ticket time attribution
type AnalysisService struct {
	ticketQueries ports.TicketQueryService
	calendars     ports.CalendarService
	analysisRepo  ports.AnalysisRepository
	broadcaster   ports.EventBroadcaster
	logger        *slog.Logger
	wg            sync.WaitGroup
}

var _ ports.AnalysisService = (*AnalysisService)(nil)

// NewAnalysisService creates a new analysis service
func NewAnalysisService(
	ticketQueries ports.TicketQueryService,
	calendars ports.CalendarService,
	analysisRepo ports.AnalysisRepository,
	broadcaster ports.EventBroadcaster,
	logger *slog.Logger,
) ports.AnalysisService {
	return &AnalysisService{
		ticketQueries: ticketQueries,
		calendars:     calendars,
		analysisRepo:  analysisRepo,
		broadcaster:   broadcaster,
		logger:        logger,
	}
}

// StartAnalysis registers a batch job and analyzes the tickets in the
// background. The returned job is the pending snapshot; progress is persisted
// and broadcast as tickets complete.
func (s *AnalysisService) StartAnalysis(ctx context.Context, params ports.StartAnalysisParams) (*domain.AnalysisJob, error) {
	ticketIDs := dedupe(params.TicketIDs)
	if len(ticketIDs) == 0 {
		return nil, apperrors.NewBadRequestError(apperrors.ErrEmptyTicketList, "At least one ticket ID is required")
	}

	job := domain.NewAnalysisJob(len(ticketIDs))
	if err := s.analysisRepo.SaveJob(ctx, job); err != nil {
		return nil, err
	}

	metrics.AnalysisJobsTotal.Inc()
	s.broadcaster.BroadcastEvent(domain.Event{
		Type:    domain.EventJobStarted,
		JobID:   job.ID,
		Payload: map[string]int{"total": job.Total},
	})

	s.wg.Add(1)
	go s.runJob(*job, ticketIDs)

	return job, nil
}

// GetJob returns the persisted snapshot of a job
func (s *AnalysisService) GetJob(ctx context.Context, jobID uuid.UUID) (*domain.AnalysisJob, error) {
	return s.analysisRepo.GetJob(ctx, jobID)
}

// SetClassifications persists event classification overrides for one ticket
// and returns the re-replayed analysis
func (s *AnalysisService) SetClassifications(ctx context.Context, params ports.SetClassificationsParams) (*domain.TicketAnalysis, error) {
	if params.TicketID == "" {
		return nil, apperrors.NewBadRequestError(apperrors.ErrTicketNotFound, "A ticket ID is required")
	}
	for eventID, class := range params.Classifications {
		if !class.IsValid() {
			return nil, apperrors.NewBadRequestError(apperrors.ErrUnknownClassification,
				"Invalid classification for event "+eventID)
		}
	}

	if err := s.analysisRepo.SetClassificationOverrides(ctx, params.TicketID, params.Classifications); err != nil {
		return nil, err
	}

	return s.AnalyzeTicket(ctx, params.TicketID)
}

// AnalyzeTicket replays a single ticket with its persisted overrides applied
func (s *AnalysisService) AnalyzeTicket(ctx context.Context, ticketID string) (*domain.TicketAnalysis, error) {
	cal, err := s.calendars.Calendar(ctx)
	if err != nil {
		return nil, err
	}
	return s.analyzeTicket(ctx, cal, ticketID)
}

// Shutdown waits for in-flight jobs to finish
func (s *AnalysisService) Shutdown() {
	s.wg.Wait()
}

// runJob executes one batch on a background context: the HTTP request that
// started the job is long gone by the time tickets finish.
func (s *AnalysisService) runJob(job domain.AnalysisJob, ticketIDs []string) {
	defer s.wg.Done()

	ctx := logging.WithJobID(context.Background(), job.ID.String())
	started := time.Now()

	job.Status = domain.JobRunning
	s.saveJob(ctx, &job)

	cal, calErr := s.calendars.Calendar(ctx)

	for _, ticketID := range ticketIDs {
		var analysis *domain.TicketAnalysis
		if calErr != nil {
			analysis = failedAnalysis(ticketID, calErr)
		} else {
			ticketStart := time.Now()
			var err error
			analysis, err = s.analyzeTicket(ctx, cal, ticketID)
			if err != nil {
				analysis = failedAnalysis(ticketID, err)
			}
			metrics.TicketAnalysisDurationSeconds.Observe(time.Since(ticketStart).Seconds())
		}

		job.Results = append(job.Results, *analysis)
		eventType := domain.EventTicketAnalyzed
		if analysis.Failed() {
			job.Failed++
			eventType = domain.EventTicketFailed
			metrics.TicketAnalysesTotal.WithLabelValues("failure").Inc()
			s.logger.WarnContext(ctx, "ticket analysis failed",
				"ticket_id", ticketID, "error", analysis.Error)
		} else {
			job.Completed++
			metrics.TicketAnalysesTotal.WithLabelValues("success").Inc()
		}

		s.saveJob(ctx, &job)
		s.broadcaster.BroadcastEvent(domain.Event{
			Type:    eventType,
			JobID:   job.ID,
			Payload: analysis,
		})
	}

	finished := time.Now().UTC()
	job.Status = domain.JobCompleted
	job.FinishedAt = &finished
	s.saveJob(ctx, &job)

	metrics.JobDurationSeconds.Observe(time.Since(started).Seconds())
	s.broadcaster.BroadcastEvent(domain.Event{
		Type:  domain.EventJobCompleted,
		JobID: job.ID,
		Payload: map[string]int{
			"total":     job.Total,
			"completed": job.Completed,
			"failed":    job.Failed,
		},
	})
}

func (s *AnalysisService) analyzeTicket(ctx context.Context, cal *domain.BusinessCalendar, ticketID string) (*domain.TicketAnalysis, error) {
	detail, err := s.ticketQueries.GetTicketDetail(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	overrides, err := s.analysisRepo.GetClassificationOverrides(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	timeline, err := detail.Timeline(now)
	if err != nil {
		return nil, err
	}
	timeline = timeline.WithClassifications(overrides)

	result, err := domain.AttributeOwnership(timeline, cal)
	if err != nil {
		return nil, err
	}

	final := detail.FinalInstant(now)
	statusTimes := domain.AccumulateStatusTimes(detail.CreatedAt, final, detail.Statuses, cal)

	return &domain.TicketAnalysis{
		TicketID:      detail.ID,
		Protocol:      detail.Protocol,
		Subject:       detail.Subject,
		Result:        result,
		StatusTimes:   statusTimes,
		FirstResponse: detail.FirstResponse(cal),
		ClosingStatus: domain.StatusAt(detail.Statuses, final),
		AnalyzedAt:    now,
	}, nil
}

func (s *AnalysisService) saveJob(ctx context.Context, job *domain.AnalysisJob) {
	if err := s.analysisRepo.SaveJob(ctx, job); err != nil {
		s.logger.ErrorContext(ctx, "failed to persist analysis job", "error", err)
	}
}

func failedAnalysis(ticketID string, err error) *domain.TicketAnalysis {
	return &domain.TicketAnalysis{
		TicketID:   ticketID,
		Error:      err.Error(),
		AnalyzedAt: time.Now().UTC(),
	}
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
