package postgres

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/otavioq/ticket-metrics-backend/internal/core/domain"
	apperrors "github.com/otavioq/ticket-metrics-backend/internal/core/errors"
	"github.com/otavioq/ticket-metrics-backend/internal/core/ports"
)

// AnalysisRepository is the secondary adapter for job and override persistence.
type AnalysisRepository struct {
	pool *pgxpool.Pool
}

var _ ports.AnalysisRepository = (*AnalysisRepository)(nil)

// NewAnalysisRepository creates a new analysis repository.
func NewAnalysisRepository(pool *pgxpool.Pool) ports.AnalysisRepository {
	return &AnalysisRepository{pool: pool}
}

// SaveJob inserts or replaces a job snapshot. Per-ticket results travel as a
// JSONB document; jobs are read back whole, never queried per ticket.
func (r *AnalysisRepository) SaveJob(ctx context.Context, job *domain.AnalysisJob) error {
	results, err := json.Marshal(job.Results)
	if err != nil {
		return err
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO analysis_jobs (id, status, total, completed, failed, results, created_at, finished_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			status = EXCLUDED.status,
			completed = EXCLUDED.completed,
			failed = EXCLUDED.failed,
			results = EXCLUDED.results,
			finished_at = EXCLUDED.finished_at`,
		job.ID, string(job.Status), job.Total, job.Completed, job.Failed,
		results, job.CreatedAt, job.FinishedAt,
	)
	return err
}

// GetJob loads a job snapshot by ID.
func (r *AnalysisRepository) GetJob(ctx context.Context, jobID uuid.UUID) (*domain.AnalysisJob, error) {
	var (
		job     domain.AnalysisJob
		status  string
		results []byte
	)

	err := r.pool.QueryRow(ctx, `
		SELECT id, status, total, completed, failed, results, created_at, finished_at
		FROM analysis_jobs WHERE id = $1`, jobID,
	).Scan(&job.ID, &status, &job.Total, &job.Completed, &job.Failed,
		&results, &job.CreatedAt, &job.FinishedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrJobNotFound
		}
		return nil, err
	}

	job.Status = domain.JobStatus(status)
	if err := json.Unmarshal(results, &job.Results); err != nil {
		return nil, err
	}
	return &job, nil
}

// GetClassificationOverrides returns the overrides for one ticket keyed by
// event id. A ticket without overrides yields an empty map.
func (r *AnalysisRepository) GetClassificationOverrides(ctx context.Context, ticketID string) (map[string]domain.Classification, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT event_id, classification FROM classification_overrides WHERE ticket_id = $1`,
		ticketID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	overrides := make(map[string]domain.Classification)
	for rows.Next() {
		var eventID, classification string
		if err := rows.Scan(&eventID, &classification); err != nil {
			return nil, err
		}
		overrides[eventID] = domain.Classification(classification)
	}
	return overrides, rows.Err()
}

// SetClassificationOverrides replaces the override set of one ticket.
func (r *AnalysisRepository) SetClassificationOverrides(ctx context.Context, ticketID string, overrides map[string]domain.Classification) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`DELETE FROM classification_overrides WHERE ticket_id = $1`, ticketID,
	); err != nil {
		return err
	}
	for eventID, classification := range overrides {
		if _, err := tx.Exec(ctx, `
			INSERT INTO classification_overrides (ticket_id, event_id, classification)
			VALUES ($1, $2, $3)`,
			ticketID, eventID, string(classification),
		); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}
