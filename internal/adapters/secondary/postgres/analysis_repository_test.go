package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/otavioq/ticket-metrics-backend/internal/core/domain"
	apperrors "github.com/otavioq/ticket-metrics-backend/internal/core/errors"
)

func TestAnalysisRepository_JobRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewAnalysisRepository(testPool)

	job := domain.NewAnalysisJob(2)
	require.NoError(t, repo.SaveJob(ctx, job))

	// Progress update replaces the snapshot.
	job.Status = domain.JobRunning
	job.Completed = 1
	job.Results = append(job.Results, domain.TicketAnalysis{
		TicketID:   "4711",
		Protocol:   "20240304",
		Subject:    "Sistema fora do ar",
		AnalyzedAt: time.Now().UTC(),
		Result: domain.AttributionResult{
			Support: domain.BucketTotals{WallSeconds: 7200, BusinessSeconds: 7200},
		},
	})
	require.NoError(t, repo.SaveJob(ctx, job))

	loaded, err := repo.GetJob(ctx, job.ID)
	require.NoError(t, err)

	assert.Equal(t, domain.JobRunning, loaded.Status)
	assert.Equal(t, 2, loaded.Total)
	assert.Equal(t, 1, loaded.Completed)
	require.Len(t, loaded.Results, 1)
	assert.Equal(t, "4711", loaded.Results[0].TicketID)
	assert.InDelta(t, 7200, loaded.Results[0].Result.Support.WallSeconds, 1e-6)
	assert.Nil(t, loaded.FinishedAt)

	finished := time.Now().UTC().Truncate(time.Millisecond)
	job.Status = domain.JobCompleted
	job.FinishedAt = &finished
	require.NoError(t, repo.SaveJob(ctx, job))

	loaded, err = repo.GetJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.JobCompleted, loaded.Status)
	require.NotNil(t, loaded.FinishedAt)
}

func TestAnalysisRepository_GetJob_NotFound(t *testing.T) {
	ctx := context.Background()
	repo := NewAnalysisRepository(testPool)

	_, err := repo.GetJob(ctx, uuid.New())

	assert.ErrorIs(t, err, apperrors.ErrJobNotFound)
}

func TestAnalysisRepository_ClassificationOverrides(t *testing.T) {
	ctx := context.Background()
	repo := NewAnalysisRepository(testPool)

	overrides, err := repo.GetClassificationOverrides(ctx, "no-overrides")
	require.NoError(t, err)
	assert.Empty(t, overrides)

	first := map[string]domain.Classification{
		"r1": domain.ClassBug,
		"r2": domain.ClassIgnored,
	}
	require.NoError(t, repo.SetClassificationOverrides(ctx, "9001", first))

	overrides, err = repo.GetClassificationOverrides(ctx, "9001")
	require.NoError(t, err)
	assert.Equal(t, first, overrides)

	// A new set replaces the old one entirely.
	second := map[string]domain.Classification{"r3": domain.ClassCustomer}
	require.NoError(t, repo.SetClassificationOverrides(ctx, "9001", second))

	overrides, err = repo.GetClassificationOverrides(ctx, "9001")
	require.NoError(t, err)
	assert.Equal(t, second, overrides)

	// Overrides are scoped per ticket.
	overrides, err = repo.GetClassificationOverrides(ctx, "9002")
	require.NoError(t, err)
	assert.Empty(t, overrides)
}
