package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/otavioq/ticket-metrics-backend/internal/core/domain"
)

func TestAccumulateStatusTimes(t *testing.T) {
	cal := mustCalendar(t)

	created := mondayAt(9, 0)
	final := mondayAt(17, 0)
	firstEnd := mondayAt(11, 0)
	secondStart := mondayAt(11, 0)

	statuses := []domain.StatusInterval{
		{Description: "Em atendimento", Start: mondayAt(10, 0), End: &firstEnd},
		{Description: "Aguardando cliente", Start: secondStart}, // open-ended
	}

	result := domain.AccumulateStatusTimes(created, final, statuses, cal)

	assert.InDelta(t, 3600, result.Wall["Em atendimento"], 1e-6)
	// Open-ended interval closes at the final instant: 11:00 -> 17:00.
	assert.InDelta(t, 6*3600, result.Wall["Aguardando cliente"], 1e-6)
	// Business time excludes the 12:00-14:00 gap.
	assert.InDelta(t, 4*3600, result.Business["Aguardando cliente"], 1e-6)

	assert.InDelta(t, 3600, result.ToFirstStatusWall, 1e-6)
	assert.InDelta(t, 3600, result.ToFirstStatusBusiness, 1e-6)
}

func TestAccumulateStatusTimes_RepeatedStatusAccumulates(t *testing.T) {
	cal := mustCalendar(t)

	end1 := mondayAt(10, 0)
	end2 := mondayAt(16, 0)
	statuses := []domain.StatusInterval{
		{Description: "Em atendimento", Start: mondayAt(9, 0), End: &end1},
		{Description: "Em atendimento", Start: mondayAt(15, 0), End: &end2},
	}

	result := domain.AccumulateStatusTimes(mondayAt(9, 0), mondayAt(17, 0), statuses, cal)

	assert.InDelta(t, 2*3600, result.Wall["Em atendimento"], 1e-6)
}

func TestAccumulateStatusTimes_SkipsMalformedEntries(t *testing.T) {
	cal := mustCalendar(t)

	end := mondayAt(10, 0)
	statuses := []domain.StatusInterval{
		{Description: "", Start: mondayAt(9, 0), End: &end},
		{Description: "Sem inicio", End: &end},
	}

	result := domain.AccumulateStatusTimes(mondayAt(9, 0), mondayAt(17, 0), statuses, cal)

	assert.Empty(t, result.Wall)
	assert.Empty(t, result.Business)
}

func TestStatusAt(t *testing.T) {
	end := mondayAt(11, 0)
	statuses := []domain.StatusInterval{
		{Description: "Em atendimento", Start: mondayAt(10, 0), End: &end},
		{Description: "Aguardando cliente", Start: mondayAt(11, 0)},
	}

	require.Equal(t, "Em atendimento", domain.StatusAt(statuses, mondayAt(10, 30)))
	assert.Equal(t, "Em atendimento", domain.StatusAt(statuses, mondayAt(11, 0))) // boundary belongs to the earlier status
	assert.Equal(t, "Aguardando cliente", domain.StatusAt(statuses, mondayAt(15, 0)))
	assert.Equal(t, "", domain.StatusAt(statuses, mondayAt(9, 0)))
}
