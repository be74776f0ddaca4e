package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/otavioq/ticket-metrics-backend/internal/core/domain"
	apperrors "github.com/otavioq/ticket-metrics-backend/internal/core/errors"
)

func TestNewTicketTimeline_PrependsCreationEvent(t *testing.T) {
	created := mondayAt(9, 0)
	tl, err := domain.NewTicketTimeline("T-1", created, mondayAt(17, 0), []domain.TicketEvent{
		reply("r1", mondayAt(11, 0), domain.PartySupport),
	})
	require.NoError(t, err)

	require.Len(t, tl.Events, 2)
	first := tl.Events[0]
	assert.Equal(t, domain.CreationEventID, first.ID)
	assert.True(t, first.Virtual)
	assert.Equal(t, domain.PartyCustomer, first.OriginalParty)
	assert.Equal(t, domain.ClassCustomer, first.Classification)
	assert.True(t, first.Timestamp.Equal(created))
}

func TestNewTicketTimeline_MissingCreationInstant(t *testing.T) {
	_, err := domain.NewTicketTimeline("T-1", time.Time{}, mondayAt(17, 0), nil)
	assert.ErrorIs(t, err, apperrors.ErrInvalidTimeline)
}

func TestNewTicketTimeline_SortsByTimestamp(t *testing.T) {
	tl, err := domain.NewTicketTimeline("T-1", mondayAt(9, 0), mondayAt(17, 0), []domain.TicketEvent{
		reply("late", mondayAt(15, 0), domain.PartyCustomer),
		reply("early", mondayAt(10, 0), domain.PartySupport),
	})
	require.NoError(t, err)

	require.Len(t, tl.Events, 3)
	assert.Equal(t, "early", tl.Events[1].ID)
	assert.Equal(t, "late", tl.Events[2].ID)
}

func TestNewTicketTimeline_EqualTimestampsKeepVendorOrder(t *testing.T) {
	ts := mondayAt(10, 0)
	tl, err := domain.NewTicketTimeline("T-1", mondayAt(9, 0), mondayAt(17, 0), []domain.TicketEvent{
		reply("first", ts, domain.PartySupport),
		reply("second", ts, domain.PartyCustomer),
	})
	require.NoError(t, err)

	assert.Equal(t, "first", tl.Events[1].ID)
	assert.Equal(t, "second", tl.Events[2].ID)
}

func TestWithClassifications_DoesNotMutateReceiver(t *testing.T) {
	tl, err := domain.NewTicketTimeline("T-1", mondayAt(9, 0), mondayAt(17, 0), []domain.TicketEvent{
		reply("r1", mondayAt(11, 0), domain.PartySupport),
	})
	require.NoError(t, err)

	changed := tl.WithClassifications(map[string]domain.Classification{"r1": domain.ClassBug})

	assert.Equal(t, domain.ClassSupport, tl.Events[1].Classification)
	assert.Equal(t, domain.ClassBug, changed.Events[1].Classification)
}

func TestWithClassifications_EmptyOverridesReturnsSameTimeline(t *testing.T) {
	tl, err := domain.NewTicketTimeline("T-1", mondayAt(9, 0), mondayAt(17, 0), nil)
	require.NoError(t, err)

	assert.Same(t, tl, tl.WithClassifications(nil))
}

func TestClassification_IsValid(t *testing.T) {
	tests := []struct {
		class domain.Classification
		want  bool
	}{
		{domain.ClassCustomer, true},
		{domain.ClassSupport, true},
		{domain.ClassBug, true},
		{domain.ClassIgnored, true},
		{domain.Classification(""), false},
		{domain.Classification("X"), false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.class.IsValid(), "classification %q", tt.class)
	}
}

func TestTicketDetail_FinalInstant(t *testing.T) {
	now := time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC)
	created := mondayAt(9, 0)
	ended := mondayAt(17, 0)
	applied := mondayAt(16, 0)
	lastReply := mondayAt(15, 0)

	tests := []struct {
		name   string
		detail domain.TicketDetail
		want   time.Time
	}{
		{
			name: "open ticket uses now",
			detail: domain.TicketDetail{
				TicketSummary: domain.TicketSummary{ID: "T-1", CreatedAt: created},
			},
			want: now,
		},
		{
			name: "end date wins",
			detail: domain.TicketDetail{
				TicketSummary:      domain.TicketSummary{ID: "T-1", CreatedAt: created, SituationID: domain.SituationFinished},
				EndedAt:            &ended,
				SituationAppliedAt: &applied,
			},
			want: ended,
		},
		{
			name: "situation apply date when no end date",
			detail: domain.TicketDetail{
				TicketSummary:      domain.TicketSummary{ID: "T-1", CreatedAt: created, SituationID: domain.SituationCancelled},
				SituationAppliedAt: &applied,
			},
			want: applied,
		},
		{
			name: "falls back to last reply",
			detail: domain.TicketDetail{
				TicketSummary: domain.TicketSummary{ID: "T-1", CreatedAt: created, SituationID: domain.SituationFinished},
				Replies:       []domain.TicketEvent{reply("r1", lastReply, domain.PartySupport)},
			},
			want: lastReply,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.want.Equal(tt.detail.FinalInstant(now)))
		})
	}
}

func TestTicketDetail_FirstResponse(t *testing.T) {
	cal := mustCalendar(t)
	created := mondayAt(9, 0)

	t.Run("spans the lunch break", func(t *testing.T) {
		firstReply := mondayAt(15, 0)
		detail := domain.TicketDetail{
			TicketSummary: domain.TicketSummary{ID: "T-1", CreatedAt: created},
			FirstReplyAt:  &firstReply,
		}

		got := detail.FirstResponse(cal)

		require.NotNil(t, got)
		assert.InDelta(t, 6*3600, got.WallSeconds, 1e-6)
		// 09:00-12:00 plus 14:00-15:00; the break does not count.
		assert.InDelta(t, 4*3600, got.BusinessSeconds, 1e-6)
	})

	t.Run("never answered", func(t *testing.T) {
		detail := domain.TicketDetail{
			TicketSummary: domain.TicketSummary{ID: "T-1", CreatedAt: created},
		}
		assert.Nil(t, detail.FirstResponse(cal))
	})

	t.Run("reply stamp before creation", func(t *testing.T) {
		firstReply := mondayAt(8, 0)
		detail := domain.TicketDetail{
			TicketSummary: domain.TicketSummary{ID: "T-1", CreatedAt: created},
			FirstReplyAt:  &firstReply,
		}
		assert.Nil(t, detail.FirstResponse(cal))
	})
}

func TestTicketDetail_IsFinished(t *testing.T) {
	ended := mondayAt(17, 0)

	assert.False(t, (&domain.TicketDetail{}).IsFinished())
	assert.True(t, (&domain.TicketDetail{EndedAt: &ended}).IsFinished())
	assert.True(t, (&domain.TicketDetail{
		TicketSummary: domain.TicketSummary{SituationID: domain.SituationCancelled},
	}).IsFinished())
	assert.True(t, (&domain.TicketDetail{
		TicketSummary: domain.TicketSummary{SituationID: domain.SituationFinished},
	}).IsFinished())
}
