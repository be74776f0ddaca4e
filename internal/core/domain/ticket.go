package domain

import "time"

// Vendor situation codes that mark a ticket as terminal.
const (
	SituationCancelled = 4
	SituationFinished  = 5
)

// TicketSummary is the listing view of a vendor ticket.
type TicketSummary struct {
	ID            string
	Protocol      string
	Subject       string
	CustomerName  string
	CustomerEmail string
	CreatedAt     time.Time
	SituationID   int
	Situation     string
}

// TicketDetail is a full vendor ticket snapshot: the summary plus the reply
// and status history the attribution replay consumes. Timestamps are
// normalized at the ingestion boundary; this type never carries raw vendor
// strings.
type TicketDetail struct {
	TicketSummary
	FirstReplyAt       *time.Time
	EndedAt            *time.Time
	SituationAppliedAt *time.Time
	Replies            []TicketEvent
	Statuses           []StatusInterval
}

// IsFinished reports whether the ticket reached a terminal state, either via
// an explicit end date or a terminal situation code.
func (d *TicketDetail) IsFinished() bool {
	if d.EndedAt != nil {
		return true
	}
	return d.SituationID == SituationCancelled || d.SituationID == SituationFinished
}

// FinalInstant resolves the instant the observation window closes. For
// finished tickets the preference order is end date, situation apply date,
// then the last reply timestamp; open tickets use now.
func (d *TicketDetail) FinalInstant(now time.Time) time.Time {
	if !d.IsFinished() {
		return now
	}
	if d.EndedAt != nil {
		return *d.EndedAt
	}
	if d.SituationAppliedAt != nil {
		return *d.SituationAppliedAt
	}
	if n := len(d.Replies); n > 0 {
		return d.Replies[n-1].Timestamp
	}
	return now
}

// FirstResponse measures creation to the vendor's first-reply stamp, the
// classic time-to-first-answer statistic. Nil when the ticket was never
// answered or the stamp predates creation.
func (d *TicketDetail) FirstResponse(cal *BusinessCalendar) *BucketTotals {
	if d.FirstReplyAt == nil || d.FirstReplyAt.Before(d.CreatedAt) {
		return nil
	}
	return &BucketTotals{
		WallSeconds:     d.FirstReplyAt.Sub(d.CreatedAt).Seconds(),
		BusinessSeconds: cal.BusinessSecondsBetween(d.CreatedAt, *d.FirstReplyAt),
	}
}

// Timeline builds the ticket's replayable event timeline.
func (d *TicketDetail) Timeline(now time.Time) (*TicketTimeline, error) {
	return NewTicketTimeline(d.ID, d.CreatedAt, d.FinalInstant(now), d.Replies)
}
