package domain

import (
	"fmt"

	apperrors "github.com/otavioq/ticket-metrics-backend/internal/core/errors"
)

// Bucket names one of the four time accumulators.
type Bucket string

const (
	BucketCustomer Bucket = "customer"
	BucketSupport  Bucket = "support"
	BucketBug      Bucket = "bug"
	BucketIgnored  Bucket = "ignored"
)

// Buckets lists all buckets in presentation order.
var Buckets = []Bucket{BucketCustomer, BucketSupport, BucketBug, BucketIgnored}

// BucketTotals is one accumulator's pair of totals, in seconds.
type BucketTotals struct {
	WallSeconds     float64 `json:"wallSeconds"`
	BusinessSeconds float64 `json:"businessSeconds"`
}

func (b *BucketTotals) add(wall, business float64) {
	b.WallSeconds += wall
	b.BusinessSeconds += business
}

// AttributionResult holds the replayed time totals for every bucket. It is
// always fully populated; a bucket that received no time reports zeros.
type AttributionResult struct {
	Customer BucketTotals `json:"customer"`
	Support  BucketTotals `json:"support"`
	Bug      BucketTotals `json:"bug"`
	Ignored  BucketTotals `json:"ignored"`
}

// Totals returns the accumulator for the named bucket.
func (r *AttributionResult) Totals(b Bucket) BucketTotals {
	switch b {
	case BucketCustomer:
		return r.Customer
	case BucketSupport:
		return r.Support
	case BucketBug:
		return r.Bug
	default:
		return r.Ignored
	}
}

// TotalWallSeconds returns the sum of all buckets' wall-clock totals. For a
// well-formed timeline this equals the span from creation to the final
// instant.
func (r *AttributionResult) TotalWallSeconds() float64 {
	return r.Customer.WallSeconds + r.Support.WallSeconds +
		r.Bug.WallSeconds + r.Ignored.WallSeconds
}

// AttributeOwnership replays a timeline against a calendar and returns the
// wall-clock and business seconds each bucket accumulated.
//
// The ticket starts held by the customer, so time before the first event
// counts against support. Each slice between consecutive events is credited
// by inverting the current owner: the party holding the ticket is the party
// NOT accruing time (customer holds -> support bucket, support holds ->
// customer bucket, bug holds -> bug bucket). An event classified as Ignored
// sends its preceding slice to the ignored bucket and leaves the owner
// untouched. The trailing slice up to the final instant always resolves
// through the inversion rule.
//
// The replay is a pure function: the timeline is not mutated and every call
// recomputes from scratch.
func AttributeOwnership(tl *TicketTimeline, cal *BusinessCalendar) (AttributionResult, error) {
	var result AttributionResult

	if tl == nil || tl.CreatedAt.IsZero() {
		return result, apperrors.ErrInvalidTimeline
	}
	for _, ev := range tl.Events {
		if !ev.Classification.IsValid() {
			return result, fmt.Errorf("event %s: %w: %q",
				ev.ID, apperrors.ErrUnknownClassification, ev.Classification)
		}
	}

	lastInstant := tl.CreatedAt
	lastOwner := ClassCustomer

	for _, ev := range tl.Events {
		wall := ev.Timestamp.Sub(lastInstant).Seconds()
		business := cal.BusinessSecondsBetween(lastInstant, ev.Timestamp)

		if ev.Classification == ClassIgnored {
			// The ignored event consumes the slice that preceded it but is a
			// no-op for ownership.
			result.Ignored.add(wall, business)
			lastInstant = ev.Timestamp
			continue
		}

		creditOwner(&result, lastOwner, wall, business)
		lastOwner = ev.Classification
		lastInstant = ev.Timestamp
	}

	if tl.FinalInstant.After(lastInstant) {
		wall := tl.FinalInstant.Sub(lastInstant).Seconds()
		business := cal.BusinessSecondsBetween(lastInstant, tl.FinalInstant)
		creditOwner(&result, lastOwner, wall, business)
	}

	return result, nil
}

// creditOwner applies the inversion rule for a slice held by owner.
func creditOwner(r *AttributionResult, owner Classification, wall, business float64) {
	switch owner {
	case ClassCustomer:
		r.Support.add(wall, business)
	case ClassSupport:
		r.Customer.add(wall, business)
	case ClassBug:
		r.Bug.add(wall, business)
	}
}
