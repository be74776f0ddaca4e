package domain

import (
	"fmt"
	"sort"
	"time"

	apperrors "github.com/otavioq/ticket-metrics-backend/internal/core/errors"
)

// Party identifies who is literally able to send a ticket message.
type Party string

const (
	PartyCustomer Party = "C"
	PartySupport  Party = "A"
)

// Classification is the bucket an interaction is currently assigned to.
// It starts equal to the sender party and may be changed by an operator.
type Classification string

const (
	ClassCustomer Classification = "C"
	ClassSupport  Classification = "A"
	ClassBug      Classification = "B"
	ClassIgnored  Classification = "I"
)

// IsValid reports whether the classification is one of the four known buckets.
func (c Classification) IsValid() bool {
	switch c {
	case ClassCustomer, ClassSupport, ClassBug, ClassIgnored:
		return true
	}
	return false
}

// CreationEventID is the synthetic identifier of the virtual creation event.
const CreationEventID = "creation"

// TicketEvent is one point at which a ticket changed hands: the virtual
// creation event or a real reply.
type TicketEvent struct {
	ID             string
	Timestamp      time.Time
	Sequence       int // original vendor order, tie-break for equal timestamps
	OriginalParty  Party
	Classification Classification
	Sender         string
	Virtual        bool // true only for the synthetic creation event
}

// TicketTimeline is an ordered event sequence plus the instant the
// observation window closes: the ticket's end, its terminal situation, or
// "now" for a still-open ticket.
type TicketTimeline struct {
	TicketID     string
	CreatedAt    time.Time
	FinalInstant time.Time
	Events       []TicketEvent
}

// NewTicketTimeline assembles a timeline from a ticket's replies. A virtual
// creation event classified as Customer is prepended at sequence 0. Events
// are ordered by timestamp; equal timestamps keep their original vendor
// order, which is part of this type's contract.
func NewTicketTimeline(ticketID string, createdAt, finalInstant time.Time, replies []TicketEvent) (*TicketTimeline, error) {
	if createdAt.IsZero() {
		return nil, fmt.Errorf("ticket %s: %w", ticketID, apperrors.ErrInvalidTimeline)
	}

	events := make([]TicketEvent, 0, len(replies)+1)
	events = append(events, TicketEvent{
		ID:             CreationEventID,
		Timestamp:      createdAt,
		Sequence:       0,
		OriginalParty:  PartyCustomer,
		Classification: ClassCustomer,
		Virtual:        true,
	})
	for i, reply := range replies {
		reply.Sequence = i + 1
		events = append(events, reply)
	}

	sort.SliceStable(events, func(i, j int) bool {
		if events[i].Timestamp.Equal(events[j].Timestamp) {
			return events[i].Sequence < events[j].Sequence
		}
		return events[i].Timestamp.Before(events[j].Timestamp)
	})

	return &TicketTimeline{
		TicketID:     ticketID,
		CreatedAt:    createdAt,
		FinalInstant: finalInstant,
		Events:       events,
	}, nil
}

// WithClassifications returns a copy of the timeline with the given
// per-event-ID classification overrides applied. The receiver is never
// mutated; replays always run against an immutable snapshot.
func (tl *TicketTimeline) WithClassifications(overrides map[string]Classification) *TicketTimeline {
	if len(overrides) == 0 {
		return tl
	}

	events := make([]TicketEvent, len(tl.Events))
	copy(events, tl.Events)
	for i := range events {
		if class, ok := overrides[events[i].ID]; ok {
			events[i].Classification = class
		}
	}

	return &TicketTimeline{
		TicketID:     tl.TicketID,
		CreatedAt:    tl.CreatedAt,
		FinalInstant: tl.FinalInstant,
		Events:       events,
	}
}
