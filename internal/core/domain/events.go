package domain

import "github.com/google/uuid"

// EventType identifies real-time events pushed to WebSocket subscribers.
type EventType string

const (
	EventJobStarted     EventType = "job.started"
	EventTicketAnalyzed EventType = "job.ticket_analyzed"
	EventTicketFailed   EventType = "job.ticket_failed"
	EventJobCompleted   EventType = "job.completed"
)

// Event is one real-time notification about an analysis job.
type Event struct {
	Type    EventType   `json:"type"`
	JobID   uuid.UUID   `json:"jobId"`
	Payload interface{} `json:"payload,omitempty"`
}
