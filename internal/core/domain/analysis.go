package domain

import (
	"time"

	"github.com/google/uuid"
)

// JobStatus is the lifecycle state of a batch analysis job.
type JobStatus string

const (
	JobPending   JobStatus = "PENDING"
	JobRunning   JobStatus = "RUNNING"
	JobCompleted JobStatus = "COMPLETED"
)

// TicketAnalysis is the outcome of analyzing a single ticket. Exactly one of
// Result/Error is meaningful: a failed ticket carries its error message and
// zeroed totals. One ticket's failure never aborts the batch it belongs to.
type TicketAnalysis struct {
	TicketID      string            `json:"ticketId"`
	Protocol      string            `json:"protocol"`
	Subject       string            `json:"subject"`
	Result        AttributionResult `json:"result"`
	StatusTimes   StatusTimes       `json:"statusTimes"`
	FirstResponse *BucketTotals     `json:"firstResponse,omitempty"`
	ClosingStatus string            `json:"closingStatus,omitempty"`
	Error         string            `json:"error,omitempty"`
	AnalyzedAt    time.Time         `json:"analyzedAt"`
}

// Failed reports whether this ticket's analysis errored.
func (a *TicketAnalysis) Failed() bool {
	return a.Error != ""
}

// AnalysisJob tracks a batch of ticket analyses.
type AnalysisJob struct {
	ID         uuid.UUID        `json:"id"`
	Status     JobStatus        `json:"status"`
	Total      int              `json:"total"`
	Completed  int              `json:"completed"`
	Failed     int              `json:"failed"`
	Results    []TicketAnalysis `json:"results"`
	CreatedAt  time.Time        `json:"createdAt"`
	FinishedAt *time.Time       `json:"finishedAt,omitempty"`
}

// NewAnalysisJob creates a pending job for the given number of tickets.
func NewAnalysisJob(total int) *AnalysisJob {
	return &AnalysisJob{
		ID:        uuid.New(),
		Status:    JobPending,
		Total:     total,
		Results:   make([]TicketAnalysis, 0, total),
		CreatedAt: time.Now().UTC(),
	}
}
