package tomticket

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/otavioq/ticket-metrics-backend/internal/core/domain"
)

// Vendor timestamp layouts, tried in order. The API usually appends a fixed
// UTC offset ("2024-03-04 09:00:00-0300").
var vendorTimeLayouts = []string{
	"2006-01-02 15:04:05-0700",
	"2006-01-02 15:04:05-07:00",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// parseVendorTime normalizes a vendor timestamp: the offset suffix is
// discarded and the literal clock reading becomes a naive UTC instant.
// Empty or unparseable strings yield the zero time.
func parseVendorTime(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range vendorTimeLayouts {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		// t's fields read back in the offset's own location, which is the
		// clock text as written. Rebuilding in UTC drops the offset without
		// shifting the reading.
		return time.Date(t.Year(), t.Month(), t.Day(),
			t.Hour(), t.Minute(), t.Second(), 0, time.UTC)
	}
	return time.Time{}
}

func optionalTime(s string) *time.Time {
	t := parseVendorTime(s)
	if t.IsZero() {
		return nil
	}
	return &t
}

type listResponse struct {
	Success bool             `json:"success"`
	Message string           `json:"message"`
	Data    []summaryPayload `json:"data"`
}

type detailResponse struct {
	Error   bool          `json:"error"`
	Message string        `json:"message"`
	Data    detailPayload `json:"data"`
}

type customerPayload struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type situationPayload struct {
	ID          int    `json:"id"`
	Description string `json:"description"`
	ApplyDate   string `json:"apply_date"`
}

type summaryPayload struct {
	ID           json.Number      `json:"id"`
	Protocol     json.Number      `json:"protocol"`
	Subject      string           `json:"subject"`
	Customer     customerPayload  `json:"customer"`
	CreationDate string           `json:"creation_date"`
	Situation    situationPayload `json:"situation"`
}

func (p summaryPayload) toDomain() domain.TicketSummary {
	return domain.TicketSummary{
		ID:            p.ID.String(),
		Protocol:      p.Protocol.String(),
		Subject:       p.Subject,
		CustomerName:  p.Customer.Name,
		CustomerEmail: p.Customer.Email,
		CreatedAt:     parseVendorTime(p.CreationDate),
		SituationID:   p.Situation.ID,
		Situation:     p.Situation.Description,
	}
}

type replyPayload struct {
	ID         json.Number `json:"id"`
	Date       string      `json:"date"`
	SenderType string      `json:"sender_type"`
	Sender     string      `json:"sender"`
	Message    string      `json:"message"`
}

type operatorStampPayload struct {
	Operator struct {
		Date string `json:"date"`
	} `json:"operator"`
}

type statusPayload struct {
	Description string                `json:"description"`
	Start       operatorStampPayload  `json:"start"`
	End         *operatorStampPayload `json:"end"`
}

type detailPayload struct {
	summaryPayload
	FirstReplyDate string          `json:"first_reply_date"`
	EndDate        string          `json:"end_date"`
	Replies        []replyPayload  `json:"replies"`
	Status         []statusPayload `json:"status"`
}

func (p detailPayload) toDomain() domain.TicketDetail {
	detail := domain.TicketDetail{
		TicketSummary:      p.summaryPayload.toDomain(),
		FirstReplyAt:       optionalTime(p.FirstReplyDate),
		EndedAt:            optionalTime(p.EndDate),
		SituationAppliedAt: optionalTime(p.Situation.ApplyDate),
	}

	for _, reply := range p.Replies {
		party, ok := mapSenderType(reply.SenderType)
		ts := parseVendorTime(reply.Date)
		// A reply without a usable instant or party cannot take part in the
		// replay.
		if !ok || ts.IsZero() {
			continue
		}
		detail.Replies = append(detail.Replies, domain.TicketEvent{
			ID:             reply.ID.String(),
			Timestamp:      ts,
			OriginalParty:  party,
			Classification: domain.Classification(party),
			Sender:         reply.Sender,
		})
	}

	for _, status := range p.Status {
		interval := domain.StatusInterval{
			Description: status.Description,
			Start:       parseVendorTime(status.Start.Operator.Date),
		}
		if status.End != nil {
			if end := optionalTime(status.End.Operator.Date); end != nil {
				interval.End = end
			}
		}
		detail.Statuses = append(detail.Statuses, interval)
	}

	return detail
}

// mapSenderType resolves the vendor's raw sender code.
func mapSenderType(code string) (domain.Party, bool) {
	switch code {
	case "C":
		return domain.PartyCustomer, true
	case "A":
		return domain.PartySupport, true
	default:
		return "", false
	}
}
