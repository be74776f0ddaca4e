package tomticket

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/otavioq/ticket-metrics-backend/internal/core/domain"
	apperrors "github.com/otavioq/ticket-metrics-backend/internal/core/errors"
	"github.com/otavioq/ticket-metrics-backend/internal/core/ports"
)

func TestParseVendorTime(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  time.Time
	}{
		{
			"offset suffix is stripped, clock reading kept",
			"2024-03-04 09:30:00-0300",
			time.Date(2024, 3, 4, 9, 30, 0, 0, time.UTC),
		},
		{
			"colon offset variant",
			"2024-03-04 09:30:00-03:00",
			time.Date(2024, 3, 4, 9, 30, 0, 0, time.UTC),
		},
		{
			"no offset",
			"2024-03-04 09:30:00",
			time.Date(2024, 3, 4, 9, 30, 0, 0, time.UTC),
		},
		{"empty string", "", time.Time{}},
		{"garbage", "next tuesday", time.Time{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseVendorTime(tt.input)
			assert.True(t, tt.want.Equal(got), "got %v", got)
		})
	}
}

const detailBody = `{
	"error": false,
	"data": {
		"id": 4711,
		"protocol": 20240304,
		"subject": "Sistema fora do ar",
		"customer": {"name": "ACME", "email": "ti@acme.example"},
		"creation_date": "2024-03-04 09:00:00-0300",
		"end_date": "2024-03-04 17:00:00-0300",
		"situation": {"id": 5, "description": "Finalizado", "apply_date": "2024-03-04 17:00:00-0300"},
		"replies": [
			{"id": 1, "date": "2024-03-04 11:00:00-0300", "sender_type": "A", "sender": "Suporte"},
			{"id": 2, "date": "2024-03-04 15:00:00-0300", "sender_type": "C", "sender": "ACME"},
			{"id": 3, "date": "", "sender_type": "A", "sender": "sem data"},
			{"id": 4, "date": "2024-03-04 16:00:00-0300", "sender_type": "X", "sender": "robo"}
		],
		"status": [
			{
				"description": "Em atendimento",
				"start": {"operator": {"date": "2024-03-04 10:00:00-0300"}},
				"end": {"operator": {"date": "2024-03-04 12:00:00-0300"}}
			},
			{
				"description": "Aguardando cliente",
				"start": {"operator": {"date": "2024-03-04 12:00:00-0300"}}
			}
		]
	}
}`

func TestClient_GetTicketDetail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/ticket/detail", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		assert.Equal(t, "4711", r.URL.Query().Get("ticket_id"))
		w.Write([]byte(detailBody))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-token", time.Second)

	detail, err := client.GetTicketDetail(context.Background(), "4711")
	require.NoError(t, err)

	assert.Equal(t, "4711", detail.ID)
	assert.Equal(t, "20240304", detail.Protocol)
	assert.Equal(t, "Sistema fora do ar", detail.Subject)
	assert.Equal(t, "ACME", detail.CustomerName)
	assert.Equal(t, domain.SituationFinished, detail.SituationID)
	assert.True(t, detail.IsFinished())
	assert.True(t, time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC).Equal(detail.CreatedAt))
	require.NotNil(t, detail.EndedAt)
	assert.True(t, time.Date(2024, 3, 4, 17, 0, 0, 0, time.UTC).Equal(*detail.EndedAt))

	// The dateless reply and the unknown sender code are dropped.
	require.Len(t, detail.Replies, 2)
	assert.Equal(t, "1", detail.Replies[0].ID)
	assert.Equal(t, domain.PartySupport, detail.Replies[0].OriginalParty)
	assert.Equal(t, domain.ClassSupport, detail.Replies[0].Classification)
	assert.Equal(t, domain.PartyCustomer, detail.Replies[1].OriginalParty)

	require.Len(t, detail.Statuses, 2)
	assert.Equal(t, "Em atendimento", detail.Statuses[0].Description)
	require.NotNil(t, detail.Statuses[0].End)
	assert.Nil(t, detail.Statuses[1].End)
}

func TestClient_GetTicketDetail_VendorError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error": true, "message": "Chamado nao encontrado"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-token", time.Second)

	_, err := client.GetTicketDetail(context.Background(), "nope")
	assert.ErrorIs(t, err, apperrors.ErrTicketNotFound)
}

func TestClient_ListTickets(t *testing.T) {
	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	situation := domain.SituationFinished

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/ticket/list", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "5", r.URL.Query().Get("situation"))
		assert.Equal(t, "2024-03-01 00:00:00", r.URL.Query().Get("creation_date_ge"))
		w.Write([]byte(`{
			"success": true,
			"data": [
				{"id": 1, "protocol": 100, "subject": "a", "creation_date": "2024-03-01 08:00:00-0300", "situation": {"id": 1, "description": "Aberto"}},
				{"id": 2, "protocol": 101, "subject": "b", "creation_date": "2024-03-02 08:00:00-0300", "situation": {"id": 5, "description": "Finalizado"}}
			]
		}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-token", time.Second)

	summaries, err := client.ListTickets(context.Background(), ports.ListTicketsParams{
		Page:        2,
		SituationID: &situation,
		CreatedFrom: &from,
	})
	require.NoError(t, err)

	require.Len(t, summaries, 2)
	assert.Equal(t, "1", summaries[0].ID)
	assert.Equal(t, "Aberto", summaries[0].Situation)
	assert.Equal(t, 5, summaries[1].SituationID)
}

func TestClient_ListTickets_Rejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success": false, "message": "token invalido"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "bad-token", time.Second)

	_, err := client.ListTickets(context.Background(), ports.ListTicketsParams{})
	assert.ErrorIs(t, err, apperrors.ErrVendorRejected)
}

func TestClient_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-token", time.Second)

	_, err := client.ListTickets(context.Background(), ports.ListTicketsParams{})
	assert.ErrorIs(t, err, apperrors.ErrVendorRejected)
}
