// Package tomticket implements the vendor ticket source against the
// TomTicket v2.0 REST API. All vendor timestamps are normalized here:
// the fixed UTC-offset suffix is discarded and the literal clock reading is
// kept as a naive UTC instant, so the rest of the system never sees a
// timezone.
package tomticket

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/otavioq/ticket-metrics-backend/internal/core/domain"
	apperrors "github.com/otavioq/ticket-metrics-backend/internal/core/errors"
	"github.com/otavioq/ticket-metrics-backend/internal/core/ports"
	"github.com/otavioq/ticket-metrics-backend/internal/infrastructure/metrics"
)

const listParamTimeLayout = "2006-01-02 15:04:05"

// Client talks to the TomTicket API.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

var _ ports.TicketSource = (*Client)(nil)

// NewClient creates a vendor client with a bearer token.
func NewClient(baseURL, token string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:    baseURL,
		token:      token,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// ListTickets fetches one page of the vendor ticket listing.
func (c *Client) ListTickets(ctx context.Context, params ports.ListTicketsParams) ([]domain.TicketSummary, error) {
	query := url.Values{}
	if params.Page > 0 {
		query.Set("page", strconv.Itoa(params.Page))
	}
	if params.SituationID != nil {
		query.Set("situation", strconv.Itoa(*params.SituationID))
	}
	if params.CreatedFrom != nil {
		query.Set("creation_date_ge", params.CreatedFrom.Format(listParamTimeLayout))
	}
	if params.CreatedTo != nil {
		query.Set("creation_date_le", params.CreatedTo.Format(listParamTimeLayout))
	}

	var resp listResponse
	if err := c.get(ctx, "/ticket/list", query, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, apperrors.NewVendorError(apperrors.ErrVendorRejected, resp.Message)
	}

	summaries := make([]domain.TicketSummary, 0, len(resp.Data))
	for _, payload := range resp.Data {
		summaries = append(summaries, payload.toDomain())
	}
	return summaries, nil
}

// GetTicketDetail fetches the full reply and status history of one ticket.
func (c *Client) GetTicketDetail(ctx context.Context, ticketID string) (*domain.TicketDetail, error) {
	query := url.Values{}
	query.Set("ticket_id", ticketID)

	var resp detailResponse
	if err := c.get(ctx, "/ticket/detail", query, &resp); err != nil {
		return nil, err
	}
	if resp.Error {
		return nil, apperrors.NewNotFoundError(apperrors.ErrTicketNotFound, resp.Message)
	}

	detail := resp.Data.toDomain()
	return &detail, nil
}

func (c *Client) get(ctx context.Context, endpoint string, query url.Values, out interface{}) error {
	start := time.Now()
	outcome := "error"
	defer func() {
		metrics.VendorRequestsTotal.WithLabelValues(endpoint, outcome).Inc()
		metrics.VendorRequestDurationSeconds.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperrors.NewVendorError(fmt.Errorf("%w: %v", apperrors.ErrVendorUnavailable, err),
			"The ticket vendor could not be reached")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return apperrors.NewVendorError(
			fmt.Errorf("%w: status %d: %s", apperrors.ErrVendorRejected, resp.StatusCode, body),
			"The ticket vendor rejected the request")
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperrors.NewVendorError(fmt.Errorf("%w: %v", apperrors.ErrVendorRejected, err),
			"The ticket vendor returned an unreadable response")
	}

	outcome = "success"
	return nil
}
