package ticketmailer

import (
	"context"
	"io"
	"net/http"
)

// TicketsService provides PDF generation, combined send, and code validation.
type TicketsService struct {
	c *Client
}

// GeneratePDF builds a ticket document and returns the raw PDF bytes.
func (s *TicketsService) GeneratePDF(ctx context.Context, data TicketData) ([]byte, error) {
	req, err := s.c.newRequest(ctx, http.MethodPost, "/api/tickets/generate-pdf", data)
	if err != nil {
		return nil, err
	}

	resp, err := s.c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, parseError(resp)
	}
	return io.ReadAll(resp.Body)
}

// SendWithPDF builds the ticket document and emails it to the buyer in one
// call.
func (s *TicketsService) SendWithPDF(ctx context.Context, req SendWithPDFRequest) (*SendWithPDFResponse, error) {
	return doRequest[SendWithPDFResponse](ctx, s.c, http.MethodPost, "/api/tickets/send-with-pdf", req, http.StatusOK)
}

// Validate checks a scanned QR payload ("eventId|ticketType").
func (s *TicketsService) Validate(ctx context.Context, qrData string) (*ValidateResponse, error) {
	body := map[string]string{"qrData": qrData}
	return doRequest[ValidateResponse](ctx, s.c, http.MethodPost, "/api/tickets/validate", body, http.StatusOK)
}
