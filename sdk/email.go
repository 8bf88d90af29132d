package ticketmailer

import (
	"context"
	"net/http"
)

// EmailService dispatches transactional notifications.
type EmailService struct {
	c *Client
}

// Send dispatches one notification through the service's SMTP accounts.
func (s *EmailService) Send(ctx context.Context, req SendEmailRequest) (*SendEmailResponse, error) {
	return doRequest[SendEmailResponse](ctx, s.c, http.MethodPost, "/send-email", req, http.StatusOK)
}
