package ticketmailer

import "fmt"

// APIError is returned when the service responds with a non-success status.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("ticketmailer: HTTP %d: %s", e.StatusCode, e.Message)
}
