package ticketmailer

// HealthResponse is returned by the health endpoint.
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

// TicketLineItem is one purchasable tier with its redemption codes.
type TicketLineItem struct {
	TicketType string   `json:"ticketType"`
	Quantity   int      `json:"quantity"`
	Amount     string   `json:"amount"`
	Codes      []string `json:"codes,omitempty"`
}

// TicketData describes the order a ticket document or confirmation email is
// produced from.
type TicketData struct {
	Name           string           `json:"name,omitempty"`
	EventTitle     string           `json:"eventTitle"`
	EventDate      string           `json:"eventDate"`
	EventTime      string           `json:"eventTime,omitempty"`
	EventVenue     string           `json:"eventVenue,omitempty"`
	EventPosterURL string           `json:"eventPosterUrl,omitempty"`
	OrderID        string           `json:"orderId,omitempty"`
	Tickets        []TicketLineItem `json:"tickets"`
}

// SendWithPDFRequest sends a ticket confirmation email with the generated PDF
// attached.
type SendWithPDFRequest struct {
	To string `json:"to"`
	TicketData
}

// SendWithPDFResponse reports the combined generate-and-send outcome.
type SendWithPDFResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	PDFSize int    `json:"pdfSize"`
}

// ValidateResponse is the outcome of a scanned-code check.
type ValidateResponse struct {
	Valid      bool   `json:"valid"`
	EventID    string `json:"eventId"`
	TicketType string `json:"ticketType"`
	ScannedAt  string `json:"scannedAt"`
}

// SendEmailRequest dispatches one notification. Type is one of ticket, otp,
// event, newsletter, or ticketpurchased; Data is the type-specific payload.
type SendEmailRequest struct {
	To             string `json:"to"`
	Type           string `json:"type"`
	Data           any    `json:"data"`
	FromAccountKey string `json:"fromAccountKey,omitempty"`
}

// SendEmailResponse reports a dispatched notification.
type SendEmailResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
