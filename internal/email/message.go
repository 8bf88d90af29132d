package email

import (
	"context"
	"encoding/json"
	"errors"
)

// Type identifies a notification kind. Every template, subject rule, and
// payload shape is keyed by it.
type Type string

const (
	TypeTicket          Type = "ticket"
	TypeOTP             Type = "otp"
	TypeEvent           Type = "event"
	TypeNewsletter      Type = "newsletter"
	TypeTicketPurchased Type = "ticketpurchased"
)

// Valid reports whether t is one of the supported notification kinds.
func (t Type) Valid() bool {
	switch t {
	case TypeTicket, TypeOTP, TypeEvent, TypeNewsletter, TypeTicketPurchased:
		return true
	}
	return false
}

// Attachment is a file carried with an outbound message.
type Attachment struct {
	Filename string `json:"filename"`
	Content  []byte `json:"content"`
}

// Message holds the fields handed to an SMTP transport.
type Message struct {
	From        string
	To          string
	Subject     string
	HTML        string
	Text        string
	Attachments []Attachment
}

// Transport delivers a composed message. Implementations are bound to a
// single outbound account.
type Transport interface {
	Send(ctx context.Context, msg Message) error
}

// Request is one email send, created at the HTTP boundary and consumed
// synchronously. Data is the type-specific payload, decoded by the renderer.
type Request struct {
	To             string          `json:"to"`
	Type           Type            `json:"type"`
	Data           json.RawMessage `json:"data"`
	FromAccountKey string          `json:"fromAccountKey,omitempty"`
	Attachments    []Attachment    `json:"-"`
}

// SendResult reports a completed delivery. AttachmentSkipped is set when a
// ticket send degraded because the PDF could not be built.
type SendResult struct {
	MessageID         string
	AttachmentSkipped bool
	PDFSize           int
}

var (
	// ErrUnsupportedType is returned for notification kinds outside the
	// fixed set.
	ErrUnsupportedType = errors.New("unsupported notification type")
	// ErrMissingRecipient is returned when a send has no "to" address.
	ErrMissingRecipient = errors.New("recipient address is required")
	// ErrMissingType is returned when a send does not name a notification kind.
	ErrMissingType = errors.New("notification type is required")
)
