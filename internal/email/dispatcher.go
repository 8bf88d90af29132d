package email

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/raexevents/ticketmailer/internal/config"
	"github.com/raexevents/ticketmailer/internal/ticket"
)

// DocumentBuilder produces the PDF attached to ticket confirmations.
type DocumentBuilder interface {
	Build(ctx context.Context, data ticket.EmailData) (ticket.BuildResult, error)
}

// TransportFactory builds a transport bound to one account. Tests swap it for
// a capture fake; production uses NewSMTPTransport.
type TransportFactory func(acct config.Account) Transport

// Dispatcher composes and delivers one email per call: resolve the subject,
// render the template, attach the ticket PDF when applicable, and hand the
// message to an SMTP transport. It keeps no state between calls, so a
// duplicate request sends a duplicate email.
type Dispatcher struct {
	cfg       config.Config
	builder   DocumentBuilder
	transport TransportFactory
}

// NewDispatcher wires a dispatcher from the process configuration. builder
// may be nil, in which case ticket sends always go out without a PDF.
func NewDispatcher(cfg config.Config, builder DocumentBuilder, factory TransportFactory) *Dispatcher {
	if factory == nil {
		factory = func(acct config.Account) Transport { return NewSMTPTransport(acct) }
	}
	return &Dispatcher{cfg: cfg, builder: builder, transport: factory}
}

// Send validates, composes, and delivers req. Validation and configuration
// problems fail before any network activity; a PDF build failure degrades the
// send (no attachment) rather than failing it; a transport failure is
// returned wrapped.
func (d *Dispatcher) Send(ctx context.Context, req Request) (SendResult, error) {
	var res SendResult
	if req.To == "" {
		return res, ErrMissingRecipient
	}
	if req.Type == "" {
		return res, ErrMissingType
	}
	if !req.Type.Valid() {
		return res, fmt.Errorf("%w: %q", ErrUnsupportedType, req.Type)
	}

	acct, err := d.cfg.ResolveAccount(req.FromAccountKey)
	if err != nil {
		return res, err
	}

	html, err := Render(req.Type, req.Data)
	if err != nil {
		return res, err
	}

	msg := Message{
		From:        acct.User,
		To:          req.To,
		Subject:     d.subject(req),
		HTML:        html,
		Text:        plainFallback(req.Type),
		Attachments: req.Attachments,
	}

	if req.Type == TypeTicket && len(msg.Attachments) == 0 && d.builder != nil {
		var data ticket.EmailData
		if err := json.Unmarshal(req.Data, &data); err == nil {
			built, buildErr := d.builder.Build(ctx, data)
			if buildErr != nil {
				log.Printf("dispatcher: ticket PDF build failed, sending without attachment: %v", buildErr)
				res.AttachmentSkipped = true
			} else {
				msg.Attachments = append(msg.Attachments, Attachment{
					Filename: attachmentName(data),
					Content:  built.PDF,
				})
				res.PDFSize = len(built.PDF)
			}
		} else {
			log.Printf("dispatcher: ticket data undecodable, sending without attachment: %v", err)
			res.AttachmentSkipped = true
		}
	}

	if err := d.transport(acct).Send(ctx, msg); err != nil {
		log.Printf("dispatcher: delivery to %s failed: %v", req.To, err)
		return res, fmt.Errorf("email delivery failed: %w", err)
	}

	res.MessageID = uuid.NewString()
	return res, nil
}

// subject resolves the message subject: a caller-supplied data.subject wins,
// then the per-type default, then a generic fallback.
func (d *Dispatcher) subject(req Request) string {
	var probe struct {
		Subject    string `json:"subject"`
		EventTitle string `json:"eventTitle"`
		Title      string `json:"title"`
		Quantity   int    `json:"quantity"`
	}
	_ = json.Unmarshal(req.Data, &probe)

	if probe.Subject != "" {
		return probe.Subject
	}

	switch req.Type {
	case TypeTicket:
		if probe.EventTitle != "" {
			return "Your tickets for " + probe.EventTitle
		}
	case TypeOTP:
		return "Your verification code"
	case TypeEvent:
		return "Your event is now live"
	case TypeNewsletter:
		if probe.Title != "" {
			return probe.Title
		}
	case TypeTicketPurchased:
		if probe.EventTitle != "" {
			return fmt.Sprintf("You sold %d %s for %s",
				probe.Quantity, pluralize(probe.Quantity, "ticket", "tickets"), probe.EventTitle)
		}
	}
	return "Notification from RAEX Events"
}

// plainFallback is the text/plain part for clients that refuse HTML.
func plainFallback(typ Type) string {
	switch typ {
	case TypeTicket:
		return "Your tickets are confirmed. Open this email in an HTML-capable client to see your QR codes."
	case TypeOTP:
		return "Your verification code is in this email. Open it in an HTML-capable client to view it."
	default:
		return "You have a new notification from RAEX Events."
	}
}

func attachmentName(data ticket.EmailData) string {
	if data.OrderID != "" {
		return "tickets-" + data.OrderID + ".pdf"
	}
	return fmt.Sprintf("tickets-%d.pdf", time.Now().Unix())
}
