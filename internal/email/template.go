package email

import (
	"bytes"
	"encoding/json"
	"fmt"
	htmltemplate "html/template"
	"net/url"

	"github.com/raexevents/ticketmailer/internal/ticket"
)

// OTPData is the payload for a verification-code email.
type OTPData struct {
	Name      string `json:"name"`
	OTP       string `json:"otp"`
	ExpiresIn int    `json:"expiresIn"`
}

// EventData is the payload for an event-published notice sent to the organizer.
type EventData struct {
	OrganizerName string `json:"organizerName"`
	EventTitle    string `json:"eventTitle"`
	EventDate     string `json:"eventDate"`
	EventTime     string `json:"eventTime"`
	EventVenue    string `json:"eventVenue"`
	TicketPrice   string `json:"ticketPrice"`
	EventURL      string `json:"eventUrl"`
}

// NewsletterData is the payload for a generic announcement.
type NewsletterData struct {
	Name    string `json:"name"`
	Title   string `json:"title"`
	Content string `json:"content"`
	CTAText string `json:"ctaText"`
	CTAURL  string `json:"ctaUrl"`
}

// SaleNoticeData is the payload for the sale notification an organizer gets
// when a buyer completes checkout.
type SaleNoticeData struct {
	OrganizerName string `json:"organizerName"`
	BuyerName     string `json:"buyerName"`
	EventTitle    string `json:"eventTitle"`
	TicketType    string `json:"ticketType"`
	Quantity      int    `json:"quantity"`
	Amount        string `json:"amount"`
}

// templates maps each notification kind to its HTML body template. The map is
// fixed; callers select a kind by Type, never by template name.
var templates = map[Type]*htmltemplate.Template{
	TypeTicket:          htmltemplate.Must(htmltemplate.New(string(TypeTicket)).Parse(ticketTemplate)),
	TypeOTP:             htmltemplate.Must(htmltemplate.New(string(TypeOTP)).Parse(otpTemplate)),
	TypeEvent:           htmltemplate.Must(htmltemplate.New(string(TypeEvent)).Parse(eventTemplate)),
	TypeNewsletter:      htmltemplate.Must(htmltemplate.New(string(TypeNewsletter)).Parse(newsletterTemplate)),
	TypeTicketPurchased: htmltemplate.Must(htmltemplate.New(string(TypeTicketPurchased)).Parse(saleNoticeTemplate)),
}

// Render produces the HTML body for one notification. raw is the
// type-specific JSON payload from the request; an unknown type is a hard
// error. Rendering is pure: same input, same output.
func Render(typ Type, raw json.RawMessage) (string, error) {
	if !typ.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedType, typ)
	}

	view, err := viewFor(typ, raw)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := templates[typ].Execute(&buf, view); err != nil {
		return "", fmt.Errorf("render %s template: %w", typ, err)
	}
	return buf.String(), nil
}

func viewFor(typ Type, raw json.RawMessage) (any, error) {
	if len(raw) == 0 {
		raw = json.RawMessage("{}")
	}
	switch typ {
	case TypeTicket:
		var d ticket.EmailData
		if err := json.Unmarshal(raw, &d); err != nil {
			return nil, fmt.Errorf("decode ticket data: %w", err)
		}
		return newTicketView(d), nil
	case TypeOTP:
		var d OTPData
		if err := json.Unmarshal(raw, &d); err != nil {
			return nil, fmt.Errorf("decode otp data: %w", err)
		}
		if d.Name == "" {
			d.Name = "Organizer"
		}
		if d.ExpiresIn == 0 {
			d.ExpiresIn = 5
		}
		return d, nil
	case TypeEvent:
		var d EventData
		if err := json.Unmarshal(raw, &d); err != nil {
			return nil, fmt.Errorf("decode event data: %w", err)
		}
		if d.EventTime == "" {
			d.EventTime = "To be announced"
		}
		if d.TicketPrice == "" {
			d.TicketPrice = "Free"
		}
		return d, nil
	case TypeNewsletter:
		var d NewsletterData
		if err := json.Unmarshal(raw, &d); err != nil {
			return nil, fmt.Errorf("decode newsletter data: %w", err)
		}
		if d.Name == "" {
			d.Name = "there"
		}
		return struct {
			NewsletterData
			ShowCTA bool
		}{d, d.CTAText != "" && d.CTAURL != ""}, nil
	case TypeTicketPurchased:
		var d SaleNoticeData
		if err := json.Unmarshal(raw, &d); err != nil {
			return nil, fmt.Errorf("decode sale notice data: %w", err)
		}
		if d.OrganizerName == "" {
			d.OrganizerName = "Organizer"
		}
		return struct {
			SaleNoticeData
			TicketWord string
		}{d, pluralize(d.Quantity, "ticket", "tickets")}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedType, typ)
}

// ticketView is the ticket template's render model: normalized line items,
// the grand total, and one QR image reference per individual code.
type ticketView struct {
	ticket.EmailData
	Items []ticketItemView
	Total string
}

type ticketItemView struct {
	ticket.LineItem
	Codes []codeView
}

type codeView struct {
	Code  string
	QRURL string
}

func newTicketView(d ticket.EmailData) ticketView {
	items := make([]ticketItemView, 0, len(d.Tickets))
	for _, li := range d.Tickets {
		li = li.Normalize()
		codes := make([]codeView, 0, len(li.Codes))
		for _, c := range li.Codes {
			codes = append(codes, codeView{
				Code:  c,
				QRURL: "https://api.qrserver.com/v1/create-qr-code/?size=150x150&data=" + url.QueryEscape(c),
			})
		}
		items = append(items, ticketItemView{LineItem: li, Codes: codes})
	}
	return ticketView{
		EmailData: d,
		Items:     items,
		Total:     ticket.Total(d.Tickets),
	}
}

func pluralize(n int, singular, plural string) string {
	if n == 1 {
		return singular
	}
	return plural
}

const ticketTemplate = `<div style="font-family:Arial,Helvetica,sans-serif;max-width:600px;margin:0 auto;color:#1f2430">
  <h1 style="color:#e6332a;margin-bottom:4px">RAEX Events</h1>
  <h2 style="margin-top:0">{{.EventTitle}}</h2>
  {{if .EventPosterURL}}<img src="{{.EventPosterURL}}" alt="{{.EventTitle}}" style="width:100%;max-height:280px;object-fit:cover;border-radius:8px"/>{{end}}
  <p>Hi {{.Name}},</p>
  <p>Your tickets are confirmed. Here is everything you need for the day:</p>
  <table style="width:100%;border-collapse:collapse;margin:12px 0">
    <tr><td style="padding:4px 0;color:#6b7280">Date</td><td style="padding:4px 0">{{.EventDate}}</td></tr>
    <tr><td style="padding:4px 0;color:#6b7280">Time</td><td style="padding:4px 0">{{.EventTime}}</td></tr>
    <tr><td style="padding:4px 0;color:#6b7280">Venue</td><td style="padding:4px 0">{{.EventVenue}}</td></tr>
  </table>
  <table style="width:100%;border-collapse:collapse;margin:16px 0">
    <tr style="background:#f3f4f6">
      <th style="text-align:left;padding:8px;border:1px solid #e5e7eb">Ticket</th>
      <th style="text-align:right;padding:8px;border:1px solid #e5e7eb">Qty</th>
      <th style="text-align:right;padding:8px;border:1px solid #e5e7eb">Amount</th>
    </tr>
    {{range .Items}}<tr>
      <td style="padding:8px;border:1px solid #e5e7eb">{{.TicketType}}</td>
      <td style="text-align:right;padding:8px;border:1px solid #e5e7eb">{{.Quantity}}</td>
      <td style="text-align:right;padding:8px;border:1px solid #e5e7eb">{{.Amount}}</td>
    </tr>{{end}}
    <tr>
      <td colspan="2" style="padding:8px;border:1px solid #e5e7eb;font-weight:bold">Total</td>
      <td style="text-align:right;padding:8px;border:1px solid #e5e7eb;font-weight:bold">{{.Total}}</td>
    </tr>
  </table>
  {{range .Items}}{{$type := .TicketType}}{{range .Codes}}
  <div style="border:2px dashed #e6332a;border-radius:8px;padding:12px;margin:10px 0">
    <img src="{{.QRURL}}" alt="QR code" width="110" height="110" style="float:left;margin-right:16px"/>
    <div style="overflow:hidden">
      <div style="font-weight:bold">{{$type}}</div>
      <div style="font-family:monospace;font-size:14px;margin-top:4px">{{.Code}}</div>
      <div style="color:#6b7280;font-size:12px;margin-top:4px">Show this code at the entrance</div>
    </div>
  </div>
  {{end}}{{end}}
  <p style="color:#6b7280;font-size:12px">Tickets are non-transferable. Please present this ticket at the entrance.</p>
</div>`

const otpTemplate = `<div style="font-family:Arial,Helvetica,sans-serif;max-width:480px;margin:0 auto;color:#1f2430">
  <h2 style="color:#e6332a">Verification code</h2>
  <p>Hi {{.Name}},</p>
  <p>Use the code below to verify your account:</p>
  <p style="font-size:32px;letter-spacing:8px;font-weight:bold;text-align:center;background:#f3f4f6;padding:16px;border-radius:8px">{{.OTP}}</p>
  <p>This code expires in {{.ExpiresIn}} minutes. If you did not request it, you can ignore this email.</p>
</div>`

const eventTemplate = `<div style="font-family:Arial,Helvetica,sans-serif;max-width:560px;margin:0 auto;color:#1f2430">
  <h2 style="color:#e6332a">Your event is live!</h2>
  <p>Hi {{.OrganizerName}},</p>
  <p><strong>{{.EventTitle}}</strong> has been published and is now open for bookings.</p>
  <table style="width:100%;border-collapse:collapse;margin:12px 0">
    <tr><td style="padding:4px 0;color:#6b7280">Date</td><td style="padding:4px 0">{{.EventDate}}</td></tr>
    <tr><td style="padding:4px 0;color:#6b7280">Time</td><td style="padding:4px 0">{{.EventTime}}</td></tr>
    <tr><td style="padding:4px 0;color:#6b7280">Venue</td><td style="padding:4px 0">{{.EventVenue}}</td></tr>
    <tr><td style="padding:4px 0;color:#6b7280">Price</td><td style="padding:4px 0">{{.TicketPrice}}</td></tr>
  </table>
  {{if .EventURL}}<p><a href="{{.EventURL}}" style="display:inline-block;background:#e6332a;color:#fff;padding:10px 24px;border-radius:6px;text-decoration:none">View your event</a></p>{{end}}
</div>`

const newsletterTemplate = `<div style="font-family:Arial,Helvetica,sans-serif;max-width:560px;margin:0 auto;color:#1f2430">
  <h2 style="color:#e6332a">{{.Title}}</h2>
  <p>Hi {{.Name}},</p>
  <p>{{.Content}}</p>
  {{if .ShowCTA}}<p><a href="{{.CTAURL}}" style="display:inline-block;background:#e6332a;color:#fff;padding:10px 24px;border-radius:6px;text-decoration:none">{{.CTAText}}</a></p>{{end}}
</div>`

const saleNoticeTemplate = `<div style="font-family:Arial,Helvetica,sans-serif;max-width:560px;margin:0 auto;color:#1f2430">
  <h2 style="color:#e6332a">You made a sale!</h2>
  <p>Hi {{.OrganizerName}},</p>
  <p><strong>{{.BuyerName}}</strong> just bought {{.Quantity}} {{.TicketWord}}{{if .TicketType}} ({{.TicketType}}){{end}} for <strong>{{.EventTitle}}</strong>{{if .Amount}} at {{.Amount}}{{end}}.</p>
  <p style="color:#6b7280;font-size:13px">You can review this order from your organizer dashboard.</p>
</div>`
