package ticket

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// LineItem is one purchasable tier: a ticket type with a quantity and one
// redemption code per unit. Amount is a currency-formatted string as entered
// by the organizer, or the literal "FREE".
type LineItem struct {
	TicketType string   `json:"ticketType"`
	Quantity   int      `json:"quantity"`
	Amount     string   `json:"amount"`
	Codes      []string `json:"codes"`
}

// EmailData carries everything needed to render a ticket confirmation email
// and its PDF attachment. It is built per request and never persisted.
type EmailData struct {
	Name           string     `json:"name"`
	EventTitle     string     `json:"eventTitle"`
	EventDate      string     `json:"eventDate"`
	EventTime      string     `json:"eventTime"`
	EventVenue     string     `json:"eventVenue"`
	EventPosterURL string     `json:"eventPosterUrl,omitempty"`
	OrderID        string     `json:"orderId,omitempty"`
	Tickets        []LineItem `json:"tickets"`
}

// ErrNoTickets is returned when a document or email is requested for an
// order with no line items.
var ErrNoTickets = errors.New("tickets array is empty or invalid")

// Validate checks the fields the document builder cannot do without. It runs
// before any I/O so a bad payload never costs a remote fetch.
func (d EmailData) Validate() error {
	required := []struct {
		field string
		value string
	}{
		{"eventTitle", d.EventTitle},
		{"eventDate", d.EventDate},
		{"eventTime", d.EventTime},
		{"eventVenue", d.EventVenue},
		{"name", d.Name},
	}
	var missing []string
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			missing = append(missing, r.field)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required fields: %s", strings.Join(missing, ", "))
	}
	if len(d.Tickets) == 0 {
		return ErrNoTickets
	}
	return nil
}

// Normalize pads the item's code list out to Quantity. Provided codes are
// kept in order; the remainder are synthesized from the current timestamp and
// the slot index, so generated codes are unique within one item.
func (li LineItem) Normalize() LineItem {
	if li.Quantity <= 0 || len(li.Codes) >= li.Quantity {
		return li
	}
	codes := make([]string, 0, li.Quantity)
	codes = append(codes, li.Codes...)
	now := time.Now().UnixMilli()
	for i := len(li.Codes); i < li.Quantity; i++ {
		codes = append(codes, fmt.Sprintf("TKT-%d-%d", now, i))
	}
	out := li
	out.Codes = codes
	return out
}

// ParseAmount extracts the numeric value from a currency-formatted string.
// "FREE" (any case) and unparseable strings yield 0. Everything except
// digits, dots, and a leading minus is stripped before parsing, so "$1,250.50"
// and "NGN 1250.50" both work.
func ParseAmount(amount string) float64 {
	if strings.EqualFold(strings.TrimSpace(amount), "FREE") {
		return 0
	}
	var b strings.Builder
	for _, r := range amount {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}
	var v float64
	if _, err := fmt.Sscanf(b.String(), "%f", &v); err != nil {
		return 0
	}
	return v
}

// Total computes the order's grand total across line items, skipping free
// items. An all-free order renders as the literal "FREE"; anything else is a
// two-decimal string.
func Total(items []LineItem) string {
	var sum float64
	for _, li := range items {
		v := ParseAmount(li.Amount)
		if v == 0 {
			continue
		}
		sum += v * float64(li.Quantity)
	}
	if sum == 0 {
		return "FREE"
	}
	return fmt.Sprintf("%.2f", sum)
}
