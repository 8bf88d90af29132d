package ticket

import (
	"strings"
	"testing"
)

func TestLineItemNormalize_PadsToQuantity(t *testing.T) {
	li := LineItem{TicketType: "VIP", Quantity: 4, Amount: "$50", Codes: []string{"A1", "A2"}}
	got := li.Normalize()

	if len(got.Codes) != 4 {
		t.Fatalf("expected 4 codes, got %d", len(got.Codes))
	}
	if got.Codes[0] != "A1" || got.Codes[1] != "A2" {
		t.Errorf("provided codes must be preserved in order, got %v", got.Codes)
	}
	seen := map[string]bool{}
	for _, c := range got.Codes {
		if seen[c] {
			t.Errorf("duplicate code %q", c)
		}
		seen[c] = true
	}
	for _, c := range got.Codes[2:] {
		if !strings.HasPrefix(c, "TKT-") {
			t.Errorf("synthetic code %q should carry the TKT- prefix", c)
		}
	}
}

func TestLineItemNormalize_NoopWhenComplete(t *testing.T) {
	li := LineItem{TicketType: "VIP", Quantity: 2, Codes: []string{"A1", "A2"}}
	got := li.Normalize()
	if len(got.Codes) != 2 || got.Codes[0] != "A1" || got.Codes[1] != "A2" {
		t.Errorf("complete code list must be untouched, got %v", got.Codes)
	}
}

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"$50", 50},
		{"$1,250.50", 1250.50},
		{"NGN 300", 300},
		{"FREE", 0},
		{"free", 0},
		{"", 0},
		{"garbage", 0},
		{"-5", -5},
	}
	for _, tc := range cases {
		if got := ParseAmount(tc.in); got != tc.want {
			t.Errorf("ParseAmount(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestTotal(t *testing.T) {
	cases := []struct {
		name  string
		items []LineItem
		want  string
	}{
		{
			"all free",
			[]LineItem{{Amount: "FREE", Quantity: 3}, {Amount: "$0", Quantity: 2}},
			"FREE",
		},
		{
			"mixed",
			[]LineItem{{Amount: "$50", Quantity: 2}, {Amount: "FREE", Quantity: 1}},
			"100.00",
		},
		{
			"decimals",
			[]LineItem{{Amount: "$12.50", Quantity: 3}},
			"37.50",
		},
		{
			"empty",
			nil,
			"FREE",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Total(tc.items); got != tc.want {
				t.Errorf("Total = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestEmailDataValidate(t *testing.T) {
	valid := EmailData{
		Name:       "John",
		EventTitle: "Gala",
		EventDate:  "2026-01-01",
		EventTime:  "7 PM",
		EventVenue: "Hall",
		Tickets:    []LineItem{{TicketType: "VIP", Quantity: 1, Codes: []string{"A1"}}},
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid data rejected: %v", err)
	}

	missing := valid
	missing.EventVenue = ""
	err := missing.Validate()
	if err == nil {
		t.Fatal("expected error for missing venue")
	}
	if !strings.Contains(err.Error(), "eventVenue") {
		t.Errorf("error should name the missing field, got %q", err)
	}

	empty := valid
	empty.Tickets = nil
	if err := empty.Validate(); err != ErrNoTickets {
		t.Errorf("expected ErrNoTickets, got %v", err)
	}
}
