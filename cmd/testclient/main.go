// Command testclient exercises a running ticketmailer instance with sample
// payloads. It is a manual smoke tool, not part of the service.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
)

func main() {
	base := flag.String("base", "http://localhost:4001", "ticketmailer base URL")
	to := flag.String("to", "", "recipient for the email checks (skipped when empty)")
	apiKey := flag.String("api-key", "", "X-API-Key header value, if the server requires one")
	flag.Parse()

	post := func(path string, payload any) (*http.Response, []byte) {
		b, _ := json.Marshal(payload)
		req, err := http.NewRequest(http.MethodPost, *base+path, bytes.NewReader(b))
		if err != nil {
			log.Fatalf("%s: %v", path, err)
		}
		req.Header.Set("Content-Type", "application/json")
		if *apiKey != "" {
			req.Header.Set("X-API-Key", *apiKey)
		}
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			log.Fatalf("%s: %v", path, err)
		}
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)
		return resp, body
	}

	resp, err := http.Get(*base + "/")
	if err != nil {
		log.Fatalf("health: %v", err)
	}
	resp.Body.Close()
	fmt.Printf("health: %s\n", resp.Status)

	sample := map[string]any{
		"name":       "Ada Lovelace",
		"eventTitle": "Analytical Engine Expo",
		"eventDate":  "2026-03-14",
		"eventTime":  "7:00 PM",
		"eventVenue": "Babbage Hall, London",
		"tickets": []map[string]any{
			{"ticketType": "VIP", "quantity": 2, "amount": "$50", "codes": []string{"RAEXp-001", "RAEXp-002"}},
			{"ticketType": "Regular", "quantity": 1, "amount": "FREE", "codes": []string{"TKT-003"}},
		},
	}

	resp2, body := post("/api/tickets/generate-pdf", sample)
	fmt.Printf("generate-pdf: %s, %d bytes, content-type %s\n",
		resp2.Status, len(body), resp2.Header.Get("Content-Type"))
	if resp2.StatusCode == http.StatusOK {
		if err := os.WriteFile("sample-tickets.pdf", body, 0o644); err != nil {
			log.Printf("write sample-tickets.pdf: %v", err)
		} else {
			fmt.Println("wrote sample-tickets.pdf")
		}
	}

	resp3, body := post("/api/tickets/validate", map[string]string{"qrData": "evt123|RAEXp-001"})
	fmt.Printf("validate: %s %s\n", resp3.Status, body)

	if *to != "" {
		sample["to"] = *to
		resp4, body := post("/api/tickets/send-with-pdf", sample)
		fmt.Printf("send-with-pdf: %s %s\n", resp4.Status, body)

		resp5, body := post("/send-email", map[string]any{
			"to":   *to,
			"type": "otp",
			"data": map[string]any{"otp": "123456"},
		})
		fmt.Printf("send-email: %s %s\n", resp5.Status, body)
	}
}
