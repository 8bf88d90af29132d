package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/raexevents/ticketmailer/internal/config"
	"github.com/raexevents/ticketmailer/internal/email"
	"github.com/raexevents/ticketmailer/internal/ticket"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// stubDispatcher implements mailDispatcher for handler tests.
type stubDispatcher struct {
	lastReq email.Request
	result  email.SendResult
	err     error
}

func (s *stubDispatcher) Send(_ context.Context, req email.Request) (email.SendResult, error) {
	s.lastReq = req
	return s.result, s.err
}

// stubPDF implements documentBuilder for handler tests.
type stubPDF struct {
	lastData ticket.EmailData
	pdf      []byte
	err      error
}

func (s *stubPDF) Build(_ context.Context, data ticket.EmailData) (ticket.BuildResult, error) {
	s.lastData = data
	if s.err != nil {
		return ticket.BuildResult{}, s.err
	}
	return ticket.BuildResult{PDF: s.pdf}, nil
}

func newTestRouter(cfg config.Config, d *stubDispatcher, b *stubPDF) *gin.Engine {
	r := gin.New()
	RegisterRoutes(r, cfg, d, b, nil)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func samplePayload() map[string]any {
	return map[string]any{
		"eventTitle": "Test Gala",
		"eventDate":  "2025-01-01",
		"tickets": []map[string]any{
			{"ticketType": "VIP", "quantity": 2, "amount": "$50", "codes": []string{"A1", "A2"}},
		},
	}
}

func TestHealth(t *testing.T) {
	r := newTestRouter(config.Config{}, &stubDispatcher{}, &stubPDF{})
	w := doJSON(t, r, http.MethodGet, "/", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"status":"ok"`) {
		t.Errorf("unexpected body %s", w.Body.String())
	}
}

func TestGeneratePDF(t *testing.T) {
	b := &stubPDF{pdf: []byte("%PDF-1.7 stub")}
	r := newTestRouter(config.Config{}, &stubDispatcher{}, b)

	w := doJSON(t, r, http.MethodPost, "/api/tickets/generate-pdf", samplePayload(), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("content type = %q", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.HasPrefix(cd, "attachment;") {
		t.Errorf("content disposition = %q", cd)
	}
	if w.Body.Len() == 0 {
		t.Error("expected a non-empty binary body")
	}

	// Optional fields must be defaulted before the builder runs.
	if b.lastData.Name != "Guest" || b.lastData.EventTime != "To be announced" {
		t.Errorf("defaults not applied: %+v", b.lastData)
	}
}

func TestGeneratePDF_MissingFields(t *testing.T) {
	r := newTestRouter(config.Config{}, &stubDispatcher{}, &stubPDF{})

	for _, body := range []map[string]any{
		{"tickets": []map[string]any{{"ticketType": "VIP"}}},
		{"eventTitle": "Test Gala"},
	} {
		w := doJSON(t, r, http.MethodPost, "/api/tickets/generate-pdf", body, nil)
		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d for %v, want 400", w.Code, body)
		}
		if !strings.Contains(w.Body.String(), "error") {
			t.Errorf("expected a JSON error body, got %s", w.Body.String())
		}
	}
}

func TestGeneratePDF_BuilderFailure(t *testing.T) {
	r := newTestRouter(config.Config{}, &stubDispatcher{}, &stubPDF{err: errors.New("font exploded")})

	w := doJSON(t, r, http.MethodPost, "/api/tickets/generate-pdf", samplePayload(), nil)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", w.Code)
	}
	if strings.Contains(w.Body.String(), "font exploded") {
		t.Error("internal failure details must not leak to the client")
	}
}

func TestSendWithPDF(t *testing.T) {
	d := &stubDispatcher{}
	b := &stubPDF{pdf: []byte("%PDF-1.7 stub")}
	r := newTestRouter(config.Config{}, d, b)

	body := samplePayload()
	body["to"] = "buyer@example.com"
	body["name"] = "Jane"
	body["orderId"] = "ord7"

	w := doJSON(t, r, http.MethodPost, "/api/tickets/send-with-pdf", body, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	var resp struct {
		Success bool   `json:"success"`
		PDFSize int    `json:"pdfSize"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Success || resp.PDFSize != len(b.pdf) {
		t.Errorf("unexpected response %+v", resp)
	}

	if d.lastReq.Type != email.TypeTicket || d.lastReq.To != "buyer@example.com" {
		t.Errorf("dispatcher got %+v", d.lastReq)
	}
	if len(d.lastReq.Attachments) != 1 || d.lastReq.Attachments[0].Filename != "tickets-ord7.pdf" {
		t.Errorf("expected the pre-built PDF to be attached, got %+v", d.lastReq.Attachments)
	}
}

func TestSendWithPDF_MissingTo(t *testing.T) {
	r := newTestRouter(config.Config{}, &stubDispatcher{}, &stubPDF{})
	w := doJSON(t, r, http.MethodPost, "/api/tickets/send-with-pdf", samplePayload(), nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestValidateTicket(t *testing.T) {
	r := newTestRouter(config.Config{}, &stubDispatcher{}, &stubPDF{})

	w := doJSON(t, r, http.MethodPost, "/api/tickets/validate", map[string]string{"qrData": "evt123|VIP"}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	var resp struct {
		Valid      bool   `json:"valid"`
		EventID    string `json:"eventId"`
		TicketType string `json:"ticketType"`
		ScannedAt  string `json:"scannedAt"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	// "evt123|VIP" matches neither known code prefix.
	if resp.Valid {
		t.Error("expected valid=false for unrecognised code format")
	}
	if resp.EventID != "evt123" || resp.TicketType != "VIP" {
		t.Errorf("wrong identifiers: %+v", resp)
	}
	if _, err := time.Parse(time.RFC3339, resp.ScannedAt); err != nil {
		t.Errorf("scannedAt is not RFC3339: %q", resp.ScannedAt)
	}

	w = doJSON(t, r, http.MethodPost, "/api/tickets/validate", map[string]string{"qrData": "evt123|RAEXp-001"}, nil)
	var resp2 struct {
		Valid bool `json:"valid"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp2)
	if !resp2.Valid {
		t.Error("expected valid=true for a RAEXp-prefixed code")
	}

	w = doJSON(t, r, http.MethodPost, "/api/tickets/validate", map[string]string{}, nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("missing qrData should be 400, got %d", w.Code)
	}
}

func TestSendEmail(t *testing.T) {
	d := &stubDispatcher{result: email.SendResult{MessageID: "m1"}}
	r := newTestRouter(config.Config{}, d, &stubPDF{})

	w := doJSON(t, r, http.MethodPost, "/send-email", map[string]any{
		"to":   "x@example.com",
		"type": "otp",
		"data": map[string]any{"otp": "123456"},
	}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "Email sent successfully") {
		t.Errorf("unexpected body %s", w.Body.String())
	}
	if d.lastReq.Type != email.TypeOTP {
		t.Errorf("dispatcher got type %q", d.lastReq.Type)
	}
}

func TestSendEmail_Errors(t *testing.T) {
	d := &stubDispatcher{}
	r := newTestRouter(config.Config{}, d, &stubPDF{})

	w := doJSON(t, r, http.MethodPost, "/send-email", map[string]any{"type": "otp"}, nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("missing to should be 400, got %d", w.Code)
	}

	d.err = errors.New("smtp send via localhost: connection refused")
	w = doJSON(t, r, http.MethodPost, "/send-email", map[string]any{
		"to": "x@example.com", "type": "otp", "data": map[string]any{"otp": "1"},
	}, nil)
	if w.Code != http.StatusInternalServerError {
		t.Errorf("dispatch failure should be 500, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"success":false`) {
		t.Errorf("expected success:false, got %s", w.Body.String())
	}
}

func TestAPIKeyMiddleware(t *testing.T) {
	cfg := config.Config{APIKey: "sekrit"}
	r := newTestRouter(cfg, &stubDispatcher{}, &stubPDF{pdf: []byte("%PDF")})

	// Health stays open.
	if w := doJSON(t, r, http.MethodGet, "/", nil, nil); w.Code != http.StatusOK {
		t.Errorf("health should not require a key, got %d", w.Code)
	}

	w := doJSON(t, r, http.MethodPost, "/api/tickets/generate-pdf", samplePayload(), nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("missing key should be 401, got %d", w.Code)
	}

	w = doJSON(t, r, http.MethodPost, "/api/tickets/generate-pdf", samplePayload(),
		map[string]string{"X-API-Key": "sekrit"})
	if w.Code != http.StatusOK {
		t.Errorf("valid key should pass, got %d", w.Code)
	}
}
