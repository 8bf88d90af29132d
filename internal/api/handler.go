package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/raexevents/ticketmailer/internal/email"
	"github.com/raexevents/ticketmailer/internal/ticket"
)

// mailDispatcher and documentBuilder are the two delegates every handler
// works through; tests substitute stubs.
type mailDispatcher interface {
	Send(ctx context.Context, req email.Request) (email.SendResult, error)
}

type documentBuilder interface {
	Build(ctx context.Context, data ticket.EmailData) (ticket.BuildResult, error)
}

// codeStore is the optional authoritative lookup behind ticket validation.
type codeStore interface {
	CodeExists(ctx context.Context, eventID, code string) (bool, error)
}

type Handler struct {
	dispatcher mailDispatcher
	builder    documentBuilder
	store      codeStore
}

// Health reports process liveness.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "ticketmailer"})
}

// applyTicketDefaults fills the optional fields the PDF builder treats as
// required, and repairs sparse line items (missing type, quantity, amount, or
// codes) the way the checkout flow tolerates them.
func applyTicketDefaults(data *ticket.EmailData) {
	if data.Name == "" {
		data.Name = "Guest"
	}
	if data.EventTime == "" {
		data.EventTime = "To be announced"
	}
	if data.EventVenue == "" {
		data.EventVenue = "To be announced"
	}
	for i := range data.Tickets {
		li := &data.Tickets[i]
		if li.TicketType == "" {
			li.TicketType = "General Admission"
		}
		if li.Quantity <= 0 {
			li.Quantity = 1
		}
		if li.Amount == "" {
			li.Amount = "FREE"
		}
		*li = li.Normalize()
	}
}

// GeneratePDF builds a ticket document from the posted data and returns it as
// a binary download.
func (h *Handler) GeneratePDF(c *gin.Context) {
	var data ticket.EmailData
	if err := c.ShouldBindJSON(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return
	}
	if data.EventTitle == "" || len(data.Tickets) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "eventTitle and tickets are required"})
		return
	}
	applyTicketDefaults(&data)
	if err := data.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := h.builder.Build(c.Request.Context(), data)
	if err != nil {
		log.Printf("api: pdf generation failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate PDF"})
		return
	}

	filename := fmt.Sprintf("raex-tickets-%s.pdf", uuid.NewString()[:8])
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", res.PDF)
}

type sendWithPDFRequest struct {
	To string `json:"to"`
	ticket.EmailData
}

// SendWithPDF builds the ticket document and emails it in one call.
func (h *Handler) SendWithPDF(c *gin.Context) {
	var body sendWithPDFRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return
	}
	if body.To == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "to is required"})
		return
	}
	if body.EventTitle == "" || len(body.Tickets) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "eventTitle and tickets are required"})
		return
	}
	applyTicketDefaults(&body.EmailData)
	if err := body.EmailData.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	built, err := h.builder.Build(ctx, body.EmailData)
	if err != nil {
		log.Printf("api: pdf generation failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate PDF"})
		return
	}

	data, err := json.Marshal(body.EmailData)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to encode ticket data"})
		return
	}

	attName := "tickets-" + body.OrderID + ".pdf"
	if body.OrderID == "" {
		attName = fmt.Sprintf("tickets-%d.pdf", time.Now().Unix())
	}
	_, err = h.dispatcher.Send(ctx, email.Request{
		To:   body.To,
		Type: email.TypeTicket,
		Data: data,
		Attachments: []email.Attachment{
			{Filename: attName, Content: built.PDF},
		},
	})
	if err != nil {
		log.Printf("api: ticket email failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to send ticket email"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Ticket email sent",
		"pdfSize": len(built.PDF),
	})
}

// ValidateTicket checks a scanned QR payload of the form "eventId|ticketType".
// With a database configured the code is checked against real records;
// otherwise this falls back to the legacy prefix heuristic, which recognises
// only the two known code formats and consults no authoritative record.
func (h *Handler) ValidateTicket(c *gin.Context) {
	var body struct {
		QRData string `json:"qrData"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.QRData == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "qrData is required"})
		return
	}

	parts := strings.SplitN(body.QRData, "|", 2)
	eventID := parts[0]
	ticketType := ""
	if len(parts) == 2 {
		ticketType = parts[1]
	}

	valid := strings.Contains(body.QRData, "RAEXp") || strings.Contains(body.QRData, "TKT")
	if h.store != nil && ticketType != "" {
		found, err := h.store.CodeExists(c.Request.Context(), eventID, ticketType)
		if err != nil {
			log.Printf("api: code lookup failed, using heuristic: %v", err)
		} else {
			valid = found
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"valid":      valid,
		"eventId":    eventID,
		"ticketType": ticketType,
		"scannedAt":  time.Now().UTC().Format(time.RFC3339),
	})
}

// SendEmail forwards a generic notification request to the dispatcher.
func (h *Handler) SendEmail(c *gin.Context) {
	var req email.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid JSON body"})
		return
	}
	if req.To == "" || req.Type == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "to and type are required"})
		return
	}

	if _, err := h.dispatcher.Send(c.Request.Context(), req); err != nil {
		log.Printf("api: send email failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Email sent successfully"})
}
