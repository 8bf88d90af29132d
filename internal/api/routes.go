package api

import (
	"github.com/gin-gonic/gin"

	"github.com/raexevents/ticketmailer/internal/config"
	"github.com/raexevents/ticketmailer/internal/store"
)

// RegisterRoutes wires the handlers onto r. st may be nil when no database is
// configured; ticket validation then uses the legacy heuristic only.
func RegisterRoutes(r *gin.Engine, cfg config.Config, dispatcher mailDispatcher, builder documentBuilder, st *store.Store) *Handler {
	h := &Handler{dispatcher: dispatcher, builder: builder}
	if st != nil {
		h.store = st
	}

	r.GET("/", h.Health)

	grp := r.Group("/")
	if cfg.APIKey != "" {
		grp.Use(APIKeyAuth(cfg.APIKey))
	}
	{
		grp.POST("/api/tickets/generate-pdf", h.GeneratePDF)
		grp.POST("/api/tickets/send-with-pdf", h.SendWithPDF)
		grp.POST("/api/tickets/validate", h.ValidateTicket)
		grp.POST("/send-email", h.SendEmail)
	}

	return h
}
