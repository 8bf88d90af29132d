package main

import (
	"context"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/raexevents/ticketmailer/internal/api"
	"github.com/raexevents/ticketmailer/internal/config"
	"github.com/raexevents/ticketmailer/internal/email"
	"github.com/raexevents/ticketmailer/internal/store"
	"github.com/raexevents/ticketmailer/internal/ticket"
)

func main() {
	if os.Getenv("IS_PROD") != "true" {
		if err := godotenv.Load(); err != nil {
			log.Println("no .env file found, using process environment")
		}
	}

	cfg := config.Load()

	fontData, err := os.ReadFile(cfg.FontPath)
	if err != nil {
		log.Fatalf("failed to read ticket font %s: %v", cfg.FontPath, err)
	}

	builder, err := ticket.NewBuilder(ticket.BuilderConfig{
		Brand:        "RAEX Events",
		WatermarkURL: cfg.WatermarkURL,
		FontData:     fontData,
	})
	if err != nil {
		log.Fatalf("failed to initialize ticket builder: %v", err)
	}

	var st *store.Store
	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("failed to connect to database: %v", err)
		}
		defer pool.Close()
		st = store.New(pool)
	}

	dispatcher := email.NewDispatcher(cfg, builder, nil)

	router := gin.Default()
	api.RegisterRoutes(router, cfg, dispatcher, builder, st)

	log.Printf("ticketmailer listening on :%s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
