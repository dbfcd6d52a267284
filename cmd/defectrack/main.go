package main

import (
	"log"

	"github.com/defectrack/defectrack/db"
	"github.com/defectrack/defectrack/internal/auth"
	"github.com/defectrack/defectrack/internal/config"
	"github.com/defectrack/defectrack/internal/router"
)

func main() {
	cfg, err := config.Load()

	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}

	if err = auth.SetJWTSecret(cfg.JWTSecret); err != nil {
		log.Fatalf("Error initializing JWT secret: %v", err)
	}

	if err = db.ConnectDatabase(cfg.DBDriver, cfg.DatabaseURL); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err = db.MigrateDatabase(); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	log.Printf("Connected to %s database", cfg.DBDriver)

	r := router.NewRouter(cfg.AllowedOrigins)

	if err = r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
