package main

import (
	"log"
	"net/http"

	"github.com/joho/godotenv"

	"vetclinic/m/internal/api"
	"vetclinic/m/internal/config"
	"vetclinic/m/internal/database"
	"vetclinic/m/internal/migrations"
	"vetclinic/m/internal/seed"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	db := database.Connect(cfg.DatabaseDSN)
	defer db.Close()

	if err := migrations.Run(db); err != nil {
		log.Fatalf("migration failed: %v", err)
	}
	if err := seed.DefaultAccounts(db); err != nil {
		log.Fatalf("account seeding failed: %v", err)
	}
	if err := seed.Catalog(db); err != nil {
		log.Fatalf("catalog seeding failed: %v", err)
	}

	handler := api.New(db, cfg.Secret)

	log.Printf("vet clinic server starting on :%s", cfg.HTTPPort)
	if err := http.ListenAndServe(":"+cfg.HTTPPort, handler.Router()); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
