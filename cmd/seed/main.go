package main

import (
	"log"

	"github.com/adl-parti/membership-backend/cmd/seed/seed"
	"github.com/adl-parti/membership-backend/internal/config"
)

func main() {

	cfg := config.New()
	if !cfg.IsDev {
		log.Fatal("Seeding is only allowed in development environment")
	}

	seeder, cleanup, err := seed.NewSeeder(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize seeder: %v", err)
	}

	defer cleanup()
	seeder.EnsureSchema()
	seeder.ResetDB()
	seeder.CreateMembers()
}
