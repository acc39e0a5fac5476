package seed

import (
	"context"
	_ "embed"
	"fmt"
	"log"
	"time"

	"github.com/adl-parti/membership-backend/factory"
	"github.com/adl-parti/membership-backend/internal/config"
	"github.com/adl-parti/membership-backend/internal/services/members"
	"github.com/adl-parti/membership-backend/internal/services/subscriptions"
	"github.com/adl-parti/membership-backend/pkg/database"
)

//go:embed schema.sql
var schemaSQL string

type Seed struct {
	Config        *config.Config
	DB            *database.PostgresDB
	Members       *members.Member
	Subscriptions *subscriptions.Subscription
}

func NewSeeder(cfg *config.Config) (*Seed, func(), error) {

	if !cfg.IsDev {
		return nil, nil, fmt.Errorf("seeding is only allowed in development environment")
	}

	factory, cleanup, err := factory.New(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize factory: %w", err)
	}

	return &Seed{
		Config:        cfg,
		DB:            factory.DB,
		Members:       factory.Services.Member,
		Subscriptions: factory.Services.Subscription,
	}, cleanup, nil
}

func (s *Seed) EnsureSchema() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	fmt.Println("Ensuring schema...")
	if _, err := s.DB.DB.ExecContext(ctx, schemaSQL); err != nil {
		log.Fatalf("Failed to ensure schema: %v", err)
	}
}

func (s *Seed) ResetDB() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	fmt.Println("Resetting database...")
	_, err := s.DB.DB.ExecContext(ctx, `
		TRUNCATE TABLE
			member_documents,
			subscription_history,
			membership_sequences,
			members,
			admin_settings
		CASCADE
	`)
	if err != nil {
		log.Fatalf("Failed to reset database: %v", err)
	}
}
