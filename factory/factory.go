package factory

import (
	"github.com/adl-parti/membership-backend/internal/config"
	"github.com/adl-parti/membership-backend/internal/middleware"
	"github.com/adl-parti/membership-backend/internal/repository"
	"github.com/adl-parti/membership-backend/internal/services/documents"
	"github.com/adl-parti/membership-backend/internal/services/members"
	"github.com/adl-parti/membership-backend/internal/services/settings"
	"github.com/adl-parti/membership-backend/internal/services/subscriptions"

	"github.com/adl-parti/membership-backend/pkg/cache"
	"github.com/adl-parti/membership-backend/pkg/database"
	emailpkg "github.com/adl-parti/membership-backend/pkg/email"
	"github.com/adl-parti/membership-backend/pkg/logger"
	"github.com/adl-parti/membership-backend/pkg/storage"
	"github.com/go-chi/chi/v5"
)

type Repositories struct {
	Member       *repository.MemberRepository
	Sequence     *repository.SequenceRepository
	Subscription *repository.SubscriptionRepository
	Document     *repository.DocumentRepository
	Settings     *repository.SettingsRepository
}

type Services struct {
	Member       *members.Member
	Subscription *subscriptions.Subscription
	Document     *documents.Document
	Settings     *settings.Settings
}

type Factory struct {
	DB           *database.PostgresDB
	Cache        *cache.Redis
	Storage      *storage.Storage
	Email        *emailpkg.Email
	Logger       *logger.Logger
	Router       *chi.Mux
	Services     *Services
	Repositories *Repositories
	Middleware   *middleware.Middleware
}

func New(cfg *config.Config) (*Factory, func(), error) {
	log := logger.New(cfg)

	db, dbCleanup, err := database.New(cfg.Database.URL)
	if err != nil {
		return nil, nil, err
	}

	redis, redisCleanup := cache.New(cfg, log)

	store, err := storage.New(cfg)
	if err != nil {
		dbCleanup()
		redisCleanup()
		return nil, nil, err
	}

	email, err := emailpkg.New(cfg)
	if err != nil {
		dbCleanup()
		redisCleanup()
		return nil, nil, err
	}

	memberRepo := repository.NewMemberRepository(db.DB)
	sequenceRepo := repository.NewSequenceRepository(db.DB)
	subscriptionRepo := repository.NewSubscriptionRepository(db.DB)
	documentRepo := repository.NewDocumentRepository(db.DB)
	settingsRepo := repository.NewSettingsRepository(db.DB)

	membersService := members.New(
		db.DB,
		cfg,
		memberRepo,
		sequenceRepo,
		redis,
		email,
		store,
		log,
	)

	subscriptionsService := subscriptions.New(
		db.DB,
		subscriptionRepo,
		memberRepo,
	)

	documentsService := documents.New(
		db.DB,
		documentRepo,
		memberRepo,
		store,
		log,
	)

	settingsService := settings.New(
		settingsRepo,
		store,
		log,
	)

	middleware := middleware.New(log)

	return &Factory{
			DB:      db,
			Cache:   redis,
			Storage: store,
			Email:   email,
			Logger:  log,
			Router:  chi.NewRouter(),
			Services: &Services{
				Member:       membersService,
				Subscription: subscriptionsService,
				Document:     documentsService,
				Settings:     settingsService,
			},
			Repositories: &Repositories{
				Member:       memberRepo,
				Sequence:     sequenceRepo,
				Subscription: subscriptionRepo,
				Document:     documentRepo,
				Settings:     settingsRepo,
			},
			Middleware: middleware,
		}, func() {
			dbCleanup()
			redisCleanup()
		}, nil
}
