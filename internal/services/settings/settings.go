package settings

import (
	"context"
	"database/sql"
	"errors"
	"net/http"

	"github.com/adl-parti/membership-backend/internal/dto"
	"github.com/adl-parti/membership-backend/internal/repository"
	svc "github.com/adl-parti/membership-backend/internal/services"
	"github.com/adl-parti/membership-backend/pkg/logger"
	"github.com/adl-parti/membership-backend/pkg/storage"
)

var (
	_ SettingsRepository = (*repository.SettingsRepository)(nil)
	_ StoragePkg         = (*storage.Storage)(nil)
)

type SettingsRepository interface {
	Get(ctx context.Context) (*repository.AdminSettings, error)
	Create(ctx context.Context, settings repository.AdminSettings) (*repository.AdminSettings, error)
	Update(ctx context.Context, settings repository.AdminSettings) (*repository.AdminSettings, error)
}

type StoragePkg interface {
	GetURL(ctx context.Context, storageID string) (string, error)
}

type Settings struct {
	SettingsRepo SettingsRepository
	Storage      StoragePkg
	Logger       *logger.Logger
}

func New(settingsRepo SettingsRepository, storagePkg StoragePkg, logger *logger.Logger) *Settings {
	return &Settings{
		SettingsRepo: settingsRepo,
		Storage:      storagePkg,
		Logger:       logger,
	}
}

func (s *Settings) Get(ctx context.Context) (*dto.AdminSettings, error) {
	settings, err := s.SettingsRepo.Get(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &svc.APIError{
				Status:  http.StatusNotFound,
				Message: "admin settings not found",
			}
		}
		return nil, err
	}

	return s.mapRepositoryToDTO(ctx, settings), nil
}

// Upsert creates the singleton settings row on first write and updates
// it afterwards.
func (s *Settings) Upsert(ctx context.Context, input dto.AdminSettingsInput) (*dto.AdminSettings, error) {
	row := repository.AdminSettings{
		SpeechAr:         toNullString(input.SpeechAr),
		SpeechFr:         toNullString(input.SpeechFr),
		PresidentPhotoID: toNullString(input.PresidentPhotoID),
		LogoID:           toNullString(input.LogoID),
	}

	_, err := s.SettingsRepo.Get(ctx)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}

		created, err := s.SettingsRepo.Create(ctx, row)
		if err != nil {
			if repository.IsUniqueViolation(err) {
				return nil, &svc.APIError{
					Status:  http.StatusConflict,
					Message: "admin settings already exist",
				}
			}
			return nil, err
		}
		return s.mapRepositoryToDTO(ctx, created), nil
	}

	updated, err := s.SettingsRepo.Update(ctx, row)
	if err != nil {
		return nil, err
	}
	return s.mapRepositoryToDTO(ctx, updated), nil
}

func (s *Settings) mapRepositoryToDTO(ctx context.Context, settings *repository.AdminSettings) *dto.AdminSettings {
	out := &dto.AdminSettings{
		SpeechAr: settings.SpeechAr.String,
		SpeechFr: settings.SpeechFr.String,
	}
	if settings.UpdatedAt.Valid {
		out.UpdatedAt = &settings.UpdatedAt.Time
	}
	if settings.PresidentPhotoID.Valid {
		out.PresidentPhotoURL = s.resolveURL(ctx, settings.PresidentPhotoID.String)
	}
	if settings.LogoID.Valid {
		out.LogoURL = s.resolveURL(ctx, settings.LogoID.String)
	}
	return out
}

func (s *Settings) resolveURL(ctx context.Context, storageID string) string {
	url, err := s.Storage.GetURL(ctx, storageID)
	if err != nil {
		s.Logger.Warn().Err(err).Str("storage_id", storageID).Msg("failed to resolve settings asset url")
		return ""
	}
	return url
}

func toNullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
