package repository

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
)

// settingsRowID pins the admin settings table to a single row.
const settingsRowID = "default"

type SettingsRepository struct {
	db   *sqlx.DB
	psql sq.StatementBuilderType
}

func NewSettingsRepository(db *sqlx.DB) *SettingsRepository {
	return &SettingsRepository{
		db:   db,
		psql: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (sr *SettingsRepository) Get(ctx context.Context) (*AdminSettings, error) {
	builder := sr.psql.Select("*").From("admin_settings").
		Where(sq.Eq{"id": settingsRowID})

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	var settings AdminSettings
	if err := sr.db.GetContext(ctx, &settings, query, args...); err != nil {
		return nil, err
	}
	return &settings, nil
}

// Create inserts the singleton row. A second create hits the primary
// key and comes back as a unique violation.
func (sr *SettingsRepository) Create(ctx context.Context, settings AdminSettings) (*AdminSettings, error) {
	builder := sr.psql.Insert("admin_settings").
		Columns("id", "speech_ar", "speech_fr", "president_photo_id", "logo_id", "updated_at").
		Values(settingsRowID, settings.SpeechAr, settings.SpeechFr, settings.PresidentPhotoID, settings.LogoID, sq.Expr("NOW()")).
		Suffix("RETURNING *")

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	var created AdminSettings
	err = sr.db.GetContext(ctx, &created, query, args...)
	return &created, err
}

func (sr *SettingsRepository) Update(ctx context.Context, settings AdminSettings) (*AdminSettings, error) {
	builder := sr.psql.Update("admin_settings").
		Set("speech_ar", settings.SpeechAr).
		Set("speech_fr", settings.SpeechFr).
		Set("president_photo_id", settings.PresidentPhotoID).
		Set("logo_id", settings.LogoID).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": settingsRowID}).
		Suffix("RETURNING *")

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	var updated AdminSettings
	err = sr.db.GetContext(ctx, &updated, query, args...)
	return &updated, err
}
