package repository

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
)

// SequenceRepository owns the per-(division code, year) counters behind
// membership numbers. Next is the only way a sequence value is ever
// handed out, so two concurrent registrations for the same bucket can
// never observe the same value.
type SequenceRepository struct {
	db   *sqlx.DB
	psql sq.StatementBuilderType
}

func NewSequenceRepository(db *sqlx.DB) *SequenceRepository {
	return &SequenceRepository{
		db:   db,
		psql: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// Next atomically increments and returns the counter for the bucket.
// A missing counter row is seeded from the highest trailing sequence
// among already-stored membership numbers with the same prefix, so
// buckets that predate the counter table continue at max+1 rather
// than restarting at 1.
func (sr *SequenceRepository) Next(ctx context.Context, divisionCode string, year int, tx *sqlx.Tx) (int64, error) {
	seed := sq.Expr(
		"COALESCE((SELECT MAX(CAST(RIGHT(m.membership_number, 6) AS INTEGER)) FROM members m WHERE m.membership_number LIKE ?), 0) + 1",
		prefix(divisionCode, year)+"%",
	)

	builder := sr.psql.Insert("membership_sequences").
		Columns("division_code", "year", "last_value").
		Values(divisionCode, year, seed).
		Suffix("ON CONFLICT (division_code, year) DO UPDATE SET last_value = membership_sequences.last_value + 1 RETURNING last_value")

	query, args, err := builder.ToSql()
	if err != nil {
		return 0, err
	}

	var lastValue int64
	if tx != nil {
		err = tx.GetContext(ctx, &lastValue, query, args...)
	} else {
		err = sr.db.GetContext(ctx, &lastValue, query, args...)
	}
	if err != nil {
		return 0, err
	}

	return lastValue, nil
}

func prefix(divisionCode string, year int) string {
	return fmt.Sprintf("%s%04d", divisionCode, year)
}
