package repository

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
)

// SubscriptionRepository writes the append-only dues ledger. There is
// deliberately no update or delete path: a ledger row, once written,
// is immutable.
type SubscriptionRepository struct {
	db   *sqlx.DB
	psql sq.StatementBuilderType
}

func NewSubscriptionRepository(db *sqlx.DB) *SubscriptionRepository {
	return &SubscriptionRepository{
		db:   db,
		psql: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (sr *SubscriptionRepository) Create(ctx context.Context, entry SubscriptionHistory, tx *sqlx.Tx) (*SubscriptionHistory, error) {
	builder := sr.psql.Insert("subscription_history").
		Columns("membership_number", "subscription_type", "amount", "year", "paid_at").
		Values(entry.MembershipNumber, entry.SubscriptionType, entry.Amount, entry.Year, sq.Expr("NOW()")).
		Suffix("RETURNING *")

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	var created SubscriptionHistory
	if tx != nil {
		err = tx.GetContext(ctx, &created, query, args...)
		return &created, err
	}

	err = sr.db.GetContext(ctx, &created, query, args...)
	return &created, err
}

// List returns the member's ledger, most recent first.
func (sr *SubscriptionRepository) List(ctx context.Context, membershipNumber string) ([]*SubscriptionHistory, error) {
	builder := sr.psql.Select("*").From("subscription_history").
		Where(sq.Eq{"membership_number": membershipNumber}).
		OrderBy("paid_at DESC")

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	var entries []*SubscriptionHistory
	if err := sr.db.SelectContext(ctx, &entries, query, args...); err != nil {
		return nil, err
	}
	return entries, nil
}
