package repository

import (
	"context"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/samber/lo"
)

type MemberRepository struct {
	db   *sqlx.DB
	psql sq.StatementBuilderType
}

func NewMemberRepository(db *sqlx.DB) *MemberRepository {
	return &MemberRepository{
		db:   db,
		psql: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

type MemberRepositoryFilter struct {
	ID               *uuid.UUID
	MembershipNumber *string
	Email            *string
	Phone            *string
	Wilaya           *string
	Baladiya         *string
	Status           *string
	SubscriptionType *string
	SubscriptionYear *int
	FirstJoinYear    *int
}

// memberColumns is the projection handed to callers. The legacy
// password column is deliberately absent: it must never be read back
// out of the store except by the migration path.
var memberColumns = []string{
	"id",
	"membership_number",
	"first_name",
	"last_name",
	"email",
	"phone",
	"wilaya",
	"baladiya",
	"country",
	"first_join_year",
	"status",
	"subscription_type",
	"subscription_year",
	"profile_photo_id",
	"created_at",
	"updated_at",
	"deleted_at",
}

func (mq *MemberRepository) applyFilter(builder sq.SelectBuilder, filter MemberRepositoryFilter) sq.SelectBuilder {
	// Only get non-deleted members
	builder = builder.Where("deleted_at IS NULL")

	if filter.ID != nil {
		builder = builder.Where(sq.Eq{"id": *filter.ID})
	}
	if filter.MembershipNumber != nil {
		builder = builder.Where(sq.Eq{"membership_number": *filter.MembershipNumber})
	}
	if filter.Email != nil {
		builder = builder.Where(sq.Eq{"email": *filter.Email})
	}
	if filter.Phone != nil {
		builder = builder.Where(sq.Eq{"phone": *filter.Phone})
	}
	if filter.Wilaya != nil {
		builder = builder.Where(sq.Eq{"wilaya": *filter.Wilaya})
	}
	if filter.Baladiya != nil {
		builder = builder.Where(sq.Eq{"baladiya": *filter.Baladiya})
	}
	if filter.Status != nil {
		builder = builder.Where(sq.Eq{"status": *filter.Status})
	}
	if filter.SubscriptionType != nil {
		builder = builder.Where(sq.Eq{"subscription_type": *filter.SubscriptionType})
	}
	if filter.SubscriptionYear != nil {
		builder = builder.Where(sq.Eq{"subscription_year": *filter.SubscriptionYear})
	}
	if filter.FirstJoinYear != nil {
		builder = builder.Where(sq.Eq{"first_join_year": *filter.FirstJoinYear})
	}

	return builder
}

func (mq *MemberRepository) buildQuery(filter MemberRepositoryFilter, queryType QueryType) (string, []any, error) {
	var builder sq.SelectBuilder
	switch queryType {
	case QueryTypeSelect:
		builder = mq.psql.Select(memberColumns...).From("members")
	case QueryTypeCount:
		builder = mq.psql.Select("COUNT(*)").From("members")
	}

	builder = mq.applyFilter(builder, filter)

	return builder.ToSql()
}

func (mq *MemberRepository) Get(ctx context.Context, filter MemberRepositoryFilter) (*Member, error) {
	query, args, err := mq.buildQuery(filter, QueryTypeSelect)
	if err != nil {
		return nil, err
	}

	var member Member
	if err := mq.db.GetContext(ctx, &member, query, args...); err != nil {
		return nil, err
	}
	return &member, nil
}

func (mq *MemberRepository) Exists(ctx context.Context, filter MemberRepositoryFilter) (bool, error) {
	query, args, err := mq.buildQuery(filter, QueryTypeCount)
	if err != nil {
		return false, err
	}

	var count int
	if err := mq.db.GetContext(ctx, &count, query, args...); err != nil {
		return false, err
	}
	return count > 0, nil
}

func (mq *MemberRepository) List(ctx context.Context, filter MemberRepositoryFilter, opts QueryOptions) (*ListResult[Member], error) {
	opts = opts.withDefaults()

	builder := mq.psql.Select(memberColumns...).From("members")
	builder = mq.applyFilter(builder, filter)

	builder, err := ApplyPagination(builder, opts)
	if err != nil {
		return nil, err
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	var members []*Member
	if err := mq.db.SelectContext(ctx, &members, query, args...); err != nil {
		return nil, err
	}

	result := &ListResult[Member]{Items: members}
	limit := int(min(opts.Limit, 100))
	if len(members) > limit {
		last := members[limit-1]
		result.Items = members[:limit]
		result.NextCursor = lo.ToPtr(EncodeCursor(last.CreatedAt, last.ID))
	}

	return result, nil
}

func (mq *MemberRepository) Create(ctx context.Context, member *Member, tx *sqlx.Tx) (*Member, error) {
	builder := mq.psql.Insert("members").
		Columns("membership_number", "first_name", "last_name", "email", "phone", "wilaya", "baladiya", "country", "first_join_year", "status").
		Values(member.MembershipNumber, member.FirstName, member.LastName, member.Email, member.Phone, member.Wilaya, member.Baladiya, member.Country, member.FirstJoinYear, member.Status).
		Suffix("RETURNING " + strings.Join(memberColumns, ", "))

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	var createdMember Member
	if tx != nil {
		err = tx.GetContext(ctx, &createdMember, query, args...)
		return &createdMember, err
	}

	err = mq.db.GetContext(ctx, &createdMember, query, args...)
	return &createdMember, err
}

// UpdateSubscription sets the denormalized latest-subscription fields.
func (mq *MemberRepository) UpdateSubscription(ctx context.Context, membershipNumber, subscriptionType string, year int, tx *sqlx.Tx) error {
	builder := mq.psql.Update("members").
		Set("subscription_type", subscriptionType).
		Set("subscription_year", year).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"membership_number": membershipNumber}).
		Where("deleted_at IS NULL")

	query, args, err := builder.ToSql()
	if err != nil {
		return err
	}

	if tx != nil {
		_, err = tx.ExecContext(ctx, query, args...)
		return err
	}

	_, err = mq.db.ExecContext(ctx, query, args...)
	return err
}

func (mq *MemberRepository) UpdateProfilePhoto(ctx context.Context, membershipNumber, storageID string) error {
	builder := mq.psql.Update("members").
		Set("profile_photo_id", storageID).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"membership_number": membershipNumber}).
		Where("deleted_at IS NULL")

	query, args, err := builder.ToSql()
	if err != nil {
		return err
	}

	_, err = mq.db.ExecContext(ctx, query, args...)
	return err
}

func (mq *MemberRepository) DistinctWilayas(ctx context.Context) ([]string, error) {
	builder := mq.psql.Select("DISTINCT wilaya").From("members").
		Where("deleted_at IS NULL").
		OrderBy("wilaya ASC")

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	var wilayas []string
	if err := mq.db.SelectContext(ctx, &wilayas, query, args...); err != nil {
		return nil, err
	}
	return wilayas, nil
}

func (mq *MemberRepository) DistinctBaladiyas(ctx context.Context, wilaya *string) ([]string, error) {
	builder := mq.psql.Select("DISTINCT baladiya").From("members").
		Where("deleted_at IS NULL").
		Where("baladiya IS NOT NULL").
		OrderBy("baladiya ASC")

	if wilaya != nil {
		builder = builder.Where(sq.Eq{"wilaya": *wilaya})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	var baladiyas []string
	if err := mq.db.SelectContext(ctx, &baladiyas, query, args...); err != nil {
		return nil, err
	}
	return baladiyas, nil
}

func (mq *MemberRepository) CountByStatus(ctx context.Context, filter MemberRepositoryFilter) ([]*StatusCount, error) {
	builder := mq.psql.Select("status", "COUNT(*) AS count").From("members")
	builder = mq.applyFilter(builder, filter)
	builder = builder.GroupBy("status").OrderBy("status ASC")

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	var counts []*StatusCount
	if err := mq.db.SelectContext(ctx, &counts, query, args...); err != nil {
		return nil, err
	}
	return counts, nil
}

func (mq *MemberRepository) CountByWilaya(ctx context.Context, filter MemberRepositoryFilter) ([]*WilayaCount, error) {
	builder := mq.psql.Select("wilaya", "COUNT(*) AS count").From("members")
	builder = mq.applyFilter(builder, filter)
	builder = builder.GroupBy("wilaya").OrderBy("count DESC")

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	var counts []*WilayaCount
	if err := mq.db.SelectContext(ctx, &counts, query, args...); err != nil {
		return nil, err
	}
	return counts, nil
}
