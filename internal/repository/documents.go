package repository

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type DocumentRepository struct {
	db   *sqlx.DB
	psql sq.StatementBuilderType
}

func NewDocumentRepository(db *sqlx.DB) *DocumentRepository {
	return &DocumentRepository{
		db:   db,
		psql: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

type DocumentRepositoryFilter struct {
	MemberID     *uuid.UUID
	DocumentType *string
}

func (dr *DocumentRepository) applyFilter(builder sq.SelectBuilder, filter DocumentRepositoryFilter) sq.SelectBuilder {
	if filter.MemberID != nil {
		builder = builder.Where(sq.Eq{"member_id": *filter.MemberID})
	}
	if filter.DocumentType != nil {
		builder = builder.Where(sq.Eq{"document_type": *filter.DocumentType})
	}
	return builder
}

func (dr *DocumentRepository) Get(ctx context.Context, filter DocumentRepositoryFilter) (*MemberDocument, error) {
	builder := dr.applyFilter(dr.psql.Select("*").From("member_documents"), filter)

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	var doc MemberDocument
	if err := dr.db.GetContext(ctx, &doc, query, args...); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (dr *DocumentRepository) List(ctx context.Context, filter DocumentRepositoryFilter) ([]*MemberDocument, error) {
	builder := dr.applyFilter(dr.psql.Select("*").From("member_documents"), filter).
		OrderBy("uploaded_at DESC")

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	var docs []*MemberDocument
	if err := dr.db.SelectContext(ctx, &docs, query, args...); err != nil {
		return nil, err
	}
	return docs, nil
}

// Create relies on the unique (member_id, document_type) constraint:
// a concurrent insert of the same pair surfaces as a unique violation
// rather than a duplicate row.
func (dr *DocumentRepository) Create(ctx context.Context, doc MemberDocument, tx *sqlx.Tx) (*MemberDocument, error) {
	builder := dr.psql.Insert("member_documents").
		Columns("member_id", "document_type", "storage_id", "file_name", "uploaded_at").
		Values(doc.MemberID, doc.DocumentType, doc.StorageID, doc.FileName, sq.Expr("NOW()")).
		Suffix("RETURNING *")

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	var created MemberDocument
	if tx != nil {
		err = tx.GetContext(ctx, &created, query, args...)
		return &created, err
	}

	err = dr.db.GetContext(ctx, &created, query, args...)
	return &created, err
}

// Delete removes the (member, type) row and returns it so the caller
// can clean up the backing storage object. sql.ErrNoRows when no such
// document exists.
func (dr *DocumentRepository) Delete(ctx context.Context, memberID uuid.UUID, documentType string, tx *sqlx.Tx) (*MemberDocument, error) {
	builder := dr.psql.Delete("member_documents").
		Where(sq.Eq{"member_id": memberID}).
		Where(sq.Eq{"document_type": documentType}).
		Suffix("RETURNING *")

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	var deleted MemberDocument
	if tx != nil {
		err = tx.GetContext(ctx, &deleted, query, args...)
		return &deleted, err
	}

	err = dr.db.GetContext(ctx, &deleted, query, args...)
	return &deleted, err
}
