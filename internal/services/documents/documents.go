package documents

import (
	"context"
	"database/sql"
	"errors"
	"net/http"

	"github.com/adl-parti/membership-backend/internal/constants"
	"github.com/adl-parti/membership-backend/internal/dto"
	"github.com/adl-parti/membership-backend/internal/repository"
	svc "github.com/adl-parti/membership-backend/internal/services"
	"github.com/adl-parti/membership-backend/pkg/logger"
	"github.com/adl-parti/membership-backend/pkg/storage"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/samber/lo"
)

var (
	_ DocumentRepository = (*repository.DocumentRepository)(nil)
	_ MemberRepository   = (*repository.MemberRepository)(nil)
	_ StoragePkg         = (*storage.Storage)(nil)
)

type DocumentRepository interface {
	Get(ctx context.Context, filter repository.DocumentRepositoryFilter) (*repository.MemberDocument, error)
	List(ctx context.Context, filter repository.DocumentRepositoryFilter) ([]*repository.MemberDocument, error)
	Create(ctx context.Context, doc repository.MemberDocument, tx *sqlx.Tx) (*repository.MemberDocument, error)
	Delete(ctx context.Context, memberID uuid.UUID, documentType string, tx *sqlx.Tx) (*repository.MemberDocument, error)
}

type MemberRepository interface {
	Get(ctx context.Context, filter repository.MemberRepositoryFilter) (*repository.Member, error)
}

type StoragePkg interface {
	GenerateUploadURL(ctx context.Context) (*storage.UploadTarget, error)
	GetURL(ctx context.Context, storageID string) (string, error)
	Delete(ctx context.Context, storageID string) error
}

type Document struct {
	DB           *sqlx.DB
	DocumentRepo DocumentRepository
	MemberRepo   MemberRepository
	Storage      StoragePkg
	Logger       *logger.Logger
}

func New(db *sqlx.DB, documentRepo DocumentRepository, memberRepo MemberRepository, storagePkg StoragePkg, logger *logger.Logger) *Document {
	return &Document{
		DB:           db,
		DocumentRepo: documentRepo,
		MemberRepo:   memberRepo,
		Storage:      storagePkg,
		Logger:       logger,
	}
}

// Upload records a document for the member, superseding any prior
// document of the same type. The delete of the old row and the insert
// of the new one share a transaction; the old storage object is only
// removed after commit, so a crash can orphan an object in storage but
// never lose a committed row.
func (d *Document) Upload(ctx context.Context, membershipNumber string, input dto.UploadDocumentInput) (*dto.MemberDocument, error) {
	member, err := d.getMember(ctx, membershipNumber)
	if err != nil {
		return nil, err
	}

	tx, err := d.DB.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var supersededStorageID *string
	prior, err := d.DocumentRepo.Delete(ctx, member.ID, input.DocumentType, tx)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err == nil {
		supersededStorageID = lo.ToPtr(prior.StorageID)
	}

	created, err := d.DocumentRepo.Create(ctx, repository.MemberDocument{
		MemberID:     member.ID,
		DocumentType: input.DocumentType,
		StorageID:    input.StorageID,
		FileName:     input.FileName,
	}, tx)
	if err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, &svc.APIError{
				Status:  http.StatusConflict,
				Message: "a document of this type is being uploaded concurrently, retry",
			}
		}
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	if supersededStorageID != nil {
		if err := d.Storage.Delete(ctx, *supersededStorageID); err != nil {
			d.Logger.Warn().Err(err).
				Str("storage_id", *supersededStorageID).
				Msg("failed to delete superseded storage object")
		}
	}

	return d.mapRepositoryToDTO(ctx, created), nil
}

func (d *Document) List(ctx context.Context, membershipNumber string) ([]dto.MemberDocument, error) {
	member, err := d.getMember(ctx, membershipNumber)
	if err != nil {
		return nil, err
	}

	docs, err := d.DocumentRepo.List(ctx, repository.DocumentRepositoryFilter{
		MemberID: &member.ID,
	})
	if err != nil {
		return nil, err
	}

	out := make([]dto.MemberDocument, 0, len(docs))
	for _, doc := range docs {
		out = append(out, *d.mapRepositoryToDTO(ctx, doc))
	}
	return out, nil
}

// Delete removes the member's document of the given type. The type
// arrives as a path segment, so it is checked here rather than by the
// input validator.
func (d *Document) Delete(ctx context.Context, membershipNumber, documentType string) error {
	if !constants.IsValidDocumentType(documentType) {
		return &svc.APIError{
			Status:  http.StatusBadRequest,
			Message: "unknown document type: " + documentType,
		}
	}

	member, err := d.getMember(ctx, membershipNumber)
	if err != nil {
		return err
	}

	deleted, err := d.DocumentRepo.Delete(ctx, member.ID, documentType, nil)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &svc.APIError{
				Status:  http.StatusNotFound,
				Message: "document not found",
			}
		}
		return err
	}

	if err := d.Storage.Delete(ctx, deleted.StorageID); err != nil {
		d.Logger.Warn().Err(err).
			Str("storage_id", deleted.StorageID).
			Msg("failed to delete storage object")
	}

	return nil
}

// GenerateUploadURL hands out a presigned target the client uploads
// the binary content to before calling Upload with the storage id.
func (d *Document) GenerateUploadURL(ctx context.Context) (*storage.UploadTarget, error) {
	return d.Storage.GenerateUploadURL(ctx)
}

func (d *Document) getMember(ctx context.Context, membershipNumber string) (*repository.Member, error) {
	member, err := d.MemberRepo.Get(ctx, repository.MemberRepositoryFilter{
		MembershipNumber: &membershipNumber,
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &svc.APIError{
				Status:  http.StatusNotFound,
				Message: "member not found",
			}
		}
		return nil, err
	}
	return member, nil
}

func (d *Document) mapRepositoryToDTO(ctx context.Context, doc *repository.MemberDocument) *dto.MemberDocument {
	out := &dto.MemberDocument{
		DocumentType: doc.DocumentType,
		FileName:     doc.FileName,
		UploadedAt:   doc.UploadedAt,
	}

	url, err := d.Storage.GetURL(ctx, doc.StorageID)
	if err != nil {
		d.Logger.Warn().Err(err).Str("storage_id", doc.StorageID).Msg("failed to resolve document url")
	} else {
		out.URL = url
	}

	return out
}
