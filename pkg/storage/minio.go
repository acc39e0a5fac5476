package storage

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/adl-parti/membership-backend/internal/config"
	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const (
	uploadURLExpiry   = 15 * time.Minute
	downloadURLExpiry = 1 * time.Hour
)

// Storage wraps the object store keeping binary assets (profile photos,
// member documents, settings images). References handed out to callers
// are opaque object ids.
type Storage struct {
	client *minio.Client
	bucket string
}

type UploadTarget struct {
	StorageID string `json:"storage_id"`
	URL       string `json:"url"`
}

func New(cfg *config.Config) (*Storage, error) {
	client, err := minio.New(cfg.Storage.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.Storage.AccessKey, cfg.Storage.SecretKey, ""),
		Secure: cfg.Storage.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	return &Storage{
		client: client,
		bucket: cfg.Storage.Bucket,
	}, nil
}

// GenerateUploadURL returns a presigned PUT url and the object id the
// caller must reference after uploading.
func (s *Storage) GenerateUploadURL(ctx context.Context) (*UploadTarget, error) {
	storageID := uuid.NewString()
	u, err := s.client.PresignedPutObject(ctx, s.bucket, storageID, uploadURLExpiry)
	if err != nil {
		return nil, fmt.Errorf("failed to presign upload url: %w", err)
	}

	return &UploadTarget{
		StorageID: storageID,
		URL:       u.String(),
	}, nil
}

func (s *Storage) GetURL(ctx context.Context, storageID string) (string, error) {
	u, err := s.client.PresignedGetObject(ctx, s.bucket, storageID, downloadURLExpiry, url.Values{})
	if err != nil {
		return "", fmt.Errorf("failed to presign download url: %w", err)
	}
	return u.String(), nil
}

func (s *Storage) Delete(ctx context.Context, storageID string) error {
	return s.client.RemoveObject(ctx, s.bucket, storageID, minio.RemoveObjectOptions{})
}
