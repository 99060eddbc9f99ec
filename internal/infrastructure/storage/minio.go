package storage

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"resale-backend/internal/config"
)

// CertificateStore wraps MinIO/S3 interactions for generated certificate PDFs.
type CertificateStore struct {
	client *minio.Client
	bucket string
	region string
}

func New(cfg *config.Config) (*CertificateStore, error) {
	client, err := minio.New(cfg.S3Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.S3AccessKey, cfg.S3SecretKey, ""),
		Secure: cfg.S3UseSSL,
		Region: cfg.S3Region,
	})
	if err != nil {
		return nil, fmt.Errorf("init minio: %w", err)
	}
	return &CertificateStore{client: client, bucket: cfg.CertBucket, region: cfg.S3Region}, nil
}

// EnsureBucket makes sure the certificate bucket exists before first use.
func (s *CertificateStore) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("check bucket %s: %w", s.bucket, err)
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{Region: s.region}); err != nil {
			return fmt.Errorf("make bucket %s: %w", s.bucket, err)
		}
	}
	return nil
}

// Upload stores a generated PDF and returns its stable object URL. Repeat
// uploads under the same key overwrite the previous artifact, which keeps
// regeneration idempotent.
func (s *CertificateStore) Upload(ctx context.Context, objectKey string, pdf []byte) (string, error) {
	opts := minio.PutObjectOptions{ContentType: "application/pdf"}
	_, err := s.client.PutObject(ctx, s.bucket, objectKey, bytes.NewReader(pdf), int64(len(pdf)), opts)
	if err != nil {
		return "", fmt.Errorf("upload certificate: %w", err)
	}
	return fmt.Sprintf("%s/%s/%s", s.client.EndpointURL(), s.bucket, objectKey), nil
}

// PresignURL returns a signed GET URL for a stored certificate.
func (s *CertificateStore) PresignURL(ctx context.Context, objectKey string, expiry time.Duration) (string, error) {
	u, err := s.client.PresignedGetObject(ctx, s.bucket, objectKey, expiry, url.Values{})
	if err != nil {
		return "", fmt.Errorf("presign certificate: %w", err)
	}
	return u.String(), nil
}
