// Package storage provides document storage implementations for uploaded
// quotation files and invoice attachments.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/procureflow/backend/internal/domain/shared"
	infraconfig "github.com/procureflow/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

var _ shared.FileStore = (*S3FileStore)(nil)

// S3FileStore implements FileStore using AWS S3 SDK v2. It works against any
// S3-compatible backend (AWS S3, MinIO, localstack).
//
// File references are opaque to callers and have the form
// s3://<bucket>/<key>.
type S3FileStore struct {
	client *s3.Client
	bucket string
	logger *zap.Logger
}

// NewS3FileStore creates an S3-backed file store from configuration.
// With no static credentials configured the default AWS credential chain
// is used.
func NewS3FileStore(cfg *infraconfig.StorageConfig, logger *zap.Logger) (*S3FileStore, error) {
	if cfg == nil {
		return nil, errors.New("storage configuration is required")
	}
	if cfg.Bucket == "" {
		return nil, errors.New("storage bucket is required")
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.ForcePathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})

	if logger == nil {
		logger = zap.NewNop()
	}

	return &S3FileStore{
		client: client,
		bucket: cfg.Bucket,
		logger: logger,
	}, nil
}

// EnsureBucket creates the bucket if it does not exist.
// Call during application startup.
func (s *S3FileStore) EnsureBucket(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(s.bucket),
	})
	if err == nil {
		return nil
	}

	var notFound *types.NotFound
	var noSuchBucket *types.NoSuchBucket
	if !errors.As(err, &notFound) && !errors.As(err, &noSuchBucket) {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}

	s.logger.Info("Creating storage bucket", zap.String("bucket", s.bucket))
	_, err = s.client.CreateBucket(ctx, &s3.CreateBucketInput{
		Bucket: aws.String(s.bucket),
	})
	if err != nil {
		// Another instance may have won the race
		var alreadyOwned *types.BucketAlreadyOwnedByYou
		if errors.As(err, &alreadyOwned) {
			return nil
		}
		return fmt.Errorf("failed to create bucket: %w", err)
	}

	return nil
}

// Put stores a document and returns its opaque file reference
func (s *S3FileStore) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	if key == "" {
		return "", errors.New("storage key is required")
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload object: %w", err)
	}

	return fmt.Sprintf("s3://%s/%s", s.bucket, key), nil
}

// Get retrieves the document behind a file reference
func (s *S3FileStore) Get(ctx context.Context, fileRef string) ([]byte, error) {
	bucket, key, err := parseFileRef(fileRef)
	if err != nil {
		return nil, err
	}

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get object: %w", err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read object body: %w", err)
	}

	return data, nil
}

// Delete removes the document behind a file reference
func (s *S3FileStore) Delete(ctx context.Context, fileRef string) error {
	bucket, key, err := parseFileRef(fileRef)
	if err != nil {
		return err
	}

	_, err = s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}

	return nil
}

// parseFileRef splits an s3://bucket/key reference
func parseFileRef(fileRef string) (bucket, key string, err error) {
	rest, ok := strings.CutPrefix(fileRef, "s3://")
	if !ok {
		return "", "", fmt.Errorf("invalid file reference %q", fileRef)
	}
	bucket, key, ok = strings.Cut(rest, "/")
	if !ok || bucket == "" || key == "" {
		return "", "", fmt.Errorf("invalid file reference %q", fileRef)
	}
	return bucket, key, nil
}
