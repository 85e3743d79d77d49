package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	infraconfig "github.com/App-Start-Dev/innolympics-api/internal/config"
	"go.uber.org/zap"
)

// S3BlobStore implements BlobStore using AWS S3 SDK v2. It works with
// any S3-compatible backend (AWS S3, MinIO, etc.)
type S3BlobStore struct {
	client        *s3.Client
	presignClient *s3.PresignClient
	bucket        string
	presignExpiry time.Duration
	logger        *zap.Logger
}

var _ BlobStore = (*S3BlobStore)(nil)

// S3Option is a functional option for configuring S3BlobStore.
type S3Option func(*S3BlobStore)

// WithLogger sets a custom logger.
func WithLogger(logger *zap.Logger) S3Option {
	return func(s *S3BlobStore) {
		s.logger = logger
	}
}

// NewS3BlobStore creates an S3BlobStore from configuration.
func NewS3BlobStore(cfg *infraconfig.StorageConfig, opts ...S3Option) (*S3BlobStore, error) {
	if cfg == nil {
		return nil, errors.New("storage configuration is required")
	}
	if cfg.Bucket == "" {
		return nil, errors.New("storage bucket is required")
	}
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, errors.New("storage credentials are required")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})

	store := &S3BlobStore{
		client:        client,
		presignClient: s3.NewPresignClient(client),
		bucket:        cfg.Bucket,
		presignExpiry: cfg.PresignExpiry,
		logger:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(store)
	}
	if store.presignExpiry == 0 {
		store.presignExpiry = time.Hour
	}
	return store, nil
}

// folderKey returns the child's prefix, always ending in "/".
func folderKey(childID string) string {
	return childID + "/"
}

// objectKey joins the child's prefix with a filename, rejecting names
// that would escape the prefix.
func objectKey(childID, filename string) (string, error) {
	if filename == "" || filename != path.Base(filename) || strings.HasPrefix(filename, ".") {
		return "", fmt.Errorf("invalid filename %q", filename)
	}
	return childID + "/" + filename, nil
}

// EnsureFolder creates the zero-byte folder marker for a child.
func (s *S3BlobStore) EnsureFolder(ctx context.Context, childID string) error {
	key := folderKey(childID)
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err == nil {
		return nil
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to initialize child folder: %w", err)
	}
	return nil
}

// Upload stores a file under the child's prefix.
func (s *S3BlobStore) Upload(ctx context.Context, childID, filename string, body io.Reader, contentType string) error {
	key, err := objectKey(childID, filename)
	if err != nil {
		return err
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("failed to upload object: %w", err)
	}
	return nil
}

// List returns the child's files with presigned download URLs, skipping
// the folder marker itself.
func (s *S3BlobStore) List(ctx context.Context, childID string) ([]Object, error) {
	prefix := folderKey(childID)
	out, err := s.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(prefix),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list objects: %w", err)
	}

	objects := []Object{}
	for _, obj := range out.Contents {
		key := aws.ToString(obj.Key)
		if strings.HasSuffix(key, "/") {
			continue
		}

		presigned, err := s.presignClient.PresignGetObject(ctx, &s3.GetObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(key),
		}, s3.WithPresignExpires(s.presignExpiry))
		if err != nil {
			return nil, fmt.Errorf("failed to presign download URL: %w", err)
		}

		objects = append(objects, Object{
			Filename:     path.Base(key),
			Size:         aws.ToInt64(obj.Size),
			LastModified: aws.ToTime(obj.LastModified),
			URL:          presigned.URL,
		})
	}
	return objects, nil
}

// Delete removes one file from the child's prefix.
func (s *S3BlobStore) Delete(ctx context.Context, childID, filename string) error {
	key, err := objectKey(childID, filename)
	if err != nil {
		return err
	}

	_, err = s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}

// DeleteFolder removes everything under the child's prefix, including
// the folder marker.
func (s *S3BlobStore) DeleteFolder(ctx context.Context, childID string) error {
	prefix := folderKey(childID)
	out, err := s.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(prefix),
	})
	if err != nil {
		return fmt.Errorf("failed to list objects for cleanup: %w", err)
	}

	for _, obj := range out.Contents {
		_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    obj.Key,
		})
		if err != nil {
			s.logger.Warn("Failed to delete object during folder cleanup",
				zap.String("key", aws.ToString(obj.Key)), zap.Error(err))
		}
	}
	return nil
}
