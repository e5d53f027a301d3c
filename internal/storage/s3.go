package storage

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"alcyxob/fitness-coach/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsCfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// s3MediaStore keeps exercise demo media in an S3-compatible bucket.
type s3MediaStore struct {
	client        *s3.Client
	presignClient *s3.PresignClient
	bucket        string
}

// NewS3Storage connects to the configured bucket. Endpoint may point at any
// S3-compatible service (MinIO, Spaces); empty means AWS proper.
func NewS3Storage(cfg config.S3Config) (FileStorage, error) {
	resolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
		if cfg.Endpoint != "" {
			return aws.Endpoint{
				PartitionID:   "aws",
				URL:           cfg.Endpoint,
				SigningRegion: cfg.Region,
			}, nil
		}
		return aws.Endpoint{}, &aws.EndpointNotFoundError{}
	})

	awsSDKConfig, err := awsCfg.LoadDefaultConfig(context.TODO(),
		awsCfg.WithRegion(cfg.Region),
		awsCfg.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")),
		awsCfg.WithEndpointResolverWithOptions(resolver),
	)
	if err != nil {
		return nil, fmt.Errorf("loading AWS SDK config: %w", err)
	}

	// Path-style addressing is required by most S3-compatible services.
	client := s3.NewFromConfig(awsSDKConfig, func(o *s3.Options) {
		o.UsePathStyle = true
	})

	slog.Info("media storage initialized", "endpoint", cfg.Endpoint, "bucket", cfg.BucketName)

	return &s3MediaStore{
		client:        client,
		presignClient: s3.NewPresignClient(client),
		bucket:        cfg.BucketName,
	}, nil
}

// GeneratePresignedUploadURL issues a PUT URL for new exercise media. The
// client must send the same Content-Type header it requested the URL with.
func (s *s3MediaStore) GeneratePresignedUploadURL(ctx context.Context, objectKey string, contentType string, expires time.Duration) (string, error) {
	if err := ValidateMediaKey(objectKey); err != nil {
		return "", err
	}
	if !IsAllowedMediaType(contentType) {
		return "", ErrUnsupportedMediaType
	}
	if expires <= 0 {
		expires = DefaultPresignedURLExpiry
	}

	req, err := s.presignClient.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(objectKey),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(expires))
	if err != nil {
		return "", fmt.Errorf("presigning media upload for %q: %w", objectKey, err)
	}
	return req.URL, nil
}

// GeneratePresignedDownloadURL issues a GET URL for previously recorded media.
func (s *s3MediaStore) GeneratePresignedDownloadURL(ctx context.Context, objectKey string, expires time.Duration) (string, error) {
	if err := ValidateMediaKey(objectKey); err != nil {
		return "", err
	}
	if expires <= 0 {
		expires = DefaultPresignedURLExpiry
	}

	req, err := s.presignClient.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(objectKey),
	}, s3.WithPresignExpires(expires))
	if err != nil {
		return "", fmt.Errorf("presigning media download for %q: %w", objectKey, err)
	}
	return req.URL, nil
}

// DeleteObject removes stored media when an exercise is deleted or its media
// replaced.
func (s *s3MediaStore) DeleteObject(ctx context.Context, objectKey string) error {
	if err := ValidateMediaKey(objectKey); err != nil {
		return err
	}

	if _, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(objectKey),
	}); err != nil {
		return fmt.Errorf("deleting media %q: %w", objectKey, err)
	}
	return nil
}
