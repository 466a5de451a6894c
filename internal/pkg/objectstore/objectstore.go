// Package objectstore uploads user files to S3-compatible storage.
package objectstore

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"

	"github.com/ManuelReschke/ContractorHub/internal/pkg/apperror"
)

// Uploader stores an object and returns its public URL.
type Uploader interface {
	Upload(ctx context.Context, key, contentType string, data []byte) (string, error)
}

type putObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Uploader wraps the S3 client
type S3Uploader struct {
	client putObjectAPI
	config *Config
	log    *zap.SugaredLogger
}

// NewS3Uploader creates a new S3 uploader
func NewS3Uploader(ctx context.Context, cfg *Config, log *zap.SugaredLogger) (*S3Uploader, error) {
	if !cfg.Enabled {
		return nil, fmt.Errorf("S3 uploads are disabled")
	}

	awsConfig, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsConfig, func(o *s3.Options) {
		if cfg.EndpointURL != "" {
			o.BaseEndpoint = aws.String(cfg.EndpointURL)
			// S3-compatible services (MinIO, B2) expect path-style URLs
			o.UsePathStyle = true
		}
	})
	log.Infow("object storage initialized", "bucket", cfg.BucketName, "endpoint", cfg.EndpointURL)
	return &S3Uploader{client: client, config: cfg, log: log}, nil
}

// Upload puts data under key. Storage failures are UpstreamFailure.
func (u *S3Uploader) Upload(ctx context.Context, key, contentType string, data []byte) (string, error) {
	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(u.config.BucketName),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		u.log.Errorw("object upload failed", "bucket", u.config.BucketName, "key", key, "error", err)
		return "", apperror.Wrap(apperror.ErrUpstreamFailure, err, "file storage unavailable")
	}
	return u.config.PublicURL(key), nil
}

// DisabledUploader rejects every upload; used when S3 is not configured.
type DisabledUploader struct{}

func (DisabledUploader) Upload(context.Context, string, string, []byte) (string, error) {
	return "", apperror.New(apperror.ErrUpstreamFailure, "file storage is not configured")
}
