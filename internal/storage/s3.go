// Package storage talks to an S3-compatible object store holding the
// rendered PDF files.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	appconfig "facture/internal/config"
	"facture/lib/sl"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type S3Storage struct {
	client  *s3.Client
	presign *s3.PresignClient
	bucket  string
	log     *slog.Logger
}

func New(conf *appconfig.Config, log *slog.Logger) (*S3Storage, error) {
	if conf.Storage.Bucket == "" {
		return nil, fmt.Errorf("storage bucket is required")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(conf.Storage.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			conf.Storage.AccessKey,
			conf.Storage.SecretKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = conf.Storage.UsePathStyle
		if conf.Storage.Endpoint != "" {
			o.BaseEndpoint = aws.String(conf.Storage.Endpoint)
		}
	})

	return &S3Storage{
		client:  client,
		presign: s3.NewPresignClient(client),
		bucket:  conf.Storage.Bucket,
		log:     log.With(sl.Module("storage")),
	}, nil
}

// PresignedUrl mints an expiring GET url for a stored object.
func (s *S3Storage) PresignedUrl(ctx context.Context, key string, expires time.Duration) (string, error) {
	req, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(expires))
	if err != nil {
		return "", fmt.Errorf("presign %s: %w", key, err)
	}
	return req.URL, nil
}

// Upload stores a rendered file, overwriting any previous object under
// the same key.
func (s *S3Storage) Upload(ctx context.Context, key string, data []byte, contentType string) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("upload %s: %w", key, err)
	}
	s.log.Debug("object uploaded", slog.String("key", key), slog.Int("size", len(data)))
	return nil
}

func (s *S3Storage) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}
