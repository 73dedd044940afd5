package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"wikiquery/internal/config"
	"wikiquery/internal/keys"
	"wikiquery/internal/models"
)

// objectStore is the part of *minio.Client the sink uses.
type objectStore interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	StatObject(ctx context.Context, bucketName, objectName string, opts minio.StatObjectOptions) (minio.ObjectInfo, error)
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (*minio.Object, error)
}

// S3Sink archives articles as JSON objects in an S3-compatible bucket.
type S3Sink struct {
	client objectStore
	bucket string
}

// NewS3Sink connects to the MinIO endpoint from cfg.
func NewS3Sink(cfg *config.Config) (*S3Sink, error) {
	if err := cfg.RequireMinio(); err != nil {
		return nil, err
	}
	client, err := minio.New(cfg.Minio.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.Minio.AccessKey, cfg.Minio.SecretKey, ""),
		Secure: cfg.Minio.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}
	slog.Info("connected to MinIO endpoint", "endpoint", cfg.Minio.Endpoint)
	return &S3Sink{client: client, bucket: cfg.Archive.Bucket}, nil
}

// EnsureBucket creates the bucket if it does not exist yet.
func (s *S3Sink) EnsureBucket(ctx context.Context, location string) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("error checking bucket existence: %w", err)
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{Region: location}); err != nil {
		return fmt.Errorf("create bucket %s: %w", s.bucket, err)
	}
	return nil
}

// Store writes the article under its canonical key. An existing object is
// left as is.
func (s *S3Sink) Store(ctx context.Context, article models.Article) error {
	objectKey := keys.Article(article)

	_, err := s.client.StatObject(ctx, s.bucket, objectKey, minio.StatObjectOptions{})
	if err == nil {
		slog.Debug("article already archived", "key", objectKey)
		return nil
	}
	if minio.ToErrorResponse(err).Code != "NoSuchKey" {
		return fmt.Errorf("failed to check for existing object: %w", err)
	}

	data, err := json.Marshal(article)
	if err != nil {
		return fmt.Errorf("failed to marshal article to JSON: %w", err)
	}

	_, err = s.client.PutObject(ctx, s.bucket, objectKey, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: "application/json"})
	if err != nil {
		return fmt.Errorf("failed to store object in S3: %w", err)
	}

	slog.Debug("archived article", "title", article.Title, "bucket", s.bucket, "key", objectKey)
	return nil
}

// Get loads an archived article by key.
func (s *S3Sink) Get(ctx context.Context, objectKey string) (*models.Article, error) {
	object, err := s.client.GetObject(ctx, s.bucket, objectKey, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get object from S3: %w", err)
	}
	defer object.Close()

	var article models.Article
	if err := json.NewDecoder(object).Decode(&article); err != nil {
		return nil, fmt.Errorf("failed to decode JSON from stream: %w", err)
	}
	return &article, nil
}
