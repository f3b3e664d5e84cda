package s3

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"

	"github.com/daniyar-kh/marketplace-backend/internal/listing/domain"
)

// MediaStore uploads listing images to a MinIO/S3 bucket and hands back
// public URLs.
type MediaStore struct {
	client *minio.Client
	bucket string
	logger *zap.Logger
}

func NewMediaStore(endpoint, accessKey, secretKey, bucket string, useSSL bool, logger *zap.Logger) (*MediaStore, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client for %s: %w", endpoint, err)
	}

	if err := client.MakeBucket(context.Background(), bucket, minio.MakeBucketOptions{}); err != nil {
		exists, existsErr := client.BucketExists(context.Background(), bucket)
		if existsErr != nil || !exists {
			return nil, fmt.Errorf("make/verify bucket %s: %w", bucket, err)
		}
	}

	logger.Info("media store initialized", zap.String("endpoint", endpoint), zap.String("bucket", bucket))
	return &MediaStore{client: client, bucket: bucket, logger: logger}, nil
}

// Store uploads one file and returns its public URL. The object key is a
// fresh uuid with the original extension preserved, so concurrent uploads
// never collide and nothing is ever overwritten.
func (s *MediaStore) Store(ctx context.Context, filename string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("%w: empty file", domain.ErrInvalidFile)
	}
	ext := filepath.Ext(filename)
	if filename == "" || ext == "" {
		return "", fmt.Errorf("%w: missing file name or extension", domain.ErrInvalidFile)
	}

	objectKey := fmt.Sprintf("listings/%s%s", uuid.New().String(), ext)
	opts := minio.PutObjectOptions{ContentType: http.DetectContentType(data)}

	info, err := s.client.PutObject(ctx, s.bucket, objectKey, bytes.NewReader(data), int64(len(data)), opts)
	if err != nil {
		return "", fmt.Errorf("%w: put %s: %v", domain.ErrUploadFailed, objectKey, err)
	}

	s.logger.Debug("uploaded listing image",
		zap.String("bucket", info.Bucket),
		zap.String("key", info.Key),
		zap.Int64("size", info.Size))

	return fmt.Sprintf("%s/%s/%s", s.client.EndpointURL().String(), s.bucket, objectKey), nil
}
