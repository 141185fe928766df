package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"

	"github.com/aya-platform/volunteer-hub/internal/config"
)

type MinIOClient struct {
	client *minio.Client
	bucket string
}

func NewMinIOClient(conf *config.StorageConfig) (*MinIOClient, error) {
	client, err := minio.New(conf.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(conf.AccessKey, conf.SecretKey, ""),
		Secure: conf.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio.New -> %w", err)
	}

	return &MinIOClient{
		client: client,
		bucket: conf.Bucket,
	}, nil
}

func (m *MinIOClient) Put(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
	_, err := m.client.PutObject(ctx, m.bucket, key, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		zap.L().Error("minio upload failed",
			zap.String("key", key),
			zap.Int64("size", size),
			zap.String("bucket", m.bucket),
			zap.Error(err))
		return fmt.Errorf("m.client.PutObject -> %w", err)
	}

	zap.L().Debug("minio upload", zap.String("key", key), zap.Int64("size", size))

	return nil
}

func (m *MinIOClient) Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error) {
	obj, err := m.client.GetObject(ctx, m.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, ObjectInfo{}, fmt.Errorf("m.client.GetObject -> %w", err)
	}

	stat, err := obj.Stat()
	if err != nil {
		_ = obj.Close()
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, ObjectInfo{}, ErrObjectNotFound
		}
		return nil, ObjectInfo{}, fmt.Errorf("obj.Stat -> %w", err)
	}

	return obj, ObjectInfo{Size: stat.Size, ContentType: stat.ContentType}, nil
}

func (m *MinIOClient) Delete(ctx context.Context, key string) error {
	if err := m.client.RemoveObject(ctx, m.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		zap.L().Error("minio delete failed", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("m.client.RemoveObject -> %w", err)
	}

	return nil
}

func (m *MinIOClient) PresignedURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	u, err := m.client.PresignedGetObject(ctx, m.bucket, key, expiry, url.Values{})
	if err != nil {
		return "", fmt.Errorf("m.client.PresignedGetObject -> %w", err)
	}

	return u.String(), nil
}

func (m *MinIOClient) EnsureBucket(ctx context.Context) error {
	exists, err := m.client.BucketExists(ctx, m.bucket)
	if err != nil {
		return fmt.Errorf("m.client.BucketExists -> %w", err)
	}
	if exists {
		return nil
	}

	if err = m.client.MakeBucket(ctx, m.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("m.client.MakeBucket -> %w", err)
	}
	zap.L().Info("created bucket", zap.String("bucket", m.bucket))

	return nil
}
