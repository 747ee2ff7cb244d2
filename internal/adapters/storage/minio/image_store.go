package minio

import (
	"bytes"
	"context"
	"io"

	mclient "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	customErrors "github.com/commforge/community-backend/internal/domain/community/errors"
	"github.com/commforge/community-backend/internal/infra/config"
)

// ImageStore keeps post images and avatars in a MinIO/S3 bucket.
type ImageStore struct {
	client *mclient.Client
	bucket string
}

// New создаёт клиент и fail-fast проверяет доступность бакета.
func New(ctx context.Context, cfg *config.Config) (*ImageStore, error) {
	client, err := mclient.New(cfg.MinioEndpoint, &mclient.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioUseSSL,
	})
	if err != nil {
		return nil, customErrors.WrapInternal(err, "minio client")
	}

	exists, err := client.BucketExists(ctx, cfg.MinioBucket)
	if err != nil {
		return nil, customErrors.WrapInternal(err, "bucket check")
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.MinioBucket, mclient.MakeBucketOptions{}); err != nil {
			return nil, customErrors.WrapInternal(err, "make bucket")
		}
	}

	return &ImageStore{client: client, bucket: cfg.MinioBucket}, nil
}

func (s *ImageStore) Put(ctx context.Context, name string, data []byte, contentType string) error {
	_, err := s.client.PutObject(ctx, s.bucket, name,
		bytes.NewReader(data), int64(len(data)),
		mclient.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return customErrors.WrapInternal(err, "put object")
	}
	return nil
}

func (s *ImageStore) Get(ctx context.Context, name string) ([]byte, string, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, name, mclient.GetObjectOptions{})
	if err != nil {
		return nil, "", customErrors.WrapInternal(err, "get object")
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		errResp := mclient.ToErrorResponse(err)
		if errResp.Code == "NoSuchKey" || errResp.StatusCode == 404 {
			return nil, "", customErrors.ErrNotFound
		}
		return nil, "", customErrors.WrapInternal(err, "read object")
	}

	stat, err := obj.Stat()
	if err != nil {
		return nil, "", customErrors.WrapInternal(err, "stat object")
	}
	return data, stat.ContentType, nil
}

func (s *ImageStore) Delete(ctx context.Context, name string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, name, mclient.RemoveObjectOptions{}); err != nil {
		return customErrors.WrapInternal(err, "remove object")
	}
	return nil
}
