package storage

import (
	"context"
	"fmt"
	"mime/multipart"
	"time"

	"recipe-feed/internal/utils"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type minioStorage struct {
	client *minio.Client
	bucket string
	base   string
}

func NewMinio(ctx context.Context) (Storage, error) {
	endpoint := utils.GetConfig("MINIO_ENDPOINT")
	useSSL := utils.GetConfig("MINIO_USE_SSL") == "true"
	bucket := utils.GetConfig("MINIO_BUCKET")

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(utils.GetConfig("MINIO_ACCESS_KEY"), utils.GetConfig("MINIO_SECRET_KEY"), ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("minio bucket check: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("minio make bucket: %w", err)
		}
	}

	scheme := "http"
	if useSSL {
		scheme = "https"
	}
	return &minioStorage{
		client: client,
		bucket: bucket,
		base:   fmt.Sprintf("%s://%s/%s/", scheme, endpoint, bucket),
	}, nil
}

func (m *minioStorage) UploadFile(ctx context.Context, fileName string, file *multipart.FileHeader, folder string, allowTypes ...string) (string, error) {
	contentType := file.Header.Get("Content-Type")
	if err := CheckContentType(contentType, allowTypes...); err != nil {
		return "", err
	}

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	objectKey := ObjectKey(folder, fileName, file.Filename)
	_, err = m.client.PutObject(ctx, m.bucket, objectKey, src, file.Size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("put object %s: %w", objectKey, err)
	}
	return objectKey, nil
}

func (m *minioStorage) DeleteFile(ctx context.Context, objectKey string) error {
	return m.client.RemoveObject(ctx, m.bucket, objectKey, minio.RemoveObjectOptions{})
}

func (m *minioStorage) StatObject(ctx context.Context, objectKey string) (ObjectInfo, error) {
	info, err := m.client.StatObject(ctx, m.bucket, objectKey, minio.StatObjectOptions{})
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return ObjectInfo{}, ErrObjectNotFound
		}
		return ObjectInfo{}, err
	}
	return ObjectInfo{Size: info.Size, ContentType: info.ContentType}, nil
}

// PresignUpload ignores contentType and size: MinIO presigned PUTs sign
// neither, so callers have to stat the object after the upload.
func (m *minioStorage) PresignUpload(ctx context.Context, objectKey string, contentType string, size int64, ttl time.Duration) (string, error) {
	u, err := m.client.PresignedPutObject(ctx, m.bucket, objectKey, ttl)
	if err != nil {
		return "", err
	}
	return u.String(), nil
}

func (m *minioStorage) GetPublicLinkKey(objectKey string) string {
	return m.base + objectKey
}
