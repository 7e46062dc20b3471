package storage

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"recipe-feed/internal/utils"
)

var (
	AllowImage = []string{"image/jpeg", "image/png", "image/webp", "image/gif", "image/avif"}

	ErrFileTypeNotAllowed = errors.New("file type not allowed")
	ErrObjectNotFound     = errors.New("object not found")
)

// ObjectInfo is what the backend reports about a stored object.
type ObjectInfo struct {
	Size        int64
	ContentType string
}

type Storage interface {
	// UploadFile stores file under folder/fileName plus the original
	// extension and returns the object key.
	UploadFile(ctx context.Context, fileName string, file *multipart.FileHeader, folder string, allowTypes ...string) (string, error)
	DeleteFile(ctx context.Context, objectKey string) error
	// StatObject returns ErrObjectNotFound when nothing is stored under
	// objectKey.
	StatObject(ctx context.Context, objectKey string) (ObjectInfo, error)
	// PresignUpload returns a PUT URL for exactly size bytes of contentType
	// where the backend can sign those.
	PresignUpload(ctx context.Context, objectKey string, contentType string, size int64, ttl time.Duration) (string, error)
	GetPublicLinkKey(objectKey string) string
}

// New picks the backend named by STORAGE_DRIVER.
func New(ctx context.Context) (Storage, error) {
	switch driver := utils.GetConfig("STORAGE_DRIVER"); driver {
	case "", "s3":
		return NewAwsS3(ctx)
	case "minio":
		return NewMinio(ctx)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", driver)
	}
}

func CheckContentType(contentType string, allowTypes ...string) error {
	if len(allowTypes) == 0 {
		return nil
	}
	if i := strings.Index(contentType, ";"); i >= 0 {
		contentType = contentType[:i]
	}
	if !slices.Contains(allowTypes, strings.TrimSpace(strings.ToLower(contentType))) {
		return ErrFileTypeNotAllowed
	}
	return nil
}

func ObjectKey(folder, fileName, originalName string) string {
	key := fileName + strings.ToLower(filepath.Ext(originalName))
	if folder == "" {
		return key
	}
	return folder + "/" + key
}
