package testutil

import (
	"context"
	"io"
	"mime/multipart"
	"sync"
	"time"

	"recipe-feed/internal/utils/storage"
)

const memoryBaseURL = "https://files.test/"

// MemoryStorage is an in-memory storage.Storage.
type MemoryStorage struct {
	mu      sync.Mutex
	Objects map[string][]byte
	Types   map[string]string
	Deleted []string
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{Objects: map[string][]byte{}, Types: map[string]string{}}
}

func (m *MemoryStorage) Put(key, contentType string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Objects[key] = data
	m.Types[key] = contentType
}

func (m *MemoryStorage) Has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.Objects[key]
	return ok
}

func (m *MemoryStorage) UploadFile(_ context.Context, fileName string, file *multipart.FileHeader, folder string, allowTypes ...string) (string, error) {
	if err := storage.CheckContentType(file.Header.Get("Content-Type"), allowTypes...); err != nil {
		return "", err
	}
	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()
	data, err := io.ReadAll(src)
	if err != nil {
		return "", err
	}
	key := storage.ObjectKey(folder, fileName, file.Filename)
	m.Put(key, file.Header.Get("Content-Type"), data)
	return key, nil
}

func (m *MemoryStorage) DeleteFile(_ context.Context, objectKey string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Objects, objectKey)
	delete(m.Types, objectKey)
	m.Deleted = append(m.Deleted, objectKey)
	return nil
}

func (m *MemoryStorage) StatObject(_ context.Context, objectKey string) (storage.ObjectInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.Objects[objectKey]
	if !ok {
		return storage.ObjectInfo{}, storage.ErrObjectNotFound
	}
	return storage.ObjectInfo{Size: int64(len(data)), ContentType: m.Types[objectKey]}, nil
}

func (m *MemoryStorage) PresignUpload(_ context.Context, objectKey string, _ string, _ int64, _ time.Duration) (string, error) {
	return memoryBaseURL + objectKey + "?signature=test", nil
}

func (m *MemoryStorage) GetPublicLinkKey(objectKey string) string {
	return memoryBaseURL + objectKey
}
