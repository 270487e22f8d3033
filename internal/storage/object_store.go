package storage

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/ignatzorin/iyaya-backend/internal/config"
)

// ObjectStore доступ к S3-совместимому хранилищу подтверждений оплаты.
type ObjectStore struct {
	mc     *minio.Client
	bucket string
	expiry time.Duration
}

// NewObjectStore создаёт клиента хранилища.
func NewObjectStore(cfg config.ObjectStoreConfig) (*ObjectStore, error) {
	if !cfg.Enabled() {
		return nil, fmt.Errorf("storage: endpoint и ключи доступа обязательны")
	}

	mc, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("storage: не удалось создать клиента: %w", err)
	}

	expiry := cfg.URLExpiry
	if expiry <= 0 {
		expiry = 15 * time.Minute
	}

	return &ObjectStore{mc: mc, bucket: cfg.Bucket, expiry: expiry}, nil
}

// PresignGet возвращает временную ссылку на объект.
func (s *ObjectStore) PresignGet(ctx context.Context, storagePath string) (string, error) {
	key := ObjectKey(s.bucket, storagePath)
	if key == "" {
		return "", fmt.Errorf("storage: пустой путь объекта")
	}

	u, err := s.mc.PresignedGetObject(ctx, s.bucket, key, s.expiry, url.Values{})
	if err != nil {
		return "", fmt.Errorf("storage: presign %s: %w", key, err)
	}
	return u.String(), nil
}

// Delete удаляет объект. Отсутствующий объект ошибкой не считается.
func (s *ObjectStore) Delete(ctx context.Context, storagePath string) error {
	key := ObjectKey(s.bucket, storagePath)
	if key == "" {
		return nil
	}
	if err := s.mc.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("storage: delete %s: %w", key, err)
	}
	return nil
}

// ObjectKey приводит сохранённый путь к ключу внутри бакета:
// убирает ведущие слэши и префикс с именем бакета.
func ObjectKey(bucket, storagePath string) string {
	key := strings.TrimLeft(strings.TrimSpace(storagePath), "/")
	if bucket != "" {
		key = strings.TrimPrefix(key, bucket+"/")
	}
	return key
}
