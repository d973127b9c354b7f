package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ArchiveMirror uploads backup archives to an S3-compatible bucket so a copy
// survives loss of the host. It is optional: a nil mirror is a no-op.
type ArchiveMirror struct {
	client *minio.Client
	bucket string
}

// MinIOConfig holds MinIO connection configuration
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Bucket    string
}

// LoadMinIOConfig loads MinIO config from environment. It returns nil when
// MINIO_ENDPOINT is unset, meaning mirroring is disabled.
func LoadMinIOConfig() *MinIOConfig {
	endpoint := os.Getenv("MINIO_ENDPOINT")
	if endpoint == "" {
		return nil
	}
	return &MinIOConfig{
		Endpoint:  endpoint,
		AccessKey: os.Getenv("MINIO_ACCESS_KEY"),
		SecretKey: os.Getenv("MINIO_SECRET_KEY"),
		UseSSL:    os.Getenv("MINIO_USE_SSL") == "true",
		Bucket:    getEnv("MINIO_BUCKET", "site-backups"),
	}
}

func getEnv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

// NewArchiveMirror creates the mirror client and ensures the bucket exists.
func NewArchiveMirror(cfg *MinIOConfig) (*ArchiveMirror, error) {
	if cfg == nil || cfg.Endpoint == "" {
		return nil, fmt.Errorf("minio config missing")
	}
	mc, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio new: %w", err)
	}
	m := &ArchiveMirror{client: mc, bucket: cfg.Bucket}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := mc.MakeBucket(ctx, m.bucket, minio.MakeBucketOptions{}); err != nil {
		exist, xerr := mc.BucketExists(ctx, m.bucket)
		if xerr != nil || !exist {
			return nil, fmt.Errorf("minio bucket ensure: %w", err)
		}
	}
	return m, nil
}

// UploadArchive stores the local archive file under its base name.
func (m *ArchiveMirror) UploadArchive(ctx context.Context, archivePath string) error {
	if m == nil {
		return nil
	}
	key := filepath.Base(archivePath)
	_, err := m.client.FPutObject(ctx, m.bucket, key, archivePath, minio.PutObjectOptions{
		ContentType: "application/zip",
	})
	return err
}
