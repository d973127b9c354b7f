package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadMinIOConfigNilWithoutEndpoint(t *testing.T) {
	t.Setenv("MINIO_ENDPOINT", "")
	t.Setenv("MINIO_BUCKET", "")
	require.Nil(t, LoadMinIOConfig())
}

func TestLoadMinIOConfigFromEnv(t *testing.T) {
	t.Setenv("MINIO_ENDPOINT", "minio.local:9000")
	t.Setenv("MINIO_ACCESS_KEY", "ak")
	t.Setenv("MINIO_SECRET_KEY", "sk")
	t.Setenv("MINIO_USE_SSL", "true")
	t.Setenv("MINIO_BUCKET", "")

	cfg := LoadMinIOConfig()
	require.NotNil(t, cfg)
	require.Equal(t, "minio.local:9000", cfg.Endpoint)
	require.Equal(t, "ak", cfg.AccessKey)
	require.Equal(t, "sk", cfg.SecretKey)
	require.True(t, cfg.UseSSL)
	require.Equal(t, "site-backups", cfg.Bucket)
}

func TestNilArchiveMirrorUploadIsNoop(t *testing.T) {
	var m *ArchiveMirror
	require.NoError(t, m.UploadArchive(context.Background(), "ignored.zip"))
}
