// Command backup packages the data and uploads directories into a timestamped
// zip under the backups directory, optionally mirroring it to an
// S3-compatible bucket when MINIO_ENDPOINT is configured.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/cccenter/site-backend/internal/archive"
	"github.com/cccenter/site-backend/internal/config"
	"github.com/cccenter/site-backend/internal/storage"
	"github.com/cccenter/site-backend/pkg/logger"
)

func main() {
	logger.Init(os.Getenv("LOG_LEVEL"))

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}

	path, err := archive.Create(cfg.Paths.DataDir, cfg.Paths.UploadsDir, cfg.Paths.BackupsDir)
	if err != nil {
		logger.Fatalf("backup failed: %v", err)
	}
	fmt.Printf("Backup created: %s\n", path)

	if mcfg := storage.LoadMinIOConfig(); mcfg != nil {
		mirror, err := storage.NewArchiveMirror(mcfg)
		if err != nil {
			logger.Fatalf("backup mirror init failed: %v", err)
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		if err := mirror.UploadArchive(ctx, path); err != nil {
			logger.Fatalf("backup mirror upload failed: %v", err)
		}
		fmt.Printf("Backup mirrored to bucket: %s\n", mcfg.Bucket)
	}
}
