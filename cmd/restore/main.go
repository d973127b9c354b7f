// Command restore extracts a backup archive over the server root. With no
// argument it restores the newest archive in the backups directory; an
// explicit path (absolute or relative to the root) overrides that.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/cccenter/site-backend/internal/archive"
	"github.com/cccenter/site-backend/internal/config"
	"github.com/cccenter/site-backend/pkg/logger"
)

func main() {
	logger.Init(os.Getenv("LOG_LEVEL"))

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}

	backupFile, err := resolveBackupFile(cfg, os.Args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Restore failed: %v\n", err)
		os.Exit(1)
	}
	if _, err := os.Stat(backupFile); err != nil {
		fmt.Fprintf(os.Stderr, "Restore failed: backup file not found: %s\n", backupFile)
		os.Exit(1)
	}

	if err := archive.RestoreAll(backupFile, cfg.Paths.RootDir); err != nil {
		fmt.Fprintf(os.Stderr, "Restore failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Restore completed from: %s\n", backupFile)
}

func resolveBackupFile(cfg *config.Config, args []string) (string, error) {
	if len(args) > 1 && args[1] != "" {
		if filepath.IsAbs(args[1]) {
			return args[1], nil
		}
		return filepath.Join(cfg.Paths.RootDir, args[1]), nil
	}
	return archive.ResolveLatest(cfg.Paths.BackupsDir)
}
