package source

import (
	"fo-go/internal/config"
	"fo-go/internal/organizer"
)

// NewScannersFromConfig creates a scanner for each enabled source.
func NewScannersFromConfig(cfg config.SourcesConfig, logger organizer.Logger) []Scanner {
	var scanners []Scanner
	if cfg.Local.Enabled {
		scanners = append(scanners, NewLocalScanner(cfg.Local, logger))
	}
	if cfg.GitHub.Enabled {
		scanners = append(scanners, NewGitHubScanner(cfg.GitHub, logger))
	}
	if cfg.CloudDrive.Enabled {
		scanners = append(scanners, NewCloudDriveScanner(cfg.CloudDrive, logger))
	}
	return scanners
}
