package organizer

import (
	"fmt"
	"path/filepath"
	"strings"

	"fo-go/internal/model"
)

// systemDirs are destinations the organizer refuses to write under.
var systemDirs = []string{"/bin", "/sbin", "/usr", "/etc", "/var", "/sys", "/proc", "/dev"}

// maxPathLength is the longest destination path accepted.
const maxPathLength = 4096

// invalidNameChars are rejected in destination filenames for cross-platform
// compatibility.
const invalidNameChars = `<>:"|?*`

// ValidateDestination checks that a computed destination path is safe to
// write: not under a system directory, within the path length limit, and
// free of invalid filename characters.
func ValidateDestination(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolving destination: %w", err)
	}

	for _, dir := range systemDirs {
		if abs == dir || strings.HasPrefix(abs, dir+string(filepath.Separator)) {
			return fmt.Errorf("cannot organize files into system directory: %s", dir)
		}
	}

	if len(abs) > maxPathLength {
		return fmt.Errorf("path too long (max %d characters)", maxPathLength)
	}

	if strings.ContainsAny(filepath.Base(abs), invalidNameChars) {
		return fmt.Errorf("filename contains invalid characters: %s", invalidNameChars)
	}

	return nil
}

// EstimateDiskSpace returns the bytes the given plans will consume: the full
// file size for copies, plus the backup copy for moves when backups are
// enabled. Skipped plans cost nothing.
func EstimateDiskSpace(plans []*model.OrganizationPlan, backupsEnabled bool) int64 {
	var total int64
	for _, plan := range plans {
		if plan.Skip {
			continue
		}
		if plan.Operation == model.OperationCopy {
			total += plan.Record.Size
		} else if backupsEnabled {
			total += plan.Record.Size
		}
	}
	return total
}
