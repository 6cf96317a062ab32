// Package source implements the file scanners. Each scanner discovers files
// from one kind of location (local directories, GitHub repositories, an
// S3-backed cloud drive) and describes them as file records for planning.
package source

import (
	"context"

	"fo-go/internal/model"
)

// Scanner discovers files from a single configured source.
type Scanner interface {
	// Kind identifies the source type this scanner handles.
	Kind() model.SourceKind

	// Scan discovers files and returns them as a ScanResult. Per-file
	// problems are recorded in the result's Errors rather than aborting
	// the scan.
	Scan(ctx context.Context) (*model.ScanResult, error)
}
