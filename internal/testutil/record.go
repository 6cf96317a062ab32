package testutil

import (
	"path/filepath"
	"strings"
	"time"

	"fo-go/internal/model"
)

// NewRecord builds a file record for a local file without touching the
// filesystem.
func NewRecord(path string, size int64, modTime time.Time) *model.FileRecord {
	name := filepath.Base(path)
	return &model.FileRecord{
		SourcePath:   path,
		Source:       model.SourceLocal,
		Filename:     name,
		Extension:    strings.ToLower(filepath.Ext(name)),
		Size:         size,
		CreatedAt:    modTime,
		ModifiedAt:   modTime,
		ParentFolder: filepath.Base(filepath.Dir(path)),
	}
}
