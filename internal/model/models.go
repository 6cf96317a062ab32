package model

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"
)

// SourceKind identifies where a file record was discovered.
type SourceKind string

const (
	SourceLocal      SourceKind = "local"
	SourceVCS        SourceKind = "vcs"
	SourceCloudDrive SourceKind = "clouddrive"
)

// Valid reports whether the source kind is one of the known values.
func (s SourceKind) Valid() bool {
	return s == SourceLocal || s == SourceVCS || s == SourceCloudDrive
}

// OperationKind is the type of file operation performed on a plan.
type OperationKind string

const (
	OperationCopy OperationKind = "copy"
	OperationMove OperationKind = "move"
)

// Valid reports whether the operation kind is one of the known values.
func (o OperationKind) Valid() bool {
	return o == OperationCopy || o == OperationMove
}

// ConflictStrategy is the configured policy for resolving destination conflicts.
type ConflictStrategy string

const (
	ConflictSkip       ConflictStrategy = "skip"
	ConflictRename     ConflictStrategy = "rename"
	ConflictPrompt     ConflictStrategy = "prompt"
	ConflictKeepNewest ConflictStrategy = "keep_newest"
	ConflictKeepOldest ConflictStrategy = "keep_oldest"
	ConflictOverwrite  ConflictStrategy = "overwrite"
)

// Valid reports whether the strategy is one of the known values.
func (c ConflictStrategy) Valid() bool {
	switch c {
	case ConflictSkip, ConflictRename, ConflictPrompt,
		ConflictKeepNewest, ConflictKeepOldest, ConflictOverwrite:
		return true
	}
	return false
}

// FileRecord is the normalized, source-agnostic description of one discovered
// file. Records are created once by a source scanner; the rule engine fills
// Project and Category lazily if they are absent. Records are transient per
// run and never persisted.
type FileRecord struct {
	SourcePath string     // absolute path, existing at scan time
	Source     SourceKind // which scanner produced this record
	Filename   string
	Extension  string // lowercase, including leading dot, or ""
	Size       int64
	CreatedAt  time.Time
	ModifiedAt time.Time

	// Organization hints.
	Project      string
	Category     string
	Repository   string // originating repository identifier, e.g. "owner/name"
	ParentFolder string

	// Free-form extensible metadata set by scanners.
	Metadata map[string]string
}

// NewFileRecord builds a FileRecord from a path and its stat info.
// The extension is always derived as the lowercased suffix of the filename.
func NewFileRecord(path string, kind SourceKind, info fs.FileInfo) *FileRecord {
	name := filepath.Base(path)
	return &FileRecord{
		SourcePath:   path,
		Source:       kind,
		Filename:     name,
		Extension:    strings.ToLower(filepath.Ext(name)),
		Size:         info.Size(),
		CreatedAt:    info.ModTime(),
		ModifiedAt:   info.ModTime(),
		ParentFolder: filepath.Base(filepath.Dir(path)),
	}
}

// Stem returns the filename without its extension.
func (r *FileRecord) Stem() string {
	return strings.TrimSuffix(r.Filename, filepath.Ext(r.Filename))
}

// OrganizationPlan is the computed intent to copy or move one file to one
// destination. Plans are created by the plan builder, optionally mutated once
// by the conflict resolver, and consumed read-only by the executor.
type OrganizationPlan struct {
	Record      *FileRecord
	Destination string // absolute destination path
	Operation   OperationKind

	// Conflict is true when the destination was occupied at planning time.
	// When Conflict is true, Resolution records the strategy applied.
	Conflict   bool
	Resolution ConflictStrategy

	// Skip is true when the executor must not touch the filesystem for this
	// entry. SkipReason is a human-readable explanation.
	Skip       bool
	SkipReason string
}

// String renders the plan in a compact one-line form for previews.
func (p *OrganizationPlan) String() string {
	arrow := "->"
	if p.Operation == OperationMove {
		arrow = "=>"
	}
	status := ""
	if p.Skip {
		status = fmt.Sprintf(" [SKIP: %s]", p.SkipReason)
	} else if p.Conflict {
		res := "unresolved"
		if p.Resolution != "" {
			res = string(p.Resolution)
		}
		status = fmt.Sprintf(" [CONFLICT: %s]", res)
	}
	return fmt.Sprintf("%s %s %s%s", p.Record.SourcePath, arrow, p.Destination, status)
}

// Transaction is the recorded outcome of attempting one plan. Transactions
// are appended in batches to the transaction log and removed only by a
// successful undo or explicit retention pruning.
//
// Invariants: Success == false implies Error is non-empty; BackupPath is set
// only when a backup was actually created before a destructive move.
type Transaction struct {
	ID          string        `json:"id"`
	Timestamp   time.Time     `json:"timestamp"`
	Operation   OperationKind `json:"operation"`
	SourcePath  string        `json:"source_path"`
	Destination string        `json:"destination_path"`
	Success     bool          `json:"success"`
	Error       string        `json:"error,omitempty"`
	BackupPath  string        `json:"backup_path,omitempty"`
}

// ScanResult aggregates the outcome of scanning one source: the records
// found, their total size, and per-source errors that did not abort the scan.
type ScanResult struct {
	Source     SourceKind
	SourcePath string
	Files      []*FileRecord
	TotalSize  int64
	ScanTime   time.Time
	Errors     []string
}

// Count returns the number of files discovered.
func (r *ScanResult) Count() int { return len(r.Files) }
