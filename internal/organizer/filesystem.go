package organizer

import (
	"io"
	"io/fs"
	"time"
)

// FilesystemManager provides an interface for the filesystem operations the
// planner, executor, and undoer need. It abstracts file access to enable
// testing without touching the real filesystem.
type FilesystemManager interface {
	// Stat returns fresh file info for a path.
	Stat(path string) (fs.FileInfo, error)

	// Exists reports whether a path currently exists.
	Exists(path string) bool

	// Open opens a file for reading.
	Open(path string) (io.ReadCloser, error)

	// Create creates or truncates a file for writing, with mode 0644.
	Create(path string) (io.WriteCloser, error)

	// MkdirAll creates a directory and any missing parents.
	MkdirAll(path string) error

	// CopyFile duplicates src at dst, preserving the file mode.
	// The source is retained.
	CopyFile(src, dst string) error

	// MoveFile relocates src to dst. Implementations fall back to
	// copy-and-remove when a rename crosses filesystems.
	MoveFile(src, dst string) error

	// Remove deletes a single file.
	Remove(path string) error

	// Chtimes sets the access and modification times of a path.
	Chtimes(path string, atime, mtime time.Time) error

	// DiskFree returns the free bytes available on the filesystem
	// containing path.
	DiskFree(path string) (uint64, error)
}
