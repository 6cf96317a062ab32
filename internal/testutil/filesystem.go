package testutil

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"time"

	"fo-go/internal/organizer"
)

// MockFile represents a file in the mock filesystem.
type MockFile struct {
	Content     []byte
	Permissions fs.FileMode
	ModTime     time.Time
	IsDirectory bool
}

// MockFilesystemManager is an in-memory filesystem for testing. Parent
// directories are not enforced; any path can be written directly.
type MockFilesystemManager struct {
	files map[string]*MockFile

	// FreeSpace is returned by DiskFree.
	FreeSpace uint64

	// FailCopy and FailMove make the named destination paths error, for
	// exercising partial-failure handling.
	FailCopy map[string]bool
	FailMove map[string]bool
}

var _ organizer.FilesystemManager = (*MockFilesystemManager)(nil)

// NewMockFilesystemManager creates a new mock filesystem.
func NewMockFilesystemManager() *MockFilesystemManager {
	return &MockFilesystemManager{
		files:     make(map[string]*MockFile),
		FreeSpace: 1 << 40,
		FailCopy:  make(map[string]bool),
		FailMove:  make(map[string]bool),
	}
}

// AddFile adds a file with the given content and modification time.
func (m *MockFilesystemManager) AddFile(path string, content []byte, modTime time.Time) {
	m.files[path] = &MockFile{
		Content:     content,
		Permissions: 0644,
		ModTime:     modTime,
	}
}

// AddDirectory adds a directory.
func (m *MockFilesystemManager) AddDirectory(path string) {
	m.files[path] = &MockFile{
		Permissions: 0755,
		ModTime:     time.Now(),
		IsDirectory: true,
	}
}

// Content returns the content of a file, or nil if it does not exist.
func (m *MockFilesystemManager) Content(path string) []byte {
	f, ok := m.files[path]
	if !ok {
		return nil
	}
	return f.Content
}

func (m *MockFilesystemManager) Stat(path string) (fs.FileInfo, error) {
	file, ok := m.files[path]
	if !ok {
		return nil, fmt.Errorf("file not found: %s", path)
	}
	return &mockFileInfo{
		name:    filepath.Base(path),
		size:    int64(len(file.Content)),
		mode:    file.Permissions,
		modTime: file.ModTime,
		isDir:   file.IsDirectory,
	}, nil
}

func (m *MockFilesystemManager) Exists(path string) bool {
	_, ok := m.files[path]
	return ok
}

func (m *MockFilesystemManager) Open(path string) (io.ReadCloser, error) {
	file, ok := m.files[path]
	if !ok {
		return nil, fmt.Errorf("file not found: %s", path)
	}
	if file.IsDirectory {
		return nil, fmt.Errorf("cannot open directory: %s", path)
	}
	return io.NopCloser(bytes.NewReader(file.Content)), nil
}

func (m *MockFilesystemManager) Create(path string) (io.WriteCloser, error) {
	return &mockWriter{fs: m, path: path}, nil
}

func (m *MockFilesystemManager) MkdirAll(path string) error {
	for p := path; p != "/" && p != "." && p != ""; p = filepath.Dir(p) {
		if f, ok := m.files[p]; ok && !f.IsDirectory {
			return fmt.Errorf("not a directory: %s", p)
		}
		m.AddDirectory(p)
	}
	return nil
}

func (m *MockFilesystemManager) CopyFile(src, dst string) error {
	if m.FailCopy[dst] {
		return fmt.Errorf("copy failed: %s", dst)
	}
	file, ok := m.files[src]
	if !ok {
		return fmt.Errorf("file not found: %s", src)
	}
	m.files[dst] = &MockFile{
		Content:     append([]byte(nil), file.Content...),
		Permissions: file.Permissions,
		ModTime:     time.Now(),
	}
	return nil
}

func (m *MockFilesystemManager) MoveFile(src, dst string) error {
	if m.FailMove[dst] {
		return fmt.Errorf("move failed: %s", dst)
	}
	file, ok := m.files[src]
	if !ok {
		return fmt.Errorf("file not found: %s", src)
	}
	m.files[dst] = file
	delete(m.files, src)
	return nil
}

func (m *MockFilesystemManager) Remove(path string) error {
	if _, ok := m.files[path]; !ok {
		return fmt.Errorf("file not found: %s", path)
	}
	delete(m.files, path)
	return nil
}

func (m *MockFilesystemManager) Chtimes(path string, atime, mtime time.Time) error {
	file, ok := m.files[path]
	if !ok {
		return fmt.Errorf("file not found: %s", path)
	}
	file.ModTime = mtime
	return nil
}

func (m *MockFilesystemManager) DiskFree(path string) (uint64, error) {
	return m.FreeSpace, nil
}

// mockWriter buffers writes and commits them to the mock filesystem on Close.
type mockWriter struct {
	fs   *MockFilesystemManager
	path string
	buf  bytes.Buffer
}

func (w *mockWriter) Write(p []byte) (int, error) {
	return w.buf.Write(p)
}

func (w *mockWriter) Close() error {
	w.fs.files[w.path] = &MockFile{
		Content:     append([]byte(nil), w.buf.Bytes()...),
		Permissions: 0644,
		ModTime:     time.Now(),
	}
	return nil
}

// mockFileInfo implements fs.FileInfo.
type mockFileInfo struct {
	name    string
	size    int64
	mode    fs.FileMode
	modTime time.Time
	isDir   bool
}

func (m *mockFileInfo) Name() string       { return m.name }
func (m *mockFileInfo) Size() int64        { return m.size }
func (m *mockFileInfo) Mode() fs.FileMode  { return m.mode }
func (m *mockFileInfo) ModTime() time.Time { return m.modTime }
func (m *mockFileInfo) IsDir() bool        { return m.isDir }
func (m *mockFileInfo) Sys() any           { return nil }
