//go:build unix

package fs

import (
	"fmt"
	"syscall"
)

// DiskFree returns the number of bytes available to unprivileged users on
// the filesystem containing path.
func (m *OSFilesystemManager) DiskFree(path string) (uint64, error) {
	var stat syscall.Statfs_t
	if err := syscall.Statfs(path, &stat); err != nil {
		return 0, fmt.Errorf("statfs %s: %w", path, err)
	}
	return stat.Bavail * uint64(stat.Bsize), nil
}
