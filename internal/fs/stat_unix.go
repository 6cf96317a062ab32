//go:build unix

package fs

import (
	iofs "io/fs"
	"syscall"
	"time"
)

// ChangeTime extracts the inode change time from a FileInfo. Birth time is
// not available on most Unix filesystems, so the change time is the closest
// stand-in for when a file appeared. Falls back to the modification time
// when the platform data is missing.
func ChangeTime(info iofs.FileInfo) time.Time {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return info.ModTime()
	}
	return time.Unix(stat.Ctim.Sec, stat.Ctim.Nsec)
}
