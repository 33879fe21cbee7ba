//go:build linux || darwin

package classify

import (
	"io/fs"
	"syscall"
)

// FileID identifies a filesystem node by device and inode. Used by the walker
// to guard against revisiting a directory through a loop.
type FileID struct {
	Dev uint64
	Ino uint64
}

// DeviceID returns the device the entry lives on.
func DeviceID(info fs.FileInfo) (uint64, bool) {
	st, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return 0, false
	}
	return uint64(st.Dev), true
}

// ID returns the dev/inode pair for the entry.
func ID(info fs.FileInfo) (FileID, bool) {
	st, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return FileID{}, false
	}
	return FileID{Dev: uint64(st.Dev), Ino: uint64(st.Ino)}, true
}
