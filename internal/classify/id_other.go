//go:build !linux && !darwin

package classify

import "io/fs"

// FileID identifies a filesystem node by device and inode.
type FileID struct {
	Dev uint64
	Ino uint64
}

// DeviceID is unavailable on this platform; mount-boundary detection degrades
// to never skipping.
func DeviceID(info fs.FileInfo) (uint64, bool) {
	return 0, false
}

// ID is unavailable on this platform; loop defense falls back to path-based
// visit tracking in the walker.
func ID(info fs.FileInfo) (FileID, bool) {
	return FileID{}, false
}
