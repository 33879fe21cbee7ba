// Package classify decides whether the walker may descend into a filesystem
// entry. Decisions are made purely from metadata the caller already fetched;
// the classifier never touches the filesystem itself.
package classify

import (
	"io/fs"
	"os"
)

// Decision is the classification of a single filesystem entry.
type Decision int

const (
	// Descend means the entry is safe to visit (and recurse into, for directories).
	Descend Decision = iota
	// SkipSymlink marks symbolic links, which are never followed.
	SkipSymlink
	// SkipMountBoundary marks directories living on a different volume than
	// the scan root. Crossing would silently add a foreign device's usage to
	// the root's total.
	SkipMountBoundary
	// SkipDenied marks entries whose metadata could not be read due to
	// missing permissions. Recorded as a warning, never fatal.
	SkipDenied
	// SkipReparsePoint marks irregular entries (junctions, sockets, device
	// nodes) that evade plain symlink detection.
	SkipReparsePoint
)

// String returns a short label for warnings and logs.
func (d Decision) String() string {
	switch d {
	case Descend:
		return "descend"
	case SkipSymlink:
		return "symlink"
	case SkipMountBoundary:
		return "mount-boundary"
	case SkipDenied:
		return "permission-denied"
	case SkipReparsePoint:
		return "reparse-point"
	default:
		return "unknown"
	}
}

// Classifier is the decision function consulted by the walker for every
// entry. Implementations must be pure: no filesystem calls, no side effects.
type Classifier interface {
	Classify(path string, info fs.FileInfo, err error) Decision
}

// RootClassifier classifies entries relative to a scan root: symlinks and
// reparse points are skipped outright, and directories on a different device
// than the root are treated as mount boundaries.
type RootClassifier struct {
	rootDev    uint64
	hasRootDev bool
}

// ForRoot builds a classifier anchored at root. The root must exist and be
// statable; its device ID becomes the reference for boundary detection. On
// platforms without device IDs boundary detection is disabled.
func ForRoot(root string) (*RootClassifier, error) {
	info, err := os.Lstat(root)
	if err != nil {
		return nil, err
	}

	c := &RootClassifier{}
	if dev, ok := DeviceID(info); ok {
		c.rootDev = dev
		c.hasRootDev = true
	}
	return c, nil
}

// Classify implements Classifier. The err argument carries a metadata-fetch
// failure for the entry, if any; the caller resolves vanished entries itself,
// so any error seen here is an access problem.
func (c *RootClassifier) Classify(path string, info fs.FileInfo, err error) Decision {
	if err != nil {
		return SkipDenied
	}

	mode := info.Mode()
	switch {
	case mode&os.ModeSymlink != 0:
		return SkipSymlink
	case mode&os.ModeIrregular != 0:
		return SkipReparsePoint
	}

	if info.IsDir() && c.hasRootDev {
		if dev, ok := DeviceID(info); ok && dev != c.rootDev {
			return SkipMountBoundary
		}
	}

	return Descend
}
