// Package walker implements the depth-first filesystem traversal behind a
// scan. It emits one Entry per visited file and, once all of a directory's
// descendants have been emitted, one aggregate Entry for the directory
// itself (bottom-up completion).
package walker

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/devpatel/spacelens/internal/classify"
)

// Root-level failures. Per-entry failures never surface here; they degrade to
// warnings and the walk continues.
var (
	ErrRootUnreadable = errors.New("root unreadable")
	ErrNotADirectory  = errors.New("not a directory")
)

// NoExtension is the reserved extension bucket for files without one.
const NoExtension = "(none)"

// Entry is an immutable snapshot of one filesystem node taken at visit time.
// For directories, Size is the aggregate of all non-skipped descendants and
// Ext is empty.
type Entry struct {
	Path  string
	Size  int64
	IsDir bool
	Ext   string
}

// VisitFunc receives entries in emission order: files as encountered,
// directories after all of their children.
type VisitFunc func(Entry)

// Walker traverses a single root. A Walker is restartable (each Walk resets
// its state) but not safe for concurrent Walk calls.
type Walker struct {
	classifier classify.Classifier
	onWarn     func(string)
	warnings   []string
	visited    map[classify.FileID]struct{}
	seenPaths  map[string]struct{}
}

// New creates a walker using the given classifier for per-entry decisions.
func New(c classify.Classifier) *Walker {
	return &Walker{classifier: c}
}

// OnWarning installs a sink for per-entry warnings. Without one, warnings
// accumulate internally and are available via Warnings.
func (w *Walker) OnWarning(fn func(string)) {
	w.onWarn = fn
}

// Warnings returns the warnings collected during the last Walk.
func (w *Walker) Warnings() []string {
	out := make([]string, len(w.warnings))
	copy(out, w.warnings)
	return out
}

// Walk traverses root depth-first, invoking visit for every non-skipped
// entry and finally for the root's own aggregate. It returns
// ErrRootUnreadable or ErrNotADirectory for unusable roots, and ctx's error
// if cancelled. Cancellation is checked once per directory, so the walk
// stops within one directory's entry count of the signal.
func (w *Walker) Walk(ctx context.Context, root string, visit VisitFunc) error {
	w.warnings = w.warnings[:0]
	w.visited = make(map[classify.FileID]struct{})
	w.seenPaths = make(map[string]struct{})

	info, err := os.Lstat(root)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRootUnreadable, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s", ErrNotADirectory, root)
	}
	w.markVisited(root, info)

	if err := ctx.Err(); err != nil {
		return err
	}

	// The root is listed here, not in walkDir: a root that exists but
	// cannot be listed fails the whole walk. Only descendants degrade to
	// warnings.
	entries, err := os.ReadDir(root)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRootUnreadable, err)
	}

	total, err := w.walkEntries(ctx, root, entries, visit)
	if err != nil {
		return err
	}
	visit(Entry{Path: root, Size: total, IsDir: true})
	return nil
}

// walkDir lists dir, visits its files, recurses into subdirectories, and
// returns the aggregate size of everything visited beneath dir.
func (w *Walker) walkDir(ctx context.Context, dir string, visit VisitFunc) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		// A per-entry failure below the root: either permissions or a
		// directory deleted mid-walk.
		if os.IsNotExist(err) {
			w.warn(fmt.Sprintf("path gone during walk: %s", dir))
		} else {
			w.warn(fmt.Sprintf("cannot list %s: %v", dir, err))
		}
		return 0, nil
	}

	return w.walkEntries(ctx, dir, entries, visit)
}

// walkEntries visits one directory's listing and returns the aggregate size
// of everything visited beneath it.
func (w *Walker) walkEntries(ctx context.Context, dir string, entries []os.DirEntry, visit VisitFunc) (int64, error) {
	var total int64
	for _, de := range entries {
		path := filepath.Join(dir, de.Name())

		info, ierr := de.Info()
		if ierr != nil && os.IsNotExist(ierr) {
			w.warn(fmt.Sprintf("path gone during walk: %s", path))
			continue
		}

		switch d := w.classifier.Classify(path, info, ierr); d {
		case classify.Descend:
		case classify.SkipDenied:
			w.warn(fmt.Sprintf("skipped %s: %s", path, d))
			continue
		case classify.SkipMountBoundary:
			w.warn(fmt.Sprintf("skipped %s: %s", path, d))
			continue
		default:
			// Symlinks and reparse points are skipped silently; they are
			// expected and not a degradation of the result.
			continue
		}

		if info.IsDir() {
			if !w.markVisited(path, info) {
				continue
			}
			sub, err := w.walkDir(ctx, path, visit)
			total += sub
			if err != nil {
				return total, err
			}
			visit(Entry{Path: path, Size: sub, IsDir: true})
			continue
		}

		size := info.Size()
		total += size
		visit(Entry{Path: path, Size: size, Ext: NormalizeExt(de.Name())})
	}

	return total, nil
}

// markVisited records a directory in the visited set and reports whether it
// was new. Keyed by dev/inode where available so that junction-style loops
// that evade symlink detection still terminate; falls back to cleaned paths.
func (w *Walker) markVisited(path string, info os.FileInfo) bool {
	if id, ok := classify.ID(info); ok {
		if _, seen := w.visited[id]; seen {
			return false
		}
		w.visited[id] = struct{}{}
		return true
	}
	clean := filepath.Clean(path)
	if _, seen := w.seenPaths[clean]; seen {
		return false
	}
	w.seenPaths[clean] = struct{}{}
	return true
}

func (w *Walker) warn(msg string) {
	if w.onWarn != nil {
		w.onWarn(msg)
		return
	}
	w.warnings = append(w.warnings, msg)
}

// NormalizeExt lowercases a file name's extension and strips the leading
// dot. Files without an extension land in the NoExtension bucket.
func NormalizeExt(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	ext = strings.TrimPrefix(ext, ".")
	if ext == "" {
		return NoExtension
	}
	return ext
}
