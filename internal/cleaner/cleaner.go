// Package cleaner is the reversible-delete collaborator: requested paths
// are moved into a recoverable holding area instead of being erased, and a
// manifest records enough to restore each one. The engine never deletes
// permanently.
package cleaner

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"syscall"
	"time"

	"gopkg.in/yaml.v3"
)

const manifestName = "manifest.yaml"

// DeleteResult categorizes the outcome of one RequestDelete batch. A path
// lands in exactly one set; the batch itself never aborts.
type DeleteResult struct {
	Succeeded        []string
	SkippedInUse     []string
	SkippedProtected []string
	// Errors carries diagnostics for paths that failed for reasons outside
	// the skip categories.
	Errors []*DeletionError
}

// HeldFile is one manifest entry in the holding area.
type HeldFile struct {
	Name         string    `yaml:"name"`
	OriginalPath string    `yaml:"original_path"`
	Size         int64     `yaml:"size"`
	IsDir        bool      `yaml:"is_dir"`
	DeletedAt    time.Time `yaml:"deleted_at"`
}

type manifest struct {
	Files []HeldFile `yaml:"files"`
}

// Cleaner moves paths into its holding directory and restores them on
// request. The protect callback vetoes paths that must never be touched.
type Cleaner struct {
	holdingDir string
	protect    func(string) bool
}

// New creates a cleaner rooted at holdingDir. protect may be nil.
func New(holdingDir string, protect func(string) bool) *Cleaner {
	return &Cleaner{holdingDir: holdingDir, protect: protect}
}

// HoldingDir returns the recoverable holding area path.
func (c *Cleaner) HoldingDir() string {
	return c.holdingDir
}

// RequestDelete moves each requested path into the holding area. Paths are
// processed in sorted order for determinism. Per-path failures are
// categorized, never fatal to the batch:
//   - protected paths (and anything inside the holding area) are skipped
//   - paths held open by another process are reported in SkippedInUse
//   - already-missing paths count as succeeded; the goal state is reached
func (c *Cleaner) RequestDelete(paths []string) (*DeleteResult, error) {
	if err := os.MkdirAll(c.holdingDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating holding area: %w", err)
	}

	m, err := c.loadManifest()
	if err != nil {
		return nil, err
	}

	sorted := make([]string, len(paths))
	copy(sorted, paths)
	sort.Strings(sorted)

	result := &DeleteResult{}
	for _, path := range sorted {
		c.deleteOne(path, m, result)
	}

	if err := c.saveManifest(m); err != nil {
		return result, err
	}
	return result, nil
}

func (c *Cleaner) deleteOne(path string, m *manifest, result *DeleteResult) {
	clean := filepath.Clean(path)

	if c.isProtected(clean) {
		result.SkippedProtected = append(result.SkippedProtected, clean)
		return
	}

	// Lstat, never Stat: the requested path must not be resolved through a
	// symlink into something the caller did not name.
	info, err := os.Lstat(clean)
	if err != nil {
		if os.IsNotExist(err) {
			result.Succeeded = append(result.Succeeded, clean)
			return
		}
		c.categorize(clean, err, result)
		return
	}

	name := c.uniqueName(filepath.Base(clean))
	held := filepath.Join(c.holdingDir, name)

	if err := c.move(clean, held, info.IsDir()); err != nil {
		c.categorize(clean, err, result)
		return
	}

	m.Files = append(m.Files, HeldFile{
		Name:         name,
		OriginalPath: clean,
		Size:         info.Size(),
		IsDir:        info.IsDir(),
		DeletedAt:    time.Now(),
	})
	result.Succeeded = append(result.Succeeded, clean)
}

// categorize routes a per-path failure into the matching skip set.
func (c *Cleaner) categorize(path string, err error, result *DeleteResult) {
	delErr := CategorizeError(path, err)
	switch delErr.Reason {
	case ReasonFileInUse:
		result.SkippedInUse = append(result.SkippedInUse, path)
	case ReasonPermissionDenied:
		result.SkippedProtected = append(result.SkippedProtected, path)
	case ReasonFileNotFound:
		result.Succeeded = append(result.Succeeded, path)
	default:
		result.Errors = append(result.Errors, delErr)
	}
}

// isProtected rejects platform/config protected paths and anything touching
// the holding area itself.
func (c *Cleaner) isProtected(path string) bool {
	holding := filepath.Clean(c.holdingDir)
	if path == holding || strings.HasPrefix(path, holding+string(filepath.Separator)) {
		return true
	}
	if c.protect != nil && c.protect(path) {
		return true
	}
	return false
}

// List returns the current holding-area manifest, newest first.
func (c *Cleaner) List() ([]HeldFile, error) {
	m, err := c.loadManifest()
	if err != nil {
		return nil, err
	}
	out := make([]HeldFile, len(m.Files))
	copy(out, m.Files)
	sort.Slice(out, func(i, j int) bool { return out[i].DeletedAt.After(out[j].DeletedAt) })
	return out, nil
}

// Restore moves a held entry back to its original path. It refuses to
// overwrite anything recreated at the original path since deletion.
func (c *Cleaner) Restore(name string) error {
	m, err := c.loadManifest()
	if err != nil {
		return err
	}

	idx := -1
	for i, f := range m.Files {
		if f.Name == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("no held entry named %q", name)
	}

	entry := m.Files[idx]
	if _, err := os.Lstat(entry.OriginalPath); err == nil {
		return fmt.Errorf("restore target already exists: %s", entry.OriginalPath)
	}
	if err := os.MkdirAll(filepath.Dir(entry.OriginalPath), 0o755); err != nil {
		return err
	}

	held := filepath.Join(c.holdingDir, entry.Name)
	if err := c.move(held, entry.OriginalPath, entry.IsDir); err != nil {
		return fmt.Errorf("restoring %s: %w", entry.OriginalPath, err)
	}

	m.Files = append(m.Files[:idx], m.Files[idx+1:]...)
	return c.saveManifest(m)
}

// move renames src to dst, falling back to copy-and-remove when the holding
// area lives on a different device than the source.
func (c *Cleaner) move(src, dst string, isDir bool) error {
	err := os.Rename(src, dst)
	if err == nil {
		return nil
	}

	var linkErr *os.LinkError
	if errors.As(err, &linkErr) && errors.Is(linkErr.Err, syscall.EXDEV) {
		if cerr := copyTree(src, dst, isDir); cerr != nil {
			os.RemoveAll(dst)
			return cerr
		}
		return os.RemoveAll(src)
	}
	return err
}

// uniqueName produces a holding-area name that cannot collide with earlier
// deletions of same-named paths.
func (c *Cleaner) uniqueName(base string) string {
	name := fmt.Sprintf("%s.%d", base, time.Now().UnixNano())
	for i := 0; ; i++ {
		candidate := name
		if i > 0 {
			candidate = fmt.Sprintf("%s.%d", name, i)
		}
		if _, err := os.Lstat(filepath.Join(c.holdingDir, candidate)); os.IsNotExist(err) {
			return candidate
		}
	}
}

func (c *Cleaner) loadManifest() (*manifest, error) {
	m := &manifest{}
	data, err := os.ReadFile(filepath.Join(c.holdingDir, manifestName))
	if err != nil {
		if os.IsNotExist(err) {
			return m, nil
		}
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	if err := yaml.Unmarshal(data, m); err != nil {
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}
	return m, nil
}

func (c *Cleaner) saveManifest(m *manifest) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(c.holdingDir, manifestName), data, 0o644)
}

// copyTree copies a file or directory tree preserving modes.
func copyTree(src, dst string, isDir bool) error {
	if !isDir {
		return copyFile(src, dst)
	}
	return filepath.Walk(src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if info.IsDir() {
			return os.MkdirAll(target, info.Mode().Perm())
		}
		if info.Mode()&os.ModeSymlink != 0 {
			link, err := os.Readlink(path)
			if err != nil {
				return err
			}
			return os.Symlink(link, target)
		}
		return copyFile(path, target)
	})
}

func copyFile(src, dst string) error {
	info, err := os.Lstat(src)
	if err != nil {
		return err
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
