// Package dupes finds files with identical content under a root. Files are
// bucketed by size first so only same-sized files are ever hashed, and large
// files use a first+last chunk hash.
package dupes

import (
	"context"
	"io/fs"
	"sort"
	"sync"

	"github.com/charlievieth/fastwalk"
	"github.com/devpatel/spacelens/pkg/utils"
)

const (
	// DefaultMinSize skips tiny files; duplicates below 1KB are not worth
	// reporting.
	DefaultMinSize = 1024
	// quickHashThreshold switches to chunked hashing for large files.
	quickHashThreshold = 10 * 1024 * 1024
	quickHashChunk     = 1024 * 1024
)

// Group is a set of paths sharing identical content.
type Group struct {
	Size  int64
	Paths []string
	// WastedBytes is the space reclaimable by keeping one copy.
	WastedBytes int64
}

// Option configures a Find call.
type Option func(*options)

type options struct {
	minSize int64
}

// WithMinSize sets the smallest file size considered for grouping.
func WithMinSize(n int64) Option {
	return func(o *options) {
		if n > 0 {
			o.minSize = n
		}
	}
}

// Find scans root and returns duplicate groups ordered by wasted bytes,
// largest first. Unreadable files are skipped.
func Find(ctx context.Context, root string, opts ...Option) ([]Group, error) {
	o := options{minSize: DefaultMinSize}
	for _, opt := range opts {
		opt(&o)
	}

	type sized struct {
		path string
		size int64
	}

	var mu sync.Mutex
	bySize := make(map[int64][]sized)

	conf := fastwalk.Config{Follow: false}
	err := fastwalk.Walk(&conf, root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if ctx.Err() != nil {
			return fs.SkipAll
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}
		info, err := d.Info()
		if err != nil || info.Size() < o.minSize {
			return nil
		}
		mu.Lock()
		bySize[info.Size()] = append(bySize[info.Size()], sized{path: path, size: info.Size()})
		mu.Unlock()
		return nil
	})
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var groups []Group
	for size, files := range bySize {
		if len(files) < 2 {
			continue
		}

		byHash := make(map[string][]string)
		for _, f := range files {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			hash, err := hashFor(f.path, f.size)
			if err != nil {
				continue
			}
			byHash[hash] = append(byHash[hash], f.path)
		}

		for _, paths := range byHash {
			if len(paths) < 2 {
				continue
			}
			sort.Strings(paths)
			groups = append(groups, Group{
				Size:        size,
				Paths:       paths,
				WastedBytes: size * int64(len(paths)-1),
			})
		}
	}

	sort.Slice(groups, func(i, j int) bool {
		if groups[i].WastedBytes != groups[j].WastedBytes {
			return groups[i].WastedBytes > groups[j].WastedBytes
		}
		return groups[i].Paths[0] < groups[j].Paths[0]
	})
	return groups, nil
}

func hashFor(path string, size int64) (string, error) {
	if size > quickHashThreshold {
		return utils.FileDigestSparse(path, quickHashChunk)
	}
	return utils.FileDigest(path)
}
