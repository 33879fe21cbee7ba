// Package cachescan locates well-known cache and temp folders on the host
// and sizes each one with the walker/aggregator pipeline. Candidates are
// independent, so they are scanned by a small bounded pool of workers; disk
// I/O parallelism flattens out quickly, and over-parallelizing thrashes
// spinning media.
package cachescan

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/devpatel/spacelens/internal/aggregate"
	"github.com/devpatel/spacelens/internal/classify"
	"github.com/devpatel/spacelens/internal/platform"
	"github.com/devpatel/spacelens/internal/walker"
)

// DefaultWorkers is the pool size used when none is configured.
const DefaultWorkers = 3

// Candidate is one resolved cache-folder template with its measured usage.
// A candidate whose folder exists but could not be scanned degrades to zero
// counts plus a warning rather than failing the whole locate.
type Candidate struct {
	Path        string
	Exists      bool
	SizeBytes   int64
	FileCount   int64
	FolderCount int64
}

// Locator resolves candidate templates and scans the existing ones.
type Locator struct {
	candidates []string
	workers    int

	mu       sync.Mutex
	warnings []string
}

// Option configures a Locator.
type Option func(*Locator)

// WithWorkers bounds the scanning pool. Values outside 1..8 are clamped.
func WithWorkers(n int) Option {
	return func(l *Locator) {
		if n < 1 {
			n = 1
		}
		if n > 8 {
			n = 8
		}
		l.workers = n
	}
}

// WithCandidates overrides the platform candidate list.
func WithCandidates(paths []string) Option {
	return func(l *Locator) { l.candidates = paths }
}

// New creates a locator over the host's candidate templates.
func New(info *platform.Info, opts ...Option) *Locator {
	l := &Locator{
		candidates: info.Candidates(),
		workers:    DefaultWorkers,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Locate resolves every candidate template and scans those that exist.
// Results come back in template order. Individual failures degrade the
// affected candidate only; ctx cancels outstanding scans.
func (l *Locator) Locate(ctx context.Context) []Candidate {
	l.mu.Lock()
	l.warnings = l.warnings[:0]
	l.mu.Unlock()

	jobs := make(chan string)
	results := make(chan Candidate)

	var wg sync.WaitGroup
	for i := 0; i < l.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range jobs {
				results <- l.scanOne(ctx, path)
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, path := range l.candidates {
			select {
			case jobs <- path:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	byPath := make(map[string]Candidate, len(l.candidates))
	for c := range results {
		byPath[c.Path] = c
	}

	out := make([]Candidate, 0, len(byPath))
	for _, path := range l.candidates {
		if c, ok := byPath[path]; ok {
			out = append(out, c)
		}
	}
	return out
}

// Warnings returns per-candidate warnings from the last Locate.
func (l *Locator) Warnings() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.warnings))
	copy(out, l.warnings)
	return out
}

// scanOne sizes a single candidate folder. FolderCount counts the
// subdirectories beneath the candidate, not the candidate itself.
func (l *Locator) scanOne(ctx context.Context, path string) Candidate {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return Candidate{Path: path, Exists: false}
	}

	degraded := Candidate{Path: path, Exists: true}

	cls, err := classify.ForRoot(path)
	if err != nil {
		l.warn(fmt.Sprintf("cache candidate %s: %v", path, err))
		return degraded
	}

	w := walker.New(cls)
	w.OnWarning(func(msg string) {
		l.warn(fmt.Sprintf("cache candidate %s: %s", path, msg))
	})
	agg := aggregate.New(1)
	if err := w.Walk(ctx, path, agg.Add); err != nil {
		l.warn(fmt.Sprintf("cache candidate %s: %v", path, err))
		return degraded
	}
	agg.Flush()

	snap := agg.Snapshot()
	folders := snap.DirCount
	if folders > 0 {
		// The walk emits an aggregate for the candidate itself; only its
		// subdirectories count.
		folders--
	}
	return Candidate{
		Path:        path,
		Exists:      true,
		SizeBytes:   snap.TotalBytes,
		FileCount:   snap.FileCount,
		FolderCount: folders,
	}
}

func (l *Locator) warn(msg string) {
	l.mu.Lock()
	l.warnings = append(l.warnings, msg)
	l.mu.Unlock()
}
