// Package aggregate folds a walker's entry stream into running totals: total
// size, per-extension breakdown, and the N largest files. The fold is
// streaming, so a consistent partial result is available at any prefix of
// the stream without rescanning.
package aggregate

import (
	"container/heap"
	"sort"
	"sync/atomic"

	"github.com/devpatel/spacelens/internal/walker"
)

// DefaultTopN is the number of largest files tracked when none is requested.
const DefaultTopN = 10

// FileStat is one file path with its size.
type FileStat struct {
	Path string
	Size int64
}

// ExtStat accumulates file count and total size for one extension bucket.
type ExtStat struct {
	Count int64
	Size  int64
}

// Result is an immutable aggregation snapshot. Once returned from Snapshot
// it is never mutated; readers may hold it indefinitely.
type Result struct {
	TotalBytes int64
	FileCount  int64
	DirCount   int64
	// TopFiles is ordered descending by size, ties broken by path ascending.
	TopFiles []FileStat
	// Extensions maps normalized extensions (lowercase, no leading dot,
	// walker.NoExtension for none) to their stats.
	Extensions map[string]ExtStat
}

// Aggregator consumes entries on the scan goroutine and publishes immutable
// snapshots for concurrent readers. Add and Flush must be called from a
// single goroutine; Snapshot and Visited are safe from any goroutine.
type Aggregator struct {
	topN int

	totalBytes int64
	fileCount  int64
	dirCount   int64
	exts       map[string]ExtStat
	top        topHeap

	visited atomic.Int64
	snap    atomic.Pointer[Result]
}

// New creates an aggregator tracking the topN largest files.
func New(topN int) *Aggregator {
	if topN <= 0 {
		topN = DefaultTopN
	}
	a := &Aggregator{
		topN: topN,
		exts: make(map[string]ExtStat),
		top:  make(topHeap, 0, topN),
	}
	a.snap.Store(&Result{Extensions: map[string]ExtStat{}})
	return a
}

// Add folds one entry into the running totals. Directory entries mark the
// completion of a subtree, so each one also publishes a fresh snapshot;
// their sizes are aggregates of files already counted and do not contribute
// to the total again.
func (a *Aggregator) Add(e walker.Entry) {
	a.visited.Add(1)

	if e.IsDir {
		a.dirCount++
		a.publish()
		return
	}

	a.totalBytes += e.Size
	a.fileCount++

	stat := a.exts[e.Ext]
	stat.Count++
	stat.Size += e.Size
	a.exts[e.Ext] = stat

	cand := FileStat{Path: e.Path, Size: e.Size}
	if len(a.top) < a.topN {
		heap.Push(&a.top, cand)
	} else if beats(cand, a.top[0]) {
		a.top[0] = cand
		heap.Fix(&a.top, 0)
	}
}

// Flush publishes a snapshot of the current state. Called by the session
// when the walk finishes or is cancelled, so the final Poll observes every
// entry that was folded.
func (a *Aggregator) Flush() {
	a.publish()
}

// Snapshot returns the most recently published result. The returned value is
// immutable; readers never observe a partially updated total.
func (a *Aggregator) Snapshot() *Result {
	return a.snap.Load()
}

// Visited returns the monotonically increasing count of folded entries.
func (a *Aggregator) Visited() int64 {
	return a.visited.Load()
}

// publish builds an immutable Result from the private state and swaps it in
// atomically. Runs on the scan goroutine only.
func (a *Aggregator) publish() {
	exts := make(map[string]ExtStat, len(a.exts))
	for k, v := range a.exts {
		exts[k] = v
	}

	top := make([]FileStat, len(a.top))
	copy(top, a.top)
	sort.Slice(top, func(i, j int) bool {
		if top[i].Size != top[j].Size {
			return top[i].Size > top[j].Size
		}
		return top[i].Path < top[j].Path
	})

	a.snap.Store(&Result{
		TotalBytes: a.totalBytes,
		FileCount:  a.fileCount,
		DirCount:   a.dirCount,
		TopFiles:   top,
		Extensions: exts,
	})
}

// beats reports whether a should displace b in the top set. Ties on size go
// to the lexicographically smaller path so results are deterministic.
func beats(a, b FileStat) bool {
	if a.Size != b.Size {
		return a.Size > b.Size
	}
	return a.Path < b.Path
}

// topHeap is a bounded min-heap: the weakest tracked file sits at index 0,
// so each new candidate costs O(log N) regardless of tree size.
type topHeap []FileStat

func (h topHeap) Len() int { return len(h) }

func (h topHeap) Less(i, j int) bool {
	// Inverted beats: the heap surfaces the entry most eligible for eviction.
	return beats(h[j], h[i])
}

func (h topHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *topHeap) Push(x any) { *h = append(*h, x.(FileStat)) }

func (h *topHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}
