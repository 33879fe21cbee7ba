// Package reporter renders scan results for the CLI. Formatting is a
// presentation concern: the engine hands over raw byte counts and the
// reporter turns them into human-readable output.
package reporter

import (
	"fmt"
	"io"
	"sort"

	"github.com/devpatel/spacelens/internal/aggregate"
	"github.com/devpatel/spacelens/internal/cachescan"
	"github.com/devpatel/spacelens/internal/session"
	"github.com/dustin/go-humanize"
)

// Reporter writes text reports to a writer.
type Reporter struct {
	writer io.Writer
}

// New creates a new Reporter
func New(writer io.Writer) *Reporter {
	return &Reporter{writer: writer}
}

// ReportScan renders the final status of a scan session.
func (r *Reporter) ReportScan(root string, status session.Status) error {
	fmt.Fprintf(r.writer, "=== Scan of %s ===\n", root)
	fmt.Fprintf(r.writer, "State: %s\n", status.State)

	if status.State == session.StateFailed {
		fmt.Fprintf(r.writer, "Error: %v\n", status.Err)
		return nil
	}

	res := status.Result
	fmt.Fprintf(r.writer, "Total: %s across %d files (%d folders)\n",
		humanize.IBytes(uint64(res.TotalBytes)), res.FileCount, res.DirCount)

	if len(res.TopFiles) > 0 {
		fmt.Fprintf(r.writer, "\nLargest files:\n")
		for i, f := range res.TopFiles {
			fmt.Fprintf(r.writer, "  %2d. %-12s %s\n", i+1, humanize.IBytes(uint64(f.Size)), f.Path)
		}
	}

	if len(res.Extensions) > 0 {
		fmt.Fprintf(r.writer, "\nBy extension:\n")
		for _, row := range sortedExtensions(res.Extensions) {
			fmt.Fprintf(r.writer, "  %-12s %6d files  %s\n",
				row.ext, row.stat.Count, humanize.IBytes(uint64(row.stat.Size)))
		}
	}

	if len(status.Warnings) > 0 {
		fmt.Fprintf(r.writer, "\nWarnings (%d):\n", len(status.Warnings))
		for _, w := range status.Warnings {
			fmt.Fprintf(r.writer, "  - %s\n", w)
		}
	}

	return nil
}

// ReportCaches renders located cache candidates, largest first.
func (r *Reporter) ReportCaches(candidates []cachescan.Candidate, warnings []string) error {
	existing := make([]cachescan.Candidate, 0, len(candidates))
	for _, c := range candidates {
		if c.Exists {
			existing = append(existing, c)
		}
	}
	sort.Slice(existing, func(i, j int) bool { return existing[i].SizeBytes > existing[j].SizeBytes })

	fmt.Fprintf(r.writer, "=== Cache folders (%d found) ===\n", len(existing))
	var total int64
	for _, c := range existing {
		total += c.SizeBytes
		fmt.Fprintf(r.writer, "  %-12s %6d files %5d folders  %s\n",
			humanize.IBytes(uint64(c.SizeBytes)), c.FileCount, c.FolderCount, c.Path)
	}
	fmt.Fprintf(r.writer, "Total reclaimable: %s\n", humanize.IBytes(uint64(total)))

	for _, w := range warnings {
		fmt.Fprintf(r.writer, "  warning: %s\n", w)
	}
	return nil
}

type extRow struct {
	ext  string
	stat aggregate.ExtStat
}

// sortedExtensions orders the breakdown by total size descending, ties by
// name for stable output.
func sortedExtensions(exts map[string]aggregate.ExtStat) []extRow {
	rows := make([]extRow, 0, len(exts))
	for ext, stat := range exts {
		rows = append(rows, extRow{ext: ext, stat: stat})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].stat.Size != rows[j].stat.Size {
			return rows[i].stat.Size > rows[j].stat.Size
		}
		return rows[i].ext < rows[j].ext
	})
	return rows
}
