package reporter

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/devpatel/spacelens/internal/aggregate"
	"github.com/devpatel/spacelens/internal/cachescan"
	"github.com/devpatel/spacelens/internal/session"
)

func TestReportScanCompleted(t *testing.T) {
	var buf bytes.Buffer

	status := session.Status{
		State: session.StateCompleted,
		Result: &aggregate.Result{
			TotalBytes: 3 * 1024,
			FileCount:  2,
			DirCount:   1,
			TopFiles: []aggregate.FileStat{
				{Path: "/data/big.bin", Size: 2048},
				{Path: "/data/small.txt", Size: 1024},
			},
			Extensions: map[string]aggregate.ExtStat{
				"bin": {Count: 1, Size: 2048},
				"txt": {Count: 1, Size: 1024},
			},
		},
		Warnings: []string{"skipped /data/locked: permission-denied"},
	}

	if err := New(&buf).ReportScan("/data", status); err != nil {
		t.Fatal(err)
	}
	out := buf.String()

	for _, want := range []string{
		"Scan of /data",
		"State: completed",
		"2 files",
		"/data/big.bin",
		"Warnings (1)",
		"permission-denied",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}

	// Extension rows come out largest first.
	if strings.Index(out, "\n  bin ") > strings.Index(out, "\n  txt ") {
		t.Error("extension breakdown not ordered by size descending")
	}
}

func TestReportScanFailed(t *testing.T) {
	var buf bytes.Buffer

	status := session.Status{
		State: session.StateFailed,
		Err:   errors.New("root unreadable: no such file"),
	}
	if err := New(&buf).ReportScan("/nope", status); err != nil {
		t.Fatal(err)
	}
	out := buf.String()

	if !strings.Contains(out, "State: failed") {
		t.Errorf("missing failed state:\n%s", out)
	}
	if !strings.Contains(out, "root unreadable") {
		t.Errorf("missing error detail:\n%s", out)
	}
}

func TestReportCaches(t *testing.T) {
	var buf bytes.Buffer

	candidates := []cachescan.Candidate{
		{Path: "/home/u/.npm", Exists: true, SizeBytes: 100, FileCount: 5, FolderCount: 2},
		{Path: "/home/u/.cache/pip", Exists: true, SizeBytes: 900, FileCount: 3, FolderCount: 1},
		{Path: "/home/u/.gradle", Exists: false},
	}

	if err := New(&buf).ReportCaches(candidates, []string{"cache candidate /x: busy"}); err != nil {
		t.Fatal(err)
	}
	out := buf.String()

	if !strings.Contains(out, "(2 found)") {
		t.Errorf("missing-only candidates should not count:\n%s", out)
	}
	if strings.Contains(out, ".gradle") {
		t.Errorf("non-existing candidate listed:\n%s", out)
	}
	if strings.Index(out, "pip") > strings.Index(out, ".npm") {
		t.Error("candidates not ordered by size descending")
	}
	if !strings.Contains(out, "warning: cache candidate /x: busy") {
		t.Errorf("missing warning line:\n%s", out)
	}
}
