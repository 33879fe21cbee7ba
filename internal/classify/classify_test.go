package classify

import (
	"errors"
	"os"
	"testing"

	"github.com/devpatel/spacelens/internal/testutil"
)

func TestForRootMissingPath(t *testing.T) {
	f := testutil.NewFixture(t)
	if _, err := ForRoot(f.Path("nope")); err == nil {
		t.Fatal("expected an error for a missing root")
	}
}

func TestClassifyRegularEntries(t *testing.T) {
	f := testutil.NewFixture(t)
	file := f.CreateFileSized("a.txt", 10)
	dir := f.CreateDir("sub")

	cls, err := ForRoot(f.RootDir)
	if err != nil {
		t.Fatal(err)
	}

	finfo, err := os.Lstat(file)
	if err != nil {
		t.Fatal(err)
	}
	if d := cls.Classify(file, finfo, nil); d != Descend {
		t.Errorf("file decision = %s, want descend", d)
	}

	dinfo, err := os.Lstat(dir)
	if err != nil {
		t.Fatal(err)
	}
	if d := cls.Classify(dir, dinfo, nil); d != Descend {
		t.Errorf("same-device dir decision = %s, want descend", d)
	}
}

func TestClassifySymlink(t *testing.T) {
	f := testutil.NewFixture(t)
	target := f.CreateFileSized("target", 10)
	link := f.CreateSymlink(target, "link")

	cls, err := ForRoot(f.RootDir)
	if err != nil {
		t.Fatal(err)
	}

	info, err := os.Lstat(link)
	if err != nil {
		t.Fatal(err)
	}
	if d := cls.Classify(link, info, nil); d != SkipSymlink {
		t.Errorf("symlink decision = %s, want symlink skip", d)
	}
}

func TestClassifyMetadataError(t *testing.T) {
	f := testutil.NewFixture(t)
	cls, err := ForRoot(f.RootDir)
	if err != nil {
		t.Fatal(err)
	}

	d := cls.Classify(f.Path("x"), nil, errors.New("permission denied"))
	if d != SkipDenied {
		t.Errorf("decision = %s, want permission-denied skip", d)
	}
}

func TestDecisionString(t *testing.T) {
	tests := []struct {
		d    Decision
		want string
	}{
		{Descend, "descend"},
		{SkipSymlink, "symlink"},
		{SkipMountBoundary, "mount-boundary"},
		{SkipDenied, "permission-denied"},
		{SkipReparsePoint, "reparse-point"},
	}
	for _, tt := range tests {
		if got := tt.d.String(); got != tt.want {
			t.Errorf("%d.String() = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestFileIDStability(t *testing.T) {
	f := testutil.NewFixture(t)
	file := f.CreateFileSized("a", 1)
	other := f.CreateFileSized("b", 1)

	infoA1, err := os.Lstat(file)
	if err != nil {
		t.Fatal(err)
	}
	infoA2, err := os.Lstat(file)
	if err != nil {
		t.Fatal(err)
	}
	infoB, err := os.Lstat(other)
	if err != nil {
		t.Fatal(err)
	}

	idA1, ok1 := ID(infoA1)
	idA2, ok2 := ID(infoA2)
	idB, ok3 := ID(infoB)
	if !ok1 || !ok2 || !ok3 {
		t.Skip("device/inode IDs unavailable on this platform")
	}
	if idA1 != idA2 {
		t.Error("repeated stat of the same file should yield the same ID")
	}
	if idA1 == idB {
		t.Error("distinct files should have distinct IDs")
	}
}
