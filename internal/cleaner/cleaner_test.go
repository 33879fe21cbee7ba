package cleaner

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/devpatel/spacelens/internal/testutil"
)

func newCleaner(f *testutil.TestFixture, protect func(string) bool) *Cleaner {
	return New(f.Path("holding"), protect)
}

func TestRequestDeleteMovesFileToHolding(t *testing.T) {
	f := testutil.NewFixture(t)
	file := f.CreateFileSized("junk.log", 100)

	c := newCleaner(f, nil)
	res, err := c.RequestDelete([]string{file})
	if err != nil {
		t.Fatal(err)
	}

	if len(res.Succeeded) != 1 || res.Succeeded[0] != file {
		t.Errorf("Succeeded = %v, want [%s]", res.Succeeded, file)
	}
	f.AssertFileNotExists(file)

	held, err := c.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(held) != 1 {
		t.Fatalf("held entries = %d, want 1", len(held))
	}
	entry := held[0]
	if entry.OriginalPath != file {
		t.Errorf("OriginalPath = %s, want %s", entry.OriginalPath, file)
	}
	if entry.Size != 100 {
		t.Errorf("Size = %d, want 100", entry.Size)
	}
	if entry.IsDir {
		t.Error("IsDir = true for a plain file")
	}
	f.AssertFileExists(filepath.Join(c.HoldingDir(), entry.Name))
}

func TestRequestDeleteDirectory(t *testing.T) {
	f := testutil.NewFixture(t)
	f.CreateFileSized("build/obj/a.o", 10)
	f.CreateFileSized("build/out.bin", 20)
	dir := f.Path("build")

	c := newCleaner(f, nil)
	res, err := c.RequestDelete([]string{dir})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Succeeded) != 1 {
		t.Fatalf("Succeeded = %v", res.Succeeded)
	}
	f.AssertFileNotExists(dir)

	held, err := c.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(held) != 1 || !held[0].IsDir {
		t.Fatalf("held = %+v, want one directory entry", held)
	}

	// The whole subtree moved intact.
	moved := filepath.Join(c.HoldingDir(), held[0].Name)
	f.AssertFileExists(filepath.Join(moved, "obj", "a.o"))
	f.AssertFileExists(filepath.Join(moved, "out.bin"))
}

func TestRequestDeleteProtectedPathSkipped(t *testing.T) {
	f := testutil.NewFixture(t)
	precious := f.CreateFileSized("precious.db", 10)
	junk := f.CreateFileSized("junk.tmp", 10)

	c := newCleaner(f, func(path string) bool {
		return strings.HasSuffix(path, ".db")
	})
	res, err := c.RequestDelete([]string{precious, junk})
	if err != nil {
		t.Fatal(err)
	}

	if len(res.SkippedProtected) != 1 || res.SkippedProtected[0] != precious {
		t.Errorf("SkippedProtected = %v, want [%s]", res.SkippedProtected, precious)
	}
	if len(res.Succeeded) != 1 || res.Succeeded[0] != junk {
		t.Errorf("Succeeded = %v, want [%s]", res.Succeeded, junk)
	}
	f.AssertFileExists(precious)
	f.AssertFileNotExists(junk)
}

func TestRequestDeleteHoldingAreaIsProtected(t *testing.T) {
	f := testutil.NewFixture(t)
	file := f.CreateFileSized("junk.log", 10)

	c := newCleaner(f, nil)
	if _, err := c.RequestDelete([]string{file}); err != nil {
		t.Fatal(err)
	}

	held, err := c.List()
	if err != nil {
		t.Fatal(err)
	}
	inside := filepath.Join(c.HoldingDir(), held[0].Name)

	res, err := c.RequestDelete([]string{c.HoldingDir(), inside})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.SkippedProtected) != 2 {
		t.Errorf("SkippedProtected = %v, want both holding-area paths", res.SkippedProtected)
	}
	f.AssertFileExists(inside)
}

func TestRequestDeleteMissingPathSucceeds(t *testing.T) {
	f := testutil.NewFixture(t)

	c := newCleaner(f, nil)
	res, err := c.RequestDelete([]string{f.Path("already-gone")})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Succeeded) != 1 {
		t.Errorf("Succeeded = %v, want the missing path (goal state reached)", res.Succeeded)
	}
	if len(res.Errors) != 0 {
		t.Errorf("Errors = %v, want none", res.Errors)
	}
}

func TestRequestDeleteSameBaseNameTwice(t *testing.T) {
	f := testutil.NewFixture(t)
	a := f.CreateFileSized("one/cache.bin", 10)
	b := f.CreateFileSized("two/cache.bin", 20)

	c := newCleaner(f, nil)
	if _, err := c.RequestDelete([]string{a, b}); err != nil {
		t.Fatal(err)
	}

	held, err := c.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(held) != 2 {
		t.Fatalf("held entries = %d, want 2", len(held))
	}
	if held[0].Name == held[1].Name {
		t.Errorf("held names collide: %s", held[0].Name)
	}
}

func TestRestoreRoundTrip(t *testing.T) {
	f := testutil.NewFixture(t)
	file := f.CreateFile("docs/report.txt", []byte("keep me"))

	c := newCleaner(f, nil)
	if _, err := c.RequestDelete([]string{file}); err != nil {
		t.Fatal(err)
	}
	f.AssertFileNotExists(file)

	held, err := c.List()
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Restore(held[0].Name); err != nil {
		t.Fatalf("Restore: %v", err)
	}

	f.AssertFileExists(file)

	// Manifest entry is consumed.
	held, err = c.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(held) != 0 {
		t.Errorf("held entries after restore = %d, want 0", len(held))
	}
}

func TestRestoreRecreatesParentDirs(t *testing.T) {
	f := testutil.NewFixture(t)
	file := f.CreateFileSized("a/b/c/data.bin", 10)

	c := newCleaner(f, nil)
	if _, err := c.RequestDelete([]string{f.Path("a")}); err != nil {
		t.Fatal(err)
	}

	held, err := c.List()
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Restore(held[0].Name); err != nil {
		t.Fatal(err)
	}
	f.AssertFileExists(file)
}

func TestRestoreRefusesExistingTarget(t *testing.T) {
	f := testutil.NewFixture(t)
	file := f.CreateFile("config.yaml", []byte("old"))

	c := newCleaner(f, nil)
	if _, err := c.RequestDelete([]string{file}); err != nil {
		t.Fatal(err)
	}

	// Something recreated the path since deletion.
	f.CreateFile("config.yaml", []byte("new"))

	held, err := c.List()
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Restore(held[0].Name); err == nil {
		t.Fatal("Restore should refuse to overwrite a recreated path")
	}

	// The held copy stays recoverable.
	held, err = c.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(held) != 1 {
		t.Errorf("held entries = %d, want 1", len(held))
	}
}

func TestRestoreUnknownName(t *testing.T) {
	f := testutil.NewFixture(t)
	c := newCleaner(f, nil)
	if err := c.Restore("never-held"); err == nil {
		t.Fatal("Restore of unknown name should fail")
	}
}

func TestManifestPersistsAcrossCleaners(t *testing.T) {
	f := testutil.NewFixture(t)
	file := f.CreateFileSized("junk.log", 10)

	first := newCleaner(f, nil)
	if _, err := first.RequestDelete([]string{file}); err != nil {
		t.Fatal(err)
	}

	// A fresh cleaner over the same holding area sees the earlier deletion.
	second := newCleaner(f, nil)
	held, err := second.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(held) != 1 || held[0].OriginalPath != file {
		t.Errorf("held = %+v, want the earlier entry", held)
	}
	if err := second.Restore(held[0].Name); err != nil {
		t.Fatal(err)
	}
	f.AssertFileExists(file)
}
