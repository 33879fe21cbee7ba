package config

import (
	"testing"

	"github.com/devpatel/spacelens/internal/testutil"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	f := testutil.NewFixture(t)

	cfg, err := Load(f.Path("nope.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.TopN != 10 {
		t.Errorf("TopN = %d, want 10", cfg.TopN)
	}
	if cfg.CacheWorkers != 3 {
		t.Errorf("CacheWorkers = %d, want 3", cfg.CacheWorkers)
	}
	if cfg.HoldingDir != "" {
		t.Errorf("HoldingDir = %q, want empty", cfg.HoldingDir)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	f := testutil.NewFixture(t)
	path := f.Path("conf/config.yaml")

	cfg := &Config{
		TopN:           25,
		CacheWorkers:   5,
		HoldingDir:     "/var/tmp/hold",
		ProtectedPaths: []string{"/etc", "/home/dev/keep"},
	}
	if err := cfg.Save(path); err != nil {
		t.Fatal(err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.TopN != 25 || loaded.CacheWorkers != 5 {
		t.Errorf("loaded = %+v", loaded)
	}
	if loaded.HoldingDir != "/var/tmp/hold" {
		t.Errorf("HoldingDir = %q", loaded.HoldingDir)
	}
	if len(loaded.ProtectedPaths) != 2 || loaded.ProtectedPaths[0] != "/etc" {
		t.Errorf("ProtectedPaths = %v", loaded.ProtectedPaths)
	}
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	f := testutil.NewFixture(t)
	path := f.CreateFile("config.yaml", []byte("top_n: 50\n"))

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.TopN != 50 {
		t.Errorf("TopN = %d, want 50", cfg.TopN)
	}
	if cfg.CacheWorkers != 3 {
		t.Errorf("CacheWorkers = %d, want default 3", cfg.CacheWorkers)
	}
}

func TestLoadMalformedFile(t *testing.T) {
	f := testutil.NewFixture(t)
	path := f.CreateFile("config.yaml", []byte("top_n: [not a number\n"))

	if _, err := Load(path); err == nil {
		t.Fatal("expected a parse error")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"defaults", *Default(), false},
		{"top_n too small", Config{TopN: 0, CacheWorkers: 3}, true},
		{"top_n too large", Config{TopN: 1001, CacheWorkers: 3}, true},
		{"workers too small", Config{TopN: 10, CacheWorkers: 0}, true},
		{"workers too large", Config{TopN: 10, CacheWorkers: 9}, true},
		{"upper bounds", Config{TopN: 1000, CacheWorkers: 8}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	f := testutil.NewFixture(t)
	path := f.CreateFile("config.yaml", []byte("top_n: 0\n"))

	if _, err := Load(path); err == nil {
		t.Fatal("expected a validation error")
	}
}

func TestResolveHoldingDir(t *testing.T) {
	explicit := &Config{HoldingDir: "/custom/hold"}
	if got := explicit.ResolveHoldingDir("/home/dev"); got != "/custom/hold" {
		t.Errorf("explicit = %q", got)
	}

	fallback := &Config{}
	if got := fallback.ResolveHoldingDir("/home/dev"); got == "" {
		t.Error("platform default should not be empty")
	}
}
