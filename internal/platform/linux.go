package platform

import "path/filepath"

// getLinuxInfo returns platform-specific information for Linux
func getLinuxInfo(homeDir, username string) *Info {
	return &Info{
		OS:       Linux,
		HomeDir:  homeDir,
		Username: username,
		CacheCandidates: []string{
			filepath.Join(homeDir, ".cache"),
			"/var/cache",
			// Package manager caches
			"/var/cache/apt/archives",
			"/var/cache/dnf",
			"/var/cache/pacman/pkg",
			"/var/lib/snapd/cache",
			// Browser caches
			filepath.Join(homeDir, ".cache/google-chrome"),
			filepath.Join(homeDir, ".cache/chromium"),
			filepath.Join(homeDir, ".cache/mozilla/firefox"),
			filepath.Join(homeDir, ".cache/microsoft-edge"),
			// Developer tools
			filepath.Join(homeDir, ".cache/go-build"),
			filepath.Join(homeDir, ".cache/pip"),
			filepath.Join(homeDir, ".cache/yarn"),
			filepath.Join(homeDir, ".npm/_cacache"),
			filepath.Join(homeDir, ".cargo/registry/cache"),
			filepath.Join(homeDir, ".gradle/caches"),
			// Editors
			filepath.Join(homeDir, ".config/Code/Cache"),
			filepath.Join(homeDir, ".config/Code/CachedData"),
		},
		TempDirs: []string{
			"/tmp",
			"/var/tmp",
		},
		ProtectedPaths: []string{
			"/",
			"/bin",
			"/boot",
			"/dev",
			"/etc",
			"/lib",
			"/lib64",
			"/proc",
			"/root",
			"/run",
			"/sbin",
			"/sys",
			"/usr",
			filepath.Join(homeDir, ".config"),
			filepath.Join(homeDir, ".ssh"),
			filepath.Join(homeDir, "Documents"),
			filepath.Join(homeDir, "Desktop"),
			filepath.Join(homeDir, "Pictures"),
			filepath.Join(homeDir, "Music"),
			filepath.Join(homeDir, "Videos"),
		},
	}
}
