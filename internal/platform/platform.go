// Package platform resolves host- and user-specific paths: the statically
// enumerated cache/temp candidate templates consumed by the cache locator,
// protected paths the cleaner must never touch, and the default holding area
// for reversible deletes.
package platform

import (
	"os"
	"os/user"
	"path/filepath"
	"runtime"
	"strings"
)

// Platform represents the operating system platform
type Platform string

const (
	MacOS   Platform = "darwin"
	Linux   Platform = "linux"
	Unknown Platform = "unknown"
)

// Info contains platform-specific information and paths
type Info struct {
	OS              Platform
	HomeDir         string
	Username        string
	CacheCandidates []string
	TempDirs        []string
	ProtectedPaths  []string
}

// Detect returns the current platform
func Detect() Platform {
	switch runtime.GOOS {
	case "darwin":
		return MacOS
	case "linux":
		return Linux
	default:
		return Unknown
	}
}

// GetInfo resolves platform-specific information for the current user.
func GetInfo() (*Info, error) {
	platform := Detect()

	currentUser, err := user.Current()
	if err != nil {
		return nil, err
	}

	homeDir := currentUser.HomeDir
	username := currentUser.Username

	switch platform {
	case MacOS:
		return getMacOSInfo(homeDir, username), nil
	case Linux:
		return getLinuxInfo(homeDir, username), nil
	default:
		return nil, ErrUnsupportedPlatform
	}
}

// Candidates returns all cache and temp candidate templates, deduplicated.
// Callers are expected to skip candidates that do not exist on the host.
func (i *Info) Candidates() []string {
	seen := make(map[string]struct{})
	out := make([]string, 0, len(i.CacheCandidates)+len(i.TempDirs))
	all := make([]string, 0, cap(out))
	all = append(all, i.CacheCandidates...)
	all = append(all, i.TempDirs...)
	for _, p := range all {
		clean := filepath.Clean(p)
		if _, ok := seen[clean]; ok {
			continue
		}
		seen[clean] = struct{}{}
		out = append(out, clean)
	}
	return out
}

// DefaultHoldingDir returns the default recoverable holding area for
// reversible deletes.
func DefaultHoldingDir(homeDir string) string {
	switch Detect() {
	case MacOS:
		return filepath.Join(homeDir, "Library/Application Support/spacelens/trash")
	default:
		if dataDir := os.Getenv("XDG_DATA_HOME"); dataDir != "" {
			return filepath.Join(dataDir, "spacelens", "trash")
		}
		return filepath.Join(homeDir, ".local/share/spacelens/trash")
	}
}

// GetUserConfigDir returns the user's config directory
func GetUserConfigDir() (string, error) {
	switch Detect() {
	case MacOS:
		currentUser, err := user.Current()
		if err != nil {
			return "", err
		}
		return currentUser.HomeDir + "/Library/Application Support", nil
	case Linux:
		if configDir := os.Getenv("XDG_CONFIG_HOME"); configDir != "" {
			return configDir, nil
		}
		currentUser, err := user.Current()
		if err != nil {
			return "", err
		}
		return currentUser.HomeDir + "/.config", nil
	default:
		return "", ErrUnsupportedPlatform
	}
}

// IsProtectedPath checks if a path is protected and should never be deleted
func (i *Info) IsProtectedPath(path string) bool {
	clean := filepath.Clean(path)
	for _, protected := range i.ProtectedPaths {
		if clean == protected || strings.HasPrefix(clean, protected+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// Errors
var (
	ErrUnsupportedPlatform = &PlatformError{"unsupported platform"}
)

// PlatformError represents a platform-related error
type PlatformError struct {
	Message string
}

func (e *PlatformError) Error() string {
	return e.Message
}
