package platform

import "path/filepath"

// getMacOSInfo returns platform-specific information for macOS
func getMacOSInfo(homeDir, username string) *Info {
	return &Info{
		OS:       MacOS,
		HomeDir:  homeDir,
		Username: username,
		CacheCandidates: []string{
			filepath.Join(homeDir, "Library/Caches"),
			"/Library/Caches",
			// Homebrew
			filepath.Join(homeDir, "Library/Caches/Homebrew"),
			// Browser caches
			filepath.Join(homeDir, "Library/Caches/Google/Chrome"),
			filepath.Join(homeDir, "Library/Caches/Firefox"),
			filepath.Join(homeDir, "Library/Caches/com.apple.Safari"),
			filepath.Join(homeDir, "Library/Caches/Microsoft Edge"),
			// Developer tools
			filepath.Join(homeDir, "Library/Caches/go-build"),
			filepath.Join(homeDir, "Library/Caches/pip"),
			filepath.Join(homeDir, "Library/Caches/Yarn"),
			filepath.Join(homeDir, ".npm/_cacache"),
			filepath.Join(homeDir, ".gradle/caches"),
			// Xcode
			filepath.Join(homeDir, "Library/Developer/Xcode/DerivedData"),
			filepath.Join(homeDir, "Library/Developer/CoreSimulator/Caches"),
			// CocoaPods
			filepath.Join(homeDir, "Library/Caches/CocoaPods"),
			// Editors
			filepath.Join(homeDir, "Library/Application Support/Code/Cache"),
		},
		TempDirs: []string{
			"/tmp",
			"/private/tmp",
			"/private/var/tmp",
		},
		ProtectedPaths: []string{
			"/",
			"/System",
			"/Applications",
			"/Library/System",
			"/bin",
			"/sbin",
			"/usr",
			"/etc",
			"/dev",
			"/private/etc",
			"/private/var/db",
			filepath.Join(homeDir, "Library/Application Support"),
			filepath.Join(homeDir, "Library/Preferences"),
			filepath.Join(homeDir, "Documents"),
			filepath.Join(homeDir, "Desktop"),
			filepath.Join(homeDir, "Pictures"),
			filepath.Join(homeDir, "Music"),
			filepath.Join(homeDir, "Movies"),
		},
	}
}
