package platform

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LocalDirName marks a portable config directory next to a project.
const LocalDirName = ".pomodoro"

// AppName is the directory created under the user config directory.
const AppName = "pomodoro"

// FindLocalDir walks up from startDir looking for a .pomodoro directory and
// returns its path.
func FindLocalDir(startDir string) (string, error) {
	abs, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	dir := abs
	for {
		if isDir(filepath.Join(dir, LocalDirName)) {
			return filepath.Join(dir, LocalDirName), nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("%s directory not found", LocalDirName)
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// DefaultConfigDir returns the config directory used when none is given.
func DefaultConfigDir() (string, error) {
	if cwd, err := os.Getwd(); err == nil {
		if local, err := FindLocalDir(cwd); err == nil {
			return local, nil
		}
	}

	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate user config directory: %w", err)
	}
	return filepath.Join(base, AppName), nil
}

// IsDevRun checks if the current process is running via `go run` or `go test`.
// These commands build binaries in temporary directories.
func IsDevRun() bool {
	exe, err := os.Executable()
	if err != nil {
		return false
	}

	if strings.HasPrefix(strings.ToLower(exe), strings.ToLower(os.TempDir())) {
		return true
	}

	return strings.HasSuffix(exe, ".test") || strings.HasSuffix(exe, ".test.exe")
}

// ResolveConfigDir applies the safety rules to a config directory. When
// forceTemp is set, paths outside the temporary directory are re-rooted
// under <tmp>/pomodoro-dev.
func ResolveConfigDir(userPath string, forceTemp bool) string {
	if !forceTemp {
		return userPath
	}

	// Paths already in the temp dir (t.TempDir) are trusted as is.
	clean := filepath.Clean(userPath)
	rel, err := filepath.Rel(os.TempDir(), clean)
	if err == nil && !strings.HasPrefix(rel, "..") {
		return clean
	}

	sub := filepath.Base(clean)
	if userPath == "" || sub == "." || sub == string(os.PathSeparator) {
		sub = "default"
	}
	return filepath.Join(os.TempDir(), AppName+"-dev", sub)
}
