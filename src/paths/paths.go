// Package paths resolves where hey keeps its config file and log file.
// Linux and macOS follow XDG conventions; Windows uses the AppData folders.
package paths

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

const projectName = "hey"

// goos is used for testing - allows overriding runtime.GOOS
var goos = runtime.GOOS

// ConfigDir returns the config directory
// Linux: $XDG_CONFIG_HOME/hey or ~/.config/hey
// Windows: %APPDATA%\hey
func ConfigDir() string {
	if goos == "windows" {
		return filepath.Join(os.Getenv("APPDATA"), projectName)
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, projectName)
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", projectName)
}

// LogDir returns the log directory
// Linux: $XDG_STATE_HOME/hey or ~/.local/state/hey
// Windows: %LOCALAPPDATA%\hey\log
func LogDir() string {
	if goos == "windows" {
		return filepath.Join(os.Getenv("LOCALAPPDATA"), projectName, "log")
	}
	if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
		return filepath.Join(xdg, projectName)
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "state", projectName)
}

// ConfigFile returns the optional YAML config file path
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yml")
}

// LogFile returns the default log file path
func LogFile() string {
	return filepath.Join(LogDir(), "hey.log")
}

// EnsureFile creates the parent directory of path with owner-only permissions.
// MUST be called before the file is opened for writing.
func EnsureFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("create dir %s: %w", dir, err)
	}
	return nil
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) string {
	if path == "~" || (len(path) > 1 && path[0] == '~' && (path[1] == '/' || path[1] == '\\')) {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[1:])
	}
	return path
}
