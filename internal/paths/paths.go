package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/cockroachdb/errors"
)

// MirrorDirName is the folder under the backup root that holds the
// always-latest copy of each tracked item. The name is part of the on-disk
// contract: existing backup trees and external git checkouts rely on it.
const MirrorDirName = "for-git"

// Sentinel errors for path resolution.
var (
	// ErrHomeDirNotFound indicates the user's home directory could not be determined.
	ErrHomeDirNotFound = errors.New("home directory not found")

	// ErrInvalidPath indicates the provided path is malformed or invalid.
	ErrInvalidPath = errors.New("invalid path")
)

// DefaultDirPerm is the default permission for newly created directories.
const DefaultDirPerm = 0o755

// EnsureDir creates the directory and any necessary parents with specified permissions.
// If perm is 0, DefaultDirPerm (0755) is used.
// This function is idempotent; it returns nil if the directory already exists.
func EnsureDir(path string, perm os.FileMode) error {
	if perm == 0 {
		perm = DefaultDirPerm
	}
	return os.MkdirAll(path, perm)
}

// Home returns the user's home directory.
// Note: It returns an empty string on error for backward compatibility.
// Use ResolveHome for proper error handling.
func Home() string {
	h, _ := ResolveHome()
	return h
}

// ResolveHome returns the user's home directory.
// Returns ErrHomeDirNotFound if the directory cannot be determined.
func ResolveHome() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(ErrHomeDirNotFound, err.Error())
	}
	return home, nil
}

// ConfigHome returns the XDG config home directory.
// On Linux: ~/.config
// On macOS: ~/Library/Application Support
// On Windows: %LOCALAPPDATA%
func ConfigHome() string {
	return xdg.ConfigHome
}

// AppConfigDir returns the directory holding dotkeep's own config file.
// Returns: <ConfigHome>/dotkeep/
func AppConfigDir() string {
	return filepath.Join(ConfigHome(), "dotkeep")
}

// DefaultSourceRoot returns the default directory whose entries are offered
// for backup. This is the user's config root (~/.config on Linux).
func DefaultSourceRoot() string {
	return ConfigHome()
}

// DefaultBackupRoot returns the default root of the versioned backup tree.
// Returns: ~/dotfiles
func DefaultBackupRoot() string {
	home := Home()
	if home == "" {
		return ""
	}
	return filepath.Join(home, "dotfiles")
}

// MirrorRoot returns the mirror folder under the given backup root.
// Returns: <backupRoot>/for-git
func MirrorRoot(backupRoot string) string {
	if backupRoot == "" {
		return ""
	}
	return filepath.Join(backupRoot, MirrorDirName)
}

// ItemRoot returns the directory holding all generations of one tracked item.
// Returns: <backupRoot>/<itemName>
func ItemRoot(backupRoot, itemName string) string {
	if backupRoot == "" || itemName == "" {
		return ""
	}
	return filepath.Join(backupRoot, itemName)
}

// GenerationPath returns the directory of one timestamped generation.
// Returns: <backupRoot>/<itemName>/<timestamp>
func GenerationPath(backupRoot, itemName, timestamp string) string {
	itemRoot := ItemRoot(backupRoot, itemName)
	if itemRoot == "" || timestamp == "" {
		return ""
	}
	return filepath.Join(itemRoot, timestamp)
}
