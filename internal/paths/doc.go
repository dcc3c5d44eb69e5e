// Package paths centralizes filesystem path resolution for dotkeep.
//
// Three roots matter:
//
//   - the source root (the user's config directory, ~/.config by default),
//     whose immediate entries are the tracked items
//   - the backup root (~/dotfiles by default), which holds one folder per
//     tracked item containing timestamped generation folders
//   - the mirror root (<backupRoot>/for-git), which holds the single latest
//     copy of each item for external version control
//
// The on-disk layout below is a compatibility contract with existing backup
// trees and must not change:
//
//	<backupRoot>/<itemName>/<timestamp>/<itemName>
//	<backupRoot>/for-git/<itemName>
package paths
