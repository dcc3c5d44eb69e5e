// Package config loads and validates dotkeep's configuration.
//
// Configuration lives in a config.yaml under <xdg config>/dotkeep/ (the
// current directory is also searched, which makes tests and ad hoc runs
// easy). Every key has a sensible default, so a config file is optional:
//
//	source_root: ~/.config       # directory whose entries are tracked
//	backup_root: ~/dotfiles      # versioned backup tree
//	retention: 5                 # generations kept per item
//
// Environment variables with the DOTKEEP_ prefix override file values,
// e.g. DOTKEEP_RETENTION=10.
package config
