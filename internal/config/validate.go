package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Validation errors for configuration fields.
var (
	// ErrRetentionTooLow indicates the retention count is below 1.
	ErrRetentionTooLow = errors.New("retention must be >= 1")

	// ErrInvalidPath indicates a path value is malformed.
	ErrInvalidPath = errors.New("invalid path")
)

// PathError reports an invalid path value for a named config field.
type PathError struct {
	Field string
	Path  string
	Err   error
}

func (e *PathError) Error() string {
	return fmt.Sprintf("%s: %q: %v", e.Field, e.Path, e.Err)
}

func (e *PathError) Unwrap() error {
	return e.Err
}

// Validate checks a Config for validity.
// Returns nil if valid, or a slice of validation errors.
func Validate(cfg *Config) []error {
	if cfg == nil {
		return []error{errors.New("config is nil")}
	}

	var errs []error

	if cfg.Retention < 1 {
		errs = append(errs, ErrRetentionTooLow)
	}

	if cfg.SourceRoot != "" {
		if err := validatePath(cfg.SourceRoot); err != nil {
			errs = append(errs, &PathError{Field: "source_root", Path: cfg.SourceRoot, Err: err})
		}
	}

	if cfg.BackupRoot != "" {
		if err := validatePath(cfg.BackupRoot); err != nil {
			errs = append(errs, &PathError{Field: "backup_root", Path: cfg.BackupRoot, Err: err})
		}
	}

	return errs
}

// validatePath rejects paths with embedded NUL bytes or relative traversal.
func validatePath(path string) error {
	if strings.ContainsRune(path, 0) {
		return ErrInvalidPath
	}
	cleaned := filepath.Clean(path)
	if cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) {
		return ErrInvalidPath
	}
	return nil
}
