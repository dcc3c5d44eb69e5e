// Package fscopy copies filesystem entries for backup purposes.
//
// An entry is a single file or directory tree. Directory copies preserve
// symbolic links as links rather than resolving them, which avoids infinite
// recursion and keeps the user's intent intact. File copies preserve
// permission bits and modification time where the platform allows.
package fscopy

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
)

// CopyEntry copies the file or directory at src to dst.
// A top-level symlink source is followed; links inside a directory tree are
// preserved as links. dst must not already exist for directory sources
// (use ReplaceEntry to overwrite).
func CopyEntry(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return errors.Wrapf(err, "stat %s", src)
	}

	if info.IsDir() {
		// Created writable, chmodded to the source mode only after the
		// contents are in place. A read-only source directory (0500) must
		// still receive its children.
		if err := os.MkdirAll(dst, 0o755); err != nil {
			return errors.Wrapf(err, "creating directory %s", dst)
		}
		if err := copyDir(src, dst); err != nil {
			return err
		}
		if err := os.Chmod(dst, info.Mode().Perm()); err != nil {
			return errors.Wrapf(err, "setting permissions on %s", dst)
		}
		return nil
	}
	return copyFile(src, dst, info)
}

// ReplaceEntry copies src to dst, fully removing any existing dst first.
// The destination is therefore never a merge of old and new content.
func ReplaceEntry(src, dst string) error {
	if err := RemoveEntry(dst); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return errors.Wrapf(err, "creating parent of %s", dst)
	}
	return CopyEntry(src, dst)
}

// RemoveEntry deletes the entry at path if it exists.
// Directories are removed recursively; files and symlinks are unlinked.
// A missing path is not an error.
func RemoveEntry(path string) error {
	info, err := os.Lstat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Wrapf(err, "stat %s", path)
	}

	if info.IsDir() {
		err = os.RemoveAll(path)
	} else {
		err = os.Remove(path)
	}
	return errors.Wrapf(err, "removing %s", path)
}

// copyDir recursively copies the contents of src into dst.
// dst is expected to already exist.
func copyDir(src, dst string) error {
	entries, err := os.ReadDir(src)
	if err != nil {
		return errors.Wrapf(err, "reading directory %s", src)
	}

	for _, entry := range entries {
		srcPath := filepath.Join(src, entry.Name())
		dstPath := filepath.Join(dst, entry.Name())

		switch {
		case entry.Type()&fs.ModeSymlink != 0:
			if err := copySymlink(srcPath, dstPath); err != nil {
				return err
			}

		case entry.IsDir():
			info, err := entry.Info()
			if err != nil {
				return errors.Wrapf(err, "stat %s", srcPath)
			}
			if err := os.MkdirAll(dstPath, 0o755); err != nil {
				return errors.Wrapf(err, "creating directory %s", dstPath)
			}
			if err := copyDir(srcPath, dstPath); err != nil {
				return err
			}
			if err := os.Chmod(dstPath, info.Mode().Perm()); err != nil {
				return errors.Wrapf(err, "setting permissions on %s", dstPath)
			}

		default:
			info, err := entry.Info()
			if err != nil {
				return errors.Wrapf(err, "stat %s", srcPath)
			}
			if err := copyFile(srcPath, dstPath, info); err != nil {
				return err
			}
		}
	}

	return nil
}

// copySymlink recreates the link at dst pointing at src's target.
func copySymlink(src, dst string) error {
	target, err := os.Readlink(src)
	if err != nil {
		return errors.Wrapf(err, "reading link %s", src)
	}
	if err := os.Symlink(target, dst); err != nil {
		return errors.Wrapf(err, "creating link %s", dst)
	}
	return nil
}

// copyFile copies a single file, then restores the source's permission bits
// and modification time on the destination.
func copyFile(src, dst string, info fs.FileInfo) error {
	srcFile, err := os.Open(src)
	if err != nil {
		return errors.Wrapf(err, "opening %s", src)
	}
	defer srcFile.Close()

	dstFile, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return errors.Wrapf(err, "creating %s", dst)
	}

	if _, err := io.Copy(dstFile, srcFile); err != nil {
		dstFile.Close()
		return errors.Wrapf(err, "copying %s", src)
	}

	if err := dstFile.Close(); err != nil {
		return errors.Wrapf(err, "closing %s", dst)
	}

	if err := os.Chmod(dst, info.Mode().Perm()); err != nil {
		return errors.Wrapf(err, "setting permissions on %s", dst)
	}

	// Best effort: mtime preservation is a convenience, not a guarantee.
	_ = os.Chtimes(dst, info.ModTime(), info.ModTime())

	return nil
}
