// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

// Package treecopy recursively copies a directory tree while preserving the
// file mode classification (regular, executable, symlink) and, for symlinks,
// the original mtime — the same responsibilities a real VCS checkout routine
// has to take on when materializing a working copy from a mirror.
package treecopy

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pkgcache/repomgr/internal/checkoutmode"
	"github.com/pkgcache/repomgr/internal/streamcopy"
)

// Copy recursively copies src to dst, which must not already exist.
func Copy(src, dst string) error {
	if _, err := os.Lstat(dst); err == nil {
		return fmt.Errorf("destination %s already exists", dst)
	}

	return filepath.WalkDir(src, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		destPath := filepath.Join(dst, rel)

		info, err := entry.Info()
		if err != nil {
			return err
		}
		mode, err := checkoutmode.NewFileMode(info.Mode())
		if err != nil {
			return fmt.Errorf("unsupported file type at %s: %w", path, err)
		}

		switch {
		case mode == checkoutmode.Dir:
			fsMode, _ := mode.ToOSFileMode()
			return os.MkdirAll(destPath, fsMode.Perm())

		case mode == checkoutmode.Symlink:
			target, err := os.Readlink(path)
			if err != nil {
				return fmt.Errorf("failed to read symlink %s: %w", path, err)
			}
			if err := os.Symlink(target, destPath); err != nil {
				return fmt.Errorf("failed to create symlink %s: %w", destPath, err)
			}
			if checkoutmode.CanMaintainSymlinkTimestamps() {
				_ = checkoutmode.Lchtimes(destPath, info.ModTime(), info.ModTime())
			}
			return nil

		default: // Regular or Executable
			return copyFile(path, destPath, mode)
		}
	})
}

func copyFile(src, dst string, mode checkoutmode.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", src, err)
	}
	defer in.Close()

	fsMode, err := mode.ToOSFileMode()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, fsMode.Perm())
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dst, err)
	}
	defer out.Close()

	if err := streamcopy.CopyWithLimit(out, in, streamcopy.DefaultMaxFileBytes); err != nil {
		return fmt.Errorf("failed to copy %s to %s: %w", src, dst, err)
	}
	return nil
}
