// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

// Package checkoutmode classifies and translates file permission bits
// between the compact form a repository provider records for a tree entry
// and the os.FileMode a working-copy checkout actually needs on disk.
package checkoutmode

import (
	"fmt"
	"io/fs"
	"os"
)

// FileMode is the small, VCS-agnostic set of file kinds a working-copy
// checkout needs to distinguish: directory, regular file, executable file,
// or symlink. It's deliberately coarser than fs.FileMode so that providers
// backed by different VCSes, which track permissions with varying
// fidelity, can all produce one from whatever their own tree entries carry.
type FileMode uint32

const (
	// Empty is the zero value: no tree entry classifies to this, it's only
	// ever returned alongside an error.
	Empty FileMode = 0
	// Dir is a directory entry.
	Dir FileMode = 0040000
	// Regular is a non-executable file. Note this is narrower than Go's own
	// notion of a "regular" file, which includes executables.
	Regular FileMode = 0100644
	// Executable is a file with at least one executable bit set.
	Executable FileMode = 0100755
	// Symlink is a symbolic link to another tree entry.
	Symlink FileMode = 0120000
)

// NewFileMode classifies an os.FileMode as observed on disk into the
// coarser FileMode a checkout records. Device files, named pipes, sockets,
// and other non-regular, non-directory, non-symlink entries are rejected:
// a repository mirror has no business tracking them, and a provider that
// encounters one while walking a tree should treat it as a hard error
// rather than silently skipping it.
func NewFileMode(mode fs.FileMode) (FileMode, error) {
	switch {
	case mode.IsDir():
		return Dir, nil
	case isSymlink(mode):
		return Symlink, nil
	case mode.IsRegular():
		if isCharDevice(mode) || isTemporary(mode) {
			return Empty, fmt.Errorf("invalid file mode: %s", mode)
		}
		if isExecutable(mode) {
			return Executable, nil
		}
		return Regular, nil
	default:
		return Empty, fmt.Errorf("invalid file mode: %s", mode)
	}
}

// ToOSFileMode converts m back into the os.FileMode a checkout should apply
// to the file it writes to disk, normalizing permissions for regular and
// executable files to 0644/0755 regardless of what bits the source tree
// entry originally carried.
func (m FileMode) ToOSFileMode() (os.FileMode, error) {
	switch m {
	case Regular:
		return os.FileMode(0644), nil
	case Executable:
		return os.FileMode(0755), nil
	case Dir:
		return os.ModePerm | os.ModeDir, nil
	case Symlink:
		return os.ModePerm | os.ModeSymlink, nil
	default:
		return os.FileMode(0), fmt.Errorf("malformed file mode: %s", m)
	}
}

// IsRegular reports whether m is a non-executable regular file.
func (m FileMode) IsRegular() bool {
	return m == Regular
}

// IsFile reports whether m is any kind of checked-out file content (regular,
// executable, or symlink), as opposed to a directory.
func (m FileMode) IsFile() bool {
	return m == Regular || m == Executable || m == Symlink
}

func (m FileMode) String() string {
	return fmt.Sprintf("%07o", uint32(m))
}

func isCharDevice(m fs.FileMode) bool {
	return m&os.ModeCharDevice != 0
}

func isExecutable(m fs.FileMode) bool {
	return m&0100 != 0
}

func isSymlink(m fs.FileMode) bool {
	return m&fs.ModeSymlink != 0
}

func isTemporary(m fs.FileMode) bool {
	return m&fs.ModeTemporary != 0
}
