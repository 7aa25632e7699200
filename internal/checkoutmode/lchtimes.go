// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

//go:build darwin || linux

package checkoutmode

import (
	"time"

	"golang.org/x/sys/unix"
)

// Lchtimes sets the access and modification timestamps on path without
// following a symlink, unlike the cross-platform os.Chtimes. This is the
// only way to restore a symlink's own recorded mtime during working-copy
// materialization; regular files and directories can use os.Chtimes
// instead since following them is exactly what's wanted there.
func Lchtimes(path string, accessTime, modTime time.Time) error {
	return unix.Lutimes(path, []unix.Timeval{
		unix.NsecToTimeval(accessTime.UnixNano()),
		unix.NsecToTimeval(modTime.UnixNano()),
	})
}

// CanMaintainSymlinkTimestamps reports whether Lchtimes is actually
// implemented on the current platform.
func CanMaintainSymlinkTimestamps() bool {
	return true
}
