// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

//go:build !(darwin || linux)

package checkoutmode

import (
	"errors"
	"time"
)

// Lchtimes is not supported outside Linux and Darwin; a working-copy
// materialization on other platforms falls back to leaving the symlink's
// timestamp as whatever the filesystem assigned it at creation.
func Lchtimes(path string, accessTime, modTime time.Time) error {
	return errors.New("Lchtimes is not supported on this platform")
}

// CanMaintainSymlinkTimestamps reports whether Lchtimes is actually
// implemented on the current platform.
func CanMaintainSymlinkTimestamps() bool {
	return false
}
