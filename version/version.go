// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

// Package version reports the current repomgr release version, following
// the same Version/Prerelease/Metadata split used throughout go-slug and
// other HashiCorp module releases.
package version

var (
	Version           = "0.1.0"
	VersionPrerelease = "dev"
	VersionMetadata   = ""
)

// String returns the full semantic version string, including prerelease and
// build metadata suffixes when set.
func String() string {
	v := Version
	if VersionPrerelease != "" {
		v += "-" + VersionPrerelease
	}
	if VersionMetadata != "" {
		v += "+" + VersionMetadata
	}
	return v
}
