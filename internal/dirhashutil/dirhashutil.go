// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

// Package dirhashutil wraps golang.org/x/mod/sumdb/dirhash to produce a
// stable content checksum for a directory tree, used to populate
// FetchDetails.MirrorChecksum after a fetch or cache copy.
package dirhashutil

import (
	"fmt"

	"golang.org/x/mod/sumdb/dirhash"
)

// HashDir returns a dirhash.Hash1 checksum of the directory tree rooted at
// path. The result is purely observational: it's attached to fetch results
// for diagnostics and never consulted to make a correctness decision.
func HashDir(path string) (string, error) {
	sum, err := dirhash.HashDir(path, "", dirhash.Hash1)
	if err != nil {
		return "", fmt.Errorf("failed to compute checksum of %s: %w", path, err)
	}
	return sum, nil
}
