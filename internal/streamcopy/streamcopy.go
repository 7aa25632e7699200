// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

// Package streamcopy copies a single file's contents between a source and
// destination in bounded-size chunks, so that materializing a working copy
// can cap how much any one tracked file is allowed to write regardless of
// what the repository mirror claims its size is.
package streamcopy

import (
	"errors"
	"io"
)

// chunkSize is the unit CopyWithLimit reads and writes at a time; the last
// chunk before maxBytes is shortened so that no more than maxBytes are
// copied.
const chunkSize = 1 * 1024 * 1024 // 1MiB per chunk

// DefaultMaxFileBytes bounds an individual file copied out of a repository
// mirror when the caller has no more specific policy of its own. Repository
// trees routinely carry larger tracked blobs (vendored binaries, media,
// generated assets) than a single dependency package would, so this is set
// well above the module-package-sized limit a registry fetcher would use.
const DefaultMaxFileBytes = 256 * 1024 * 1024 // 256MiB

// ErrLimitExceeded is returned when src still had data left after maxBytes
// had been copied.
var ErrLimitExceeded = errors.New("streamcopy: file exceeds the configured copy limit")

// CopyWithLimit copies from src to dst in chunkSize chunks, refusing to copy
// more than maxBytes total. A maxBytes of zero or less falls back to
// DefaultMaxFileBytes.
func CopyWithLimit(dst io.Writer, src io.Reader, maxBytes int64) error {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxFileBytes
	}

	var copied int64
	for copied < maxBytes {
		remaining := maxBytes - copied
		want := int64(chunkSize)
		if remaining < want {
			want = remaining
		}

		n, err := io.CopyN(dst, src, want)
		copied += n

		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		if n < want {
			return nil
		}
	}

	switch _, err := src.Read(make([]byte, 1)); {
	case errors.Is(err, io.EOF):
		return nil
	case err != nil:
		return err
	default:
		return ErrLimitExceeded
	}
}
