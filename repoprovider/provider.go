// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

// Package repoprovider defines the capability set the repository manager
// depends on to interact with the underlying version control system. A
// Provider may be backed by a real VCS (shelling out to git, say) or by an
// in-memory stub used for testing; the manager treats every implementation
// uniformly and never assumes anything about how a provider stores its
// state beyond what this package's interfaces promise.
package repoprovider

import (
	"context"

	"github.com/pkgcache/repomgr/reposource"
)

// Provider is the pluggable VCS capability set a repository manager depends
// on. Every operation may fail with an error; a Provider is free to be
// network-backed or entirely in-memory.
//
// Implementations must not assume any method is called under external
// synchronization for a distinct specifier: the manager guarantees
// single-flight per specifier (see the repomgr package), but a single
// Provider instance may be called concurrently for many different
// specifiers.
type Provider interface {
	// Fetch populates destination with a bare repository mirror of
	// specifier. destination MUST NOT already exist; if the provider
	// returns a non-nil error, the caller is responsible for removing
	// whatever partial content was written before retrying.
	//
	// progress, if non-nil, is invoked periodically to report transfer
	// progress. It's purely advisory and must never block Fetch.
	Fetch(ctx context.Context, specifier reposource.Specifier, destination string, progress ProgressFunc) error

	// Copy clones the on-disk state of the mirror at source to
	// destination, without going to the network. destination MUST NOT
	// already exist. Used for staging fetches through a shared cache.
	Copy(ctx context.Context, source, destination string) error

	// RepositoryExists reports whether a valid bare mirror currently
	// lives at path.
	RepositoryExists(path string) (bool, error)

	// Open returns a read-only query interface over an existing mirror of
	// specifier at path. The mirror must already exist; Open never
	// fetches.
	Open(ctx context.Context, specifier reposource.Specifier, path string) (Repository, error)

	// CreateWorkingCopy materializes a working tree at destination from
	// the mirror at source. editable controls whether the resulting
	// checkout is writable for further development, as opposed to a
	// read-only extraction.
	CreateWorkingCopy(ctx context.Context, specifier reposource.Specifier, source, destination string, editable bool) (WorkingCheckout, error)

	// WorkingCopyExists reports whether a valid working copy currently
	// lives at path.
	WorkingCopyExists(path string) (bool, error)

	// OpenWorkingCopy returns a handle on an existing working copy at
	// path.
	OpenWorkingCopy(path string) (WorkingCheckout, error)

	// IsValidDirectory reports whether path contains a structurally valid
	// repository mirror. The manager relies on this to judge whether an
	// available handle's on-disk path is still usable, and to detect
	// corruption after an incremental update.
	IsValidDirectory(path string) bool

	// IsValidRefFormat reports whether ref is syntactically well-formed
	// for this VCS, independent of whether it actually resolves to
	// anything.
	IsValidRefFormat(ref string) bool
}
