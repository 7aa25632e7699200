// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package repoprovider

import (
	"context"
	"io"

	"github.com/apparentlymart/go-versions/versions"

	"github.com/pkgcache/repomgr/reposource"
)

// Repository is a read-only query interface over an already-fetched bare
// mirror, returned by Provider.Open. It never mutates the mirror; the only
// operation that changes a mirror's on-disk content is an incremental
// update, modeled separately as FetchUpdate.
type Repository interface {
	// Tags lists the opaque tag names the mirror currently exposes, in
	// provider-defined order.
	Tags(ctx context.Context) ([]string, error)

	// ResolveRevision resolves ref — a tag, branch name, or other
	// provider-specific reference — to a concrete Revision. It's an error
	// if ref does not resolve to anything in this mirror.
	ResolveRevision(ctx context.Context, ref string) (reposource.Revision, error)

	// FetchUpdate incrementally updates the mirror in place from its
	// remote origin, reporting progress the same way Provider.Fetch does.
	// After FetchUpdate returns successfully the Repository reflects the
	// updated state; the manager re-validates the mirror with
	// Provider.IsValidDirectory afterward to detect corruption.
	FetchUpdate(ctx context.Context, progress ProgressFunc) error

	// OpenFile opens a single file from the tree at revision for reading.
	// The caller must Close the returned reader.
	OpenFile(ctx context.Context, revision reposource.Revision, path string) (io.ReadCloser, error)

	// Versions optionally exposes the mirror's tags as parsed semantic
	// versions rather than opaque strings. Providers that can't meaningfully
	// interpret tags as versions (for example, a provider fronting a
	// single unversioned local path) return ok == false; callers must not
	// treat that as an error.
	Versions(ctx context.Context) (list versions.List, ok bool)

	// ResolveVersionConstraint is a convenience built on Versions: given a
	// constraint set, it picks the newest available version satisfying it
	// and resolves that version's tag to a Revision. ok is false if the
	// provider doesn't support Versions, or if no available version
	// satisfies allowed.
	ResolveVersionConstraint(ctx context.Context, allowed versions.Set) (rev reposource.Revision, ok bool, err error)
}
