// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package repomgr

import (
	"context"
	"fmt"

	"github.com/pkgcache/repomgr/repoprovider"
	"github.com/pkgcache/repomgr/reposource"
)

// Status is the lifecycle state of a RepositoryHandle.
type Status string

const (
	// StatusPending means a record exists but no fetch has yet completed
	// successfully for it.
	StatusPending Status = "pending"

	// StatusAvailable means a working clone exists at the handle's
	// stored path and is usable.
	StatusAvailable Status = "available"

	// StatusError means the last fetch attempt failed. The record is
	// kept for diagnostics, but the manager never returns an error
	// handle to a lookup caller.
	StatusError Status = "error"
)

// RepositoryHandle names an on-disk mirror of a repository and its current
// status. Handles are issued by Manager.Lookup and never constructed
// directly by callers.
type RepositoryHandle struct {
	specifier reposource.Specifier
	path      string
	status    Status

	provider repositoryProvider
}

// repositoryProvider is the subset of repoprovider.Provider a handle needs
// to open itself or materialize a working copy; kept unexported so that
// RepositoryHandle stays a plain value type that doesn't leak the whole
// Manager.
type repositoryProvider interface {
	Open(ctx context.Context, specifier reposource.Specifier, path string) (repoprovider.Repository, error)
	CreateWorkingCopy(ctx context.Context, specifier reposource.Specifier, source, destination string, editable bool) (repoprovider.WorkingCheckout, error)
}

// Specifier returns the repository location this handle was issued for.
func (h RepositoryHandle) Specifier() reposource.Specifier {
	return h.specifier
}

// Path is the absolute on-disk location of the bare mirror this handle
// names.
func (h RepositoryHandle) Path() string {
	return h.path
}

// Status is the handle's lifecycle state at the moment it was issued.
// Callers that hold a handle across time should treat it as a snapshot,
// not a live view: call Manager.Lookup again to get current status.
func (h RepositoryHandle) Status() Status {
	return h.status
}

// Open returns a read-only query interface over the mirror this handle
// names. It's an error to call Open on a handle whose Status is not
// StatusAvailable.
func (h RepositoryHandle) Open(ctx context.Context) (repoprovider.Repository, error) {
	if h.status != StatusAvailable {
		return nil, fmt.Errorf("cannot open repository handle in status %q", h.status)
	}
	return h.provider.Open(ctx, h.specifier, h.path)
}

// CreateWorkingCopy materializes a working tree at destination from this
// handle's mirror. editable controls whether the resulting checkout is
// free to develop in.
func (h RepositoryHandle) CreateWorkingCopy(ctx context.Context, destination string, editable bool) (repoprovider.WorkingCheckout, error) {
	if h.status != StatusAvailable {
		return nil, fmt.Errorf("cannot create a working copy from a handle in status %q", h.status)
	}
	return h.provider.CreateWorkingCopy(ctx, h.specifier, h.path, destination, editable)
}
