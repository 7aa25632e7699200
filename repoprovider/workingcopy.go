// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package repoprovider

import "github.com/pkgcache/repomgr/reposource"

// WorkingCheckout is a materialized working tree produced by
// Provider.CreateWorkingCopy or recovered by Provider.OpenWorkingCopy.
type WorkingCheckout interface {
	// Path is the absolute filesystem path of the working tree's root.
	Path() string

	// Editable reports whether this checkout was created as a writable
	// development copy, as opposed to a read-only extraction.
	Editable() bool

	// CheckedOutRevision is the revision materialized at Path, if known.
	// A provider that doesn't track this (for example, a plain file-tree
	// extraction with no VCS metadata of its own) returns the zero
	// Revision.
	CheckedOutRevision() reposource.Revision
}
