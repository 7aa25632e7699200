// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package repotest

import (
	"github.com/pkgcache/repomgr/repoprovider"
	"github.com/pkgcache/repomgr/reposource"
)

// fakeWorkingCheckout is the repoprovider.WorkingCheckout returned by
// Provider.CreateWorkingCopy and Provider.OpenWorkingCopy.
type fakeWorkingCheckout struct {
	path     string
	editable bool
	revision reposource.Revision
}

var _ repoprovider.WorkingCheckout = (*fakeWorkingCheckout)(nil)

func (c *fakeWorkingCheckout) Path() string { return c.path }

func (c *fakeWorkingCheckout) Editable() bool { return c.editable }

func (c *fakeWorkingCheckout) CheckedOutRevision() reposource.Revision { return c.revision }
