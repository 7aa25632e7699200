// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package gitprovider

import (
	"github.com/pkgcache/repomgr/repoprovider"
	"github.com/pkgcache/repomgr/reposource"
)

// gitWorkingCheckout is the repoprovider.WorkingCheckout returned by
// Provider.CreateWorkingCopy and Provider.OpenWorkingCopy.
type gitWorkingCheckout struct {
	path     string
	editable bool
	revision reposource.Revision
}

var _ repoprovider.WorkingCheckout = (*gitWorkingCheckout)(nil)

func (c *gitWorkingCheckout) Path() string { return c.path }

func (c *gitWorkingCheckout) Editable() bool { return c.editable }

func (c *gitWorkingCheckout) CheckedOutRevision() reposource.Revision { return c.revision }
