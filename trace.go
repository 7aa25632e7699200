// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package repomgr

import (
	"time"

	"github.com/pkgcache/repomgr/reposource"
)

// Delegate contains a set of callbacks a caller can optionally provide to
// NewManager to be notified of fetch and update lifecycle events, for
// logging or UI progress reporting.
//
// Any or all of the callbacks may be left nil, in which case no event is
// delivered for the corresponding occurrence. Every callback is dispatched
// without any of the Manager's internal locks held, and delegate
// implementations must be safe for concurrent invocation across distinct
// specifiers: a caller driving many concurrent lookups will see delegate
// calls for different specifiers interleaved.
type Delegate struct {
	// WillFetch is called before a network fetch (or cache-staged fetch)
	// begins for specifier.
	WillFetch func(specifier reposource.Specifier, details FetchDetails)

	// Fetching reports incremental transfer progress during a fetch. It's
	// purely advisory.
	Fetching func(specifier reposource.Specifier, objectsFetched, total int64)

	// DidFetch is called once the fetch for specifier has reached a
	// terminal outcome, successful or not.
	DidFetch func(specifier reposource.Specifier, details FetchDetails, err error, duration time.Duration)

	// WillUpdate is called before an incremental update of an existing
	// available mirror begins.
	WillUpdate func(specifier reposource.Specifier)

	// DidUpdate is called once an incremental update has reached a
	// terminal outcome.
	DidUpdate func(specifier reposource.Specifier, err error, duration time.Duration)
}

func (d *Delegate) willFetch(specifier reposource.Specifier, details FetchDetails) {
	if d == nil || d.WillFetch == nil {
		return
	}
	d.WillFetch(specifier, details)
}

func (d *Delegate) fetching(specifier reposource.Specifier, objectsFetched, total int64) {
	if d == nil || d.Fetching == nil {
		return
	}
	d.Fetching(specifier, objectsFetched, total)
}

func (d *Delegate) didFetch(specifier reposource.Specifier, details FetchDetails, err error, duration time.Duration) {
	if d == nil || d.DidFetch == nil {
		return
	}
	d.DidFetch(specifier, details, err, duration)
}

func (d *Delegate) willUpdate(specifier reposource.Specifier) {
	if d == nil || d.WillUpdate == nil {
		return
	}
	d.WillUpdate(specifier)
}

func (d *Delegate) didUpdate(specifier reposource.Specifier, err error, duration time.Duration) {
	if d == nil || d.DidUpdate == nil {
		return
	}
	d.DidUpdate(specifier, err, duration)
}
