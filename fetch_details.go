// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package repomgr

// FetchDetails carries observational information about how a fetch was
// performed, delivered to a Delegate alongside will_fetch/did_fetch events.
// Nothing in the Manager's correctness depends on these fields; they exist
// purely for diagnostics and UI feedback.
type FetchDetails struct {
	// FromCache is true if a configured shared cache supplied the
	// objects, rather than a network fetch.
	FromCache bool

	// UpdatedCache is true if this fetch wrote the objects back into the
	// shared cache.
	UpdatedCache bool

	// MirrorChecksum is a dirhash digest of the resulting mirror,
	// computed after a successful network fetch or cache copy. It's
	// empty in the details passed to WillFetch, after a failed fetch,
	// and when computing the digest fails.
	MirrorChecksum string
}
