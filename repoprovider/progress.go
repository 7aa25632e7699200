// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package repoprovider

// ProgressFunc is an advisory callback a Provider may invoke periodically
// during a long-running Fetch to report how many objects have been
// transferred so far. total is -1 if the provider cannot estimate it ahead
// of time.
//
// A ProgressFunc must never block significant work and must never be
// invoked after Fetch has returned.
type ProgressFunc func(objectsFetched, total int64)
