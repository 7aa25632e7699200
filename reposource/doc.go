// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

// Package reposource implements the canonicalized addressing scheme the
// repository manager uses to identify a source-control repository and to
// derive a stable, filesystem-safe on-disk directory name for it.
//
// A [Specifier] is built from either a URL-like remote location or a local
// filesystem path. Two specifiers built from equivalent locations always
// compare equal and always produce the same [Specifier.StoragePath], while
// two specifiers for distinct locations never collide on either front.
package reposource
