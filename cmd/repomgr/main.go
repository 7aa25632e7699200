// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package main

import "github.com/pkgcache/repomgr/cmd/repomgr/cmd"

func main() {
	cmd.Execute()
}
