// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/pkgcache/repomgr"
	"github.com/pkgcache/repomgr/reposource"
)

// cliDelegate builds a repomgr.Delegate that prints fetch/update lifecycle
// events to stderr, in keeping with the teacher's CLI-adjacent packages:
// none of them pull in a logging framework, they just write to stderr.
func cliDelegate() *repomgr.Delegate {
	return &repomgr.Delegate{
		WillFetch: func(specifier reposource.Specifier, details repomgr.FetchDetails) {
			fmt.Fprintf(os.Stderr, "fetching %s...\n", specifier)
		},
		DidFetch: func(specifier reposource.Specifier, details repomgr.FetchDetails, err error, d time.Duration) {
			if err != nil {
				fmt.Fprintf(os.Stderr, "fetch of %s failed after %s: %s\n", specifier, d, err)
				return
			}
			switch {
			case details.FromCache:
				fmt.Fprintf(os.Stderr, "fetched %s from cache in %s\n", specifier, d)
			case details.UpdatedCache:
				fmt.Fprintf(os.Stderr, "fetched %s in %s (cache populated)\n", specifier, d)
			default:
				fmt.Fprintf(os.Stderr, "fetched %s in %s\n", specifier, d)
			}
		},
		WillUpdate: func(specifier reposource.Specifier) {
			fmt.Fprintf(os.Stderr, "updating %s...\n", specifier)
		},
		DidUpdate: func(specifier reposource.Specifier, err error, d time.Duration) {
			if err != nil {
				fmt.Fprintf(os.Stderr, "update of %s failed after %s: %s\n", specifier, d, err)
				return
			}
			fmt.Fprintf(os.Stderr, "updated %s in %s\n", specifier, d)
		},
	}
}
