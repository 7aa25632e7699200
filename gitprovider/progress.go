// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package gitprovider

import (
	"io"
	"regexp"
	"strconv"

	"github.com/pkgcache/repomgr/repoprovider"
)

// progressWriter adapts repoprovider.ProgressFunc to the io.Writer go-git
// expects for CloneOptions.Progress/FetchOptions.Progress: git's side-band
// transport reports progress as free-form text lines like "Receiving
// objects: 45% (450/1000)", so this scans each write for the last
// "(N/total)" pair rather than structured counters. Best effort only: a line
// that doesn't match is silently ignored, since progress is advisory.
type progressWriter struct {
	fn repoprovider.ProgressFunc
}

var progressCountsPattern = regexp.MustCompile(`\((\d+)/(\d+)\)`)

func newProgressWriter(fn repoprovider.ProgressFunc) io.Writer {
	if fn == nil {
		return nil
	}
	return &progressWriter{fn: fn}
}

func (w *progressWriter) Write(p []byte) (int, error) {
	if all := progressCountsPattern.FindAllSubmatch(p, -1); len(all) > 0 {
		m := all[len(all)-1]
		fetched, errF := strconv.ParseInt(string(m[1]), 10, 64)
		total, errT := strconv.ParseInt(string(m[2]), 10, 64)
		if errF == nil && errT == nil {
			w.fn(fetched, total)
		}
	}
	return len(p), nil
}
