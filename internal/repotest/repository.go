// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package repotest

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/apparentlymart/go-versions/versions"

	"github.com/pkgcache/repomgr/repoprovider"
	"github.com/pkgcache/repomgr/reposource"
)

// fakeRepository is the repoprovider.Repository returned by Provider.Open.
// It doesn't model real VCS history: FetchUpdate just advances an
// in-memory revision counter and rewrites the mirror's metadata file in
// place, which is enough to exercise the manager's update-vs-fetch paths
// without needing a real VCS driver.
type fakeRepository struct {
	provider  *Provider
	specifier reposource.Specifier
	path      string
	meta      mirrorMetadata
}

var _ repoprovider.Repository = (*fakeRepository)(nil)

// Tags implements repoprovider.Repository.
func (r *fakeRepository) Tags(ctx context.Context) ([]string, error) {
	return r.meta.Tags, nil
}

// ResolveRevision implements repoprovider.Repository.
func (r *fakeRepository) ResolveRevision(ctx context.Context, ref string) (reposource.Revision, error) {
	if ref == "" {
		return reposource.Revision(r.meta.Revision), nil
	}
	for _, tag := range r.meta.Tags {
		if tag == ref {
			return reposource.Revision(r.meta.Revision + "@" + tag), nil
		}
	}
	return "", fmt.Errorf("repotest: %s has no ref %q", r.specifier, ref)
}

// FetchUpdate implements repoprovider.Repository.
func (r *fakeRepository) FetchUpdate(ctx context.Context, progress repoprovider.ProgressFunc) error {
	meta, err := readMirror(r.path)
	if err != nil {
		return err
	}

	next := nextRevision(meta.Revision)
	meta.Revision = next
	if err := writeMirror(r.path, meta); err != nil {
		return err
	}
	r.meta = meta

	if progress != nil {
		progress(1, 1)
	}

	r.provider.mu.Lock()
	r.provider.fetches++
	r.provider.mu.Unlock()
	return nil
}

// OpenFile implements repoprovider.Repository.
func (r *fakeRepository) OpenFile(ctx context.Context, revision reposource.Revision, path string) (io.ReadCloser, error) {
	content, ok := r.meta.Files[path]
	if !ok {
		return nil, fmt.Errorf("repotest: %s has no file %q at %s", r.specifier, path, revision)
	}
	return io.NopCloser(strings.NewReader(content)), nil
}

// Versions implements repoprovider.Repository. This stub never interprets
// its tags as semantic versions, matching a provider that legitimately
// can't (exercising the "declines the optional capability" path).
func (r *fakeRepository) Versions(ctx context.Context) (versions.List, bool) {
	return nil, false
}

// ResolveVersionConstraint implements repoprovider.Repository.
func (r *fakeRepository) ResolveVersionConstraint(ctx context.Context, allowed versions.Set) (reposource.Revision, bool, error) {
	return "", false, nil
}

func nextRevision(current string) string {
	n := 1
	if strings.HasPrefix(current, "rev-") {
		if parsed, err := strconv.Atoi(strings.TrimPrefix(current, "rev-")); err == nil {
			n = parsed + 1
		}
	}
	return "rev-" + strconv.Itoa(n)
}
