// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package gitprovider

import (
	"context"
	"errors"
	"fmt"
	"io"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/transport"

	"github.com/apparentlymart/go-versions/versions"

	"github.com/pkgcache/repomgr/repoprovider"
	"github.com/pkgcache/repomgr/reposource"
)

// gitRepository is the repoprovider.Repository returned by Provider.Open.
type gitRepository struct {
	specifier reposource.Specifier
	path      string
	repo      *gogit.Repository
	auth      func(reposource.Specifier) (transport.AuthMethod, error)
}

var _ repoprovider.Repository = (*gitRepository)(nil)

// Tags implements repoprovider.Repository.
func (r *gitRepository) Tags(ctx context.Context) ([]string, error) {
	iter, err := r.repo.Tags()
	if err != nil {
		return nil, fmt.Errorf("gitprovider: listing tags at %s: %w", r.path, err)
	}
	defer iter.Close()

	var tags []string
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		tags = append(tags, ref.Name().Short())
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("gitprovider: listing tags at %s: %w", r.path, err)
	}
	return tags, nil
}

// ResolveRevision implements repoprovider.Repository.
func (r *gitRepository) ResolveRevision(ctx context.Context, ref string) (reposource.Revision, error) {
	hash, err := r.repo.ResolveRevision(plumbing.Revision(ref))
	if err != nil {
		return "", fmt.Errorf("gitprovider: %s has no ref %q: %w", r.specifier, ref, err)
	}
	return reposource.Revision(hash.String()), nil
}

// FetchUpdate implements repoprovider.Repository.
func (r *gitRepository) FetchUpdate(ctx context.Context, progress repoprovider.ProgressFunc) error {
	auth, err := r.auth(r.specifier)
	if err != nil {
		return fmt.Errorf("gitprovider: resolving credentials for %s: %w", r.specifier, err)
	}

	err = r.repo.FetchContext(ctx, &gogit.FetchOptions{
		RemoteName: "origin",
		Auth:       auth,
		Tags:       gogit.AllTags,
		Progress:   newProgressWriter(progress),
	})
	if err != nil && !errors.Is(err, gogit.NoErrAlreadyUpToDate) {
		return fmt.Errorf("gitprovider: fetching %s: %w", r.specifier, err)
	}
	return nil
}

// OpenFile implements repoprovider.Repository.
func (r *gitRepository) OpenFile(ctx context.Context, revision reposource.Revision, path string) (io.ReadCloser, error) {
	hash, err := r.commitHash(revision)
	if err != nil {
		return nil, err
	}

	commit, err := r.repo.CommitObject(hash)
	if err != nil {
		return nil, fmt.Errorf("gitprovider: %s has no commit %s: %w", r.specifier, hash, err)
	}
	tree, err := commit.Tree()
	if err != nil {
		return nil, fmt.Errorf("gitprovider: reading tree at %s: %w", hash, err)
	}
	file, err := tree.File(path)
	if err != nil {
		return nil, fmt.Errorf("gitprovider: %s has no file %q at %s: %w", r.specifier, path, hash, err)
	}
	return file.Reader()
}

func (r *gitRepository) commitHash(revision reposource.Revision) (plumbing.Hash, error) {
	if revision == "" {
		head, err := r.repo.Head()
		if err != nil {
			return plumbing.ZeroHash, fmt.Errorf("gitprovider: resolving HEAD at %s: %w", r.path, err)
		}
		return head.Hash(), nil
	}
	hash, err := r.repo.ResolveRevision(plumbing.Revision(revision))
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("gitprovider: resolving revision %s: %w", revision, err)
	}
	return *hash, nil
}

// taggedVersion pairs a parsed semantic version with the tag name it came
// from, so ResolveVersionConstraint can map the winning version back to a
// resolvable ref.
type taggedVersion struct {
	version versions.Version
	tag     string
}

// Versions implements repoprovider.Repository. Tags that don't parse as
// semantic versions are silently excluded rather than failing the whole
// call, mirroring how sourcebundle.Builder treats non-version registry tags:
// a mixed tagging scheme degrades to "fewer versions visible", not an error.
func (r *gitRepository) Versions(ctx context.Context) (versions.List, bool) {
	tagged, ok := r.taggedVersions(ctx)
	if !ok {
		return nil, false
	}
	list := make(versions.List, len(tagged))
	for i, tv := range tagged {
		list[i] = tv.version
	}
	return list, true
}

func (r *gitRepository) taggedVersions(ctx context.Context) ([]taggedVersion, bool) {
	tags, err := r.Tags(ctx)
	if err != nil {
		return nil, false
	}
	var tagged []taggedVersion
	for _, tag := range tags {
		v, err := versions.ParseVersion(tag)
		if err != nil {
			continue
		}
		tagged = append(tagged, taggedVersion{version: v, tag: tag})
	}
	if len(tagged) == 0 {
		return nil, false
	}
	return tagged, true
}

// ResolveVersionConstraint implements repoprovider.Repository.
func (r *gitRepository) ResolveVersionConstraint(ctx context.Context, allowed versions.Set) (reposource.Revision, bool, error) {
	tagged, ok := r.taggedVersions(ctx)
	if !ok {
		return "", false, nil
	}

	list := make(versions.List, len(tagged))
	for i, tv := range tagged {
		list[i] = tv.version
	}
	selected := list.NewestInSet(allowed)
	if selected == versions.Unspecified {
		return "", false, nil
	}

	for _, tv := range tagged {
		if tv.version == selected {
			rev, err := r.ResolveRevision(ctx, tv.tag)
			if err != nil {
				return "", false, err
			}
			return rev, true, nil
		}
	}
	return "", false, nil
}
