// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

// Package gitprovider implements repoprovider.Provider against real git
// remotes using go-git. It is grounded on the clone/fetch/checkout sequence
// driftlessaf's clonemanager.Manager uses for its lease pool, adapted here
// to repomgr's mirror-then-checkout lifecycle: Fetch produces a long-lived
// bare mirror instead of a disposable working clone, and CreateWorkingCopy
// derives a working tree from that mirror on demand.
package gitprovider

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/transport"
	githttp "github.com/go-git/go-git/v5/plumbing/transport/http"

	"github.com/pkgcache/repomgr/internal/treecopy"
	"github.com/pkgcache/repomgr/repoprovider"
	"github.com/pkgcache/repomgr/reposource"
)

// Provider is a repoprovider.Provider backed by go-git.
type Provider struct {
	authFunc func(reposource.Specifier) (transport.AuthMethod, error)
}

// Option configures optional Provider behavior.
type Option func(*Provider)

// WithBasicAuth authenticates every remote operation with a static
// username/password (or username/access-token) pair, the same credential
// shape clonemanager.Manager.authForRemote builds for GitHub access tokens.
func WithBasicAuth(username, password string) Option {
	return func(p *Provider) {
		p.authFunc = func(reposource.Specifier) (transport.AuthMethod, error) {
			return &githttp.BasicAuth{Username: username, Password: password}, nil
		}
	}
}

// NewProvider constructs a git-backed Provider.
func NewProvider(opts ...Option) *Provider {
	p := &Provider{}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Provider) auth(specifier reposource.Specifier) (transport.AuthMethod, error) {
	if p.authFunc == nil {
		return nil, nil
	}
	return p.authFunc(specifier)
}

var _ repoprovider.Provider = (*Provider)(nil)

// Fetch implements repoprovider.Provider: it clones specifier as a bare
// mirror at destination.
func (p *Provider) Fetch(ctx context.Context, specifier reposource.Specifier, destination string, progress repoprovider.ProgressFunc) error {
	if _, err := os.Lstat(destination); err == nil {
		return fmt.Errorf("gitprovider: destination %s already exists", destination)
	}

	auth, err := p.auth(specifier)
	if err != nil {
		return fmt.Errorf("gitprovider: resolving credentials for %s: %w", specifier, err)
	}

	_, err = gogit.PlainCloneContext(ctx, destination, true, &gogit.CloneOptions{
		URL:      specifier.String(),
		Auth:     auth,
		Tags:     gogit.AllTags,
		Progress: newProgressWriter(progress),
	})
	if err != nil {
		os.RemoveAll(destination)
		return fmt.Errorf("gitprovider: cloning %s: %w", specifier, err)
	}
	return nil
}

// Copy implements repoprovider.Provider by duplicating the mirror's on-disk
// git directory, the cheapest way to stage it into a shared cache without
// touching the network again.
func (p *Provider) Copy(ctx context.Context, source, destination string) error {
	if ok, _ := p.RepositoryExists(source); !ok {
		return fmt.Errorf("gitprovider: %s is not a valid mirror to copy from", source)
	}
	return treecopy.Copy(source, destination)
}

// RepositoryExists implements repoprovider.Provider.
func (p *Provider) RepositoryExists(path string) (bool, error) {
	repo, err := gogit.PlainOpen(path)
	if err != nil {
		if errors.Is(err, gogit.ErrRepositoryNotExists) {
			return false, nil
		}
		return false, nil
	}
	cfg, err := repo.Config()
	if err != nil {
		return false, nil
	}
	return cfg.Core.IsBare, nil
}

// IsValidDirectory implements repoprovider.Provider.
func (p *Provider) IsValidDirectory(path string) bool {
	ok, _ := p.RepositoryExists(path)
	return ok
}

// Open implements repoprovider.Provider.
func (p *Provider) Open(ctx context.Context, specifier reposource.Specifier, path string) (repoprovider.Repository, error) {
	repo, err := gogit.PlainOpen(path)
	if err != nil {
		return nil, fmt.Errorf("gitprovider: opening mirror at %s: %w", path, err)
	}
	return &gitRepository{specifier: specifier, path: path, repo: repo, auth: p.auth}, nil
}

// CreateWorkingCopy implements repoprovider.Provider: it clones source (a
// local bare mirror) into a non-bare working tree at destination.
func (p *Provider) CreateWorkingCopy(ctx context.Context, specifier reposource.Specifier, source, destination string, editable bool) (repoprovider.WorkingCheckout, error) {
	repo, err := gogit.PlainCloneContext(ctx, destination, false, &gogit.CloneOptions{URL: source})
	if err != nil {
		return nil, fmt.Errorf("gitprovider: checking out %s: %w", specifier, err)
	}

	head, err := repo.Head()
	if err != nil {
		return nil, fmt.Errorf("gitprovider: resolving checked-out revision at %s: %w", destination, err)
	}
	return &gitWorkingCheckout{path: destination, editable: editable, revision: reposource.Revision(head.Hash().String())}, nil
}

// WorkingCopyExists implements repoprovider.Provider.
func (p *Provider) WorkingCopyExists(path string) (bool, error) {
	repo, err := gogit.PlainOpen(path)
	if err != nil {
		if errors.Is(err, gogit.ErrRepositoryNotExists) {
			return false, nil
		}
		return false, nil
	}
	cfg, err := repo.Config()
	if err != nil {
		return false, nil
	}
	return !cfg.Core.IsBare, nil
}

// OpenWorkingCopy implements repoprovider.Provider. A working copy reopened
// from just its path is always treated as editable: the provider has no way
// to recall the editable flag a caller originally requested, matching
// internal/repotest's fake provider behavior for the same reason.
func (p *Provider) OpenWorkingCopy(path string) (repoprovider.WorkingCheckout, error) {
	repo, err := gogit.PlainOpen(path)
	if err != nil {
		return nil, fmt.Errorf("gitprovider: opening working copy at %s: %w", path, err)
	}
	head, err := repo.Head()
	if err != nil {
		return nil, fmt.Errorf("gitprovider: resolving checked-out revision at %s: %w", path, err)
	}
	return &gitWorkingCheckout{path: path, editable: true, revision: reposource.Revision(head.Hash().String())}, nil
}

// IsValidRefFormat implements repoprovider.Provider, matching git's own
// check-ref-format restrictions closely enough to reject the common
// mistakes (whitespace, empty strings) without reimplementing the full rule
// set.
func (p *Provider) IsValidRefFormat(ref string) bool {
	if ref == "" || strings.ContainsAny(ref, " \t\n~^:?*[\\") {
		return false
	}
	return !strings.HasPrefix(ref, "-") && !strings.HasSuffix(ref, ".lock")
}
