// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package repotest

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/pkgcache/repomgr/repoprovider"
	"github.com/pkgcache/repomgr/reposource"
)

// RepoDef describes a repository this Provider knows how to serve. Only
// locations registered via NewProvider can be fetched; a lookup for any
// other specifier fails, the same way a real provider would fail against
// an unknown or unreachable remote.
type RepoDef struct {
	// Tags are the opaque tag names the mirror exposes.
	Tags []string

	// Files maps a repository-relative path to file content, available
	// through Repository.OpenFile and materialized into working copies.
	Files map[string]string
}

// Provider is an in-memory-configured repoprovider.Provider backed by real
// directories on disk, so that a repomgr.Manager under test exercises the
// same filesystem contracts a production provider would.
type Provider struct {
	mu      sync.Mutex
	defs    map[string]RepoDef
	clones  int
	fetches int
}

// NewProvider builds a Provider serving exactly the repositories in defs,
// keyed by the canonical form of their specifier (for example,
// "file:///dummy").
func NewProvider(defs map[string]RepoDef) *Provider {
	copied := make(map[string]RepoDef, len(defs))
	for k, v := range defs {
		copied[k] = v
	}
	return &Provider{defs: copied}
}

// NumClones is the count of Fetch calls that performed an initial mirror
// population, as distinct from NumFetches, which counts incremental
// Repository.FetchUpdate calls.
func (p *Provider) NumClones() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.clones
}

// NumFetches is the count of incremental Repository.FetchUpdate calls.
func (p *Provider) NumFetches() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.fetches
}

func (p *Provider) lookupDef(specifier reposource.Specifier) (RepoDef, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	def, ok := p.defs[specifier.String()]
	return def, ok
}

// Fetch implements repoprovider.Provider.
func (p *Provider) Fetch(ctx context.Context, specifier reposource.Specifier, destination string, progress repoprovider.ProgressFunc) error {
	def, ok := p.lookupDef(specifier)
	if !ok {
		return fmt.Errorf("repotest: no repository registered for %s", specifier)
	}
	if _, err := os.Lstat(destination); err == nil {
		return fmt.Errorf("repotest: destination %s already exists", destination)
	}

	meta := mirrorMetadata{Tags: append([]string(nil), def.Tags...), Revision: "rev-1", Files: def.Files}
	if err := writeMirror(destination, meta); err != nil {
		return err
	}

	if progress != nil {
		total := int64(len(def.Files) + 1)
		progress(total, total)
	}

	p.mu.Lock()
	p.clones++
	p.mu.Unlock()
	return nil
}

// Copy implements repoprovider.Provider.
func (p *Provider) Copy(ctx context.Context, source, destination string) error {
	if !isValidMirror(source) {
		return fmt.Errorf("repotest: %s is not a valid mirror to copy from", source)
	}
	return copyTree(source, destination)
}

// RepositoryExists implements repoprovider.Provider.
func (p *Provider) RepositoryExists(path string) (bool, error) {
	return isValidMirror(path), nil
}

// Open implements repoprovider.Provider.
func (p *Provider) Open(ctx context.Context, specifier reposource.Specifier, path string) (repoprovider.Repository, error) {
	meta, err := readMirror(path)
	if err != nil {
		return nil, err
	}
	return &fakeRepository{provider: p, specifier: specifier, path: path, meta: meta}, nil
}

// CreateWorkingCopy implements repoprovider.Provider.
func (p *Provider) CreateWorkingCopy(ctx context.Context, specifier reposource.Specifier, source, destination string, editable bool) (repoprovider.WorkingCheckout, error) {
	meta, err := readMirror(source)
	if err != nil {
		return nil, err
	}
	if err := copyTree(source, destination); err != nil {
		return nil, err
	}
	return &fakeWorkingCheckout{path: destination, editable: editable, revision: reposource.Revision(meta.Revision)}, nil
}

// WorkingCopyExists implements repoprovider.Provider.
func (p *Provider) WorkingCopyExists(path string) (bool, error) {
	return isValidMirror(path), nil
}

// OpenWorkingCopy implements repoprovider.Provider.
func (p *Provider) OpenWorkingCopy(path string) (repoprovider.WorkingCheckout, error) {
	meta, err := readMirror(path)
	if err != nil {
		return nil, err
	}
	return &fakeWorkingCheckout{path: path, editable: true, revision: reposource.Revision(meta.Revision)}, nil
}

// IsValidDirectory implements repoprovider.Provider.
func (p *Provider) IsValidDirectory(path string) bool {
	return isValidMirror(path)
}

// IsValidRefFormat implements repoprovider.Provider.
func (p *Provider) IsValidRefFormat(ref string) bool {
	return ref != "" && !strings.ContainsAny(ref, " \t\n")
}
