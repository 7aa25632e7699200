// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

// Package repomgr implements a concurrency-safe, persistent cache of
// version-control repositories fetched from remote locations. It sits
// between a caller that wants a handle to a repository and a pluggable
// repoprovider.Provider abstracting the underlying VCS: it coalesces
// concurrent requests for the same repository into a single fetch,
// maintains an on-disk index that survives process restarts, optionally
// stages fetches through a shared cross-workspace cache, and reports
// progress through an optional Delegate.
package repomgr

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pkgcache/repomgr/internal/dirhashutil"
	"github.com/pkgcache/repomgr/internal/escapingfs"
	"github.com/pkgcache/repomgr/repoprovider"
	"github.com/pkgcache/repomgr/reposource"
)

// Manager is the public façade: lookup/remove/reset over a root directory
// of repository mirrors, backed by a handleStore and a coordinator. A
// Manager owns its root directory tree and store file exclusively; callers
// must never mutate manager-owned paths directly.
type Manager struct {
	root               string
	cachePath          string
	cacheLocalPackages bool

	provider repoprovider.Provider
	store    *handleStore
	coord    *coordinator
	delegate *Delegate
}

// Option configures optional Manager behavior at construction time.
type Option func(*managerConfig)

type managerConfig struct {
	cachePath          string
	cacheLocalPackages bool
	warn               WarningFunc
	delegate           *Delegate
}

// WithCachePath configures a shared cross-workspace cache directory.
// Eligible fetches are staged through it: a hit copies the mirror locally
// without touching the network, and a miss populates it after a successful
// network fetch.
func WithCachePath(path string) Option {
	return func(c *managerConfig) { c.cachePath = path }
}

// WithCacheLocalPackages makes local (file://) specifiers eligible for
// cache staging too. By default only remote specifiers are staged through
// the cache, since a local path fetch never touches the network anyway.
func WithCacheLocalPackages(enabled bool) Option {
	return func(c *managerConfig) { c.cacheLocalPackages = enabled }
}

// WithWarningHandler configures where the Manager reports non-fatal store
// load problems (missing file, corrupt file, unknown schema version).
func WithWarningHandler(warn WarningFunc) Option {
	return func(c *managerConfig) { c.warn = warn }
}

// WithDelegate configures the optional fetch/update lifecycle observer.
func WithDelegate(delegate *Delegate) Option {
	return func(c *managerConfig) { c.delegate = delegate }
}

// NewManager constructs a Manager rooted at root, using provider to perform
// all VCS operations. root is created if it doesn't already exist.
//
// At startup, any record left in the pending state by a prior crash is
// demoted to error and its on-disk directory removed, so that no stale
// pending record is ever visible to a lookup.
func NewManager(root string, provider repoprovider.Provider, opts ...Option) (*Manager, error) {
	var cfg managerConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create repository manager root %s: %w", root, err)
	}

	store, err := loadHandleStore(root, cfg.warn)
	if err != nil {
		return nil, err
	}

	m := &Manager{
		root:               root,
		cachePath:          cfg.cachePath,
		cacheLocalPackages: cfg.cacheLocalPackages,
		provider:           provider,
		store:              store,
		coord:              newCoordinator(),
		delegate:           cfg.delegate,
	}

	demoted, err := store.demotePendingToError()
	if err != nil {
		return nil, fmt.Errorf("failed to recover repository manager state: %w", err)
	}
	if err := m.removeDemotedDirectories(demoted); err != nil {
		return nil, err
	}

	return m, nil
}

// removeDemotedDirectories removes the on-disk subdirectory for every
// canonical location demoted from pending to error at startup. Best effort
// per entry: the store already reflects the error status regardless.
func (m *Manager) removeDemotedDirectories(canonicalLocations []string) error {
	for _, loc := range canonicalLocations {
		rec, ok := m.store.getByLocation(loc)
		if !ok {
			continue
		}
		path := filepath.Join(m.root, rec.Subpath)
		if err := os.RemoveAll(path); err != nil {
			return fmt.Errorf("failed to remove partial repository directory %s: %w", path, err)
		}
	}
	return nil
}

// Lookup resolves specifier to a RepositoryHandle, fetching or updating the
// underlying mirror as needed. If skipUpdate is true and a prior available
// mirror already exists, it's returned immediately without checking for
// updates.
func (m *Manager) Lookup(ctx context.Context, specifier reposource.Specifier, skipUpdate bool) (RepositoryHandle, error) {
	if rec, ok := m.store.get(specifier); ok && rec.Status == StatusAvailable {
		path := filepath.Join(m.root, rec.Subpath)
		if m.provider.IsValidDirectory(path) {
			handle := RepositoryHandle{specifier: specifier, path: path, status: StatusAvailable, provider: m.provider}
			if skipUpdate {
				return handle, nil
			}
			return m.updateExisting(ctx, specifier, handle, rec.Subpath)
		}
		// The stored path is no longer a valid mirror (removed out from
		// under us, or corrupted). Fall through and re-fetch.
	}

	return m.fetch(ctx, specifier)
}

// updateExisting performs an in-place incremental update of an already
// available mirror. An ordinary update failure leaves the existing handle
// usable; if the provider reports corruption after the update, the mirror
// is discarded and re-fetched once.
func (m *Manager) updateExisting(ctx context.Context, specifier reposource.Specifier, handle RepositoryHandle, subpath string) (RepositoryHandle, error) {
	m.delegate.willUpdate(specifier)
	start := time.Now()

	repo, err := m.provider.Open(ctx, specifier, handle.path)
	if err == nil {
		err = repo.FetchUpdate(ctx, func(fetched, total int64) {
			m.delegate.fetching(specifier, fetched, total)
		})
	}
	duration := time.Since(start)
	m.delegate.didUpdate(specifier, err, duration)

	if err != nil {
		return handle, err
	}

	if m.provider.IsValidDirectory(handle.path) {
		return handle, nil
	}

	// The provider signaled corruption: discard and re-fetch once.
	if rmErr := os.RemoveAll(handle.path); rmErr != nil {
		return handle, fmt.Errorf("detected corrupt mirror for %s and failed to remove it: %w", specifier, rmErr)
	}
	if err := m.store.remove(specifier); err != nil {
		return handle, fmt.Errorf("failed to clear corrupt record for %s: %w", specifier, err)
	}
	return m.fetch(ctx, specifier)
}

// fetch routes a cache-miss lookup through the coordinator so that
// concurrent callers for the same specifier collapse into one fetch.
func (m *Manager) fetch(ctx context.Context, specifier reposource.Specifier) (RepositoryHandle, error) {
	result := m.coord.run(specifier.String(), func() fetchResult {
		// A caller that read the store just before a concurrent fetch of the
		// same specifier completed reaches here after that fetch's in-flight
		// entry is gone; it gets the finished mirror instead of fetching
		// over it.
		if rec, ok := m.store.get(specifier); ok && rec.Status == StatusAvailable {
			path := filepath.Join(m.root, rec.Subpath)
			if m.provider.IsValidDirectory(path) {
				return fetchResult{handle: RepositoryHandle{specifier: specifier, path: path, status: StatusAvailable, provider: m.provider}}
			}
		}
		return m.performFetch(ctx, specifier)
	})
	return result.handle, result.err
}

func (m *Manager) performFetch(ctx context.Context, specifier reposource.Specifier) fetchResult {
	subpath := specifier.StoragePath()
	destPath := filepath.Join(m.root, subpath)

	if within, err := escapingfs.TargetWithinRoot(m.root, destPath); err != nil {
		return fetchResult{err: fmt.Errorf("failed to validate destination for %s: %w", specifier, err)}
	} else if !within {
		return fetchResult{err: fmt.Errorf("storage path for %s escapes the repository manager root", specifier)}
	}

	if err := m.store.put(specifier, storeRecord{Subpath: subpath, Status: StatusPending}); err != nil {
		return fetchResult{err: fmt.Errorf("failed to record pending fetch for %s: %w", specifier, err)}
	}

	var details FetchDetails
	m.delegate.willFetch(specifier, details)
	start := time.Now()

	err := m.fetchInto(ctx, specifier, destPath, &details)
	duration := time.Since(start)

	if err != nil {
		os.RemoveAll(destPath)
		if putErr := m.store.put(specifier, storeRecord{Subpath: subpath, Status: StatusError}); putErr != nil {
			err = fmt.Errorf("%w (additionally failed to persist error status: %s)", err, putErr)
		}
		m.delegate.didFetch(specifier, details, err, duration)
		return fetchResult{err: err}
	}

	if sum, hashErr := dirhashutil.HashDir(destPath); hashErr == nil {
		details.MirrorChecksum = sum
	}

	if err := m.store.put(specifier, storeRecord{Subpath: subpath, Status: StatusAvailable}); err != nil {
		m.delegate.didFetch(specifier, details, err, duration)
		return fetchResult{err: err}
	}

	m.delegate.didFetch(specifier, details, nil, duration)
	return fetchResult{handle: RepositoryHandle{specifier: specifier, path: destPath, status: StatusAvailable, provider: m.provider}}
}

// fetchInto performs the fetch-or-cache-stage decision described on
// WithCachePath and WithCacheLocalPackages, writing the result into destPath
// and recording what happened in details.
func (m *Manager) fetchInto(ctx context.Context, specifier reposource.Specifier, destPath string, details *FetchDetails) error {
	if m.cacheEligible(specifier) {
		cachePath := filepath.Join(m.cachePath, specifier.StoragePath())

		if err := m.provider.Copy(ctx, cachePath, destPath); err == nil {
			details.FromCache = true
			return nil
		}
		os.RemoveAll(destPath)

		progress := func(fetched, total int64) { m.delegate.fetching(specifier, fetched, total) }
		if err := m.provider.Fetch(ctx, specifier, destPath, progress); err != nil {
			return err
		}

		if err := m.provider.Copy(ctx, destPath, cachePath); err == nil {
			details.UpdatedCache = true
		}
		return nil
	}

	progress := func(fetched, total int64) { m.delegate.fetching(specifier, fetched, total) }
	return m.provider.Fetch(ctx, specifier, destPath, progress)
}

func (m *Manager) cacheEligible(specifier reposource.Specifier) bool {
	if m.cachePath == "" {
		return false
	}
	if specifier.IsLocal() {
		return m.cacheLocalPackages
	}
	return true
}

// Remove deletes the on-disk clone for specifier (best effort: its absence
// is not an error) and then its store record. Calling Remove twice in a
// row succeeds both times.
func (m *Manager) Remove(specifier reposource.Specifier) error {
	rec, ok := m.store.get(specifier)
	if ok {
		path := filepath.Join(m.root, rec.Subpath)
		if err := os.RemoveAll(path); err != nil {
			return fmt.Errorf("failed to remove repository directory %s: %w", path, err)
		}
	}
	return m.store.remove(specifier)
}

// Reset removes every entry under the repositories root directory except the
// store file, then empties the store and rewrites that file. Calling Reset
// twice in a row succeeds both times; subsequent lookups re-fetch from
// scratch.
func (m *Manager) Reset() error {
	entries, err := os.ReadDir(m.root)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to list repository manager root %s: %w", m.root, err)
	}
	for _, entry := range entries {
		if entry.Name() == storeFileName {
			continue
		}
		if err := os.RemoveAll(filepath.Join(m.root, entry.Name())); err != nil {
			return fmt.Errorf("failed to remove %s: %w", entry.Name(), err)
		}
	}
	return m.store.reset()
}

// ManagerStats is a read-only snapshot of the manager's current state,
// used by the cmd/repomgr status command and by tests asserting the
// testable invariants around record counts.
type ManagerStats struct {
	Available int
	Pending   int
	Error     int
	InFlight  int
}

// Stats returns a snapshot of the current record counts by status, plus the
// number of specifiers with a fetch currently coalesced through the
// coordinator.
func (m *Manager) Stats() ManagerStats {
	var stats ManagerStats
	for _, rec := range m.store.snapshot() {
		switch rec.Status {
		case StatusAvailable:
			stats.Available++
		case StatusPending:
			stats.Pending++
		case StatusError:
			stats.Error++
		}
	}
	stats.InFlight = m.coord.inFlightCount()
	return stats
}
