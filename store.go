// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package repomgr

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkgcache/repomgr/internal/atomicfile"
	"github.com/pkgcache/repomgr/reposource"
)

// currentStoreSchemaVersion is the only schema version this package knows
// how to load. Bumping it implies a migration step, not an ad-hoc parse of
// the old format.
const currentStoreSchemaVersion = 1

const storeFileName = "checkouts-state.json"

// WarningFunc receives non-fatal diagnostics emitted while loading the
// persisted store, such as "no store file found" or "unknown schema
// version".
type WarningFunc func(message string)

// storeRecord is a single repository record as held in memory.
type storeRecord struct {
	Subpath string
	Status  Status
}

// handleStore is the persistent, single-file mapping from canonicalized
// specifier to repository record. All mutations go through store.mu and are
// followed by an atomic rewrite of the backing file.
type handleStore struct {
	mu      sync.Mutex
	path    string
	warn    WarningFunc
	records map[string]storeRecord
}

// storeFileRoot is the on-disk JSON shape. Each repository entry is decoded
// straight into storeFileRecord, so fields other than subpath and status are
// not preserved: they are dropped the next time the store is written.
type storeFileRoot struct {
	Version      int                        `json:"version"`
	Repositories map[string]storeFileRecord `json:"repositories"`
}

type storeFileRecord struct {
	Subpath string `json:"subpath"`
	Status  string `json:"status"`
}

// loadHandleStore opens (or initializes) the store file at
// <root>/checkouts-state.json. A missing, corrupt, or unrecognized-schema
// file is never fatal: warn receives a description of the problem and the
// store starts out empty.
func loadHandleStore(root string, warn WarningFunc) (*handleStore, error) {
	if warn == nil {
		warn = func(string) {}
	}

	s := &handleStore{
		path:    filepath.Join(root, storeFileName),
		warn:    warn,
		records: make(map[string]storeRecord),
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			warn("no repository store found, starting fresh")
			return s, nil
		}
		warn(fmt.Sprintf("failed to read repository store, starting fresh: %s", err))
		return s, nil
	}

	var parsed storeFileRoot
	if err := json.Unmarshal(data, &parsed); err != nil {
		warn(fmt.Sprintf("repository store is corrupt, starting fresh: %s", err))
		return s, nil
	}
	if parsed.Version != currentStoreSchemaVersion {
		warn(fmt.Sprintf("repository store has unknown schema version %d, starting fresh", parsed.Version))
		return s, nil
	}

	for loc, rec := range parsed.Repositories {
		status := Status(rec.Status)
		switch status {
		case StatusPending, StatusAvailable, StatusError:
		default:
			status = StatusError
		}
		s.records[loc] = storeRecord{Subpath: rec.Subpath, Status: status}
	}

	return s, nil
}

// get returns the record for specifier, if one exists.
func (s *handleStore) get(specifier reposource.Specifier) (storeRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[specifier.String()]
	return rec, ok
}

// getByLocation looks up a record by its raw canonical location string,
// for callers (like startup crash recovery) that only have the string form
// on hand rather than a parsed Specifier.
func (s *handleStore) getByLocation(canonicalLocation string) (storeRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[canonicalLocation]
	return rec, ok
}

// snapshot returns a read-only copy of every record currently held,
// keyed by canonical location, for aggregate read operations like Stats.
func (s *handleStore) snapshot() map[string]storeRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]storeRecord, len(s.records))
	for k, v := range s.records {
		out[k] = v
	}
	return out
}

// put upserts the record for specifier and persists the store before
// returning. On a write failure the in-memory map is rolled back to its
// prior state.
func (s *handleStore) put(specifier reposource.Specifier, rec storeRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prior, hadPrior := s.records[specifier.String()]
	s.records[specifier.String()] = rec

	if err := s.persistLocked(); err != nil {
		if hadPrior {
			s.records[specifier.String()] = prior
		} else {
			delete(s.records, specifier.String())
		}
		return err
	}
	return nil
}

// remove erases the record for specifier, if any, and persists. The caller
// is responsible for removing the on-disk repository directory beforehand.
func (s *handleStore) remove(specifier reposource.Specifier) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prior, hadPrior := s.records[specifier.String()]
	if !hadPrior {
		return nil
	}
	delete(s.records, specifier.String())

	if err := s.persistLocked(); err != nil {
		s.records[specifier.String()] = prior
		return err
	}
	return nil
}

// reset empties the store and persists.
func (s *handleStore) reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prior := s.records
	s.records = make(map[string]storeRecord)

	if err := s.persistLocked(); err != nil {
		s.records = prior
		return err
	}
	return nil
}

// demotePendingToError is called once at startup: any record left in
// StatusPending means the process crashed mid-fetch, and a pending record
// is never trusted across a restart.
func (s *handleStore) demotePendingToError() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var demoted []string
	for loc, rec := range s.records {
		if rec.Status == StatusPending {
			rec.Status = StatusError
			s.records[loc] = rec
			demoted = append(demoted, loc)
		}
	}
	if len(demoted) == 0 {
		return nil, nil
	}
	if err := s.persistLocked(); err != nil {
		return nil, err
	}
	return demoted, nil
}

// persistLocked serializes the current in-memory state and atomically
// replaces the store file. Callers must hold s.mu.
func (s *handleStore) persistLocked() error {
	root := storeFileRoot{
		Version:      currentStoreSchemaVersion,
		Repositories: make(map[string]storeFileRecord, len(s.records)),
	}
	for loc, rec := range s.records {
		root.Repositories[loc] = storeFileRecord{Subpath: rec.Subpath, Status: string(rec.Status)}
	}

	data, err := json.MarshalIndent(root, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode repository store: %w", err)
	}

	if err := atomicfile.Write(s.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to persist repository store: %w", err)
	}
	return nil
}
