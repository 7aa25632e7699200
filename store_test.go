// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package repomgr

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/pkgcache/repomgr/reposource"
)

func mustSpecifier(t *testing.T, location string) reposource.Specifier {
	t.Helper()
	spec, err := reposource.ParseSpecifier(location)
	if err != nil {
		t.Fatalf("failed to parse %q: %s", location, err)
	}
	return spec
}

func TestHandleStorePutGetRemove(t *testing.T) {
	dir := t.TempDir()
	store, err := loadHandleStore(dir, nil)
	if err != nil {
		t.Fatal(err)
	}

	spec := mustSpecifier(t, "/dummy")
	if err := store.put(spec, storeRecord{Subpath: spec.StoragePath(), Status: StatusAvailable}); err != nil {
		t.Fatal(err)
	}

	rec, ok := store.get(spec)
	if !ok {
		t.Fatal("expected a record after put")
	}
	want := storeRecord{Subpath: spec.StoragePath(), Status: StatusAvailable}
	if diff := cmp.Diff(want, rec); diff != "" {
		t.Errorf("unexpected record (-want +got):\n%s", diff)
	}

	if err := store.remove(spec); err != nil {
		t.Fatal(err)
	}
	if _, ok := store.get(spec); ok {
		t.Fatal("expected no record after remove")
	}

	// Idempotent.
	if err := store.remove(spec); err != nil {
		t.Fatalf("second remove should succeed, got %s", err)
	}
}

func TestHandleStorePersistsAcrossLoad(t *testing.T) {
	dir := t.TempDir()
	spec := mustSpecifier(t, "/dummy")

	store, err := loadHandleStore(dir, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.put(spec, storeRecord{Subpath: spec.StoragePath(), Status: StatusAvailable}); err != nil {
		t.Fatal(err)
	}

	reloaded, err := loadHandleStore(dir, nil)
	if err != nil {
		t.Fatal(err)
	}
	rec, ok := reloaded.get(spec)
	if !ok {
		t.Fatal("expected record to survive reload")
	}
	want := storeRecord{Subpath: spec.StoragePath(), Status: StatusAvailable}
	if diff := cmp.Diff(want, rec); diff != "" {
		t.Errorf("unexpected record after reload (-want +got):\n%s", diff)
	}
}

func TestHandleStoreLoadCorruptFileStartsEmpty(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, storeFileName)
	if err := os.WriteFile(path, []byte("not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	var warnings []string
	store, err := loadHandleStore(dir, func(msg string) { warnings = append(warnings, msg) })
	if err != nil {
		t.Fatal(err)
	}
	if len(warnings) == 0 {
		t.Error("expected a warning for a corrupt store file")
	}
	if len(store.records) != 0 {
		t.Error("expected an empty store after a corrupt file")
	}
}

func TestHandleStoreLoadUnknownSchemaVersionStartsEmpty(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, storeFileName)
	if err := os.WriteFile(path, []byte(`{"version": 999, "repositories": {}}`), 0o644); err != nil {
		t.Fatal(err)
	}

	var warnings []string
	store, err := loadHandleStore(dir, func(msg string) { warnings = append(warnings, msg) })
	if err != nil {
		t.Fatal(err)
	}
	if len(warnings) == 0 {
		t.Error("expected a warning for an unknown schema version")
	}
	if len(store.records) != 0 {
		t.Error("expected an empty store after an unknown schema version")
	}
}

func TestHandleStoreUnknownStatusBecomesError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, storeFileName)
	body := `{"version": 1, "repositories": {"file:///dummy": {"subpath": "dummy-x", "status": "bogus"}}}`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	store, err := loadHandleStore(dir, nil)
	if err != nil {
		t.Fatal(err)
	}
	rec, ok := store.records["file:///dummy"]
	if !ok {
		t.Fatal("expected the record to load despite the unknown status")
	}
	want := storeRecord{Subpath: "dummy-x", Status: StatusError}
	if diff := cmp.Diff(want, rec); diff != "" {
		t.Errorf("unexpected record for unknown status (-want +got):\n%s", diff)
	}
}

func TestHandleStoreDemotePendingToError(t *testing.T) {
	dir := t.TempDir()
	spec := mustSpecifier(t, "/dummy")

	store, err := loadHandleStore(dir, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.put(spec, storeRecord{Subpath: spec.StoragePath(), Status: StatusPending}); err != nil {
		t.Fatal(err)
	}

	demoted, err := store.demotePendingToError()
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{spec.String()}, demoted); diff != "" {
		t.Errorf("unexpected demoted set (-want +got):\n%s", diff)
	}

	rec, _ := store.get(spec)
	if rec.Status != StatusError {
		t.Errorf("expected demoted record to become %q, got %q", StatusError, rec.Status)
	}
}
