// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

// Package repotest implements an in-memory-configured, real-filesystem
// repoprovider.Provider used across the repomgr test suite. It owns both
// the simulated "remote" repository state and the on-disk view the manager
// interacts with, so that lookups against it exercise the same filesystem
// contracts (destination-must-not-pre-exist, IsValidDirectory, working-copy
// materialization) a real VCS-backed provider would.
package repotest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkgcache/repomgr/internal/treecopy"
)

const metadataFileName = ".repotest-mirror.json"

// mirrorMetadata is the on-disk representation of a fake mirror or working
// copy: everything fakeRepository and fakeWorkingCheckout need to answer
// queries without consulting the Provider's in-memory registry again.
type mirrorMetadata struct {
	Tags     []string          `json:"tags"`
	Revision string            `json:"revision"`
	Files    map[string]string `json:"files"`
}

func writeMirror(path string, meta mirrorMetadata) error {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return fmt.Errorf("failed to create mirror directory %s: %w", path, err)
	}
	data, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("failed to encode mirror metadata: %w", err)
	}
	if err := os.WriteFile(filepath.Join(path, metadataFileName), data, 0o644); err != nil {
		return fmt.Errorf("failed to write mirror metadata at %s: %w", path, err)
	}
	return nil
}

func readMirror(path string) (mirrorMetadata, error) {
	data, err := os.ReadFile(filepath.Join(path, metadataFileName))
	if err != nil {
		return mirrorMetadata{}, fmt.Errorf("%s is not a valid repository mirror: %w", path, err)
	}
	var meta mirrorMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return mirrorMetadata{}, fmt.Errorf("%s has corrupt mirror metadata: %w", path, err)
	}
	return meta, nil
}

// isValidMirror reports whether path looks like a directory this provider
// produced, without returning an error for the common "doesn't exist"
// case — that's exactly what IsValidDirectory needs.
func isValidMirror(path string) bool {
	_, err := readMirror(path)
	return err == nil
}

// copyTree recursively copies src to dst, which must not already exist, via
// internal/treecopy — the same tree-copy primitive a real VCS-backed
// provider uses to materialize a working copy from a mirror.
func copyTree(src, dst string) error {
	return treecopy.Copy(src, dst)
}
