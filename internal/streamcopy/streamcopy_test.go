// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package streamcopy

import (
	"bytes"
	"strings"
	"testing"
)

func TestCopyWithLimitUnderLimit(t *testing.T) {
	srcData := strings.Repeat("A", 2*chunkSize) // 2 chunks worth of data
	src := strings.NewReader(srcData)
	var dst bytes.Buffer

	if err := CopyWithLimit(&dst, src, 10*chunkSize); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if dst.String() != srcData {
		t.Fatalf("data mismatch: expected %d bytes, got %d bytes", len(srcData), dst.Len())
	}
}

func TestCopyWithLimitOverLimit(t *testing.T) {
	srcData := strings.Repeat("B", 3*chunkSize+1) // just over a 3-chunk limit
	src := strings.NewReader(srcData)
	var dst bytes.Buffer

	err := CopyWithLimit(&dst, src, 3*chunkSize)
	if err == nil {
		t.Fatal("expected an error, got nil")
	}
	if err != ErrLimitExceeded {
		t.Fatalf("expected ErrLimitExceeded, got: %v", err)
	}
}

func TestCopyWithLimitExactlyAtLimit(t *testing.T) {
	srcData := strings.Repeat("C", 2*chunkSize)
	src := strings.NewReader(srcData)
	var dst bytes.Buffer

	if err := CopyWithLimit(&dst, src, 2*chunkSize); err != nil {
		t.Fatalf("expected no error for a source exactly at the limit, got: %v", err)
	}
	if dst.String() != srcData {
		t.Fatalf("data mismatch: expected %d bytes, got %d bytes", len(srcData), dst.Len())
	}
}

func TestCopyWithLimitEOFBeforeChunk(t *testing.T) {
	srcData := "short data"
	src := strings.NewReader(srcData)
	var dst bytes.Buffer

	if err := CopyWithLimit(&dst, src, DefaultMaxFileBytes); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if dst.String() != srcData {
		t.Fatalf("data mismatch: expected %q, got %q", srcData, dst.String())
	}
}

func TestCopyWithLimitEmptySource(t *testing.T) {
	src := strings.NewReader("")
	var dst bytes.Buffer

	if err := CopyWithLimit(&dst, src, DefaultMaxFileBytes); err != nil {
		t.Fatalf("expected no error on empty source, got: %v", err)
	}
	if dst.Len() != 0 {
		t.Fatalf("expected empty output, got %d bytes", dst.Len())
	}
}

func TestCopyWithLimitZeroFallsBackToDefault(t *testing.T) {
	srcData := "some bytes"
	src := strings.NewReader(srcData)
	var dst bytes.Buffer

	if err := CopyWithLimit(&dst, src, 0); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if dst.String() != srcData {
		t.Fatalf("data mismatch: expected %q, got %q", srcData, dst.String())
	}
}
