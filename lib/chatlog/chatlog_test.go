// Copyright 2026 The Gridgate Authors
// SPDX-License-Identifier: Apache-2.0

package chatlog

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/klauspost/compress/zstd"

	"github.com/gridgate-foundation/gridgate/lib/clock"
)

func TestAppendFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "group.log")
	fake := clock.Fake(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	w := New(path, 0, fake)

	if err := w.Append("Ann Example", "hello there"); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := w.Append("Bob Resident", "hi"); err != nil {
		t.Fatalf("Append: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("transcript has %d lines, want 2", len(lines))
	}
	if lines[0] != "[2026-03-01T12:00:00Z] Ann Example: hello there" {
		t.Errorf("line = %q", lines[0])
	}
}

func TestRotation(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "group.log")
	fake := clock.Fake(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	w := New(path, 64, fake)

	// Fill past the limit, then append once more to trigger rotation.
	long := strings.Repeat("x", 80)
	if err := w.Append("Ann", long); err != nil {
		t.Fatal(err)
	}
	if err := w.Append("Bob", "after rotation"); err != nil {
		t.Fatal(err)
	}

	entries, err := filepath.Glob(filepath.Join(dir, "group.log.*.zst"))
	if err != nil || len(entries) != 1 {
		t.Fatalf("archives = %v (err %v), want exactly one", entries, err)
	}

	// The live file holds only the post-rotation line.
	live, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(live), "after rotation") || strings.Contains(string(live), long) {
		t.Errorf("live transcript after rotation = %q", live)
	}

	// The archive decompresses to the pre-rotation content.
	archive, err := os.Open(entries[0])
	if err != nil {
		t.Fatal(err)
	}
	defer archive.Close()
	decoder, err := zstd.NewReader(archive)
	if err != nil {
		t.Fatal(err)
	}
	defer decoder.Close()
	content, err := io.ReadAll(decoder)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(content), long) {
		t.Error("archive does not contain the rotated transcript")
	}
}
