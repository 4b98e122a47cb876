// Copyright 2026 The Gridgate Authors
// SPDX-License-Identifier: Apache-2.0

package chatlog

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"

	"github.com/gridgate-foundation/gridgate/lib/clock"
)

// DefaultMaxBytes is the rotation threshold when none is configured.
const DefaultMaxBytes = 8 << 20

// Writer appends timestamped chat lines to one transcript file.
// Safe for concurrent use.
type Writer struct {
	path     string
	maxBytes int64
	clk      clock.Clock

	mu sync.Mutex
}

// New returns a Writer for the transcript at path. maxBytes <= 0
// selects DefaultMaxBytes; clk may be nil for the real clock.
func New(path string, maxBytes int64, clk clock.Clock) *Writer {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	if clk == nil {
		clk = clock.Real()
	}
	return &Writer{path: path, maxBytes: maxBytes, clk: clk}
}

// Append writes one chat line, rotating first if the transcript has
// reached its size limit.
func (w *Writer) Append(from, message string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if info, err := os.Stat(w.path); err == nil && info.Size() >= w.maxBytes {
		if err := w.rotate(); err != nil {
			return err
		}
	}

	if err := os.MkdirAll(filepath.Dir(w.path), 0o700); err != nil {
		return fmt.Errorf("chatlog: creating transcript directory: %w", err)
	}
	file, err := os.OpenFile(w.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return fmt.Errorf("chatlog: opening %s: %w", w.path, err)
	}
	defer file.Close()

	line := fmt.Sprintf("[%s] %s: %s\n", w.clk.Now().UTC().Format(time.RFC3339), from, message)
	if _, err := file.WriteString(line); err != nil {
		return fmt.Errorf("chatlog: appending to %s: %w", w.path, err)
	}
	return nil
}

// rotate compresses the live transcript into an archive named with
// the rotation timestamp and truncates the live file. Called with the
// writer lock held.
func (w *Writer) rotate() error {
	source, err := os.Open(w.path)
	if err != nil {
		return fmt.Errorf("chatlog: opening transcript for rotation: %w", err)
	}
	defer source.Close()

	stamp := w.clk.Now().UTC().Format("20060102T150405")
	archivePath := fmt.Sprintf("%s.%s.zst", w.path, stamp)
	archive, err := os.OpenFile(archivePath, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o600)
	if err != nil {
		return fmt.Errorf("chatlog: creating archive %s: %w", archivePath, err)
	}
	defer archive.Close()

	encoder, err := zstd.NewWriter(archive)
	if err != nil {
		return fmt.Errorf("chatlog: creating zstd writer: %w", err)
	}
	if _, err := io.Copy(encoder, source); err != nil {
		encoder.Close()
		return fmt.Errorf("chatlog: compressing transcript: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return fmt.Errorf("chatlog: finishing archive: %w", err)
	}

	if err := os.Truncate(w.path, 0); err != nil {
		return fmt.Errorf("chatlog: truncating transcript: %w", err)
	}
	return nil
}
