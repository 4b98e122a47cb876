// Copyright 2026 The Gridgate Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"
	"log/slog"
	"sync/atomic"
)

// Store publishes the current configuration snapshot. Readers call
// Snapshot once per operation and use that value throughout; Reload
// swaps the published pointer wholesale, never mutating a snapshot
// that readers may already hold.
type Store struct {
	path    string
	logger  *slog.Logger
	current atomic.Pointer[Snapshot]
}

// NewStore loads the file at path and returns a Store publishing it.
func NewStore(path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	snapshot, err := Load(path)
	if err != nil {
		return nil, err
	}
	store := &Store{path: path, logger: logger}
	store.current.Store(snapshot)
	logger.Info("configuration loaded",
		"path", path,
		"groups", len(snapshot.Groups),
		"fingerprint", snapshot.Fingerprint[:12])
	return store, nil
}

// NewStaticStore returns a Store fixed to the given snapshot. Reload
// is a no-op. Intended for tests.
func NewStaticStore(snapshot *Snapshot) *Store {
	store := &Store{logger: slog.Default()}
	store.current.Store(snapshot)
	return store
}

// Snapshot returns the currently published snapshot.
func (s *Store) Snapshot() *Snapshot {
	return s.current.Load()
}

// Reload re-reads the file and swaps the published snapshot. When the
// file's fingerprint is unchanged the swap is skipped. A parse error
// leaves the previous snapshot in place: a broken edit must never
// take down a running gateway.
func (s *Store) Reload() error {
	if s.path == "" {
		return nil
	}
	snapshot, err := Load(s.path)
	if err != nil {
		s.logger.Error("configuration reload failed, keeping previous snapshot", "error", err)
		return fmt.Errorf("config: reload: %w", err)
	}
	previous := s.current.Load()
	if previous != nil && previous.Fingerprint == snapshot.Fingerprint {
		s.logger.Debug("configuration unchanged, skipping swap", "fingerprint", snapshot.Fingerprint[:12])
		return nil
	}
	s.current.Store(snapshot)
	s.logger.Info("configuration reloaded",
		"groups", len(snapshot.Groups),
		"fingerprint", snapshot.Fingerprint[:12])
	return nil
}
