// Copyright 2026 The Gridgate Authors
// SPDX-License-Identifier: Apache-2.0

package kvstore

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"

	"github.com/gridgate-foundation/gridgate/lib/codec"
)

// ErrNotFound is returned by Get when the key is absent.
var ErrNotFound = errors.New("kvstore: key not found")

// Get returns the value stored under key. A missing database file is
// treated as an empty database.
func Get(path, key string) (string, error) {
	var value string
	err := withFileLock(path, func() error {
		entries, err := read(path)
		if err != nil {
			return err
		}
		stored, ok := entries[key]
		if !ok {
			return ErrNotFound
		}
		value = stored
		return nil
	})
	return value, err
}

// Put stores value under key, creating the database file if needed.
func Put(path, key, value string) error {
	return withFileLock(path, func() error {
		entries, err := read(path)
		if err != nil {
			return err
		}
		entries[key] = value
		return write(path, entries)
	})
}

// Delete removes key. Deleting an absent key is not an error.
func Delete(path, key string) error {
	return withFileLock(path, func() error {
		entries, err := read(path)
		if err != nil {
			return err
		}
		if _, ok := entries[key]; !ok {
			return nil
		}
		delete(entries, key)
		return write(path, entries)
	})
}

// Keys returns every key in the database, unordered.
func Keys(path string) ([]string, error) {
	var keys []string
	err := withFileLock(path, func() error {
		entries, err := read(path)
		if err != nil {
			return err
		}
		for key := range entries {
			keys = append(keys, key)
		}
		return nil
	})
	return keys, err
}

// withFileLock holds an exclusive advisory flock on a sidecar lock
// file for the duration of fn. The lock file (not the database file)
// is locked because the rename in write replaces the database inode,
// which would silently detach a lock held on it.
func withFileLock(path string, fn func() error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("kvstore: creating database directory: %w", err)
	}
	lockFile, err := os.OpenFile(path+".lock", os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return fmt.Errorf("kvstore: opening lock file: %w", err)
	}
	defer lockFile.Close()

	if err := unix.Flock(int(lockFile.Fd()), unix.LOCK_EX); err != nil {
		return fmt.Errorf("kvstore: locking %s: %w", path, err)
	}
	defer unix.Flock(int(lockFile.Fd()), unix.LOCK_UN)

	return fn()
}

func read(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return make(map[string]string), nil
	}
	if err != nil {
		return nil, fmt.Errorf("kvstore: reading %s: %w", path, err)
	}
	entries := make(map[string]string)
	if len(data) == 0 {
		return entries, nil
	}
	if err := codec.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("kvstore: decoding %s: %w", path, err)
	}
	return entries, nil
}

func write(path string, entries map[string]string) error {
	data, err := codec.Marshal(entries)
	if err != nil {
		return fmt.Errorf("kvstore: encoding database: %w", err)
	}
	temp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp*")
	if err != nil {
		return fmt.Errorf("kvstore: creating temp file: %w", err)
	}
	if _, err := temp.Write(data); err != nil {
		temp.Close()
		os.Remove(temp.Name())
		return fmt.Errorf("kvstore: writing temp file: %w", err)
	}
	if err := temp.Close(); err != nil {
		os.Remove(temp.Name())
		return fmt.Errorf("kvstore: closing temp file: %w", err)
	}
	if err := os.Rename(temp.Name(), path); err != nil {
		os.Remove(temp.Name())
		return fmt.Errorf("kvstore: replacing %s: %w", path, err)
	}
	return nil
}
