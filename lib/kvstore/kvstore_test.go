// Copyright 2026 The Gridgate Authors
// SPDX-License-Identifier: Apache-2.0

package kvstore

import (
	"errors"
	"path/filepath"
	"slices"
	"testing"
)

func TestPutGetDelete(t *testing.T) {
	path := filepath.Join(t.TempDir(), "group.db")

	if _, err := Get(path, "greeting"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get on empty database = %v, want ErrNotFound", err)
	}

	if err := Put(path, "greeting", "hello"); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := Put(path, "farewell", "goodbye"); err != nil {
		t.Fatalf("Put: %v", err)
	}

	value, err := Get(path, "greeting")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if value != "hello" {
		t.Errorf("Get = %q, want %q", value, "hello")
	}

	if err := Put(path, "greeting", "hi"); err != nil {
		t.Fatalf("Put overwrite: %v", err)
	}
	value, _ = Get(path, "greeting")
	if value != "hi" {
		t.Errorf("overwritten value = %q, want %q", value, "hi")
	}

	if err := Delete(path, "greeting"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := Get(path, "greeting"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after Delete = %v, want ErrNotFound", err)
	}

	// The other key is untouched.
	value, err = Get(path, "farewell")
	if err != nil || value != "goodbye" {
		t.Errorf("Get(farewell) = %q, %v", value, err)
	}
}

func TestDeleteAbsentKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "group.db")
	if err := Delete(path, "never-stored"); err != nil {
		t.Errorf("Delete of absent key = %v, want nil", err)
	}
}

func TestKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "group.db")
	for _, key := range []string{"b", "a", "c"} {
		if err := Put(path, key, "v"); err != nil {
			t.Fatal(err)
		}
	}
	keys, err := Keys(path)
	if err != nil {
		t.Fatalf("Keys: %v", err)
	}
	slices.Sort(keys)
	if !slices.Equal(keys, []string{"a", "b", "c"}) {
		t.Errorf("Keys = %v", keys)
	}
}

func TestCreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deeper", "group.db")
	if err := Put(path, "k", "v"); err != nil {
		t.Fatalf("Put into missing directory: %v", err)
	}
	if value, err := Get(path, "k"); err != nil || value != "v" {
		t.Errorf("Get = %q, %v", value, err)
	}
}
