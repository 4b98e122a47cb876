// Copyright 2026 The Gridgate Authors
// SPDX-License-Identifier: Apache-2.0

// Package kvstore implements the per-group key-value database file
// backing the database command.
//
// Each group owns one file holding a CBOR-encoded string map.
// Writes are read-modify-write: decode the whole map, mutate, encode
// to a temporary file, rename into place. In-process serialization is
// the caller's job (the admission controller's per-group lock); an
// advisory flock on a sidecar lock file additionally guards against
// other processes touching the same file. Durability is best-effort —
// the rename is atomic but there is no fsync discipline beyond it.
package kvstore
