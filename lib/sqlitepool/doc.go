// Copyright 2026 The Gridgate Authors
// SPDX-License-Identifier: Apache-2.0

// Package sqlitepool provides gridgate's standard SQLite connection
// pool, wrapping zombiezen.com/go/sqlite with production defaults:
// WAL journal mode, NORMAL synchronous, busy timeout, and in-memory
// temp storage.
//
// The audit trail is the package's consumer: its durability needs are
// process-crash level (NORMAL synchronous), since the source of truth
// for command outcomes is the synchronous wire reply, not the trail.
//
// Callers Take a connection, work, and Put it back. Connections are
// NOT safe for concurrent use — each goroutine holds its own
// connection for the duration of its work.
package sqlitepool
