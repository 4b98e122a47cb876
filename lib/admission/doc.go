// Copyright 2026 The Gridgate Authors
// SPDX-License-Identifier: Apache-2.0

// Package admission bounds concurrent command execution per group and
// serializes access to each group's database file.
//
// There is no queueing: when a group's worker limit is reached,
// TryAdmit fails immediately and the caller rejects the request. The
// counter and lock tables are owned state behind one Controller —
// callers never see the raw maps.
//
// Per-group lock objects are allocated on first use and retained for
// the Controller's lifetime. Removing a lock from the table between
// uses would let a second concurrent operation allocate a different
// lock object while the first still holds the old one, silently
// defeating mutual exclusion.
package admission
