// Copyright 2026 The Gridgate Authors
// SPDX-License-Identifier: Apache-2.0

// Package auth is the gateway's authentication and authorization
// gate. All checks are pure functions over one immutable
// configuration snapshot: no I/O, no blocking, no side effects.
// Callers resolve a snapshot once per request and pass it (or the
// group resolved from it) through the whole request.
package auth
