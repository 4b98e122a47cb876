// Copyright 2026 The Gridgate Authors
// SPDX-License-Identifier: Apache-2.0

// Package audit records command outcomes in SQLite. The dispatcher
// writes one row per dispatched command (group, command name,
// outcome, elapsed time); operators query recent activity when
// diagnosing a misbehaving group. Recording is best effort and never
// fails a command.
package audit
