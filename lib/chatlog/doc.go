// Copyright 2026 The Gridgate Authors
// SPDX-License-Identifier: Apache-2.0

// Package chatlog appends group chat transcripts to per-group files.
//
// Lines are timestamped plain text so transcripts stay greppable.
// When a transcript exceeds its size limit it is rotated into a
// zstd-compressed archive next to the live file; the live file starts
// over empty. Rotation happens inline on the append that crosses the
// limit, which keeps the writer free of background goroutines.
package chatlog
