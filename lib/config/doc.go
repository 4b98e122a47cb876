// Copyright 2026 The Gridgate Authors
// SPDX-License-Identifier: Apache-2.0

// Package config loads gridgate configuration from a single YAML file.
//
// There are no fallbacks or automatic discovery: the daemon is given
// exactly one path and fails loudly if it cannot be parsed. A parsed
// file becomes an immutable [Snapshot]; [Store] publishes the current
// snapshot through an atomic pointer so every request reads one
// consistent snapshot for its entire execution, and reload (SIGHUP)
// swaps the whole snapshot at once.
//
// Each snapshot carries a BLAKE3 fingerprint of the raw file bytes.
// Reload compares fingerprints and skips the swap when the file has
// not actually changed, so spurious signals never churn in-flight
// readers onto a new-but-identical snapshot.
package config
