// Copyright 2026 The Gridgate Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides channel assertion helpers for tests that
// coordinate goroutines. Each helper wraps the select-with-timeout
// safety valve so individual tests never hang on a stuck channel.
package testutil
