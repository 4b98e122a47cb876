// Copyright 2026 The Gridgate Authors
// SPDX-License-Identifier: Apache-2.0

// Package schema defines the shared constant vocabulary of the
// gateway: capability bits gating command categories and event-kind
// bits classifying grid events. It sits at the bottom of the import
// graph so configuration, authorization, the world boundary, and the
// notification bus agree on one set of values.
package schema
