// Copyright 2026 The Gridgate Authors
// SPDX-License-Identifier: Apache-2.0

// Package wire implements the flat key=value&... text format used for
// gridgate command requests, command results, and callback bodies.
//
// The format has set semantics: Encode emits pairs in no guaranteed
// order, and Decode keeps the first occurrence of a duplicate key.
// Keys and values travel percent-encoded on HTTP surfaces; apply
// [Escape] before [Encode] when building a body for an HTTP
// collaborator, and [Unescape] after [Decode] when consuming one.
package wire
