// Copyright 2026 The Gridgate Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec provides gridgate's standard CBOR encoding.
//
// Encoding uses Core Deterministic Encoding (RFC 8949 §4.2): sorted
// map keys, smallest integer encoding, no indefinite-length items.
// The same logical value always produces identical bytes, which keeps
// group database files byte-stable across rewrites and makes IPC
// frames reproducible in tests.
//
// Decoding accepts standard CBOR and ignores unknown struct fields
// for forward compatibility between gridgate and grid-client versions.
package codec
