// Copyright 2026 The Gridgate Authors
// SPDX-License-Identifier: Apache-2.0

// Package attr provides generic textual get/set access to the named
// attributes of grid records.
//
// Command handlers use it in both directions: hydrating a record from
// caller-supplied "name, value, name, value" update text, and
// serializing a record into the (name, value) rows of a command
// result.
//
// There is no reflection. Each record type declares a static
// [Table] mapping attribute names to typed accessors bound to its
// fields, so the set of attributes and their kinds is fixed at
// compile time. Parsing is strict parse-or-ignore for booleans,
// integers, reals, and timestamps: unparsable text leaves the field
// unchanged without error. Identifier attributes accept a literal
// grid key, falling back to name resolution through a [Resolver];
// only when that secondary lookup also fails does Set report a
// [ResolutionError].
package attr
