// Copyright 2026 The Gridgate Authors
// SPDX-License-Identifier: Apache-2.0

// Package world defines the gateway's boundary with the grid client.
//
// The grid client is an external asynchronous system: every operation
// of interest is (a) a typed event stream a handler can subscribe to
// and (b) an async request whose completion, if any, arrives on one
// of those streams. The gateway never assumes synchronous completion;
// command handlers pair Request with a subscription through the
// lib/await adapter.
//
// [Service] is the interface the rest of the gateway programs
// against. world/remote implements it over the grid client's Unix
// socket; world/worldtest provides a scriptable in-memory fake.
//
// The package also declares the grid record types (agents, items,
// groups) with their lib/attr attribute tables, and [ItemResolver],
// the name→identifier lookup behind identifier attribute resolution.
package world
