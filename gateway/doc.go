// Copyright 2026 The Gridgate Authors
// SPDX-License-Identifier: Apache-2.0

// Package gateway routes inbound wire-format commands to handlers.
//
// A command travels decode, authenticate, admit, execute, respond.
// Authentication checks the group credential against the current
// configuration snapshot, admission bounds the group's concurrent
// commands, and execution runs the handler on its own goroutine so a
// panicking or slow handler never takes down the caller. The result
// always carries a success flag, the error when one occurred, the
// handler payload, and every non-reserved request key echoed back
// (afterburn). When the request names a callback URL the result is
// also POSTed there before the synchronous reply returns, and a
// delivery failure is reflected in that same reply.
package gateway
