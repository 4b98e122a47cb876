// Copyright 2026 The Gridgate Authors
// SPDX-License-Identifier: Apache-2.0

// Package await adapts the grid client's one-shot event callbacks
// into blocking calls with a timeout.
//
// The pattern is subscribe, trigger, wait, unsubscribe: the caller
// subscribes a one-shot handler to the event that will carry the
// reply, issues the async request, and blocks until the handler fires
// or the timeout elapses. Subscribing BEFORE triggering closes the
// race where the reply arrives between send and watch-start.
//
// The subscription is released on every exit path — fire, timeout,
// context cancellation, trigger failure — so no call can leak a
// handler into the event stream. A reply arriving after timeout hits
// the already-cancelled subscription and is dropped; the result is
// discarded, not the request.
//
// There is no retry: callers that need retries compose Do in a loop.
package await
