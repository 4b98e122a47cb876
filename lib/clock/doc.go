// Copyright 2026 The Gridgate Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock provides an injectable time abstraction so timeout
// logic is deterministically testable.
//
// Production code accepts a Clock parameter instead of calling
// time.Now, time.After, or time.Sleep directly. Real() provides the
// standard library behavior; Fake() provides a clock that advances
// only when Advance is called.
//
// When a goroutine calls After or Sleep on a fake clock it registers
// a pending timer. Tests call WaitForTimers to block until the
// expected number of timers exist before calling Advance, which
// removes the race between timer registration and time advancement.
package clock
