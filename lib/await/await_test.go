// Copyright 2026 The Gridgate Authors
// SPDX-License-Identifier: Apache-2.0

package await

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gridgate-foundation/gridgate/lib/clock"
	"github.com/gridgate-foundation/gridgate/lib/testutil"
)

// stream is a minimal one-shot event source standing in for the grid
// client: at most one subscriber, fired manually by the test.
type stream struct {
	handler   func(string)
	cancelled bool
}

func (s *stream) subscribe(fire func(string)) func() {
	s.handler = fire
	return func() {
		s.cancelled = true
		s.handler = nil
	}
}

func TestDoFires(t *testing.T) {
	s := &stream{}
	triggered := false

	payload, timedOut, err := Do(context.Background(), clock.Real(), 5*time.Second,
		s.subscribe,
		func() error {
			triggered = true
			// The reply arrives from the event source after trigger.
			go s.handler("balance=250")
			return nil
		})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if timedOut {
		t.Fatal("Do reported timeout although the event fired")
	}
	if !triggered {
		t.Error("trigger never ran")
	}
	if payload != "balance=250" {
		t.Errorf("payload = %q", payload)
	}
	if !s.cancelled {
		t.Error("subscription not released after fire")
	}
}

func TestDoTimeout(t *testing.T) {
	fake := clock.Fake(time.Unix(0, 0))
	s := &stream{}

	type outcome struct {
		timedOut bool
		err      error
	}
	done := make(chan outcome, 1)
	go func() {
		_, timedOut, err := Do(context.Background(), fake, 30*time.Second,
			s.subscribe,
			func() error { return nil })
		done <- outcome{timedOut, err}
	}()

	fake.WaitForTimers(1)
	fake.Advance(30 * time.Second)

	got := testutil.RequireReceive(t, done, 5*time.Second, "waiting for Do to return")
	if got.err != nil {
		t.Fatalf("Do: %v", got.err)
	}
	if !got.timedOut {
		t.Error("Do did not report timeout")
	}
	if !s.cancelled {
		t.Error("subscription not released after timeout")
	}
}

func TestDoLateFireAfterTimeoutIsDropped(t *testing.T) {
	fake := clock.Fake(time.Unix(0, 0))
	s := &stream{}

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _, _ = Do(context.Background(), fake, time.Second, s.subscribe, func() error { return nil })
	}()
	fake.WaitForTimers(1)
	fake.Advance(time.Second)
	testutil.RequireClosed(t, done, 5*time.Second, "waiting for timed-out Do")

	// The event source sees a cancelled subscription; a later await on
	// the same stream must be unaffected by the earlier cycle.
	if s.handler != nil {
		t.Fatal("handler still installed after timeout")
	}

	payload, timedOut, err := Do(context.Background(), clock.Real(), 5*time.Second,
		s.subscribe,
		func() error {
			go s.handler("fresh")
			return nil
		})
	if err != nil || timedOut {
		t.Fatalf("second Do: timedOut=%v err=%v", timedOut, err)
	}
	if payload != "fresh" {
		t.Errorf("second Do payload = %q, polluted by earlier cycle?", payload)
	}
}

func TestDoTriggerError(t *testing.T) {
	s := &stream{}
	boom := errors.New("request rejected")

	_, timedOut, err := Do(context.Background(), clock.Real(), time.Second,
		s.subscribe,
		func() error { return boom })
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want wrapped trigger error", err)
	}
	if timedOut {
		t.Error("trigger failure misreported as timeout")
	}
	if !s.cancelled {
		t.Error("subscription not released after trigger failure")
	}
}

func TestDoContextCancelled(t *testing.T) {
	s := &stream{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, timedOut, err := Do(ctx, clock.Real(), time.Hour, s.subscribe, func() error { return nil })
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if timedOut {
		t.Error("context cancellation misreported as timeout")
	}
	if !s.cancelled {
		t.Error("subscription not released after context cancellation")
	}
}

func TestDoFireIsOneShot(t *testing.T) {
	s := &stream{}
	payload, _, err := Do(context.Background(), clock.Real(), 5*time.Second,
		s.subscribe,
		func() error {
			fire := s.handler
			go func() {
				fire("first")
				fire("second")
			}()
			return nil
		})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if payload != "first" {
		t.Errorf("payload = %q, want the first fire", payload)
	}
}
