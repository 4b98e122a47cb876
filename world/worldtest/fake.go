// Copyright 2026 The Gridgate Authors
// SPDX-License-Identifier: Apache-2.0

// Package worldtest provides an in-memory, scriptable grid client for
// tests.
package worldtest

import (
	"context"
	"sync"

	"github.com/gridgate-foundation/gridgate/lib/schema"
	"github.com/gridgate-foundation/gridgate/world"
)

// Request is one recorded Service.Request call.
type Request struct {
	Op     string
	Params map[string]string
}

// Fake implements world.Service in memory. The test scripts replies
// either by calling Emit directly or by installing an OnRequest hook
// that emits in response to specific operations.
type Fake struct {
	subscribers world.SubscriberSet

	mu       sync.Mutex
	requests []Request
	onReq    func(op string, params map[string]string) error
}

// NewFake returns an empty fake grid.
func NewFake() *Fake { return &Fake{} }

// Subscribe implements world.Service.
func (f *Fake) Subscribe(mask schema.EventKind, fn func(world.Event)) (cancel func()) {
	return f.subscribers.Subscribe(uint64(mask), fn)
}

// Request implements world.Service. The call is recorded, then the
// OnRequest hook (if any) runs on the caller's goroutine.
func (f *Fake) Request(_ context.Context, op string, params map[string]string) error {
	f.mu.Lock()
	f.requests = append(f.requests, Request{Op: op, Params: params})
	hook := f.onReq
	f.mu.Unlock()

	if hook != nil {
		return hook(op, params)
	}
	return nil
}

// OnRequest installs a hook invoked for every Request. The hook's
// error is returned to the requester.
func (f *Fake) OnRequest(hook func(op string, params map[string]string) error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.onReq = hook
}

// Emit delivers an event to every matching subscriber, synchronously.
func (f *Fake) Emit(event world.Event) {
	f.subscribers.Dispatch(event)
}

// EmitAsync delivers an event from a fresh goroutine, mimicking the
// real client's event-reception goroutine.
func (f *Fake) EmitAsync(event world.Event) {
	go f.subscribers.Dispatch(event)
}

// Requests returns a copy of every recorded request.
func (f *Fake) Requests() []Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Request, len(f.requests))
	copy(out, f.requests)
	return out
}

// Reply scripts the common pattern "when op is requested, emit
// event": the hook emits asynchronously so the requester's await is
// already blocked on its channel when the event lands.
func (f *Fake) Reply(op string, event world.Event) {
	f.OnRequest(func(requested string, _ map[string]string) error {
		if requested == op {
			f.EmitAsync(event)
		}
		return nil
	})
}
