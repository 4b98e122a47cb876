// Copyright 2026 The Gridgate Authors
// SPDX-License-Identifier: Apache-2.0

package world

import "sync"

// SubscriberSet is a concurrency-safe registry of event handlers,
// shared by Service implementations. The zero value is ready to use.
type SubscriberSet struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]*subscriber
}

type subscriber struct {
	mask uint64
	fn   func(Event)
}

// Subscribe installs fn for every event whose kind bit is in mask and
// returns a cancel func. Cancel is idempotent.
func (s *SubscriberSet) Subscribe(mask uint64, fn func(Event)) (cancel func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.subs == nil {
		s.subs = make(map[int]*subscriber)
	}
	id := s.nextID
	s.nextID++
	s.subs[id] = &subscriber{mask: mask, fn: fn}
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

// Dispatch invokes every handler whose mask matches the event's kind.
// Handlers run synchronously on the caller's goroutine in
// unspecified order.
func (s *SubscriberSet) Dispatch(event Event) {
	s.mu.Lock()
	matched := make([]func(Event), 0, len(s.subs))
	for _, sub := range s.subs {
		if sub.mask&uint64(event.Kind) != 0 {
			matched = append(matched, sub.fn)
		}
	}
	s.mu.Unlock()

	for _, fn := range matched {
		fn(event)
	}
}
