// Copyright 2026 The Gridgate Authors
// SPDX-License-Identifier: Apache-2.0

package notify

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"sync"

	"github.com/gridgate-foundation/gridgate/lib/auth"
	"github.com/gridgate-foundation/gridgate/lib/callback"
	"github.com/gridgate-foundation/gridgate/lib/config"
	"github.com/gridgate-foundation/gridgate/lib/schema"
	"github.com/gridgate-foundation/gridgate/world"
)

// Registration is one group's live notification subscription.
type Registration struct {
	URL  string
	Mask schema.EventKind
}

// Bus routes grid events to registered callback URLs.
type Bus struct {
	store  *config.Store
	poster *callback.Client
	logger *slog.Logger

	mu      sync.Mutex
	entries map[string]Registration
}

// BusConfig holds configuration for creating a Bus.
type BusConfig struct {
	// Store supplies the configuration snapshot consulted on every
	// dispatch. Required.
	Store *config.Store

	// Poster delivers the notification POSTs. Required.
	Poster *callback.Client

	// Logger is used for structured logging. If nil, slog.Default()
	// is used.
	Logger *slog.Logger
}

// NewBus creates an empty notification bus.
func NewBus(cfg BusConfig) (*Bus, error) {
	if cfg.Store == nil {
		return nil, fmt.Errorf("notify: Store is required")
	}
	if cfg.Poster == nil {
		return nil, fmt.Errorf("notify: Poster is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Bus{
		store:   cfg.Store,
		poster:  cfg.Poster,
		logger:  logger,
		entries: make(map[string]Registration),
	}, nil
}

// Register installs the group's registration, replacing any previous
// one in the same step.
func (b *Bus) Register(group, url string, mask schema.EventKind) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.entries[group] = Registration{URL: url, Mask: mask}
}

// Unregister removes the group's registration, if any.
func (b *Bus) Unregister(group string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.entries, group)
}

// Registration returns the group's live registration.
func (b *Bus) Registration(group string) (Registration, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	registration, ok := b.entries[group]
	return registration, ok
}

// Dispatch delivers the event to every registration whose mask
// includes the event's kind and whose group still holds the matching
// notification bit in the current snapshot. Each delivery runs on its
// own goroutine; Dispatch itself never blocks on I/O.
func (b *Bus) Dispatch(event world.Event) {
	snapshot := b.store.Snapshot()

	b.mu.Lock()
	matched := make(map[string]Registration)
	for group, registration := range b.entries {
		if registration.Mask&event.Kind != 0 {
			matched[group] = registration
		}
	}
	b.mu.Unlock()

	for group, registration := range matched {
		// The bitmask at registration time is not authority: the
		// group's configured opt-in is re-checked against the
		// snapshot so a config change takes effect without
		// re-registration.
		if !auth.HasNotification(snapshot.Group(group), event.Kind) {
			continue
		}

		fields := make(map[string]string, len(event.Fields)+2)
		maps.Copy(fields, event.Fields)
		fields["type"] = event.Kind.String()
		fields["group"] = group

		go func(group, url string) {
			if err := b.poster.Post(context.Background(), url, fields); err != nil {
				b.logger.Error("notification delivery failed",
					"group", group,
					"url", url,
					"type", event.Kind.String(),
					"error", err)
			}
		}(group, registration.URL)
	}
}

// Attach subscribes the bus to every event kind on the grid client.
// Returns the subscription's cancel func.
func (b *Bus) Attach(service world.Service) (cancel func()) {
	return service.Subscribe(^schema.EventKind(0), b.Dispatch)
}
