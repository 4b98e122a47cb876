// Copyright 2026 The Gridgate Authors
// SPDX-License-Identifier: Apache-2.0

package world_test

import (
	"context"
	"slices"
	"testing"
	"time"

	"github.com/gridgate-foundation/gridgate/lib/clock"
	"github.com/gridgate-foundation/gridgate/lib/schema"
	"github.com/gridgate-foundation/gridgate/world"
	"github.com/gridgate-foundation/gridgate/world/worldtest"
)

const plywoodKey = "11111111-2222-3333-4444-555555555555"

func TestItemResolverResolves(t *testing.T) {
	fake := worldtest.NewFake()
	fake.Reply(world.OpQueryInventory, world.Event{
		Kind:   schema.EventDirectory,
		Fields: map[string]string{"name": "Plywood Cube", "id": plywoodKey},
	})

	resolver := &world.ItemResolver{Service: fake, Clock: clock.Real(), Timeout: 5 * time.Second}
	id, err := resolver.ResolveID(context.Background(), "Plywood Cube")
	if err != nil {
		t.Fatalf("ResolveID: %v", err)
	}
	if id != plywoodKey {
		t.Errorf("ResolveID = %q, want %q", id, plywoodKey)
	}

	requests := fake.Requests()
	if len(requests) != 1 || requests[0].Op != world.OpQueryInventory {
		t.Errorf("requests = %v", requests)
	}
}

func TestItemResolverIgnoresOtherNames(t *testing.T) {
	fake := worldtest.NewFake()
	fake.OnRequest(func(op string, _ map[string]string) error {
		// A result for a different search must not satisfy this one.
		fake.EmitAsync(world.Event{
			Kind:   schema.EventDirectory,
			Fields: map[string]string{"name": "Other Thing", "id": plywoodKey},
		})
		return nil
	})

	resolver := &world.ItemResolver{Service: fake, Clock: clock.Real(), Timeout: 200 * time.Millisecond}
	if _, err := resolver.ResolveID(context.Background(), "Plywood Cube"); err == nil {
		t.Error("resolution succeeded from a mismatched directory result")
	}
}

func TestItemResolverTimeout(t *testing.T) {
	fake := worldtest.NewFake()

	resolver := &world.ItemResolver{Service: fake, Clock: clock.Real(), Timeout: 50 * time.Millisecond}
	if _, err := resolver.ResolveID(context.Background(), "Nothing"); err == nil {
		t.Error("resolution against a silent grid returned nil error")
	}
}

func TestSubscriberSetMaskAndCancel(t *testing.T) {
	fake := worldtest.NewFake()

	var balance, any []string
	cancelBalance := fake.Subscribe(schema.EventBalance, func(e world.Event) {
		balance = append(balance, e.Fields["amount"])
	})
	fake.Subscribe(schema.EventBalance|schema.EventAlert, func(e world.Event) {
		any = append(any, e.Kind.String())
	})

	fake.Emit(world.Event{Kind: schema.EventBalance, Fields: map[string]string{"amount": "10"}})
	fake.Emit(world.Event{Kind: schema.EventAlert, Fields: map[string]string{"text": "maintenance"}})

	if !slices.Equal(balance, []string{"10"}) {
		t.Errorf("balance subscriber saw %v", balance)
	}
	if !slices.Equal(any, []string{"balance", "alert"}) {
		t.Errorf("masked subscriber saw %v", any)
	}

	cancelBalance()
	cancelBalance() // idempotent
	fake.Emit(world.Event{Kind: schema.EventBalance, Fields: map[string]string{"amount": "20"}})
	if len(balance) != 1 {
		t.Error("cancelled subscriber still received events")
	}
}

func TestFromEvent(t *testing.T) {
	var agent world.Agent
	world.FromEvent(&agent, world.Event{
		Kind: schema.EventDirectory,
		Fields: map[string]string{
			"name":    "Ann Example",
			"online":  "true",
			"born":    "2020-06-15T00:00:00Z",
			"unknown": "ignored",
		},
	})
	if agent.Name != "Ann Example" || !agent.Online {
		t.Errorf("agent = %+v", agent)
	}
	if agent.Born.IsZero() {
		t.Error("born timestamp not hydrated")
	}
}
