// Copyright 2026 The Gridgate Authors
// SPDX-License-Identifier: Apache-2.0

package gateway

import (
	"log/slog"
	"testing"
	"time"

	"github.com/gridgate-foundation/gridgate/lib/clock"
	"github.com/gridgate-foundation/gridgate/lib/schema"
	"github.com/gridgate-foundation/gridgate/world"
)

func TestIntakeDispatchesCommandMessages(t *testing.T) {
	f := newFixture(t, clock.Real())
	intake := &Intake{
		Service:    f.fake,
		Dispatcher: f.dispatcher,
		Logger:     slog.New(slog.DiscardHandler),
	}
	cancel := intake.Attach()
	defer cancel()

	f.fake.Emit(world.Event{
		Kind: schema.EventMessage,
		Fields: map[string]string{
			"from":    itemKey,
			"message": "command=database&group=Tester&password=hunter2&action=set&key=a&value=b",
		},
	})

	// The reply goes back over IM, so a send_message request shows
	// up once the command completes.
	deadline := time.Now().Add(5 * time.Second)
	for {
		requests := f.fake.Requests()
		if len(requests) > 0 {
			if requests[0].Op != world.OpSendMessage {
				t.Fatalf("op = %q, want send_message", requests[0].Op)
			}
			if requests[0].Params["agent"] != itemKey {
				t.Errorf("reply agent = %q, want the sender", requests[0].Params["agent"])
			}
			reply := decodeResult(requests[0].Params["message"])
			if reply[KeySuccess] != "true" {
				t.Errorf("reply = %v, want success", reply)
			}
			return
		}
		if time.Now().After(deadline) {
			t.Fatal("no reply message was sent")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestIntakeIgnoresPlainMessages(t *testing.T) {
	f := newFixture(t, clock.Real())
	intake := &Intake{
		Service:    f.fake,
		Dispatcher: f.dispatcher,
		Logger:     slog.New(slog.DiscardHandler),
	}
	cancel := intake.Attach()
	defer cancel()

	f.fake.Emit(world.Event{
		Kind:   schema.EventMessage,
		Fields: map[string]string{"from": itemKey, "message": "hello there"},
	})

	time.Sleep(50 * time.Millisecond)
	if got := len(f.fake.Requests()); got != 0 {
		t.Errorf("requests = %d, want 0 for a non-command message", got)
	}
}
