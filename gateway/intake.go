// Copyright 2026 The Gridgate Authors
// SPDX-License-Identifier: Apache-2.0

package gateway

import (
	"context"
	"log/slog"

	"github.com/gridgate-foundation/gridgate/lib/schema"
	"github.com/gridgate-foundation/gridgate/lib/wire"
	"github.com/gridgate-foundation/gridgate/world"
)

// Intake routes inbound instant messages into the dispatcher. A
// message whose body carries a command key is dispatched like an
// HTTP request and the encoded result is sent back to the sender as
// an instant message; everything else is ignored.
type Intake struct {
	Service    world.Service
	Dispatcher *Dispatcher
	Logger     *slog.Logger
}

// Attach subscribes to instant-message events. Each command message
// is handled on its own goroutine so the subscription callback never
// blocks on command execution.
func (i *Intake) Attach() (cancel func()) {
	logger := i.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return i.Service.Subscribe(schema.EventMessage, func(event world.Event) {
		text := event.Fields["message"]
		if wire.Get(KeyCommand, text) == "" {
			return
		}
		from := event.Fields["from"]
		go func() {
			reply := i.Dispatcher.Dispatch(context.Background(), text)
			err := i.Service.Request(context.Background(), world.OpSendMessage, map[string]string{
				"agent":   from,
				"message": reply,
			})
			if err != nil {
				logger.Warn("command reply send failed", "agent", from, "error", err)
			}
		}()
	})
}
