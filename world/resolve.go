// Copyright 2026 The Gridgate Authors
// SPDX-License-Identifier: Apache-2.0

package world

import (
	"context"
	"fmt"
	"time"

	"github.com/gridgate-foundation/gridgate/lib/await"
	"github.com/gridgate-foundation/gridgate/lib/clock"
	"github.com/gridgate-foundation/gridgate/lib/schema"
)

// ItemResolver resolves inventory item names to identifiers by
// searching the grid, implementing attr.Resolver. A resolution is one
// await cycle: subscribe to directory results for the name, trigger
// the search, wait.
type ItemResolver struct {
	Service Service
	Clock   clock.Clock
	Timeout time.Duration
}

// ResolveID returns the identifier of the item named name, or an
// error when the search fails, matches nothing, or times out.
func (r *ItemResolver) ResolveID(ctx context.Context, name string) (string, error) {
	event, timedOut, err := await.Do(ctx, r.Clock, r.Timeout,
		func(fire func(Event)) func() {
			return r.Service.Subscribe(schema.EventDirectory, func(event Event) {
				if event.Fields["name"] == name {
					fire(event)
				}
			})
		},
		func() error {
			return r.Service.Request(ctx, OpQueryInventory, map[string]string{"name": name})
		})
	if err != nil {
		return "", err
	}
	if timedOut {
		return "", fmt.Errorf("world: inventory search for %q timed out", name)
	}
	id := event.Fields["id"]
	if id == "" {
		return "", fmt.Errorf("world: inventory search for %q returned no identifier", name)
	}
	return id, nil
}
