// Copyright 2026 The Gridgate Authors
// SPDX-License-Identifier: Apache-2.0

package await

import (
	"context"
	"fmt"
	"time"

	"github.com/gridgate-foundation/gridgate/lib/clock"
)

// Do performs one subscribe/trigger/wait/unsubscribe cycle.
//
// subscribe must install a handler that calls fire with the reply
// payload, and return a cancel func tearing the handler down. fire is
// one-shot: extra calls are ignored. trigger issues the async request
// after the subscription is live.
//
// Do returns (payload, false, nil) when the event fires within
// timeout, (zero, true, nil) when the timeout elapses first, and
// (zero, false, err) when trigger fails or ctx is cancelled. The
// subscription's cancel func runs before Do returns on every path.
func Do[T any](
	ctx context.Context,
	clk clock.Clock,
	timeout time.Duration,
	subscribe func(fire func(T)) (cancel func()),
	trigger func() error,
) (T, bool, error) {
	var zero T

	fired := make(chan T, 1)
	fire := func(payload T) {
		select {
		case fired <- payload:
		default:
		}
	}

	cancel := subscribe(fire)
	if cancel == nil {
		return zero, false, fmt.Errorf("await: subscribe returned a nil cancel func")
	}
	defer cancel()

	if err := trigger(); err != nil {
		return zero, false, fmt.Errorf("await: trigger failed: %w", err)
	}

	select {
	case payload := <-fired:
		return payload, false, nil
	case <-clk.After(timeout):
		return zero, true, nil
	case <-ctx.Done():
		return zero, false, ctx.Err()
	}
}
