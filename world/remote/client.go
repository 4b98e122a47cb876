// Copyright 2026 The Gridgate Authors
// SPDX-License-Identifier: Apache-2.0

// Package remote implements world.Service over the grid client's
// Unix socket.
//
// The protocol is a bidirectional stream of CBOR frames: gridgate
// writes request frames ({op, params}) and the grid client writes
// event frames ({kind, fields}) whenever anything notification-worthy
// happens, unprompted. One reader goroutine decodes events and fans
// them out to subscribers; because subscribers must not block, a slow
// consumer cannot stall the event stream for everyone else.
package remote

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"sync"

	"github.com/gridgate-foundation/gridgate/lib/codec"
	"github.com/gridgate-foundation/gridgate/lib/schema"
	"github.com/gridgate-foundation/gridgate/world"
)

type requestFrame struct {
	Op     string            `cbor:"op"`
	Params map[string]string `cbor:"params,omitempty"`
}

type eventFrame struct {
	Kind   uint64            `cbor:"kind"`
	Fields map[string]string `cbor:"fields,omitempty"`
}

// Client is a world.Service backed by the grid client process.
type Client struct {
	conn        net.Conn
	encoder     *codec.Encoder
	writeMu     sync.Mutex
	subscribers world.SubscriberSet
	logger      *slog.Logger

	// done is closed when the reader goroutine exits.
	done chan struct{}

	closeOnce sync.Once
}

// Dial connects to the grid client socket and starts the event
// reader. The caller must Close the client when done.
func Dial(socketPath string, logger *slog.Logger) (*Client, error) {
	if socketPath == "" {
		return nil, fmt.Errorf("remote: socket path is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	conn, err := net.Dial("unix", socketPath)
	if err != nil {
		return nil, fmt.Errorf("remote: dialing grid client at %s: %w", socketPath, err)
	}
	client := &Client{
		conn:    conn,
		encoder: codec.NewEncoder(conn),
		logger:  logger,
		done:    make(chan struct{}),
	}
	go client.readEvents()
	return client, nil
}

// Subscribe implements world.Service.
func (c *Client) Subscribe(mask schema.EventKind, fn func(world.Event)) (cancel func()) {
	return c.subscribers.Subscribe(uint64(mask), fn)
}

// Request implements world.Service. A nil error means the frame was
// written to the grid client, not that the operation completed.
func (c *Client) Request(ctx context.Context, op string, params map[string]string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if err := c.encoder.Encode(requestFrame{Op: op, Params: params}); err != nil {
		return fmt.Errorf("remote: sending %s request: %w", op, err)
	}
	return nil
}

// Close tears down the connection. Pending Subscribe handlers receive
// no further events.
func (c *Client) Close() error {
	var err error
	c.closeOnce.Do(func() {
		err = c.conn.Close()
		<-c.done
	})
	return err
}

// Done is closed when the event stream has ended (Close was called or
// the grid client hung up).
func (c *Client) Done() <-chan struct{} { return c.done }

func (c *Client) readEvents() {
	defer close(c.done)
	decoder := codec.NewDecoder(c.conn)
	for {
		var frame eventFrame
		if err := decoder.Decode(&frame); err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, net.ErrClosed) {
				c.logger.Error("grid event stream failed", "error", err)
			}
			return
		}
		c.subscribers.Dispatch(world.Event{
			Kind:   schema.EventKind(frame.Kind),
			Fields: frame.Fields,
		})
	}
}
