// Copyright 2026 The Gridgate Authors
// SPDX-License-Identifier: Apache-2.0

package gateway

import (
	"log/slog"
	"sync"

	"github.com/gridgate-foundation/gridgate/lib/chatlog"
	"github.com/gridgate-foundation/gridgate/lib/clock"
	"github.com/gridgate-foundation/gridgate/lib/config"
	"github.com/gridgate-foundation/gridgate/lib/schema"
	"github.com/gridgate-foundation/gridgate/world"
)

// ChatLogs appends group chat traffic to each group's transcript
// file. Writers are created lazily, one per path, and survive config
// reloads; a group that loses its chat-log path simply stops
// matching events.
type ChatLogs struct {
	Store  *config.Store
	Clock  clock.Clock
	Logger *slog.Logger

	mu      sync.Mutex
	writers map[string]*chatlog.Writer
}

// Attach subscribes to group chat events. The event's group field
// carries the grid identifier of the channel; the transcript path
// comes from whichever configured group owns that identifier.
func (c *ChatLogs) Attach(service world.Service) (cancel func()) {
	logger := c.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return service.Subscribe(schema.EventGroupChat, func(event world.Event) {
		snapshot := c.Store.Snapshot()
		for _, g := range snapshot.Groups {
			if g.WorldID != event.Fields["group"] || g.ChatLog == "" {
				continue
			}
			writer := c.writer(g.ChatLog)
			if err := writer.Append(event.Fields["from"], event.Fields["message"]); err != nil {
				logger.Warn("chat log append failed",
					"group", g.Name, "path", g.ChatLog, "error", err)
			}
		}
	})
}

func (c *ChatLogs) writer(path string) *chatlog.Writer {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.writers == nil {
		c.writers = make(map[string]*chatlog.Writer)
	}
	w, ok := c.writers[path]
	if !ok {
		w = chatlog.New(path, 0, c.Clock)
		c.writers[path] = w
	}
	return w
}
