// Copyright 2026 The Gridgate Authors
// SPDX-License-Identifier: Apache-2.0

package world

import (
	"context"
	"time"

	"github.com/gridgate-foundation/gridgate/lib/attr"
)

// Agent is a grid resident's profile record.
type Agent struct {
	ID     string
	Name   string
	About  string
	Online bool
	Born   time.Time
	Groups []string
}

// Attributes implements attr.Record.
func (a *Agent) Attributes() attr.Table {
	return attr.Table{
		"id":     attr.ID(&a.ID),
		"name":   attr.Text(&a.Name),
		"about":  attr.Text(&a.About),
		"online": attr.Bool(&a.Online),
		"born":   attr.Time(&a.Born),
		"groups": attr.IDList(&a.Groups),
	}
}

// Item is one inventory item record.
type Item struct {
	ID      string
	Name    string
	Type    string
	Folder  string
	Created time.Time
}

// Attributes implements attr.Record.
func (i *Item) Attributes() attr.Table {
	return attr.Table{
		"id":      attr.ID(&i.ID),
		"name":    attr.Text(&i.Name),
		"type":    attr.Text(&i.Type),
		"folder":  attr.Text(&i.Folder),
		"created": attr.Time(&i.Created),
	}
}

// GroupInfo is a grid group's public record.
type GroupInfo struct {
	ID      string
	Name    string
	Charter string
	Founder string
	Members int64
	Fee     int64
	Open    bool
}

// Attributes implements attr.Record.
func (g *GroupInfo) Attributes() attr.Table {
	return attr.Table{
		"id":      attr.ID(&g.ID),
		"name":    attr.Text(&g.Name),
		"charter": attr.Text(&g.Charter),
		"founder": attr.ID(&g.Founder),
		"members": attr.Int(&g.Members),
		"fee":     attr.Int(&g.Fee),
		"open":    attr.Bool(&g.Open),
	}
}

// FromEvent hydrates record fields from an event's payload. Unknown
// field names are ignored, so events can carry more than the record
// models. Identifier fields in event payloads are always literal
// keys, so no resolver is needed.
func FromEvent(record attr.Record, event Event) {
	for name, value := range event.Fields {
		// Literal keys never need resolution; errors are impossible
		// for the remaining kinds.
		_ = attr.Set(context.Background(), record, name, value, nil)
	}
}
