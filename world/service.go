// Copyright 2026 The Gridgate Authors
// SPDX-License-Identifier: Apache-2.0

package world

import (
	"context"

	"github.com/gridgate-foundation/gridgate/lib/schema"
)

// Event is one occurrence on the grid. Kind is a single bit; Fields
// is the event's wire-ready payload.
type Event struct {
	Kind   schema.EventKind
	Fields map[string]string
}

// Operation names accepted by Service.Request.
const (
	// OpSendMessage delivers an instant message to an agent.
	OpSendMessage = "send_message"
	// OpGroupChat posts to a group chat channel.
	OpGroupChat = "group_chat"
	// OpPay transfers money; completion arrives as EventBalance.
	OpPay = "pay"
	// OpQueryBalance requests the current balance; the reply arrives
	// as EventBalance.
	OpQueryBalance = "query_balance"
	// OpJoinGroup requests group membership; the acknowledgment
	// arrives as EventMembership.
	OpJoinGroup = "join_group"
	// OpRezObject rezzes an inventory object in-world; the
	// acknowledgment arrives as EventObject.
	OpRezObject = "rez_object"
	// OpQueryInventory lists inventory items; results arrive as
	// EventDirectory, one event per matching item, terminated by an
	// event whose done field is "true".
	OpQueryInventory = "query_inventory"
	// OpSearchDirectory searches the grid directory by name; the
	// best match arrives as EventDirectory.
	OpSearchDirectory = "search_directory"
	// OpQueryAgent requests an agent profile; the reply arrives as
	// EventDirectory.
	OpQueryAgent = "query_agent"
	// OpUpdateProfile rewrites fields of the connected agent's
	// profile. Fire and forget.
	OpUpdateProfile = "update_profile"
)

// Service is the asynchronous grid client surface.
//
// Subscribe installs fn on every event whose kind is in mask and
// returns a cancel func tearing it down; fn runs on the client's
// event goroutine and must not block. Request issues an async
// operation — a nil error means accepted for transmission, not
// completed.
type Service interface {
	Subscribe(mask schema.EventKind, fn func(Event)) (cancel func())
	Request(ctx context.Context, op string, params map[string]string) error
}
