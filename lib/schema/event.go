// Copyright 2026 The Gridgate Authors
// SPDX-License-Identifier: Apache-2.0

package schema

import (
	"fmt"
	"sort"
	"strings"
)

// EventKind is a bitmask of grid event categories. A single grid
// event carries exactly one bit; notification registrations and group
// opt-in masks carry any combination.
type EventKind uint64

const (
	// EventMessage is an inbound instant message.
	EventMessage EventKind = 1 << iota
	// EventGroupChat is a message on a group chat channel.
	EventGroupChat
	// EventBalance is a money-balance change.
	EventBalance
	// EventInventory is an inventory offer or delivery.
	EventInventory
	// EventFriendship is a friendship offer or revocation.
	EventFriendship
	// EventMembership is a group join, leave, or ejection.
	EventMembership
	// EventLure is a teleport offer.
	EventLure
	// EventAlert is a grid-wide or region alert message.
	EventAlert
	// EventPermission is a script permission request.
	EventPermission
	// EventObject is an object rez, derez, or update acknowledgment.
	EventObject
	// EventDirectory is a directory or inventory search result.
	EventDirectory
)

var eventNames = map[string]EventKind{
	"message":    EventMessage,
	"groupchat":  EventGroupChat,
	"balance":    EventBalance,
	"inventory":  EventInventory,
	"friendship": EventFriendship,
	"membership": EventMembership,
	"lure":       EventLure,
	"alert":      EventAlert,
	"permission": EventPermission,
	"object":     EventObject,
	"directory":  EventDirectory,
}

// ParseEvents resolves a list of event names into a mask. Names are
// case-insensitive; unknown names are an error.
func ParseEvents(names []string) (EventKind, error) {
	var mask EventKind
	for _, name := range names {
		bit, ok := eventNames[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			return 0, fmt.Errorf("schema: unknown event kind %q", name)
		}
		mask |= bit
	}
	return mask, nil
}

// Has reports whether every bit in want is set in the mask. A zero
// want never matches.
func (k EventKind) Has(want EventKind) bool {
	return want != 0 && k&want == want
}

// String returns the lowercase name of a single-bit kind, or a
// pipe-joined list for a mask.
func (k EventKind) String() string {
	if k == 0 {
		return "none"
	}
	var parts []string
	for name, bit := range eventNames {
		if k&bit != 0 {
			parts = append(parts, name)
		}
	}
	sort.Strings(parts)
	return strings.Join(parts, "|")
}
