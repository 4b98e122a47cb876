// Copyright 2026 The Gridgate Authors
// SPDX-License-Identifier: Apache-2.0

package schema

import (
	"fmt"
	"sort"
	"strings"
)

// Capability is a bitmask of command categories a group is allowed to
// invoke. Each command declares the single capability bit it requires;
// a group's configured mask must have that bit set.
type Capability uint64

const (
	// CapabilityTalk covers chat and instant-message commands.
	CapabilityTalk Capability = 1 << iota
	// CapabilityEconomy covers money transfers and balance queries.
	CapabilityEconomy
	// CapabilityInventory covers inventory queries and transfers.
	CapabilityInventory
	// CapabilityInteract covers in-world object manipulation (rez,
	// derez, touch).
	CapabilityInteract
	// CapabilityGroup covers group membership and role commands.
	CapabilityGroup
	// CapabilityDatabase covers the per-group key-value store.
	CapabilityDatabase
	// CapabilityNotifications covers notification registration.
	CapabilityNotifications
	// CapabilityMovement covers teleport and navigation commands.
	CapabilityMovement
	// CapabilityFriendship covers friend list management.
	CapabilityFriendship
	// CapabilityDirectory covers search and directory queries.
	CapabilityDirectory
	// CapabilitySystem covers gateway administration commands.
	CapabilitySystem
)

var capabilityNames = map[string]Capability{
	"talk":          CapabilityTalk,
	"economy":       CapabilityEconomy,
	"inventory":     CapabilityInventory,
	"interact":      CapabilityInteract,
	"group":         CapabilityGroup,
	"database":      CapabilityDatabase,
	"notifications": CapabilityNotifications,
	"movement":      CapabilityMovement,
	"friendship":    CapabilityFriendship,
	"directory":     CapabilityDirectory,
	"system":        CapabilitySystem,
}

// ParseCapabilities resolves a list of capability names into a mask.
// Names are case-insensitive. Unknown names are an error: a typo in a
// group's configuration must not silently grant or withhold access.
func ParseCapabilities(names []string) (Capability, error) {
	var mask Capability
	for _, name := range names {
		bit, ok := capabilityNames[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			return 0, fmt.Errorf("schema: unknown capability %q", name)
		}
		mask |= bit
	}
	return mask, nil
}

// Has reports whether every bit in want is set in the mask. A zero
// want never matches.
func (c Capability) Has(want Capability) bool {
	return want != 0 && c&want == want
}

// String returns the lowercase name of a single-bit capability, or a
// pipe-joined list for a mask.
func (c Capability) String() string {
	if c == 0 {
		return "none"
	}
	var parts []string
	for name, bit := range capabilityNames {
		if c&bit != 0 {
			parts = append(parts, name)
		}
	}
	sort.Strings(parts)
	return strings.Join(parts, "|")
}
