// Copyright 2026 The Gridgate Authors
// SPDX-License-Identifier: Apache-2.0

package auth

import (
	"crypto/subtle"

	"github.com/gridgate-foundation/gridgate/lib/config"
	"github.com/gridgate-foundation/gridgate/lib/schema"
)

// Authenticate resolves the named group in the snapshot and verifies
// the supplied credential against it. Both lookups are case-sensitive;
// the credential comparison is constant-time. Returns (nil, false)
// for an unknown group, an empty credential, or a mismatch.
func Authenticate(snapshot *config.Snapshot, group, credential string) (*config.Group, bool) {
	if snapshot == nil || group == "" || credential == "" {
		return nil, false
	}
	g := snapshot.Group(group)
	if g == nil {
		return nil, false
	}
	if subtle.ConstantTimeCompare([]byte(g.Credential), []byte(credential)) != 1 {
		return nil, false
	}
	return g, true
}

// HasCapability reports whether the group's capability mask grants
// bit. A zero bit never matches.
func HasCapability(g *config.Group, bit schema.Capability) bool {
	return g != nil && g.Capabilities.Has(bit)
}

// HasNotification reports whether the group has opted into the given
// event kind. A zero kind never matches.
func HasNotification(g *config.Group, kind schema.EventKind) bool {
	return g != nil && g.Notifications.Has(kind)
}
