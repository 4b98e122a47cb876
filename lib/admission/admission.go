// Copyright 2026 The Gridgate Authors
// SPDX-License-Identifier: Apache-2.0

package admission

import (
	"fmt"
	"sync"

	"github.com/gridgate-foundation/gridgate/lib/config"
)

// Controller tracks per-group worker counts and per-group database
// locks. The zero value is not usable; create one with NewController.
// Safe for concurrent use.
type Controller struct {
	mu     sync.Mutex
	counts map[string]int
	locks  map[string]*sync.Mutex
}

// NewController returns an empty Controller.
func NewController() *Controller {
	return &Controller{
		counts: make(map[string]int),
		locks:  make(map[string]*sync.Mutex),
	}
}

// TryAdmit atomically admits one unit of work for the group if its
// worker count is below the group's limit. A group with a zero limit
// is never admitted. Every successful TryAdmit must be paired with
// exactly one Release.
func (c *Controller) TryAdmit(g *config.Group) bool {
	if g == nil || g.Workers <= 0 {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.counts[g.Name] >= g.Workers {
		return false
	}
	c.counts[g.Name]++
	return true
}

// Release returns one admitted slot for the group. Call exactly once
// per successful TryAdmit, regardless of how the admitted work ended.
// Panics on a release without a matching admit: that is a bookkeeping
// bug that would otherwise corrupt every future admission decision
// for the group.
func (c *Controller) Release(group string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	count := c.counts[group]
	if count <= 0 {
		panic(fmt.Sprintf("admission: Release(%q) without matching TryAdmit", group))
	}
	if count == 1 {
		delete(c.counts, group)
		return
	}
	c.counts[group] = count - 1
}

// Count returns the group's current admitted count.
func (c *Controller) Count(group string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.counts[group]
}

// WithGroupLock runs fn while holding the group's exclusive database
// lock. The lock is released even if fn returns an error or panics.
// Acquisition has no timeout; a stuck fn stalls later callers for the
// same group.
func (c *Controller) WithGroupLock(group string, fn func() error) error {
	c.mu.Lock()
	lock, ok := c.locks[group]
	if !ok {
		lock = new(sync.Mutex)
		c.locks[group] = lock
	}
	c.mu.Unlock()

	lock.Lock()
	defer lock.Unlock()
	return fn()
}
