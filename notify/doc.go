// Copyright 2026 The Gridgate Authors
// SPDX-License-Identifier: Apache-2.0

// Package notify fans grid events out to registered HTTP endpoints.
//
// Each group holds at most one live registration (URL plus event
// mask); registering again replaces it atomically. Dispatch spawns
// one delivery goroutine per matching registration with no admission
// control or global bound — a deliberate asymmetry with the command
// path. A single busy event kind can therefore trigger as many
// concurrent outbound POSTs as there are matching registrations;
// size callback endpoints accordingly.
//
// Delivery failures are logged and dropped. There is no caller to
// surface them to: this path is event-sourced, not request/response.
package notify
