// Copyright 2026 The Gridgate Authors
// SPDX-License-Identifier: Apache-2.0

// Package callback delivers encoded key-value payloads to caller- or
// registration-supplied HTTP endpoints.
//
// Delivery is fire-and-check: the payload is escaped, encoded, and
// POSTed as a form body; only the transport outcome matters and the
// response body is never interpreted. There are no retries. The
// delivery timeout is its own setting, independent of the command
// timeout that bounds grid waits.
package callback
