// Copyright 2026 The Gridgate Authors
// SPDX-License-Identifier: Apache-2.0

package gateway

import (
	"errors"
	"fmt"

	"github.com/gridgate-foundation/gridgate/lib/attr"
)

// Code categorizes a command failure. The code is the leading token
// of the result's error value, so callers can switch on category
// without parsing free text.
type Code string

const (
	// CodeAuthentication means the group name or credential was
	// wrong. Returned before admission is attempted.
	CodeAuthentication Code = "authentication"

	// CodeAuthorization means the group lacks the capability or
	// notification bit the command requires.
	CodeAuthorization Code = "authorization"

	// CodeAdmission means the group's worker limit was reached.
	// The request was rejected immediately, never queued.
	CodeAdmission Code = "admission"

	// CodeUnknown means no handler is registered for the command
	// name.
	CodeUnknown Code = "unknown"

	// CodeResolution means a name-to-identifier lookup failed.
	CodeResolution Code = "resolution"

	// CodeTimeout means the grid did not reply within the
	// configured command timeout.
	CodeTimeout Code = "timeout"

	// CodeDomain covers command-specific failures such as an
	// invalid amount or a missing parameter.
	CodeDomain Code = "domain"
)

// Error is a categorized command failure. Handlers return it (or any
// error, which Dispatch wraps as CodeDomain) and Dispatch renders it
// into the result; no handler error ever escapes Dispatch.
type Error struct {
	Code    Code
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Code)
	}
	return string(e.Code) + ": " + e.Message
}

// Errorf builds an Error with a formatted message.
func Errorf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// asError normalizes any handler error into an *Error, classifying
// resolution failures from the attribute mapper and leaving already
// categorized errors alone.
func asError(err error) *Error {
	var gerr *Error
	if errors.As(err, &gerr) {
		return gerr
	}
	var rerr *attr.ResolutionError
	if errors.As(err, &rerr) {
		return &Error{Code: CodeResolution, Message: rerr.Error()}
	}
	return &Error{Code: CodeDomain, Message: err.Error()}
}
