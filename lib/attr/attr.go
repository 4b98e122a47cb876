// Copyright 2026 The Gridgate Authors
// SPDX-License-Identifier: Apache-2.0

package attr

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Kind classifies an attribute's value type.
type Kind int

const (
	// KindText is a free-form string.
	KindText Kind = iota
	// KindID is a grid identifier (a 36-character hex key).
	KindID
	// KindBool is a boolean.
	KindBool
	// KindInt is a signed integer.
	KindInt
	// KindReal is a floating-point number.
	KindReal
	// KindTime is an RFC 3339 timestamp.
	KindTime
	// KindTextList is a list of strings.
	KindTextList
	// KindIDList is a list of grid identifiers.
	KindIDList
)

// Resolver performs the secondary name→identifier lookup for ID
// attributes whose value is not a literal key. Implementations search
// the caller's catalog (inventory, directory) for the name.
type Resolver interface {
	ResolveID(ctx context.Context, name string) (string, error)
}

// ResolutionError reports that a value was neither a literal grid key
// nor resolvable by name.
type ResolutionError struct {
	Name string
	Err  error
}

func (e *ResolutionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("attr: cannot resolve %q to an identifier: %v", e.Name, e.Err)
	}
	return fmt.Sprintf("attr: cannot resolve %q to an identifier", e.Name)
}

func (e *ResolutionError) Unwrap() error { return e.Err }

// Attribute is one typed accessor in a record's table. Create
// attributes with the kind constructors (Text, ID, Bool, ...).
type Attribute struct {
	kind Kind
	get  func() []string
	set  func(ctx context.Context, text string, resolver Resolver) error
}

// Kind returns the attribute's declared kind.
func (a Attribute) Kind() Kind { return a.kind }

// Table maps attribute names to their accessors for one record value.
type Table map[string]Attribute

// Record is a grid record whose attributes are textually accessible.
// Attributes returns a table whose accessors are bound to the
// receiver's fields; building the table is cheap and done per call.
type Record interface {
	Attributes() Table
}

// keyPattern matches a literal grid key: 8-4-4-4-12 hex digits.
var keyPattern = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

// IsKey reports whether text is a literal grid identifier.
func IsKey(text string) bool { return keyPattern.MatchString(text) }

// Text binds a free-form string field.
func Text(p *string) Attribute {
	return Attribute{
		kind: KindText,
		get: func() []string {
			if *p == "" {
				return nil
			}
			return []string{*p}
		},
		set: func(_ context.Context, text string, _ Resolver) error {
			*p = text
			return nil
		},
	}
}

// ID binds a grid identifier field. Set accepts a literal key, or a
// name to resolve through the Resolver.
func ID(p *string) Attribute {
	return Attribute{
		kind: KindID,
		get: func() []string {
			if *p == "" {
				return nil
			}
			return []string{*p}
		},
		set: func(ctx context.Context, text string, resolver Resolver) error {
			id, err := resolveID(ctx, text, resolver)
			if err != nil {
				return err
			}
			*p = id
			return nil
		},
	}
}

// Bool binds a boolean field. Unparsable text is ignored.
func Bool(p *bool) Attribute {
	return Attribute{
		kind: KindBool,
		get:  func() []string { return []string{strconv.FormatBool(*p)} },
		set: func(_ context.Context, text string, _ Resolver) error {
			if parsed, err := strconv.ParseBool(text); err == nil {
				*p = parsed
			}
			return nil
		},
	}
}

// Int binds an integer field. Unparsable text is ignored.
func Int(p *int64) Attribute {
	return Attribute{
		kind: KindInt,
		get:  func() []string { return []string{strconv.FormatInt(*p, 10)} },
		set: func(_ context.Context, text string, _ Resolver) error {
			if parsed, err := strconv.ParseInt(text, 10, 64); err == nil {
				*p = parsed
			}
			return nil
		},
	}
}

// Real binds a floating-point field. Unparsable text is ignored.
func Real(p *float64) Attribute {
	return Attribute{
		kind: KindReal,
		get:  func() []string { return []string{strconv.FormatFloat(*p, 'g', -1, 64)} },
		set: func(_ context.Context, text string, _ Resolver) error {
			if parsed, err := strconv.ParseFloat(text, 64); err == nil {
				*p = parsed
			}
			return nil
		},
	}
}

// Time binds an RFC 3339 timestamp field. A zero time yields no
// value; unparsable text is ignored.
func Time(p *time.Time) Attribute {
	return Attribute{
		kind: KindTime,
		get: func() []string {
			if p.IsZero() {
				return nil
			}
			return []string{p.UTC().Format(time.RFC3339)}
		},
		set: func(_ context.Context, text string, _ Resolver) error {
			if parsed, err := time.Parse(time.RFC3339, text); err == nil {
				*p = parsed
			}
			return nil
		},
	}
}

// TextList binds a string-list field. Get yields one value per
// non-empty element; Set replaces the list with the single value.
func TextList(p *[]string) Attribute {
	return Attribute{
		kind: KindTextList,
		get:  func() []string { return nonEmpty(*p) },
		set: func(_ context.Context, text string, _ Resolver) error {
			*p = []string{text}
			return nil
		},
	}
}

// IDList binds an identifier-list field. Each Set value passes the
// literal-or-resolve rule and replaces the list.
func IDList(p *[]string) Attribute {
	return Attribute{
		kind: KindIDList,
		get:  func() []string { return nonEmpty(*p) },
		set: func(ctx context.Context, text string, resolver Resolver) error {
			id, err := resolveID(ctx, text, resolver)
			if err != nil {
				return err
			}
			*p = []string{id}
			return nil
		},
	}
}

func nonEmpty(values []string) []string {
	var out []string
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

func resolveID(ctx context.Context, text string, resolver Resolver) (string, error) {
	if IsKey(text) {
		return strings.ToLower(text), nil
	}
	if resolver == nil {
		return "", &ResolutionError{Name: text}
	}
	id, err := resolver.ResolveID(ctx, text)
	if err != nil || id == "" {
		return "", &ResolutionError{Name: text, Err: err}
	}
	return id, nil
}
