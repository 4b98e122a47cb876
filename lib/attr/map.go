// Copyright 2026 The Gridgate Authors
// SPDX-License-Identifier: Apache-2.0

package attr

import (
	"context"
	"iter"
	"regexp"
)

// Get returns the attribute's values as a lazy, restartable sequence.
// The sequence is empty when the attribute does not exist, is unset,
// or is an empty list. Values are read at iteration time, so a
// sequence obtained before a Set yields the updated values when
// ranged afterwards.
func Get(record Record, name string) iter.Seq[string] {
	return func(yield func(string) bool) {
		attribute, ok := record.Attributes()[name]
		if !ok {
			return
		}
		for _, value := range attribute.get() {
			if !yield(value) {
				return
			}
		}
	}
}

// Set parses text per the named attribute's kind and assigns it.
// Unknown names and unparsable bool/int/real/time text are silently
// ignored. Only identifier resolution failure returns an error (a
// *ResolutionError).
func Set(ctx context.Context, record Record, name, text string, resolver Resolver) error {
	attribute, ok := record.Attributes()[name]
	if !ok {
		return nil
	}
	return attribute.set(ctx, text, resolver)
}

// updateSeparator tokenizes update text: commas with surrounding
// whitespace absorbed.
var updateSeparator = regexp.MustCompile(`\s*,\s*`)

// ApplyUpdates routes comma-delimited "name, value, name, value"
// update text through Set. A trailing name without a value is
// ignored, as are unknown attribute names.
func ApplyUpdates(ctx context.Context, record Record, updates string, resolver Resolver) error {
	tokens := updateSeparator.Split(updates, -1)
	for i := 0; i+1 < len(tokens); i += 2 {
		if err := Set(ctx, record, tokens[i], tokens[i+1], resolver); err != nil {
			return err
		}
	}
	return nil
}

// Pair is one (name, value) row entry.
type Pair struct {
	Name  string
	Value string
}

// ToRow serializes the requested attributes into (name, value) pairs.
// Names that yield zero values are omitted entirely; list attributes
// contribute one pair per element.
func ToRow(record Record, names []string) []Pair {
	var row []Pair
	for _, name := range names {
		for value := range Get(record, name) {
			row = append(row, Pair{Name: name, Value: value})
		}
	}
	return row
}
