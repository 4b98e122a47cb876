// Copyright 2026 The Gridgate Authors
// SPDX-License-Identifier: Apache-2.0

package wire

import (
	"net/url"
	"strings"
)

// Decode parses key=value&... text into a map. Fragments without
// exactly one "=" are discarded. The first occurrence of a duplicate
// key wins. Empty input yields an empty, non-nil map.
func Decode(text string) map[string]string {
	fields := make(map[string]string)
	if text == "" {
		return fields
	}
	for _, fragment := range strings.Split(text, "&") {
		key, value, ok := strings.Cut(fragment, "=")
		if !ok || strings.Contains(value, "=") {
			continue
		}
		if _, exists := fields[key]; exists {
			continue
		}
		fields[key] = value
	}
	return fields
}

// Encode joins the map into key=value&... text. Entries with an empty
// key or empty value are omitted. Pair order is unspecified.
func Encode(fields map[string]string) string {
	pairs := make([]string, 0, len(fields))
	for key, value := range fields {
		if key == "" || value == "" {
			continue
		}
		pairs = append(pairs, key+"="+value)
	}
	return strings.Join(pairs, "&")
}

// Escape returns a copy of fields with every key and value
// percent-encoded for safe transport. Spaces encode as %20, not "+".
func Escape(fields map[string]string) map[string]string {
	escaped := make(map[string]string, len(fields))
	for key, value := range fields {
		escaped[escapeText(key)] = escapeText(value)
	}
	return escaped
}

// Unescape returns a copy of fields with every key and value
// percent-decoded. Fragments that fail to decode are kept verbatim —
// inbound text from loosely written callers is best-effort.
func Unescape(fields map[string]string) map[string]string {
	unescaped := make(map[string]string, len(fields))
	for key, value := range fields {
		unescaped[unescapeText(key)] = unescapeText(value)
	}
	return unescaped
}

// Get extracts the value for a single key from key=value&... text
// without building the full map. Returns "" when the key is absent.
func Get(key, text string) string {
	for _, fragment := range strings.Split(text, "&") {
		k, value, ok := strings.Cut(fragment, "=")
		if ok && k == key && !strings.Contains(value, "=") {
			return value
		}
	}
	return ""
}

func escapeText(s string) string {
	// QueryEscape encodes space as "+", which the original protocol's
	// decoders do not understand. %20 round-trips everywhere.
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

func unescapeText(s string) string {
	decoded, err := url.QueryUnescape(strings.ReplaceAll(s, "+", "%2B"))
	if err != nil {
		return s
	}
	return decoded
}
