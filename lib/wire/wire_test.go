// Copyright 2026 The Gridgate Authors
// SPDX-License-Identifier: Apache-2.0

package wire

import (
	"maps"
	"strings"
	"testing"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name string
		text string
		want map[string]string
	}{
		{"empty", "", map[string]string{}},
		{"single pair", "a=1", map[string]string{"a": "1"}},
		{"multiple pairs", "a=1&b=2&c=3", map[string]string{"a": "1", "b": "2", "c": "3"}},
		{"no equals discarded", "a=1&junk&b=2", map[string]string{"a": "1", "b": "2"}},
		{"two equals discarded", "a=1&b=2=3", map[string]string{"a": "1"}},
		{"first duplicate wins", "a=1&a=2", map[string]string{"a": "1"}},
		{"empty value kept on decode", "a=&b=2", map[string]string{"a": "", "b": "2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Decode(tt.text)
			if !maps.Equal(got, tt.want) {
				t.Errorf("Decode(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestEncodeOmitsEmptyEntries(t *testing.T) {
	text := Encode(map[string]string{"a": "1", "": "x", "b": ""})
	if text != "a=1" {
		t.Errorf("Encode = %q, want %q", text, "a=1")
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	original := map[string]string{
		"command":  "pay",
		"group":    "Gatekeepers",
		"amount":   "100",
		"target":   "a3f1c2d4",
		"burnkey9": "kept",
	}
	got := Decode(Encode(original))
	if !maps.Equal(got, original) {
		t.Errorf("Decode(Encode(m)) = %v, want %v", got, original)
	}
}

func TestEscapeRoundTrip(t *testing.T) {
	original := map[string]string{
		"message": "hello & goodbye = farewell",
		"name":    "Ann Example",
	}
	escaped := Escape(original)
	for key, value := range escaped {
		if strings.ContainsAny(key, "&= ") || strings.ContainsAny(value, "&= ") {
			t.Errorf("escaped entry %q=%q still contains separator characters", key, value)
		}
	}
	if got := Unescape(escaped); !maps.Equal(got, original) {
		t.Errorf("Unescape(Escape(m)) = %v, want %v", got, original)
	}
}

func TestEscapedValuesSurviveEncode(t *testing.T) {
	original := map[string]string{"note": "a&b=c"}
	decoded := Unescape(Decode(Encode(Escape(original))))
	if !maps.Equal(decoded, original) {
		t.Errorf("full round trip = %v, want %v", decoded, original)
	}
}

func TestGet(t *testing.T) {
	text := "command=tell&group=Testers&message=hi"
	if got := Get("group", text); got != "Testers" {
		t.Errorf("Get(group) = %q, want %q", got, "Testers")
	}
	if got := Get("absent", text); got != "" {
		t.Errorf("Get(absent) = %q, want empty", got)
	}
	if got := Get("mess", text); got != "" {
		t.Errorf("Get(mess) = %q, want empty (no prefix matching)", got)
	}
}
