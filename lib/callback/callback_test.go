// Copyright 2026 The Gridgate Authors
// SPDX-License-Identifier: Apache-2.0

package callback

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gridgate-foundation/gridgate/lib/wire"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	client, err := NewClient(ClientConfig{Timeout: 5 * time.Second})
	if err != nil {
		t.Fatal(err)
	}
	return client
}

func TestPostDeliversEscapedBody(t *testing.T) {
	received := make(chan string, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ct := r.Header.Get("Content-Type"); ct != "application/x-www-form-urlencoded" {
			t.Errorf("Content-Type = %q", ct)
		}
		body, _ := io.ReadAll(r.Body)
		received <- string(body)
	}))
	defer server.Close()

	err := newTestClient(t).Post(context.Background(), server.URL, map[string]string{
		"success": "true",
		"message": "a&b=c",
	})
	if err != nil {
		t.Fatalf("Post: %v", err)
	}

	body := <-received
	decoded := wire.Unescape(wire.Decode(body))
	if decoded["success"] != "true" || decoded["message"] != "a&b=c" {
		t.Errorf("delivered payload = %v", decoded)
	}
}

func TestPostErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer server.Close()

	if err := newTestClient(t).Post(context.Background(), server.URL, map[string]string{"a": "1"}); err == nil {
		t.Error("Post to failing endpoint returned nil error")
	}
}

func TestPostUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	if err := newTestClient(t).Post(context.Background(), url, map[string]string{"a": "1"}); err == nil {
		t.Error("Post to closed endpoint returned nil error")
	}
}

func TestNewClientRequiresTimeout(t *testing.T) {
	if _, err := NewClient(ClientConfig{}); err == nil {
		t.Error("NewClient without Timeout returned nil error")
	}
}
