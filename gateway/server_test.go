// Copyright 2026 The Gridgate Authors
// SPDX-License-Identifier: Apache-2.0

package gateway

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gridgate-foundation/gridgate/lib/clock"
	"github.com/gridgate-foundation/gridgate/lib/schema"
	"github.com/gridgate-foundation/gridgate/lib/testutil"
	"github.com/gridgate-foundation/gridgate/world"
)

func startServer(t *testing.T, f *fixture) *Server {
	t.Helper()
	server := NewServer(ServerConfig{
		Address:    "127.0.0.1:0",
		Dispatcher: f.dispatcher,
		Logger:     slog.New(slog.DiscardHandler),
	})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := server.Serve(ctx); err != nil {
			t.Errorf("serve: %v", err)
		}
	}()
	t.Cleanup(func() {
		cancel()
		testutil.RequireClosed(t, done, 5*time.Second, "server never stopped")
	})
	testutil.RequireClosed(t, server.Ready(), 5*time.Second, "server never became ready")
	return server
}

func TestServerCommand(t *testing.T) {
	f := newFixture(t, clock.Real())
	f.fake.Reply(world.OpQueryBalance, world.Event{
		Kind:   schema.EventBalance,
		Fields: map[string]string{"balance": "77"},
	})
	server := startServer(t, f)

	response, err := http.Post("http://"+server.Addr().String()+"/command",
		"text/plain", strings.NewReader("command=getbalance&group=Tester&password=hunter2"))
	if err != nil {
		t.Fatal(err)
	}
	defer response.Body.Close()
	body, err := io.ReadAll(response.Body)
	if err != nil {
		t.Fatal(err)
	}

	result := decodeResult(string(body))
	if result[KeySuccess] != "true" {
		t.Fatalf("success = %q, want true (error %q)", result[KeySuccess], result[KeyError])
	}
	if result["balance"] != "77" {
		t.Errorf("balance = %q, want 77", result["balance"])
	}
}

func TestServerHealth(t *testing.T) {
	f := newFixture(t, clock.Real())
	server := startServer(t, f)

	response, err := http.Get("http://" + server.Addr().String() + "/health")
	if err != nil {
		t.Fatal(err)
	}
	response.Body.Close()
	if response.StatusCode != http.StatusOK {
		t.Errorf("health status = %d, want 200", response.StatusCode)
	}
}
