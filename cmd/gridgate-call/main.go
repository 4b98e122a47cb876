// Copyright 2026 The Gridgate Authors
// SPDX-License-Identifier: Apache-2.0

// gridgate-call is an operator CLI for the gateway's command
// surface. It assembles a wire command from key=value arguments,
// POSTs it, and prints the decoded result one pair per line:
//
//	gridgate-call --gateway http://localhost:8080 \
//	    command=getbalance group=Tester password=hunter2
package main

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"github.com/gridgate-foundation/gridgate/lib/wire"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "gridgate-call:", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		gatewayURL string
		timeout    time.Duration
	)
	flagSet := pflag.NewFlagSet("gridgate-call", pflag.ContinueOnError)
	flagSet.StringVar(&gatewayURL, "gateway", "http://127.0.0.1:8080", "base URL of the gateway")
	flagSet.DurationVar(&timeout, "timeout", 2*time.Minute, "time to wait for the command to complete")
	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}

	fields := make(map[string]string)
	for _, arg := range flagSet.Args() {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			return fmt.Errorf("argument %q is not key=value", arg)
		}
		fields[key] = value
	}
	if fields["command"] == "" {
		return fmt.Errorf("a command=<name> argument is required")
	}

	body := wire.Encode(wire.Escape(fields))
	client := &http.Client{Timeout: timeout}
	response, err := client.Post(
		strings.TrimSuffix(gatewayURL, "/")+"/command",
		"text/plain", strings.NewReader(body))
	if err != nil {
		return err
	}
	defer response.Body.Close()
	text, err := io.ReadAll(response.Body)
	if err != nil {
		return err
	}
	if response.StatusCode != http.StatusOK {
		return fmt.Errorf("gateway returned %s: %s", response.Status, strings.TrimSpace(string(text)))
	}

	result := wire.Unescape(wire.Decode(string(text)))
	keys := make([]string, 0, len(result))
	for key := range result {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		fmt.Printf("%s=%s\n", key, result[key])
	}

	if result["success"] != "true" {
		return fmt.Errorf("command failed: %s", result["error"])
	}
	return nil
}
