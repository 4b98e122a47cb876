// Copyright 2026 The Gridgate Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"encoding/hex"
	"fmt"
	"os"
	"time"

	"github.com/zeebo/blake3"
	"gopkg.in/yaml.v3"

	"github.com/gridgate-foundation/gridgate/lib/schema"
)

// Group is one credentialed tenant of the gateway. Groups are
// immutable after load; configuration changes produce a whole new
// Snapshot.
type Group struct {
	// Name identifies the group. Case-sensitive, unique.
	Name string

	// Credential is the shared secret presented with every command.
	Credential string

	// WorldID is the group's identifier on the grid.
	WorldID string

	// Capabilities is the bitmask of command categories this group
	// may invoke.
	Capabilities schema.Capability

	// Notifications is the bitmask of event kinds this group may
	// receive through the notification bus.
	Notifications schema.EventKind

	// Workers bounds the group's concurrently executing commands.
	// Zero means the group can never be admitted.
	Workers int

	// ChatLog is the path of the group's chat transcript file.
	ChatLog string

	// Database is the path of the group's key-value store file.
	Database string
}

// Snapshot is one immutable parse of the configuration file.
type Snapshot struct {
	// Listen is the TCP address for the HTTP command surface.
	Listen string

	// ClientSocket is the Unix socket path of the grid client.
	ClientSocket string

	// CommandTimeout bounds each blocking wait on a grid reply.
	CommandTimeout time.Duration

	// CallbackTimeout bounds each callback or notification POST.
	// Independent of CommandTimeout.
	CallbackTimeout time.Duration

	// Groups is keyed by case-sensitive group name.
	Groups map[string]*Group

	// Fingerprint is the hex BLAKE3 hash of the raw file bytes.
	Fingerprint string
}

// Group returns the named group, or nil. Lookup is case-sensitive.
func (s *Snapshot) Group(name string) *Group {
	return s.Groups[name]
}

const (
	defaultCommandTimeout  = 60 * time.Second
	defaultCallbackTimeout = 15 * time.Second
)

type rawFile struct {
	Listen          string     `yaml:"listen"`
	ClientSocket    string     `yaml:"client_socket"`
	CommandTimeout  duration   `yaml:"command_timeout"`
	CallbackTimeout duration   `yaml:"callback_timeout"`
	DefaultWorkers  int        `yaml:"default_workers"`
	Groups          []rawGroup `yaml:"groups"`
}

// duration parses YAML scalars like "30s" or "2m" via
// time.ParseDuration. yaml.v3 has no native duration support.
type duration time.Duration

func (d *duration) UnmarshalYAML(value *yaml.Node) error {
	var text string
	if err := value.Decode(&text); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(text)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}
	*d = duration(parsed)
	return nil
}

type rawGroup struct {
	Name          string   `yaml:"name"`
	Credential    string   `yaml:"credential"`
	WorldID       string   `yaml:"world_id"`
	Capabilities  []string `yaml:"capabilities"`
	Notifications []string `yaml:"notifications"`
	// Workers is a pointer so "omitted" (use the default) is
	// distinguishable from an explicit 0 (never admit).
	Workers  *int   `yaml:"workers"`
	ChatLog  string `yaml:"chatlog"`
	Database string `yaml:"database"`
}

// Load reads and parses the configuration file at path.
func Load(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}
	snapshot, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return snapshot, nil
}

// Parse builds a Snapshot from raw YAML bytes.
func Parse(data []byte) (*Snapshot, error) {
	var raw rawFile
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}

	defaultWorkers := raw.DefaultWorkers
	if defaultWorkers < 0 {
		return nil, fmt.Errorf("default_workers must not be negative (got %d)", defaultWorkers)
	}
	if defaultWorkers == 0 {
		defaultWorkers = 1
	}

	snapshot := &Snapshot{
		Listen:          raw.Listen,
		ClientSocket:    raw.ClientSocket,
		CommandTimeout:  time.Duration(raw.CommandTimeout),
		CallbackTimeout: time.Duration(raw.CallbackTimeout),
		Groups:          make(map[string]*Group, len(raw.Groups)),
	}
	if snapshot.CommandTimeout <= 0 {
		snapshot.CommandTimeout = defaultCommandTimeout
	}
	if snapshot.CallbackTimeout <= 0 {
		snapshot.CallbackTimeout = defaultCallbackTimeout
	}

	for _, rg := range raw.Groups {
		if rg.Name == "" {
			return nil, fmt.Errorf("group with empty name")
		}
		if _, exists := snapshot.Groups[rg.Name]; exists {
			return nil, fmt.Errorf("duplicate group %q", rg.Name)
		}
		if rg.Credential == "" {
			return nil, fmt.Errorf("group %q has no credential", rg.Name)
		}

		capabilities, err := schema.ParseCapabilities(rg.Capabilities)
		if err != nil {
			return nil, fmt.Errorf("group %q: %w", rg.Name, err)
		}
		notifications, err := schema.ParseEvents(rg.Notifications)
		if err != nil {
			return nil, fmt.Errorf("group %q: %w", rg.Name, err)
		}

		workers := defaultWorkers
		if rg.Workers != nil {
			if *rg.Workers < 0 {
				return nil, fmt.Errorf("group %q: workers must not be negative", rg.Name)
			}
			workers = *rg.Workers
		}

		snapshot.Groups[rg.Name] = &Group{
			Name:          rg.Name,
			Credential:    rg.Credential,
			WorldID:       rg.WorldID,
			Capabilities:  capabilities,
			Notifications: notifications,
			Workers:       workers,
			ChatLog:       rg.ChatLog,
			Database:      rg.Database,
		}
	}

	sum := blake3.Sum256(data)
	snapshot.Fingerprint = hex.EncodeToString(sum[:])
	return snapshot, nil
}
