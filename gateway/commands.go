// Copyright 2026 The Gridgate Authors
// SPDX-License-Identifier: Apache-2.0

package gateway

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/gridgate-foundation/gridgate/lib/attr"
	"github.com/gridgate-foundation/gridgate/lib/auth"
	"github.com/gridgate-foundation/gridgate/lib/await"
	"github.com/gridgate-foundation/gridgate/lib/kvstore"
	"github.com/gridgate-foundation/gridgate/lib/schema"
	"github.com/gridgate-foundation/gridgate/world"
)

// requireCapability gates a handler on one capability bit.
func requireCapability(call *Call, bit schema.Capability) error {
	if !auth.HasCapability(call.Group, bit) {
		return Errorf(CodeAuthorization, "group %q lacks the %q capability", call.Group.Name, bit)
	}
	return nil
}

// requireField extracts a request field that the command cannot run
// without.
func requireField(call *Call, name string) (string, error) {
	value := call.Fields[name]
	if value == "" {
		return "", Errorf(CodeDomain, "missing required field %q", name)
	}
	return value, nil
}

// awaitReply issues op and blocks until an event of kind matching
// match arrives, bounded by the snapshot's command timeout. The
// subscription is torn down on every exit path.
func (d *Dispatcher) awaitReply(
	ctx context.Context,
	call *Call,
	kind schema.EventKind,
	match func(world.Event) bool,
	op string,
	params map[string]string,
) (world.Event, error) {
	event, timedOut, err := await.Do(ctx, d.clock, call.Snapshot.CommandTimeout,
		func(fire func(world.Event)) func() {
			return d.service.Subscribe(kind, func(event world.Event) {
				if match == nil || match(event) {
					fire(event)
				}
			})
		},
		func() error {
			return d.service.Request(ctx, op, params)
		})
	if err != nil {
		return world.Event{}, Errorf(CodeDomain, "grid request %q failed: %v", op, err)
	}
	if timedOut {
		return world.Event{}, Errorf(CodeTimeout, "no grid reply to %q within %s", op, call.Snapshot.CommandTimeout)
	}
	return event, nil
}

func (d *Dispatcher) resolver(call *Call) *world.ItemResolver {
	return &world.ItemResolver{
		Service: d.service,
		Clock:   d.clock,
		Timeout: call.Snapshot.CommandTimeout,
	}
}

// cmdTell sends a message to an agent, or to the group's chat
// channel when entity=group. Fire and forget.
func (d *Dispatcher) cmdTell(ctx context.Context, call *Call) (map[string]string, error) {
	if err := requireCapability(call, schema.CapabilityTalk); err != nil {
		return nil, err
	}
	message, err := requireField(call, "message")
	if err != nil {
		return nil, err
	}
	if call.Fields["entity"] == "group" {
		err := d.service.Request(ctx, world.OpGroupChat, map[string]string{
			"group":   call.Group.WorldID,
			"message": message,
		})
		if err != nil {
			return nil, Errorf(CodeDomain, "group chat send failed: %v", err)
		}
		return nil, nil
	}
	agent, err := requireField(call, "agent")
	if err != nil {
		return nil, err
	}
	if err := d.service.Request(ctx, world.OpSendMessage, map[string]string{
		"agent":   agent,
		"message": message,
	}); err != nil {
		return nil, Errorf(CodeDomain, "message send failed: %v", err)
	}
	return nil, nil
}

// cmdPay transfers money to an agent and waits for the balance event
// acknowledging the transfer.
func (d *Dispatcher) cmdPay(ctx context.Context, call *Call) (map[string]string, error) {
	if err := requireCapability(call, schema.CapabilityEconomy); err != nil {
		return nil, err
	}
	agent, err := requireField(call, "agent")
	if err != nil {
		return nil, err
	}
	raw, err := requireField(call, "amount")
	if err != nil {
		return nil, err
	}
	amount, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || amount <= 0 {
		return nil, Errorf(CodeDomain, "amount %q is not a positive integer", raw)
	}
	event, err := d.awaitReply(ctx, call, schema.EventBalance, nil,
		world.OpPay, map[string]string{"agent": agent, "amount": raw})
	if err != nil {
		return nil, err
	}
	if event.Fields["success"] == "false" {
		return nil, Errorf(CodeDomain, "payment rejected: %s", event.Fields["reason"])
	}
	return map[string]string{"balance": event.Fields["balance"]}, nil
}

// cmdGetBalance reports the current balance.
func (d *Dispatcher) cmdGetBalance(ctx context.Context, call *Call) (map[string]string, error) {
	if err := requireCapability(call, schema.CapabilityEconomy); err != nil {
		return nil, err
	}
	event, err := d.awaitReply(ctx, call, schema.EventBalance, nil,
		world.OpQueryBalance, nil)
	if err != nil {
		return nil, err
	}
	return map[string]string{"balance": event.Fields["balance"]}, nil
}

// cmdJoin joins the configured grid group.
func (d *Dispatcher) cmdJoin(ctx context.Context, call *Call) (map[string]string, error) {
	if err := requireCapability(call, schema.CapabilityGroup); err != nil {
		return nil, err
	}
	target := call.Group.WorldID
	event, err := d.awaitReply(ctx, call, schema.EventMembership,
		func(event world.Event) bool { return event.Fields["group"] == target },
		world.OpJoinGroup, map[string]string{"group": target})
	if err != nil {
		return nil, err
	}
	if event.Fields["success"] != "true" {
		return nil, Errorf(CodeDomain, "unable to join group: %s", event.Fields["reason"])
	}
	return nil, nil
}

// cmdRez rezzes an inventory item in-world. The item field accepts a
// grid key or an item name, which is resolved by searching the
// group's inventory.
func (d *Dispatcher) cmdRez(ctx context.Context, call *Call) (map[string]string, error) {
	if err := requireCapability(call, schema.CapabilityInteract); err != nil {
		return nil, err
	}
	item, err := requireField(call, "item")
	if err != nil {
		return nil, err
	}
	if !attr.IsKey(item) {
		id, err := d.resolver(call).ResolveID(ctx, item)
		if err != nil {
			return nil, &attr.ResolutionError{Name: item, Err: err}
		}
		item = id
	}
	event, err := d.awaitReply(ctx, call, schema.EventObject,
		func(event world.Event) bool { return event.Fields["item"] == item },
		world.OpRezObject, map[string]string{
			"item":     item,
			"position": call.Fields["position"],
		})
	if err != nil {
		return nil, err
	}
	if event.Fields["success"] != "true" {
		return nil, Errorf(CodeDomain, "rez failed: %s", event.Fields["reason"])
	}
	return map[string]string{"object": event.Fields["object"]}, nil
}

// cmdInventory lists the items under a folder. Results stream in as
// one directory event per item; the grid client terminates the
// stream with a done marker, at which point the collected names are
// returned as one comma-joined field.
func (d *Dispatcher) cmdInventory(ctx context.Context, call *Call) (map[string]string, error) {
	if err := requireCapability(call, schema.CapabilityInventory); err != nil {
		return nil, err
	}
	names, timedOut, err := await.Do(ctx, d.clock, call.Snapshot.CommandTimeout,
		func(fire func([]string)) func() {
			var collected []string
			return d.service.Subscribe(schema.EventDirectory, func(event world.Event) {
				if event.Fields["done"] == "true" {
					fire(collected)
					return
				}
				if name := event.Fields["name"]; name != "" {
					collected = append(collected, name)
				}
			})
		},
		func() error {
			return d.service.Request(ctx, world.OpQueryInventory,
				map[string]string{"folder": call.Fields["folder"]})
		})
	if err != nil {
		return nil, Errorf(CodeDomain, "grid request %q failed: %v", world.OpQueryInventory, err)
	}
	if timedOut {
		return nil, Errorf(CodeTimeout, "no grid reply to %q within %s",
			world.OpQueryInventory, call.Snapshot.CommandTimeout)
	}
	return map[string]string{"items": strings.Join(names, ",")}, nil
}

// cmdProfile queries an agent's profile and returns the requested
// attributes. The data field names the attributes wanted, comma
// separated; names with no value are omitted from the result.
func (d *Dispatcher) cmdProfile(ctx context.Context, call *Call) (map[string]string, error) {
	if err := requireCapability(call, schema.CapabilityDirectory); err != nil {
		return nil, err
	}
	agent, err := requireField(call, "agent")
	if err != nil {
		return nil, err
	}
	data, err := requireField(call, "data")
	if err != nil {
		return nil, err
	}
	event, err := d.awaitReply(ctx, call, schema.EventDirectory,
		func(event world.Event) bool { return event.Fields["agent"] == agent },
		world.OpQueryAgent, map[string]string{"agent": agent})
	if err != nil {
		return nil, err
	}
	var record world.Agent
	world.FromEvent(&record, event)
	row := attr.ToRow(&record, splitList(data))
	payload := make(map[string]string, len(row))
	for _, pair := range row {
		payload[pair.Name] = pair.Value
	}
	return payload, nil
}

// cmdSetProfile parses the data field as comma-delimited name, value
// update pairs, applies them to a profile record, and pushes the
// result to the grid. Identifier-valued updates may use names, which
// are resolved against the group's inventory catalog.
func (d *Dispatcher) cmdSetProfile(ctx context.Context, call *Call) (map[string]string, error) {
	if err := requireCapability(call, schema.CapabilityDirectory); err != nil {
		return nil, err
	}
	data, err := requireField(call, "data")
	if err != nil {
		return nil, err
	}
	var record world.Agent
	if err := attr.ApplyUpdates(ctx, &record, data, d.resolver(call)); err != nil {
		return nil, err
	}
	params := make(map[string]string)
	for _, pair := range attr.ToRow(&record, []string{"name", "about", "id"}) {
		params[pair.Name] = pair.Value
	}
	if err := d.service.Request(ctx, world.OpUpdateProfile, params); err != nil {
		return nil, Errorf(CodeDomain, "profile update failed: %v", err)
	}
	return nil, nil
}

// cmdDatabase reads and writes the group's key-value store. All
// actions run under the group's database lock, so concurrent
// commands against the same store serialize.
func (d *Dispatcher) cmdDatabase(ctx context.Context, call *Call) (map[string]string, error) {
	if err := requireCapability(call, schema.CapabilityDatabase); err != nil {
		return nil, err
	}
	if call.Group.Database == "" {
		return nil, Errorf(CodeDomain, "group %q has no database configured", call.Group.Name)
	}
	action, err := requireField(call, "action")
	if err != nil {
		return nil, err
	}

	payload := make(map[string]string)
	err = d.admission.WithGroupLock(call.Group.Name, func() error {
		path := call.Group.Database
		switch action {
		case "get":
			key, err := requireField(call, "key")
			if err != nil {
				return err
			}
			value, err := kvstore.Get(path, key)
			if errors.Is(err, kvstore.ErrNotFound) {
				return Errorf(CodeDomain, "no record for key %q", key)
			}
			if err != nil {
				return err
			}
			payload["value"] = value
			return nil
		case "set":
			key, err := requireField(call, "key")
			if err != nil {
				return err
			}
			value, err := requireField(call, "value")
			if err != nil {
				return err
			}
			return kvstore.Put(path, key, value)
		case "delete":
			key, err := requireField(call, "key")
			if err != nil {
				return err
			}
			return kvstore.Delete(path, key)
		case "list":
			keys, err := kvstore.Keys(path)
			if err != nil {
				return err
			}
			payload["keys"] = strings.Join(keys, ",")
			return nil
		default:
			return Errorf(CodeDomain, "unknown database action %q", action)
		}
	})
	if err != nil {
		return nil, err
	}
	return payload, nil
}

// cmdNotify manages the group's notification registration. action is
// set or clear; set requires a URL and a comma-separated list of
// event names, each of which the group must have opted into.
func (d *Dispatcher) cmdNotify(ctx context.Context, call *Call) (map[string]string, error) {
	if err := requireCapability(call, schema.CapabilityNotifications); err != nil {
		return nil, err
	}
	action, err := requireField(call, "action")
	if err != nil {
		return nil, err
	}
	switch action {
	case "set":
		url, err := requireField(call, "url")
		if err != nil {
			return nil, err
		}
		names, err := requireField(call, "notifications")
		if err != nil {
			return nil, err
		}
		mask, err := schema.ParseEvents(splitList(names))
		if err != nil {
			return nil, Errorf(CodeDomain, "%v", err)
		}
		for _, name := range splitList(names) {
			kind, _ := schema.ParseEvents([]string{name})
			if !auth.HasNotification(call.Group, kind) {
				return nil, Errorf(CodeAuthorization, "group %q has not opted into %q notifications", call.Group.Name, name)
			}
		}
		d.bus.Register(call.Group.Name, url, mask)
		return nil, nil
	case "clear":
		d.bus.Unregister(call.Group.Name)
		return nil, nil
	default:
		return nil, Errorf(CodeDomain, "unknown notify action %q", action)
	}
}

// splitList splits a comma-separated field into trimmed, non-empty
// elements.
func splitList(text string) []string {
	parts := strings.Split(text, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
