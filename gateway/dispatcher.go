// Copyright 2026 The Gridgate Authors
// SPDX-License-Identifier: Apache-2.0

package gateway

import (
	"context"
	"log/slog"
	"time"

	"github.com/gridgate-foundation/gridgate/lib/admission"
	"github.com/gridgate-foundation/gridgate/lib/auth"
	"github.com/gridgate-foundation/gridgate/lib/callback"
	"github.com/gridgate-foundation/gridgate/lib/clock"
	"github.com/gridgate-foundation/gridgate/lib/config"
	"github.com/gridgate-foundation/gridgate/lib/wire"
	"github.com/gridgate-foundation/gridgate/notify"
	"github.com/gridgate-foundation/gridgate/world"
)

// Reserved request keys. Everything else is afterburn and is echoed
// into the result untouched.
const (
	KeyCommand  = "command"
	KeyGroup    = "group"
	KeyPassword = "password"
	KeyCallback = "callback"
)

// Result keys set by the dispatcher itself.
const (
	KeySuccess       = "success"
	KeyError         = "error"
	KeyCallbackError = "callbackerror"
)

// Call carries everything a handler needs for one admitted command:
// the authenticated group, the snapshot the whole command runs
// against, and the decoded request fields.
type Call struct {
	Group    *config.Group
	Snapshot *config.Snapshot
	Fields   map[string]string
}

// Handler executes one admitted command and returns its payload
// fields. A returned error becomes the result's error value; use
// *Error for a category other than domain.
type Handler func(ctx context.Context, call *Call) (map[string]string, error)

// Auditor records command outcomes. Satisfied by audit.Recorder.
type Auditor interface {
	Record(ctx context.Context, group, command string, success bool, detail string, elapsed time.Duration)
}

// DispatcherConfig configures a Dispatcher.
type DispatcherConfig struct {
	// Store supplies the configuration snapshot. Required.
	Store *config.Store

	// Service is the grid client surface. Required.
	Service world.Service

	// Admission bounds per-group concurrency. Required.
	Admission *admission.Controller

	// Bus handles the notify command's registrations. Required.
	Bus *notify.Bus

	// Poster delivers callback results. Required.
	Poster *callback.Client

	// Clock times out grid waits. Defaults to the real clock.
	Clock clock.Clock

	// Auditor records outcomes, when set.
	Auditor Auditor

	// Logger is used for structured logging. If nil, slog.Default()
	// is used.
	Logger *slog.Logger
}

// Dispatcher routes decoded commands to handlers and owns the
// request lifecycle around them.
type Dispatcher struct {
	store     *config.Store
	service   world.Service
	admission *admission.Controller
	bus       *notify.Bus
	poster    *callback.Client
	clock     clock.Clock
	auditor   Auditor
	logger    *slog.Logger
	handlers  map[string]Handler
}

// NewDispatcher creates a dispatcher with the built-in command set
// registered.
func NewDispatcher(cfg DispatcherConfig) (*Dispatcher, error) {
	if cfg.Store == nil {
		return nil, Errorf(CodeDomain, "gateway: Store is required")
	}
	if cfg.Service == nil {
		return nil, Errorf(CodeDomain, "gateway: Service is required")
	}
	if cfg.Admission == nil {
		return nil, Errorf(CodeDomain, "gateway: Admission is required")
	}
	if cfg.Bus == nil {
		return nil, Errorf(CodeDomain, "gateway: Bus is required")
	}
	if cfg.Poster == nil {
		return nil, Errorf(CodeDomain, "gateway: Poster is required")
	}
	clk := cfg.Clock
	if clk == nil {
		clk = clock.Real()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	d := &Dispatcher{
		store:     cfg.Store,
		service:   cfg.Service,
		admission: cfg.Admission,
		bus:       cfg.Bus,
		poster:    cfg.Poster,
		clock:     clk,
		auditor:   cfg.Auditor,
		logger:    logger,
		handlers:  make(map[string]Handler),
	}
	d.Register("tell", d.cmdTell)
	d.Register("pay", d.cmdPay)
	d.Register("getbalance", d.cmdGetBalance)
	d.Register("join", d.cmdJoin)
	d.Register("rez", d.cmdRez)
	d.Register("inventory", d.cmdInventory)
	d.Register("profile", d.cmdProfile)
	d.Register("setprofile", d.cmdSetProfile)
	d.Register("database", d.cmdDatabase)
	d.Register("notify", d.cmdNotify)
	return d, nil
}

// Register installs a handler for a command name, replacing any
// existing one.
func (d *Dispatcher) Register(name string, handler Handler) {
	d.handlers[name] = handler
}

type outcome struct {
	payload map[string]string
	err     error
}

// Dispatch runs one wire-format command end to end and returns the
// encoded result. It never returns an error and never panics: every
// failure is rendered into the result text.
func (d *Dispatcher) Dispatch(ctx context.Context, text string) string {
	started := d.clock.Now()
	fields := wire.Unescape(wire.Decode(text))
	name := fields[KeyCommand]
	group := fields[KeyGroup]

	// The snapshot is pinned here; authentication, capability
	// checks, and handlers all see this one parse of the config.
	snapshot := d.store.Snapshot()

	result := make(map[string]string)
	var cmdErr *Error

	g, ok := auth.Authenticate(snapshot, group, fields[KeyPassword])
	switch {
	case !ok:
		cmdErr = Errorf(CodeAuthentication, "invalid group or credential")
	default:
		handler, known := d.handlers[name]
		if !known {
			cmdErr = Errorf(CodeUnknown, "no such command %q", name)
		} else if !d.admission.TryAdmit(g) {
			cmdErr = Errorf(CodeAdmission, "worker limit reached for group %q", group)
		} else {
			out := d.execute(ctx, name, handler, &Call{Group: g, Snapshot: snapshot, Fields: fields})
			d.admission.Release(group)
			if out.err != nil {
				cmdErr = asError(out.err)
			}
			for key, value := range out.payload {
				result[key] = value
			}
		}
	}

	// Afterburn: every non-reserved, non-empty request key is echoed
	// into the result. The handler payload wins on a key collision;
	// a caller must not be able to forge payload fields.
	for key, value := range fields {
		switch key {
		case KeyCommand, KeyGroup, KeyPassword, KeyCallback:
			continue
		}
		if value == "" {
			continue
		}
		if _, taken := result[key]; taken {
			continue
		}
		result[key] = value
	}

	if cmdErr != nil {
		result[KeySuccess] = "false"
		result[KeyError] = cmdErr.Error()
		d.logger.Warn("command failed",
			"command", name, "group", group, "error", cmdErr)
	} else {
		result[KeySuccess] = "true"
	}

	// Callback delivery is a side effect of the same result the
	// synchronous caller gets; a failed POST shows up in both.
	if url := fields[KeyCallback]; url != "" {
		if err := d.poster.Post(ctx, url, result); err != nil {
			result[KeyCallbackError] = err.Error()
			result[KeyCallback] = url
			d.logger.Warn("callback delivery failed",
				"command", name, "group", group, "url", url, "error", err)
		}
	}

	if d.auditor != nil {
		detail := ""
		if cmdErr != nil {
			detail = cmdErr.Error()
		}
		d.auditor.Record(ctx, group, name, cmdErr == nil, detail, d.clock.Now().Sub(started))
	}

	return wire.Encode(wire.Escape(result))
}

// execute runs handler on its own goroutine so a panic is contained
// to the command that caused it. The admission slot is released by
// the caller once the outcome arrives, exactly once per admit.
func (d *Dispatcher) execute(ctx context.Context, name string, handler Handler, call *Call) outcome {
	done := make(chan outcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				d.logger.Error("command handler panicked",
					"command", name, "group", call.Group.Name, "panic", r)
				done <- outcome{err: Errorf(CodeDomain, "internal error executing %q", name)}
			}
		}()
		payload, err := handler(ctx, call)
		done <- outcome{payload: payload, err: err}
	}()
	return <-done
}
