// Copyright 2026 The Gridgate Authors
// SPDX-License-Identifier: Apache-2.0

// gridgate is the command gateway daemon. It loads the group
// configuration, connects to the grid client over its Unix socket,
// serves the HTTP command surface, routes command instant messages,
// fans out notifications, and appends group chat transcripts. SIGHUP
// reloads the configuration in place.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/gridgate-foundation/gridgate/audit"
	"github.com/gridgate-foundation/gridgate/gateway"
	"github.com/gridgate-foundation/gridgate/lib/admission"
	"github.com/gridgate-foundation/gridgate/lib/callback"
	"github.com/gridgate-foundation/gridgate/lib/clock"
	"github.com/gridgate-foundation/gridgate/lib/config"
	"github.com/gridgate-foundation/gridgate/notify"
	"github.com/gridgate-foundation/gridgate/world/remote"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "gridgate:", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configPath string
		listen     string
		auditPath  string
		logLevel   string
	)
	flagSet := pflag.NewFlagSet("gridgate", pflag.ContinueOnError)
	flagSet.StringVar(&configPath, "config", "gridgate.yaml", "path to the configuration file")
	flagSet.StringVar(&listen, "listen", "", "TCP listen address, overriding the configured one")
	flagSet.StringVar(&auditPath, "audit", "", "path to the SQLite audit trail (disabled when empty)")
	flagSet.StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}

	logger, err := newLogger(logLevel)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Unparsable configuration at startup is the one fatal error;
	// reload failures later keep the old snapshot.
	store, err := config.NewStore(configPath, logger)
	if err != nil {
		return err
	}
	snapshot := store.Snapshot()

	address := listen
	if address == "" {
		address = snapshot.Listen
	}
	if address == "" {
		return fmt.Errorf("no listen address: set listen in %s or pass --listen", configPath)
	}
	if snapshot.ClientSocket == "" {
		return fmt.Errorf("no client_socket configured in %s", configPath)
	}

	client, err := remote.Dial(snapshot.ClientSocket, logger)
	if err != nil {
		return err
	}
	defer client.Close()

	poster, err := callback.NewClient(callback.ClientConfig{
		Timeout: snapshot.CallbackTimeout,
		Logger:  logger,
	})
	if err != nil {
		return err
	}

	bus, err := notify.NewBus(notify.BusConfig{
		Store:  store,
		Poster: poster,
		Logger: logger,
	})
	if err != nil {
		return err
	}
	defer bus.Attach(client)()

	var auditor gateway.Auditor
	if auditPath != "" {
		recorder, err := audit.Open(audit.RecorderConfig{
			Path:   auditPath,
			Logger: logger,
		})
		if err != nil {
			return err
		}
		defer recorder.Close()
		auditor = recorder
	}

	dispatcher, err := gateway.NewDispatcher(gateway.DispatcherConfig{
		Store:     store,
		Service:   client,
		Admission: admission.NewController(),
		Bus:       bus,
		Poster:    poster,
		Auditor:   auditor,
		Logger:    logger,
	})
	if err != nil {
		return err
	}

	intake := &gateway.Intake{Service: client, Dispatcher: dispatcher, Logger: logger}
	defer intake.Attach()()

	chatLogs := &gateway.ChatLogs{Store: store, Clock: clock.Real(), Logger: logger}
	defer chatLogs.Attach(client)()

	// SIGHUP reloads the configuration. A failed reload logs and
	// keeps serving with the old snapshot.
	reload := make(chan os.Signal, 1)
	signal.Notify(reload, syscall.SIGHUP)
	defer signal.Stop(reload)
	go func() {
		for range reload {
			if err := store.Reload(); err != nil {
				logger.Error("config reload failed", "path", configPath, "error", err)
			}
		}
	}()

	server := gateway.NewServer(gateway.ServerConfig{
		Address:    address,
		Dispatcher: dispatcher,
		Logger:     logger,
	})

	serveDone := make(chan error, 1)
	go func() {
		serveDone <- server.Serve(ctx)
	}()

	logger.Info("gridgate running",
		"listen", address,
		"client_socket", snapshot.ClientSocket,
		"groups", len(snapshot.Groups),
	)

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case <-client.Done():
		// The grid client went away; commands cannot be served
		// without it.
		stop()
		err = fmt.Errorf("grid client connection closed")
	}

	if serveErr := <-serveDone; serveErr != nil && err == nil {
		err = serveErr
	}
	return err
}

func newLogger(level string) (*slog.Logger, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q", level)
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l})), nil
}
