// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v3"

	apperrors "github.com/vsq/nix-homelab/pkg/errors"
	"github.com/vsq/nix-homelab/pkg/logging"
	"github.com/vsq/nix-homelab/pkg/version"
)

const name = "homelab"

// Exit codes.
const (
	exitFailure   = 1
	exitCancelled = 2
	exitRejected  = 3
)

// Execute runs the command line and exits the process with a non-zero
// status when any host failed.
func Execute() {
	logging.SetDefaultStructuredLogger(name, version.Get().Version)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\nReceived interrupt signal, shutting down gracefully...")
		cancel()
	}()

	if err := newRootCmd().Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}

// exitCode maps a command error to the process status. Requests rejected
// before any host was contacted exit 3.
func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case stderrors.Is(err, context.Canceled):
		return exitCancelled
	case apperrors.IsFatal(err):
		slog.Error("aborted before contacting any host", "code", apperrors.CodeOf(err), "error", err)
		return exitRejected
	default:
		return exitFailure
	}
}

func newRootCmd() *cli.Command {
	info := version.Get()
	return &cli.Command{
		Name:                  name,
		Usage:                 "Deploy NixOS configurations and document the fleet",
		Version:               info.String(),
		EnableShellCompletion: true,
		Description: `homelab mirrors the configuration tree to every selected host, activates it
with nixos-rebuild or home-manager, and keeps docs/hosts up to date with what
discovery finds on each machine.

Hosts are selected by name (a,b,c) or by role (role=<tag>). Every host runs
its own pipeline; one failing host never stops the others.`,
		Flags: globalFlags(),
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			logging.SetDefaultStructuredLoggerWithLevel(name, info.Version, cmd.String(flagLogLevel))
			slog.Debug("starting",
				"name", name,
				"version", info.Version,
				"commit", info.Commit,
				"date", info.Date,
			)
			return ctx, nil
		},
		After: writeMetrics,
		Commands: []*cli.Command{
			nixosCmd(),
			homeCmd(),
			roleCmd(),
			docsCmd(),
			hostsCmd(),
		},
	}
}

// writeMetrics dumps the process metrics in text exposition format when
// --metrics-file is set, for node_exporter's textfile collector.
func writeMetrics(_ context.Context, cmd *cli.Command) error {
	path := cmd.String(flagMetricsFile)
	if path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, prometheus.DefaultGatherer); err != nil {
		slog.Warn("failed to write metrics", "path", path, "error", err)
		return nil
	}
	slog.Debug("metrics written", "path", path)
	return nil
}
