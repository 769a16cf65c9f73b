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

package executor

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vsq/nix-homelab/pkg/discovery"
	apperrors "github.com/vsq/nix-homelab/pkg/errors"
	"github.com/vsq/nix-homelab/pkg/inventory"
	"github.com/vsq/nix-homelab/pkg/remote"
)

// LocalHost is the outcome name of a rebuild of the orchestrator itself.
const LocalHost = "localhost"

// DiscoveryFunc probes a host after activation and documents the result.
type DiscoveryFunc func(ctx context.Context, host inventory.HostRecord) (*discovery.Report, error)

// Executor fans an action out to hosts, one goroutine per host.
type Executor struct {
	runner      remote.Runner
	discover    DiscoveryFunc
	workspace   string
	parallelism int
}

// Option configures an Executor.
type Option func(*Executor)

// WithParallelism caps the number of hosts worked on at once. Zero or a
// negative value means no cap.
func WithParallelism(n int) Option {
	return func(e *Executor) {
		e.parallelism = n
	}
}

// WithDiscovery sets the function run after activation when the ActionSpec asks
// for discovery.
func WithDiscovery(fn DiscoveryFunc) Option {
	return func(e *Executor) {
		e.discover = fn
	}
}

// WithWorkspace sets the local configuration tree mirrored to hosts.
func WithWorkspace(dir string) Option {
	return func(e *Executor) {
		e.workspace = dir
	}
}

// New returns an Executor using runner for every command.
func New(runner remote.Runner, opts ...Option) *Executor {
	e := &Executor{
		runner:    runner,
		workspace: ".",
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run applies spec to every host concurrently and waits for all of them.
// One host failing, or panicking, never affects the others. Outcomes are
// returned in the order of hosts. The only error is an invalid spec.
func (e *Executor) Run(ctx context.Context, hosts []inventory.HostRecord, spec ActionSpec) (*Run, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	run := newRun(spec, len(hosts))
	slog.Info("starting run",
		"run", run.ID,
		"action", spec.Action,
		"tool", spec.Tool,
		"hosts", len(hosts),
	)
	deployRunsTotal.WithLabelValues(string(spec.Action)).Inc()

	var g errgroup.Group
	if e.parallelism > 0 {
		g.SetLimit(e.parallelism)
	}

	var mu sync.Mutex
	for i, host := range hosts {
		g.Go(func() error {
			out := e.guard(host.Name, func() Outcome {
				return e.deployHost(ctx, host, spec)
			})
			mu.Lock()
			run.Outcomes[i] = out
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	run.finish()
	slog.Info("run finished", "run", run.ID, "summary", run.Summary())
	return run, nil
}

// RunLocal applies spec to the orchestrator itself.
func (e *Executor) RunLocal(ctx context.Context, spec ActionSpec) (*Run, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	run := newRun(spec, 1)
	deployRunsTotal.WithLabelValues(string(spec.Action)).Inc()
	run.Outcomes[0] = e.guard(LocalHost, func() Outcome {
		return e.deployLocal(ctx, spec)
	})
	run.finish()
	return run, nil
}

// guard converts a panic in fn into a failed outcome for host.
func (e *Executor) guard(host string, fn func() Outcome) (out Outcome) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			slog.Error("host worker panicked", "host", host, "panic", r, "stack", string(debug.Stack()))
			out = Outcome{
				Hostname: host,
				Stage:    StageInternal,
				Error:    apperrors.New(apperrors.ErrCodeInternal, fmt.Sprintf("panic: %v", r)).Error(),
			}
		}
		out.Duration = time.Since(start)
		status := "success"
		if !out.Succeeded {
			status = "error"
		}
		hostOutcomesTotal.WithLabelValues(string(out.Stage), status).Inc()
		hostDuration.WithLabelValues(status).Observe(out.Duration.Seconds())
	}()
	return fn()
}

func (e *Executor) deployHost(ctx context.Context, host inventory.HostRecord, spec ActionSpec) Outcome {
	out := Outcome{Hostname: host.Name}
	target := remote.Target{Name: host.Name, Address: host.Address, User: spec.loginUser(host.User)}

	fail := func(stage Stage, err error) Outcome {
		out.Stage = stage
		out.Error = err.Error()
		slog.Error("host failed", "host", host.Name, "stage", stage, "error", err)
		return out
	}

	slog.Info("syncing workspace", "host", host.Name)
	if _, err := e.runner.RunLocal(ctx, spec.SyncCommand(e.workspace, target)); err != nil {
		return fail(StageSync, err)
	}

	if cmd := spec.PrepareCommand(); cmd != "" {
		if _, err := e.runner.Run(ctx, target, cmd); err != nil {
			return fail(StagePrepare, err)
		}
	}

	slog.Info("activating", "host", host.Name, "action", spec.Action)
	if _, err := e.runner.Run(ctx, target, spec.ActivateCommand(host.Name, target.User)); err != nil {
		return fail(StageActivate, err)
	}

	if spec.Action == ActionBuild {
		out.ResultPath = fmt.Sprintf("%s:%s/result", target, spec.remoteDir())
		slog.Info("build result available", "host", host.Name, "path", out.ResultPath)
	}

	out.Stage = StageDone
	out.Succeeded = true

	if spec.runsDiscovery() && e.discover != nil {
		report, err := e.discover(ctx, host)
		out.Discovery = report
		if err != nil {
			out.DiscoveryError = err.Error()
			slog.Warn("discovery failed after deployment", "host", host.Name, "error", err)
		}
	}
	return out
}

func (e *Executor) deployLocal(ctx context.Context, spec ActionSpec) Outcome {
	out := Outcome{Hostname: LocalHost}

	if _, err := e.runner.RunLocal(ctx, spec.SyncCommand(e.workspace, remote.Target{})); err != nil {
		out.Stage, out.Error = StageSync, err.Error()
		return out
	}
	if _, err := e.runner.RunLocal(ctx, spec.ActivateCommand("", "")); err != nil {
		out.Stage, out.Error = StageActivate, err.Error()
		return out
	}
	out.Stage = StageDone
	out.Succeeded = true
	return out
}
