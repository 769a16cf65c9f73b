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

package discovery

import (
	"context"
	"log/slog"
	"time"

	"github.com/vsq/nix-homelab/pkg/catalog"
	"github.com/vsq/nix-homelab/pkg/checksum"
	apperrors "github.com/vsq/nix-homelab/pkg/errors"
	"github.com/vsq/nix-homelab/pkg/inventory"
	"github.com/vsq/nix-homelab/pkg/remote"
)

// Discoverer probes hosts step by step and persists what it finds.
type Discoverer struct {
	registry *catalog.Registry
	runner   remote.Runner
	prober   remote.Prober
	store    *Store
}

// New returns a Discoverer. The registry is shared read-only between
// concurrent Discover calls.
func New(registry *catalog.Registry, runner remote.Runner, prober remote.Prober, store *Store) *Discoverer {
	return &Discoverer{
		registry: registry,
		runner:   runner,
		prober:   prober,
		store:    store,
	}
}

// Discover runs the scan profile of host. An unreachable host yields a
// report with Reachable false and no error. Step failures are recorded in
// the report and never stop the remaining steps. The only error returned
// is UNSUPPORTED_OS.
func (d *Discoverer) Discover(ctx context.Context, host inventory.HostRecord) (*Report, *Accumulator, error) {
	defs, err := d.registry.StepsFor(host.OS)
	if err != nil {
		return nil, nil, err
	}

	report := &Report{Host: host.Name}
	acc := NewAccumulator(host)

	if !d.prober.Reachable(ctx, host.Address) {
		discoveryHostsTotal.WithLabelValues("unreachable").Inc()
		slog.Info("host unreachable, skipped",
			"host", host.Name,
			"address", host.Address,
			"code", apperrors.ErrCodeHostUnreachable,
		)
		return report, acc, nil
	}
	report.Reachable = true
	discoveryHostsTotal.WithLabelValues("reachable").Inc()

	var written []string
	for _, def := range defs {
		sr := d.runStep(ctx, host, def, acc)
		if sr.Artifact != "" {
			written = append(written, sr.Artifact)
		}
		report.Steps = append(report.Steps, sr)
	}

	if len(written) > 0 {
		if err := checksum.GenerateChecksums(ctx, d.store.HostDir(host.Name), written); err != nil {
			slog.Warn("failed to write artifact checksums", "host", host.Name, "error", err)
		}
	}

	report.Summary = acc.Summary
	report.Services = len(acc.Services)
	if acc.Summary.IsZero() && len(acc.Services) == 0 {
		slog.Info("no data extracted", "host", host.Name)
	}
	return report, acc, nil
}

func (d *Discoverer) runStep(ctx context.Context, host inventory.HostRecord, def catalog.ScanStep, acc *Accumulator) StepReport {
	sr := StepReport{Step: def.Kind, Status: StepOK}

	step, err := StepFor(def.Kind)
	if err != nil {
		return d.fail(host, sr, err)
	}

	start := time.Now()
	art, err := step.Execute(ctx, Env{Host: host, Def: def, Runner: d.runner})
	discoveryStepDuration.WithLabelValues(string(def.Kind)).Observe(time.Since(start).Seconds())
	if err != nil {
		if rerr := d.store.Remove(host.Name, def); rerr != nil {
			slog.Warn("failed to drop stale artifact", "host", host.Name, "step", def.Kind, "error", rerr)
		}
		return d.fail(host, sr, err)
	}

	if art != nil {
		path, err := d.store.Write(host.Name, def, art.Data)
		if err != nil {
			return d.fail(host, sr, err)
		}
		sr.Artifact = path
	}

	if err := step.Parse(art, acc); err != nil {
		if apperrors.HasCode(err, apperrors.ErrCodeParsePatternMismatch) {
			slog.Info("no data extracted", "host", host.Name, "step", def.Kind)
			sr.Status = StepEmpty
			discoveryStepsTotal.WithLabelValues(string(def.Kind), string(sr.Status)).Inc()
			return sr
		}
		return d.fail(host, sr, err)
	}

	slog.Debug("step completed", "host", host.Name, "step", def.Kind)
	discoveryStepsTotal.WithLabelValues(string(def.Kind), string(sr.Status)).Inc()
	return sr
}

func (d *Discoverer) fail(host inventory.HostRecord, sr StepReport, err error) StepReport {
	sr.Status = StepFailed
	sr.Error = err.Error()
	discoveryStepsTotal.WithLabelValues(string(sr.Step), string(sr.Status)).Inc()
	slog.Warn("discovery step failed",
		"host", host.Name,
		"step", sr.Step,
		"code", apperrors.CodeOf(err),
		"error", err,
	)
	return sr
}

// Replay rebuilds the accumulator of host from stored artifacts without
// contacting it. Missing artifacts and artifacts whose content no longer
// matches the host's checksums are skipped.
func (d *Discoverer) Replay(host inventory.HostRecord) (*Accumulator, error) {
	defs, err := d.registry.StepsFor(host.OS)
	if err != nil {
		return nil, err
	}

	modified := d.modifiedArtifacts(host.Name)
	acc := NewAccumulator(host)
	for _, def := range defs {
		step, err := StepFor(def.Kind)
		if err != nil {
			return nil, err
		}

		var art *Artifact
		if def.Location != catalog.LocationDerived {
			if modified[def.OutputName()] {
				slog.Warn("stored artifact does not match checksums, skipped", "host", host.Name, "step", def.Kind)
				continue
			}
			art, err = d.store.Read(host.Name, def)
			if err != nil {
				slog.Debug("artifact not available", "host", host.Name, "step", def.Kind, "error", err)
				continue
			}
		}

		if err := step.Parse(art, acc); err != nil {
			slog.Debug("stored artifact not usable", "host", host.Name, "step", def.Kind, "error", err)
		}
	}
	return acc, nil
}

// modifiedArtifacts returns the artifact names of host whose content differs
// from the recorded checksums. Hosts without checksums report none.
func (d *Discoverer) modifiedArtifacts(host string) map[string]bool {
	mismatched, err := checksum.Verify(d.store.HostDir(host))
	if err != nil {
		slog.Debug("artifact checksums not available", "host", host, "error", err)
		return nil
	}
	out := make(map[string]bool, len(mismatched))
	for _, rel := range mismatched {
		out[rel] = true
	}
	return out
}
