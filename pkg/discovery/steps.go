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
	"encoding/json"
	"fmt"
	"strings"

	"github.com/vsq/nix-homelab/pkg/catalog"
	apperrors "github.com/vsq/nix-homelab/pkg/errors"
	"github.com/vsq/nix-homelab/pkg/inventory"
	"github.com/vsq/nix-homelab/pkg/remote"
)

// Env is what a step needs to execute against one host.
type Env struct {
	Host   inventory.HostRecord
	Def    catalog.ScanStep
	Runner remote.Runner
}

func (e Env) target() remote.Target {
	return remote.Target{Name: e.Host.Name, Address: e.Host.Address, User: e.Host.User}
}

func (e Env) command() (string, error) {
	return e.Def.RenderCommand(catalog.CommandData{
		Hostname: e.Host.Name,
		Address:  e.Host.Address,
		User:     e.Host.User,
	})
}

// Step is the behavior of one step kind. Execute produces the raw artifact,
// or nil for derived steps; Parse folds an artifact into the accumulator.
type Step interface {
	Kind() catalog.StepKind
	Execute(ctx context.Context, env Env) (*Artifact, error)
	Parse(art *Artifact, acc *Accumulator) error
}

var steps = map[catalog.StepKind]Step{
	catalog.StepRole:      roleStep{},
	catalog.StepScan:      scanStep{},
	catalog.StepCPU:       textStep{kind: catalog.StepCPU, parse: ParseCPU},
	catalog.StepHardwares: textStep{kind: catalog.StepHardwares, parse: ParseHardware, display: SanitizeHardware},
	catalog.StepConfig:    configStep{},
	catalog.StepTopologie: topologyStep{},
	catalog.StepNix:       textStep{kind: catalog.StepNix, display: strings.TrimSpace},
}

// StepFor returns the implementation of kind.
func StepFor(kind catalog.StepKind) (Step, error) {
	s, ok := steps[kind]
	if !ok {
		return nil, apperrors.New(apperrors.ErrCodeInternal, fmt.Sprintf("no implementation for step %s", kind))
	}
	return s, nil
}

// runRemote executes the step command on the host and requires output.
func runRemote(ctx context.Context, env Env) ([]byte, error) {
	cmd, err := env.command()
	if err != nil {
		return nil, err
	}
	res, err := env.Runner.Run(ctx, env.target(), cmd)
	if err != nil {
		return nil, err
	}
	if len(strings.TrimSpace(string(res.Stdout))) == 0 {
		return nil, apperrors.NewWithContext(apperrors.ErrCodeArtifactMissing,
			fmt.Sprintf("%s produced no output on %s", env.Def.Kind, env.Host.Name),
			map[string]any{"command": cmd})
	}
	return res.Stdout, nil
}

type roleStep struct{}

func (roleStep) Kind() catalog.StepKind { return catalog.StepRole }

func (roleStep) Execute(context.Context, Env) (*Artifact, error) { return nil, nil }

func (roleStep) Parse(_ *Artifact, acc *Accumulator) error {
	acc.Roles = append([]string(nil), acc.Host.Roles...)
	return nil
}

// scanStep runs nmap from the orchestrator. Only the redacted service list
// is returned, so the raw XML is never persisted.
type scanStep struct{}

func (scanStep) Kind() catalog.StepKind { return catalog.StepScan }

func (scanStep) Execute(ctx context.Context, env Env) (*Artifact, error) {
	cmd, err := env.command()
	if err != nil {
		return nil, err
	}
	res, err := env.Runner.RunLocal(ctx, cmd)
	if err != nil {
		return nil, err
	}
	services, err := ParseNmapXML(res.Stdout)
	if err != nil {
		return nil, err
	}
	data, err := json.MarshalIndent(services, "", "    ")
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, "failed to encode services", err)
	}
	return &Artifact{Step: catalog.StepScan, Kind: catalog.ArtifactJSON, Data: data}, nil
}

func (scanStep) Parse(art *Artifact, acc *Accumulator) error {
	if art == nil {
		return nil
	}
	var services []ServiceEntry
	if err := json.Unmarshal(art.Data, &services); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeMalformedArtifact, "invalid stored scan", err)
	}
	acc.Services = services
	if len(services) == 0 {
		return apperrors.New(apperrors.ErrCodeParsePatternMismatch, "no open port reported")
	}
	return nil
}

// textStep covers steps whose artifact is a command's text output.
type textStep struct {
	kind    catalog.StepKind
	parse   func(string) Summary
	display func(string) string
}

func (s textStep) Kind() catalog.StepKind { return s.kind }

func (s textStep) Execute(ctx context.Context, env Env) (*Artifact, error) {
	out, err := runRemote(ctx, env)
	if err != nil {
		return nil, err
	}
	return &Artifact{Step: s.kind, Kind: catalog.ArtifactText, Data: out}, nil
}

func (s textStep) Parse(art *Artifact, acc *Accumulator) error {
	if art == nil {
		return nil
	}
	text := string(art.Data)
	if s.display != nil {
		acc.Texts[s.kind] = s.display(text)
	}
	if s.parse == nil {
		return nil
	}
	frag := s.parse(text)
	if frag.IsZero() {
		return apperrors.New(apperrors.ErrCodeParsePatternMismatch,
			fmt.Sprintf("no data extracted from %s output", s.kind))
	}
	acc.Fragments = append(acc.Fragments, frag)
	return nil
}

// configStep derives the summary from the fragments gathered so far.
// Placed before the steps it depends on, it derives nothing.
type configStep struct{}

func (configStep) Kind() catalog.StepKind { return catalog.StepConfig }

func (configStep) Execute(context.Context, Env) (*Artifact, error) { return nil, nil }

func (configStep) Parse(_ *Artifact, acc *Accumulator) error {
	for _, f := range acc.Fragments {
		acc.Summary.Merge(f)
	}
	return nil
}

type topologyStep struct{}

func (topologyStep) Kind() catalog.StepKind { return catalog.StepTopologie }

func (topologyStep) Execute(ctx context.Context, env Env) (*Artifact, error) {
	out, err := runRemote(ctx, env)
	if err != nil {
		return nil, err
	}
	if !strings.Contains(string(out), "<svg") {
		return nil, apperrors.New(apperrors.ErrCodeMalformedArtifact, "topology output is not svg")
	}
	return &Artifact{Step: catalog.StepTopologie, Kind: catalog.ArtifactSVG, Data: out}, nil
}

func (topologyStep) Parse(art *Artifact, acc *Accumulator) error {
	if art == nil {
		return nil
	}
	acc.Assets[catalog.StepTopologie] = strings.ToLower(string(catalog.StepTopologie)) + ".svg"
	return nil
}
