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

package catalog

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"text/template"

	"github.com/vsq/nix-homelab/pkg/errors"
)

// OSTag classifies a host for scan-profile lookup.
type OSTag string

// StepKind names a discovery step. The name doubles as the section heading
// in host documents and, lowercased, as the artifact file stem.
type StepKind string

// Step kinds.
const (
	StepRole      StepKind = "Role"
	StepScan      StepKind = "Scan"
	StepCPU       StepKind = "CPU"
	StepHardwares StepKind = "Hardwares"
	StepConfig    StepKind = "Config"
	StepTopologie StepKind = "Topologie"
	StepNix       StepKind = "Nix"
)

// ArtifactKind describes the persisted form of a step's raw output.
type ArtifactKind string

// Artifact kinds.
const (
	ArtifactNone ArtifactKind = "none"
	ArtifactText ArtifactKind = "text"
	ArtifactJSON ArtifactKind = "json"
	ArtifactSVG  ArtifactKind = "svg"
)

// Location tells where a step's command runs.
type Location string

// Step locations.
const (
	// LocationRemote runs the command on the target host.
	LocationRemote Location = "remote"
	// LocationLocal runs the command on the orchestrator, aimed at the host.
	LocationLocal Location = "local"
	// LocationDerived runs nothing; the step works on earlier results.
	LocationDerived Location = "derived"
)

// ScanStep is the static definition of one discovery step.
type ScanStep struct {
	Kind     StepKind
	Artifact ArtifactKind
	Location Location
	// Command is a text/template rendered with CommandData.
	Command string
}

// CommandData is the template input of ScanStep.Command.
type CommandData struct {
	Hostname string
	Address  string
	User     string
}

// Extension returns the artifact file extension, or "" for steps that
// persist nothing.
func (s ScanStep) Extension() string {
	switch s.Artifact {
	case ArtifactText:
		return "txt"
	case ArtifactJSON:
		return "json"
	case ArtifactSVG:
		return "svg"
	default:
		return ""
	}
}

// OutputName returns the artifact file name, e.g. "hardwares.txt".
func (s ScanStep) OutputName() string {
	ext := s.Extension()
	if ext == "" {
		return ""
	}
	return strings.ToLower(string(s.Kind)) + "." + ext
}

// RenderCommand expands the command template for a host.
func (s ScanStep) RenderCommand(data CommandData) (string, error) {
	if s.Command == "" {
		return "", nil
	}
	tmpl, err := template.New(string(s.Kind)).Option("missingkey=error").Parse(s.Command)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, fmt.Sprintf("invalid command template for %s", s.Kind), err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, fmt.Sprintf("failed to render command for %s", s.Kind), err)
	}
	return buf.String(), nil
}

// Registry maps OS tags to ordered step lists. It is built once and never
// mutated, so it can be shared by concurrent discovery workers without locking.
type Registry struct {
	steps    map[StepKind]ScanStep
	profiles map[OSTag][]StepKind
}

// NewRegistry validates and copies the given step definitions and profiles.
// Every profile entry must reference a defined step.
func NewRegistry(steps []ScanStep, profiles map[OSTag][]StepKind) (*Registry, error) {
	r := &Registry{
		steps:    make(map[StepKind]ScanStep, len(steps)),
		profiles: make(map[OSTag][]StepKind, len(profiles)),
	}

	for _, s := range steps {
		if _, exists := r.steps[s.Kind]; exists {
			return nil, errors.New(errors.ErrCodeInvalidRequest, fmt.Sprintf("step %s defined twice", s.Kind))
		}
		r.steps[s.Kind] = s
	}

	for os, kinds := range profiles {
		seen := make(map[StepKind]bool, len(kinds))
		for _, k := range kinds {
			if _, ok := r.steps[k]; !ok {
				return nil, errors.NewWithContext(errors.ErrCodeInvalidRequest,
					fmt.Sprintf("profile %s references undefined step %s", os, k),
					map[string]any{"os": string(os), "step": string(k)})
			}
			if seen[k] {
				return nil, errors.New(errors.ErrCodeInvalidRequest, fmt.Sprintf("profile %s lists step %s twice", os, k))
			}
			seen[k] = true
		}
		r.profiles[os] = append([]StepKind(nil), kinds...)
	}

	return r, nil
}

// MustNewRegistry is NewRegistry that panics on invalid input.
func MustNewRegistry(steps []ScanStep, profiles map[OSTag][]StepKind) *Registry {
	r, err := NewRegistry(steps, profiles)
	if err != nil {
		panic(err)
	}
	return r
}

// StepsFor returns the ordered steps for os. The slice is a copy.
func (r *Registry) StepsFor(os OSTag) ([]ScanStep, error) {
	if !r.Supports(os) {
		return nil, errors.NewWithContext(errors.ErrCodeUnsupportedOS,
			fmt.Sprintf("no scan profile for OS %q", os),
			map[string]any{"os": string(os)})
	}
	kinds := r.profiles[os]
	out := make([]ScanStep, 0, len(kinds))
	for _, k := range kinds {
		if s, ok := r.Step(k); ok {
			out = append(out, s)
		}
	}
	return out, nil
}

// Supports reports whether os has a scan profile.
func (r *Registry) Supports(os OSTag) bool {
	_, ok := r.profiles[os]
	return ok
}

// Step returns the definition of kind.
func (r *Registry) Step(kind StepKind) (ScanStep, bool) {
	s, ok := r.steps[kind]
	return s, ok
}

// OSTags returns every OS with a profile, sorted.
func (r *Registry) OSTags() []OSTag {
	tags := make([]OSTag, 0, len(r.profiles))
	for t := range r.profiles {
		tags = append(tags, t)
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i] < tags[j] })
	return tags
}

// Validate returns UNSUPPORTED_OS for the first tag without a profile.
func (r *Registry) Validate(tags ...OSTag) error {
	for _, t := range tags {
		if _, err := r.StepsFor(t); err != nil {
			return err
		}
	}
	return nil
}
