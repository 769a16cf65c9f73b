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
	"github.com/vsq/nix-homelab/pkg/catalog"
	"github.com/vsq/nix-homelab/pkg/inventory"
)

// Artifact is the raw output of one step, in the form it is persisted.
type Artifact struct {
	Step catalog.StepKind
	Kind catalog.ArtifactKind
	Data []byte
}

// CPUInfo is the processor part of a Summary.
type CPUInfo struct {
	Arch     string `json:"arch"`
	Model    string `json:"model"`
	Count    string `json:"count"`
	Bits     string `json:"bits"`
	BogoMIPS *int   `json:"bogomips"`
}

// Summary is the structured hardware digest of a host. Absent fields mean
// the corresponding pattern did not match.
type Summary struct {
	// MemoryGB is the installed RAM in decimal gigabytes.
	MemoryGB *int    `json:"memory"`
	Disk     string  `json:"disk"`
	Kernel   string  `json:"kernel"`
	CPU      CPUInfo `json:"cpu"`
}

// IsZero reports whether no field has been extracted.
func (s Summary) IsZero() bool {
	return s.MemoryGB == nil && s.Disk == "" && s.Kernel == "" &&
		s.CPU.Arch == "" && s.CPU.Model == "" && s.CPU.Count == "" &&
		s.CPU.Bits == "" && s.CPU.BogoMIPS == nil
}

// Merge fills the fields of s that are still empty from other.
func (s *Summary) Merge(other Summary) {
	if s.MemoryGB == nil && other.MemoryGB != nil {
		v := *other.MemoryGB
		s.MemoryGB = &v
	}
	if s.CPU.BogoMIPS == nil && other.CPU.BogoMIPS != nil {
		v := *other.CPU.BogoMIPS
		s.CPU.BogoMIPS = &v
	}
	s.Disk = firstNonEmpty(s.Disk, other.Disk)
	s.Kernel = firstNonEmpty(s.Kernel, other.Kernel)
	s.CPU.Arch = firstNonEmpty(s.CPU.Arch, other.CPU.Arch)
	s.CPU.Model = firstNonEmpty(s.CPU.Model, other.CPU.Model)
	s.CPU.Count = firstNonEmpty(s.CPU.Count, other.CPU.Count)
	s.CPU.Bits = firstNonEmpty(s.CPU.Bits, other.CPU.Bits)
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}

// ServiceEntry is one open port of a network scan, stripped of version
// and fingerprint details.
type ServiceEntry struct {
	Port      int    `json:"port"`
	Protocol  string `json:"protocol"`
	Service   string `json:"service,omitempty"`
	Product   string `json:"product,omitempty"`
	ExtraInfo string `json:"extrainfo,omitempty"`
}

// Accumulator carries the results of earlier steps forward within one
// host's discovery. It is owned by a single goroutine.
type Accumulator struct {
	Host inventory.HostRecord

	// Fragments holds partial summaries from text steps, in step order.
	Fragments []Summary
	// Summary is the merged digest, populated by the Config step.
	Summary Summary

	Services []ServiceEntry
	// Texts holds display text per step (hardware report, nix info).
	Texts map[catalog.StepKind]string
	// Assets maps steps with binary output to their file name in the host
	// artifact directory.
	Assets map[catalog.StepKind]string
	// Roles is filled by the Role step.
	Roles []string
}

// NewAccumulator returns an empty accumulator for host.
func NewAccumulator(host inventory.HostRecord) *Accumulator {
	return &Accumulator{
		Host:   host,
		Texts:  make(map[catalog.StepKind]string),
		Assets: make(map[catalog.StepKind]string),
	}
}

// StepStatus is the result of one step on one host.
type StepStatus string

// Step statuses.
const (
	StepOK      StepStatus = "ok"
	StepEmpty   StepStatus = "empty"
	StepFailed  StepStatus = "failed"
	StepMissing StepStatus = "missing"
)

// StepReport records what happened to one step.
type StepReport struct {
	Step     catalog.StepKind `json:"step" yaml:"step"`
	Status   StepStatus       `json:"status" yaml:"status"`
	Artifact string           `json:"artifact,omitempty" yaml:"artifact,omitempty"`
	Error    string           `json:"error,omitempty" yaml:"error,omitempty"`
}

// Report is the discovery outcome of one host.
type Report struct {
	Host      string       `json:"host" yaml:"host"`
	Reachable bool         `json:"reachable" yaml:"reachable"`
	Steps     []StepReport `json:"steps,omitempty" yaml:"steps,omitempty"`
	Summary   Summary      `json:"summary" yaml:"summary"`
	Services  int          `json:"services" yaml:"services"`
}

// Skipped reports whether the host was not probed because it was unreachable.
func (r *Report) Skipped() bool {
	return !r.Reachable
}

// Failed returns the steps that did not complete.
func (r *Report) Failed() []StepReport {
	var out []StepReport
	for _, s := range r.Steps {
		if s.Status == StepFailed {
			out = append(out, s)
		}
	}
	return out
}
