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
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vsq/nix-homelab/pkg/discovery"
)

// Stage is the last pipeline stage a host reached.
type Stage string

// Stages.
const (
	StageSync     Stage = "sync"
	StagePrepare  Stage = "prepare"
	StageActivate Stage = "activate"
	StageDone     Stage = "done"
	StageInternal Stage = "internal"
)

// Outcome is the final status of one host.
type Outcome struct {
	Hostname       string            `json:"hostname" yaml:"hostname"`
	Succeeded      bool              `json:"succeeded" yaml:"succeeded"`
	Stage          Stage             `json:"stage" yaml:"stage"`
	Error          string            `json:"error,omitempty" yaml:"error,omitempty"`
	Duration       time.Duration     `json:"duration" yaml:"duration"`
	ResultPath     string            `json:"resultPath,omitempty" yaml:"resultPath,omitempty"`
	Discovery      *discovery.Report `json:"discovery,omitempty" yaml:"discovery,omitempty"`
	DiscoveryError string            `json:"discoveryError,omitempty" yaml:"discoveryError,omitempty"`
}

// Run is the result of one invocation across all selected hosts.
type Run struct {
	ID       string        `json:"id" yaml:"id"`
	Spec     ActionSpec    `json:"spec" yaml:"spec"`
	Started  time.Time     `json:"started" yaml:"started"`
	Duration time.Duration `json:"duration" yaml:"duration"`
	Outcomes []Outcome     `json:"outcomes" yaml:"outcomes"`
}

func newRun(spec ActionSpec, n int) *Run {
	return &Run{
		ID:       uuid.New().String(),
		Spec:     spec,
		Started:  time.Now(),
		Outcomes: make([]Outcome, n),
	}
}

func (r *Run) finish() {
	r.Duration = time.Since(r.Started)
}

// Failed returns the outcomes of hosts that did not succeed.
func (r *Run) Failed() []Outcome {
	var out []Outcome
	for _, o := range r.Outcomes {
		if !o.Succeeded {
			out = append(out, o)
		}
	}
	return out
}

// Summary returns a one line account of the run.
func (r *Run) Summary() string {
	failed := len(r.Failed())
	return fmt.Sprintf("%d host(s): %d succeeded, %d failed", len(r.Outcomes), len(r.Outcomes)-failed, failed)
}
