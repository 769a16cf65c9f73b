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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsq/nix-homelab/pkg/errors"
)

func TestDefaultStepsFor(t *testing.T) {
	reg := Default()

	tests := []struct {
		os   OSTag
		want []StepKind
	}{
		{OSNixOS, []StepKind{StepRole, StepScan, StepCPU, StepHardwares, StepConfig, StepTopologie, StepNix}},
		{OSNix, []StepKind{StepScan, StepCPU, StepHardwares, StepConfig, StepTopologie, StepNix}},
		{OSTrueNAS, []StepKind{StepScan}},
		{OSMikroTik, []StepKind{StepScan}},
		{OSNixDarwin, []StepKind{StepScan}},
	}

	for _, tt := range tests {
		t.Run(string(tt.os), func(t *testing.T) {
			steps, err := reg.StepsFor(tt.os)
			require.NoError(t, err)
			got := make([]StepKind, 0, len(steps))
			for _, s := range steps {
				got = append(got, s.Kind)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStepsForUnsupportedOS(t *testing.T) {
	_, err := Default().StepsFor("Plan9")
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeUnsupportedOS))
	assert.False(t, Default().Supports("Plan9"))
}

func TestRegistryIsImmutable(t *testing.T) {
	profiles := map[OSTag][]StepKind{"Custom": {StepScan}}
	reg, err := NewRegistry(DefaultSteps(), profiles)
	require.NoError(t, err)

	profiles["Custom"][0] = StepNix
	profiles["Other"] = []StepKind{StepScan}

	steps, err := reg.StepsFor("Custom")
	require.NoError(t, err)
	assert.Equal(t, StepScan, steps[0].Kind)
	assert.False(t, reg.Supports("Other"))

	steps[0].Kind = StepCPU
	again, _ := reg.StepsFor("Custom")
	assert.Equal(t, StepScan, again[0].Kind)
}

func TestNewRegistryValidation(t *testing.T) {
	tests := []struct {
		name     string
		steps    []ScanStep
		profiles map[OSTag][]StepKind
	}{
		{
			name:     "undefined step",
			steps:    []ScanStep{{Kind: StepScan}},
			profiles: map[OSTag][]StepKind{"X": {StepCPU}},
		},
		{
			name:     "duplicate definition",
			steps:    []ScanStep{{Kind: StepScan}, {Kind: StepScan}},
			profiles: nil,
		},
		{
			name:     "duplicate profile entry",
			steps:    []ScanStep{{Kind: StepScan}},
			profiles: map[OSTag][]StepKind{"X": {StepScan, StepScan}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRegistry(tt.steps, tt.profiles)
			assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidRequest))
		})
	}
}

func TestScanStepOutputName(t *testing.T) {
	reg := Default()

	tests := []struct {
		kind StepKind
		want string
	}{
		{StepScan, "scan.json"},
		{StepCPU, "cpu.txt"},
		{StepHardwares, "hardwares.txt"},
		{StepTopologie, "topologie.svg"},
		{StepNix, "nix.txt"},
		{StepConfig, ""},
		{StepRole, ""},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			s, ok := reg.Step(tt.kind)
			require.True(t, ok)
			assert.Equal(t, tt.want, s.OutputName())
		})
	}
}

func TestRenderCommand(t *testing.T) {
	s, _ := Default().Step(StepScan)
	cmd, err := s.RenderCommand(CommandData{Hostname: "alpha", Address: "192.168.1.10"})
	require.NoError(t, err)
	assert.Contains(t, cmd, "-sV 192.168.1.10 -oX -")

	cpu, _ := Default().Step(StepCPU)
	cmd, err = cpu.RenderCommand(CommandData{})
	require.NoError(t, err)
	assert.Equal(t, "source /etc/bashrc ; LC_ALL=C lscpu", cmd)

	derived, _ := Default().Step(StepConfig)
	cmd, err = derived.RenderCommand(CommandData{})
	require.NoError(t, err)
	assert.Empty(t, cmd)
}

func TestValidate(t *testing.T) {
	reg := Default()
	assert.NoError(t, reg.Validate(OSNixOS, OSDebian))
	assert.True(t, errors.HasCode(reg.Validate(OSNixOS, "BeOS"), errors.ErrCodeUnsupportedOS))
}
