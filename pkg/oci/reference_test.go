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

package oci

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/vsq/nix-homelab/pkg/errors"
)

func TestParseOutputTarget(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantIsOCI bool
		wantReg   string
		wantRepo  string
		wantTag   string
		wantDir   string
		wantErr   bool
	}{
		{name: "local relative", input: "./archive", wantDir: "./archive"},
		{name: "local absolute", input: "/tmp/archive", wantDir: "/tmp/archive"},
		{name: "empty", input: "  ", wantErr: true},
		{
			name: "with tag", input: "oci://ghcr.io/vsq/homelab-docs:v1",
			wantIsOCI: true, wantReg: "ghcr.io", wantRepo: "vsq/homelab-docs", wantTag: "v1",
		},
		{
			name: "without tag", input: "oci://ghcr.io/vsq/homelab-docs",
			wantIsOCI: true, wantReg: "ghcr.io", wantRepo: "vsq/homelab-docs",
		},
		{
			name: "port", input: "oci://localhost:5000/docs:latest",
			wantIsOCI: true, wantReg: "localhost:5000", wantRepo: "docs", wantTag: "latest",
		},
		{name: "invalid", input: "oci://", wantErr: true},
		{name: "upper case", input: "oci://ghcr.io/VSQ/Docs:v1", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref, err := ParseOutputTarget(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeInvalidRequest))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantIsOCI, ref.IsOCI)
			assert.Equal(t, tt.wantReg, ref.Registry)
			assert.Equal(t, tt.wantRepo, ref.Repository)
			assert.Equal(t, tt.wantTag, ref.Tag)
			assert.Equal(t, tt.wantDir, ref.LocalPath)
		})
	}
}

func TestReferenceString(t *testing.T) {
	ref := &Reference{IsOCI: true, Registry: "ghcr.io", Repository: "vsq/docs"}
	assert.Equal(t, "oci://ghcr.io/vsq/docs", ref.String())
	assert.Equal(t, "ghcr.io/vsq/docs", ref.ImageReference())

	tagged := ref.WithTag("v2")
	assert.Equal(t, "oci://ghcr.io/vsq/docs:v2", tagged.String())
	assert.Empty(t, ref.Tag)

	local := &Reference{LocalPath: "out"}
	assert.Equal(t, "out", local.String())
	assert.Empty(t, local.ImageReference())
}

func TestValidateRegistryReference(t *testing.T) {
	assert.NoError(t, ValidateRegistryReference("https://ghcr.io", "vsq/docs"))
	assert.Error(t, ValidateRegistryReference("", "vsq/docs"))
	assert.Error(t, ValidateRegistryReference("ghcr.io", ""))
	assert.Error(t, ValidateRegistryReference("ghcr.io", "Bad Name"))
}

func TestStripProtocol(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"https://ghcr.io", "ghcr.io"},
		{"http://localhost:5000", "localhost:5000"},
		{"registry.example.com", "registry.example.com"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, stripProtocol(tt.input))
	}
}
