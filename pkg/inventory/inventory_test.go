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

package inventory

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsq/nix-homelab/pkg/catalog"
	"github.com/vsq/nix-homelab/pkg/errors"
)

const sampleInventory = `{
  // lab hosts
  "hosts": {
    "alpha": {"ipv4": "192.168.1.10", "os": "NixOS", "roles": ["web", "dns"]},
    "beta":  {"ipv4": "192.168.1.11", "os": "NixOS", "roles": ["db"], "user": "admin"},
    "gamma": {"ipv4": "192.168.1.12", "os": "TrueNAS", "roles": ["web"]},
  }
}`

func writeInventory(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	inv, err := Load(writeInventory(t, "homelab.json", sampleInventory), Options{})
	require.NoError(t, err)
	assert.Equal(t, 3, inv.Len())

	alpha, ok := inv.Get("alpha")
	require.True(t, ok)
	assert.Equal(t, "192.168.1.10", alpha.Address)
	assert.Equal(t, catalog.OSNixOS, alpha.OS)
	assert.Equal(t, "root", alpha.User)

	beta, _ := inv.Get("beta")
	assert.Equal(t, "admin", beta.User)

	assert.Equal(t, []catalog.OSTag{catalog.OSNixOS, catalog.OSTrueNAS}, inv.OSTags())
}

func TestLoadYAML(t *testing.T) {
	content := "hosts:\n  alpha:\n    ipv4: 10.0.0.1\n    os: Debian\n"
	inv, err := Load(writeInventory(t, "homelab.yaml", content), Options{})
	require.NoError(t, err)
	h, ok := inv.Get("alpha")
	require.True(t, ok)
	assert.Equal(t, catalog.OSDebian, h.OS)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		opts    Options
	}{
		{"malformed", `{"hosts": [}`, Options{}},
		{"missing address", `{"hosts": {"a": {"os": "NixOS"}}}`, Options{}},
		{"strict duplicate address", `{"hosts": {"a": {"ipv4": "1.1.1.1", "os": "NixOS"}, "b": {"ipv4": "1.1.1.1", "os": "NixOS"}}}`, Options{StrictAddresses: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeInventory(t, "homelab.json", tt.content), tt.opts)
			require.Error(t, err)
			assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidInventory))
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "absent.json"), Options{})
	assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidInventory))
}

func TestDuplicateAddressesTolerated(t *testing.T) {
	content := `{"hosts": {"a": {"ipv4": "1.1.1.1", "os": "NixOS"}, "b": {"ipv4": "1.1.1.1", "os": "Nix"}, "c": {"ipv4": "1.1.1.2", "os": "Nix"}}}`
	inv, err := Load(writeInventory(t, "homelab.json", content), Options{})
	require.NoError(t, err)
	assert.Equal(t, map[string][]string{"1.1.1.1": {"a", "b"}}, inv.DuplicateAddresses())
}

func TestResolve(t *testing.T) {
	inv, err := Load(writeInventory(t, "homelab.json", sampleInventory), Options{})
	require.NoError(t, err)

	names := func(hs []HostRecord) []string {
		out := make([]string, 0, len(hs))
		for _, h := range hs {
			out = append(out, h.Name)
		}
		return out
	}

	tests := []struct {
		selector string
		want     []string
	}{
		{"", []string{"alpha", "beta", "gamma"}},
		{"gamma,alpha", []string{"gamma", "alpha"}},
		{" beta , ,beta", []string{"beta"}},
		{"role=web", []string{"alpha", "gamma"}},
		{"role=mail", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.selector, func(t *testing.T) {
			sel, err := ParseSelector(tt.selector)
			require.NoError(t, err)
			hosts, err := inv.Resolve(sel)
			require.NoError(t, err)
			assert.Equal(t, tt.want, names(hosts))
		})
	}
}

func TestResolveUnknownHost(t *testing.T) {
	inv, err := New(HostRecord{Name: "alpha", Address: "10.0.0.1", OS: catalog.OSNixOS})
	require.NoError(t, err)

	sel, err := ParseSelector("alpha,ghost")
	require.NoError(t, err)
	_, err = inv.Resolve(sel)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeUnknownHost))
	assert.True(t, errors.IsFatal(err))
}

func TestSnapshotIsolation(t *testing.T) {
	roles := []string{"web"}
	inv, err := New(HostRecord{Name: "alpha", Address: "10.0.0.1", OS: catalog.OSNixOS, Roles: roles})
	require.NoError(t, err)

	roles[0] = "changed"
	h, _ := inv.Get("alpha")
	assert.Equal(t, []string{"web"}, h.Roles)

	h.Roles[0] = "mutated"
	again, _ := inv.Get("alpha")
	assert.Equal(t, []string{"web"}, again.Roles)
}

func TestNewRejectsDuplicateNames(t *testing.T) {
	_, err := New(
		HostRecord{Name: "alpha", Address: "10.0.0.1"},
		HostRecord{Name: "alpha", Address: "10.0.0.2"},
	)
	assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidInventory))
}

func TestSelectorString(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", "all"},
		{"  ", "all"},
		{"role=web", "role=web"},
		{"role= db ", "role=db"},
		{"a, b", "a,b"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			sel, err := ParseSelector(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, sel.String())
		})
	}
	assert.Equal(t, "db", ByRole("db").Role)
}

func TestParseSelectorRejectsEmptyForms(t *testing.T) {
	for _, input := range []string{"role=", "role=  ", ",", " , ", ",,,"} {
		t.Run(input, func(t *testing.T) {
			sel, err := ParseSelector(input)
			require.Error(t, err)
			assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidRequest))
			assert.True(t, sel.IsEmpty())
		})
	}
}
