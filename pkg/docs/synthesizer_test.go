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

package docs

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsq/nix-homelab/pkg/catalog"
	"github.com/vsq/nix-homelab/pkg/discovery"
	"github.com/vsq/nix-homelab/pkg/inventory"
)

var alpha = inventory.HostRecord{
	Name:        "alpha",
	Address:     "192.168.1.10",
	OS:          catalog.OSNixOS,
	Roles:       []string{"web"},
	Description: "Edge router",
}

func intPtr(v int) *int { return &v }

func sampleAccumulator() *discovery.Accumulator {
	acc := discovery.NewAccumulator(alpha)
	acc.Roles = []string{"web"}
	acc.Services = []discovery.ServiceEntry{
		{Port: 22, Protocol: "tcp", Service: "ssh", Product: "OpenSSH", ExtraInfo: "protocol 2.0"},
	}
	acc.Summary = discovery.Summary{
		MemoryGB: intPtr(17),
		Disk:     "931.51 GiB",
		Kernel:   "6.1.55",
		CPU: discovery.CPUInfo{
			Arch:     "x86_64",
			Model:    "Intel Core i5-7500",
			Count:    "4",
			Bits:     "64",
			BogoMIPS: intPtr(6799),
		},
	}
	acc.Texts[catalog.StepHardwares] = "System: Host: alpha"
	acc.Assets[catalog.StepTopologie] = "topologie.svg"
	return acc
}

func defaultSteps(t *testing.T) []catalog.ScanStep {
	t.Helper()
	steps, err := catalog.Default().StepsFor(catalog.OSNixOS)
	require.NoError(t, err)
	return steps
}

func TestRenderHost(t *testing.T) {
	out := RenderHost(sampleAccumulator(), defaultSteps(t))

	assert.Contains(t, out, "\n### Role\n\n- `web`\n")
	assert.Contains(t, out, "| Port | Proto | Service | Product | Extra info |")
	assert.Contains(t, out, "|22|tcp|ssh|OpenSSH|protocol 2.0|")
	assert.Contains(t, out, "Arch     : x86_64\n")
	assert.Contains(t, out, "CPU      : 4 x Intel Core i5-7500\n")
	assert.Contains(t, out, "BogoMIPS : 6799\n")
	assert.Contains(t, out, "RAM      : 17 Go\n")
	assert.Contains(t, out, "DISK     : 931.51 GiB\n")
	assert.Contains(t, out, "KERNEL   : 6.1.55\n")
	assert.Contains(t, out, "![alpha topology](alpha/topologie.svg)")
	assert.NotContains(t, out, "### Nix", "no nix text was gathered")
	assert.NotContains(t, out, "### CPU")

	order := []string{"### Role", "### Scan", "### Hardwares", "### Config", "### Topologie"}
	last := -1
	for _, h := range order {
		idx := strings.Index(out, h)
		require.Greater(t, idx, last, h)
		last = idx
	}
}

func TestRenderHostEmpty(t *testing.T) {
	acc := discovery.NewAccumulator(alpha)
	assert.Empty(t, RenderHost(acc, defaultSteps(t)))
}

func TestMergeHostDocumentCreatesAndPreserves(t *testing.T) {
	dir := t.TempDir()
	s := New(dir)

	require.NoError(t, s.MergeHostDocument(alpha, "generated v1"))

	data, err := os.ReadFile(s.PagePath("alpha"))
	require.NoError(t, err)
	page := string(data)
	assert.True(t, strings.HasPrefix(page, "# alpha\n"))
	assert.Contains(t, page, "Edge router")
	assert.Contains(t, page, "<!-- BEGIN HOSTINFOS -->\ngenerated v1\n<!-- END HOSTINFOS -->")

	edited := strings.Replace(page, "# alpha\n", "# alpha\n\nRack 2, shelf 3.\n", 1) + "\nManual notes.\n"
	require.NoError(t, os.WriteFile(s.PagePath("alpha"), []byte(edited), 0o644))

	require.NoError(t, s.MergeHostDocument(alpha, "generated v2"))
	data, err = os.ReadFile(s.PagePath("alpha"))
	require.NoError(t, err)
	assert.Equal(t, strings.Replace(edited, "generated v1", "generated v2", 1), string(data))
}

func TestMergeHostDocumentIdempotent(t *testing.T) {
	s := New(t.TempDir())
	block := RenderHost(sampleAccumulator(), defaultSteps(t))

	require.NoError(t, s.MergeHostDocument(alpha, block))
	first, err := os.ReadFile(s.PagePath("alpha"))
	require.NoError(t, err)

	require.NoError(t, s.MergeHostDocument(alpha, block))
	second, err := os.ReadFile(s.PagePath("alpha"))
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestMergeHostDocumentUsesCustomTemplate(t *testing.T) {
	dir := t.TempDir()
	tpl := "---\ntitle: {{ .Name }}\n---\n<!-- BEGIN HOSTINFOS -->\n<!-- END HOSTINFOS -->\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "host.tpl"), []byte(tpl), 0o644))

	s := New(dir)
	require.NoError(t, s.MergeHostDocument(alpha, "x"))

	data, err := os.ReadFile(s.PagePath("alpha"))
	require.NoError(t, err)
	assert.Equal(t, "---\ntitle: alpha\n---\n<!-- BEGIN HOSTINFOS -->\nx\n<!-- END HOSTINFOS -->\n", string(data))
}

func TestUpdateHostWritesSummarySidecar(t *testing.T) {
	s := New(t.TempDir())
	acc := sampleAccumulator()
	require.NoError(t, s.UpdateHost(acc, defaultSteps(t)))

	data, err := os.ReadFile(s.SummaryPath("alpha"))
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, float64(17), got["memory"])
	assert.Equal(t, "931.51 GiB", got["disk"])
	assert.Equal(t, "6.1.55", got["kernel"])
	cpu := got["cpu"].(map[string]any)
	assert.Equal(t, "4", cpu["count"])
	assert.Equal(t, "x86_64", cpu["arch"])

	acc.Summary = discovery.Summary{}
	require.NoError(t, s.UpdateHost(acc, defaultSteps(t)))
	data, err = os.ReadFile(s.SummaryPath("alpha"))
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Nil(t, got["memory"], "sidecar is overwritten, not merged")
}

func TestUpdateIndex(t *testing.T) {
	dir := t.TempDir()
	s := New(dir)

	beta := inventory.HostRecord{Name: "beta", Address: "192.168.1.11", OS: catalog.OSTrueNAS}
	require.NoError(t, s.UpdateIndex([]IndexEntry{
		{Host: alpha, Summary: sampleAccumulator().Summary},
		{Host: beta},
	}))

	data, err := os.ReadFile(filepath.Join(dir, "README.md"))
	require.NoError(t, err)
	page := string(data)
	assert.True(t, strings.HasPrefix(page, "# Hosts\n"))
	assert.Contains(t, page, "| [alpha](alpha.md) | 192.168.1.10 | NixOS | web | 4 x Intel Core i5-7500 | 17 Go |")
	assert.Contains(t, page, "| [beta](beta.md) | 192.168.1.11 | TrueNAS |  |  |  |")
}

func TestRenderHTMLPage(t *testing.T) {
	s := New(t.TempDir())
	require.NoError(t, s.UpdateHost(sampleAccumulator(), defaultSteps(t)))

	path, err := s.RenderHTMLPage("alpha")
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	html := string(data)
	assert.Contains(t, html, "<table>")
	assert.Contains(t, html, "<h3>Config</h3>")
	assert.Contains(t, html, `<img src="alpha/topologie.svg"`)

	_, err = s.RenderHTMLPage("ghost")
	assert.Error(t, err)
}
