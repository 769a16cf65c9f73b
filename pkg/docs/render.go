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
	"fmt"
	"strings"

	"github.com/vsq/nix-homelab/pkg/catalog"
	"github.com/vsq/nix-homelab/pkg/discovery"
)

type sectionRenderer func(acc *discovery.Accumulator) string

var renderers = map[catalog.StepKind]sectionRenderer{
	catalog.StepRole:      renderRoles,
	catalog.StepScan:      renderScan,
	catalog.StepConfig:    renderConfig,
	catalog.StepHardwares: textBlock(catalog.StepHardwares),
	catalog.StepTopologie: renderTopology,
	catalog.StepNix:       textBlock(catalog.StepNix),
}

// RenderHost builds the generated part of a host page: one section per
// step, in step order, skipping steps that contribute nothing.
func RenderHost(acc *discovery.Accumulator, steps []catalog.ScanStep) string {
	var b strings.Builder
	for _, s := range steps {
		render, ok := renderers[s.Kind]
		if !ok {
			continue
		}
		body := strings.TrimSpace(render(acc))
		if body == "" {
			continue
		}
		fmt.Fprintf(&b, "\n### %s\n\n%s\n", s.Kind, body)
	}
	return b.String()
}

func renderRoles(acc *discovery.Accumulator) string {
	var b strings.Builder
	for _, r := range acc.Roles {
		fmt.Fprintf(&b, "- `%s`\n", r)
	}
	return b.String()
}

func renderScan(acc *discovery.Accumulator) string {
	if len(acc.Services) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("| Port | Proto | Service | Product | Extra info |\n")
	b.WriteString("| ------ | ------ | ------ |------ |------ |\n")
	for _, s := range acc.Services {
		fmt.Fprintf(&b, "|%d|%s|%s|%s|%s|\n", s.Port, s.Protocol, cell(s.Service), cell(s.Product), cell(s.ExtraInfo))
	}
	return b.String()
}

func cell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

func renderConfig(acc *discovery.Accumulator) string {
	s := acc.Summary
	if s.IsZero() {
		return ""
	}

	var lines []string
	add := func(label, value string) {
		if value != "" {
			lines = append(lines, fmt.Sprintf("%-9s: %s", label, value))
		}
	}

	add("Arch", s.CPU.Arch)
	switch {
	case s.CPU.Count != "" && s.CPU.Model != "":
		add("CPU", s.CPU.Count+" x "+s.CPU.Model)
	default:
		add("CPU", s.CPU.Count+s.CPU.Model)
	}
	if s.CPU.BogoMIPS != nil {
		add("BogoMIPS", fmt.Sprint(*s.CPU.BogoMIPS))
	}
	if s.MemoryGB != nil {
		add("RAM", fmt.Sprintf("%d Go", *s.MemoryGB))
	}
	add("DISK", s.Disk)
	add("KERNEL", s.Kernel)

	return "```text\n" + strings.Join(lines, "\n") + "\n```"
}

func textBlock(kind catalog.StepKind) sectionRenderer {
	return func(acc *discovery.Accumulator) string {
		text := strings.TrimRight(acc.Texts[kind], "\n")
		if strings.TrimSpace(text) == "" {
			return ""
		}
		return "```text\n" + text + "\n```"
	}
}

func renderTopology(acc *discovery.Accumulator) string {
	name, ok := acc.Assets[catalog.StepTopologie]
	if !ok {
		return ""
	}
	return fmt.Sprintf("![%s topology](%s/%s)", acc.Host.Name, acc.Host.Name, name)
}
