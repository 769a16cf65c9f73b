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
	"bytes"
	_ "embed"
	stderrors "errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/vsq/nix-homelab/pkg/catalog"
	"github.com/vsq/nix-homelab/pkg/defaults"
	"github.com/vsq/nix-homelab/pkg/discovery"
	apperrors "github.com/vsq/nix-homelab/pkg/errors"
	"github.com/vsq/nix-homelab/pkg/inventory"
	"github.com/vsq/nix-homelab/pkg/serializer"
)

//go:embed host.tpl
var defaultHostTemplate string

// Synthesizer maintains the host pages, their summary sidecars and the
// fleet index inside the hosts documentation directory.
type Synthesizer struct {
	dir string
}

// New returns a Synthesizer working in the hosts documentation directory.
func New(hostsDir string) *Synthesizer {
	return &Synthesizer{dir: hostsDir}
}

// PagePath returns the markdown page of host.
func (s *Synthesizer) PagePath(host string) string {
	return filepath.Join(s.dir, host+".md")
}

// SummaryPath returns the summary sidecar of host.
func (s *Synthesizer) SummaryPath(host string) string {
	return filepath.Join(s.dir, host, defaults.SummaryFile)
}

func (s *Synthesizer) newPage(host inventory.HostRecord) (string, error) {
	text := defaultHostTemplate
	custom := filepath.Join(s.dir, defaults.HostTemplateFile)
	if data, err := os.ReadFile(custom); err == nil {
		text = string(data)
	} else if !stderrors.Is(err, fs.ErrNotExist) {
		return "", apperrors.Wrap(apperrors.ErrCodeInternal, "failed to read host template", err)
	}

	tmpl, err := template.New(defaults.HostTemplateFile).Parse(text)
	if err != nil {
		return "", apperrors.Wrap(apperrors.ErrCodeInvalidRequest, "invalid host template", err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, host); err != nil {
		return "", apperrors.Wrap(apperrors.ErrCodeInvalidRequest, "failed to render host template", err)
	}
	return buf.String(), nil
}

// MergeHostDocument replaces the generated region of the host page with
// block. A missing page is first created from docs/hosts/host.tpl, or
// from the built-in template when there is none.
func (s *Synthesizer) MergeHostDocument(host inventory.HostRecord, block string) error {
	path := s.PagePath(host.Name)

	var content string
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		content = string(data)
	case stderrors.Is(err, fs.ErrNotExist):
		content, err = s.newPage(host)
		if err != nil {
			return err
		}
		slog.Info("created host page", "host", host.Name, "path", path)
	default:
		return apperrors.Wrap(apperrors.ErrCodeInternal, fmt.Sprintf("failed to read %s", path), err)
	}

	updated, err := ReplaceBlock(content, defaults.HostInfoMarker, block)
	if err != nil {
		return apperrors.WrapWithContext(apperrors.ErrCodeInvalidRequest, "cannot update host page", err,
			map[string]any{"path": path})
	}
	if updated == content {
		slog.Debug("host page unchanged", "host", host.Name)
		return nil
	}
	return serializer.WriteToFile(path, []byte(updated))
}

// WriteSummary overwrites the summary sidecar of host.
func (s *Synthesizer) WriteSummary(host string, summary discovery.Summary) error {
	data, err := serializer.Marshal(serializer.FormatJSON, summary)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInternal, "failed to encode summary", err)
	}
	return serializer.WriteToFile(s.SummaryPath(host), data)
}

// UpdateHost renders the accumulated results of a host into its page and
// rewrites its summary sidecar.
func (s *Synthesizer) UpdateHost(acc *discovery.Accumulator, steps []catalog.ScanStep) error {
	if err := s.MergeHostDocument(acc.Host, RenderHost(acc, steps)); err != nil {
		return err
	}
	return s.WriteSummary(acc.Host.Name, acc.Summary)
}

// IndexEntry is one row of the fleet index.
type IndexEntry struct {
	Host    inventory.HostRecord
	Summary discovery.Summary
}

// UpdateIndex rewrites the host list region of the fleet page.
func (s *Synthesizer) UpdateIndex(entries []IndexEntry) error {
	path := filepath.Join(s.dir, defaults.HostIndexFile)

	content := "# Hosts\n"
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		content = string(data)
	case !stderrors.Is(err, fs.ErrNotExist):
		return apperrors.Wrap(apperrors.ErrCodeInternal, fmt.Sprintf("failed to read %s", path), err)
	}

	var b strings.Builder
	b.WriteString("| Host | Address | OS | Roles | CPU | RAM |\n")
	b.WriteString("| ---- | ------- | -- | ----- | --- | --- |\n")
	for _, e := range entries {
		ram := ""
		if e.Summary.MemoryGB != nil {
			ram = fmt.Sprintf("%d Go", *e.Summary.MemoryGB)
		}
		cpu := e.Summary.CPU.Model
		if e.Summary.CPU.Count != "" && cpu != "" {
			cpu = e.Summary.CPU.Count + " x " + cpu
		}
		fmt.Fprintf(&b, "| [%s](%s.md) | %s | %s | %s | %s | %s |\n",
			e.Host.Name, e.Host.Name, e.Host.Address, e.Host.OS,
			strings.Join(e.Host.Roles, ", "), cell(cpu), ram)
	}

	updated, err := ReplaceBlock(content, defaults.HostListMarker, b.String())
	if err != nil {
		return err
	}
	return serializer.WriteToFile(path, []byte(updated))
}
