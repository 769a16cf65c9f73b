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

package cli

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/vsq/nix-homelab/pkg/discovery"
	"github.com/vsq/nix-homelab/pkg/executor"
	"github.com/vsq/nix-homelab/pkg/header"
	"github.com/vsq/nix-homelab/pkg/inventory"
	"github.com/vsq/nix-homelab/pkg/serializer"
	"github.com/vsq/nix-homelab/pkg/version"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	okStyle     = cellStyle.Foreground(lipgloss.Color("10"))
	failStyle   = cellStyle.Foreground(lipgloss.Color("9"))
	mutedStyle  = cellStyle.Foreground(lipgloss.Color("8"))
)

// statusColumn is the column styled by row status.
const statusColumn = 1

func renderTable(headers []string, rows [][]string, status func(row int) lipgloss.Style) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == statusColumn && status != nil:
				return status(row)
			default:
				return cellStyle
			}
		})
	return t.String() + "\n"
}

// document is the envelope of JSON and YAML output.
type document struct {
	header.Header `yaml:",inline"`
	Data          any `json:"data" yaml:"data"`
}

// structured writes v as a document of kind, to --output when set. It
// reports false when the terminal table should be rendered instead.
func structured(ctx context.Context, env *environment, kind header.Kind, v any) (bool, error) {
	if env.format == serializer.FormatTable && env.output == "" {
		return false, nil
	}
	doc := document{
		Header: *header.New(header.WithKind(kind), header.WithMetadata("version", version.Get().Version)),
		Data:   v,
	}
	if env.output == "" {
		return true, serializer.NewWriter(env.format, env.out).Serialize(ctx, doc)
	}

	ser := serializer.NewFileWriterOrStdout(env.format, env.output)
	defer func() {
		if closer, ok := ser.(serializer.Closer); ok {
			if err := closer.Close(); err != nil {
				slog.Warn("failed to close serializer", "error", err)
			}
		}
	}()
	return true, ser.Serialize(ctx, doc)
}

func printRun(ctx context.Context, env *environment, run *executor.Run) error {
	if done, err := structured(ctx, env, header.KindDeploymentRun, run); done {
		return err
	}

	rows := make([][]string, 0, len(run.Outcomes))
	for _, o := range run.Outcomes {
		status := "ok"
		if !o.Succeeded {
			status = "failed"
		}
		detail := o.Error
		switch {
		case detail == "" && o.ResultPath != "":
			detail = o.ResultPath
		case detail == "" && o.DiscoveryError != "":
			detail = "discovery: " + o.DiscoveryError
		case detail == "" && o.Discovery != nil && o.Discovery.Skipped():
			detail = "discovery skipped: unreachable"
		}
		rows = append(rows, []string{
			o.Hostname, status, string(o.Stage), o.Duration.Round(time.Second).String(), firstLine(detail),
		})
	}

	out := renderTable([]string{"HOST", "STATUS", "STAGE", "DURATION", "DETAIL"}, rows, func(row int) lipgloss.Style {
		if run.Outcomes[row].Succeeded {
			return okStyle
		}
		return failStyle
	})
	_, err := fmt.Fprintf(env.out, "%s%s %s\n", out, run.Spec.Action, run.Summary())
	return err
}

func printReports(ctx context.Context, env *environment, reports []*discovery.Report) error {
	if done, err := structured(ctx, env, header.KindDiscoveryReport, reports); done {
		return err
	}

	rows := make([][]string, 0, len(reports))
	for _, r := range reports {
		status := "ok"
		switch {
		case r.Skipped():
			status = "unreachable"
		case len(r.Failed()) > 0:
			status = "partial"
		}
		var steps []string
		for _, s := range r.Steps {
			steps = append(steps, fmt.Sprintf("%s:%s", s.Step, s.Status))
		}
		rows = append(rows, []string{r.Host, status, fmt.Sprint(r.Services), strings.Join(steps, " ")})
	}

	out := renderTable([]string{"HOST", "STATUS", "SERVICES", "STEPS"}, rows, func(row int) lipgloss.Style {
		switch r := reports[row]; {
		case r.Skipped():
			return mutedStyle
		case len(r.Failed()) > 0:
			return failStyle
		default:
			return okStyle
		}
	})
	_, err := fmt.Fprint(env.out, out)
	return err
}

func printHosts(ctx context.Context, env *environment, hosts []inventory.HostRecord) error {
	if done, err := structured(ctx, env, header.KindHostList, hosts); done {
		return err
	}

	rows := make([][]string, 0, len(hosts))
	for _, h := range hosts {
		rows = append(rows, []string{h.Name, h.Address, string(h.OS), strings.Join(h.Roles, ","), h.User})
	}
	_, err := fmt.Fprint(env.out, renderTable([]string{"HOST", "ADDRESS", "OS", "ROLES", "USER"}, rows, nil))
	return err
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
