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
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"

	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"github.com/vsq/nix-homelab/pkg/defaults"
	"github.com/vsq/nix-homelab/pkg/discovery"
	apperrors "github.com/vsq/nix-homelab/pkg/errors"
	"github.com/vsq/nix-homelab/pkg/inventory"
	"github.com/vsq/nix-homelab/pkg/oci"
	"github.com/vsq/nix-homelab/pkg/version"
)

func docsCmd() *cli.Command {
	return &cli.Command{
		Name:  "docs",
		Usage: "Discover hosts and maintain docs/hosts",
		Commands: []*cli.Command{
			{
				Name:      "scan",
				Usage:     "Run discovery on hosts and update their pages",
				ArgsUsage: "[host,... | role=<tag>]",
				Flags:     []cli.Flag{hostsFlag()},
				Action:    scanAction,
			},
			{
				Name:      "hosts",
				Usage:     "Regenerate host pages from stored artifacts",
				ArgsUsage: "[host,... | role=<tag>]",
				Flags:     []cli.Flag{hostsFlag()},
				Action:    hostsDocsAction,
			},
			{
				Name:   "index",
				Usage:  "Regenerate the fleet page",
				Action: indexAction,
			},
			{
				Name:  "all",
				Usage: "Scan every host, then regenerate all pages and the fleet page",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					if err := scanAction(ctx, cmd); err != nil {
						return err
					}
					return hostsDocsAction(ctx, cmd)
				},
			},
			{
				Name:      "render",
				Usage:     "Render host pages as HTML previews",
				ArgsUsage: "[host,... | role=<tag>]",
				Flags: []cli.Flag{
					hostsFlag(),
					&cli.BoolFlag{Name: "html", Usage: "Write <host>.html next to each page", Value: true},
				},
				Action: renderAction,
			},
			{
				Name:      "publish",
				Usage:     "Publish docs/hosts as an OCI artifact",
				ArgsUsage: "<oci://registry/repository[:tag] | directory>",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "plain-http", Usage: "Use HTTP instead of HTTPS for the registry"},
					&cli.BoolFlag{Name: "insecure-tls", Usage: "Skip TLS certificate verification"},
					&cli.StringFlag{Name: "timestamp", Usage: "Fixed creation timestamp (RFC 3339) for reproducible archives"},
				},
				Action: publishAction,
			},
		},
	}
}

// scanAction runs discovery on the selected hosts, one goroutine per host.
func scanAction(ctx context.Context, cmd *cli.Command) error {
	env, err := loadEnvironment(cmd)
	if err != nil {
		return err
	}
	hosts, err := env.selected(cmd)
	if err != nil {
		return err
	}
	if err := env.connect(cmd); err != nil {
		return err
	}
	defer func() { _ = env.Close() }()

	reports := make([]*discovery.Report, len(hosts))
	var g errgroup.Group
	if env.parallel > 0 {
		g.SetLimit(env.parallel)
	}
	for i, host := range hosts {
		g.Go(func() error {
			reports[i] = scanHost(ctx, env, host)
			return nil
		})
	}
	_ = g.Wait()

	if err := env.index(); err != nil {
		return err
	}
	return printReports(ctx, env, reports)
}

// scanHost never fails: errors and panics become a report with a failed
// pseudo step so the remaining hosts are unaffected.
func scanHost(ctx context.Context, env *environment, host inventory.HostRecord) (report *discovery.Report) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("discovery panicked", "host", host.Name, "panic", r, "stack", string(debug.Stack()))
			report = failedReport(host, fmt.Errorf("panic: %v", r))
		}
	}()

	report, err := env.document(ctx, host)
	if err != nil {
		slog.Error("discovery failed", "host", host.Name, "error", err)
		if report == nil {
			return failedReport(host, err)
		}
		report.Steps = append(report.Steps, discovery.StepReport{Step: "document", Status: discovery.StepFailed, Error: err.Error()})
	}
	return report
}

func failedReport(host inventory.HostRecord, err error) *discovery.Report {
	return &discovery.Report{
		Host:      host.Name,
		Reachable: true,
		Steps:     []discovery.StepReport{{Step: "discover", Status: discovery.StepFailed, Error: err.Error()}},
	}
}

func hostsDocsAction(ctx context.Context, cmd *cli.Command) error {
	env, err := loadEnvironment(cmd)
	if err != nil {
		return err
	}
	hosts, err := env.selected(cmd)
	if err != nil {
		return err
	}
	for _, h := range hosts {
		if _, err := env.regenerate(h); err != nil {
			return err
		}
		slog.Info("page regenerated", "host", h.Name, "path", env.synth.PagePath(h.Name))
	}
	return env.index()
}

func indexAction(_ context.Context, cmd *cli.Command) error {
	env, err := loadEnvironment(cmd)
	if err != nil {
		return err
	}
	return env.index()
}

func renderAction(_ context.Context, cmd *cli.Command) error {
	if !cmd.Bool("html") {
		return nil
	}
	env, err := loadEnvironment(cmd)
	if err != nil {
		return err
	}
	hosts, err := env.selected(cmd)
	if err != nil {
		return err
	}
	for _, h := range hosts {
		path, err := env.synth.RenderHTMLPage(h.Name)
		if err != nil {
			if apperrors.HasCode(err, apperrors.ErrCodeArtifactMissing) {
				slog.Warn("no page to render", "host", h.Name)
				continue
			}
			return err
		}
		fmt.Fprintln(env.out, path)
	}
	return nil
}

func publishAction(ctx context.Context, cmd *cli.Command) error {
	target := cmd.Args().First()
	if target == "" {
		return apperrors.New(apperrors.ErrCodeInvalidRequest, "publish target is required")
	}
	ref, err := oci.ParseOutputTarget(target)
	if err != nil {
		return err
	}

	src := filepath.Join(cmd.Root().String(flagDocsDir), defaults.HostsDocsSubdir)
	if _, err := os.Stat(src); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeArtifactMissing, "nothing to publish in "+src, err)
	}

	res, err := oci.Publish(ctx, oci.PublishOptions{
		SourceDir:             src,
		Target:                ref,
		Version:               version.Get().Tag(),
		PlainHTTP:             cmd.Bool("plain-http"),
		InsecureTLS:           cmd.Bool("insecure-tls"),
		ReproducibleTimestamp: strings.TrimSpace(cmd.String("timestamp")),
	})
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(cmd.Root().Writer, "%s@%s\n", res.Reference, res.Digest)
	return err
}
