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

	"github.com/urfave/cli/v3"

	apperrors "github.com/vsq/nix-homelab/pkg/errors"
	"github.com/vsq/nix-homelab/pkg/executor"
	"github.com/vsq/nix-homelab/pkg/inventory"
)

func nixosCmd() *cli.Command {
	actions := []struct {
		name  string
		usage string
	}{
		{"build", "Build the configuration without activating it"},
		{"test", "Activate the configuration without adding a boot entry"},
		{"deploy", "Activate the configuration and make it the boot default"},
		{"boot", "Make the configuration the boot default without activating it"},
	}

	cmd := &cli.Command{
		Name:  "nixos",
		Usage: "Rebuild NixOS hosts",
		Description: `Mirror the configuration tree and run nixos-rebuild on every selected host.
With no host selection the machine running homelab is rebuilt.

  homelab nixos deploy --hosts alpha,beta --discovery=false
  homelab nixos test role=server
  homelab nixos build`,
	}
	for _, a := range actions {
		cmd.Commands = append(cmd.Commands, &cli.Command{
			Name:      a.name,
			Usage:     a.usage,
			ArgsUsage: "[host,... | role=<tag>]",
			Flags:     append([]cli.Flag{hostsFlag(), discoveryFlag()}, toggleFlags()...),
			Action: func(ctx context.Context, cmd *cli.Command) error {
				action, err := executor.ParseAction(a.name)
				if err != nil {
					return err
				}
				sel, err := selection(cmd)
				if err != nil {
					return err
				}
				return deploy(ctx, cmd, executor.ToolNixOS, action, sel)
			},
		})
	}
	return cmd
}

func homeCmd() *cli.Command {
	flags := func() []cli.Flag {
		return append([]cli.Flag{
			hostsFlag(),
			&cli.StringFlag{
				Name:  flagUsername,
				Usage: "home-manager user (default: the login user of each host)",
			},
		}, toggleFlags()...)
	}

	return &cli.Command{
		Name:  "home",
		Usage: "Apply home-manager configurations",
		Commands: []*cli.Command{
			{
				Name:      "build",
				Usage:     "Build the home configuration",
				ArgsUsage: "[host,... | role=<tag>]",
				Flags:     flags(),
				Action: func(ctx context.Context, cmd *cli.Command) error {
					sel, err := selection(cmd)
					if err != nil {
						return err
					}
					return deploy(ctx, cmd, executor.ToolHomeManager, executor.ActionBuild, sel)
				},
			},
			{
				Name:      "deploy",
				Usage:     "Build and activate the home configuration",
				ArgsUsage: "[host,... | role=<tag>]",
				Flags:     flags(),
				Action: func(ctx context.Context, cmd *cli.Command) error {
					sel, err := selection(cmd)
					if err != nil {
						return err
					}
					return deploy(ctx, cmd, executor.ToolHomeManager, executor.ActionSwitch, sel)
				},
			},
		},
	}
}

func roleCmd() *cli.Command {
	cmd := &cli.Command{
		Name:  "role",
		Usage: "Rebuild every NixOS host carrying a role",
	}
	for _, name := range []string{"build", "test", "deploy"} {
		cmd.Commands = append(cmd.Commands, &cli.Command{
			Name:      name,
			Usage:     fmt.Sprintf("Run nixos-rebuild %s on the hosts of a role", name),
			ArgsUsage: "<role>",
			Flags:     append([]cli.Flag{discoveryFlag()}, toggleFlags()...),
			Action: func(ctx context.Context, cmd *cli.Command) error {
				role := strings.TrimSpace(cmd.Args().First())
				if role == "" {
					return apperrors.New(apperrors.ErrCodeInvalidRequest, "role is required")
				}
				action, err := executor.ParseAction(name)
				if err != nil {
					return err
				}
				return deploy(ctx, cmd, executor.ToolNixOS, action, inventory.ByRole(role))
			},
		})
	}
	return cmd
}

// deploy resolves the selection, runs the action and prints the outcomes.
// An empty explicit selection rebuilds the local machine; a role matching
// no host is an error.
func deploy(ctx context.Context, cmd *cli.Command, tool executor.Tool, action executor.Action, sel inventory.Selector) error {
	env, err := loadEnvironment(cmd)
	if err != nil {
		return err
	}

	spec := executor.ActionSpec{
		Action: action,
		Tool:   tool,
		Toggles: executor.Toggles{
			UseCache:  cmd.Bool(flagCache),
			KeepGoing: cmd.Bool(flagKeepGoing),
			ShowTrace: cmd.Bool(flagShowTrace),
		},
		Discovery: cmd.Bool(flagDiscovery),
		Username:  cmd.String(flagUsername),
	}
	if err := spec.Validate(); err != nil {
		return err
	}

	var hosts []inventory.HostRecord
	if !sel.IsEmpty() {
		if hosts, err = env.inv.Resolve(sel); err != nil {
			return err
		}
		if len(hosts) == 0 {
			return apperrors.New(apperrors.ErrCodeInvalidRequest, fmt.Sprintf("no host matches %s", sel))
		}
	}

	if err := env.connect(cmd); err != nil {
		return err
	}
	defer func() {
		if cerr := env.Close(); cerr != nil {
			slog.Debug("failed to close transport", "error", cerr)
		}
	}()

	exec := executor.New(env.runner,
		executor.WithParallelism(env.parallel),
		executor.WithWorkspace(cmd.Root().String(flagWorkspace)),
		executor.WithDiscovery(env.document),
	)

	var run *executor.Run
	if len(hosts) == 0 {
		slog.Info("no hosts selected, rebuilding locally", "tool", tool, "action", action)
		run, err = exec.RunLocal(ctx, spec)
	} else {
		run, err = exec.Run(ctx, hosts, spec)
	}
	if err != nil {
		return err
	}

	if err := printRun(ctx, env, run); err != nil {
		return err
	}
	if failed := run.Failed(); len(failed) > 0 {
		return fmt.Errorf("%d of %d host(s) failed", len(failed), len(run.Outcomes))
	}
	return nil
}
