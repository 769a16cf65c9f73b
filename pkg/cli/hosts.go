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
	"log/slog"

	"github.com/urfave/cli/v3"
)

func hostsCmd() *cli.Command {
	return &cli.Command{
		Name:      "hosts",
		Usage:     "Print the hosts a selector resolves to",
		ArgsUsage: "[host,... | role=<tag>]",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			env, err := loadEnvironment(cmd)
			if err != nil {
				return err
			}
			for addr, names := range env.inv.DuplicateAddresses() {
				slog.Warn("hosts share an address", "address", addr, "hosts", names)
			}
			hosts, err := env.selected(cmd)
			if err != nil {
				return err
			}
			return printHosts(ctx, env, hosts)
		},
	}
}
