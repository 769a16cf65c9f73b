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
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/vsq/nix-homelab/pkg/defaults"
	"github.com/vsq/nix-homelab/pkg/remote"
	"github.com/vsq/nix-homelab/pkg/serializer"
)

const (
	flagInventory       = "inventory"
	flagDocsDir         = "docs-dir"
	flagWorkspace       = "workspace"
	flagLogLevel        = "log-level"
	flagHostKeyCheck    = "host-key-check"
	flagKnownHosts      = "known-hosts"
	flagIdentity        = "identity"
	flagParallel        = "parallel"
	flagDialRate        = "dial-rate"
	flagStrictInventory = "strict-inventory"
	flagMetricsFile     = "metrics-file"
	flagFormat          = "format"
	flagOutput          = "output"

	flagHosts     = "hosts"
	flagDiscovery = "discovery"
	flagCache     = "cache"
	flagKeepGoing = "keep-going"
	flagShowTrace = "show-trace"
	flagUsername  = "username"
)

func envVar(flag string) cli.ValueSourceChain {
	return cli.EnvVars("HOMELAB_" + strings.ToUpper(strings.ReplaceAll(flag, "-", "_")))
}

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    flagInventory,
			Aliases: []string{"i"},
			Usage:   "Inventory file (JSON or YAML)",
			Value:   defaults.InventoryFile,
			Sources: envVar(flagInventory),
		},
		&cli.StringFlag{
			Name:    flagDocsDir,
			Usage:   "Documentation root; host pages live in <docs-dir>/hosts",
			Value:   defaults.DocsDir,
			Sources: envVar(flagDocsDir),
		},
		&cli.StringFlag{
			Name:    flagWorkspace,
			Usage:   "Configuration tree mirrored to hosts",
			Value:   ".",
			Sources: envVar(flagWorkspace),
		},
		&cli.StringFlag{
			Name:    flagLogLevel,
			Usage:   "Log level (debug, info, warn, error)",
			Value:   "info",
			Sources: cli.EnvVars("HOMELAB_LOG_LEVEL", "LOG_LEVEL"),
		},
		&cli.StringFlag{
			Name:    flagHostKeyCheck,
			Usage:   "SSH host key policy (strict, none)",
			Value:   string(remote.HostKeyStrict),
			Sources: envVar(flagHostKeyCheck),
			Validator: func(v string) error {
				switch remote.HostKeyPolicy(v) {
				case remote.HostKeyStrict, remote.HostKeyNone:
					return nil
				default:
					return fmt.Errorf("host key policy must be %q or %q", remote.HostKeyStrict, remote.HostKeyNone)
				}
			},
		},
		&cli.StringFlag{
			Name:    flagKnownHosts,
			Usage:   "known_hosts file used by the strict policy (default ~/.ssh/known_hosts)",
			Sources: envVar(flagKnownHosts),
		},
		&cli.StringSliceFlag{
			Name:    flagIdentity,
			Usage:   "SSH private key, can be repeated (the agent at SSH_AUTH_SOCK is always tried)",
			Sources: envVar(flagIdentity),
		},
		&cli.IntFlag{
			Name:    flagParallel,
			Usage:   "Maximum hosts worked on at once (0 means all)",
			Sources: envVar(flagParallel),
		},
		&cli.FloatFlag{
			Name:    flagDialRate,
			Usage:   "Maximum new SSH connections per second (0 means unlimited)",
			Sources: envVar(flagDialRate),
		},
		&cli.BoolFlag{
			Name:    flagStrictInventory,
			Usage:   "Reject inventories where two hosts share an address",
			Sources: envVar(flagStrictInventory),
		},
		&cli.StringFlag{
			Name:    flagMetricsFile,
			Usage:   "Write Prometheus metrics to this file on exit",
			Sources: envVar(flagMetricsFile),
		},
		&cli.StringFlag{
			Name:    flagFormat,
			Aliases: []string{"t"},
			Usage:   fmt.Sprintf("Result format (%s)", strings.Join(serializer.SupportedFormats(), ", ")),
			Value:   string(serializer.FormatTable),
			Sources: envVar(flagFormat),
			Validator: func(v string) error {
				if serializer.Format(v).IsUnknown() {
					return fmt.Errorf("unknown output format: %q", v)
				}
				return nil
			},
		},
		&cli.StringFlag{
			Name:    flagOutput,
			Aliases: []string{"o"},
			Usage:   "Write the result document to this file instead of the terminal (table format writes plain text)",
			Sources: envVar(flagOutput),
		},
	}
}

func hostsFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  flagHosts,
		Usage: "Hosts to target: a,b,c or role=<tag> (positional arguments work too)",
	}
}

func discoveryFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:  flagDiscovery,
		Usage: "Run discovery and update host pages after a successful activation (builds never do)",
		Value: true,
	}
}

func toggleFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  flagCache,
			Usage: "Use the configured binary caches (otherwise force the public cache and fall back to local builds)",
			Value: true,
		},
		&cli.BoolFlag{
			Name:  flagKeepGoing,
			Usage: "Keep building other derivations after a failure",
			Value: true,
		},
		&cli.BoolFlag{
			Name:  flagShowTrace,
			Usage: "Print evaluation traces on errors",
		},
	}
}
