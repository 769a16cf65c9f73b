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
	"io"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/vsq/nix-homelab/pkg/catalog"
	"github.com/vsq/nix-homelab/pkg/defaults"
	"github.com/vsq/nix-homelab/pkg/discovery"
	"github.com/vsq/nix-homelab/pkg/docs"
	"github.com/vsq/nix-homelab/pkg/inventory"
	"github.com/vsq/nix-homelab/pkg/remote"
	"github.com/vsq/nix-homelab/pkg/serializer"
)

// connector opens the command transport. Tests replace it.
var connector = func(cfg remote.SSHConfig) (remote.Runner, remote.Prober, io.Closer, error) {
	r, err := remote.NewSSHRunner(cfg)
	if err != nil {
		return nil, nil, nil, err
	}
	return r, remote.NewPinger(), r, nil
}

// environment is everything a command needs, built from the global flags.
type environment struct {
	inv      *inventory.Inventory
	registry *catalog.Registry
	synth    *docs.Synthesizer
	store    *discovery.Store
	format   serializer.Format
	out      io.Writer
	output   string
	parallel int

	runner     remote.Runner
	discoverer *discovery.Discoverer
	closer     io.Closer
}

// loadEnvironment reads the inventory and checks every OS tag against the
// catalog before any host is contacted.
func loadEnvironment(cmd *cli.Command) (*environment, error) {
	root := cmd.Root()

	inv, err := inventory.Load(root.String(flagInventory), inventory.Options{
		StrictAddresses: root.Bool(flagStrictInventory),
	})
	if err != nil {
		return nil, err
	}

	registry := catalog.Default()
	if err := registry.Validate(inv.OSTags()...); err != nil {
		return nil, err
	}

	hostsDir := filepath.Join(root.String(flagDocsDir), defaults.HostsDocsSubdir)
	return &environment{
		inv:      inv,
		registry: registry,
		synth:    docs.New(hostsDir),
		store:    discovery.NewStore(hostsDir),
		format:   serializer.Format(root.String(flagFormat)),
		out:      root.Writer,
		output:   root.String(flagOutput),
		parallel: root.Int(flagParallel),
	}, nil
}

// connect opens the transport and prepares the discoverer.
func (e *environment) connect(cmd *cli.Command) error {
	root := cmd.Root()
	runner, prober, closer, err := connector(remote.SSHConfig{
		HostKeyPolicy:  remote.HostKeyPolicy(root.String(flagHostKeyCheck)),
		KnownHostsFile: root.String(flagKnownHosts),
		IdentityFiles:  root.StringSlice(flagIdentity),
		DialRate:       root.Float(flagDialRate),
		LocalDir:       root.String(flagWorkspace),
	})
	if err != nil {
		return err
	}
	e.runner = runner
	e.closer = closer
	e.discoverer = discovery.New(e.registry, runner, prober, e.store)
	return nil
}

func (e *environment) Close() error {
	if e.closer == nil {
		return nil
	}
	return e.closer.Close()
}

// selection parses the --hosts value, or the positional arguments joined.
func selection(cmd *cli.Command) (inventory.Selector, error) {
	if s := cmd.String(flagHosts); s != "" {
		return inventory.ParseSelector(s)
	}
	return inventory.ParseSelector(strings.Join(cmd.Args().Slice(), ","))
}

// selected resolves the hosts picked by the command line.
func (e *environment) selected(cmd *cli.Command) ([]inventory.HostRecord, error) {
	sel, err := selection(cmd)
	if err != nil {
		return nil, err
	}
	return e.inv.Resolve(sel)
}

// document runs discovery on host and refreshes its page. Unreachable
// hosts keep their page as it is.
func (e *environment) document(ctx context.Context, host inventory.HostRecord) (*discovery.Report, error) {
	report, acc, err := e.discoverer.Discover(ctx, host)
	if err != nil {
		return nil, err
	}
	if !report.Reachable {
		return report, nil
	}
	steps, err := e.registry.StepsFor(host.OS)
	if err != nil {
		return report, err
	}
	return report, e.synth.UpdateHost(acc, steps)
}

// regenerate rebuilds the page of host from stored artifacts.
func (e *environment) regenerate(host inventory.HostRecord) (discovery.Summary, error) {
	discoverer := discovery.New(e.registry, nil, nil, e.store)
	acc, err := discoverer.Replay(host)
	if err != nil {
		return discovery.Summary{}, err
	}
	steps, err := e.registry.StepsFor(host.OS)
	if err != nil {
		return discovery.Summary{}, err
	}
	return acc.Summary, e.synth.UpdateHost(acc, steps)
}

// index rewrites the fleet page from the stored artifacts of every host.
func (e *environment) index() error {
	discoverer := discovery.New(e.registry, nil, nil, e.store)
	entries := make([]docs.IndexEntry, 0, e.inv.Len())
	for _, h := range e.inv.Hosts() {
		acc, err := discoverer.Replay(h)
		if err != nil {
			return err
		}
		entries = append(entries, docs.IndexEntry{Host: h, Summary: acc.Summary})
	}
	return e.synth.UpdateIndex(entries)
}
