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
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/vsq/nix-homelab/pkg/catalog"
	"github.com/vsq/nix-homelab/pkg/defaults"
	"github.com/vsq/nix-homelab/pkg/errors"
	"github.com/vsq/nix-homelab/pkg/serializer"
)

// HostRecord describes one managed machine. The Name is its identity.
type HostRecord struct {
	Name        string        `json:"name" yaml:"name"`
	Address     string        `json:"address" yaml:"address"`
	OS          catalog.OSTag `json:"os" yaml:"os"`
	Roles       []string      `json:"roles,omitempty" yaml:"roles,omitempty"`
	User        string        `json:"user,omitempty" yaml:"user,omitempty"`
	Description string        `json:"description,omitempty" yaml:"description,omitempty"`
}

// HasRole reports whether the host carries role.
func (h HostRecord) HasRole(role string) bool {
	for _, r := range h.Roles {
		if r == role {
			return true
		}
	}
	return false
}

func (h HostRecord) clone() HostRecord {
	h.Roles = append([]string(nil), h.Roles...)
	return h
}

// fileHost mirrors one entry of the "hosts" object in homelab.json.
type fileHost struct {
	IPv4        string   `json:"ipv4" yaml:"ipv4"`
	OS          string   `json:"os" yaml:"os"`
	Roles       []string `json:"roles" yaml:"roles"`
	User        string   `json:"user" yaml:"user"`
	Description string   `json:"description" yaml:"description"`
}

type file struct {
	Hosts map[string]fileHost `json:"hosts" yaml:"hosts"`
}

// Options tunes inventory validation.
type Options struct {
	// StrictAddresses rejects inventories where two hosts share an address.
	StrictAddresses bool
}

// Inventory is an immutable snapshot of the fleet, built once per run.
type Inventory struct {
	hosts map[string]HostRecord
	names []string
}

// Load reads an inventory file. JSON (comments allowed) and YAML are
// accepted, chosen by file extension.
func Load(path string, opts Options) (*Inventory, error) {
	f, err := serializer.FromFile[file](path)
	if err != nil {
		return nil, errors.WrapWithContext(errors.ErrCodeInvalidInventory, "failed to read inventory", err,
			map[string]any{"path": path})
	}

	records := make([]HostRecord, 0, len(f.Hosts))
	for name, h := range f.Hosts {
		records = append(records, HostRecord{
			Name:        name,
			Address:     h.IPv4,
			OS:          catalog.OSTag(h.OS),
			Roles:       h.Roles,
			User:        h.User,
			Description: h.Description,
		})
	}

	inv, err := New(records...)
	if err != nil {
		return nil, err
	}

	if err := inv.checkAddresses(opts.StrictAddresses); err != nil {
		return nil, err
	}

	slog.Debug("inventory loaded", "path", path, "hosts", len(inv.names))
	return inv, nil
}

// New builds an inventory from records. Names must be unique and non-empty
// and every host needs an address.
func New(records ...HostRecord) (*Inventory, error) {
	inv := &Inventory{
		hosts: make(map[string]HostRecord, len(records)),
		names: make([]string, 0, len(records)),
	}

	for _, r := range records {
		if strings.TrimSpace(r.Name) == "" {
			return nil, errors.New(errors.ErrCodeInvalidInventory, "host with empty name")
		}
		if _, exists := inv.hosts[r.Name]; exists {
			return nil, errors.New(errors.ErrCodeInvalidInventory, fmt.Sprintf("host %q declared twice", r.Name))
		}
		if strings.TrimSpace(r.Address) == "" {
			return nil, errors.NewWithContext(errors.ErrCodeInvalidInventory,
				fmt.Sprintf("host %q has no address", r.Name), map[string]any{"host": r.Name})
		}
		if r.User == "" {
			r.User = defaults.DefaultUser
		}
		inv.hosts[r.Name] = r.clone()
		inv.names = append(inv.names, r.Name)
	}
	sort.Strings(inv.names)

	return inv, nil
}

func (inv *Inventory) checkAddresses(strict bool) error {
	dups := inv.DuplicateAddresses()
	if len(dups) == 0 {
		return nil
	}

	addrs := make([]string, 0, len(dups))
	for a := range dups {
		addrs = append(addrs, a)
	}
	sort.Strings(addrs)

	for _, a := range addrs {
		slog.Warn("hosts share an address", "address", a, "hosts", strings.Join(dups[a], ","))
	}
	if strict {
		return errors.NewWithContext(errors.ErrCodeInvalidInventory,
			fmt.Sprintf("%d address(es) assigned to more than one host", len(dups)),
			map[string]any{"addresses": addrs})
	}
	return nil
}

// DuplicateAddresses maps every address used by more than one host to the
// sorted names of those hosts.
func (inv *Inventory) DuplicateAddresses() map[string][]string {
	byAddr := make(map[string][]string)
	for _, n := range inv.names {
		a := inv.hosts[n].Address
		byAddr[a] = append(byAddr[a], n)
	}
	for a, names := range byAddr {
		if len(names) < 2 {
			delete(byAddr, a)
		}
	}
	return byAddr
}

// Get returns a copy of the named host.
func (inv *Inventory) Get(name string) (HostRecord, bool) {
	h, ok := inv.hosts[name]
	if !ok {
		return HostRecord{}, false
	}
	return h.clone(), true
}

// Hosts returns copies of all hosts in name order.
func (inv *Inventory) Hosts() []HostRecord {
	out := make([]HostRecord, 0, len(inv.names))
	for _, n := range inv.names {
		out = append(out, inv.hosts[n].clone())
	}
	return out
}

// Len returns the number of hosts.
func (inv *Inventory) Len() int {
	return len(inv.names)
}

// OSTags returns the distinct OS tags in use, sorted.
func (inv *Inventory) OSTags() []catalog.OSTag {
	seen := make(map[catalog.OSTag]bool)
	var tags []catalog.OSTag
	for _, n := range inv.names {
		os := inv.hosts[n].OS
		if !seen[os] {
			seen[os] = true
			tags = append(tags, os)
		}
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i] < tags[j] })
	return tags
}

// Resolve turns a selector into an ordered host list. Explicit names keep
// the given order; role and all-host selections come back in name order.
// An unknown name fails the whole resolution with UNKNOWN_HOST.
func (inv *Inventory) Resolve(sel Selector) ([]HostRecord, error) {
	switch {
	case len(sel.Names) > 0:
		out := make([]HostRecord, 0, len(sel.Names))
		seen := make(map[string]bool, len(sel.Names))
		for _, n := range sel.Names {
			h, ok := inv.Get(n)
			if !ok {
				return nil, errors.NewWithContext(errors.ErrCodeUnknownHost,
					fmt.Sprintf("host %q is not in the inventory", n), map[string]any{"host": n})
			}
			if seen[n] {
				continue
			}
			seen[n] = true
			out = append(out, h)
		}
		return out, nil

	case sel.Role != "":
		var out []HostRecord
		for _, n := range inv.names {
			if h := inv.hosts[n]; h.HasRole(sel.Role) {
				out = append(out, h.clone())
			}
		}
		return out, nil

	default:
		return inv.Hosts(), nil
	}
}
