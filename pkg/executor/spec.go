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

package executor

import (
	"fmt"
	"strings"

	"github.com/vsq/nix-homelab/pkg/defaults"
	apperrors "github.com/vsq/nix-homelab/pkg/errors"
	"github.com/vsq/nix-homelab/pkg/remote"
)

// Action is the activation mode passed to the rebuild tool.
type Action string

// Actions.
const (
	ActionBuild  Action = "build"
	ActionTest   Action = "test"
	ActionSwitch Action = "switch"
	ActionBoot   Action = "boot"
)

// ParseAction accepts an action name; "deploy" is an alias of switch.
func ParseAction(s string) (Action, error) {
	switch a := Action(strings.ToLower(strings.TrimSpace(s))); a {
	case ActionBuild, ActionTest, ActionSwitch, ActionBoot:
		return a, nil
	case "deploy":
		return ActionSwitch, nil
	default:
		return "", apperrors.New(apperrors.ErrCodeInvalidRequest, fmt.Sprintf("unknown action %q", s))
	}
}

// Tool is the configuration manager run on the target.
type Tool string

// Tools.
const (
	ToolNixOS       Tool = "nixos-rebuild"
	ToolHomeManager Tool = "home-manager"
)

// Toggles are the optional rebuild behaviors.
type Toggles struct {
	// UseCache keeps the configured binary caches. When false the public
	// cache is forced and builds fall back to local compilation.
	UseCache  bool `json:"useCache" yaml:"useCache"`
	KeepGoing bool `json:"keepGoing" yaml:"keepGoing"`
	ShowTrace bool `json:"showTrace" yaml:"showTrace"`
}

// Flags returns the command line options for the toggles.
func (t Toggles) Flags() []string {
	var flags []string
	if t.ShowTrace {
		flags = append(flags, "--show-trace")
	}
	if !t.UseCache {
		flags = append(flags, "--fallback", "--option", "binary-caches", defaults.PublicCache)
	}
	if t.KeepGoing {
		flags = append(flags, "--option", "keep-going", "true")
	}
	return flags
}

// ActionSpec describes what to do on every selected host.
type ActionSpec struct {
	Action  Action  `json:"action" yaml:"action"`
	Tool    Tool    `json:"tool" yaml:"tool"`
	Toggles Toggles `json:"toggles" yaml:"toggles"`
	// Discovery runs discovery after a successful activation.
	Discovery bool `json:"discovery" yaml:"discovery"`
	// Username selects the home-manager configuration; defaults to the
	// login user of each host.
	Username string `json:"username,omitempty" yaml:"username,omitempty"`
}

// Validate checks the action against the tool.
func (s ActionSpec) Validate() error {
	switch s.Tool {
	case ToolNixOS:
		switch s.Action {
		case ActionBuild, ActionTest, ActionSwitch, ActionBoot:
		default:
			return apperrors.New(apperrors.ErrCodeInvalidRequest,
				fmt.Sprintf("nixos-rebuild does not support %q", s.Action))
		}
	case ToolHomeManager:
		if s.Action != ActionBuild && s.Action != ActionSwitch {
			return apperrors.New(apperrors.ErrCodeInvalidRequest,
				fmt.Sprintf("home-manager does not support %q", s.Action))
		}
	default:
		return apperrors.New(apperrors.ErrCodeInvalidRequest, fmt.Sprintf("unknown tool %q", s.Tool))
	}
	return nil
}

// loginUser returns the account used to reach a host whose inventory
// login is hostUser. home-manager runs as the configured user.
func (s ActionSpec) loginUser(hostUser string) string {
	if s.Tool == ToolHomeManager && s.Username != "" {
		return s.Username
	}
	return hostUser
}

// runsDiscovery reports whether discovery follows activation. Builds and
// home-manager activations never run discovery.
func (s ActionSpec) runsDiscovery() bool {
	return s.Discovery && s.Action != ActionBuild && s.Tool == ToolNixOS
}

func (s ActionSpec) remoteDir() string {
	if s.Tool == ToolHomeManager {
		return "~/" + defaults.HomeWorkspace
	}
	return defaults.RemoteWorkspace
}

// SyncCommand mirrors the local workspace to the target's workspace.
func (s ActionSpec) SyncCommand(workspace string, t remote.Target) string {
	parts := []string{"rsync", "--delete"}
	for _, ex := range defaults.SyncExcludes {
		parts = append(parts, "--exclude", remote.ShellQuote(ex))
	}
	dest := s.remoteDir() + "/"
	if t.Address != "" {
		dest = t.String() + ":" + dest
	}
	parts = append(parts, "-ar", remote.ShellQuote(strings.TrimRight(workspace, "/")+"/"), dest)
	return strings.Join(parts, " ")
}

// PrepareCommand returns the command run before activation, or "".
func (s ActionSpec) PrepareCommand() string {
	if s.Tool == ToolHomeManager {
		return "mkdir -p ~/.local/state/nix/profiles && home-manager init"
	}
	return ""
}

// ActivateCommand returns the rebuild command for hostname. An empty
// hostname targets the machine the command runs on.
func (s ActionSpec) ActivateCommand(hostname, user string) string {
	parts := []string{"cd", s.remoteDir(), "&&"}

	switch s.Tool {
	case ToolHomeManager:
		parts = append(parts, "home-manager", "-v", string(s.Action))
		parts = append(parts, s.Toggles.Flags()...)
		parts = append(parts, "--option", "accept-flake-config", "true")
		flake := "."
		if hostname != "" {
			username := s.Username
			if username == "" {
				username = user
			}
			flake = ".#" + username + "@" + hostname
		}
		parts = append(parts, "--flake", flake)
	default:
		if hostname == "" {
			parts = append(parts, "sudo")
		}
		parts = append(parts, "nixos-rebuild", "-v", string(s.Action))
		parts = append(parts, s.Toggles.Flags()...)
		parts = append(parts, "--fast", "--option", "accept-flake-config", "true", "--flake", ".#"+hostname)
	}
	return strings.Join(parts, " ")
}
