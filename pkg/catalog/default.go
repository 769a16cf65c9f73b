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

package catalog

import "github.com/vsq/nix-homelab/pkg/defaults"

// Known OS tags.
const (
	OSNixOS       OSTag = "NixOS"
	OSNix         OSTag = "Nix"
	OSTrueNAS     OSTag = "TrueNAS"
	OSTrueNASJail OSTag = "TrueNAS_jail"
	OSSwitch      OSTag = "Switch"
	OSXCPng       OSTag = "XCP-ng"
	OSHAOS        OSTag = "HAOS"
	OSVoidLinux   OSTag = "VoidLinux"
	OSArchLinux   OSTag = "ArchLinux"
	OSDebian      OSTag = "Debian"
	OSILO4        OSTag = "iLO4"
	OSIPMI        OSTag = "IPMI"
	OSNixDarwin   OSTag = "nix-darwin"
	OSAndroid     OSTag = "Android"
	OSIPhone      OSTag = "iPhone"
	OSChromecast  OSTag = "Chromecast"
	OSBridge      OSTag = "Bridge"
	OSArris       OSTag = "Arris"
	OSRaspbian    OSTag = "Raspbian"
	OSHarmony     OSTag = "Harmony"
	OSMikroTik    OSTag = "MikroTik"
)

const remote = defaults.RemoteEnvPrefix + " "

// DefaultSteps returns the built-in step definitions.
func DefaultSteps() []ScanStep {
	return []ScanStep{
		{Kind: StepRole, Artifact: ArtifactNone, Location: LocationDerived},
		{
			Kind:     StepScan,
			Artifact: ArtifactJSON,
			Location: LocationLocal,
			Command:  "nix-shell -p nmap --run 'sudo nmap --version-intensity 0 -sV {{.Address}} -oX -'",
		},
		{Kind: StepCPU, Artifact: ArtifactText, Location: LocationRemote, Command: remote + "lscpu"},
		{
			Kind:     StepHardwares,
			Artifact: ArtifactText,
			Location: LocationRemote,
			Command:  remote + "nix-shell -p 'inxi.override { withRecommends = true; }' --run 'sudo inxi -F -a -i --slots -xxx -c0 -i -m --filter'",
		},
		{Kind: StepConfig, Artifact: ArtifactNone, Location: LocationDerived},
		{
			Kind:     StepTopologie,
			Artifact: ArtifactSVG,
			Location: LocationRemote,
			Command:  remote + "nix-shell -p hwloc --run 'sudo lstopo --of svg -'",
		},
		{
			Kind:     StepNix,
			Artifact: ArtifactText,
			Location: LocationRemote,
			Command:  remote + "nix-shell -p nix-info --run 'nix-info -m'",
		},
	}
}

// DefaultProfiles returns the built-in OS to step mapping. Hosts running Nix
// get the full hardware inventory; appliances only get a network scan.
// CPU and Hardwares precede Config, which derives its fields from them.
func DefaultProfiles() map[OSTag][]StepKind {
	profiles := map[OSTag][]StepKind{
		OSNixOS: {StepRole, StepScan, StepCPU, StepHardwares, StepConfig, StepTopologie, StepNix},
		OSNix:   {StepScan, StepCPU, StepHardwares, StepConfig, StepTopologie, StepNix},
	}
	for _, os := range []OSTag{
		OSTrueNAS, OSTrueNASJail, OSSwitch, OSXCPng, OSHAOS, OSVoidLinux, OSArchLinux,
		OSDebian, OSILO4, OSIPMI, OSNixDarwin, OSAndroid, OSIPhone, OSChromecast,
		OSBridge, OSArris, OSRaspbian, OSHarmony, OSMikroTik,
	} {
		profiles[os] = []StepKind{StepScan}
	}
	return profiles
}

// Default returns the built-in registry.
func Default() *Registry {
	return MustNewRegistry(DefaultSteps(), DefaultProfiles())
}
