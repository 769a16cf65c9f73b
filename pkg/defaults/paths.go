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

package defaults

// Repository layout used by discovery and documentation.
const (
	// InventoryFile is the default inventory path, relative to the workspace.
	InventoryFile = "homelab.json"

	// DocsDir is the documentation root, relative to the workspace.
	DocsDir = "docs"

	// HostsDocsSubdir holds one page and one artifact directory per host.
	HostsDocsSubdir = "hosts"

	// HostTemplateFile is the blank page copied for hosts without a page.
	HostTemplateFile = "host.tpl"

	// HostIndexFile is the fleet overview page inside the hosts directory.
	HostIndexFile = "README.md"

	// SummaryFile is the per-host structured sidecar.
	SummaryFile = "summaries.json"

	// ChecksumFile lists digests of the persisted artifacts of a host.
	ChecksumFile = "checksums.txt"
)

// Document markers.
const (
	// HostInfoMarker names the generated region inside a host page.
	HostInfoMarker = "HOSTINFOS"

	// HostListMarker names the generated region inside the fleet page.
	HostListMarker = "HOSTSLIST"
)

// Remote workspace settings.
const (
	// RemoteWorkspace is where the configuration tree is mirrored on NixOS hosts.
	RemoteWorkspace = "/nix-homelab"

	// HomeWorkspace is the mirror location for home-manager targets, relative to $HOME.
	HomeWorkspace = "nix-homelab"

	// DefaultUser is the SSH login used when the inventory names none.
	DefaultUser = "root"

	// PublicCache is the binary cache used when the local cache is bypassed.
	PublicCache = "https://cache.nixos.org/"

	// RemoteEnvPrefix is prepended to every probe so output is not localized.
	RemoteEnvPrefix = "source /etc/bashrc ; LC_ALL=C"
)

// SyncExcludes are never mirrored to remote hosts.
var SyncExcludes = []string{".git"}
