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

// Package cli implements the homelab command line.
//
// # Commands
//
//	homelab nixos build|test|deploy|boot [host,... | role=<tag>] [--discovery=false] [--cache=false] [--keep-going=false] [--show-trace]
//	homelab home build|deploy [host,...] [--username <user>]
//	homelab role build|test|deploy <role>
//	homelab docs scan|hosts|index|all|render|publish
//	homelab hosts [host,... | role=<tag>]
//
// nixos and home without a host selection rebuild the machine homelab runs
// on. nixos and role activations run discovery afterwards unless
// --discovery=false is given. Deployments fan out to every selected host at once (see --parallel);
// a failing host is reported at the end and never stops the others. The
// process exits 1 when any host failed and 2 when interrupted. A request
// rejected before any host was contacted exits 3.
//
// # Global Flags
//
//	--inventory, -i      Inventory file (default homelab.json)
//	--docs-dir           Documentation root (default docs)
//	--workspace          Configuration tree to mirror (default .)
//	--host-key-check     strict or none
//	--known-hosts        known_hosts for the strict policy
//	--identity           SSH private key, repeatable
//	--parallel           Host concurrency cap, 0 for none
//	--dial-rate          New SSH connections per second
//	--strict-inventory   Reject duplicate host addresses
//	--metrics-file       Prometheus textfile written on exit
//	--format, -t         table, json or yaml
//	--output, -o         Write the result document to a file
//	--log-level          debug, info, warn, error
//
// Every global flag can also be set through HOMELAB_<FLAG> (for example
// HOMELAB_HOST_KEY_CHECK=none).
package cli
