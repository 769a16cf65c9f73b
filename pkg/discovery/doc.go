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

// Package discovery probes hosts for hardware and network facts and turns
// the raw probe output into structured data.
//
// Each host runs the steps of its catalog profile in order. A step has two
// halves: Execute produces a raw artifact (lscpu text, inxi text, an svg,
// a redacted service list) and Parse folds that artifact into a per-host
// Accumulator. Derived steps such as Config execute nothing and work on
// what earlier steps left in the accumulator.
//
// Artifacts are persisted under docs/hosts/<host>/<step>.<ext> before they
// are parsed, together with a BLAKE3 checksums.txt. Replay re-parses the
// persisted artifacts, which lets documentation be regenerated without
// contacting any host.
//
// Hosts that do not answer the liveness probe are skipped. Step failures
// are logged and recorded in the Report; they never stop the other steps
// or other hosts.
package discovery
