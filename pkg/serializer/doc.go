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

// Package serializer provides encoding and decoding of homelab data in multiple formats.
//
// # Supported Formats
//
// JSON:
//   - Machine-parseable representation, used for summaries sidecars and --format json
//   - Input may contain comments and trailing commas (github.com/tidwall/jsonc)
//
// YAML:
//   - Human-readable, accepted for inventories and emitted with --format yaml
//
// Table:
//   - Flattened FIELD/VALUE listing for terminals
//   - Write-only
//
// # Usage
//
//	inv, err := serializer.FromFile[inventoryFile]("homelab.json")
//
//	w := serializer.NewFileWriterOrStdout(serializer.FormatYAML, "")
//	defer w.(serializer.Closer).Close()
//	err = w.Serialize(ctx, run)
//
// WriteToFile replaces files atomically so a crashed run never leaves a
// truncated sidecar behind.
package serializer
