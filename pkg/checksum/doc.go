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

// Package checksum records and verifies BLAKE3 digests of persisted
// discovery artifacts.
//
// Each host artifact directory carries a checksums.txt:
//
//	<hex digest>  cpu.txt
//	<hex digest>  hardwares.txt
//	<hex digest>  scan.json
//
// The digest of a file changes only when the probe output changed, which
// makes drift between two discovery runs visible in version control.
package checksum
