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

// Package defaults provides centralized configuration constants for homelab.
//
// It defines timeout values, repository layout paths, document markers and
// remote workspace locations used across the codebase.
//
// # Timeout Categories
//
//   - Liveness: the single reachability probe gating discovery
//   - Remote transport: SSH dialing and keep-alive
//   - Publishing: pushing the docs archive to a registry
//
// Deployments themselves carry no timeout. A rebuild runs until the remote
// tool exits or the run is interrupted.
//
// # Usage
//
//	ctx, cancel := context.WithTimeout(ctx, defaults.LivenessTimeout)
//	defer cancel()
package defaults
