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

// Package remote executes commands on fleet hosts and on the orchestrator.
//
// SSHRunner is the production Runner. It authenticates with the SSH agent
// and optional identity files, checks host keys according to
// HostKeyPolicy, keeps one connection per host and paces new connections
// with a token bucket so a large fan-out does not open every connection in
// the same instant.
//
// Failed commands come back as REMOTE_COMMAND_FAILED errors whose message
// carries the command's stderr. The Result is still returned so callers
// can inspect partial output.
//
// Pinger is the liveness gate used before discovery. It sends a single
// echo request with a one second deadline.
package remote
