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

// Package executor runs a deployment action across many hosts at once.
//
// Each selected host gets its own goroutine, which works through a strict
// pipeline:
//
//  1. mirror the local configuration tree to the host with rsync
//  2. run nixos-rebuild (or home-manager) with the requested action
//  3. optionally run discovery and document the result
//
// A failure at any stage ends that host's pipeline and becomes its
// Outcome. Nothing one host does can cancel or alter another host's work,
// and Run only returns once every host has finished. Outcomes keep the
// order of the input host list.
//
// No timeout is imposed; interrupting the process cancels the context and
// with it every running command.
package executor
