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

// Package catalog holds the immutable mapping from OS tags to ordered
// discovery steps.
//
// A Registry is built once per run and injected where needed:
//
//	reg := catalog.Default()
//	steps, err := reg.StepsFor(catalog.OSNixOS)
//
// The order of a profile is significant. Steps are executed and rendered in
// that order, and derived steps such as Config only see the results of the
// steps listed before them.
package catalog
