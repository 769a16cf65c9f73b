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

// Package header provides the envelope of homelab's JSON and YAML output.
//
// Every structured result (a deployment run, discovery reports, a host
// list) is printed as
//
//	kind: DeploymentRun
//	apiVersion: homelab.vsq.dev/v1
//	metadata:
//	  timestamp: "2024-06-01T10:00:00Z"
//	  version: v0.3.0
//	data: ...
//
// so scripts can tell documents apart and detect schema changes.
package header
