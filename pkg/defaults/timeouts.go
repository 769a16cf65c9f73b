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

import "time"

// Liveness probe settings.
const (
	// LivenessTimeout bounds the single reachability probe sent before discovery.
	LivenessTimeout = 1 * time.Second
)

// Remote transport timeouts.
const (
	// SSHDialTimeout is the maximum duration for establishing an SSH connection.
	SSHDialTimeout = 10 * time.Second

	// SSHKeepAliveInterval is how often idle cached connections are pinged.
	SSHKeepAliveInterval = 30 * time.Second

	// SSHDialBurst is the number of connections allowed to open at once
	// before the dial rate limiter starts pacing.
	SSHDialBurst = 4
)

// Publishing timeouts.
const (
	// PublishTimeout bounds pushing the docs archive to an OCI registry.
	PublishTimeout = 2 * time.Minute
)
