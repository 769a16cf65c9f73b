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

package discovery

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	discoveryHostsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "homelab_discovery_hosts_total",
			Help: "Total number of hosts probed for discovery",
		},
		[]string{"status"}, // reachable or unreachable
	)

	discoveryStepsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "homelab_discovery_steps_total",
			Help: "Total number of discovery steps by outcome",
		},
		[]string{"step", "status"},
	)

	discoveryStepDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "homelab_discovery_step_duration_seconds",
			Help:    "Time taken by individual discovery steps",
			Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60},
		},
		[]string{"step"},
	)
)
