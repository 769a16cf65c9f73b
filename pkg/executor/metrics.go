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

package executor

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	deployRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "homelab_deploy_runs_total",
			Help: "Total number of deployment runs",
		},
		[]string{"action"},
	)

	hostOutcomesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "homelab_deploy_host_outcomes_total",
			Help: "Total number of host outcomes by final stage",
		},
		[]string{"stage", "status"}, // status: success or error
	)

	hostDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "homelab_deploy_host_duration_seconds",
			Help:    "Time taken to deploy a single host",
			Buckets: []float64{5, 15, 30, 60, 120, 300, 600, 1800, 3600},
		},
		[]string{"status"},
	)
)
