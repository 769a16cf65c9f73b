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

package remote

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/vsq/nix-homelab/pkg/defaults"
)

// Pinger probes liveness with a single ICMP echo through the system ping.
type Pinger struct {
	Shell   LocalShell
	Timeout time.Duration
}

// NewPinger returns a Pinger using the default liveness timeout.
func NewPinger() *Pinger {
	return &Pinger{Timeout: defaults.LivenessTimeout}
}

// Reachable sends one echo request and waits at most Timeout for the reply.
func (p *Pinger) Reachable(ctx context.Context, address string) bool {
	timeout := p.Timeout
	if timeout <= 0 {
		timeout = defaults.LivenessTimeout
	}
	secs := int(math.Ceil(timeout.Seconds()))

	ctx, cancel := context.WithTimeout(ctx, timeout+time.Second)
	defer cancel()

	_, err := p.Shell.RunLocal(ctx, fmt.Sprintf("ping -c 1 -w %d %s", secs, ShellQuote(address)))
	if err != nil {
		slog.Debug("liveness probe failed", "address", address, "error", err)
		return false
	}
	return true
}
