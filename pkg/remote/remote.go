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
	"strings"
	"time"

	apperrors "github.com/vsq/nix-homelab/pkg/errors"
)

// Target identifies the host a remote command runs on.
type Target struct {
	Name    string
	Address string
	User    string
}

func (t Target) String() string {
	if t.User == "" {
		return t.Address
	}
	return t.User + "@" + t.Address
}

// Result captures the outcome of a finished command.
type Result struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
	Duration time.Duration
}

// Runner executes shell commands on remote hosts and on the orchestrator.
// Implementations must be safe for concurrent use by one goroutine per host.
type Runner interface {
	// Run executes command on t. A non-zero exit returns the Result together
	// with a REMOTE_COMMAND_FAILED error.
	Run(ctx context.Context, t Target, command string) (*Result, error)
	// RunLocal executes command on the orchestrator.
	RunLocal(ctx context.Context, command string) (*Result, error)
}

// Prober answers whether an address responds at all.
type Prober interface {
	Reachable(ctx context.Context, address string) bool
}

// commandError builds the error for a failed command. Stderr is preferred
// over the transport error because it carries the tool's own diagnosis.
func commandError(where, command string, res *Result, cause error) error {
	msg := strings.TrimSpace(string(res.Stderr))
	if msg == "" {
		msg = fmt.Sprintf("exit status %d", res.ExitCode)
	}
	if len(msg) > 2048 {
		msg = "..." + msg[len(msg)-2048:]
	}
	return apperrors.WrapWithContext(apperrors.ErrCodeRemoteCommandFailed,
		fmt.Sprintf("command failed on %s: %s", where, msg), cause,
		map[string]any{
			"command":   command,
			"exit_code": res.ExitCode,
		})
}
