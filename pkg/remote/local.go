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
	"bytes"
	"context"
	stderrors "errors"
	"log/slog"
	"os/exec"
	"time"

	apperrors "github.com/vsq/nix-homelab/pkg/errors"
)

// LocalShell runs commands through "sh -c" on the orchestrator.
type LocalShell struct {
	// Dir is the working directory of every command; empty means the
	// current directory.
	Dir string
}

// RunLocal executes command and waits for it. Cancelling ctx kills the process.
func (l LocalShell) RunLocal(ctx context.Context, command string) (*Result, error) {
	cmd := exec.CommandContext(ctx, "sh", "-c", command)
	cmd.Dir = l.Dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	slog.Debug("running local command", "command", command)

	start := time.Now()
	err := cmd.Run()
	res := &Result{
		Stdout:   stdout.Bytes(),
		Stderr:   stderr.Bytes(),
		Duration: time.Since(start),
	}
	if err == nil {
		return res, nil
	}

	var exitErr *exec.ExitError
	if stderrors.As(err, &exitErr) {
		res.ExitCode = exitErr.ExitCode()
		return res, commandError("localhost", command, res, err)
	}
	res.ExitCode = -1
	return res, apperrors.WrapWithContext(apperrors.ErrCodeRemoteCommandFailed,
		"failed to start local command", err, map[string]any{"command": command})
}
