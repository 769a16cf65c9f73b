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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/vsq/nix-homelab/pkg/errors"
)

func TestLocalShellRunLocal(t *testing.T) {
	shell := LocalShell{Dir: t.TempDir()}

	res, err := shell.RunLocal(context.Background(), "printf hello; printf oops >&2")
	require.NoError(t, err)
	assert.Equal(t, "hello", string(res.Stdout))
	assert.Equal(t, "oops", string(res.Stderr))
	assert.Equal(t, 0, res.ExitCode)
}

func TestLocalShellFailurePrefersStderr(t *testing.T) {
	shell := LocalShell{}

	res, err := shell.RunLocal(context.Background(), "echo 'flake not found' >&2; exit 3")
	require.Error(t, err)
	require.NotNil(t, res)
	assert.Equal(t, 3, res.ExitCode)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeRemoteCommandFailed))
	assert.Contains(t, err.Error(), "flake not found")
}

func TestLocalShellWorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "marker"), []byte("x"), 0o644))

	res, err := LocalShell{Dir: dir}.RunLocal(context.Background(), "ls")
	require.NoError(t, err)
	assert.Contains(t, string(res.Stdout), "marker")
}

func TestLocalShellCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := LocalShell{}.RunLocal(ctx, "sleep 5")
	assert.Error(t, err)
}

func TestCommandErrorFallsBackToExitStatus(t *testing.T) {
	err := commandError("alpha", "false", &Result{ExitCode: 1}, nil)
	assert.Contains(t, err.Error(), "exit status 1")
	assert.Contains(t, err.Error(), "alpha")
}

func TestShellQuote(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"192.168.1.10", "192.168.1.10"},
		{"root@alpha:/nix-homelab/", "root@alpha:/nix-homelab/"},
		{"", "''"},
		{"a b", "'a b'"},
		{"it's", `'it'"'"'s'`},
		{"$(reboot)", "'$(reboot)'"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ShellQuote(tt.in))
		})
	}
}

func TestTargetString(t *testing.T) {
	assert.Equal(t, "root@10.0.0.1", Target{Address: "10.0.0.1", User: "root"}.String())
	assert.Equal(t, "10.0.0.1", Target{Address: "10.0.0.1"}.String())
}

func TestHostKeyCallbackPolicies(t *testing.T) {
	cb, err := hostKeyCallback(SSHConfig{HostKeyPolicy: HostKeyNone})
	require.NoError(t, err)
	assert.NotNil(t, cb)

	known := filepath.Join(t.TempDir(), "known_hosts")
	require.NoError(t, os.WriteFile(known, nil, 0o600))
	cb, err = hostKeyCallback(SSHConfig{HostKeyPolicy: HostKeyStrict, KnownHostsFile: known})
	require.NoError(t, err)
	assert.NotNil(t, cb)

	_, err = hostKeyCallback(SSHConfig{HostKeyPolicy: HostKeyStrict, KnownHostsFile: filepath.Join(t.TempDir(), "absent")})
	assert.Error(t, err)

	_, err = hostKeyCallback(SSHConfig{HostKeyPolicy: "maybe"})
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeInvalidRequest))
}

func TestNewSSHRunnerRequiresCredentials(t *testing.T) {
	t.Setenv("SSH_AUTH_SOCK", "")
	_, err := NewSSHRunner(SSHConfig{})
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeInvalidRequest))
}
