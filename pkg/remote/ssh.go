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
	"fmt"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/agent"
	"golang.org/x/crypto/ssh/knownhosts"
	"golang.org/x/time/rate"

	"github.com/vsq/nix-homelab/pkg/defaults"
	apperrors "github.com/vsq/nix-homelab/pkg/errors"
)

// HostKeyPolicy selects how server host keys are checked.
type HostKeyPolicy string

const (
	// HostKeyStrict verifies keys against a known_hosts file.
	HostKeyStrict HostKeyPolicy = "strict"
	// HostKeyNone accepts any host key.
	HostKeyNone HostKeyPolicy = "none"
)

// SSHConfig configures an SSHRunner.
type SSHConfig struct {
	HostKeyPolicy  HostKeyPolicy
	KnownHostsFile string
	IdentityFiles  []string
	Port           int
	DialTimeout    time.Duration
	// DialRate limits new connections per second; zero disables pacing.
	DialRate float64
	// LocalDir is the working directory of local commands.
	LocalDir string
}

// SSHRunner runs remote commands over SSH and local commands through the
// shell. One client connection is kept per host and reused by every
// command sent to it.
type SSHRunner struct {
	LocalShell

	cfg     SSHConfig
	auth    []ssh.AuthMethod
	hostKey ssh.HostKeyCallback
	limiter *rate.Limiter
	agent   net.Conn

	mu      sync.Mutex
	clients map[string]*ssh.Client
}

// NewSSHRunner prepares authentication and host key checking. Auth methods
// come from the SSH agent at SSH_AUTH_SOCK and from the identity files.
func NewSSHRunner(cfg SSHConfig) (*SSHRunner, error) {
	if cfg.Port == 0 {
		cfg.Port = 22
	}
	if cfg.DialTimeout == 0 {
		cfg.DialTimeout = defaults.SSHDialTimeout
	}

	r := &SSHRunner{
		LocalShell: LocalShell{Dir: cfg.LocalDir},
		cfg:        cfg,
		clients:    make(map[string]*ssh.Client),
	}

	if cfg.DialRate > 0 {
		r.limiter = rate.NewLimiter(rate.Limit(cfg.DialRate), defaults.SSHDialBurst)
	}

	hostKey, err := hostKeyCallback(cfg)
	if err != nil {
		return nil, err
	}
	r.hostKey = hostKey

	if sock := os.Getenv("SSH_AUTH_SOCK"); sock != "" {
		conn, err := net.Dial("unix", sock)
		if err != nil {
			slog.Warn("ssh agent unavailable", "socket", sock, "error", err)
		} else {
			r.agent = conn
			r.auth = append(r.auth, ssh.PublicKeysCallback(agent.NewClient(conn).Signers))
		}
	}

	var signers []ssh.Signer
	for _, path := range cfg.IdentityFiles {
		key, err := os.ReadFile(path)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrCodeInvalidRequest, fmt.Sprintf("failed to read identity %s", path), err)
		}
		signer, err := ssh.ParsePrivateKey(key)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrCodeInvalidRequest, fmt.Sprintf("failed to parse identity %s", path), err)
		}
		signers = append(signers, signer)
	}
	if len(signers) > 0 {
		r.auth = append(r.auth, ssh.PublicKeys(signers...))
	}

	if len(r.auth) == 0 {
		return nil, apperrors.New(apperrors.ErrCodeInvalidRequest, "no ssh credentials: start an ssh agent or pass an identity file")
	}

	return r, nil
}

func hostKeyCallback(cfg SSHConfig) (ssh.HostKeyCallback, error) {
	switch cfg.HostKeyPolicy {
	case HostKeyNone, "":
		return ssh.InsecureIgnoreHostKey(), nil //nolint:gosec // opt-in lab policy
	case HostKeyStrict:
		path := cfg.KnownHostsFile
		if path == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return nil, apperrors.Wrap(apperrors.ErrCodeInvalidRequest, "cannot locate known_hosts", err)
			}
			path = filepath.Join(home, ".ssh", "known_hosts")
		}
		cb, err := knownhosts.New(path)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrCodeInvalidRequest, fmt.Sprintf("failed to load %s", path), err)
		}
		return cb, nil
	default:
		return nil, apperrors.New(apperrors.ErrCodeInvalidRequest, fmt.Sprintf("unknown host key policy %q", cfg.HostKeyPolicy))
	}
}

func (r *SSHRunner) client(ctx context.Context, t Target) (*ssh.Client, error) {
	addr := net.JoinHostPort(t.Address, fmt.Sprint(r.cfg.Port))
	key := t.User + "@" + addr

	r.mu.Lock()
	if c, ok := r.clients[key]; ok {
		r.mu.Unlock()
		return c, nil
	}
	r.mu.Unlock()

	if r.limiter != nil {
		if err := r.limiter.Wait(ctx); err != nil {
			return nil, apperrors.Wrap(apperrors.ErrCodeRemoteCommandFailed, "dial cancelled", err)
		}
	}

	dialer := net.Dialer{Timeout: r.cfg.DialTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, apperrors.WrapWithContext(apperrors.ErrCodeRemoteCommandFailed,
			fmt.Sprintf("failed to connect to %s", t.Name), err, map[string]any{"address": addr})
	}

	sshConn, chans, reqs, err := ssh.NewClientConn(conn, addr, &ssh.ClientConfig{
		User:            t.User,
		Auth:            r.auth,
		HostKeyCallback: r.hostKey,
		Timeout:         r.cfg.DialTimeout,
	})
	if err != nil {
		conn.Close()
		return nil, apperrors.WrapWithContext(apperrors.ErrCodeRemoteCommandFailed,
			fmt.Sprintf("ssh handshake with %s failed", t.Name), err, map[string]any{"address": addr})
	}
	c := ssh.NewClient(sshConn, chans, reqs)

	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.clients[key]; ok {
		c.Close()
		return existing, nil
	}
	r.clients[key] = c
	return c, nil
}

// Run executes command in a new session on t. Cancelling ctx sends SIGTERM
// to the remote process and closes the session.
func (r *SSHRunner) Run(ctx context.Context, t Target, command string) (*Result, error) {
	c, err := r.client(ctx, t)
	if err != nil {
		return nil, err
	}

	sess, err := c.NewSession()
	if err != nil {
		r.drop(t, c)
		return nil, apperrors.Wrap(apperrors.ErrCodeRemoteCommandFailed,
			fmt.Sprintf("failed to open session on %s", t.Name), err)
	}
	defer sess.Close()

	var stdout, stderr bytes.Buffer
	sess.Stdout = &stdout
	sess.Stderr = &stderr

	slog.Debug("running remote command", "host", t.Name, "command", command)

	start := time.Now()
	done := make(chan error, 1)
	go func() { done <- sess.Run(command) }()

	select {
	case <-ctx.Done():
		_ = sess.Signal(ssh.SIGTERM)
		_ = sess.Close()
		return nil, apperrors.Wrap(apperrors.ErrCodeRemoteCommandFailed,
			fmt.Sprintf("command on %s interrupted", t.Name), ctx.Err())
	case err = <-done:
	}

	res := &Result{
		Stdout:   stdout.Bytes(),
		Stderr:   stderr.Bytes(),
		Duration: time.Since(start),
	}
	if err == nil {
		return res, nil
	}

	var exitErr *ssh.ExitError
	if stderrors.As(err, &exitErr) {
		res.ExitCode = exitErr.ExitStatus()
		return res, commandError(t.Name, command, res, err)
	}
	res.ExitCode = -1
	r.drop(t, c)
	return res, commandError(t.Name, command, res, err)
}

func (r *SSHRunner) drop(t Target, c *ssh.Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for k, v := range r.clients {
		if v == c {
			delete(r.clients, k)
		}
	}
	c.Close()
	slog.Debug("dropped ssh connection", "host", t.Name)
}

// Close terminates every cached connection and the agent socket.
func (r *SSHRunner) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var errs []error
	for k, c := range r.clients {
		if err := c.Close(); err != nil && !stderrors.Is(err, net.ErrClosed) {
			errs = append(errs, err)
		}
		delete(r.clients, k)
	}
	if r.agent != nil {
		if err := r.agent.Close(); err != nil {
			errs = append(errs, err)
		}
		r.agent = nil
	}
	return stderrors.Join(errs...)
}
