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
	"context"
	"encoding/xml"
	"strings"
	"sync"

	apperrors "github.com/vsq/nix-homelab/pkg/errors"
	"github.com/vsq/nix-homelab/pkg/remote"
)

func xmlAttr(name, value string) xml.Attr {
	return xml.Attr{Name: xml.Name{Local: name}, Value: value}
}

// fakeRunner answers commands by substring match. Commands matching an
// entry of fail exit non-zero.
type fakeRunner struct {
	mu      sync.Mutex
	outputs map[string]string
	fail    map[string]bool
	calls   []string
}

func newFakeRunner() *fakeRunner {
	return &fakeRunner{
		outputs: map[string]string{
			"lscpu":    lscpuOutput,
			"inxi":     inxiOutput,
			"lstopo":   svgOutput,
			"nix-info": nixInfoOutput,
			"nmap":     nmapOutput,
		},
		fail: map[string]bool{},
	}
}

func (f *fakeRunner) answer(where, command string) (*remote.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, where+": "+command)

	for key, out := range f.outputs {
		if !strings.Contains(command, key) {
			continue
		}
		if f.fail[key] {
			res := &remote.Result{Stderr: []byte(key + ": command not found"), ExitCode: 127}
			return res, apperrors.New(apperrors.ErrCodeRemoteCommandFailed, key+": command not found")
		}
		return &remote.Result{Stdout: []byte(out)}, nil
	}
	return &remote.Result{}, nil
}

func (f *fakeRunner) Run(_ context.Context, t remote.Target, command string) (*remote.Result, error) {
	return f.answer(t.Name, command)
}

func (f *fakeRunner) RunLocal(_ context.Context, command string) (*remote.Result, error) {
	return f.answer("local", command)
}

type fakeProber map[string]bool

func (p fakeProber) Reachable(_ context.Context, address string) bool {
	return p[address]
}
