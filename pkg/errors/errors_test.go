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

package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeUnknownHost, "host not in inventory")

	if err.Code != ErrCodeUnknownHost {
		t.Errorf("expected code %s, got %s", ErrCodeUnknownHost, err.Code)
	}
	if err.Message != "host not in inventory" {
		t.Errorf("expected message 'host not in inventory', got %s", err.Message)
	}
	if err.Cause != nil {
		t.Errorf("expected nil cause, got %v", err.Cause)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("exit status 1")
	err := Wrap(ErrCodeRemoteCommandFailed, "rebuild failed", cause)

	if err.Code != ErrCodeRemoteCommandFailed {
		t.Errorf("expected code %s, got %s", ErrCodeRemoteCommandFailed, err.Code)
	}
	if !errors.Is(err, cause) {
		t.Errorf("expected cause to be wrapped")
	}
}

func TestWrapWithContext(t *testing.T) {
	cause := errors.New("connection refused")
	ctx := map[string]any{
		"command": "lscpu",
		"host":    "alpha",
	}

	err := WrapWithContext(ErrCodeRemoteCommandFailed, "cpu probe failed", cause, ctx)

	if err.Context == nil {
		t.Fatal("expected context to be set")
	}
	if err.Context["host"] != "alpha" {
		t.Errorf("expected host to be alpha")
	}
}

func TestError(t *testing.T) {
	tests := []struct {
		name     string
		err      *StructuredError
		expected string
	}{
		{
			name:     "error without cause",
			err:      New(ErrCodeUnsupportedOS, "no profile for Plan9"),
			expected: "[UNSUPPORTED_OS] no profile for Plan9",
		},
		{
			name:     "error with cause",
			err:      Wrap(ErrCodeInternal, "failed", errors.New("root cause")),
			expected: "[INTERNAL] failed: root cause",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.err.Error()
			if got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestHasCode(t *testing.T) {
	inner := New(ErrCodeMalformedArtifact, "bad xml")
	outer := Wrap(ErrCodeInternal, "scan step", inner)
	wrapped := fmt.Errorf("host beta: %w", outer)

	tests := []struct {
		name string
		err  error
		code ErrorCode
		want bool
	}{
		{"outer code", wrapped, ErrCodeInternal, true},
		{"inner code", wrapped, ErrCodeMalformedArtifact, true},
		{"absent code", wrapped, ErrCodeUnknownHost, false},
		{"plain error", errors.New("x"), ErrCodeInternal, false},
		{"nil", nil, ErrCodeInternal, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HasCode(tt.err, tt.code); got != tt.want {
				t.Errorf("HasCode() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsFatal(t *testing.T) {
	tests := []struct {
		code ErrorCode
		want bool
	}{
		{ErrCodeUnknownHost, true},
		{ErrCodeUnsupportedOS, true},
		{ErrCodeInvalidInventory, true},
		{ErrCodeInvalidRequest, true},
		{ErrCodeHostUnreachable, false},
		{ErrCodeRemoteCommandFailed, false},
		{ErrCodeArtifactMissing, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			if got := IsFatal(New(tt.code, "x")); got != tt.want {
				t.Errorf("IsFatal(%s) = %v, want %v", tt.code, got, tt.want)
			}
		})
	}
}
