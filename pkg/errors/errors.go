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
	stderrors "errors"
	"fmt"
)

// ErrorCode represents a structured error classification.
type ErrorCode string

const (
	// ErrCodeUnknownHost indicates a selected hostname is absent from the inventory.
	ErrCodeUnknownHost ErrorCode = "UNKNOWN_HOST"
	// ErrCodeUnsupportedOS indicates a host's OS tag has no scan profile.
	ErrCodeUnsupportedOS ErrorCode = "UNSUPPORTED_OS"
	// ErrCodeHostUnreachable indicates the liveness probe failed for a host.
	ErrCodeHostUnreachable ErrorCode = "HOST_UNREACHABLE"
	// ErrCodeRemoteCommandFailed indicates a command exited non-zero or could not be started.
	ErrCodeRemoteCommandFailed ErrorCode = "REMOTE_COMMAND_FAILED"
	// ErrCodeArtifactMissing indicates an expected discovery artifact does not exist.
	ErrCodeArtifactMissing ErrorCode = "ARTIFACT_MISSING"
	// ErrCodeParsePatternMismatch indicates a text pattern found nothing to extract.
	ErrCodeParsePatternMismatch ErrorCode = "PARSE_PATTERN_MISMATCH"
	// ErrCodeMalformedArtifact indicates structured output could not be decoded.
	ErrCodeMalformedArtifact ErrorCode = "MALFORMED_STRUCTURED_ARTIFACT"
	// ErrCodeInvalidInventory indicates the inventory file is unreadable or inconsistent.
	ErrCodeInvalidInventory ErrorCode = "INVALID_INVENTORY"
	// ErrCodeInvalidRequest indicates malformed or invalid input.
	ErrCodeInvalidRequest ErrorCode = "INVALID_REQUEST"
	// ErrCodeInternal indicates an internal system error.
	ErrCodeInternal ErrorCode = "INTERNAL"
)

// StructuredError provides structured error information for better observability.
// It includes an error code for programmatic handling, a human-readable message,
// the underlying cause, and optional context for debugging.
type StructuredError struct {
	Code    ErrorCode
	Message string
	Cause   error
	Context map[string]any
}

// Error implements the error interface.
func (e *StructuredError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is and errors.As support.
func (e *StructuredError) Unwrap() error {
	return e.Cause
}

// New creates a new StructuredError with the given code and message.
func New(code ErrorCode, message string) *StructuredError {
	return &StructuredError{
		Code:    code,
		Message: message,
	}
}

// NewWithContext creates a new StructuredError with context information.
func NewWithContext(code ErrorCode, message string, context map[string]any) *StructuredError {
	return &StructuredError{
		Code:    code,
		Message: message,
		Context: context,
	}
}

// Wrap wraps an existing error with additional context.
func Wrap(code ErrorCode, message string, cause error) *StructuredError {
	return &StructuredError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// WrapWithContext wraps an error with additional context information.
func WrapWithContext(code ErrorCode, message string, cause error, context map[string]any) *StructuredError {
	return &StructuredError{
		Code:    code,
		Message: message,
		Cause:   cause,
		Context: context,
	}
}

// CodeOf returns the code of the outermost StructuredError in the chain,
// or an empty code when there is none.
func CodeOf(err error) ErrorCode {
	var se *StructuredError
	if stderrors.As(err, &se) {
		return se.Code
	}
	return ""
}

// HasCode reports whether any StructuredError in the chain carries code.
func HasCode(err error, code ErrorCode) bool {
	for err != nil {
		var se *StructuredError
		if !stderrors.As(err, &se) {
			return false
		}
		if se.Code == code {
			return true
		}
		err = se.Cause
	}
	return false
}

// IsFatal reports whether err must abort a run before any remote work starts.
func IsFatal(err error) bool {
	switch CodeOf(err) {
	case ErrCodeUnknownHost, ErrCodeUnsupportedOS, ErrCodeInvalidInventory, ErrCodeInvalidRequest:
		return true
	default:
		return false
	}
}
