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

// Package errors provides structured error types for better observability
// and programmatic error handling across the application.
//
// Codes split into two groups. UNKNOWN_HOST, UNSUPPORTED_OS and
// INVALID_INVENTORY abort a run before any host is contacted (see IsFatal).
// Every other code is confined to the outcome of the host it happened on.
//
// Example usage:
//
//	err := errors.WrapWithContext(
//	    errors.ErrCodeRemoteCommandFailed,
//	    "hardware probe failed",
//	    cause,
//	    map[string]any{
//	        "command": "inxi",
//	        "host": hostname,
//	    },
//	)
package errors
