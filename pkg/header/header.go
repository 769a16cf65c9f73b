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

package header

import (
	"time"
)

// APIVersion is the schema version of every structured document homelab
// prints.
const APIVersion = "homelab.vsq.dev/v1"

// Kind is the type of a structured document.
type Kind string

// Document kinds.
const (
	KindDeploymentRun   Kind = "DeploymentRun"
	KindDiscoveryReport Kind = "DiscoveryReport"
	KindHostList        Kind = "HostList"
)

func (k Kind) String() string {
	return string(k)
}

// Option configures a Header.
type Option func(*Header)

// WithMetadata adds a metadata entry.
func WithMetadata(key, value string) Option {
	return func(h *Header) {
		if h.Metadata == nil {
			h.Metadata = make(map[string]string)
		}
		h.Metadata[key] = value
	}
}

// WithKind sets the kind.
func WithKind(kind Kind) Option {
	return func(h *Header) {
		h.Kind = kind
	}
}

// New returns a Header for APIVersion stamped with the current time.
func New(opts ...Option) *Header {
	h := &Header{
		APIVersion: APIVersion,
		Metadata: map[string]string{
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Header identifies a structured document with Kubernetes-style kind,
// apiVersion and metadata fields.
type Header struct {
	Kind       Kind              `json:"kind,omitempty" yaml:"kind,omitempty"`
	APIVersion string            `json:"apiVersion,omitempty" yaml:"apiVersion,omitempty"`
	Metadata   map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}
