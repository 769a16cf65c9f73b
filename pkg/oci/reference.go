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

package oci

import (
	"fmt"
	"strings"

	"github.com/distribution/reference"

	apperrors "github.com/vsq/nix-homelab/pkg/errors"
)

// URIScheme is the URI scheme for registry targets (e.g. "oci://ghcr.io/org/repo:tag").
const URIScheme = "oci://"

// Reference is a parsed publish target: an OCI registry reference or a
// local directory receiving an OCI image layout.
type Reference struct {
	// IsOCI is true for registry targets.
	IsOCI bool
	// Registry is the registry host (e.g. "ghcr.io", "localhost:5000").
	Registry string
	// Repository is the repository path (e.g. "vsq/homelab-docs").
	Repository string
	// Tag is empty when the target carried none.
	Tag string
	// LocalPath is set for non-OCI targets.
	LocalPath string
}

// ParseOutputTarget parses an oci:// URI or treats target as a local directory.
func ParseOutputTarget(target string) (*Reference, error) {
	if !strings.HasPrefix(target, URIScheme) {
		if strings.TrimSpace(target) == "" {
			return nil, apperrors.New(apperrors.ErrCodeInvalidRequest, "publish target is empty")
		}
		return &Reference{LocalPath: target}, nil
	}

	ref, err := reference.ParseNormalizedNamed(strings.TrimPrefix(target, URIScheme))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidRequest, "invalid OCI reference", err)
	}

	var tag string
	if tagged, ok := ref.(reference.Tagged); ok {
		tag = tagged.Tag()
	}

	registry, repository := reference.Domain(ref), reference.Path(ref)
	if err := ValidateRegistryReference(registry, repository); err != nil {
		return nil, err
	}

	return &Reference{
		IsOCI:      true,
		Registry:   registry,
		Repository: repository,
		Tag:        tag,
	}, nil
}

// ValidateRegistryReference checks that registry and repository form a
// valid image name.
func ValidateRegistryReference(registry, repository string) error {
	if registry == "" || repository == "" {
		return apperrors.New(apperrors.ErrCodeInvalidRequest, "registry and repository are required")
	}
	name := stripProtocol(registry) + "/" + repository
	if _, err := reference.ParseNormalizedNamed(name); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInvalidRequest, fmt.Sprintf("invalid repository %q", name), err)
	}
	return nil
}

// String returns the target as given on the command line.
func (r *Reference) String() string {
	if !r.IsOCI {
		return r.LocalPath
	}
	return URIScheme + r.ImageReference()
}

// ImageReference returns registry/repository[:tag], or "" for local targets.
func (r *Reference) ImageReference() string {
	if !r.IsOCI {
		return ""
	}
	if r.Tag == "" {
		return r.Registry + "/" + r.Repository
	}
	return r.Registry + "/" + r.Repository + ":" + r.Tag
}

// WithTag returns a copy of r with tag set.
func (r *Reference) WithTag(tag string) *Reference {
	out := *r
	out.Tag = tag
	return &out
}
