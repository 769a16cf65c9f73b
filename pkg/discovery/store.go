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
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/vsq/nix-homelab/pkg/catalog"
	apperrors "github.com/vsq/nix-homelab/pkg/errors"
	"github.com/vsq/nix-homelab/pkg/serializer"
)

// Store persists step artifacts under <root>/<host>/<step>.<ext>.
type Store struct {
	root string
}

// NewStore returns a Store rooted at the hosts documentation directory.
func NewStore(root string) *Store {
	return &Store{root: root}
}

// HostDir returns the artifact directory of host.
func (s *Store) HostDir(host string) string {
	return filepath.Join(s.root, host)
}

// Path returns where the artifact of step is kept for host, or "" when the
// step persists nothing.
func (s *Store) Path(host string, step catalog.ScanStep) string {
	name := step.OutputName()
	if name == "" {
		return ""
	}
	return filepath.Join(s.HostDir(host), name)
}

// Write replaces the stored artifact of step for host.
func (s *Store) Write(host string, step catalog.ScanStep, data []byte) (string, error) {
	path := s.Path(host, step)
	if path == "" {
		return "", apperrors.New(apperrors.ErrCodeInternal, fmt.Sprintf("step %s has no artifact", step.Kind))
	}
	if err := serializer.WriteToFile(path, data); err != nil {
		return "", apperrors.Wrap(apperrors.ErrCodeInternal, fmt.Sprintf("failed to store %s artifact", step.Kind), err)
	}
	return path, nil
}

// Remove deletes the stored artifact of step for host, if any.
func (s *Store) Remove(host string, step catalog.ScanStep) error {
	path := s.Path(host, step)
	if path == "" {
		return nil
	}
	if err := os.Remove(path); err != nil && !stderrors.Is(err, fs.ErrNotExist) {
		return apperrors.Wrap(apperrors.ErrCodeInternal, fmt.Sprintf("failed to remove %s", path), err)
	}
	return nil
}

// Read loads the stored artifact of step for host.
func (s *Store) Read(host string, step catalog.ScanStep) (*Artifact, error) {
	path := s.Path(host, step)
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, apperrors.NewWithContext(apperrors.ErrCodeArtifactMissing,
				fmt.Sprintf("no %s artifact for %s", step.Kind, host), map[string]any{"path": path})
		}
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, fmt.Sprintf("failed to read %s", path), err)
	}
	return &Artifact{Step: step.Kind, Kind: step.Artifact, Data: data}, nil
}
