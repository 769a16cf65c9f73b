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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	h := New(WithKind(KindDeploymentRun), WithMetadata("version", "v0.3.0"))

	assert.Equal(t, KindDeploymentRun, h.Kind)
	assert.Equal(t, APIVersion, h.APIVersion)
	assert.Equal(t, "v0.3.0", h.Metadata["version"])

	_, err := time.Parse(time.RFC3339, h.Metadata["timestamp"])
	require.NoError(t, err)
}

func TestWithMetadataInitializesMap(t *testing.T) {
	h := &Header{}
	WithMetadata("run", "abc")(h)
	assert.Equal(t, map[string]string{"run": "abc"}, h.Metadata)
}
