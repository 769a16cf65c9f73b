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

package version

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVersion(t *testing.T) {
	tests := []struct {
		input   string
		want    Version
		wantErr error
	}{
		{input: "1", want: Version{Major: 1, Precision: 1}},
		{input: "v1.2", want: Version{Major: 1, Minor: 2, Precision: 2}},
		{input: "1.2.3", want: Version{Major: 1, Minor: 2, Patch: 3, Precision: 3}},
		{input: "v0.3.0-rc.1", want: Version{Minor: 3, Precision: 3, Extras: "-rc.1"}},
		{input: "1.2.3+abc", want: Version{Major: 1, Minor: 2, Patch: 3, Precision: 3, Extras: "+abc"}},
		{input: "", wantErr: ErrEmptyVersion},
		{input: "1.2.3.4", wantErr: ErrTooManyComponents},
		{input: "1..2", wantErr: ErrNonNumeric},
		{input: "dev", wantErr: ErrNonNumeric},
		{input: "-1", wantErr: ErrNonNumeric},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseVersion(tt.input)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestInfoTag(t *testing.T) {
	assert.Equal(t, "v0.3.0", Info{Version: "0.3.0"}.Tag())
	assert.Equal(t, "v1.2.0-rc.1", Info{Version: "v1.2.0-rc.1"}.Tag())
	assert.Empty(t, Info{Version: "dev"}.Tag())
	assert.Contains(t, Info{Version: "v1", Commit: "abc", Date: "today"}.String(), "commit abc")
}
