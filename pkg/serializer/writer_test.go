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

package serializer

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriterFormats(t *testing.T) {
	data := sample{Name: "alpha", Roles: []string{"web"}}

	tests := []struct {
		format   Format
		contains []string
	}{
		{FormatJSON, []string{`"name": "alpha"`, `"web"`}},
		{FormatYAML, []string{"name: alpha", "- web"}},
		{FormatTable, []string{"FIELD", "Name", "alpha", "Roles.[0]"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, NewWriter(tt.format, &buf).Serialize(context.Background(), data))
			for _, want := range tt.contains {
				assert.Contains(t, buf.String(), want)
			}
		})
	}
}

func TestNewWriterUnknownFormatDefaultsToJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewWriter(Format("csv"), &buf).Serialize(context.Background(), map[string]int{"a": 1}))
	assert.Contains(t, buf.String(), `"a": 1`)
}

func TestNewFileWriterOrStdout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")

	ser := NewFileWriterOrStdout(FormatYAML, path)
	require.NoError(t, ser.Serialize(context.Background(), sample{Name: "alpha"}))
	closer, ok := ser.(Closer)
	require.True(t, ok)
	require.NoError(t, closer.Close())

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(got), "name: alpha")
}

func TestNewFileWriterOrStdoutFallsBack(t *testing.T) {
	tests := []struct {
		name string
		path string
	}{
		{"empty path", "  "},
		{"unwritable path", filepath.Join(t.TempDir(), "missing", "run.json")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, ok := NewFileWriterOrStdout(FormatJSON, tt.path).(*Writer)
			require.True(t, ok)
			assert.Equal(t, os.Stdout, w.output)
			assert.Nil(t, w.closer)
		})
	}
}

func TestWriteToFileReplacesContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "summaries.json")

	require.NoError(t, WriteToFile(path, []byte("first")))
	require.NoError(t, WriteToFile(path, []byte("second")))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(got))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files must not be left behind")
}

func TestMarshal(t *testing.T) {
	out, err := Marshal(FormatJSON, sample{Name: "x"})
	require.NoError(t, err)
	assert.Contains(t, string(out), `"name": "x"`)
}
