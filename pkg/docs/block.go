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

package docs

import (
	"fmt"
	"strings"

	apperrors "github.com/vsq/nix-homelab/pkg/errors"
)

// Markers returns the begin and end comments delimiting a generated region.
func Markers(name string) (begin, end string) {
	return "<!-- BEGIN " + name + " -->", "<!-- END " + name + " -->"
}

func region(begin, end, block string) string {
	block = strings.Trim(block, "\n")
	if block == "" {
		return begin + "\n" + end
	}
	return begin + "\n" + block + "\n" + end
}

// ReplaceBlock replaces the text between the begin and end markers of
// region name with block, leaving everything outside untouched. A document
// without the region gets it appended. Applying the same block twice
// yields identical content.
func ReplaceBlock(content, name, block string) (string, error) {
	begin, end := Markers(name)

	nb, ne := strings.Count(content, begin), strings.Count(content, end)
	switch {
	case nb == 0 && ne == 0:
		prefix := strings.TrimRight(content, "\n")
		if prefix != "" {
			prefix += "\n\n"
		}
		return prefix + region(begin, end, block) + "\n", nil
	case nb != 1 || ne != 1:
		return "", apperrors.NewWithContext(apperrors.ErrCodeInvalidRequest,
			fmt.Sprintf("region %s must appear exactly once", name),
			map[string]any{"begin_markers": nb, "end_markers": ne})
	}

	bi := strings.Index(content, begin)
	ei := strings.Index(content, end)
	if ei < bi {
		return "", apperrors.New(apperrors.ErrCodeInvalidRequest, fmt.Sprintf("region %s ends before it begins", name))
	}

	return content[:bi] + region(begin, end, block) + content[ei+len(end):], nil
}
