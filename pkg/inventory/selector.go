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

package inventory

import (
	"fmt"
	"strings"

	"github.com/vsq/nix-homelab/pkg/errors"
)

const rolePrefix = "role="

// Selector picks hosts out of an inventory. At most one of Names and Role
// is set; the zero value selects every host.
type Selector struct {
	Names []string
	Role  string
}

// ParseSelector accepts "" (all hosts), "role=<tag>" or a comma separated
// list of hostnames. A role prefix without a tag or a list made only of
// separators is INVALID_REQUEST rather than every host.
func ParseSelector(s string) (Selector, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Selector{}, nil
	}
	if strings.HasPrefix(s, rolePrefix) {
		role := strings.TrimSpace(strings.TrimPrefix(s, rolePrefix))
		if role == "" {
			return Selector{}, errors.New(errors.ErrCodeInvalidRequest, "role selector needs a tag")
		}
		return Selector{Role: role}, nil
	}

	var names []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			names = append(names, p)
		}
	}
	if len(names) == 0 {
		return Selector{}, errors.New(errors.ErrCodeInvalidRequest, fmt.Sprintf("no hostname in %q", s))
	}
	return Selector{Names: names}, nil
}

// ByRole selects hosts carrying role.
func ByRole(role string) Selector {
	return Selector{Role: role}
}

// IsEmpty reports whether the selector selects every host.
func (s Selector) IsEmpty() bool {
	return len(s.Names) == 0 && s.Role == ""
}

func (s Selector) String() string {
	switch {
	case s.Role != "":
		return rolePrefix + s.Role
	case len(s.Names) > 0:
		return strings.Join(s.Names, ",")
	default:
		return "all"
	}
}
