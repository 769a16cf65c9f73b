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
	"fmt"
	"runtime/debug"
	"strconv"
	"strings"
)

// Build metadata, set at link time:
//
//	-ldflags "-X github.com/vsq/nix-homelab/pkg/version.version=v0.3.0 -X ...commit=abc123 -X ...date=2024-06-01"
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Error types for version parsing failures.
var (
	ErrEmptyVersion      = errors.New("version string is empty")
	ErrTooManyComponents = errors.New("version has more than 3 components")
	ErrNonNumeric        = errors.New("version component is not numeric")
)

// Info describes the running binary.
type Info struct {
	Version string `json:"version" yaml:"version"`
	Commit  string `json:"commit" yaml:"commit"`
	Date    string `json:"date" yaml:"date"`
}

// Get returns the build metadata, falling back to the module version
// recorded by the Go toolchain when no ldflags were given.
func Get() Info {
	info := Info{Version: version, Commit: commit, Date: date}
	if info.Version == "dev" {
		if bi, ok := debug.ReadBuildInfo(); ok && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
			info.Version = bi.Main.Version
		}
	}
	return info
}

// String renders the metadata for --version output.
func (i Info) String() string {
	return fmt.Sprintf("%s (commit %s, built %s)", i.Version, i.Commit, i.Date)
}

// Tag returns a registry tag for the version, or "" for development builds.
func (i Info) Tag() string {
	v, err := ParseVersion(i.Version)
	if err != nil {
		return ""
	}
	return "v" + v.String() + v.Extras
}

// Version is a parsed MAJOR[.MINOR[.PATCH]] release number. Precision
// records how many components were given.
type Version struct {
	Major     int    `json:"major" yaml:"major"`
	Minor     int    `json:"minor" yaml:"minor"`
	Patch     int    `json:"patch" yaml:"patch"`
	Precision int    `json:"precision" yaml:"precision"`
	Extras    string `json:"extras,omitempty" yaml:"extras,omitempty"`
}

// String returns the version at its precision, without extras.
func (v Version) String() string {
	switch v.Precision {
	case 1:
		return strconv.Itoa(v.Major)
	case 2:
		return fmt.Sprintf("%d.%d", v.Major, v.Minor)
	default:
		return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
	}
}

// ParseVersion parses "1", "1.2", "v1.2.3", "1.2.3-rc.1" or "1.2.3+meta".
// Anything after a '-' or '+' that follows a digit is kept in Extras.
func ParseVersion(s string) (Version, error) {
	if s == "" {
		return Version{}, ErrEmptyVersion
	}
	s = strings.TrimPrefix(s, "v")

	var v Version
	core := s
	for i := 1; i < len(s); i++ {
		if (s[i] == '-' || s[i] == '+') && s[i-1] >= '0' && s[i-1] <= '9' {
			core, v.Extras = s[:i], s[i:]
			break
		}
	}

	parts := strings.Split(core, ".")
	if len(parts) > 3 {
		return Version{}, ErrTooManyComponents
	}
	for i, part := range parts {
		num, err := strconv.Atoi(part)
		if err != nil || num < 0 || strings.HasPrefix(part, "+") {
			return Version{}, fmt.Errorf("%w: %q", ErrNonNumeric, part)
		}
		switch i {
		case 0:
			v.Major = num
		case 1:
			v.Minor = num
		case 2:
			v.Patch = num
		}
	}
	v.Precision = len(parts)
	return v, nil
}
