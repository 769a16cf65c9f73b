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
	"math"
	"regexp"
	"strconv"
	"strings"
)

// gibToGB converts binary gigabytes to decimal ones.
const gibToGB = 1.073741824

var (
	reArch     = regexp.MustCompile(`Architecture:\s+(.*)`)
	reCPUCount = regexp.MustCompile(`CPU\(s\):\s+([0-9]+)`)
	reModel    = regexp.MustCompile(`Model name:\s+(.*)`)
	reBogoMIPS = regexp.MustCompile(`BogoMIPS:\s+([0-9]+)`)

	reMemory = regexp.MustCompile(`Memory:.*RAM: total: .*?([0-9]+\.[0-9]+) GiB`)
	reDisk   = regexp.MustCompile(`Local Storage:.*?total.*?: ([0-9]+\.[0-9]+ \w?iB)`)
	reBits   = regexp.MustCompile(`CPU: .*?bits: (.*?) \w+:`)
	reKernel = regexp.MustCompile(`System: .*?Kernel: ([0-9]+\.[0-9]+\.[0-9]+)`)
)

func firstGroup(re *regexp.Regexp, text string) string {
	m := re.FindStringSubmatch(text)
	if len(m) < 2 {
		return ""
	}
	return strings.TrimSpace(m[1])
}

// ParseCPU extracts the processor fields of an lscpu report.
func ParseCPU(text string) Summary {
	var s Summary
	s.CPU.Arch = firstGroup(reArch, text)
	s.CPU.Count = firstGroup(reCPUCount, text)
	s.CPU.Model = firstGroup(reModel, text)
	if v := firstGroup(reBogoMIPS, text); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			s.CPU.BogoMIPS = &n
		}
	}
	return s
}

// SanitizeHardware replaces backslashes, which inxi emits in device paths
// and which break markdown rendering.
func SanitizeHardware(text string) string {
	return strings.ReplaceAll(text, `\`, "~")
}

// ParseHardware extracts memory, disk, kernel and CPU width from an inxi
// report. The text is sanitized first.
func ParseHardware(text string) Summary {
	text = SanitizeHardware(text)

	var s Summary
	if v := firstGroup(reMemory, text); v != "" {
		if gib, err := strconv.ParseFloat(v, 64); err == nil {
			gb := int(math.Floor(gib * gibToGB))
			s.MemoryGB = &gb
		}
	}
	s.Disk = firstGroup(reDisk, text)
	s.CPU.Bits = firstGroup(reBits, text)
	s.Kernel = firstGroup(reKernel, text)
	return s
}
