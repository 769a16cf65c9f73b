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
	"encoding/xml"
	"strconv"

	apperrors "github.com/vsq/nix-homelab/pkg/errors"
)

// redactedServiceAttrs never leave the scanner. They identify exact
// software versions and scan fingerprints.
var redactedServiceAttrs = map[string]bool{
	"version":   true,
	"servicefp": true,
	"method":    true,
	"conf":      true,
}

type nmapRun struct {
	XMLName xml.Name   `xml:"nmaprun"`
	Hosts   []nmapHost `xml:"host"`
}

type nmapHost struct {
	Ports *nmapPorts `xml:"ports"`
}

type nmapPorts struct {
	Ports []nmapPort `xml:"port"`
}

// nmapPort omits <state> and the <cpe> children of <service>; the decoder
// drops them.
type nmapPort struct {
	Protocol string       `xml:"protocol,attr"`
	PortID   string       `xml:"portid,attr"`
	Service  *nmapService `xml:"service"`
}

type nmapService struct {
	Attrs []xml.Attr `xml:",any,attr"`
}

func (s *nmapService) retained() map[string]string {
	out := make(map[string]string)
	if s == nil {
		return out
	}
	for _, a := range s.Attrs {
		if redactedServiceAttrs[a.Name.Local] {
			continue
		}
		out[a.Name.Local] = a.Value
	}
	return out
}

// ParseNmapXML decodes nmap -oX output into redacted service entries.
// Output without a host or port list is reported as malformed; a port list
// with no open port yields no entries.
func ParseNmapXML(data []byte) ([]ServiceEntry, error) {
	var run nmapRun
	if err := xml.Unmarshal(data, &run); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeMalformedArtifact, "invalid nmap xml", err)
	}

	var ports []nmapPort
	found := false
	for _, h := range run.Hosts {
		if h.Ports != nil {
			found = true
			ports = append(ports, h.Ports.Ports...)
		}
	}
	if !found {
		return nil, apperrors.New(apperrors.ErrCodeMalformedArtifact, "nmap output has no port list")
	}

	entries := make([]ServiceEntry, 0, len(ports))
	for _, p := range ports {
		id, err := strconv.Atoi(p.PortID)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrCodeMalformedArtifact, "invalid port id "+strconv.Quote(p.PortID), err)
		}
		attrs := p.Service.retained()
		entries = append(entries, ServiceEntry{
			Port:      id,
			Protocol:  p.Protocol,
			Service:   attrs["name"],
			Product:   attrs["product"],
			ExtraInfo: attrs["extrainfo"],
		})
	}
	return entries, nil
}
