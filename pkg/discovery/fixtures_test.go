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

const lscpuOutput = `Architecture:                    x86_64
CPU op-mode(s):                  32-bit, 64-bit
Byte Order:                      Little Endian
CPU(s):                          4
On-line CPU(s) list:             0-3
Vendor ID:                       GenuineIntel
Model name:                      Intel(R) Core(TM) i5-7500 CPU @ 3.40GHz
BogoMIPS:                        6799.81
NUMA node0 CPU(s):               0-3
`

const inxiOutput = `System: Host: alpha Kernel: 6.1.55 arch: x86_64 bits: 64 compiler: gcc v: 12.3.0 Console: pty pts/0 Distro: NixOS 23.11 (Tapir)
Machine: Type: Desktop System: Dell product: OptiPlex 7050 v: N/A serial: <filter>
CPU: Info: quad core model: Intel Core i5-7500 bits: 64 type: MCP arch: Kaby Lake rev: 9 cache: L1: 256 KiB
Memory: RAM: total: 16.00 GiB used: 3.21 GiB (20.1%)
Drives: Local Storage: total: 931.51 GiB used: 120.33 GiB (12.9%)
  ID-1: /dev/sda maj-min: 8:0 vendor: Samsung model: SSD 860 path: \\?\PHYSICALDRIVE0
`

const nmapOutput = `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE nmaprun>
<nmaprun scanner="nmap" args="nmap --version-intensity 0 -sV 192.168.1.10 -oX -" version="7.94">
<host starttime="1700000000" endtime="1700000010"><status state="up" reason="syn-ack"/>
<address addr="192.168.1.10" addrtype="ipv4"/>
<ports><extraports state="closed" count="998"/>
<port protocol="tcp" portid="22"><state state="open" reason="syn-ack" reason_ttl="0"/><service name="ssh" product="OpenSSH" version="9.3" extrainfo="protocol 2.0" ostype="Linux" method="probed" conf="10"><cpe>cpe:/a:openbsd:openssh:9.3</cpe><cpe>cpe:/o:linux:linux_kernel</cpe></service></port>
<port protocol="tcp" portid="80"><state state="open" reason="syn-ack" reason_ttl="0"/><service name="http" product="nginx" version="1.24.0" servicefp="SF-Port80-TCP:V=7.94%I=0" method="probed" conf="10"/></port>
</ports>
</host>
</nmaprun>
`

const nmapNoPorts = `<?xml version="1.0"?>
<nmaprun scanner="nmap"><host><status state="up"/></host></nmaprun>
`

const nmapClosedPorts = `<?xml version="1.0"?>
<nmaprun scanner="nmap"><host><status state="up"/><ports><extraports state="closed" count="1000"/></ports></host></nmaprun>
`

const svgOutput = `<?xml version="1.0" encoding="UTF-8"?>
<svg width="800" height="600" xmlns="http://www.w3.org/2000/svg"><rect/></svg>
`

const nixInfoOutput = ` - system: "x86_64-linux"
 - host os: Linux 6.1.55, NixOS, 23.11 (Tapir)
 - nix version: nix-env (Nix) 2.18.1
`
