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

// Package inventory loads the fleet description and resolves host
// selectors against it.
//
// The inventory file keys hosts by name:
//
//	{
//	  "hosts": {
//	    "alpha": {"ipv4": "192.168.1.10", "os": "NixOS", "roles": ["web"]}
//	  }
//	}
//
// The loaded Inventory is a read-only snapshot. Host identity is the name;
// two hosts sharing an address are reported at load time and can be made
// fatal with Options.StrictAddresses.
package inventory
