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

// Package docs turns discovery results into human-maintained markdown.
//
// Every host owns docs/hosts/<host>.md. Only the text between
//
//	<!-- BEGIN HOSTINFOS -->
//	<!-- END HOSTINFOS -->
//
// is generated; everything around it belongs to whoever edits the page and
// is kept byte for byte. Regenerating with unchanged results leaves the
// file untouched. The structured digest of the host is written next to the
// page as docs/hosts/<host>/summaries.json and is replaced on every run.
//
// The fleet page docs/hosts/README.md carries a HOSTSLIST region with one
// row per host.
package docs
