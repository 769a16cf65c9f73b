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

// Package oci publishes the generated host documentation as an OCI artifact.
//
// The docs hosts directory (pages, raw artifacts, summaries.json sidecars and
// checksums.txt) is archived as one reproducible gzip layer under the
// artifact type "application/vnd.homelab.discovery.artifact". Publish either
// writes an OCI image layout to a local directory or pushes it to a registry:
//
//	ref, err := oci.ParseOutputTarget("oci://ghcr.io/vsq/homelab-docs:2024-06")
//	if err != nil {
//	    return err
//	}
//	res, err := oci.Publish(ctx, oci.PublishOptions{
//	    SourceDir: "docs/hosts",
//	    Target:    ref,
//	})
//
// Registry credentials come from the Docker configuration
// (~/.docker/config.json) through the ORAS credentials package.
package oci
