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

package oci

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	ociv1 "github.com/opencontainers/image-spec/specs-go/v1"
	oras "oras.land/oras-go/v2"
	"oras.land/oras-go/v2/content/file"
	"oras.land/oras-go/v2/content/oci"
	"oras.land/oras-go/v2/registry/remote"
	"oras.land/oras-go/v2/registry/remote/auth"
	"oras.land/oras-go/v2/registry/remote/credentials"

	"github.com/vsq/nix-homelab/pkg/defaults"
	apperrors "github.com/vsq/nix-homelab/pkg/errors"
)

// ArtifactType is the media type of a published discovery archive.
const ArtifactType = "application/vnd.homelab.discovery.artifact"

// DefaultTag is used when neither the target nor the caller names a tag.
const DefaultTag = "latest"

// PackageOptions configures local packaging.
type PackageOptions struct {
	// SourceDir is the directory to archive.
	SourceDir string
	// OutputDir receives the OCI image layout.
	OutputDir string
	// Tag names the manifest inside the layout.
	Tag string
	// Annotations are added to the manifest.
	Annotations map[string]string
	// ReproducibleTimestamp pins the created annotation so identical
	// inputs produce identical digests.
	ReproducibleTimestamp string
}

// PackageResult describes a packaged artifact.
type PackageResult struct {
	Digest    string
	Tag       string
	StorePath string
}

// PushOptions configures a push to a registry.
type PushOptions struct {
	Registry    string
	Repository  string
	Tag         string
	PlainHTTP   bool
	InsecureTLS bool
}

// PushResult describes a pushed artifact.
type PushResult struct {
	// Digest is the manifest digest.
	Digest string
	// Reference is registry/repository:tag.
	Reference string
}

// Package archives SourceDir as a single gzip layer and writes the
// manifest into an OCI image layout at OutputDir.
func Package(ctx context.Context, opts PackageOptions) (*PackageResult, error) {
	if opts.Tag == "" {
		return nil, apperrors.New(apperrors.ErrCodeInvalidRequest, "tag is required to package an OCI artifact")
	}
	if opts.OutputDir == "" {
		return nil, apperrors.New(apperrors.ErrCodeInvalidRequest, "output directory is required")
	}

	src, err := filepath.Abs(opts.SourceDir)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, "failed to resolve source directory", err)
	}
	if info, statErr := os.Stat(src); statErr != nil || !info.IsDir() {
		return nil, apperrors.New(apperrors.ErrCodeInvalidRequest, fmt.Sprintf("source %s is not a directory", src))
	}

	fs, err := file.New(src)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, "failed to create file store", err)
	}
	defer func() { _ = fs.Close() }()
	fs.TarReproducible = true

	layer, err := fs.Add(ctx, ".", ociv1.MediaTypeImageLayerGzip, src)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, "failed to add source directory to store", err)
	}

	annotations := make(map[string]string, len(opts.Annotations)+1)
	for k, v := range opts.Annotations {
		annotations[k] = v
	}
	if opts.ReproducibleTimestamp != "" {
		annotations[ociv1.AnnotationCreated] = opts.ReproducibleTimestamp
	}

	manifest, err := oras.PackManifest(ctx, fs, oras.PackManifestVersion1_1, ArtifactType, oras.PackManifestOptions{
		Layers:              []ociv1.Descriptor{layer},
		ManifestAnnotations: annotations,
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, "failed to pack manifest", err)
	}
	if err := fs.Tag(ctx, manifest, opts.Tag); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, "failed to tag manifest", err)
	}

	store, err := oci.New(opts.OutputDir)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, "failed to create OCI layout", err)
	}
	desc, err := oras.Copy(ctx, fs, opts.Tag, store, opts.Tag, oras.DefaultCopyOptions)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, "failed to write OCI layout", err)
	}

	slog.Debug("packaged artifact", "source", src, "layout", opts.OutputDir, "digest", desc.Digest.String())

	return &PackageResult{
		Digest:    desc.Digest.String(),
		Tag:       opts.Tag,
		StorePath: opts.OutputDir,
	}, nil
}

// PushFromStore copies the manifest tagged opts.Tag from the layout at
// storePath to the registry.
func PushFromStore(ctx context.Context, storePath string, opts PushOptions) (*PushResult, error) {
	if opts.Tag == "" {
		return nil, apperrors.New(apperrors.ErrCodeInvalidRequest, "tag is required to push an OCI artifact")
	}
	if err := ValidateRegistryReference(opts.Registry, opts.Repository); err != nil {
		return nil, err
	}

	host := stripProtocol(opts.Registry)
	store, err := oci.New(storePath)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, "failed to open OCI layout", err)
	}

	repo, err := remote.NewRepository(host + "/" + opts.Repository)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidRequest, "failed to initialize remote repository", err)
	}
	repo.PlainHTTP = opts.PlainHTTP
	repo.Client = createAuthClient(opts.PlainHTTP, opts.InsecureTLS)

	desc, err := oras.Copy(ctx, store, opts.Tag, repo, opts.Tag, oras.DefaultCopyOptions)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, "failed to push artifact to registry", err)
	}

	return &PushResult{
		Digest:    desc.Digest.String(),
		Reference: fmt.Sprintf("%s/%s:%s", host, opts.Repository, opts.Tag),
	}, nil
}

// PublishOptions configures Publish.
type PublishOptions struct {
	// SourceDir is the documentation directory to archive.
	SourceDir string
	// Target is a registry reference or a local layout directory.
	Target *Reference
	// Version becomes the tag when the target has none, and the
	// org.opencontainers.image.version annotation.
	Version     string
	PlainHTTP   bool
	InsecureTLS bool
	// ReproducibleTimestamp is passed to Package.
	ReproducibleTimestamp string
}

// Publish packages SourceDir and either leaves the layout at a local
// target or pushes it to the target registry.
func Publish(ctx context.Context, opts PublishOptions) (*PushResult, error) {
	if opts.Target == nil {
		return nil, apperrors.New(apperrors.ErrCodeInvalidRequest, "publish target is required")
	}

	ctx, cancel := context.WithTimeout(ctx, defaults.PublishTimeout)
	defer cancel()

	tag := opts.Target.Tag
	if tag == "" {
		tag = opts.Version
	}
	if tag == "" {
		tag = DefaultTag
	}
	target := opts.Target.WithTag(tag)

	annotations := map[string]string{
		ociv1.AnnotationTitle: "homelab discovery documents",
	}
	if opts.Version != "" {
		annotations[ociv1.AnnotationVersion] = opts.Version
	}

	layout := target.LocalPath
	if target.IsOCI {
		tmp, err := os.MkdirTemp("", "homelab-publish-*")
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrCodeInternal, "failed to create temp directory", err)
		}
		defer os.RemoveAll(tmp)
		layout = tmp
	}

	pkg, err := Package(ctx, PackageOptions{
		SourceDir:             opts.SourceDir,
		OutputDir:             layout,
		Tag:                   tag,
		Annotations:           annotations,
		ReproducibleTimestamp: opts.ReproducibleTimestamp,
	})
	if err != nil {
		return nil, err
	}

	if !target.IsOCI {
		slog.Info("discovery archive written", "layout", layout, "tag", tag, "digest", pkg.Digest)
		return &PushResult{Digest: pkg.Digest, Reference: layout + ":" + tag}, nil
	}

	slog.Info("pushing discovery archive", "reference", target.ImageReference())
	res, err := PushFromStore(ctx, layout, PushOptions{
		Registry:    target.Registry,
		Repository:  target.Repository,
		Tag:         target.Tag,
		PlainHTTP:   opts.PlainHTTP,
		InsecureTLS: opts.InsecureTLS,
	})
	if err != nil {
		return nil, err
	}
	slog.Info("discovery archive pushed", "reference", res.Reference, "digest", res.Digest)
	return res, nil
}

// stripProtocol removes an http:// or https:// prefix from a registry URL.
func stripProtocol(registry string) string {
	registry = strings.TrimPrefix(registry, "https://")
	return strings.TrimPrefix(registry, "http://")
}

// createAuthClient returns a registry client using Docker credentials.
func createAuthClient(plainHTTP, insecureTLS bool) *auth.Client {
	credStore, _ := credentials.NewStoreFromDocker(credentials.StoreOptions{})

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if !plainHTTP && insecureTLS {
		if transport.TLSClientConfig == nil {
			transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec
		} else {
			transport.TLSClientConfig.InsecureSkipVerify = true //nolint:gosec
		}
	}

	return &auth.Client{
		Client:     &http.Client{Transport: transport},
		Cache:      auth.NewCache(),
		Credential: credentials.Credential(credStore),
	}
}
