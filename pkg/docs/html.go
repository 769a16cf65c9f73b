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
	"bytes"
	"os"
	"strings"
	"sync"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	apperrors "github.com/vsq/nix-homelab/pkg/errors"
	"github.com/vsq/nix-homelab/pkg/serializer"
)

var (
	markdownOnce     sync.Once
	markdownInstance goldmark.Markdown
)

func markdown() goldmark.Markdown {
	markdownOnce.Do(func() {
		markdownInstance = goldmark.New(goldmark.WithExtensions(extension.GFM))
	})
	return markdownInstance
}

// RenderHTML converts a markdown page to an HTML fragment.
func RenderHTML(source []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := markdown().Convert(source, &buf); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, "failed to render markdown", err)
	}
	return buf.Bytes(), nil
}

// RenderHTMLPage writes an HTML preview next to the markdown page of host
// and returns its path.
func (s *Synthesizer) RenderHTMLPage(host string) (string, error) {
	src := s.PagePath(host)
	data, err := os.ReadFile(src)
	if err != nil {
		return "", apperrors.Wrap(apperrors.ErrCodeArtifactMissing, "no page for "+host, err)
	}
	body, err := RenderHTML(data)
	if err != nil {
		return "", err
	}

	page := "<!DOCTYPE html>\n<html><head><meta charset=\"utf-8\"><title>" + host +
		"</title></head><body>\n" + string(body) + "</body></html>\n"
	dst := strings.TrimSuffix(src, ".md") + ".html"
	if err := serializer.WriteToFile(dst, []byte(page)); err != nil {
		return "", err
	}
	return dst, nil
}
