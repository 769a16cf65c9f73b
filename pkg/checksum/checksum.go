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

package checksum

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/zeebo/blake3"

	"github.com/vsq/nix-homelab/pkg/defaults"
	"github.com/vsq/nix-homelab/pkg/serializer"
)

// Digest returns the hex encoded BLAKE3 digest of data.
func Digest(data []byte) string {
	hasher := blake3.New()
	_, _ = hasher.Write(data)
	return fmt.Sprintf("%x", hasher.Sum(nil))
}

// GenerateChecksums writes a checksums file into dir listing the BLAKE3
// digest of every given file, as "<hex>  <relpath>" lines sorted by path.
// Files are given as absolute paths or paths relative to the working directory.
func GenerateChecksums(ctx context.Context, dir string, files []string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context cancelled: %w", err)
	}

	lines := make([]string, 0, len(files))
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read %s for checksum: %w", file, err)
		}

		relPath, err := filepath.Rel(dir, file)
		if err != nil {
			relPath = file
		}

		lines = append(lines, fmt.Sprintf("%s  %s", Digest(data), filepath.ToSlash(relPath)))
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i][66:] < lines[j][66:] })

	path := FilePath(dir)
	if err := serializer.WriteToFile(path, []byte(strings.Join(lines, "\n")+"\n")); err != nil {
		return fmt.Errorf("failed to write checksums: %w", err)
	}

	slog.Debug("checksums generated",
		"file_count", len(lines),
		"path", path,
	)

	return nil
}

// Verify re-hashes every file listed in the checksums file of dir and
// returns the relative paths whose content no longer matches.
func Verify(dir string) ([]string, error) {
	data, err := os.ReadFile(FilePath(dir))
	if err != nil {
		return nil, fmt.Errorf("failed to read checksums: %w", err)
	}

	var mismatched []string
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		want, rel, ok := strings.Cut(scanner.Text(), "  ")
		if !ok {
			continue
		}
		content, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(rel)))
		if err != nil || Digest(content) != want {
			mismatched = append(mismatched, rel)
		}
	}
	return mismatched, scanner.Err()
}

// FilePath returns the full path to the checksums file in dir.
func FilePath(dir string) string {
	return filepath.Join(dir, defaults.ChecksumFile)
}
