// Copyright 2025 The Rivaas Authors
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

package codec

import (
	"bufio"
	"bytes"
	"fmt"
	"slices"
	"strings"
)

// TypeEnvVar decodes KEY=value lines, one per line.
const TypeEnvVar Type = "env_var"

func init() {
	RegisterDecoder(TypeEnvVar, EnvVarCodec{})
}

// EnvVarCodec decodes environment style KEY=value lines into a nested tree.
// Keys are lowercased and split on underscores, so QUERY_LIMIT_DEFAULT=50
// becomes {"query": {"limit": {"default": "50"}}}. Values stay strings.
//
// Lines without '=' and keys made only of underscores are skipped. When a
// key needs a branch where an earlier key stored a value, the branch wins.
type EnvVarCodec struct{}

// Decode implements [Decoder]. v must be a *map[string]any.
func (EnvVarCodec) Decode(data []byte, v any) error {
	ptr, ok := v.(*map[string]any)
	if !ok {
		return fmt.Errorf("EnvVarCodec.Decode: expected *map[string]any, got %T", v)
	}

	tree := make(map[string]any)

	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		key, value, found := strings.Cut(scanner.Text(), "=")
		if !found {
			continue
		}

		path := envPath(key)
		if len(path) == 0 {
			continue
		}

		node := tree
		for _, part := range path[:len(path)-1] {
			child, isMap := node[part].(map[string]any)
			if !isMap {
				child = make(map[string]any)
				node[part] = child
			}
			node = child
		}

		node[path[len(path)-1]] = strings.TrimSpace(value)
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("EnvVarCodec.Decode: %w", err)
	}

	*ptr = tree

	return nil
}

func envPath(key string) []string {
	parts := strings.Split(strings.ToLower(strings.TrimSpace(key)), "_")

	return slices.DeleteFunc(parts, func(p string) bool { return p == "" })
}
