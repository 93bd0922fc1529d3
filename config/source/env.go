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

package source

import (
	"context"
	"fmt"
	"os"
	"strings"

	"rivaas.dev/middleware/pagination/config/codec"
)

// OSEnvVar loads configuration from environment variables sharing a prefix.
// With prefix "PAGINATION_", PAGINATION_QUERY_LIMIT_DEFAULT=50 becomes
// query.limit.default = "50".
type OSEnvVar struct {
	prefix  string
	decoder codec.Decoder
}

// NewOSEnvVar returns a source reading variables that start with prefix.
// The prefix is case-sensitive and removed before decoding.
func NewOSEnvVar(prefix string) *OSEnvVar {
	return &OSEnvVar{prefix: prefix, decoder: codec.EnvVarCodec{}}
}

// Load snapshots the environment.
func (e *OSEnvVar) Load(ctx context.Context) (map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var lines []string
	for _, env := range os.Environ() {
		if rest, ok := strings.CutPrefix(env, e.prefix); ok {
			lines = append(lines, rest)
		}
	}

	var tree map[string]any
	if err := e.decoder.Decode([]byte(strings.Join(lines, "\n")), &tree); err != nil {
		return nil, fmt.Errorf("failed to decode environment variables: %w", err)
	}

	return tree, nil
}

// String names the source in load errors.
func (e *OSEnvVar) String() string {
	return "env " + e.prefix + "*"
}
