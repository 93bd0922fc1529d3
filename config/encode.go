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

package config

import (
	"fmt"

	"rivaas.dev/middleware/pagination"
	"rivaas.dev/middleware/pagination/config/codec"
)

// Encode renders cfg in the given document format. The output can be fed
// back to [Load] through [WithContent] or [WithFile].
func Encode(cfg *pagination.Config, format codec.Type) ([]byte, error) {
	if cfg == nil {
		return nil, pagination.ErrNilConfig
	}

	enc, err := codec.GetEncoder(format)
	if err != nil {
		return nil, err
	}

	tree, err := toTree(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to convert configuration: %w", err)
	}

	return enc.Encode(tree)
}
