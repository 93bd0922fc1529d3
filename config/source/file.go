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

	"rivaas.dev/middleware/pagination/config/codec"
)

// File loads a configuration document from disk or from memory.
type File struct {
	path    string
	data    []byte
	decoder codec.Decoder
}

// NewFile returns a source reading path on every Load.
func NewFile(path string, decoder codec.Decoder) *File {
	return &File{path: path, decoder: decoder}
}

// NewFileContent returns a source decoding data, for embedded or generated
// configuration.
func NewFileContent(data []byte, decoder codec.Decoder) *File {
	return &File{data: data, decoder: decoder}
}

// Load reads and decodes the document. An empty document yields an empty tree.
func (f *File) Load(ctx context.Context) (map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data := f.data
	if f.path != "" {
		var err error
		if data, err = os.ReadFile(f.path); err != nil {
			return nil, fmt.Errorf("failed to read file: %w", err)
		}
	}

	tree := make(map[string]any)
	if len(data) == 0 {
		return tree, nil
	}
	if err := f.decoder.Decode(data, &tree); err != nil {
		return nil, fmt.Errorf("failed to decode file: %w", err)
	}

	return tree, nil
}

// String names the source in load errors.
func (f *File) String() string {
	if f.path != "" {
		return "file " + f.path
	}

	return "content"
}
