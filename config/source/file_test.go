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

//go:build !integration

package source

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rivaas.dev/middleware/pagination/config/codec"
)

func TestFile_Load(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "pagination.yaml")
	require.NoError(t, os.WriteFile(path, []byte("meta:\n  name: _meta\n"), 0o600))

	tree, err := NewFile(path, codec.YAMLCodec{}).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"meta": map[string]any{"name": "_meta"}}, tree)
}

func TestFile_LoadMissing(t *testing.T) {
	t.Parallel()

	_, err := NewFile(filepath.Join(t.TempDir(), "nope.yaml"), codec.YAMLCodec{}).Load(context.Background())
	require.Error(t, err)
	require.ErrorIs(t, err, os.ErrNotExist)
	assert.Contains(t, err.Error(), "failed to read file")
}

func TestFileContent_Load(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		data    string
		want    map[string]any
		wantErr string
	}{
		{name: "document", data: `{"results":{"name":"data"}}`, want: map[string]any{"results": map[string]any{"name": "data"}}},
		{name: "empty", data: "", want: map[string]any{}},
		{name: "malformed", data: `{"results":`, wantErr: "failed to decode file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tree, err := NewFileContent([]byte(tt.data), codec.JSONCodec{}).Load(context.Background())
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)

				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, tree)
		})
	}
}

func TestFile_LoadCanceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewFileContent([]byte("{}"), codec.JSONCodec{}).Load(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestFile_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "file a.toml", NewFile("a.toml", codec.TOMLCodec{}).String())
	assert.Equal(t, "content", NewFileContent(nil, codec.TOMLCodec{}).String())
}
