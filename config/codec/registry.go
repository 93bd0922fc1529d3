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
	"fmt"
	"path/filepath"
	"strings"
	"sync"
)

type registry struct {
	mu         sync.RWMutex
	encoders   map[Type]Encoder
	decoders   map[Type]Decoder
	extensions map[string]Type
}

var defaultRegistry = &registry{
	encoders:   make(map[Type]Encoder),
	decoders:   make(map[Type]Decoder),
	extensions: make(map[string]Type),
}

// RegisterEncoder makes an encoder available under name, replacing any
// encoder previously registered with that name.
func RegisterEncoder(name Type, encoder Encoder) {
	defaultRegistry.mu.Lock()
	defer defaultRegistry.mu.Unlock()
	defaultRegistry.encoders[name] = encoder
}

// RegisterDecoder makes a decoder available under name, replacing any
// decoder previously registered with that name.
func RegisterDecoder(name Type, decoder Decoder) {
	defaultRegistry.mu.Lock()
	defer defaultRegistry.mu.Unlock()
	defaultRegistry.decoders[name] = decoder
}

// GetEncoder returns the encoder registered under name.
func GetEncoder(name Type) (Encoder, error) {
	defaultRegistry.mu.RLock()
	defer defaultRegistry.mu.RUnlock()

	encoder, ok := defaultRegistry.encoders[name]
	if !ok {
		return nil, fmt.Errorf("encoder not found for type: %s", name)
	}

	return encoder, nil
}

// GetDecoder returns the decoder registered under name.
func GetDecoder(name Type) (Decoder, error) {
	defaultRegistry.mu.RLock()
	defer defaultRegistry.mu.RUnlock()

	decoder, ok := defaultRegistry.decoders[name]
	if !ok {
		return nil, fmt.Errorf("decoder not found for type: %s", name)
	}

	return decoder, nil
}

// RegisterExtensions associates file extensions (".yaml", "yml", ...) with a
// document type so [TypeForPath] can recognise them. Matching ignores case.
func RegisterExtensions(name Type, exts ...string) {
	defaultRegistry.mu.Lock()
	defer defaultRegistry.mu.Unlock()
	for _, ext := range exts {
		ext = strings.ToLower(ext)
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		defaultRegistry.extensions[ext] = name
	}
}

// TypeForPath returns the document type registered for the extension of path.
func TypeForPath(path string) (Type, error) {
	ext := strings.ToLower(filepath.Ext(path))

	defaultRegistry.mu.RLock()
	defer defaultRegistry.mu.RUnlock()

	name, ok := defaultRegistry.extensions[ext]
	if !ok {
		return "", fmt.Errorf("no format registered for extension %q", ext)
	}

	return name, nil
}
