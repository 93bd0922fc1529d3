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

// Package codec holds the encoders and decoders used to read and write
// pagination configuration.
//
// Document codecs ([TypeJSON], [TypeYAML], [TypeTOML]) turn whole files into
// a map[string]any tree and back. [TypeEnvVar] turns KEY=value lines into the
// same kind of tree, splitting keys on underscores. Casters convert a single
// string into a bool, int, string or comma separated list so that values taken
// from the environment can be checked against the configuration schema.
//
// Codecs are looked up by [Type]:
//
//	dec, err := codec.GetDecoder(codec.TypeYAML)
//	if err != nil {
//	    return err
//	}
//	var tree map[string]any
//	err = dec.Decode(data, &tree)
//
// Additional formats can be added with [RegisterEncoder] and [RegisterDecoder].
package codec
