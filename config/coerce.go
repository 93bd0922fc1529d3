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
	"encoding/json"
	"math"

	"rivaas.dev/middleware/pagination"
	"rivaas.dev/middleware/pagination/config/codec"
)

// defaultTree renders pagination.DefaultConfig as a lowercased tree. Its leaf
// types drive coerce.
func defaultTree() (map[string]any, error) {
	tree, err := toTree(pagination.DefaultConfig())
	if err != nil {
		return nil, err
	}

	return normalizeMapKeys(tree), nil
}

// toTree converts cfg into a generic tree keyed by json names. Whole numbers
// are returned as int.
func toTree(cfg *pagination.Config) (map[string]any, error) {
	data, err := json.Marshal(cfg)
	if err != nil {
		return nil, err
	}

	var tree map[string]any
	if err = json.Unmarshal(data, &tree); err != nil {
		return nil, err
	}

	integers, _ := wholeNumbers(tree).(map[string]any)

	return integers, nil
}

func wholeNumbers(v any) any {
	switch v := v.(type) {
	case map[string]any:
		for k, item := range v {
			v[k] = wholeNumbers(item)
		}
	case []any:
		for i, item := range v {
			v[i] = wholeNumbers(item)
		}
	case float64:
		if v == math.Trunc(v) && math.Abs(v) <= math.MaxInt32 {
			return int(v)
		}
	}

	return v
}

// coerce converts string leaves of tree to the type of the matching default,
// so that values read from the environment pass the schema. Strings that do
// not convert are left alone for the schema to report.
func coerce(tree, defaults map[string]any) {
	for key, value := range tree {
		def, ok := defaults[key]
		if !ok {
			continue
		}

		switch v := value.(type) {
		case map[string]any:
			if nested, isMap := def.(map[string]any); isMap {
				coerce(v, nested)
			}
		case string:
			caster, known := casterFor(def)
			if !known {
				continue
			}
			dec, err := codec.GetDecoder(caster)
			if err != nil {
				continue
			}
			var typed any
			if dec.Decode([]byte(v), &typed) == nil {
				tree[key] = typed
			}
		}
	}
}

func casterFor(def any) (codec.Type, bool) {
	switch def.(type) {
	case bool:
		return codec.TypeCasterBool, true
	case int:
		return codec.TypeCasterInt, true
	case []any:
		return codec.TypeCasterList, true
	default:
		return "", false
	}
}
