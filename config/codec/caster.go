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
	"strings"

	"github.com/spf13/cast"
)

// CastType is the scalar kind a [CasterCodec] produces.
type CastType string

// Cast kinds and the registry names of their casters.
const (
	CastTypeBool   CastType = "bool"
	TypeCasterBool Type     = "caster-bool"

	CastTypeInt   CastType = "int"
	TypeCasterInt Type     = "caster-int"

	CastTypeString   CastType = "string"
	TypeCasterString Type     = "caster-string"

	// CastTypeList splits on commas and trims every element.
	CastTypeList   CastType = "list"
	TypeCasterList Type     = "caster-list"
)

func init() {
	RegisterDecoder(TypeCasterBool, NewCaster(CastTypeBool))
	RegisterDecoder(TypeCasterInt, NewCaster(CastTypeInt))
	RegisterDecoder(TypeCasterString, NewCaster(CastTypeString))
	RegisterDecoder(TypeCasterList, NewCaster(CastTypeList))
}

// CasterCodec converts a single textual value, typically taken from an
// environment variable, into a typed scalar.
type CasterCodec struct {
	castType CastType
}

// NewCaster returns a caster producing castType values.
func NewCaster(castType CastType) *CasterCodec {
	return &CasterCodec{castType: castType}
}

// Decode implements [Decoder]. v must be a *any. On failure v is left untouched.
func (c *CasterCodec) Decode(data []byte, v any) error {
	out, ok := v.(*any)
	if !ok {
		return fmt.Errorf("CasterCodec.Decode: expected *any, got %T", v)
	}

	value := strings.TrimSpace(string(data))

	var (
		result any
		err    error
	)
	switch c.castType {
	case CastTypeBool:
		result, err = cast.ToBoolE(value)
	case CastTypeInt:
		result, err = cast.ToIntE(value)
	case CastTypeString:
		result, err = cast.ToStringE(value)
	case CastTypeList:
		result = splitList(value)
	default:
		err = fmt.Errorf("unknown cast type %q", c.castType)
	}
	if err != nil {
		return err
	}

	*out = result

	return nil
}

func splitList(value string) []any {
	if value == "" {
		return []any{}
	}

	parts := strings.Split(value, ",")
	list := make([]any, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			list = append(list, p)
		}
	}

	return list
}
