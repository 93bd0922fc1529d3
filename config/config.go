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
	"context"
	"errors"
	"fmt"
	"strings"

	"dario.cat/mergo"
	"github.com/go-viper/mapstructure/v2"

	"rivaas.dev/middleware/pagination"
	"rivaas.dev/middleware/pagination/config/codec"
	"rivaas.dev/middleware/pagination/config/source"
)

// Source is anything that yields a raw configuration tree.
type Source interface {
	Load(ctx context.Context) (map[string]any, error)
}

// Option adds a source to a [Load] call.
type Option func(l *loader) error

type loader struct {
	sources []Source
}

// WithSource appends a custom source.
func WithSource(src Source) Option {
	return func(l *loader) error {
		if src == nil {
			return errors.New("nil source")
		}
		l.sources = append(l.sources, src)

		return nil
	}
}

// WithFile reads a configuration file whose format is detected from the
// extension (.yaml, .yml, .json, .toml).
func WithFile(path string) Option {
	return func(l *loader) error {
		format, err := codec.TypeForPath(path)
		if err != nil {
			return fmt.Errorf("%w; use WithFileAs to name the format", err)
		}

		return WithFileAs(path, format)(l)
	}
}

// WithFileAs reads a configuration file in the given format.
func WithFileAs(path string, format codec.Type) Option {
	return func(l *loader) error {
		dec, err := codec.GetDecoder(format)
		if err != nil {
			return err
		}
		l.sources = append(l.sources, source.NewFile(path, dec))

		return nil
	}
}

// WithContent decodes an in-memory document, for example one embedded with
// go:embed.
func WithContent(data []byte, format codec.Type) Option {
	return func(l *loader) error {
		dec, err := codec.GetDecoder(format)
		if err != nil {
			return err
		}
		l.sources = append(l.sources, source.NewFileContent(data, dec))

		return nil
	}
}

// WithEnv reads environment variables starting with prefix. Underscores
// separate levels: with prefix "PAGINATION_", PAGINATION_QUERY_LIMIT_DEFAULT
// sets query.limit.default and PAGINATION_ROUTES_INCLUDE takes a comma
// separated list.
func WithEnv(prefix string) Option {
	return func(l *loader) error {
		l.sources = append(l.sources, source.NewOSEnvVar(prefix))

		return nil
	}
}

// Load builds a validated [pagination.Config].
//
// Sources are applied in the order given, later ones overriding earlier ones,
// on top of [pagination.DefaultConfig]. Keys are matched case-insensitively.
// The merged tree is checked against the configuration schema, decoded, and
// finally checked by [pagination.Config.Validate].
//
// Errors are [*Error] values; schema and validation failures also match
// [pagination.ErrInvalidConfig] with errors.Is.
func Load(ctx context.Context, opts ...Option) (*pagination.Config, error) {
	if ctx == nil {
		return nil, errors.New("context cannot be nil")
	}

	l := &loader{}
	for i, opt := range opts {
		if err := opt(l); err != nil {
			return nil, NewError(fmt.Sprintf("option[%d]", i), "apply", err)
		}
	}

	tree, err := l.load(ctx)
	if err != nil {
		return nil, err
	}

	moveResultsName(tree)

	defaults, err := defaultTree()
	if err != nil {
		return nil, NewError("defaults", "encode", err)
	}
	coerce(tree, defaults)

	if err = validateSchema(tree); err != nil {
		return nil, err
	}

	cfg := pagination.DefaultConfig()
	if err = decode(tree, cfg); err != nil {
		return nil, NewError("binding", "decode", err)
	}

	if err = cfg.Validate(); err != nil {
		var cfgErr *pagination.ConfigError
		if errors.As(err, &cfgErr) {
			return nil, NewFieldError("binding", cfgErr.Field, "validate", err)
		}

		return nil, NewError("binding", "validate", err)
	}

	return cfg, nil
}

// MustLoad is like [Load] but panics on error. Meant for main.
func MustLoad(ctx context.Context, opts ...Option) *pagination.Config {
	cfg, err := Load(ctx, opts...)
	if err != nil {
		panic(err)
	}

	return cfg
}

func (l *loader) load(ctx context.Context) (map[string]any, error) {
	merged := make(map[string]any)

	for i, src := range l.sources {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		tree, err := src.Load(ctx)
		if err != nil {
			return nil, NewError(sourceName(i, src), "load", err)
		}
		if tree == nil {
			continue
		}

		if err = mergo.Map(&merged, normalizeMapKeys(tree), mergo.WithOverride); err != nil {
			return nil, NewError(sourceName(i, src), "merge", err)
		}
	}

	return merged, nil
}

func sourceName(i int, src Source) string {
	if s, ok := src.(fmt.Stringer); ok {
		return fmt.Sprintf("source[%d] (%s)", i, s)
	}

	return fmt.Sprintf("source[%d]", i)
}

// normalizeMapKeys lowercases keys at every level, including maps inside lists.
func normalizeMapKeys(m map[string]any) map[string]any {
	normalized := make(map[string]any, len(m))
	for k, v := range m {
		normalized[strings.ToLower(k)] = normalizeValue(v)
	}

	return normalized
}

func normalizeValue(v any) any {
	switch v := v.(type) {
	case map[string]any:
		return normalizeMapKeys(v)
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = normalizeValue(item)
		}

		return out
	case []map[string]any:
		// TOML arrays of tables
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = normalizeMapKeys(item)
		}

		return out
	default:
		return v
	}
}

// moveResultsName accepts meta.results.name as a spelling of results.name.
// An explicit results.name wins.
func moveResultsName(tree map[string]any) {
	meta, ok := tree["meta"].(map[string]any)
	if !ok {
		return
	}
	legacy, ok := meta["results"]
	if !ok {
		return
	}
	delete(meta, "results")

	if _, exists := tree["results"]; !exists {
		tree["results"] = legacy
	}
}

func decode(tree map[string]any, cfg *pagination.Config) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "config",
		WeaklyTypedInput: true,
		ZeroFields:       true,
		DecodeHook:       mapstructure.StringToSliceHookFunc(","),
		Result:           cfg,
	})
	if err != nil {
		return fmt.Errorf("failed to create decoder: %w", err)
	}

	return dec.Decode(tree)
}
