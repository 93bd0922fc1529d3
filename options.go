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

package pagination

import (
	"log/slog"

	"go.opentelemetry.io/otel/metric"

	"rivaas.dev/errors"
)

// Option defines functional options for pagination middleware configuration.
type Option func(*config)

// config holds the configuration for the pagination middleware.
type config struct {
	// rules is the pagination configuration shared by both stages
	rules *Config

	// nilConfig records a WithConfig(nil) call so New can reject it
	nilConfig bool

	// logger is the structured logger for debug and error events
	logger *slog.Logger

	// errorFormatter renders 400 responses for invalid page/limit values
	errorFormatter errors.Formatter

	// meterProvider supplies the pagination instruments
	meterProvider metric.MeterProvider
}

// defaultConfig returns the default configuration for the pagination middleware.
func defaultConfig() *config {
	return &config{
		rules:          DefaultConfig(),
		errorFormatter: errors.NewSimple(),
	}
}

// MetaKey identifies one metadata field of the envelope.
type MetaKey string

// Metadata fields.
const (
	MetaPage       MetaKey = "page"
	MetaLimit      MetaKey = "limit"
	MetaCount      MetaKey = "count"
	MetaTotalCount MetaKey = "totalCount"
	MetaPageCount  MetaKey = "pageCount"
	MetaSelf       MetaKey = "self"
	MetaPrevious   MetaKey = "previous"
	MetaNext       MetaKey = "next"
	MetaFirst      MetaKey = "first"
	MetaLast       MetaKey = "last"
)

// field returns the MetaField for key, or nil for an unknown key.
func (m *MetaConfig) field(key MetaKey) *MetaField {
	switch key {
	case MetaPage:
		return &m.Page
	case MetaLimit:
		return &m.Limit
	case MetaCount:
		return &m.Count
	case MetaTotalCount:
		return &m.TotalCount
	case MetaPageCount:
		return &m.PageCount
	case MetaSelf:
		return &m.Self
	case MetaPrevious:
		return &m.Previous
	case MetaNext:
		return &m.Next
	case MetaFirst:
		return &m.First
	case MetaLast:
		return &m.Last
	default:
		return nil
	}
}

// WithConfig replaces the whole pagination configuration, typically one
// produced by the config sub-package. The configuration is copied. Options
// given after WithConfig refine the copy.
//
// Example:
//
//	cfg := config.MustLoad(ctx, config.WithFile("pagination.yaml"))
//	r.Use(pagination.MustNew(pagination.WithConfig(cfg)))
func WithConfig(c *Config) Option {
	return func(cfg *config) {
		if c == nil {
			cfg.nilConfig = true
			return
		}
		cfg.rules = c.Clone()
	}
}

// WithInclude sets the route patterns in scope. Pass only [Wildcard] for all routes.
// Default: ["*"]
//
// Example:
//
//	pagination.New(pagination.WithInclude("/users", "/orders"))
func WithInclude(routes ...string) Option {
	return func(cfg *config) {
		cfg.rules.Routes.Include = append([]string{}, routes...)
	}
}

// WithExclude sets route patterns that are never paginated, even when included.
//
// Example:
//
//	pagination.New(pagination.WithExclude("/health", "/metrics"))
func WithExclude(routes ...string) Option {
	return func(cfg *config) {
		cfg.rules.Routes.Exclude = append([]string{}, routes...)
	}
}

// WithOverride adds per-route page and limit defaults. Overrides are checked
// in the order they are added; the first one listing the route wins.
//
// Example:
//
//	pagination.New(pagination.WithOverride(1, 100, "/export"))
func WithOverride(page, limit int, routes ...string) Option {
	return func(cfg *config) {
		cfg.rules.Routes.Override = append(cfg.rules.Routes.Override, Override{
			Routes: append([]string{}, routes...),
			Page:   page,
			Limit:  limit,
		})
	}
}

// WithPaginationParam sets the name and default of the query flag that turns
// pagination on or off per request.
// Default: "pagination", true
func WithPaginationParam(name string, enabledByDefault bool) Option {
	return func(cfg *config) {
		cfg.rules.Query.Pagination = FlagParam{Name: name, Default: enabledByDefault}
	}
}

// WithPageParam sets the name and default of the page query parameter.
// Default: "page", 1
func WithPageParam(name string, def int) Option {
	return func(cfg *config) {
		cfg.rules.Query.Page = IntParam{Name: name, Default: def}
	}
}

// WithLimitParam sets the name and default of the limit query parameter.
// Default: "limit", 25
//
// Example:
//
//	pagination.New(pagination.WithLimitParam("per_page", 50))
func WithLimitParam(name string, def int) Option {
	return func(cfg *config) {
		cfg.rules.Query.Limit = IntParam{Name: name, Default: def}
	}
}

// WithInvalidPolicy selects how unparsable page or limit values are handled.
// Default: [InvalidDefaults]
//
// Example:
//
//	pagination.New(pagination.WithInvalidPolicy(pagination.InvalidBadRequest))
func WithInvalidPolicy(policy InvalidPolicy) Option {
	return func(cfg *config) {
		cfg.rules.Query.Invalid = policy
	}
}

// WithMetaName sets the envelope key of the metadata object.
// Default: "meta"
func WithMetaName(name string) Option {
	return func(cfg *config) {
		cfg.rules.Meta.Name = name
	}
}

// WithResultsName sets the envelope key of the result items.
// Default: "results"
func WithResultsName(name string) Option {
	return func(cfg *config) {
		cfg.rules.Results.Name = name
	}
}

// WithBaseURI sets the scheme and host used in navigation links instead of the
// request's own, e.g. when the service runs behind a gateway.
//
// Example:
//
//	pagination.New(pagination.WithBaseURI("https://api.example.com"))
func WithBaseURI(uri string) Option {
	return func(cfg *config) {
		cfg.rules.Meta.BaseURI = uri
	}
}

// WithMetaField activates a metadata field under the given name.
// Unknown keys are ignored.
//
// Example:
//
//	pagination.New(pagination.WithMetaField(pagination.MetaTotalCount, "total"))
func WithMetaField(key MetaKey, name string) Option {
	return func(cfg *config) {
		if f := cfg.rules.Meta.field(key); f != nil {
			*f = MetaField{Active: true, Name: name}
		}
	}
}

// WithoutMetaFields deactivates metadata fields.
//
// Example:
//
//	pagination.New(pagination.WithoutMetaFields(pagination.MetaSelf, pagination.MetaFirst))
func WithoutMetaFields(keys ...MetaKey) Option {
	return func(cfg *config) {
		for _, key := range keys {
			if f := cfg.rules.Meta.field(key); f != nil {
				f.Active = false
			}
		}
	}
}

// WithLogger sets the slog.Logger for debug and error events.
// If not provided, the middleware logs nothing.
//
// Example:
//
//	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
//	r.Use(pagination.MustNew(pagination.WithLogger(logger)))
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *config) {
		cfg.logger = logger
	}
}

// WithErrorFormatter sets the formatter for 400 responses on invalid page or
// limit values.
// Default: errors.NewSimple()
//
// Example:
//
//	pagination.New(pagination.WithErrorFormatter(errors.NewRFC9457("https://api.example.com/problems")))
func WithErrorFormatter(formatter errors.Formatter) Option {
	return func(cfg *config) {
		if formatter != nil {
			cfg.errorFormatter = formatter
		}
	}
}

// WithMeterProvider sets the OpenTelemetry meter provider for the pagination
// instruments. Default: the global provider.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(cfg *config) {
		cfg.meterProvider = mp
	}
}
