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
	"errors"
	"reflect"
	"slices"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// Wildcard is the include entry that puts every route in scope when it is
// the only entry.
const Wildcard = "*"

// InvalidPolicy selects what happens when an explicit page or limit value
// cannot be parsed as an integer.
type InvalidPolicy string

const (
	// InvalidDefaults silently replaces the unparsable value with the route default.
	InvalidDefaults InvalidPolicy = "defaults"

	// InvalidBadRequest rejects the request with 400 "Invalid page" / "Invalid limit".
	InvalidBadRequest InvalidPolicy = "badRequest"
)

// Config is the complete pagination configuration.
//
// A Config is resolved once, validated by [Config.Validate] and then only read.
// [New] keeps its own copy, so mutating a Config after passing it to
// [WithConfig] has no effect on a running middleware.
//
// The config struct tags are used by the rivaas.dev/middleware/pagination/config
// loader; the json tags name fields in validation errors.
type Config struct {
	Routes  RoutesConfig  `config:"routes" json:"routes"`
	Query   QueryConfig   `config:"query" json:"query"`
	Meta    MetaConfig    `config:"meta" json:"meta"`
	Results ResultsConfig `config:"results" json:"results"`
}

// RoutesConfig decides which routes are paginated.
type RoutesConfig struct {
	// Include lists route patterns in scope. Exactly [Wildcard] matches
	// every route.
	Include []string `config:"include" json:"include" validate:"dive,required"`

	// Exclude lists route patterns never in scope. Exclude wins over Include.
	Exclude []string `config:"exclude" json:"exclude" validate:"dive,required"`

	// Override replaces the default page and limit for specific routes.
	// Entries are scanned in declared order and the first match wins.
	Override []Override `config:"override" json:"override" validate:"dive"`
}

// Override is a per-route pair of page and limit defaults.
type Override struct {
	Routes []string `config:"routes" json:"routes" validate:"min=1,dive,required"`
	Page   int      `config:"page" json:"page" validate:"gt=0"`
	Limit  int      `config:"limit" json:"limit" validate:"gt=0"`
}

// QueryConfig names the query parameters and holds their defaults.
type QueryConfig struct {
	Pagination FlagParam     `config:"pagination" json:"pagination"`
	Page       IntParam      `config:"page" json:"page"`
	Limit      IntParam      `config:"limit" json:"limit"`
	Invalid    InvalidPolicy `config:"invalid" json:"invalid" validate:"oneof=defaults badRequest"`
}

// FlagParam is a boolean query parameter.
type FlagParam struct {
	Name    string `config:"name" json:"name" validate:"required"`
	Default bool   `config:"default" json:"default"`
}

// IntParam is a positive integer query parameter.
type IntParam struct {
	Name    string `config:"name" json:"name" validate:"required"`
	Default int    `config:"default" json:"default" validate:"gt=0"`
}

// MetaConfig shapes the metadata object of the envelope.
type MetaConfig struct {
	Name string `config:"name" json:"name" validate:"required"`

	// BaseURI replaces the request's own scheme and host in navigation links.
	BaseURI string `config:"baseUri" json:"baseUri" validate:"omitempty,url"`

	Page       MetaField `config:"page" json:"page"`
	Limit      MetaField `config:"limit" json:"limit"`
	Count      MetaField `config:"count" json:"count"`
	TotalCount MetaField `config:"totalCount" json:"totalCount"`
	PageCount  MetaField `config:"pageCount" json:"pageCount"`
	Self       MetaField `config:"self" json:"self"`
	Previous   MetaField `config:"previous" json:"previous"`
	Next       MetaField `config:"next" json:"next"`
	First      MetaField `config:"first" json:"first"`
	Last       MetaField `config:"last" json:"last"`
}

// MetaField toggles one metadata entry and names its key.
type MetaField struct {
	Active bool   `config:"active" json:"active"`
	Name   string `config:"name" json:"name" validate:"required"`
}

// ResultsConfig names the key holding the result items in the envelope.
type ResultsConfig struct {
	Name string `config:"name" json:"name" validate:"required"`
}

// DefaultConfig returns the configuration used when no option overrides it:
// every route in scope, page 1, limit 25, pagination on by default, invalid
// values replaced by defaults and every metadata field active under its own name.
func DefaultConfig() *Config {
	return &Config{
		Routes: RoutesConfig{
			Include:  []string{Wildcard},
			Exclude:  []string{},
			Override: []Override{},
		},
		Query: QueryConfig{
			Pagination: FlagParam{Name: "pagination", Default: true},
			Page:       IntParam{Name: "page", Default: 1},
			Limit:      IntParam{Name: "limit", Default: 25},
			Invalid:    InvalidDefaults,
		},
		Meta: MetaConfig{
			Name:       "meta",
			Page:       MetaField{Active: true, Name: "page"},
			Limit:      MetaField{Active: true, Name: "limit"},
			Count:      MetaField{Active: true, Name: "count"},
			TotalCount: MetaField{Active: true, Name: "totalCount"},
			PageCount:  MetaField{Active: true, Name: "pageCount"},
			Self:       MetaField{Active: true, Name: "self"},
			Previous:   MetaField{Active: true, Name: "previous"},
			Next:       MetaField{Active: true, Name: "next"},
			First:      MetaField{Active: true, Name: "first"},
			Last:       MetaField{Active: true, Name: "last"},
		},
		Results: ResultsConfig{Name: "results"},
	}
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}

	out := *c
	out.Routes.Include = slices.Clone(c.Routes.Include)
	out.Routes.Exclude = slices.Clone(c.Routes.Exclude)
	out.Routes.Override = make([]Override, len(c.Routes.Override))
	for i, o := range c.Routes.Override {
		o.Routes = slices.Clone(o.Routes)
		out.Routes.Override[i] = o
	}

	return &out
}

var (
	structValidator     *validator.Validate
	structValidatorOnce sync.Once
)

// configValidator returns the shared validator. Field names in errors follow
// the json tags so they read like the configuration keys.
func configValidator() *validator.Validate {
	structValidatorOnce.Do(func() {
		structValidator = validator.New(validator.WithRequiredStructEnabled())
		structValidator.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
			if name == "" || name == "-" {
				return fld.Name
			}

			return name
		})
	})

	return structValidator
}

// Validate checks every invariant of the configuration: non-empty names,
// positive defaults, a known invalid-value policy and non-empty override
// route lists. The returned error joins one [*ConfigError] per failed field
// and matches [ErrInvalidConfig].
func (c *Config) Validate() error {
	if c == nil {
		return ErrNilConfig
	}

	err := configValidator().Struct(c)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return errors.Join(ErrInvalidConfig, err)
	}

	errs := make([]error, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		errs = append(errs, &ConfigError{
			Field: fieldPath(fe.Namespace()),
			Rule:  fe.Tag(),
			Param: fe.Param(),
			Value: fe.Value(),
		})
	}

	return errors.Join(errs...)
}

// fieldPath strips the root struct name from a validator namespace
// ("Config.query.limit.default" becomes "query.limit.default").
func fieldPath(namespace string) string {
	if _, rest, ok := strings.Cut(namespace, "."); ok {
		return rest
	}

	return namespace
}
