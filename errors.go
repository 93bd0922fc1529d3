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
	"fmt"
	"net/http"
)

var (
	// ErrInvalidConfig is the root of every configuration error returned by [New]
	// and [Config.Validate].
	ErrInvalidConfig = errors.New("pagination: invalid configuration")

	// ErrNilConfig is returned when a nil [Config] is validated or passed to [WithConfig].
	ErrNilConfig = errors.New("pagination: config is nil")

	// ErrInvalidPage is matched by the error returned when the page query
	// parameter cannot be parsed and the policy is [InvalidBadRequest].
	ErrInvalidPage = errors.New("Invalid page") //nolint:staticcheck // Message is part of the HTTP contract

	// ErrInvalidLimit is matched by the error returned when the limit query
	// parameter cannot be parsed and the policy is [InvalidBadRequest].
	ErrInvalidLimit = errors.New("Invalid limit") //nolint:staticcheck // Message is part of the HTTP contract

	// ErrResultsNotList signals a handler contract violation: the response body
	// is neither a JSON array nor an object carrying a "results" array.
	ErrResultsNotList = errors.New("pagination: the results must be an array")

	// ErrInvalidTotalCount signals a "totalCount" member that is not an integer.
	ErrInvalidTotalCount = errors.New("pagination: totalCount must be an integer")
)

// ConfigError describes a single configuration field that failed validation.
// Multiple ConfigErrors are joined with [errors.Join].
type ConfigError struct {
	Field string // Dotted path of the field (e.g., "query.limit.default")
	Rule  string // Validation rule that failed (e.g., "gt")
	Param string // Rule parameter, if any (e.g., "0")
	Value any    // Offending value
}

// Error returns a human-readable description of the failed rule.
func (e *ConfigError) Error() string {
	if e.Param != "" {
		return fmt.Sprintf("pagination: invalid configuration: %s failed %q=%s (got %v)", e.Field, e.Rule, e.Param, e.Value)
	}

	return fmt.Sprintf("pagination: invalid configuration: %s failed %q (got %v)", e.Field, e.Rule, e.Value)
}

// Unwrap returns [ErrInvalidConfig].
func (e *ConfigError) Unwrap() error {
	return ErrInvalidConfig
}

// InvalidQueryError is returned by [Config.Normalize] when an explicit page or
// limit value cannot be parsed and the policy is [InvalidBadRequest].
//
// It implements the rivaas.dev/errors ErrorType and ErrorCode interfaces so any
// formatter renders it as a 400 response with a stable code.
type InvalidQueryError struct {
	Param string // "page" or "limit"
	Value string // Raw query value
}

// Error returns "Invalid page" or "Invalid limit".
func (e *InvalidQueryError) Error() string {
	return e.Unwrap().Error()
}

// Unwrap returns [ErrInvalidPage] or [ErrInvalidLimit].
func (e *InvalidQueryError) Unwrap() error {
	if e.Param == paramLimit {
		return ErrInvalidLimit
	}

	return ErrInvalidPage
}

// HTTPStatus always returns 400.
func (e *InvalidQueryError) HTTPStatus() int {
	return http.StatusBadRequest
}

// Code returns "invalid_page" or "invalid_limit".
func (e *InvalidQueryError) Code() string {
	return "invalid_" + e.Param
}
