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
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"

	"rivaas.dev/router"
)

type contextKey struct{}

// Params is the pagination resolved for the current request.
type Params struct {
	Enabled bool
	Page    int
	Limit   int
}

// Offset returns the number of items before the current page, never negative.
// Offsets beyond the int range saturate at math.MaxInt.
func (p Params) Offset() int {
	if p.Page <= 1 || p.Limit <= 0 {
		return 0
	}
	if p.Page-1 > math.MaxInt/p.Limit {
		return math.MaxInt
	}

	return (p.Page - 1) * p.Limit
}

// requestState is stored in the request context for in-scope requests.
type requestState struct {
	params     Params
	totalCount *int
}

// New returns a middleware that paginates list responses of GET routes.
//
// Before the handler runs, the middleware resolves the pagination flag, page
// and limit from the query string (falling back to route or global defaults)
// and writes the normalized values back into the query. After the handler
// returns, a JSON array (or {"results": [...], "totalCount": n}) response is
// replaced by an envelope with metadata and navigation links.
//
// The configuration is validated once; New returns an error matching
// [ErrInvalidConfig] when it is not valid.
//
// Basic usage:
//
//	r := router.MustNew()
//	r.Use(pagination.MustNew())
//
//	r.GET("/users", func(c *router.Context) {
//	    p, _ := pagination.Get(c)
//	    users, total := store.List(p.Offset(), p.Limit)
//	    c.JSON(http.StatusOK, pagination.Page(users, total))
//	})
//
// Rejecting malformed values:
//
//	r.Use(pagination.MustNew(
//	    pagination.WithInvalidPolicy(pagination.InvalidBadRequest),
//	    pagination.WithExclude("/health"),
//	))
//
// A response body that is neither a JSON array nor a results object is a
// programming error: the middleware panics with an error wrapping
// [ErrResultsNotList]. Pair it with the recovery middleware.
func New(opts ...Option) (router.HandlerFunc, error) {
	// Apply options to default config
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.nilConfig {
		return nil, ErrNilConfig
	}
	if err := cfg.rules.Validate(); err != nil {
		return nil, err
	}

	inst, err := newInstruments(cfg.meterProvider)
	if err != nil {
		return nil, err
	}

	rules := cfg.rules

	return func(c *router.Context) {
		route := c.RoutePattern()
		if route == "" {
			route = c.Request.URL.Path
		}

		query := c.Request.URL.Query()
		decision, err := rules.Normalize(c.Request.Method, route, query)
		if err != nil {
			inst.record(c.Request.Context(), outcomeRejected)
			reject(c, cfg, err)

			return
		}

		// Early exit: method or route out of scope
		if !decision.Applies {
			c.Next()
			return
		}

		c.Request.URL.RawQuery = query.Encode()

		state := &requestState{params: Params{
			Enabled: decision.Enabled,
			Page:    decision.Page,
			Limit:   decision.Limit,
		}}
		ctx := context.WithValue(c.Request.Context(), contextKey{}, state)
		c.Request = c.Request.WithContext(ctx)

		annotateSpan(ctx, decision)
		if cfg.logger != nil && len(decision.Replaced) > 0 {
			cfg.logger.DebugContext(ctx, "invalid pagination values replaced by defaults",
				"route", route,
				"params", decision.Replaced,
				"page", decision.Page,
				"limit", decision.Limit,
			)
		}

		// Early exit: pagination turned off for this request
		if !decision.Enabled {
			inst.record(ctx, outcomeDisabled)
			c.Next()

			return
		}

		cw := &captureWriter{ResponseWriter: c.Response}
		originalWriter := c.Response
		c.Response = cw
		func() {
			defer func() { c.Response = originalWriter }()
			c.Next()
		}()

		status := cw.Status()
		if status < http.StatusOK || status >= http.StatusMultipleChoices || cw.buf.Len() == 0 {
			inst.record(ctx, outcomePassthrough)
			if err := cw.passthrough(); err != nil && cfg.logger != nil {
				cfg.logger.ErrorContext(ctx, "pagination passthrough write failed", "error", err)
			}

			return
		}

		payload, err := DecodePayload(cw.buf.Bytes())
		if err != nil {
			panic(fmt.Errorf("pagination: %s %s: %w", c.Request.Method, route, err))
		}

		envelope := rules.Envelope(EnvelopeInput{
			Origin:     c.BaseURL(),
			Path:       c.Request.URL.Path,
			Query:      c.Request.URL.Query(),
			Page:       decision.Page,
			Limit:      decision.Limit,
			Payload:    payload,
			TotalCount: state.totalCount,
		})

		body, err := marshalEnvelope(envelope)
		if err != nil {
			panic(fmt.Errorf("pagination: encode envelope: %w", err))
		}

		inst.record(ctx, outcomeEnveloped)
		inst.recordItems(ctx, len(payload.Items()))

		if err := cw.replace(body); err != nil && cfg.logger != nil {
			cfg.logger.ErrorContext(ctx, "pagination envelope write failed", "error", err)
		}
	}, nil
}

// MustNew is like [New] but panics if the configuration is invalid.
// Use it where the middleware is assembled at startup.
func MustNew(opts ...Option) router.HandlerFunc {
	h, err := New(opts...)
	if err != nil {
		panic(fmt.Sprintf("pagination: failed to create middleware: %v", err))
	}

	return h
}

// reject writes err through the configured formatter and stops the chain.
func reject(c *router.Context, cfg *config, err error) {
	if cfg.logger != nil {
		cfg.logger.DebugContext(c.Request.Context(), "pagination request rejected",
			"error", err,
			"path", c.Request.URL.Path,
		)
	}

	response := cfg.errorFormatter.Format(c.Request, err)
	for key, values := range response.Headers {
		for _, value := range values {
			c.Response.Header().Add(key, value)
		}
	}
	c.Response.Header().Set("Content-Type", response.ContentType)
	c.Response.WriteHeader(response.Status)
	if encErr := json.NewEncoder(c.Response).Encode(response.Body); encErr != nil && cfg.logger != nil {
		cfg.logger.ErrorContext(c.Request.Context(), "failed to write pagination error response", "error", encErr)
	}

	c.Abort()
}

// Get returns the pagination resolved for the current request. The boolean
// is false when the middleware did not handle the request (other method,
// route out of scope, or middleware not installed).
//
// Example:
//
//	func listUsers(c *router.Context) {
//	    p, ok := pagination.Get(c)
//	    if !ok || !p.Enabled {
//	        c.JSON(http.StatusOK, store.AllUsers())
//	        return
//	    }
//	    c.JSON(http.StatusOK, store.Users(p.Offset(), p.Limit))
//	}
func Get(c *router.Context) (Params, bool) {
	if state, ok := c.Request.Context().Value(contextKey{}).(*requestState); ok {
		return state.params, true
	}

	return Params{}, false
}

// SetTotalCount records the total number of items across all pages for a
// handler that responds with a bare array. A "totalCount" member in the
// response takes precedence. It reports false when the middleware did not
// handle the request.
//
// Example:
//
//	func listUsers(c *router.Context) {
//	    users, total := store.List(...)
//	    pagination.SetTotalCount(c, total)
//	    c.JSON(http.StatusOK, users)
//	}
func SetTotalCount(c *router.Context, total int) bool {
	state, ok := c.Request.Context().Value(contextKey{}).(*requestState)
	if !ok {
		return false
	}
	state.totalCount = &total

	return true
}
