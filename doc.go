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

// Package pagination provides middleware that normalizes pagination query
// parameters and wraps list responses in a paginated envelope.
//
// For every in-scope GET request the middleware resolves page and limit before
// the handler runs, and rewrites the handler's JSON array response into:
//
//	{
//	  "meta": {
//	    "page": 2, "limit": 5, "count": 5, "totalCount": 20, "pageCount": 4,
//	    "self":     "http://localhost/users?limit=5&page=2",
//	    "previous": "http://localhost/users?limit=5&page=1",
//	    "next":     "http://localhost/users?limit=5&page=3",
//	    "first":    "http://localhost/users?limit=5&page=1",
//	    "last":     "http://localhost/users?limit=5&page=4"
//	  },
//	  "results": [...]
//	}
//
// # Basic Usage
//
//	import "rivaas.dev/middleware/pagination"
//
//	r := router.MustNew()
//	r.Use(pagination.MustNew())
//
// # Request Normalization
//
// The query flag "pagination" ("true"/"false") turns pagination on or off per
// request; any other value means the configured default. Page and limit come
// from the query, then from the first matching route override, then from the
// global defaults (1 and 25). Unparsable values are replaced by the route's
// default (override or global), or rejected with 400 when
// [InvalidBadRequest] is configured.
// The normalized values are written back into the request query and are
// available to handlers through [Get].
//
// # Total Count
//
// Metadata that depends on the total number of items (totalCount, pageCount,
// next, last) is null unless the handler provides it, either by responding
// with [Page] or by calling [SetTotalCount] before writing a bare array.
//
// # Configuration Options
//
//   - Include / Exclude: Route patterns in scope (default: all routes)
//   - Override: Per-route page and limit defaults
//   - PageParam / LimitParam / PaginationParam: Query names and defaults
//   - InvalidPolicy: "defaults" or "badRequest"
//   - MetaName / ResultsName / MetaField: Envelope shape
//   - BaseURI: Scheme and host used in links
//   - Logger, ErrorFormatter, MeterProvider: Observability hooks
//
// Declarative configuration (YAML, TOML, JSON, environment variables) is
// loaded by the rivaas.dev/middleware/pagination/config package.
package pagination
